package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for arg, want := range map[string]Kind{
		"algo":         KindAlgo,
		"dataset":      KindDataset,
		"data_manager": KindDataset,
		"data_sample":  KindDataSample,
		"Traintuple":   KindTraintuple,
		"compute_plan": KindComputePlan,
	} {
		got, err := ParseKind(arg)
		require.NoError(t, err, arg)
		assert.Equal(t, want, got, arg)
	}

	_, err := ParseKind("model")
	require.Error(t, err)
}

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/algo/", r.URL.Path)
		require.Equal(t, "algo:name:foo-OR-algo:name:bar", r.URL.Query().Get("search"))
		// Search endpoints answer with one array per OR group.
		fmt.Fprint(w, `[[{"key": "k1", "name": "foo"}], [{"key": "k2", "name": "bar"}]]`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	assets, err := c.List(context.Background(), KindAlgo, []string{"algo:name:foo", "algo:name:bar"})
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "k1", Key(assets[0]))
	assert.Equal(t, "k2", Key(assets[1]))
}

func TestListFlat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.Query().Get("search"))
		fmt.Fprint(w, `[{"key": "k1"}, {"key": "k2"}, {"key": "k3"}]`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	assets, err := c.List(context.Background(), KindDataset, nil)
	require.NoError(t, err)
	require.Len(t, assets, 3)
}

func TestAddAlgoMultipart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM python:3.7"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "algo.py"), []byte("print('train')"), 0o644))
	description := filepath.Join(t.TempDir(), "description.md")
	require.NoError(t, os.WriteFile(description, []byte("# Constant death predictor"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/algo/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("json")), &payload))
		assert.Equal(t, "Constant death predictor", payload["name"])

		_, _, err := r.FormFile("file")
		assert.NoError(t, err, "archive part missing")
		_, _, err = r.FormFile("description")
		assert.NoError(t, err, "description part missing")

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"pkhash": "algokey"})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	asset, err := c.AddAlgo(context.Background(), AlgoSpec{
		Name:        "Constant death predictor",
		File:        dir,
		Description: description,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "algokey", Key(asset))
}

func TestAddTraintupleConflictExistOK(t *testing.T) {
	var gets int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"pkhash": "existing"})
		case http.MethodGet:
			gets++
			require.Equal(t, "/traintuple/existing/", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"key": "existing", "status": "done"})
		}
	}))
	defer server.Close()

	spec := TraintupleSpec{
		AlgoKey:             "a",
		ObjectiveKey:        "o",
		DataManagerKey:      "d",
		TrainDataSampleKeys: []string{"s1"},
	}

	c := newTestClient(t, server.URL)

	// Without exist-ok the conflict is an error.
	_, err := c.AddTraintuple(context.Background(), spec, false)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// With exist-ok the existing tuple is fetched instead.
	asset, err := c.AddTraintuple(context.Background(), spec, true)
	require.NoError(t, err)
	assert.Equal(t, "existing", Key(asset))
	assert.Equal(t, 1, gets)
}

func TestAddDataSamples(t *testing.T) {
	samples := make([]string, 3)
	parent := t.TempDir()
	for i := range samples {
		dir := filepath.Join(parent, fmt.Sprintf("sample%d", i))
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "x.npy"), []byte{1, 2, 3}, 0o644))
		samples[i] = dir
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data_sample/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("json")), &payload))
		assert.Equal(t, []interface{}{"dmkey"}, payload["data_manager_keys"])
		assert.Equal(t, true, payload["test_only"])

		// One archive part per sample folder.
		assert.Len(t, r.MultipartForm.File, 3)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"keys": []string{"k0", "k1", "k2"}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.AddDataSamples(context.Background(), DataSampleSpec{
		Paths:           samples,
		DataManagerKeys: []string{"dmkey"},
		TestOnly:        true,
	}, false)
	require.NoError(t, err)
}

func TestAddDataSamplesSharedBaseName(t *testing.T) {
	// One train folder per node, the layout multi-node setups produce.
	var samples []string
	for _, node := range []string{"node1", "node2"} {
		dir := filepath.Join(t.TempDir(), node, "train")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "x.npy"), []byte(node), 0o644))
		samples = append(samples, dir)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		// Both folders must be uploaded despite the shared base name.
		assert.Len(t, r.MultipartForm.File, 2)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"keys": []string{"k0", "k1"}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.AddDataSamples(context.Background(), DataSampleSpec{
		Paths:           samples,
		DataManagerKeys: []string{"dmkey"},
	}, false)
	require.NoError(t, err)
}

func TestDescribe(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data_manager/dkey/":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"key": "dkey",
				"description": map[string]interface{}{
					"storageAddress": server.URL + "/data_manager/dkey/description/",
				},
			})
		case "/data_manager/dkey/description/":
			fmt.Fprint(w, "# Titanic dataset")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	description, err := c.Describe(context.Background(), KindDataset, "dkey")
	require.NoError(t, err)
	assert.Equal(t, "# Titanic dataset", description)

	_, err = c.Describe(context.Background(), KindTraintuple, "tkey")
	require.ErrorContains(t, err, "no description")
}

func TestDownload(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data_manager/dkey/":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"key": "dkey",
				"opener": map[string]interface{}{
					"storageAddress": server.URL + "/data_manager/dkey/opener/",
				},
			})
		case "/data_manager/dkey/opener/":
			fmt.Fprint(w, "import numpy as np")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	folder := t.TempDir()
	c := newTestClient(t, server.URL)
	path, err := c.Download(context.Background(), KindDataset, "dkey", folder)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(folder, "opener.py"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "import numpy as np", string(content))

	_, err = c.Download(context.Background(), KindTesttuple, "tkey", folder)
	require.ErrorContains(t, err, "cannot be downloaded")
}

func TestLeaderboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/objective/okey/leaderboard/", r.URL.Path)
		require.Equal(t, "asc", r.URL.Query().Get("sort"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"objective":  map[string]interface{}{"key": "okey"},
			"testtuples": []interface{}{},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	board, err := c.Leaderboard(context.Background(), "okey", "asc")
	require.NoError(t, err)
	assert.NotNil(t, board["objective"])

	_, err = c.Leaderboard(context.Background(), "okey", "sideways")
	require.ErrorContains(t, err, "invalid sort")
}

func TestUpdateDataSamples(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data_sample/bulk_update/", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []interface{}{"s1", "s2"}, payload["data_sample_keys"])

		json.NewEncoder(w).Encode(map[string]interface{}{"keys": []string{"s1", "s2"}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.UpdateDataSamples(context.Background(), []string{"s1", "s2"}, []string{"dm"})
	require.NoError(t, err)
}

func TestUpdateDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data_manager/dkey/update_ledger/", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "okey", payload["objective_key"])

		json.NewEncoder(w).Encode(map[string]interface{}{"key": "dkey"})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	asset, err := c.UpdateDataset(context.Background(), "dkey", "okey")
	require.NoError(t, err)
	assert.Equal(t, "dkey", Key(asset))
}

func TestLookup(t *testing.T) {
	asset := Asset{
		"testDataset": map[string]interface{}{
			"dataManagerKey": "dm",
		},
	}
	assert.Equal(t, "dm", Lookup(asset, "testDataset.dataManagerKey"))
	assert.Nil(t, Lookup(asset, "testDataset.missing"))
	assert.Nil(t, Lookup(asset, "missing.deep.ref"))
}
