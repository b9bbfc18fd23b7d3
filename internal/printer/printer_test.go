package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owkin/substra/internal/sdk"
)

func TestPrintListTable(t *testing.T) {
	items := []sdk.Asset{
		{"key": "abc", "name": "Simple algo"},
		{"key": "def", "name": "X"},
	}

	var buf bytes.Buffer
	require.NoError(t, ForKind(sdk.KindAlgo).PrintList(&buf, items, false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "KEY     NAME", lines[0])
	assert.Equal(t, "abc     Simple algo", lines[1])
	assert.Equal(t, "def     X", lines[2])
}

func TestPrintListRaw(t *testing.T) {
	items := []sdk.Asset{{"key": "abc"}}

	var buf bytes.Buffer
	require.NoError(t, ForKind(sdk.KindAlgo).PrintList(&buf, items, true))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "abc", decoded[0]["key"])
}

func TestPrintSingleObjective(t *testing.T) {
	item := sdk.Asset{
		"key":  "okey",
		"name": "Titanic: survival prediction",
		"metrics": map[string]interface{}{
			"name": "accuracy",
		},
		"testDataset": map[string]interface{}{
			"dataManagerKey": "dkey",
			"dataSampleKeys": []interface{}{"s1", "s2"},
		},
		"permissions": []interface{}{},
	}

	var buf bytes.Buffer
	require.NoError(t, ForKind(sdk.KindObjective).PrintSingle(&buf, item, false, false))
	out := buf.String()

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Titanic: survival prediction")
	assert.Contains(t, out, "accuracy")
	// Collapsed key list and owner-only permissions.
	assert.Contains(t, out, "2 data sample keys")
	assert.Contains(t, out, "owner only")
	// Follow-up hints.
	assert.Contains(t, out, "substra download objective okey")
	assert.Contains(t, out, "substra describe objective okey")
	assert.Contains(t, out, "substra leaderboard okey")
}

func TestPrintSingleExpand(t *testing.T) {
	item := sdk.Asset{
		"key": "okey",
		"testDataset": map[string]interface{}{
			"dataSampleKeys": []interface{}{"s1", "s2"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ForKind(sdk.KindObjective).PrintSingle(&buf, item, false, true))
	out := buf.String()

	assert.NotContains(t, out, "data sample keys")
	assert.Contains(t, out, "- s1")
	assert.Contains(t, out, "- s2")
}

func TestPrintSingleMissingValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ForKind(sdk.KindAlgo).PrintSingle(&buf, sdk.Asset{"key": "k"}, false, false))

	// Missing fields render as None, like empty lists do.
	assert.Contains(t, buf.String(), "NAME")
	assert.Contains(t, buf.String(), "None")
}

func TestPrintSingleTraintupleHasNoDescriptionHint(t *testing.T) {
	var buf bytes.Buffer
	item := sdk.Asset{"key": "tkey", "status": "doing"}
	require.NoError(t, ForKind(sdk.KindTraintuple).PrintSingle(&buf, item, false, false))

	assert.NotContains(t, buf.String(), "substra describe")
	assert.NotContains(t, buf.String(), "substra download")
}

func TestComputePlanFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	item := sdk.Asset{"computePlanID": "cp1"}
	require.NoError(t, ForKind(sdk.KindComputePlan).PrintSingle(&buf, item, false, false))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "cp1", decoded["computePlanID"])
}

func TestPrintLeaderboard(t *testing.T) {
	board := sdk.Asset{
		"objective": map[string]interface{}{
			"key":  "okey",
			"name": "Titanic: survival prediction",
		},
		"testtuples": []interface{}{
			map[string]interface{}{
				"perf": 0.825,
				"algo": map[string]interface{}{"name": "Random forest"},
				"model": map[string]interface{}{
					"traintupleKey": "tkey",
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintLeaderboard(&buf, board, false, false))
	out := buf.String()

	assert.Contains(t, out, "========== OBJECTIVE ==========")
	assert.Contains(t, out, "========= LEADERBOARD =========")
	assert.Contains(t, out, "Random forest")
	assert.Contains(t, out, "0.825")
	assert.Contains(t, out, "tkey")
}

func TestIntegerPerfFormatting(t *testing.T) {
	// JSON numbers decode as float64; whole values must not gain a decimal.
	assert.Equal(t, "1", formatValue(float64(1)))
	assert.Equal(t, "0.825", formatValue(0.825))
	assert.Equal(t, "None", formatValue(nil))
}
