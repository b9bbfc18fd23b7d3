package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// maxConcurrentArchives bounds parallel packaging of data sample folders.
const maxConcurrentArchives = 4

// AddAlgo registers an algo. The spec file may be a prebuilt archive or a
// directory containing a Dockerfile, in which case it is packaged first.
func (c *Client) AddAlgo(ctx context.Context, spec AlgoSpec, existOK bool) (Asset, error) {
	file, cleanup, err := c.resolveArchive(ctx, spec.File, true)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.add(ctx, KindAlgo, spec, map[string]string{
		"file":        file,
		"description": spec.Description,
	}, existOK)
}

// AddDataset registers a dataset (data manager).
func (c *Client) AddDataset(ctx context.Context, spec DatasetSpec, existOK bool) (Asset, error) {
	return c.add(ctx, KindDataset, spec, map[string]string{
		"data_opener": spec.DataOpener,
		"description": spec.Description,
	}, existOK)
}

// AddObjective registers an objective. Metrics may be a prebuilt archive or
// a directory containing a Dockerfile.
func (c *Client) AddObjective(ctx context.Context, spec ObjectiveSpec, existOK bool) (Asset, error) {
	metrics, cleanup, err := c.resolveArchive(ctx, spec.Metrics, true)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.add(ctx, KindObjective, spec, map[string]string{
		"metrics":     metrics,
		"description": spec.Description,
	}, existOK)
}

// AddDataSamples registers the data sample folders of the spec. Folders are
// packaged concurrently, then registered in a single call.
func (c *Client) AddDataSamples(ctx context.Context, spec DataSampleSpec, existOK bool) (Asset, error) {
	archives := make([]*Archive, len(spec.Paths))
	defer func() {
		for _, a := range archives {
			if a != nil {
				a.Remove()
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentArchives)
	for i, path := range spec.Paths {
		i, path := i, path
		g.Go(func() error {
			archive, err := PrepareArchive(gctx, path)
			if err != nil {
				return fmt.Errorf("packaging data sample %s: %w", path, err)
			}
			archives[i] = archive
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Folders from different parents can share a base name; every archive
	// needs its own form field.
	files := map[string]string{}
	for i, archive := range archives {
		base := filepath.Base(spec.Paths[i])
		name := base
		for n := 1; ; n++ {
			if _, ok := files[name]; !ok {
				break
			}
			name = fmt.Sprintf("%s_%d", base, n)
		}
		files[name] = archive.Path
		klog.V(1).Infof("data sample %s packaged (md5 %s)", name, archive.MD5Checksum)
	}

	return c.add(ctx, KindDataSample, spec, files, existOK)
}

// AddTraintuple registers a training task.
func (c *Client) AddTraintuple(ctx context.Context, spec TraintupleSpec, existOK bool) (Asset, error) {
	return c.add(ctx, KindTraintuple, spec, nil, existOK)
}

// AddTesttuple registers a testing task.
func (c *Client) AddTesttuple(ctx context.Context, spec TesttupleSpec, existOK bool) (Asset, error) {
	return c.add(ctx, KindTesttuple, spec, nil, existOK)
}

// AddComputePlan registers a full training workflow.
func (c *Client) AddComputePlan(ctx context.Context, spec ComputePlanSpec) (Asset, error) {
	return c.add(ctx, KindComputePlan, spec, nil, false)
}

// resolveArchive returns the archive path for a file spec entry. A
// directory is packaged into a temp tar.gz (requiring a Dockerfile when
// dockerfile is set); a regular file is used as-is.
func (c *Client) resolveArchive(ctx context.Context, path string, dockerfile bool) (string, func(), error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, func() {}, nil
	}

	var archive *Archive
	if dockerfile {
		archive, err = PrepareAlgoArchive(ctx, path)
	} else {
		archive, err = PrepareArchive(ctx, path)
	}
	if err != nil {
		return "", nil, err
	}
	return archive.Path, archive.Remove, nil
}

// add registers an asset. Assets carrying files are posted as
// multipart/form-data with the JSON payload under the "json" field;
// pure-metadata assets are posted as JSON.
func (c *Client) add(ctx context.Context, kind Kind, payload interface{}, files map[string]string, existOK bool) (Asset, error) {
	var resp *http.Response
	var err error
	if len(files) > 0 {
		resp, err = c.postMultipart(ctx, c.assetURL(kind), payload, files)
	} else {
		resp, err = c.postJSON(ctx, c.assetURL(kind), payload)
	}
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var asset Asset
		if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return asset, nil

	case resp.StatusCode == http.StatusConflict && existOK:
		// The backend includes the key of the existing asset in the
		// conflict body; fall back to fetching it.
		key := conflictingKey(resp.Body)
		if key == "" {
			return nil, &HTTPError{Code: resp.StatusCode, Message: "asset already exists"}
		}
		klog.V(1).Infof("%s already exists with key %s", kind.PrettyName(), key)
		return c.Get(ctx, kind, key)

	default:
		return nil, errorFromResponse(resp)
	}
}

func conflictingKey(body io.Reader) string {
	var payload map[string]interface{}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return Key(payload)
}

// postMultipart posts the payload as a "json" form field alongside one file
// part per entry of files (field name -> local path).
func (c *Client) postMultipart(ctx context.Context, rawurl string, payload interface{}, files map[string]string) (*http.Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	if err := writer.WriteField("json", string(encoded)); err != nil {
		return nil, fmt.Errorf("writing payload field: %w", err)
	}

	for field, path := range files {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		part, err := writer.CreateFormFile(field, filepath.Base(path))
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("writing file part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			file.Close()
			return nil, fmt.Errorf("copying %s: %w", path, err)
		}
		file.Close()
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req)
}
