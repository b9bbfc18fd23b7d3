package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Get fetches a single asset by key.
func (c *Client) Get(ctx context.Context, kind Kind, key string) (Asset, error) {
	var asset Asset
	if err := c.getJSON(ctx, c.assetURL(kind, key), nil, &asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Describe fetches the markdown description attached to an asset.
func (c *Client) Describe(ctx context.Context, kind Kind, key string) (string, error) {
	switch kind {
	case KindAlgo, KindDataset, KindObjective:
	default:
		return "", fmt.Errorf("%s assets have no description", kind.PrettyName())
	}

	asset, err := c.Get(ctx, kind, key)
	if err != nil {
		return "", err
	}

	address, _ := Lookup(asset, "description.storageAddress").(string)
	if address == "" {
		return "", fmt.Errorf("%s %s has no description storage address", kind.PrettyName(), key)
	}

	resp, err := c.get(ctx, address, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(resp)
	}

	description, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading description: %w", err)
	}
	return string(description), nil
}

// downloadTargets maps downloadable kinds to the asset field holding the
// storage address and the local filename to write.
var downloadTargets = map[Kind]struct {
	ref      string
	filename string
}{
	KindAlgo:      {"content.storageAddress", "algo.tar.gz"},
	KindDataset:   {"opener.storageAddress", "opener.py"},
	KindObjective: {"metrics.storageAddress", "metrics.py"},
}

// Download streams the file stored for an asset (algo archive, dataset
// opener, objective metrics) into folder and returns the local path.
func (c *Client) Download(ctx context.Context, kind Kind, key, folder string) (string, error) {
	target, ok := downloadTargets[kind]
	if !ok {
		return "", fmt.Errorf("%s assets cannot be downloaded", kind.PrettyName())
	}

	asset, err := c.Get(ctx, kind, key)
	if err != nil {
		return "", err
	}
	address, _ := Lookup(asset, target.ref).(string)
	if address == "" {
		return "", fmt.Errorf("%s %s has no storage address", kind.PrettyName(), key)
	}

	resp, err := c.get(ctx, address, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(resp)
	}

	path := filepath.Join(folder, target.filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
