package sdk

import (
	"context"
	"encoding/json"
	"net/http"
)

// UpdateDataSamples attaches existing data samples to additional data
// managers.
func (c *Client) UpdateDataSamples(ctx context.Context, keys, dataManagerKeys []string) (Asset, error) {
	resp, err := c.postJSON(ctx, c.assetURL(KindDataSample, "bulk_update"), map[string]interface{}{
		"data_sample_keys":  keys,
		"data_manager_keys": dataManagerKeys,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeUpdate(resp)
}

// UpdateDataset links a dataset with an objective.
func (c *Client) UpdateDataset(ctx context.Context, key, objectiveKey string) (Asset, error) {
	resp, err := c.postJSON(ctx, c.assetURL(KindDataset, key, "update_ledger"), map[string]string{
		"objective_key": objectiveKey,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeUpdate(resp)
}

func decodeUpdate(resp *http.Response) (Asset, error) {
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errorFromResponse(resp)
	}
	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, err
	}
	return asset, nil
}
