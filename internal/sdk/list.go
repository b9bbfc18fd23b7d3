package sdk

import (
	"context"
	"net/url"
	"strings"
)

// List returns all assets of a kind, optionally narrowed by search filters.
// A filter is a colon-separated clause understood by the backend search
// endpoint (e.g. "algo:name:Logistic regression"); multiple filters are
// OR-ed together.
func (c *Client) List(ctx context.Context, kind Kind, filters []string) ([]Asset, error) {
	query := url.Values{}
	if len(filters) > 0 {
		query.Set("search", strings.Join(filters, "-OR-"))
	}

	// Depending on the backend version, list endpoints return either a
	// flat array or an array of arrays (one per search group).
	var raw interface{}
	if err := c.getJSON(ctx, c.assetURL(kind), query, &raw); err != nil {
		return nil, err
	}
	return flattenList(raw), nil
}

func flattenList(raw interface{}) []Asset {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	assets := []Asset{}
	for _, item := range items {
		switch v := item.(type) {
		case map[string]interface{}:
			assets = append(assets, v)
		case []interface{}:
			for _, nested := range v {
				if a, ok := nested.(map[string]interface{}); ok {
					assets = append(assets, a)
				}
			}
		}
	}
	return assets
}
