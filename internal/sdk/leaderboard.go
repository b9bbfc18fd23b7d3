package sdk

import (
	"context"
	"fmt"
	"net/url"
)

// Leaderboard fetches the leaderboard of an objective: the objective details
// plus its certified testtuples ordered by performance. sort must be "asc"
// or "desc".
func (c *Client) Leaderboard(ctx context.Context, objectiveKey, sort string) (Asset, error) {
	if sort != "asc" && sort != "desc" {
		return nil, fmt.Errorf("invalid sort %q (expected asc or desc)", sort)
	}

	query := url.Values{}
	query.Set("sort", sort)

	var board Asset
	if err := c.getJSON(ctx, c.assetURL(KindObjective, objectiveKey, "leaderboard"), query, &board); err != nil {
		return nil, err
	}
	return board, nil
}
