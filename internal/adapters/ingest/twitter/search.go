package twitter

import (
	"context"
	json "encoding/json/v2"
	"io"
	"time"

	perr "birdwatch/internal/platform/errors"
)

// SearchPage fetches one page of a user's recent posts.
// since bounds the window to posts strictly after that instant when non-zero,
// and nextToken resumes pagination from a prior page
func (c *Client) SearchPage(ctx context.Context, username string, since time.Time, nextToken string) (Page, error) {
	path := c.searchQuery(username, since, nextToken)
	resp, err := c.do(ctx, path)
	if err != nil {
		return Page{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("username", username).Msg("twitter close body failed")
		}
	}()

	var out searchResponse
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Page{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "twitter read body failed")
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return Page{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "twitter decode search response failed")
	}
	return Page{Posts: out.Data, NextToken: out.Meta.NextToken}, nil
}
