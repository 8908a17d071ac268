package tidal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/0xf4b1/tidal-go/cache"
	"github.com/0xf4b1/tidal-go/httputil"
)

// GetStreamURL resolves a short-lived stream URL for the track at the
// session's preferred quality. Resolved URLs are cached briefly since
// upstream invalidates them after a while anyway.
func (c *Client) GetStreamURL(ctx context.Context, trackID int64) (string, error) {
	key := strconv.FormatInt(trackID, 10) + "/" + c.session.Quality.String()
	item, err := c.cache.StreamURLs.Fetch(key, cache.DefaultStreamURLTTL, func() (string, error) {
		return c.resolveStreamURL(ctx, trackID)
	})
	if nil != err {
		return "", err
	}
	return item.Value(), nil
}

func (c *Client) resolveStreamURL(ctx context.Context, trackID int64) (string, error) {
	resp, err := c.do(ctx, epStream, nil, "", strconv.FormatInt(trackID, 10), c.session.Quality.String())
	if nil != err {
		var httpErr *httputil.HTTPError
		if errors.As(err, &httpErr) {
			c.logger.Debug().Int64("track_id", trackID).Int("status_code", httpErr.StatusCode).Msg("Stream resolution was rejected")
			return "", ErrNotStreamable
		}
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", ErrNotStreamable
	}

	var respBody struct {
		Manifest string `json:"manifest"`
	}
	if err := json.Unmarshal(resp.Body, &respBody); nil != err {
		return "", fmt.Errorf("failed to decode stream info response: %v", err)
	}

	manifest, err := base64.StdEncoding.DecodeString(respBody.Manifest)
	if nil != err {
		return "", fmt.Errorf("failed to decode stream manifest: %v", err)
	}

	var manifestBody struct {
		URLs []string `json:"urls"`
	}
	if err := json.Unmarshal(manifest, &manifestBody); nil != err {
		return "", fmt.Errorf("failed to decode stream manifest document: %v", err)
	}
	if len(manifestBody.URLs) == 0 {
		return "", errors.New("stream manifest contains no urls")
	}
	return manifestBody.URLs[0], nil
}
