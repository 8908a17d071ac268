package tidal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// fetchLikes populates the session's liked-track-id cache from the
// favorites-id endpoint. It is called lazily before the first track
// mapping of a session and is never refreshed automatically.
func (c *Client) fetchLikes(ctx context.Context) error {
	resp, err := c.do(ctx, epLikes, nil, "", strconv.FormatInt(c.session.UserID, 10))
	if nil != err {
		return fmt.Errorf("failed to fetch liked track ids: %w", err)
	}

	for _, id := range gjson.GetBytes(resp.Body, "TRACK").Array() {
		c.session.setLiked(id.Int())
	}
	return nil
}

// ToggleLike likes the track when it is absent from the likes cache
// and unlikes it otherwise. The cache is only mutated when upstream
// confirms the change.
func (c *Client) ToggleLike(ctx context.Context, trackID int64) (bool, error) {
	if !c.session.isLiked(trackID) {
		return c.like(ctx, trackID)
	}
	return c.unlike(ctx, trackID)
}

func (c *Client) like(ctx context.Context, trackID int64) (bool, error) {
	body := "trackIds=" + strconv.FormatInt(trackID, 10) + "&onArtifactNotFound=FAIL"
	ok, err := statusOK(c.do(ctx, epLike, nil, body, strconv.FormatInt(c.session.UserID, 10)))
	if ok {
		c.session.setLiked(trackID)
	}
	return ok, err
}

func (c *Client) unlike(ctx context.Context, trackID int64) (bool, error) {
	ok, err := statusOK(c.do(ctx, epUnlike, nil, "", strconv.FormatInt(c.session.UserID, 10), strconv.FormatInt(trackID, 10)))
	if ok {
		c.session.unsetLiked(trackID)
	}
	return ok, err
}
