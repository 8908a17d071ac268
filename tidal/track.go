package tidal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/0xf4b1/tidal-go/errutil"
)

// Track is an immutable snapshot of one playable track. Liked reflects
// the session's likes cache at mapping time and is not refreshed
// afterwards.
type Track struct {
	ID       int64
	Artist   string
	Title    string
	Duration int64 // milliseconds
	Artwork  string
	URL      string
	Liked    bool
}

func artworkURL(resourceID string) string {
	return fmt.Sprintf(resourcesURLFormat, strings.ReplaceAll(resourceID, "-", "/"))
}

// GetTracks returns the next page of the user's favorite tracks.
func (c *Client) GetTracks(ctx context.Context, reset bool) ([]Track, error) {
	items, err := c.collection(ctx, epTracks, reset, strconv.FormatInt(c.session.UserID, 10))
	if nil != err {
		return nil, err
	}
	return c.parseTracks(ctx, items)
}

// Query searches tracks matching the given free-text query.
func (c *Client) Query(ctx context.Context, query string, reset bool) ([]Track, error) {
	items, err := c.collection(ctx, epQuery, reset, url.QueryEscape(query))
	if nil != err {
		return nil, err
	}
	return c.parseTracks(ctx, items)
}

// parseTracks maps raw collection items to tracks. Malformed items are
// skipped; the remaining items still form a valid result.
func (c *Client) parseTracks(ctx context.Context, items []gjson.Result) ([]Track, error) {
	tracks := make([]Track, 0, len(items))
	for _, item := range items {
		if wrapped := item.Get("item"); wrapped.Exists() {
			item = wrapped
		}
		track, err := c.trackFromItem(ctx, item)
		if nil != err {
			if _, ok := errutil.IsAny(err, errMalformedItem); ok {
				c.logger.Trace().Str("item", item.Raw).Msg("Skipping malformed track item")
				continue
			}
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func (c *Client) trackFromItem(ctx context.Context, item gjson.Result) (Track, error) {
	// The liked flag requires the likes cache, which is populated
	// lazily on the first track mapping of the session.
	if c.session.likesEmpty() {
		if err := c.fetchLikes(ctx); nil != err {
			return Track{}, err
		}
	}

	var (
		id       = item.Get("id")
		artist   = item.Get("artists.0.name")
		title    = item.Get("title")
		duration = item.Get("duration")
		cover    = item.Get("album.cover")
		pageURL  = item.Get("url")
	)
	if !id.Exists() || !artist.Exists() || !title.Exists() || !duration.Exists() || !cover.Exists() || !pageURL.Exists() {
		return Track{}, errMalformedItem
	}

	return Track{
		ID:       id.Int(),
		Artist:   artist.String(),
		Title:    title.String(),
		Duration: duration.Int() * 1000,
		Artwork:  artworkURL(cover.String()),
		URL:      pageURL.String(),
		Liked:    c.session.isLiked(id.Int()),
	}, nil
}
