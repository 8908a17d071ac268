package tidal

import (
	"context"

	"github.com/tidwall/gjson"
)

// GetMix returns the next page of the mix's tracks.
func (c *Client) GetMix(ctx context.Context, mixID string, reset bool) ([]Track, error) {
	items, err := c.collection(ctx, epMix, reset, mixID)
	if nil != err {
		return nil, err
	}
	return c.parseTracks(ctx, items)
}

// GetMixes returns the user's daily mixes from the static home feed.
// Mixes are surfaced as playlists with a zero duration; their string
// ids feed GetMix.
func (c *Client) GetMixes(ctx context.Context) ([]Playlist, error) {
	resp, err := c.do(ctx, epMixesFeed, nil, "")
	if nil != err {
		return nil, err
	}

	var mixes []Playlist
	for _, entry := range gjson.GetBytes(resp.Body, "items").Array() {
		if entry.Get("type").String() != "MIX_LIST" {
			continue
		}
		for _, item := range entry.Get("items").Array() {
			mix, err := mixFromItem(item)
			if nil != err {
				c.logger.Trace().Str("item", item.Raw).Msg("Skipping malformed mix item")
				continue
			}
			mixes = append(mixes, mix)
		}
	}
	return mixes, nil
}

func mixFromItem(item gjson.Result) (Playlist, error) {
	var (
		id    = item.Get("id")
		title = item.Get("title")
	)
	if !id.Exists() || !title.Exists() {
		return Playlist{}, errMalformedItem
	}

	return Playlist{ //nolint:exhaustruct
		UUID:    id.String(),
		Title:   title.String(),
		Artwork: item.Get("images.MEDIUM.url").String(),
	}, nil
}
