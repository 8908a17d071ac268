package tidal

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// Playlist is an immutable playlist entity. Mixes are represented as
// playlists with a zero duration. ETag is the concurrency token
// required for later mutations; upstream only supplies it on creation.
type Playlist struct {
	UUID     string
	Title    string
	Duration int64 // milliseconds
	Artwork  string
	ETag     string
}

// GetPlaylists returns the next page of the user's playlists.
func (c *Client) GetPlaylists(ctx context.Context, reset bool) ([]Playlist, error) {
	items, err := c.collection(ctx, epPlaylists, reset, strconv.FormatInt(c.session.UserID, 10))
	if nil != err {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(items))
	for _, item := range items {
		if wrapped := item.Get("item"); wrapped.Exists() {
			item = wrapped
		}
		playlist, err := playlistFromItem(item)
		if nil != err {
			c.logger.Trace().Str("item", item.Raw).Msg("Skipping malformed playlist item")
			continue
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// GetPlaylist returns the next page of the playlist's tracks.
func (c *Client) GetPlaylist(ctx context.Context, uuid string, reset bool) ([]Track, error) {
	items, err := c.collection(ctx, epPlaylistItems, reset, uuid)
	if nil != err {
		return nil, err
	}
	return c.parseTracks(ctx, items)
}

// CreatePlaylist creates an empty playlist and returns it together
// with the ETag concurrency token required to add items.
func (c *Client) CreatePlaylist(ctx context.Context, title, description string) (*Playlist, error) {
	body := "name=" + url.QueryEscape(title) + "&description=" + url.QueryEscape(description)
	resp, err := c.do(ctx, epPlaylistCreate, nil, body, strconv.FormatInt(c.session.UserID, 10))
	if nil != err {
		return nil, err
	}

	doc := gjson.ParseBytes(resp.Body)
	playlist, err := playlistFromItem(doc)
	if nil != err {
		return nil, err
	}
	playlist.ETag = resp.Header.Get("ETag")
	return &playlist, nil
}

// PlaylistAdd appends tracks to the playlist. The etag must match the
// playlist's current version or upstream rejects the mutation.
func (c *Client) PlaylistAdd(ctx context.Context, uuid, etag string, trackIDs []int64) (bool, error) {
	ids := lo.Map(trackIDs, func(id int64, _ int) string {
		return strconv.FormatInt(id, 10)
	})
	body := "trackIds=" + strings.Join(ids, ",") + "&onArtifactNotFound=FAIL"
	headers := map[string]string{"If-None-Match": etag}
	return statusOK(c.do(ctx, epPlaylistAdd, headers, body, uuid))
}

// DeletePlaylist removes the playlist entirely.
func (c *Client) DeletePlaylist(ctx context.Context, uuid string) (bool, error) {
	return statusOK(c.do(ctx, epPlaylistDelete, nil, "", uuid))
}

func playlistFromItem(item gjson.Result) (Playlist, error) {
	var (
		uuid  = item.Get("uuid")
		title = item.Get("title")
	)
	if !uuid.Exists() || !title.Exists() {
		return Playlist{}, errMalformedItem
	}

	var artwork string
	if image := item.Get("squareImage"); image.Exists() && image.Type != gjson.Null {
		artwork = artworkURL(image.String())
	}

	return Playlist{ //nolint:exhaustruct
		UUID:     uuid.String(),
		Title:    title.String(),
		Duration: item.Get("duration").Int() * 1000,
		Artwork:  artwork,
	}, nil
}
