package tidal

import (
	"context"
	"strconv"

	"github.com/tidwall/gjson"
)

// Album is an immutable album entity.
type Album struct {
	ID      int64
	Title   string
	Artist  string
	Artwork string
	URL     string
}

// GetAlbums returns the next page of the user's favorite albums.
func (c *Client) GetAlbums(ctx context.Context, reset bool) ([]Album, error) {
	items, err := c.collection(ctx, epAlbums, reset, strconv.FormatInt(c.session.UserID, 10))
	if nil != err {
		return nil, err
	}

	albums := make([]Album, 0, len(items))
	for _, item := range items {
		if wrapped := item.Get("item"); wrapped.Exists() {
			item = wrapped
		}
		album, err := albumFromItem(item)
		if nil != err {
			c.logger.Trace().Str("item", item.Raw).Msg("Skipping malformed album item")
			continue
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// GetAlbum returns the next page of the album's tracks.
func (c *Client) GetAlbum(ctx context.Context, albumID int64, reset bool) ([]Track, error) {
	items, err := c.collection(ctx, epAlbumTracks, reset, strconv.FormatInt(albumID, 10))
	if nil != err {
		return nil, err
	}
	return c.parseTracks(ctx, items)
}

func albumFromItem(item gjson.Result) (Album, error) {
	var (
		id     = item.Get("id")
		title  = item.Get("title")
		artist = item.Get("artists.0.name")
	)
	if !id.Exists() || !title.Exists() || !artist.Exists() {
		return Album{}, errMalformedItem
	}

	// cover is nullable upstream.
	var artwork string
	if cover := item.Get("cover"); cover.Exists() && cover.Type != gjson.Null {
		artwork = artworkURL(cover.String())
	}

	return Album{
		ID:      id.Int(),
		Title:   title.String(),
		Artist:  artist.String(),
		Artwork: artwork,
		URL:     item.Get("url").String(),
	}, nil
}
