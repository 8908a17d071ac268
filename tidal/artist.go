package tidal

import (
	"context"
	"strconv"

	"github.com/tidwall/gjson"
)

// Artist is an immutable artist entity. Artwork is empty when upstream
// carries no picture for the artist.
type Artist struct {
	ID      int64
	Name    string
	Artwork string
	URL     string
}

// GetArtists returns the next page of the user's favorite artists.
func (c *Client) GetArtists(ctx context.Context, reset bool) ([]Artist, error) {
	items, err := c.collection(ctx, epArtists, reset, strconv.FormatInt(c.session.UserID, 10))
	if nil != err {
		return nil, err
	}

	artists := make([]Artist, 0, len(items))
	for _, item := range items {
		if wrapped := item.Get("item"); wrapped.Exists() {
			item = wrapped
		}
		artist, err := artistFromItem(item)
		if nil != err {
			c.logger.Trace().Str("item", item.Raw).Msg("Skipping malformed artist item")
			continue
		}
		artists = append(artists, artist)
	}
	return artists, nil
}

// GetArtist returns the next page of the artist's top tracks.
func (c *Client) GetArtist(ctx context.Context, artistID int64, reset bool) ([]Track, error) {
	items, err := c.collection(ctx, epArtistTracks, reset, strconv.FormatInt(artistID, 10))
	if nil != err {
		return nil, err
	}
	return c.parseTracks(ctx, items)
}

func artistFromItem(item gjson.Result) (Artist, error) {
	var (
		id      = item.Get("id")
		name    = item.Get("name")
		pageURL = item.Get("url")
	)
	if !id.Exists() || !name.Exists() || !pageURL.Exists() {
		return Artist{}, errMalformedItem
	}

	// picture is nullable upstream.
	var artwork string
	if picture := item.Get("picture"); picture.Exists() && picture.Type != gjson.Null {
		artwork = artworkURL(picture.String())
	}

	return Artist{
		ID:      id.Int(),
		Name:    name.String(),
		Artwork: artwork,
		URL:     pageURL.String(),
	}, nil
}
