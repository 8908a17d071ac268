package tidal

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xf4b1/tidal-go/httputil"
)

func TestGetAlbums(t *testing.T) {
	t.Parallel()
	client, transport := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		body := `{"items":[
			{"item":{"id":5001,"title":"Metamorphose","url":"https://tidal.com/browse/album/5001","cover":"aa-bb-cc","artists":[{"name":"Solee"}]}},
			{"item":{"id":5002,"title":"Windmill","url":"https://tidal.com/browse/album/5002","cover":null,"artists":[{"name":"Solee"}]}}
		]}`
		return jsonResponse(http.StatusOK, body), nil
	})

	albums, err := client.GetAlbums(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Contains(t, transport.calls[0].URL, "users/1337/favorites/albums")
	assert.Equal(t, int64(5001), albums[0].ID)
	assert.Equal(t, "Metamorphose", albums[0].Title)
	assert.Equal(t, "Solee", albums[0].Artist)
	assert.Equal(t, "https://resources.tidal.com/images/aa/bb/cc/320x320.jpg", albums[0].Artwork)
	assert.Empty(t, albums[1].Artwork, "null cover maps to no artwork")
}

func TestGetAlbumTracks(t *testing.T) {
	t.Parallel()
	client, transport := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		if strings.Contains(call.URL, "favorites/ids") {
			return jsonResponse(http.StatusOK, likesBody), nil
		}
		body := `{"rows":[{"modules":[{"type":"ALBUM_HEADER"},{"type":"ALBUM_ITEMS","pagedList":{"items":[
			{"item":` + trackItem(7, "Solee", "Imagine") + `},
			{"item":` + trackItem(8, "Solee", "Vibes") + `}
		]}}]}]}`
		return jsonResponse(http.StatusOK, body), nil
	})

	tracks, err := client.GetAlbum(context.Background(), 5001, true)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Contains(t, transport.calls[0].URL, "pages/album?albumId=5001")
	assert.Equal(t, int64(7), tracks[0].ID)
	assert.Equal(t, int64(8), tracks[1].ID)
}
