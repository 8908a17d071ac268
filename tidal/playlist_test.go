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

func TestGetPlaylists(t *testing.T) {
	t.Parallel()
	client, transport := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		body := `{"items":[
			{"uuid":"pl-1","title":"Progressive","duration":3600,"squareImage":"11-22-33"},
			{"uuid":"pl-2","title":"Empty","duration":0,"squareImage":null}
		]}`
		return jsonResponse(http.StatusOK, body), nil
	})

	playlists, err := client.GetPlaylists(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Contains(t, transport.calls[0].URL, "users/1337/playlists")
	assert.Equal(t, "pl-1", playlists[0].UUID)
	assert.Equal(t, "Progressive", playlists[0].Title)
	assert.Equal(t, int64(3600000), playlists[0].Duration)
	assert.Equal(t, "https://resources.tidal.com/images/11/22/33/320x320.jpg", playlists[0].Artwork)
	assert.Empty(t, playlists[1].Artwork)
}

func TestGetPlaylistTracks(t *testing.T) {
	t.Parallel()
	client, transport := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		if strings.Contains(call.URL, "favorites/ids") {
			return jsonResponse(http.StatusOK, likesBody), nil
		}
		body := `{"items":[{"item":` + trackItem(12, "Solee", "Imagine") + `}]}`
		return jsonResponse(http.StatusOK, body), nil
	})

	tracks, err := client.GetPlaylist(context.Background(), "pl-1", true)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Contains(t, transport.calls[0].URL, "playlists/pl-1/items")
}

func TestCreateAddDeletePlaylist(t *testing.T) {
	t.Parallel()
	client, transport := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		switch {
		case call.Method == http.MethodPost && strings.Contains(call.URL, "users/1337/playlists"):
			resp := jsonResponse(http.StatusOK, `{"uuid":"pl-new","title":"test playlist","duration":0,"squareImage":null}`)
			resp.Header.Set("ETag", "1693483078")
			return resp, nil
		default:
			return jsonResponse(http.StatusOK, `{}`), nil
		}
	})
	ctx := context.Background()

	playlist, err := client.CreatePlaylist(ctx, "test playlist", "created by tests")
	require.NoError(t, err)
	require.NotNil(t, playlist)
	assert.Equal(t, "pl-new", playlist.UUID)
	assert.Equal(t, "1693483078", playlist.ETag)
	assert.Equal(t, "name=test+playlist&description=created+by+tests", transport.calls[0].Body)

	ok, err := client.PlaylistAdd(ctx, playlist.UUID, playlist.ETag, []int64{1, 2, 3})
	require.NoError(t, err)
	require.True(t, ok)
	add := transport.calls[1]
	assert.Equal(t, http.MethodPost, add.Method)
	assert.Contains(t, add.URL, "playlists/pl-new/items")
	assert.Equal(t, "trackIds=1,2,3&onArtifactNotFound=FAIL", add.Body)
	assert.Equal(t, "1693483078", add.Headers["If-None-Match"])

	ok, err = client.DeletePlaylist(ctx, playlist.UUID)
	require.NoError(t, err)
	require.True(t, ok)
	del := transport.calls[2]
	assert.Equal(t, http.MethodDelete, del.Method)
	assert.Contains(t, del.URL, "playlists/pl-new?")
}

func TestPlaylistAddRejectedByStaleETag(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		return nil, &httputil.HTTPError{StatusCode: http.StatusPreconditionFailed, Body: "etag mismatch"}
	})

	ok, err := client.PlaylistAdd(context.Background(), "pl-1", "stale", []int64{1})
	require.NoError(t, err)
	assert.False(t, ok)
}
