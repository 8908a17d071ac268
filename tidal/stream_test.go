package tidal

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xf4b1/tidal-go/httputil"
)

func streamInfoBody(urls ...string) string {
	manifest := `{"mimeType":"audio/flac","urls":[`
	for i, u := range urls {
		if i > 0 {
			manifest += ","
		}
		manifest += `"` + u + `"`
	}
	manifest += `]}`
	return `{"manifest":"` + base64.StdEncoding.EncodeToString([]byte(manifest)) + `","manifestMimeType":"application/vnd.tidal.bts"}`
}

func TestGetStreamURL(t *testing.T) {
	t.Parallel()
	client, transport := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		return jsonResponse(http.StatusOK, streamInfoBody("https://cdn.tidal.com/1.flac", "https://cdn.tidal.com/fallback.flac")), nil
	})
	ctx := context.Background()

	streamURL, err := client.GetStreamURL(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.tidal.com/1.flac", streamURL)
	assert.Contains(t, transport.calls[0].URL, "tracks/42/playbackinfopostpaywall")
	assert.Contains(t, transport.calls[0].URL, "audioquality=HIGH")

	streamURL, err = client.GetStreamURL(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.tidal.com/1.flac", streamURL)
	assert.Len(t, transport.calls, 1, "second resolution is served from the cache")
}

func TestGetStreamURLQuality(t *testing.T) {
	t.Parallel()
	client, transport := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		return jsonResponse(http.StatusOK, streamInfoBody("https://cdn.tidal.com/1.flac")), nil
	})
	client.Session().Quality = QualityLossless

	_, err := client.GetStreamURL(context.Background(), 42)
	require.NoError(t, err)
	assert.Contains(t, transport.calls[0].URL, "audioquality=LOSSLESS")
}

func TestGetStreamURLNotStreamable(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(func(call recordedCall) (*httputil.Response, error) {
		return nil, &httputil.HTTPError{StatusCode: http.StatusUnavailableForLegalReasons, Body: "not available"}
	})

	_, err := client.GetStreamURL(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotStreamable)
}
