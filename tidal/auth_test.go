package tidal

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xf4b1/tidal-go/cache"
	"github.com/0xf4b1/tidal-go/httputil"
)

func TestDeviceLoginFlow(t *testing.T) {
	t.Parallel()
	approved := false
	transport := &fakeTransport{handler: func(call recordedCall) (*httputil.Response, error) {
		switch {
		case strings.Contains(call.URL, "device_authorization"):
			require.Contains(t, call.Body, "client_id=test-client-id")
			require.Contains(t, call.Body, "scope="+oauth2Scope)
			return jsonResponse(http.StatusOK, `{"deviceCode":"dc-123","verificationUriComplete":"link.tidal.com/ABCDE","expiresIn":300,"interval":2}`), nil
		case strings.Contains(call.URL, "oauth2/token"):
			require.Contains(t, call.Body, "device_code=dc-123")
			require.Contains(t, call.Body, "grant_type="+deviceCodeGrantType)
			if !approved {
				return nil, &httputil.HTTPError{StatusCode: http.StatusBadRequest, Body: `{"error":"authorization_pending"}`}
			}
			return jsonResponse(http.StatusOK, `{"access_token":"access-token","refresh_token":"refresh-token","user":{"userId":1337,"countryCode":"DE"}}`), nil
		default:
			t.Fatalf("unexpected url: %s", call.URL)
			return nil, nil
		}
	}}
	session := NewSession("test-client-id")
	authChanges := 0
	session.OnAuthChanged = func(*Session) { authChanges++ }
	client := New(session, transport, cache.New(), testLogger())
	ctx := context.Background()

	verificationURL, err := client.StartDeviceLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "link.tidal.com/ABCDE", verificationURL)

	ok, err := client.FetchAccessToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "pending authorization polls as a soft failure")
	assert.Zero(t, authChanges)

	approved = true
	ok, err = client.FetchAccessToken(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1337), session.UserID)
	assert.Equal(t, "DE", session.CountryCode)
	assert.Equal(t, "access-token", session.AccessToken())
	assert.Equal(t, "refresh-token", session.RefreshToken())
	assert.Equal(t, 1, authChanges)
}

func TestFetchAccessTokenRefreshGrantKeepsRefreshToken(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{handler: func(call recordedCall) (*httputil.Response, error) {
		require.Contains(t, call.URL, "oauth2/token")
		require.Contains(t, call.Body, "grant_type=refresh_token")
		require.Contains(t, call.Body, "refresh_token=old-refresh-token")
		// The refresh-token grant does not echo the refresh token back.
		return jsonResponse(http.StatusOK, `{"access_token":"fresh-token","user":{"userId":1337,"countryCode":"US"}}`), nil
	}}
	session := NewSession("test-client-id")
	session.SetAuth(1337, "US", "stale-token", "old-refresh-token")
	client := New(session, transport, cache.New(), testLogger())

	ok, err := client.FetchAccessToken(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fresh-token", session.AccessToken())
	assert.Equal(t, "old-refresh-token", session.RefreshToken())
}

func TestFetchAccessTokenRequiresCredentials(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{handler: func(recordedCall) (*httputil.Response, error) {
		t.Fatal("must not be called")
		return nil, nil
	}}
	client := New(NewSession("test-client-id"), transport, cache.New(), testLogger())

	_, err := client.FetchAccessToken(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, transport.calls)
}
