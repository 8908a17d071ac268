package tidal

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/0xf4b1/tidal-go/errutil"
	"github.com/0xf4b1/tidal-go/httputil"
)

// StartDeviceLogin begins the OAuth2 device-authorization grant. The
// returned URL must be visited by the user to approve the login; the
// session keeps the device code for the subsequent FetchAccessToken
// polling.
func (c *Client) StartDeviceLogin(ctx context.Context) (string, error) {
	body := "client_id=" + c.session.clientID + "&scope=" + oauth2Scope
	resp, err := c.transport.Do(ctx, http.MethodPost, oauth2DeviceAuthURL, nil, body)
	if nil != err {
		return "", fmt.Errorf("failed to request device authorization: %w", err)
	}

	var respBody struct {
		DeviceCode              string `json:"deviceCode"`
		VerificationURIComplete string `json:"verificationUriComplete"`
	}
	if err := json.Unmarshal(resp.Body, &respBody); nil != err {
		return "", fmt.Errorf("failed to decode device authorization response: %v", err)
	}
	if respBody.DeviceCode == "" || respBody.VerificationURIComplete == "" {
		return "", errors.New("incomplete device authorization response")
	}

	c.session.deviceCode = respBody.DeviceCode
	c.logger.Debug().Str("verification_url", respBody.VerificationURIComplete).Msg("Device authorization started")
	return respBody.VerificationURIComplete, nil
}

// FetchAccessToken performs one token-endpoint call: the refresh-token
// grant when a refresh token is held, the device-code grant otherwise.
// It reports false for upstream rejections so callers can poll while a
// device login awaits approval; the session is only modified on
// success. Holding neither a refresh token nor a device code is a hard
// ErrNotAuthenticated failure.
func (c *Client) FetchAccessToken(ctx context.Context) (bool, error) {
	s := c.session
	if s.refreshToken == "" && s.deviceCode == "" {
		return false, ErrNotAuthenticated
	}

	var body string
	if s.refreshToken != "" {
		body = "client_id=" + s.clientID +
			"&refresh_token=" + s.refreshToken +
			"&grant_type=refresh_token" +
			"&scope=" + oauth2Scope
	} else {
		body = "client_id=" + s.clientID +
			"&device_code=" + s.deviceCode +
			"&grant_type=" + deviceCodeGrantType +
			"&scope=" + oauth2Scope
	}

	resp, err := c.transport.Do(ctx, http.MethodPost, oauth2TokenURL, nil, body)
	if nil != err {
		if errutil.IsContext(ctx) {
			return false, ctx.Err()
		}
		var httpErr *httputil.HTTPError
		if errors.As(err, &httpErr) {
			c.logger.Debug().Int("status_code", httpErr.StatusCode).Msg("Token request was rejected")
			return false, nil
		}
		c.logger.Warn().Err(err).Msg("Token request failed")
		return false, nil
	}

	var respBody struct {
		AccessToken  string  `json:"access_token"`
		RefreshToken *string `json:"refresh_token"`
		User         struct {
			UserID      int64  `json:"userId"`
			CountryCode string `json:"countryCode"`
		} `json:"user"`
	}
	if err := json.Unmarshal(resp.Body, &respBody); nil != err {
		c.logger.Warn().Err(err).Msg("Failed to decode token response")
		return false, nil
	}
	if respBody.AccessToken == "" {
		return false, nil
	}

	s.UserID = respBody.User.UserID
	if respBody.User.CountryCode != "" {
		s.CountryCode = respBody.User.CountryCode
	}
	s.accessToken = respBody.AccessToken
	// The device-code grant always carries a refresh token, the
	// refresh-token grant may omit it. Keep the old one in that case.
	if nil != respBody.RefreshToken && *respBody.RefreshToken != "" {
		s.refreshToken = *respBody.RefreshToken
	}
	if cb := s.OnAuthChanged; nil != cb {
		cb(s)
	}
	return true, nil
}
