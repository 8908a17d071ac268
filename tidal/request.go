package tidal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/0xf4b1/tidal-go/httputil"
)

func appendParam(url, key, value string) string {
	return url + lo.Ternary(strings.Contains(url, "?"), "&", "?") + key + "=" + value
}

// endpointURL substitutes the route placeholders and appends the fixed
// session query parameters. Free-text arguments must be escaped by the
// caller before substitution.
func (c *Client) endpointURL(ep Endpoint, args ...string) string {
	url := ep.Route
	if len(args) > 0 {
		anyArgs := make([]any, len(args))
		for i, v := range args {
			anyArgs[i] = v
		}
		url = fmt.Sprintf(ep.Route, anyArgs...)
	}
	url = appendParam(url, "countryCode", c.session.CountryCode)
	url = appendParam(url, "locale", c.session.Locale)
	url = appendParam(url, "deviceType", c.session.DeviceType)
	return url
}

func (c *Client) authHeaders(extra map[string]string) map[string]string {
	headers := map[string]string{
		"authorization":          "Bearer " + c.session.accessToken,
		"x-tidal-client-version": clientVersion,
	}
	for k, v := range extra {
		headers[k] = v
	}
	return headers
}

// request performs one authenticated call. A 401 response clears the
// stored access token and triggers at most one token refresh followed
// by one retry; any failure along that path propagates the original
// error. There is no further retrying.
func (c *Client) request(ctx context.Context, method, url string, headers map[string]string, body string) (*httputil.Response, error) {
	if c.session.accessToken == "" {
		return nil, ErrNotAuthenticated
	}

	resp, err := c.transport.Do(ctx, method, url, c.authHeaders(headers), body)
	if nil != err {
		var httpErr *httputil.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			c.session.accessToken = ""
			if c.session.refreshToken != "" {
				c.logger.Debug().Str("url", url).Msg("Received 401, attempting token refresh")
				if ok, refreshErr := c.FetchAccessToken(ctx); nil == refreshErr && ok {
					if retryResp, retryErr := c.transport.Do(ctx, method, url, c.authHeaders(headers), body); nil == retryErr {
						return retryResp, nil
					}
				}
			}
		}
		return nil, err
	}
	return resp, nil
}

// do executes an action endpoint with the session defaults applied.
func (c *Client) do(ctx context.Context, ep Endpoint, headers map[string]string, body string, args ...string) (*httputil.Response, error) {
	return c.request(ctx, ep.Method, c.endpointURL(ep, args...), headers, body)
}

// collection fetches one page of a collection endpoint. Pagination
// state is tracked per fully parameterised URL: reset starts from
// offset 0 without consulting the stored state, otherwise the stored
// offset is resumed. An exhausted collection returns an empty result
// without a network call. After a successful call the stored offset
// advances by the page size even when the page came back short; this
// mirrors the upstream pagination contract.
func (c *Client) collection(ctx context.Context, ep Endpoint, reset bool, args ...string) ([]gjson.Result, error) {
	url := appendParam(c.endpointURL(ep, args...), "limit", strconv.Itoa(c.session.Limit))

	offset := 0
	if !reset {
		if next, exhausted, ok := c.session.nextOffset(url); ok {
			if exhausted {
				c.logger.Trace().Str("url", url).Msg("Collection is exhausted, skipping request")
				return nil, nil
			}
			offset = next
		}
	}

	resp, err := c.request(ctx, ep.Method, appendParam(url, "offset", strconv.Itoa(offset)), nil, "")
	if nil != err {
		return nil, err
	}

	c.session.storeOffset(url, offset+c.session.Limit)

	items := unwrapItems(gjson.ParseBytes(resp.Body))
	if len(items) == 0 {
		c.session.markExhausted(url)
	}
	return items, nil
}

// unwrapItems extracts the item list from the response document.
// Different page types wrap what is semantically the same list in
// structurally different envelopes.
func unwrapItems(doc gjson.Result) []gjson.Result {
	if tracks := doc.Get("tracks"); tracks.Exists() {
		doc = tracks
	}
	if items := doc.Get("items"); items.Exists() {
		return items.Array()
	}
	for _, row := range doc.Get("rows").Array() {
		for _, module := range row.Get("modules").Array() {
			switch module.Get("type").String() {
			case "TRACK_LIST", "ALBUM_ITEMS":
				return module.Get("pagedList.items").Array()
			}
		}
	}
	return nil
}

// statusOK collapses an action response into the boolean success flag
// mutation operations report. Upstream rejections surface as false,
// only transport or authentication failures surface as errors.
func statusOK(resp *httputil.Response, err error) (bool, error) {
	if nil != err {
		var httpErr *httputil.HTTPError
		if errors.As(err, &httpErr) {
			return false, nil
		}
		return false, err
	}
	return resp.StatusCode == http.StatusOK, nil
}
