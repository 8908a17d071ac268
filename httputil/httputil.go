package httputil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xeptore/flaw/v8"

	"github.com/0xf4b1/tidal-go/config"
	"github.com/0xf4b1/tidal-go/errutil"
	"github.com/0xf4b1/tidal-go/must"
)

// Response is the raw outcome of a successful upstream call.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// HTTPError is returned for any upstream response with status code >= 400.
// The response body is retained for callers that classify by sub-status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Doer issues a single HTTP request. Implementations must not follow
// redirects and must bound the call with the configured request timeout.
type Doer interface {
	Do(ctx context.Context, method, rawURL string, headers map[string]string, body string) (*Response, error)
}

type Client struct {
	hc http.Client
}

func NewClient() *Client {
	return &Client{
		hc: http.Client{ //nolint:exhaustruct
			Timeout: config.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *Client) Do(ctx context.Context, method, rawURL string, headers map[string]string, body string) (out *Response, err error) {
	flawP := flaw.P{"url": rawURL, "method": method}

	var reqBody io.Reader
	if body != "" {
		reqBody = bytes.NewBufferString(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if nil != err {
		if errutil.IsContext(ctx) {
			return nil, ctx.Err()
		}
		flawP["err_debug_tree"] = errutil.Tree(err).FlawP()
		return nil, flaw.From(fmt.Errorf("failed to create request: %v", err)).Append(flawP)
	}
	if body != "" {
		req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := c.hc.Do(req)
	if nil != err {
		switch {
		case errutil.IsContext(ctx):
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return nil, context.DeadlineExceeded
		default:
			flawP["err_debug_tree"] = errutil.Tree(err).FlawP()
			return nil, flaw.From(fmt.Errorf("failed to issue request: %v", err)).Append(flawP)
		}
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			flawP["err_debug_tree"] = errutil.Tree(closeErr).FlawP()
			closeErr = flaw.From(fmt.Errorf("failed to close response body: %v", closeErr)).Append(flawP)
			switch {
			case nil == err:
				err = closeErr
			case errutil.IsContext(ctx):
				err = flaw.From(errors.New("context was ended")).Join(closeErr)
			case errors.Is(err, context.DeadlineExceeded):
				err = flaw.From(errors.New("timeout has reached")).Join(closeErr)
			case errutil.IsFlaw(err):
				err = must.BeFlaw(err).Join(closeErr)
			default:
				// *HTTPError carries the response body already. Prefer it.
			}
		}
	}()
	flawP["response"] = errutil.HTTPResponseFlawPayload(resp)

	respBytes, err := io.ReadAll(resp.Body)
	if nil != err {
		switch {
		case errutil.IsContext(ctx):
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return nil, context.DeadlineExceeded
		default:
			flawP["err_debug_tree"] = errutil.Tree(err).FlawP()
			return nil, flaw.From(fmt.Errorf("failed to read response body: %v", err)).Append(flawP)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBytes,
		Header:     resp.Header,
	}, nil
}
