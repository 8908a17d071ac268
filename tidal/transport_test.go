package tidal

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/0xf4b1/tidal-go/cache"
	"github.com/0xf4b1/tidal-go/httputil"
)

type recordedCall struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

type fakeTransport struct {
	handler func(call recordedCall) (*httputil.Response, error)
	calls   []recordedCall
}

func (f *fakeTransport) Do(_ context.Context, method, url string, headers map[string]string, body string) (*httputil.Response, error) {
	call := recordedCall{Method: method, URL: url, Headers: headers, Body: body}
	f.calls = append(f.calls, call)
	return f.handler(call)
}

func (f *fakeTransport) countCalls(urlPart string) int {
	n := 0
	for _, call := range f.calls {
		if strings.Contains(call.URL, urlPart) {
			n++
		}
	}
	return n
}

func jsonResponse(status int, body string) *httputil.Response {
	return &httputil.Response{StatusCode: status, Body: []byte(body), Header: http.Header{}}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestClient(handler func(call recordedCall) (*httputil.Response, error)) (*Client, *fakeTransport) {
	transport := &fakeTransport{handler: handler, calls: nil}
	session := NewSession("test-client-id")
	session.SetAuth(1337, "US", "access-token", "refresh-token")
	return New(session, transport, cache.New(), testLogger()), transport
}
