package tidal

import (
	"github.com/rs/zerolog"

	"github.com/0xf4b1/tidal-go/cache"
	"github.com/0xf4b1/tidal-go/httputil"
)

// Client issues calls against the TIDAL web API on behalf of one
// Session. All methods are synchronous and block until the upstream
// call completes or the context ends.
type Client struct {
	session   *Session
	transport httputil.Doer
	cache     *cache.Cache
	logger    zerolog.Logger
}

func New(session *Session, transport httputil.Doer, cache *cache.Cache, logger zerolog.Logger) *Client {
	return &Client{
		session:   session,
		transport: transport,
		cache:     cache,
		logger:    logger,
	}
}

// NewWithDefaults builds a Client over the default HTTP transport.
func NewWithDefaults(clientID string, logger zerolog.Logger) *Client {
	return New(NewSession(clientID), httputil.NewClient(), cache.New(), logger)
}

func (c *Client) Session() *Session {
	return c.session
}
