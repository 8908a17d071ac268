package tidal

import (
	"fmt"

	"github.com/0xf4b1/tidal-go/ptr"
)

type Quality int

const (
	QualityLow Quality = iota
	QualityHigh
	QualityLossless
)

func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "LOW"
	case QualityHigh:
		return "HIGH"
	case QualityLossless:
		return "LOSSLESS"
	default:
		panic(fmt.Sprintf("unknown quality: %d", q))
	}
}

func QualityFromString(s string) (Quality, error) {
	switch s {
	case "LOW":
		return QualityLow, nil
	case "HIGH":
		return QualityHigh, nil
	case "LOSSLESS":
		return QualityLossless, nil
	default:
		return QualityLow, fmt.Errorf("unknown quality %q", s)
	}
}

// Session holds the mutable per-user state of one logical API session:
// identity, tokens, pagination offsets, and the liked-track-id cache.
// A Session is not safe for concurrent use; callers sharing one across
// goroutines must serialize access themselves.
type Session struct {
	clientID    string
	UserID      int64
	CountryCode string
	Locale      string
	DeviceType  string
	Limit       int
	Quality     Quality

	deviceCode   string
	accessToken  string
	refreshToken string

	// offsets maps a fully parameterised collection URL (without the
	// offset parameter) to the next offset to fetch. A nil value marks
	// the collection as exhausted.
	offsets       map[string]*int
	likedTrackIDs map[int64]struct{}

	// OnAuthChanged is invoked after every successful change of the
	// authentication state, e.g. to persist the new tokens.
	OnAuthChanged func(*Session)
}

func NewSession(clientID string) *Session {
	return &Session{ //nolint:exhaustruct
		clientID:      clientID,
		CountryCode:   "US",
		Locale:        "en_US",
		DeviceType:    "BROWSER",
		Limit:         50,
		Quality:       QualityHigh,
		offsets:       make(map[string]*int),
		likedTrackIDs: make(map[int64]struct{}),
	}
}

func (s *Session) ClientID() string {
	return s.clientID
}

func (s *Session) AccessToken() string {
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	return s.refreshToken
}

// SetAuth seeds the session with previously obtained credentials, e.g.
// tokens restored from disk.
func (s *Session) SetAuth(userID int64, countryCode, accessToken, refreshToken string) {
	s.UserID = userID
	if countryCode != "" {
		s.CountryCode = countryCode
	}
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	if cb := s.OnAuthChanged; nil != cb {
		cb(s)
	}
}

func (s *Session) nextOffset(url string) (offset int, exhausted bool, ok bool) {
	next, ok := s.offsets[url]
	if !ok {
		return 0, false, false
	}
	if nil == next {
		return 0, true, true
	}
	return *next, false, true
}

func (s *Session) storeOffset(url string, next int) {
	s.offsets[url] = ptr.Of(next)
}

func (s *Session) markExhausted(url string) {
	s.offsets[url] = nil
}

func (s *Session) likesEmpty() bool {
	return len(s.likedTrackIDs) == 0
}

func (s *Session) isLiked(trackID int64) bool {
	_, ok := s.likedTrackIDs[trackID]
	return ok
}

func (s *Session) setLiked(trackID int64) {
	s.likedTrackIDs[trackID] = struct{}{}
}

func (s *Session) unsetLiked(trackID int64) {
	delete(s.likedTrackIDs, trackID)
}
