package tidal

import "net/http"

const (
	apiBaseURL         = "https://api.tidalhifi.com/v1/"
	listenBaseURL      = "https://listen.tidal.com/v1/"
	feedBaseURL        = "https://listen.tidal.com/v2/"
	resourcesURLFormat = "https://resources.tidal.com/images/%s/320x320.jpg"

	oauth2BaseURL       = "https://auth.tidal.com/v1/oauth2/"
	oauth2DeviceAuthURL = oauth2BaseURL + "device_authorization"
	oauth2TokenURL      = oauth2BaseURL + "token"
	oauth2Scope         = "r_usr+w_usr+w_sub"
	deviceCodeGrantType = "urn:ietf:params:oauth:grant-type:device_code"

	clientVersion = "2025.4.15"
)

// Endpoint describes one upstream route: a template with positional %s
// placeholders and the HTTP method. Collection endpoints are GET routes
// whose responses are paged item lists.
type Endpoint struct {
	Route      string
	Method     string
	Collection bool
}

func Action(route, method string) Endpoint {
	return Endpoint{Route: route, Method: method, Collection: false}
}

func Collection(route string) Endpoint {
	return Endpoint{Route: route, Method: http.MethodGet, Collection: true}
}

var (
	epQuery        = Collection(apiBaseURL + "search?query=%s&types=TRACKS")
	epTracks       = Collection(listenBaseURL + "users/%s/favorites/tracks?order=DATE&orderDirection=DESC")
	epArtists      = Collection(listenBaseURL + "users/%s/favorites/artists?order=DATE&orderDirection=DESC")
	epAlbums       = Collection(listenBaseURL + "users/%s/favorites/albums?order=DATE&orderDirection=DESC")
	epArtistTracks = Collection(listenBaseURL + "pages/data/25b47120-6a2f-4dbb-8a38-daa415367d22?artistId=%s")
	epAlbumTracks  = Collection(listenBaseURL + "pages/album?albumId=%s")
	epMix          = Collection(listenBaseURL + "pages/mix?mixId=%s")
	epMixesFeed    = Action(feedBaseURL+"home/feed/static?platform=WEB", http.MethodGet)

	epPlaylists      = Collection(listenBaseURL + "users/%s/playlists?order=DATE_UPDATED&orderDirection=DESC")
	epPlaylistItems  = Collection(listenBaseURL + "playlists/%s/items")
	epPlaylistCreate = Action(listenBaseURL+"users/%s/playlists", http.MethodPost)
	epPlaylistAdd    = Action(listenBaseURL+"playlists/%s/items", http.MethodPost)
	epPlaylistDelete = Action(listenBaseURL+"playlists/%s", http.MethodDelete)

	epLikes  = Action(listenBaseURL+"users/%s/favorites/ids", http.MethodGet)
	epLike   = Action(listenBaseURL+"users/%s/favorites/tracks", http.MethodPost)
	epUnlike = Action(listenBaseURL+"users/%s/favorites/tracks/%s", http.MethodDelete)

	epStream = Action(apiBaseURL+"tracks/%s/playbackinfopostpaywall?audioquality=%s&playbackmode=STREAM&assetpresentation=FULL", http.MethodGet)
)
