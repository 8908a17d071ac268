package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/xeptore/flaw/v8"
	"golang.org/x/sync/errgroup"

	"github.com/0xf4b1/tidal-go/config"
	"github.com/0xf4b1/tidal-go/errutil"
	"github.com/0xf4b1/tidal-go/log"
	"github.com/0xf4b1/tidal-go/tidal"
)

const (
	flagConfigFilePath = "config"
	flagReset          = "reset"
)

func main() {
	logger := log.NewPretty(os.Stdout).Level(zerolog.InfoLevel)
	if err := godotenv.Load(); nil != err {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug().Msg(".env file was not found")
		} else {
			logger.Fatal().Err(err).Msg("Failed to load .env file")
		}
	}

	configFlag := &cli.StringFlag{ //nolint:exhaustruct
		Name:     flagConfigFilePath,
		Aliases:  []string{"c"},
		Usage:    "Config file path",
		Required: false,
	}
	resetFlag := &cli.BoolFlag{ //nolint:exhaustruct
		Name:    flagReset,
		Aliases: []string{"r"},
		Usage:   "Start from the first page instead of resuming",
	}

	//nolint:exhaustruct
	app := &cli.App{
		Name:    "tidal",
		Suggest: true,
		Usage:   "TIDAL web API client",
		Flags:   []cli.Flag{configFlag},
		Commands: []*cli.Command{
			//nolint:exhaustruct
			{
				Name:   "login",
				Usage:  "Authorize via the OAuth2 device flow",
				Action: login,
			},
			//nolint:exhaustruct
			{
				Name:      "search",
				Usage:     "Search tracks",
				ArgsUsage: "<query>",
				Action:    search,
			},
			//nolint:exhaustruct
			{
				Name:   "tracks",
				Usage:  "List favorite tracks",
				Flags:  []cli.Flag{resetFlag},
				Action: favoriteTracks,
			},
			//nolint:exhaustruct
			{
				Name:   "artists",
				Usage:  "List favorite artists",
				Flags:  []cli.Flag{resetFlag},
				Action: favoriteArtists,
			},
			//nolint:exhaustruct
			{
				Name:      "artist",
				Usage:     "List an artist's top tracks",
				ArgsUsage: "<artist-id>",
				Flags:     []cli.Flag{resetFlag},
				Action:    artistTracks,
			},
			//nolint:exhaustruct
			{
				Name:   "albums",
				Usage:  "List favorite albums",
				Flags:  []cli.Flag{resetFlag},
				Action: favoriteAlbums,
			},
			//nolint:exhaustruct
			{
				Name:      "album",
				Usage:     "List an album's tracks",
				ArgsUsage: "<album-id>",
				Flags:     []cli.Flag{resetFlag},
				Action:    albumTracks,
			},
			//nolint:exhaustruct
			{
				Name:   "playlists",
				Usage:  "List the user's playlists",
				Flags:  []cli.Flag{resetFlag},
				Action: playlists,
			},
			//nolint:exhaustruct
			{
				Name:      "playlist",
				Usage:     "List a playlist's tracks",
				ArgsUsage: "<uuid>",
				Flags:     []cli.Flag{resetFlag},
				Action:    playlistTracks,
			},
			//nolint:exhaustruct
			{
				Name:      "playlist-create",
				Usage:     "Create a playlist and add tracks to it",
				ArgsUsage: "<title> [track-id...]",
				Action:    playlistCreate,
			},
			//nolint:exhaustruct
			{
				Name:      "playlist-delete",
				Usage:     "Delete a playlist",
				ArgsUsage: "<uuid>",
				Action:    playlistDelete,
			},
			//nolint:exhaustruct
			{
				Name:   "mixes",
				Usage:  "List the user's daily mixes",
				Action: mixes,
			},
			//nolint:exhaustruct
			{
				Name:      "mix",
				Usage:     "List a mix's tracks",
				ArgsUsage: "<mix-id>",
				Flags:     []cli.Flag{resetFlag},
				Action:    mixTracks,
			},
			//nolint:exhaustruct
			{
				Name:      "like",
				Usage:     "Toggle the like status of a track",
				ArgsUsage: "<track-id>",
				Action:    toggleLike,
			},
			//nolint:exhaustruct
			{
				Name:      "stream",
				Usage:     "Resolve stream URLs for tracks",
				ArgsUsage: "<track-id...>",
				Action:    streamURLs,
			},
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); nil != err {
		if errors.Is(err, context.Canceled) {
			logger.Trace().Msg("Application was canceled")
			return
		}
		if flawErr := new(flaw.Flaw); errors.As(err, &flawErr) {
			logger.Fatal().Func(log.Flaw(flawErr)).Msg("Application exited with flaw")
			return
		}
		logger.Fatal().Err(err).Msg("Application exited with error")
	}
}

// tokenFile is the on-disk persistence format of the session
// credentials. It is rewritten on every authentication change.
type tokenFile struct {
	UserID       int64  `json:"user_id"`
	CountryCode  string `json:"country_code"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func loadConfig(cliCtx *cli.Context) (*config.Config, error) {
	cfgFilePath := cliCtx.String(flagConfigFilePath)
	cfgEnv := os.Getenv("CONFIG")
	switch {
	case cfgFilePath != "" && cfgEnv != "":
		return nil, errors.New("config file path and config environment variable are both set. specify only one")
	case cfgFilePath == "" && cfgEnv == "":
		return nil, errors.New("config file path and config environment variable are both empty. specify one")
	case cfgFilePath != "":
		cfg, err := config.FromFile(cfgFilePath)
		if nil != err {
			return nil, fmt.Errorf("failed to load config file: %v", err)
		}
		return cfg, nil
	default:
		cfg, err := config.FromString(cfgEnv)
		if nil != err {
			return nil, fmt.Errorf("failed to load config from environment variable: %v", err)
		}
		return cfg, nil
	}
}

func newClient(cliCtx *cli.Context) (*tidal.Client, error) {
	cfg, err := loadConfig(cliCtx)
	if nil != err {
		return nil, err
	}

	logger := log.NewPretty(os.Stderr).Level(zerolog.InfoLevel)
	client := tidal.NewWithDefaults(cfg.ClientID, logger)

	session := client.Session()
	session.CountryCode = cfg.CountryCode
	session.Locale = cfg.Locale
	session.DeviceType = cfg.DeviceType
	session.Limit = cfg.Limit
	quality, err := tidal.QualityFromString(cfg.Quality)
	if nil != err {
		return nil, err
	}
	session.Quality = quality
	session.OnAuthChanged = func(s *tidal.Session) {
		tokens := tokenFile{
			UserID:       s.UserID,
			CountryCode:  s.CountryCode,
			AccessToken:  s.AccessToken(),
			RefreshToken: s.RefreshToken(),
		}
		data, err := json.MarshalIndent(tokens, "", "  ")
		if nil != err {
			logger.Error().Err(err).Msg("Failed to marshal token file")
			return
		}
		if err := os.WriteFile(cfg.TokenFilePath, data, 0o600); nil != err {
			logger.Error().Err(err).Str("path", cfg.TokenFilePath).Msg("Failed to write token file")
		}
	}

	data, err := os.ReadFile(cfg.TokenFilePath)
	if nil != err {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read token file %q: %v", cfg.TokenFilePath, err)
		}
		return client, nil
	}
	var tokens tokenFile
	if err := json.Unmarshal(data, &tokens); nil != err {
		return nil, fmt.Errorf("failed to unmarshal token file %q: %v", cfg.TokenFilePath, err)
	}
	session.SetAuth(tokens.UserID, tokens.CountryCode, tokens.AccessToken, tokens.RefreshToken)
	return client, nil
}

var errAuthorizationPending = errors.New("authorization pending")

func login(cliCtx *cli.Context) error {
	ctx := cliCtx.Context
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}

	verificationURL, err := client.StartDeviceLogin(ctx)
	if nil != err {
		return err
	}
	fmt.Printf("Visit https://%s to authorize the application\n", verificationURL)

	const pollInterval = 2 * time.Second
	const pollTimeout = 5 * time.Minute
	poll := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(pollInterval),
			uint64(pollTimeout/pollInterval),
		),
		ctx,
	)
	err = backoff.Retry(func() error {
		ok, err := client.FetchAccessToken(ctx)
		if nil != err {
			return backoff.Permanent(err)
		}
		if !ok {
			return errAuthorizationPending
		}
		return nil
	}, poll)
	if nil != err {
		switch {
		case errors.Is(err, errAuthorizationPending):
			return errors.New("authorization was not approved in time")
		case errutil.IsContext(ctx):
			return ctx.Err()
		case errors.Is(err, tidal.ErrNotAuthenticated):
			return err
		default:
			panic(errutil.UnknownError(err))
		}
	}

	fmt.Printf("Logged in as user %d\n", client.Session().UserID)
	return nil
}

func printTracks(tracks []tidal.Track) {
	for _, track := range tracks {
		liked := " "
		if track.Liked {
			liked = "*"
		}
		fmt.Printf("%s %12d  %s - %s  (%s)\n", liked, track.ID, track.Artist, track.Title, formatDuration(track.Duration))
	}
}

func formatDuration(millis int64) string {
	d := time.Duration(millis) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func search(cliCtx *cli.Context) error {
	query := cliCtx.Args().First()
	if query == "" {
		return errors.New("query argument is required")
	}
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	tracks, err := client.Query(cliCtx.Context, query, true)
	if nil != err {
		return err
	}
	printTracks(tracks)
	return nil
}

func favoriteTracks(cliCtx *cli.Context) error {
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	tracks, err := client.GetTracks(cliCtx.Context, cliCtx.Bool(flagReset))
	if nil != err {
		return err
	}
	printTracks(tracks)
	return nil
}

func favoriteArtists(cliCtx *cli.Context) error {
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	artists, err := client.GetArtists(cliCtx.Context, cliCtx.Bool(flagReset))
	if nil != err {
		return err
	}
	for _, artist := range artists {
		fmt.Printf("%12d  %s\n", artist.ID, artist.Name)
	}
	return nil
}

func artistTracks(cliCtx *cli.Context) error {
	artistID, err := strconv.ParseInt(cliCtx.Args().First(), 10, 64)
	if nil != err {
		return fmt.Errorf("failed to parse artist id: %v", err)
	}
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	tracks, err := client.GetArtist(cliCtx.Context, artistID, cliCtx.Bool(flagReset))
	if nil != err {
		return err
	}
	printTracks(tracks)
	return nil
}

func favoriteAlbums(cliCtx *cli.Context) error {
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	albums, err := client.GetAlbums(cliCtx.Context, cliCtx.Bool(flagReset))
	if nil != err {
		return err
	}
	for _, album := range albums {
		fmt.Printf("%12d  %s - %s\n", album.ID, album.Artist, album.Title)
	}
	return nil
}

func albumTracks(cliCtx *cli.Context) error {
	albumID, err := strconv.ParseInt(cliCtx.Args().First(), 10, 64)
	if nil != err {
		return fmt.Errorf("failed to parse album id: %v", err)
	}
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	tracks, err := client.GetAlbum(cliCtx.Context, albumID, cliCtx.Bool(flagReset))
	if nil != err {
		return err
	}
	printTracks(tracks)
	return nil
}

func playlists(cliCtx *cli.Context) error {
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	lists, err := client.GetPlaylists(cliCtx.Context, cliCtx.Bool(flagReset))
	if nil != err {
		return err
	}
	for _, list := range lists {
		fmt.Printf("%s  %s  (%s)\n", list.UUID, list.Title, formatDuration(list.Duration))
	}
	return nil
}

func playlistTracks(cliCtx *cli.Context) error {
	uuid := cliCtx.Args().First()
	if uuid == "" {
		return errors.New("playlist uuid argument is required")
	}
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	tracks, err := client.GetPlaylist(cliCtx.Context, uuid, cliCtx.Bool(flagReset))
	if nil != err {
		return err
	}
	printTracks(tracks)
	return nil
}

func playlistCreate(cliCtx *cli.Context) error {
	title := cliCtx.Args().First()
	if title == "" {
		return errors.New("title argument is required")
	}
	trackIDs := make([]int64, 0, cliCtx.Args().Len()-1)
	for _, arg := range cliCtx.Args().Tail() {
		id, err := strconv.ParseInt(arg, 10, 64)
		if nil != err {
			return fmt.Errorf("failed to parse track id %q: %v", arg, err)
		}
		trackIDs = append(trackIDs, id)
	}

	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	playlist, err := client.CreatePlaylist(cliCtx.Context, title, "")
	if nil != err {
		return err
	}
	fmt.Printf("Created playlist %s\n", playlist.UUID)

	if len(trackIDs) > 0 {
		ok, err := client.PlaylistAdd(cliCtx.Context, playlist.UUID, playlist.ETag, trackIDs)
		if nil != err {
			return err
		}
		if !ok {
			return errors.New("adding tracks to the playlist was rejected")
		}
		fmt.Printf("Added %d tracks\n", len(trackIDs))
	}
	return nil
}

func playlistDelete(cliCtx *cli.Context) error {
	uuid := cliCtx.Args().First()
	if uuid == "" {
		return errors.New("playlist uuid argument is required")
	}
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	ok, err := client.DeletePlaylist(cliCtx.Context, uuid)
	if nil != err {
		return err
	}
	if !ok {
		return errors.New("deleting the playlist was rejected")
	}
	fmt.Println("Playlist deleted")
	return nil
}

func mixes(cliCtx *cli.Context) error {
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	lists, err := client.GetMixes(cliCtx.Context)
	if nil != err {
		return err
	}
	for _, mix := range lists {
		fmt.Printf("%s  %s\n", mix.UUID, mix.Title)
	}
	return nil
}

func mixTracks(cliCtx *cli.Context) error {
	mixID := cliCtx.Args().First()
	if mixID == "" {
		return errors.New("mix id argument is required")
	}
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	tracks, err := client.GetMix(cliCtx.Context, mixID, cliCtx.Bool(flagReset))
	if nil != err {
		return err
	}
	printTracks(tracks)
	return nil
}

func toggleLike(cliCtx *cli.Context) error {
	trackID, err := strconv.ParseInt(cliCtx.Args().First(), 10, 64)
	if nil != err {
		return fmt.Errorf("failed to parse track id: %v", err)
	}
	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}
	ok, err := client.ToggleLike(cliCtx.Context, trackID)
	if nil != err {
		return err
	}
	if !ok {
		return errors.New("toggling the like status was rejected")
	}
	fmt.Println("Like status toggled")
	return nil
}

func streamURLs(cliCtx *cli.Context) error {
	if cliCtx.Args().Len() == 0 {
		return errors.New("at least one track id argument is required")
	}
	trackIDs := make([]int64, 0, cliCtx.Args().Len())
	for _, arg := range cliCtx.Args().Slice() {
		id, err := strconv.ParseInt(arg, 10, 64)
		if nil != err {
			return fmt.Errorf("failed to parse track id %q: %v", arg, err)
		}
		trackIDs = append(trackIDs, id)
	}

	client, err := newClient(cliCtx)
	if nil != err {
		return err
	}

	urls := make([]string, len(trackIDs))
	eg, ctx := errgroup.WithContext(cliCtx.Context)
	eg.SetLimit(4)
	for i, trackID := range trackIDs {
		i, trackID := i, trackID
		eg.Go(func() error {
			streamURL, err := client.GetStreamURL(ctx, trackID)
			if nil != err {
				return fmt.Errorf("failed to resolve stream url for track %d: %w", trackID, err)
			}
			urls[i] = streamURL
			return nil
		})
	}
	if err := eg.Wait(); nil != err {
		return err
	}

	for i, trackID := range trackIDs {
		fmt.Printf("%12d  %s\n", trackID, urls[i])
	}
	return nil
}
