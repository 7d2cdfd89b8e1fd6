package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"watchlater/internal/types"
)

const playlistUsage = "usage: watchlater playlist list|set <id or title>"

var errSignInRequired = errors.New("sign in first with `watchlater account add`")

type PlaylistCommand struct {
	stdout       io.Writer
	stderr       io.Writer
	openServices servicesFactory
}

func NewPlaylistCommand(stdout, stderr io.Writer, openServices servicesFactory) *PlaylistCommand {
	return &PlaylistCommand{
		stdout:       stdout,
		stderr:       stderr,
		openServices: openServices,
	}
}

func (c *PlaylistCommand) Run(args []string) error {
	fs := flag.NewFlagSet("playlist", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New(playlistUsage)
	}
	action, rest := fs.Arg(0), fs.Args()[1:]

	ctx, stop := commandContext()
	defer stop()

	svc, err := c.openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	switch action {
	case "list", "ls":
		playlists, err := fetchPlaylists(ctx, svc)
		if err != nil {
			return err
		}
		printPlaylists(c.stdout, playlists, currentPlaylist(svc))
		return nil
	case "set", "use":
		query := strings.TrimSpace(strings.Join(rest, " "))
		if query == "" {
			return errors.New("playlist id or title is required")
		}
		playlists, err := fetchPlaylists(ctx, svc)
		if err != nil {
			return err
		}
		playlist, ok := matchPlaylist(playlists, query)
		if !ok {
			return fmt.Errorf("no playlist matches %q", query)
		}
		if err := svc.youtube.SetPlaylist(ctx, playlist); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "adding videos to %s\n", playlist.Title)
		return nil
	default:
		return fmt.Errorf("unknown playlist action %q\n%s", action, playlistUsage)
	}
}

// fetchPlaylists lists the selected account's playlists, retrying once with
// a fresh token when the first one is rejected.
func fetchPlaylists(ctx context.Context, svc *services) ([]types.Playlist, error) {
	for attempt := 0; ; attempt++ {
		token, err := authToken(ctx, svc.accounts)
		if err != nil {
			return nil, err
		}
		switch r := svc.youtube.GetPlaylists(ctx, token).(type) {
		case types.PlaylistsFound:
			return r.Playlists, nil
		case types.PlaylistsFailed:
			if r.Type == types.ErrorInvalidToken && attempt == 0 {
				svc.accounts.InvalidateToken(ctx, r.Token)
				continue
			}
			return nil, fmt.Errorf("list playlists: %s", r.Type)
		default:
			return nil, fmt.Errorf("list playlists: unexpected result %T", r)
		}
	}
}

func authToken(ctx context.Context, accounts accountService) (string, error) {
	switch r := accounts.GetAuthToken(ctx).(type) {
	case types.AuthToken:
		return r.Token, nil
	case types.AuthHasIntent:
		return "", errSignInRequired
	case types.AuthError:
		if r.Type == types.AuthErrorAccountRemoved {
			return "", errSignInRequired
		}
		if r.Message != "" {
			return "", fmt.Errorf("account: %s", r.Message)
		}
		return "", fmt.Errorf("account: %s", r.Type)
	default:
		return "", fmt.Errorf("account: unexpected result %T", r)
	}
}

func currentPlaylist(svc *services) *types.Playlist {
	var current *types.Playlist
	cancel := svc.youtube.ObserveTargetPlaylist(func(p *types.Playlist) { current = p })
	cancel()
	return current
}

// matchPlaylist prefers an exact id over a case-insensitive title.
func matchPlaylist(playlists []types.Playlist, query string) (types.Playlist, bool) {
	for _, playlist := range playlists {
		if playlist.ID == query {
			return playlist, true
		}
	}
	for _, playlist := range playlists {
		if strings.EqualFold(playlist.Title, query) {
			return playlist, true
		}
	}
	return types.Playlist{}, false
}
