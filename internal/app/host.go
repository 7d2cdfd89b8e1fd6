// Package app hosts the view models: terminal screens built on bubbletea and
// a headless runner for scripts.
package app

import (
	"context"
	"errors"

	"watchlater/internal/logging"
	engine "watchlater/internal/tea"
	"watchlater/internal/types"
	"watchlater/internal/viewmodel"
)

// AccountService is the account collaborator plus what the host needs to
// list accounts and complete authorization intents.
type AccountService interface {
	viewmodel.Accounts
	Accounts(ctx context.Context) ([]types.Account, error)
	Authorize(ctx context.Context, intent types.Intent, open func(url string) error) (types.Account, error)
}

type YouTubeService interface {
	viewmodel.Videos
	viewmodel.Playlists
}

type AddConfig struct {
	Accounts AccountService
	YouTube  YouTubeService
	Parser   viewmodel.VideoIDParser
	// PermissionNeeded is set when no OAuth client is configured, which
	// blocks insertion until one is.
	PermissionNeeded bool
	Workers          int
	Logger           logging.Logger
	Clipboard        ClipboardService
	Open             func(ctx context.Context, url string) error
}

var errMissingCollaborator = errors.New("app: accounts, youtube and parser are required")

func (c *AddConfig) normalize() error {
	if c.Accounts == nil || c.YouTube == nil || c.Parser == nil {
		return errMissingCollaborator
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	if c.Clipboard == nil {
		c.Clipboard = NewClipboardService()
	}
	if c.Open == nil {
		c.Open = OpenURL
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return nil
}

func (c AddConfig) dependencies(scheduler engine.Scheduler) viewmodel.AddDependencies {
	return viewmodel.AddDependencies{
		Accounts:  c.Accounts,
		Videos:    c.YouTube,
		Playlists: c.YouTube,
		Parser:    c.Parser,
		Scheduler: scheduler,
		Logger:    c.Logger,
	}
}

// authorize runs intent through the account service with the configured
// browser opener.
func (c AddConfig) authorize(ctx context.Context, intent types.Intent) (types.Account, error) {
	return c.Accounts.Authorize(ctx, intent, func(url string) error {
		return c.Open(ctx, url)
	})
}

// describeAddError renders an insertion failure for people.
func describeAddError(err viewmodel.AddError) string {
	switch err.Kind {
	case viewmodel.AddErrorNoAccount:
		return "no account selected"
	case viewmodel.AddErrorNoPermission:
		return "no OAuth client configured; set oauth.client_id in config.toml"
	case viewmodel.AddErrorNoPlaylistSelected:
		return "no playlist selected"
	case viewmodel.AddErrorNetwork:
		return "network unavailable"
	}
	switch types.ErrorType(err.Message) {
	case types.ErrorPlaylistFull:
		return "the playlist is full"
	case types.ErrorAlreadyInPlaylist:
		return "the video is already in the playlist"
	case types.ErrorVideoNotFound:
		return "the video does not exist"
	case types.ErrorNeedAccess:
		return "the account cannot access YouTube"
	case types.ErrorOperationUnsupported:
		return "the playlist cannot be modified"
	case types.ErrorInvalidToken:
		return "authorization was rejected"
	}
	if err.Message != "" && err.Message != string(types.ErrorOther) {
		return "could not add video: " + err.Message
	}
	return "could not add video"
}

func describeInfoError(err viewmodel.InfoError) string {
	switch err.Kind {
	case viewmodel.InfoErrorInvalidVideoID:
		return "not a YouTube video link"
	case viewmodel.InfoErrorNoAccount:
		return "sign in to load video details"
	case viewmodel.InfoErrorNetwork:
		return "network unavailable"
	case viewmodel.InfoErrorYouTube:
		if err.YouTube == types.ErrorVideoNotFound {
			return "the video does not exist"
		}
		return "YouTube error: " + err.YouTube.String()
	}
	if err.Message != "" {
		return "could not load video: " + err.Message
	}
	return "could not load video"
}
