package viewmodel

import (
	"fmt"

	"watchlater/internal/tea"
	"watchlater/internal/types"
)

// AddEffects builds the commands the add reducer may issue. Each field only
// describes an effect; nothing runs until the program interprets the command.
type AddEffects struct {
	ParseVideoID    func(uri string) (string, bool)
	GetAuthToken    func(g func(types.AuthTokenResult) AddMsg) tea.Cmd[AddMsg]
	GetVideoInfo    func(videoID, token string, g func(types.VideoInfoResult) AddMsg) tea.Cmd[AddMsg]
	GetPlaylists    func(token string, g func(types.PlaylistsResult) AddMsg) tea.Cmd[AddMsg]
	AddVideo        func(videoID, token string, playlist types.Playlist, g func(types.AddVideoResult) AddMsg) tea.Cmd[AddMsg]
	InvalidateToken func(token string) tea.Cmd[AddMsg]
	PutAccount      func(account types.Account) tea.Cmd[AddMsg]
	SetPlaylist     func(playlist types.Playlist) tea.Cmd[AddMsg]
	OpenAuthIntent  func(intent types.Intent) tea.Cmd[AddMsg]
}

// UpdateAdd folds msg into model. It performs no I/O of its own.
func UpdateAdd(fx AddEffects, model AddModel, msg AddMsg) (AddModel, tea.Cmd[AddMsg]) {
	none := tea.None[AddMsg]()
	switch msg := msg.(type) {
	case SetVideoURI:
		id, ok := fx.ParseVideoID(msg.URI)
		if !ok {
			model.VideoID = ""
			model.VideoInfo = VideoInfoError{Err: InfoError{Kind: InfoErrorInvalidVideoID}}
			return model, none
		}
		model.VideoID = id
		model.VideoInfo = VideoInfoProgress{}
		return model, fx.GetAuthToken(func(r types.AuthTokenResult) AddMsg {
			return OnVideoInfoTokenResult{Result: r, VideoID: id}
		})

	case OnVideoInfoTokenResult:
		switch r := msg.Result.(type) {
		case types.AuthToken:
			videoID := msg.VideoID
			return model, fx.GetVideoInfo(videoID, r.Token, func(r types.VideoInfoResult) AddMsg {
				return OnVideoInfoResult{Result: r, VideoID: videoID}
			})
		case types.AuthHasIntent:
			model.VideoAdd = VideoAddHasIntent{Intent: r.Intent}
			return model, fx.OpenAuthIntent(r.Intent)
		case types.AuthError:
			model.VideoInfo = VideoInfoError{Err: infoErrorFromAuth(r)}
			return model, none
		}

	case OnVideoInfoResult:
		if msg.VideoID != model.VideoID {
			// stale: the link changed while the fetch was running
			return model, none
		}
		switch r := msg.Result.(type) {
		case types.VideoInfoFound:
			model.VideoInfo = VideoInfoLoaded{Item: r.Item}
		case types.VideoInfoFailed:
			model.VideoInfo = VideoInfoError{Err: InfoError{Kind: InfoErrorYouTube, YouTube: r.Type}}
		}
		return model, none

	case WatchLater:
		switch {
		case model.Account == nil:
			model.VideoAdd = VideoAddError{Err: AddError{Kind: AddErrorNoAccount}}
			return model, none
		case model.PermissionNeeded != nil && *model.PermissionNeeded:
			model.VideoAdd = VideoAddError{Err: AddError{Kind: AddErrorNoPermission}}
			return model, none
		case model.TargetPlaylist == nil:
			model.VideoAdd = VideoAddError{Err: AddError{Kind: AddErrorNoPlaylistSelected}}
			return model, none
		}
		videoID, playlist := msg.VideoID, *model.TargetPlaylist
		model.VideoAdd = VideoAddProgress{}
		return model, fx.GetAuthToken(func(r types.AuthTokenResult) AddMsg {
			return OnInsertTokenResult{Result: r, VideoID: videoID, Playlist: playlist}
		})

	case OnInsertTokenResult:
		switch r := msg.Result.(type) {
		case types.AuthToken:
			return model, fx.AddVideo(msg.VideoID, r.Token, msg.Playlist, func(res types.AddVideoResult) AddMsg {
				return OnAddVideoResult{Result: res, VideoID: msg.VideoID, Playlist: msg.Playlist, Retried: msg.Retried}
			})
		case types.AuthHasIntent:
			model.VideoAdd = VideoAddHasIntent{Intent: r.Intent}
			return model, fx.OpenAuthIntent(r.Intent)
		case types.AuthError:
			model.VideoAdd = VideoAddError{Err: addErrorFromAuth(r)}
			return model, none
		}

	case OnAddVideoResult:
		switch r := msg.Result.(type) {
		case types.AddVideoSuccess:
			model.VideoAdd = VideoAddSuccess{}
			return model, none
		case types.AddVideoFailed:
			if r.Type == types.ErrorInvalidToken && !msg.Retried {
				return model, tea.Batch(
					fx.InvalidateToken(r.Token),
					fx.GetAuthToken(func(res types.AuthTokenResult) AddMsg {
						return OnInsertTokenResult{Result: res, VideoID: msg.VideoID, Playlist: msg.Playlist, Retried: true}
					}),
				)
			}
			model.VideoAdd = VideoAddError{Err: addErrorFromAPI(r.Type)}
			return model, none
		}

	case ChangePlaylist:
		if model.Account == nil {
			model.VideoAdd = VideoAddError{Err: AddError{Kind: AddErrorNoAccount}}
			return model, none
		}
		return model, fx.GetAuthToken(func(r types.AuthTokenResult) AddMsg {
			return OnPlaylistsTokenResult{Result: r}
		})

	case OnPlaylistsTokenResult:
		switch r := msg.Result.(type) {
		case types.AuthToken:
			return model, fx.GetPlaylists(r.Token, func(res types.PlaylistsResult) AddMsg {
				return OnPlaylistResult{Result: res, Retried: msg.Retried}
			})
		case types.AuthHasIntent:
			model.VideoAdd = VideoAddHasIntent{Intent: r.Intent}
			return model, fx.OpenAuthIntent(r.Intent)
		case types.AuthError:
			model.VideoAdd = VideoAddError{Err: addErrorFromAuth(r)}
			return model, none
		}

	case OnPlaylistResult:
		switch r := msg.Result.(type) {
		case types.PlaylistsFound:
			playlists := r.Playlists
			if playlists == nil {
				playlists = []types.Playlist{}
			}
			model.PlaylistSelection = &PlaylistSelection{Playlists: playlists}
			return model, none
		case types.PlaylistsFailed:
			if r.Type == types.ErrorInvalidToken && !msg.Retried {
				return model, tea.Batch(
					fx.InvalidateToken(r.Token),
					fx.GetAuthToken(func(res types.AuthTokenResult) AddMsg {
						return OnPlaylistsTokenResult{Result: res, Retried: true}
					}),
				)
			}
			model.VideoAdd = VideoAddError{Err: addErrorFromAPI(r.Type)}
			return model, none
		}

	case SelectPlaylist:
		model.PlaylistSelection = nil
		model.VideoAdd = VideoAddIdle{}
		return model, fx.SetPlaylist(msg.Playlist)

	case ClearPlaylists:
		model.PlaylistSelection = nil
		return model, none

	case SetAccount:
		model.VideoAdd = VideoAddIdle{}
		return model, fx.PutAccount(msg.Account)

	case SetPermissionNeeded:
		if model.PermissionNeeded != nil && *model.PermissionNeeded && !msg.Needed {
			model.VideoAdd = VideoAddIdle{}
		}
		needed := msg.Needed
		model.PermissionNeeded = &needed
		return model, none

	case OnAccount:
		model.Account = msg.Account
		if _, failed := model.VideoInfo.(VideoInfoError); failed && model.VideoID != "" && msg.Account != nil {
			videoID := model.VideoID
			model.VideoInfo = VideoInfoProgress{}
			return model, fx.GetAuthToken(func(r types.AuthTokenResult) AddMsg {
				return OnVideoInfoTokenResult{Result: r, VideoID: videoID}
			})
		}
		return model, none

	case OnAccountPermissionGranted:
		model.VideoAdd = VideoAddIdle{}
		return model, none

	case OnTargetPlaylist:
		model.TargetPlaylist = msg.Playlist
		return model, none
	}
	panic(fmt.Sprintf("viewmodel: unhandled add message %T", msg))
}

func addErrorFromAuth(err types.AuthError) AddError {
	switch err.Type {
	case types.AuthErrorAccountRemoved:
		return AddError{Kind: AddErrorNoAccount}
	case types.AuthErrorNetwork:
		return AddError{Kind: AddErrorNetwork}
	default:
		return AddError{Kind: AddErrorOther, Message: err.Message}
	}
}

func infoErrorFromAuth(err types.AuthError) InfoError {
	switch err.Type {
	case types.AuthErrorAccountRemoved:
		return InfoError{Kind: InfoErrorNoAccount}
	case types.AuthErrorNetwork:
		return InfoError{Kind: InfoErrorNetwork}
	default:
		return InfoError{Kind: InfoErrorOther, Message: err.Message}
	}
}

// addErrorFromAPI maps a final API failure. An InvalidToken reaching here has
// already used its retry.
func addErrorFromAPI(t types.ErrorType) AddError {
	if t == types.ErrorNetwork {
		return AddError{Kind: AddErrorNetwork}
	}
	return AddError{Kind: AddErrorOther, Message: t.String()}
}
