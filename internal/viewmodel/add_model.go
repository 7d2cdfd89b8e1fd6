package viewmodel

import "watchlater/internal/types"

// AddModel is one immutable snapshot of the add workflow. Pointer fields are
// optional values and are never mutated once a snapshot is published.
type AddModel struct {
	VideoID           string
	VideoAdd          VideoAdd
	VideoInfo         VideoInfo
	Account           *types.Account
	PermissionNeeded  *bool
	TargetPlaylist    *types.Playlist
	PlaylistSelection *PlaylistSelection
}

func initialAddModel() AddModel {
	return AddModel{
		VideoAdd:  VideoAddIdle{},
		VideoInfo: VideoInfoProgress{},
	}
}

// VideoAdd is the insertion status: VideoAddIdle, VideoAddProgress,
// VideoAddSuccess, VideoAddError or VideoAddHasIntent.
type VideoAdd interface {
	isVideoAdd()
}

type VideoAddIdle struct{}

type VideoAddProgress struct{}

type VideoAddSuccess struct{}

type VideoAddError struct {
	Err AddError
}

// VideoAddHasIntent waits for the host to run Intent and report back through
// OnAccountPermissionGranted.
type VideoAddHasIntent struct {
	Intent types.Intent
}

func (VideoAddIdle) isVideoAdd()      {}
func (VideoAddProgress) isVideoAdd()  {}
func (VideoAddSuccess) isVideoAdd()   {}
func (VideoAddError) isVideoAdd()     {}
func (VideoAddHasIntent) isVideoAdd() {}

type AddErrorKind string

const (
	AddErrorOther              AddErrorKind = "Other"
	AddErrorNoAccount          AddErrorKind = "NoAccount"
	AddErrorNoPermission       AddErrorKind = "NoPermission"
	AddErrorNoPlaylistSelected AddErrorKind = "NoPlaylistSelected"
	AddErrorNetwork            AddErrorKind = "Network"
)

// AddError is a terminal insertion failure. Message names the underlying
// reason for AddErrorOther and is empty otherwise.
type AddError struct {
	Kind    AddErrorKind
	Message string
}

// VideoInfo is the metadata fetch status: VideoInfoProgress, VideoInfoLoaded
// or VideoInfoError.
type VideoInfo interface {
	isVideoInfo()
}

type VideoInfoProgress struct{}

type VideoInfoLoaded struct {
	Item types.Video
}

type VideoInfoError struct {
	Err InfoError
}

func (VideoInfoProgress) isVideoInfo() {}
func (VideoInfoLoaded) isVideoInfo()   {}
func (VideoInfoError) isVideoInfo()    {}

type InfoErrorKind string

const (
	InfoErrorInvalidVideoID InfoErrorKind = "InvalidVideoID"
	InfoErrorYouTube        InfoErrorKind = "YouTube"
	InfoErrorNoAccount      InfoErrorKind = "NoAccount"
	InfoErrorNetwork        InfoErrorKind = "Network"
	InfoErrorOther          InfoErrorKind = "Other"
)

// InfoError is a metadata fetch failure. YouTube is set for InfoErrorYouTube,
// Message for InfoErrorOther.
type InfoError struct {
	Kind    InfoErrorKind
	YouTube types.ErrorType
	Message string
}

// PlaylistSelection holds the playlists offered for selection. An empty list
// means the account has no playlists yet.
type PlaylistSelection struct {
	Playlists []types.Playlist
}

// AddMsg is the closed set of messages the add workflow accepts.
type AddMsg interface {
	isAddMsg()
}

type WatchLater struct {
	VideoID string
}

type SetAccount struct {
	Account types.Account
}

type ChangePlaylist struct{}

type SelectPlaylist struct {
	Playlist types.Playlist
}

type ClearPlaylists struct{}

type SetPermissionNeeded struct {
	Needed bool
}

type SetVideoURI struct {
	URI string
}

type OnVideoInfoTokenResult struct {
	Result  types.AuthTokenResult
	VideoID string
}

type OnVideoInfoResult struct {
	Result  types.VideoInfoResult
	VideoID string
}

// OnInsertTokenResult and the other insert and playlist continuations carry
// Retried, so each operation gets its own single token retry.
type OnInsertTokenResult struct {
	Result   types.AuthTokenResult
	VideoID  string
	Playlist types.Playlist
	Retried  bool
}

type OnAddVideoResult struct {
	Result   types.AddVideoResult
	VideoID  string
	Playlist types.Playlist
	Retried  bool
}

type OnPlaylistsTokenResult struct {
	Result  types.AuthTokenResult
	Retried bool
}

type OnPlaylistResult struct {
	Result  types.PlaylistsResult
	Retried bool
}

type OnAccount struct {
	Account *types.Account
}

type OnTargetPlaylist struct {
	Playlist *types.Playlist
}

type OnAccountPermissionGranted struct{}

func (WatchLater) isAddMsg()                 {}
func (SetAccount) isAddMsg()                 {}
func (ChangePlaylist) isAddMsg()             {}
func (SelectPlaylist) isAddMsg()             {}
func (ClearPlaylists) isAddMsg()             {}
func (SetPermissionNeeded) isAddMsg()        {}
func (SetVideoURI) isAddMsg()                {}
func (OnVideoInfoTokenResult) isAddMsg()     {}
func (OnVideoInfoResult) isAddMsg()          {}
func (OnInsertTokenResult) isAddMsg()        {}
func (OnAddVideoResult) isAddMsg()           {}
func (OnPlaylistsTokenResult) isAddMsg()     {}
func (OnPlaylistResult) isAddMsg()           {}
func (OnAccount) isAddMsg()                  {}
func (OnTargetPlaylist) isAddMsg()           {}
func (OnAccountPermissionGranted) isAddMsg() {}

// AddEvent is a fire-once request to the hosting screen.
type AddEvent interface {
	isAddEvent()
}

// OpenAuthIntent asks the host to launch an authorization intent.
type OpenAuthIntent struct {
	Intent types.Intent
}

func (OpenAuthIntent) isAddEvent() {}
