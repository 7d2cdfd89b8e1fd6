package types

// AuthTokenResult is one of AuthToken, AuthHasIntent or AuthError.
type AuthTokenResult interface {
	isAuthTokenResult()
}

type AuthToken struct {
	Token string
}

type AuthHasIntent struct {
	Intent Intent
}

type AuthError struct {
	Type    AuthErrorType
	Message string
}

func (AuthToken) isAuthTokenResult()     {}
func (AuthHasIntent) isAuthTokenResult() {}
func (AuthError) isAuthTokenResult()     {}

// VideoInfoResult is one of VideoInfoFound or VideoInfoFailed.
type VideoInfoResult interface {
	isVideoInfoResult()
}

type VideoInfoFound struct {
	Item Video
}

type VideoInfoFailed struct {
	Type ErrorType
}

func (VideoInfoFound) isVideoInfoResult()  {}
func (VideoInfoFailed) isVideoInfoResult() {}

// PlaylistsResult is one of PlaylistsFound or PlaylistsFailed.
type PlaylistsResult interface {
	isPlaylistsResult()
}

type PlaylistsFound struct {
	Playlists []Playlist
}

// PlaylistsFailed carries the token used for the request so an invalid one
// can be invalidated before retrying.
type PlaylistsFailed struct {
	Type  ErrorType
	Token string
}

func (PlaylistsFound) isPlaylistsResult()  {}
func (PlaylistsFailed) isPlaylistsResult() {}

// AddVideoResult is one of AddVideoSuccess or AddVideoFailed.
type AddVideoResult interface {
	isAddVideoResult()
}

type AddVideoSuccess struct{}

type AddVideoFailed struct {
	Type  ErrorType
	Token string
}

func (AddVideoSuccess) isAddVideoResult() {}
func (AddVideoFailed) isAddVideoResult()  {}
