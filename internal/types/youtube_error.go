package types

// ErrorType classifies failures reported by the YouTube Data API.
type ErrorType string

const (
	ErrorNeedAccess           ErrorType = "NeedAccess"
	ErrorNetwork              ErrorType = "Network"
	ErrorOther                ErrorType = "Other"
	ErrorPlaylistFull         ErrorType = "PlaylistFull"
	ErrorInvalidToken         ErrorType = "InvalidToken"
	ErrorVideoNotFound        ErrorType = "VideoNotFound"
	ErrorAlreadyInPlaylist    ErrorType = "AlreadyInPlaylist"
	ErrorOperationUnsupported ErrorType = "OperationUnsupported"
)

func (e ErrorType) String() string {
	if e == "" {
		return string(ErrorOther)
	}
	return string(e)
}

// AuthErrorType classifies failures of the account collaborator.
type AuthErrorType string

const (
	AuthErrorAccountRemoved AuthErrorType = "AccountRemoved"
	AuthErrorNetwork        AuthErrorType = "Network"
	AuthErrorOther          AuthErrorType = "Other"
)
