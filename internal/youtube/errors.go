package youtube

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"

	"watchlater/internal/types"
)

// translateError maps an API failure onto the error kinds the workflows
// understand.
func translateError(err error) types.ErrorType {
	if err == nil {
		return ""
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return translateAPIError(apiErr)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return types.ErrorNetwork
	}
	return types.ErrorOther
}

func translateAPIError(err *googleapi.Error) types.ErrorType {
	reason := ""
	if len(err.Errors) > 0 {
		reason = err.Errors[0].Reason
	}
	switch err.Code {
	case http.StatusUnauthorized:
		return types.ErrorInvalidToken
	case http.StatusForbidden:
		switch reason {
		case "dailyLimitExceededUnreg":
			return types.ErrorInvalidToken
		case "playlistContainsMaximumNumberOfVideos":
			return types.ErrorPlaylistFull
		default:
			return types.ErrorNeedAccess
		}
	case http.StatusNotFound:
		if reason == "videoNotFound" {
			return types.ErrorVideoNotFound
		}
	case http.StatusConflict:
		if reason == "videoAlreadyInPlaylist" {
			return types.ErrorAlreadyInPlaylist
		}
	case http.StatusBadRequest:
		if reason == "playlistOperationUnsupported" {
			return types.ErrorOperationUnsupported
		}
	}
	return types.ErrorOther
}
