// Package videoid extracts YouTube video ids from shared links.
package videoid

import (
	"net/url"
	"strings"
)

// Parse returns the video id referenced by raw. Playlist links and input
// that is not a URI yield false.
func Parse(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return fromURL(u)
}

func fromURL(u *url.URL) (string, bool) {
	// vnd.youtube:jqxENMKaeCU
	if u.Opaque != "" {
		return nonEmpty(u.Opaque)
	}

	query := u.Query()
	if query.Has("v") {
		return nonEmpty(query.Get("v"))
	}
	if query.Has("list") {
		return "", false
	}

	segments := pathSegments(u.Path)
	if len(segments) > 0 && segments[0] == "attribution_link" {
		inner := query.Get("u")
		if inner == "" {
			return "", false
		}
		if decoded, err := url.QueryUnescape(inner); err == nil {
			inner = decoded
		}
		return Parse(inner)
	}

	// youtu.be/<id>, /v/<id>, /embed/<id>, /shorts/<id>
	if len(segments) == 0 {
		return "", false
	}
	return segments[len(segments)-1], true
}

func pathSegments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonEmpty(id string) (string, bool) {
	id = strings.TrimSpace(id)
	return id, id != ""
}

// Parser adapts Parse to the view model's parser collaborator.
type Parser struct{}

func (Parser) ParseVideoID(raw string) (string, bool) {
	return Parse(raw)
}

// WatchURL is the canonical link for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}
