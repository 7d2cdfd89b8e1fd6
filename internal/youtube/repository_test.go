package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"watchlater/internal/store"
	"watchlater/internal/types"
)

func apiError(w http.ResponseWriter, code int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": reason,
			"errors":  []map[string]any{{"domain": "youtube", "reason": reason, "message": reason}},
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestRepository(t *testing.T, handler http.Handler) *Repository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	repo, err := store.NewBboltRepository(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("NewBboltRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return NewRepository(repo.Preferences(), Options{
		Endpoint:          server.URL + "/",
		RequestsPerSecond: 100,
		Burst:             10,
		Timeout:           5 * time.Second,
	})
}

func requireBearer(t *testing.T, r *http.Request, token string) {
	t.Helper()
	if got := r.Header.Get("Authorization"); got != "Bearer "+token {
		t.Errorf("unexpected authorization header %q", got)
	}
}

func TestGetVideoInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r, "token-1")
		if r.URL.Query().Get("id") != "dGFSjKuJfrI" {
			writeJSON(w, map[string]any{"items": []any{}})
			return
		}
		writeJSON(w, map[string]any{"items": []any{map[string]any{
			"id": "dGFSjKuJfrI",
			"snippet": map[string]any{
				"title":       "Test video",
				"description": "About *things*",
				"thumbnails":  map[string]any{"medium": map[string]any{"url": "https://i.ytimg.com/vi/dGFSjKuJfrI/mqdefault.jpg"}},
			},
			"contentDetails": map[string]any{"duration": "PT4M13S"},
		}}})
	})
	r := newTestRepository(t, mux)
	ctx := context.Background()

	got := r.GetVideoInfo(ctx, "dGFSjKuJfrI", "token-1")
	found, ok := got.(types.VideoInfoFound)
	if !ok {
		t.Fatalf("expected video, got %#v", got)
	}
	want := types.Video{
		ID:           "dGFSjKuJfrI",
		Title:        "Test video",
		Description:  "About *things*",
		ThumbnailURL: "https://i.ytimg.com/vi/dGFSjKuJfrI/mqdefault.jpg",
		Duration:     "PT4M13S",
	}
	if found.Item != want {
		t.Fatalf("unexpected video:\n got=%#v\nwant=%#v", found.Item, want)
	}

	missing := r.GetVideoInfo(ctx, "unknown", "token-1")
	if failed, ok := missing.(types.VideoInfoFailed); !ok || failed.Type != types.ErrorVideoNotFound {
		t.Fatalf("expected VideoNotFound, got %#v", missing)
	}
}

func TestGetPlaylistsFollowsPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlists", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mine") != "true" {
			t.Errorf("expected mine=true, got %q", r.URL.RawQuery)
		}
		switch r.URL.Query().Get("pageToken") {
		case "":
			writeJSON(w, map[string]any{
				"nextPageToken": "p2",
				"items":         []any{map[string]any{"id": "PL1", "snippet": map[string]any{"title": "Later"}}},
			})
		case "p2":
			writeJSON(w, map[string]any{
				"items": []any{map[string]any{"id": "PL2", "snippet": map[string]any{"title": "Music"}}},
			})
		default:
			apiError(w, http.StatusBadRequest, "invalidPageToken")
		}
	})
	r := newTestRepository(t, mux)

	got := r.GetPlaylists(context.Background(), "token-1")
	found, ok := got.(types.PlaylistsFound)
	if !ok {
		t.Fatalf("expected playlists, got %#v", got)
	}
	if len(found.Playlists) != 2 || found.Playlists[0] != (types.Playlist{ID: "PL1", Title: "Later"}) || found.Playlists[1].ID != "PL2" {
		t.Fatalf("unexpected playlists: %#v", found.Playlists)
	}
}

func TestGetPlaylistsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []any{}})
	})
	r := newTestRepository(t, mux)
	got := r.GetPlaylists(context.Background(), "token-1")
	found, ok := got.(types.PlaylistsFound)
	if !ok || found.Playlists == nil || len(found.Playlists) != 0 {
		t.Fatalf("expected an empty, non-nil list, got %#v", got)
	}
}

func TestAddVideo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		requireBearer(t, r, "token-1")
		body, _ := io.ReadAll(r.Body)
		var item struct {
			Snippet struct {
				PlaylistID string `json:"playlistId"`
				ResourceID struct {
					Kind    string `json:"kind"`
					VideoID string `json:"videoId"`
				} `json:"resourceId"`
			} `json:"snippet"`
		}
		if err := json.Unmarshal(body, &item); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if item.Snippet.ResourceID.VideoID == "dupe" {
			apiError(w, http.StatusConflict, "videoAlreadyInPlaylist")
			return
		}
		if item.Snippet.PlaylistID != "PL1" || item.Snippet.ResourceID.Kind != "youtube#video" {
			t.Errorf("unexpected insert body: %s", body)
		}
		writeJSON(w, map[string]any{"id": "item-1"})
	})
	r := newTestRepository(t, mux)
	ctx := context.Background()
	playlist := types.Playlist{ID: "PL1", Title: "Later"}

	if got := r.AddVideo(ctx, "dGFSjKuJfrI", "token-1", playlist); got != (types.AddVideoSuccess{}) {
		t.Fatalf("expected success, got %#v", got)
	}
	got := r.AddVideo(ctx, "dupe", "token-1", playlist)
	failed, ok := got.(types.AddVideoFailed)
	if !ok || failed.Type != types.ErrorAlreadyInPlaylist || failed.Token != "token-1" {
		t.Fatalf("expected AlreadyInPlaylist carrying the token, got %#v", got)
	}
}

func TestErrorTranslation(t *testing.T) {
	cases := []struct {
		code   int
		reason string
		want   types.ErrorType
	}{
		{http.StatusUnauthorized, "authError", types.ErrorInvalidToken},
		{http.StatusForbidden, "dailyLimitExceededUnreg", types.ErrorInvalidToken},
		{http.StatusForbidden, "playlistContainsMaximumNumberOfVideos", types.ErrorPlaylistFull},
		{http.StatusForbidden, "insufficientPermissions", types.ErrorNeedAccess},
		{http.StatusNotFound, "videoNotFound", types.ErrorVideoNotFound},
		{http.StatusNotFound, "playlistNotFound", types.ErrorOther},
		{http.StatusConflict, "videoAlreadyInPlaylist", types.ErrorAlreadyInPlaylist},
		{http.StatusBadRequest, "playlistOperationUnsupported", types.ErrorOperationUnsupported},
		{http.StatusInternalServerError, "backendError", types.ErrorOther},
	}
	for _, tc := range cases {
		mux := http.NewServeMux()
		mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
			apiError(w, tc.code, tc.reason)
		})
		r := newTestRepository(t, mux)
		got := r.AddVideo(context.Background(), "id", "token", types.Playlist{ID: "PL1"})
		failed, ok := got.(types.AddVideoFailed)
		if !ok || failed.Type != tc.want {
			t.Fatalf("%d %s: got %#v, want %v", tc.code, tc.reason, got, tc.want)
		}
	}
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/"
	server.Close()
	repo, err := store.NewBboltRepository(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("NewBboltRepository: %v", err)
	}
	defer repo.Close()
	r := NewRepository(repo.Preferences(), Options{Endpoint: endpoint, Timeout: time.Second})

	got := r.GetVideoInfo(context.Background(), "id", "token")
	if failed, ok := got.(types.VideoInfoFailed); !ok || failed.Type != types.ErrorNetwork {
		t.Fatalf("expected Network, got %#v", got)
	}
}

func TestSetPlaylistPersistsAndPublishes(t *testing.T) {
	r := newTestRepository(t, http.NotFoundHandler())
	ctx := context.Background()
	var seen []*types.Playlist
	cancel := r.ObserveTargetPlaylist(func(p *types.Playlist) { seen = append(seen, p) })
	defer cancel()

	if err := r.SetPlaylist(ctx, types.Playlist{ID: "PL1", Title: "Later"}); err != nil {
		t.Fatalf("SetPlaylist: %v", err)
	}
	if len(seen) != 2 || seen[0] != nil || seen[1] == nil || seen[1].ID != "PL1" {
		t.Fatalf("unexpected notifications: %#v", seen)
	}

	r.TargetPlaylist().Set(nil)
	if err := r.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p := r.TargetPlaylist().Get(); p == nil || p.Title != "Later" {
		t.Fatalf("expected persisted playlist, got %#v", p)
	}
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"PT4M13S":  4*time.Minute + 13*time.Second,
		"PT1H2M3S": time.Hour + 2*time.Minute + 3*time.Second,
		"PT45S":    45 * time.Second,
		"P1DT1S":   24*time.Hour + time.Second,
		"P0D":      0,
		"PT1.5S":   1500 * time.Millisecond,
	}
	for raw, want := range cases {
		got, err := ParseDuration(raw)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseDuration(%q) = %v, want %v", raw, got, want)
		}
	}
	for _, raw := range []string{"", "P", "PT", "4:13", "P1Y", "PTS"} {
		if _, err := ParseDuration(raw); err == nil {
			t.Fatalf("ParseDuration(%q) should fail", raw)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatISODuration("PT4M13S"); got != "4:13" {
		t.Fatalf("got %q", got)
	}
	if got := FormatISODuration("PT1H2M3S"); got != "1:02:03" {
		t.Fatalf("got %q", got)
	}
	if got := FormatISODuration("garbage"); !strings.EqualFold(got, "garbage") {
		t.Fatalf("got %q", got)
	}
}
