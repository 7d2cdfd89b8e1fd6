// Package youtube talks to the YouTube Data API on behalf of the signed-in
// account: video metadata, the user's playlists and playlist inserts.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"watchlater/internal/livedata"
	"watchlater/internal/logging"
	"watchlater/internal/store"
	"watchlater/internal/types"
)

const maxPlaylistPages = 20

type Options struct {
	// Endpoint overrides the API base URL.
	Endpoint          string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	Transport         http.RoundTripper
	Logger            logging.Logger
}

type Repository struct {
	prefs     store.PreferenceStore
	endpoint  string
	timeout   time.Duration
	transport http.RoundTripper
	logger    logging.Logger

	playlist *livedata.Value[*types.Playlist]
}

func NewRepository(prefs store.PreferenceStore, opts Options) *Repository {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Repository{
		prefs:     prefs,
		endpoint:  strings.TrimSpace(opts.Endpoint),
		timeout:   timeout,
		transport: newLimitedTransport(opts.Transport, opts.RequestsPerSecond, opts.Burst),
		logger:    logger.With(logging.F("component", "youtube")),
		playlist:  livedata.New[*types.Playlist](nil),
	}
}

// Load publishes the persisted target playlist.
func (r *Repository) Load(ctx context.Context) error {
	prefs, err := r.prefs.Load(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	r.playlist.Set(prefs.Playlist)
	return nil
}

func (r *Repository) TargetPlaylist() *livedata.Value[*types.Playlist] {
	return r.playlist
}

func (r *Repository) ObserveTargetPlaylist(fn func(*types.Playlist)) (cancel func()) {
	return r.playlist.Observe(fn)
}

// SetPlaylist persists playlist as the insert target and publishes it.
func (r *Repository) SetPlaylist(ctx context.Context, playlist types.Playlist) error {
	prefs, err := r.prefs.Load(ctx)
	if err != nil {
		return err
	}
	p := playlist
	prefs.Playlist = &p
	if err := r.prefs.Save(ctx, prefs); err != nil {
		return err
	}
	r.playlist.Set(&p)
	return nil
}

func (r *Repository) service(ctx context.Context, token string) (*yt.Service, error) {
	client := &http.Client{
		Timeout: r.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   r.transport,
		},
	}
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if r.endpoint != "" {
		opts = append(opts, option.WithEndpoint(r.endpoint))
	}
	return yt.NewService(ctx, opts...)
}

func (r *Repository) GetVideoInfo(ctx context.Context, videoID, token string) types.VideoInfoResult {
	svc, err := r.service(ctx, token)
	if err != nil {
		r.logger.Error("youtube_service_failed", logging.Err(err))
		return types.VideoInfoFailed{Type: types.ErrorOther}
	}
	resp, err := svc.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		kind := translateError(err)
		r.logger.Warn("video_info_failed", logging.F("video", videoID), logging.F("kind", kind), logging.Err(err))
		return types.VideoInfoFailed{Type: kind}
	}
	if len(resp.Items) == 0 {
		return types.VideoInfoFailed{Type: types.ErrorVideoNotFound}
	}
	return types.VideoInfoFound{Item: videoFromAPI(resp.Items[0])}
}

func videoFromAPI(item *yt.Video) types.Video {
	video := types.Video{ID: item.Id}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
	}
	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
	}
	return video
}

func thumbnailURL(thumbs *yt.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, thumb := range []*yt.Thumbnail{thumbs.Medium, thumbs.High, thumbs.Default, thumbs.Standard, thumbs.Maxres} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// GetPlaylists lists every playlist owned by the account.
func (r *Repository) GetPlaylists(ctx context.Context, token string) types.PlaylistsResult {
	svc, err := r.service(ctx, token)
	if err != nil {
		r.logger.Error("youtube_service_failed", logging.Err(err))
		return types.PlaylistsFailed{Type: types.ErrorOther, Token: token}
	}
	playlists := make([]types.Playlist, 0)
	pageToken := ""
	for page := 0; page < maxPlaylistPages; page++ {
		call := svc.Playlists.List([]string{"snippet"}).
			Mine(true).
			MaxResults(50).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			kind := translateError(err)
			r.logger.Warn("playlists_failed", logging.F("kind", kind), logging.Err(err))
			return types.PlaylistsFailed{Type: kind, Token: token}
		}
		for _, item := range resp.Items {
			playlist := types.Playlist{ID: item.Id}
			if item.Snippet != nil {
				playlist.Title = item.Snippet.Title
			}
			playlists = append(playlists, playlist)
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return types.PlaylistsFound{Playlists: playlists}
}

func (r *Repository) AddVideo(ctx context.Context, videoID, token string, playlist types.Playlist) types.AddVideoResult {
	svc, err := r.service(ctx, token)
	if err != nil {
		r.logger.Error("youtube_service_failed", logging.Err(err))
		return types.AddVideoFailed{Type: types.ErrorOther, Token: token}
	}
	item := &yt.PlaylistItem{
		Snippet: &yt.PlaylistItemSnippet{
			PlaylistId: playlist.ID,
			ResourceId: &yt.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
	}
	if _, err := svc.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do(); err != nil {
		kind := translateError(err)
		r.logger.Warn("add_video_failed", logging.F("video", videoID), logging.F("playlist", playlist.ID), logging.F("kind", kind), logging.Err(err))
		return types.AddVideoFailed{Type: kind, Token: token}
	}
	r.logger.Info("video_added", logging.F("video", videoID), logging.F("playlist", playlist.ID))
	return types.AddVideoSuccess{}
}
