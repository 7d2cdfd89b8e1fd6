package app

import (
	"context"
	"sync"

	"watchlater/internal/livedata"
	"watchlater/internal/types"
)

type fakeAccountService struct {
	mu         sync.Mutex
	tokens     []types.AuthTokenResult
	stored     []types.Account
	current    *livedata.Value[*types.Account]
	authorized []types.Intent
	authErr    error
}

func newFakeAccountService(current *types.Account, tokens ...types.AuthTokenResult) *fakeAccountService {
	f := &fakeAccountService{tokens: tokens, current: livedata.New(current)}
	if current != nil {
		f.stored = []types.Account{*current}
	}
	return f
}

func (f *fakeAccountService) GetAuthToken(context.Context) types.AuthTokenResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tokens) == 0 {
		return types.AuthError{Type: types.AuthErrorAccountRemoved}
	}
	next := f.tokens[0]
	if len(f.tokens) > 1 {
		f.tokens = f.tokens[1:]
	}
	return next
}

func (f *fakeAccountService) InvalidateToken(context.Context, string) {}

func (f *fakeAccountService) Put(_ context.Context, account types.Account) error {
	f.current.Set(&account)
	return nil
}

func (f *fakeAccountService) ObserveAccount(fn func(*types.Account)) func() {
	return f.current.Observe(fn)
}

func (f *fakeAccountService) Accounts(context.Context) ([]types.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Account(nil), f.stored...), nil
}

// Authorize pretends the user consented: it opens the consent URL, stores
// the account and selects it.
func (f *fakeAccountService) Authorize(_ context.Context, intent types.Intent, open func(string) error) (types.Account, error) {
	f.mu.Lock()
	f.authorized = append(f.authorized, intent)
	err := f.authErr
	f.mu.Unlock()
	if openErr := open(intent.URL); openErr != nil {
		return types.Account{}, openErr
	}
	if err != nil {
		return types.Account{}, err
	}
	account := types.Account{Name: "new@example.com"}
	f.mu.Lock()
	f.stored = append(f.stored, account)
	f.mu.Unlock()
	f.current.Set(&account)
	return account, nil
}

type fakeYouTube struct {
	mu        sync.Mutex
	info      types.VideoInfoResult
	playlists types.PlaylistsResult
	add       types.AddVideoResult
	added     []string
	target    *livedata.Value[*types.Playlist]
}

func newFakeYouTube(target *types.Playlist) *fakeYouTube {
	return &fakeYouTube{
		target:    livedata.New(target),
		info:      types.VideoInfoFound{Item: types.Video{ID: "jqxENMKaeCU", Title: "A talk", Duration: "PT4M13S"}},
		playlists: types.PlaylistsFound{},
		add:       types.AddVideoSuccess{},
	}
}

func (f *fakeYouTube) GetVideoInfo(context.Context, string, string) types.VideoInfoResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info
}

func (f *fakeYouTube) GetPlaylists(context.Context, string) types.PlaylistsResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playlists
}

func (f *fakeYouTube) AddVideo(_ context.Context, videoID, _ string, playlist types.Playlist) types.AddVideoResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, videoID+"@"+playlist.ID)
	return f.add
}

func (f *fakeYouTube) SetPlaylist(_ context.Context, playlist types.Playlist) error {
	f.target.Set(&playlist)
	return nil
}

func (f *fakeYouTube) ObserveTargetPlaylist(fn func(*types.Playlist)) func() {
	return f.target.Observe(fn)
}

func (f *fakeYouTube) addedVideos() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.added...)
}
