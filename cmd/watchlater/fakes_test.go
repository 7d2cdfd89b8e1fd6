package main

import (
	"context"
	"errors"
	"sync"

	"watchlater/internal/app"
	"watchlater/internal/config"
	"watchlater/internal/livedata"
	"watchlater/internal/logging"
	"watchlater/internal/types"
)

type fakeAccounts struct {
	mu          sync.Mutex
	stored      []types.Account
	current     *livedata.Value[*types.Account]
	tokens      []types.AuthTokenResult
	invalidated []string
	intents     []string
}

func newFakeAccounts(current string, stored ...string) *fakeAccounts {
	f := &fakeAccounts{current: livedata.New[*types.Account](nil)}
	for _, name := range stored {
		f.stored = append(f.stored, types.Account{Name: name})
	}
	if current != "" {
		f.current.Set(&types.Account{Name: current})
	}
	return f
}

func (f *fakeAccounts) GetAuthToken(context.Context) types.AuthTokenResult {
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

func (f *fakeAccounts) InvalidateToken(_ context.Context, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, token)
}

func (f *fakeAccounts) Put(_ context.Context, account types.Account) error {
	f.mu.Lock()
	known := false
	for _, stored := range f.stored {
		known = known || stored.Name == account.Name
	}
	if !known {
		f.stored = append(f.stored, account)
	}
	f.mu.Unlock()
	f.current.Set(&account)
	return nil
}

func (f *fakeAccounts) ObserveAccount(fn func(*types.Account)) func() {
	return f.current.Observe(fn)
}

func (f *fakeAccounts) Accounts(context.Context) ([]types.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Account(nil), f.stored...), nil
}

func (f *fakeAccounts) Authorize(ctx context.Context, intent types.Intent, open func(string) error) (types.Account, error) {
	if err := open(intent.URL); err != nil {
		return types.Account{}, err
	}
	name := intent.Account
	if name == "" {
		name = "new@example.com"
	}
	account := types.Account{Name: name}
	return account, f.Put(ctx, account)
}

func (f *fakeAccounts) Account() *livedata.Value[*types.Account] {
	return f.current
}

func (f *fakeAccounts) NewIntent(account string) types.Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents = append(f.intents, account)
	return types.Intent{Action: types.IntentActionAuthorize, URL: "https://accounts.example/consent", Account: account}
}

func (f *fakeAccounts) Remove(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, stored := range f.stored {
		if stored.Name == name {
			f.stored = append(f.stored[:i], f.stored[i+1:]...)
			if current := f.current.Get(); current != nil && current.Name == name {
				f.current.Set(nil)
			}
			return nil
		}
	}
	return errors.New("account not found")
}

type fakeYouTube struct {
	mu        sync.Mutex
	playlists []types.PlaylistsResult
	target    *livedata.Value[*types.Playlist]
	tokens    []string
}

func newFakeYouTube(results ...types.PlaylistsResult) *fakeYouTube {
	return &fakeYouTube{playlists: results, target: livedata.New[*types.Playlist](nil)}
}

func (f *fakeYouTube) GetVideoInfo(context.Context, string, string) types.VideoInfoResult {
	return types.VideoInfoFailed{Type: types.ErrorVideoNotFound}
}

func (f *fakeYouTube) GetPlaylists(_ context.Context, token string) types.PlaylistsResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	next := f.playlists[0]
	if len(f.playlists) > 1 {
		f.playlists = f.playlists[1:]
	}
	return next
}

func (f *fakeYouTube) AddVideo(context.Context, string, string, types.Playlist) types.AddVideoResult {
	return types.AddVideoSuccess{}
}

func (f *fakeYouTube) SetPlaylist(_ context.Context, playlist types.Playlist) error {
	f.target.Set(&playlist)
	return nil
}

func (f *fakeYouTube) ObserveTargetPlaylist(fn func(*types.Playlist)) func() {
	return f.target.Observe(fn)
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) Copy(context.Context, string) (app.ClipboardMethod, error) {
	return app.ClipboardMethodSystem, nil
}

func (f *fakeClipboard) Paste(context.Context) (string, error) {
	return f.text, f.err
}

type fakeResolver struct{}

func (fakeResolver) Update(context.Context) {}

func (fakeResolver) ObserveProblems(fn func(*types.ResolverProblems)) func() {
	fn(nil)
	return func() {}
}

func fixedServices(accounts *fakeAccounts, yt *fakeYouTube) servicesFactory {
	cfg := config.DefaultConfig()
	cfg.OAuth.ClientID = "client-id"
	return func(context.Context) (*services, error) {
		return &services{
			cfg:        cfg,
			configPath: "/home/user/.watchlater/config.toml",
			logger:     logging.Nop(),
			accounts:   accounts,
			youtube:    yt,
			resolver:   fakeResolver{},
		}, nil
	}
}
