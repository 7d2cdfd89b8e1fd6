package viewmodel

import (
	"context"
	"sync"

	"watchlater/internal/livedata"
	"watchlater/internal/types"
)

type fakeAccounts struct {
	mu          sync.Mutex
	tokens      []types.AuthTokenResult
	tokenCalls  int
	invalidated []string
	put         []types.Account
	current     *livedata.Value[*types.Account]
}

func newFakeAccounts(account *types.Account, tokens ...types.AuthTokenResult) *fakeAccounts {
	return &fakeAccounts{tokens: tokens, current: livedata.New(account)}
}

// GetAuthToken replays the scripted results and repeats the last one.
func (f *fakeAccounts) GetAuthToken(context.Context) types.AuthTokenResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls++
	if len(f.tokens) == 0 {
		return types.AuthError{Type: types.AuthErrorOther, Message: "no token scripted"}
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
	f.put = append(f.put, account)
	f.mu.Unlock()
	f.current.Set(&account)
	return nil
}

func (f *fakeAccounts) ObserveAccount(fn func(*types.Account)) func() {
	return f.current.Observe(fn)
}

func (f *fakeAccounts) calls() (int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenCalls, append([]string(nil), f.invalidated...)
}

type fakeVideos struct {
	mu     sync.Mutex
	result types.VideoInfoResult
	calls  []string
}

func (f *fakeVideos) GetVideoInfo(_ context.Context, videoID, token string) types.VideoInfoResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, videoID+"/"+token)
	return f.result
}

type fakePlaylists struct {
	mu        sync.Mutex
	playlists []types.PlaylistsResult
	adds      []types.AddVideoResult
	addCalls  []string
	target    *livedata.Value[*types.Playlist]
	observers int
}

func newFakePlaylists(target *types.Playlist) *fakePlaylists {
	return &fakePlaylists{target: livedata.New(target)}
}

func (f *fakePlaylists) GetPlaylists(context.Context, string) types.PlaylistsResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.playlists[0]
	if len(f.playlists) > 1 {
		f.playlists = f.playlists[1:]
	}
	return next
}

func (f *fakePlaylists) AddVideo(_ context.Context, videoID, token string, playlist types.Playlist) types.AddVideoResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls = append(f.addCalls, videoID+"/"+token+"/"+playlist.ID)
	next := f.adds[0]
	if len(f.adds) > 1 {
		f.adds = f.adds[1:]
	}
	return next
}

func (f *fakePlaylists) SetPlaylist(_ context.Context, playlist types.Playlist) error {
	f.target.Set(&playlist)
	return nil
}

func (f *fakePlaylists) ObserveTargetPlaylist(fn func(*types.Playlist)) func() {
	f.mu.Lock()
	f.observers++
	f.mu.Unlock()
	cancel := f.target.Observe(fn)
	return func() {
		f.mu.Lock()
		f.observers--
		f.mu.Unlock()
		cancel()
	}
}

func (f *fakePlaylists) observerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.observers
}

type fakeResolver struct {
	mu       sync.Mutex
	updates  int
	problems *livedata.Value[*types.ResolverProblems]
	next     types.ResolverProblems
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{problems: livedata.New[*types.ResolverProblems](nil)}
}

func (f *fakeResolver) Update(context.Context) {
	f.mu.Lock()
	f.updates++
	next := f.next
	f.mu.Unlock()
	f.problems.Set(&next)
}

func (f *fakeResolver) ObserveProblems(fn func(*types.ResolverProblems)) func() {
	return f.problems.Observe(fn)
}
