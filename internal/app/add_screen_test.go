package app

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"

	"watchlater/internal/tea/teatest"
	"watchlater/internal/types"
	"watchlater/internal/videoid"
	"watchlater/internal/viewmodel"
)

const screenURI = "https://youtu.be/jqxENMKaeCU"

var (
	screenAccount  = types.Account{Name: "user@example.com"}
	screenPlaylist = types.Playlist{ID: "PL1", Title: "Later"}
	screenVideo    = types.Video{ID: "jqxENMKaeCU", Title: "A talk", Description: "# not a heading", Duration: "PT4M13S"}
)

type openRecorder struct {
	mu   sync.Mutex
	urls []string
}

func (r *openRecorder) open(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	return nil
}

func (r *openRecorder) opened() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}

func newTestAddScreen(t *testing.T, accounts *fakeAccountService, yt *fakeYouTube, opener *openRecorder) *AddScreen {
	t.Helper()
	cfg := AddConfig{
		Accounts: accounts,
		YouTube:  yt,
		Parser:   videoid.Parser{},
		Open:     opener.open,
	}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	vm := viewmodel.NewAddViewModel(context.Background(), cfg.dependencies(teatest.New()))
	t.Cleanup(vm.Clear)
	return NewAddScreen(context.Background(), cfg, vm, screenURI)
}

func TestAddScreenAddsVideo(t *testing.T) {
	account, playlist := screenAccount, screenPlaylist
	yt := newFakeYouTube(&playlist)
	yt.info = types.VideoInfoFound{Item: screenVideo}
	screen := newTestAddScreen(t, newFakeAccountService(&account, types.AuthToken{Token: "tok"}), yt, &openRecorder{})

	screen.start()
	view := screen.render()
	if !strings.Contains(view, "A talk") || !strings.Contains(view, "4:13") {
		t.Fatalf("expected video details in view:\n%s", view)
	}

	screen.handleKey("enter")
	if got := yt.addedVideos(); !reflect.DeepEqual(got, []string{"jqxENMKaeCU@PL1"}) {
		t.Fatalf("unexpected inserts %v", got)
	}
	if view := screen.render(); !strings.Contains(view, "added to Later") {
		t.Fatalf("expected success banner:\n%s", view)
	}
}

func TestAddScreenCompletesAuthorizationIntent(t *testing.T) {
	intent := types.Intent{Action: types.IntentActionAuthorize, URL: "https://accounts.example/consent"}
	yt := newFakeYouTube(nil)
	yt.info = types.VideoInfoFound{Item: screenVideo}
	accounts := newFakeAccountService(nil, types.AuthHasIntent{Intent: intent}, types.AuthToken{Token: "tok"})
	opener := &openRecorder{}
	screen := newTestAddScreen(t, accounts, yt, opener)

	screen.start()
	if view := screen.render(); !strings.Contains(view, "waiting for authorization") {
		t.Fatalf("expected authorization banner:\n%s", view)
	}
	cmd := screen.takeIntent()
	if cmd == nil {
		t.Fatalf("expected an authorization command")
	}
	if screen.takeIntent() != nil {
		t.Fatalf("only one authorization may run at a time")
	}
	screen.Update(cmd())

	if !reflect.DeepEqual(opener.opened(), []string{intent.URL}) {
		t.Fatalf("expected consent url to be opened, got %v", opener.opened())
	}
	model := screen.vm.Model().Get()
	if _, ok := model.VideoInfo.(viewmodel.VideoInfoLoaded); !ok {
		t.Fatalf("expected video info after sign in, got %#v", model.VideoInfo)
	}
	if _, ok := model.VideoAdd.(viewmodel.VideoAddIdle); !ok {
		t.Fatalf("expected idle after sign in, got %#v", model.VideoAdd)
	}
	if model.Account == nil || model.Account.Name != "new@example.com" {
		t.Fatalf("expected the new account, got %#v", model.Account)
	}
}

func TestAddScreenPlaylistSelection(t *testing.T) {
	account := screenAccount
	yt := newFakeYouTube(nil)
	yt.info = types.VideoInfoFound{Item: screenVideo}
	yt.playlists = types.PlaylistsFound{Playlists: []types.Playlist{{ID: "PL0", Title: "Music"}, screenPlaylist}}
	screen := newTestAddScreen(t, newFakeAccountService(&account, types.AuthToken{Token: "tok"}), yt, &openRecorder{})
	screen.start()

	screen.handleKey("enter")
	if view := screen.render(); !strings.Contains(view, "no playlist selected") {
		t.Fatalf("expected missing playlist error:\n%s", view)
	}

	screen.handleKey("p")
	if view := screen.render(); !strings.Contains(view, "Choose a playlist") {
		t.Fatalf("expected playlist dialog:\n%s", view)
	}
	screen.handleKey("j")
	screen.handleKey("enter")

	model := screen.vm.Model().Get()
	if model.PlaylistSelection != nil {
		t.Fatalf("dialog should close")
	}
	if model.TargetPlaylist == nil || *model.TargetPlaylist != screenPlaylist {
		t.Fatalf("expected second playlist selected, got %#v", model.TargetPlaylist)
	}
	if _, ok := model.VideoAdd.(viewmodel.VideoAddIdle); !ok {
		t.Fatalf("selection should clear the error, got %#v", model.VideoAdd)
	}
}

func TestAddScreenEmptyPlaylistsOpensYouTube(t *testing.T) {
	account := screenAccount
	yt := newFakeYouTube(nil)
	yt.playlists = types.PlaylistsFound{}
	opener := &openRecorder{}
	screen := newTestAddScreen(t, newFakeAccountService(&account, types.AuthToken{Token: "tok"}), yt, opener)
	screen.start()

	screen.handleKey("p")
	if view := screen.render(); !strings.Contains(view, "no playlists yet") {
		t.Fatalf("expected empty playlist hint:\n%s", view)
	}
	cmd := screen.handleKey("enter")
	if cmd == nil {
		t.Fatalf("expected open command")
	}
	cmd()
	if got := opener.opened(); len(got) != 1 || !strings.Contains(got[0], "youtube.com") {
		t.Fatalf("expected YouTube to be opened, got %v", got)
	}
}

func TestAddScreenCyclesAccounts(t *testing.T) {
	account := screenAccount
	accounts := newFakeAccountService(&account, types.AuthToken{Token: "tok"})
	accounts.stored = append(accounts.stored, types.Account{Name: "second@example.com"})
	screen := newTestAddScreen(t, accounts, newFakeYouTube(nil), &openRecorder{})
	screen.start()
	screen.Update(screen.loadAccounts()())

	screen.handleKey("a")
	if got := screen.vm.Model().Get().Account; got == nil || got.Name != "second@example.com" {
		t.Fatalf("expected second account, got %#v", got)
	}
	screen.handleKey("a")
	if got := screen.vm.Model().Get().Account; got == nil || got.Name != screenAccount.Name {
		t.Fatalf("expected wrap around, got %#v", got)
	}
}

func TestAddScreenInvalidLink(t *testing.T) {
	cfg := AddConfig{
		Accounts: newFakeAccountService(nil),
		YouTube:  newFakeYouTube(nil),
		Parser:   videoid.Parser{},
	}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	vm := viewmodel.NewAddViewModel(context.Background(), cfg.dependencies(teatest.New()))
	t.Cleanup(vm.Clear)
	screen := NewAddScreen(context.Background(), cfg, vm, "https://www.youtube.com/playlist?list=PLxxx")
	screen.start()
	if view := screen.render(); !strings.Contains(view, "not a YouTube video link") {
		t.Fatalf("expected invalid link message:\n%s", view)
	}
	screen.handleKey("enter")
	if screen.status != "nothing to add" {
		t.Fatalf("unexpected status %q", screen.status)
	}
}

func TestDescribeAddError(t *testing.T) {
	cases := []struct {
		err  viewmodel.AddError
		want string
	}{
		{err: viewmodel.AddError{Kind: viewmodel.AddErrorNoAccount}, want: "no account selected"},
		{err: viewmodel.AddError{Kind: viewmodel.AddErrorNetwork}, want: "network unavailable"},
		{err: viewmodel.AddError{Kind: viewmodel.AddErrorOther, Message: "PlaylistFull"}, want: "the playlist is full"},
		{err: viewmodel.AddError{Kind: viewmodel.AddErrorOther, Message: "token endpoint down"}, want: "could not add video: token endpoint down"},
		{err: viewmodel.AddError{Kind: viewmodel.AddErrorOther, Message: "Other"}, want: "could not add video"},
	}
	for _, tc := range cases {
		if got := describeAddError(tc.err); got != tc.want {
			t.Fatalf("describeAddError(%#v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
