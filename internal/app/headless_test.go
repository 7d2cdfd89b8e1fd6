package app

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"watchlater/internal/types"
	"watchlater/internal/videoid"
)

func headlessConfig(accounts *fakeAccountService, yt *fakeYouTube, opener *openRecorder) AddConfig {
	return AddConfig{
		Accounts: accounts,
		YouTube:  yt,
		Parser:   videoid.Parser{},
		Workers:  2,
		Open:     opener.open,
	}
}

func runHeadless(t *testing.T, cfg AddConfig, uri string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var out bytes.Buffer
	err := RunHeadless(ctx, cfg, uri, &out)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("headless run did not settle:\n%s", out.String())
	}
	return out.String(), err
}

func TestRunHeadlessAddsVideo(t *testing.T) {
	account, playlist := screenAccount, screenPlaylist
	yt := newFakeYouTube(&playlist)
	yt.info = types.VideoInfoFound{Item: screenVideo}
	cfg := headlessConfig(newFakeAccountService(&account, types.AuthToken{Token: "tok"}), yt, &openRecorder{})

	out, err := runHeadless(t, cfg, screenURI)
	if err != nil {
		t.Fatalf("RunHeadless: %v\n%s", err, out)
	}
	for _, want := range []string{"A talk", "4:13", "user@example.com", "Later", "added"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if got := yt.addedVideos(); !reflect.DeepEqual(got, []string{"jqxENMKaeCU@PL1"}) {
		t.Fatalf("unexpected inserts %v", got)
	}
}

func TestRunHeadlessReportsAddFailure(t *testing.T) {
	account, playlist := screenAccount, screenPlaylist
	yt := newFakeYouTube(&playlist)
	yt.add = types.AddVideoFailed{Type: types.ErrorPlaylistFull, Token: "tok"}
	cfg := headlessConfig(newFakeAccountService(&account, types.AuthToken{Token: "tok"}), yt, &openRecorder{})

	out, err := runHeadless(t, cfg, screenURI)
	if !errors.Is(err, ErrAddFailed) {
		t.Fatalf("expected ErrAddFailed, got %v", err)
	}
	if !strings.Contains(out, "the playlist is full") {
		t.Fatalf("expected failure reason in output:\n%s", out)
	}
}

func TestRunHeadlessRejectsInvalidLink(t *testing.T) {
	account := screenAccount
	yt := newFakeYouTube(nil)
	cfg := headlessConfig(newFakeAccountService(&account, types.AuthToken{Token: "tok"}), yt, &openRecorder{})

	out, err := runHeadless(t, cfg, "https://www.youtube.com/playlist?list=PLxxx")
	if !errors.Is(err, ErrVideoUnavailable) {
		t.Fatalf("expected ErrVideoUnavailable, got %v", err)
	}
	if !strings.Contains(out, "not a YouTube video link") {
		t.Fatalf("expected invalid link in output:\n%s", out)
	}
	if len(yt.addedVideos()) != 0 {
		t.Fatalf("nothing should be inserted")
	}
}

func TestRunHeadlessCompletesAuthorization(t *testing.T) {
	intent := types.Intent{Action: types.IntentActionAuthorize, URL: "https://accounts.example/consent"}
	playlist := screenPlaylist
	yt := newFakeYouTube(&playlist)
	yt.info = types.VideoInfoFound{Item: screenVideo}
	accounts := newFakeAccountService(nil, types.AuthHasIntent{Intent: intent}, types.AuthToken{Token: "tok"})
	opener := &openRecorder{}

	out, err := runHeadless(t, headlessConfig(accounts, yt, opener), screenURI)
	if err != nil {
		t.Fatalf("RunHeadless: %v\n%s", err, out)
	}
	if !strings.Contains(out, "authorize in your browser: "+intent.URL) {
		t.Fatalf("expected consent url in output:\n%s", out)
	}
	if !strings.Contains(out, "new@example.com") {
		t.Fatalf("expected signed in account in output:\n%s", out)
	}
	if !reflect.DeepEqual(opener.opened(), []string{intent.URL}) {
		t.Fatalf("expected consent url to be opened, got %v", opener.opened())
	}
	if got := yt.addedVideos(); !reflect.DeepEqual(got, []string{"jqxENMKaeCU@PL1"}) {
		t.Fatalf("unexpected inserts %v", got)
	}
}

func TestRunHeadlessAuthorizationFailure(t *testing.T) {
	intent := types.Intent{Action: types.IntentActionAuthorize, URL: "https://accounts.example/consent"}
	accounts := newFakeAccountService(nil, types.AuthHasIntent{Intent: intent})
	accounts.authErr = errors.New("consent denied")
	cfg := headlessConfig(accounts, newFakeYouTube(nil), &openRecorder{})

	_, err := runHeadless(t, cfg, screenURI)
	if err == nil || !strings.Contains(err.Error(), "consent denied") {
		t.Fatalf("expected authorization error, got %v", err)
	}
}
