package app

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestOpenerCommand(t *testing.T) {
	cases := []struct {
		goos string
		name string
		args []string
	}{
		{goos: "linux", name: "xdg-open", args: []string{"https://example.com"}},
		{goos: "freebsd", name: "xdg-open", args: []string{"https://example.com"}},
		{goos: "darwin", name: "open", args: []string{"https://example.com"}},
		{goos: "windows", name: "rundll32", args: []string{"url.dll,FileProtocolHandler", "https://example.com"}},
	}
	for _, tc := range cases {
		name, args := openerCommand(tc.goos, "https://example.com")
		if name != tc.name || !reflect.DeepEqual(args, tc.args) {
			t.Fatalf("%s: got %s %v", tc.goos, name, args)
		}
	}
}

func TestOpenURLWrapsFailure(t *testing.T) {
	orig := runOpener
	t.Cleanup(func() { runOpener = orig })
	runOpener = func(context.Context, string, ...string) error { return errors.New("exit status 3") }

	err := OpenURL(context.Background(), " https://example.com ")
	if err == nil || !strings.Contains(err.Error(), "open https://example.com") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err := OpenURL(context.Background(), " "); err == nil {
		t.Fatalf("expected error for blank url")
	}
}
