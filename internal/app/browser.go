package app

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var runOpener = func(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// OpenURL hands url to the desktop's default handler.
func OpenURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("open: url is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	name, args := openerCommand(runtime.GOOS, url)
	if err := runOpener(ctx, name, args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func openerCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
