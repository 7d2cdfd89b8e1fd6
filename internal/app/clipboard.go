package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

type ClipboardMethod uint8

const (
	ClipboardMethodSystem ClipboardMethod = iota
	ClipboardMethodOSC52
)

func (m ClipboardMethod) String() string {
	if m == ClipboardMethodOSC52 {
		return "osc52"
	}
	return "system"
}

var (
	clipboardWriteAll   = clipboard.WriteAll
	clipboardReadAll    = clipboard.ReadAll
	clipboardWriteOSC52 = writeOSC52Clipboard
	openTTYForWrite     = func() (io.WriteCloser, error) { return os.OpenFile("/dev/tty", os.O_WRONLY, 0) }
)

// ClipboardService copies the canonical video link and reads shared links.
type ClipboardService interface {
	Copy(ctx context.Context, text string) (ClipboardMethod, error)
	Paste(ctx context.Context) (string, error)
}

type defaultClipboardService struct{}

func NewClipboardService() ClipboardService {
	return defaultClipboardService{}
}

type clipboardResult struct {
	method ClipboardMethod
	text   string
	err    error
}

func (defaultClipboardService) Copy(ctx context.Context, text string) (ClipboardMethod, error) {
	res := runClipboard(ctx, func() clipboardResult {
		method, err := copyTextToClipboard(text)
		return clipboardResult{method: method, err: err}
	})
	return res.method, res.err
}

func (defaultClipboardService) Paste(ctx context.Context) (string, error) {
	res := runClipboard(ctx, func() clipboardResult {
		text, err := clipboardReadAll()
		return clipboardResult{text: strings.TrimSpace(text), err: err}
	})
	if res.err != nil {
		return "", res.err
	}
	if res.text == "" {
		return "", errors.New("clipboard is empty")
	}
	return res.text, nil
}

// runClipboard bounds helper processes like xclip, which can hang without a
// display.
func runClipboard(ctx context.Context, fn func() clipboardResult) clipboardResult {
	if ctx == nil {
		ctx = context.Background()
	}
	done := make(chan clipboardResult, 1)
	go func() { done <- fn() }()
	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return clipboardResult{err: ctx.Err()}
	}
}

func copyTextToClipboard(text string) (ClipboardMethod, error) {
	err := clipboardWriteAll(text)
	if err == nil {
		return ClipboardMethodSystem, nil
	}
	oscErr := clipboardWriteOSC52(text)
	if oscErr == nil {
		return ClipboardMethodOSC52, nil
	}
	return ClipboardMethodSystem, combineClipboardErrors(err, oscErr)
}

func writeOSC52Clipboard(text string) error {
	if !shouldAttemptOSC52() {
		return errors.New("OSC52 unavailable for this terminal")
	}
	tty, err := openTTYForWrite()
	if err != nil {
		return fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()
	return writeOSC52Sequence(tty, text)
}

func writeOSC52Sequence(w io.Writer, text string) error {
	termName := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case os.Getenv("TMUX") != "":
		// tmux setups differ; emit both the plain and the wrapped sequence.
		if _, err := osc52.New(text).WriteTo(w); err != nil {
			return err
		}
		_, err := osc52.New(text).Tmux().WriteTo(w)
		return err
	case strings.HasPrefix(termName, "screen"):
		_, err := osc52.New(text).Screen().WriteTo(w)
		return err
	}
	_, err := osc52.New(text).WriteTo(w)
	return err
}

func shouldAttemptOSC52() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WATCHLATER_DISABLE_OSC52"))) {
	case "1", "true", "yes", "on":
		return false
	}
	termName := strings.TrimSpace(os.Getenv("TERM"))
	return termName != "" && !strings.EqualFold(termName, "dumb")
}

func combineClipboardErrors(systemErr, oscErr error) error {
	oscMsg := humanizeClipboardError(oscErr)
	if missingDisplay() {
		return fmt.Errorf("no GUI clipboard available (DISPLAY/WAYLAND_DISPLAY unset); OSC52 fallback failed: %s", oscMsg)
	}
	return fmt.Errorf("system clipboard failed: %s; OSC52 fallback failed: %s", humanizeClipboardError(systemErr), oscMsg)
}

func humanizeClipboardError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "exit status 1" {
		if missingDisplay() {
			return "no GUI clipboard available (DISPLAY/WAYLAND_DISPLAY unset)"
		}
		return "clipboard helper exited with status 1"
	}
	return msg
}

func missingDisplay() bool {
	return strings.TrimSpace(os.Getenv("DISPLAY")) == "" && strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) == ""
}
