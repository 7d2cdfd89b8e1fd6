package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"watchlater/internal/events"
	"watchlater/internal/logging"
	engine "watchlater/internal/tea"
	"watchlater/internal/types"
	"watchlater/internal/viewmodel"
	"watchlater/internal/youtube"
)

const headlessTitleWidth = 60

var (
	ErrVideoUnavailable = errors.New("video unavailable")
	ErrAddFailed        = errors.New("video not added")
)

// headless drives an add view model on a Looper without a terminal UI.
type headless struct {
	ctx     context.Context
	cfg     AddConfig
	looper  *engine.Looper
	vm      *viewmodel.AddViewModel
	uri     string
	out     io.Writer
	styles  headlessStyles
	changed chan struct{}
	intents chan types.Intent
}

type headlessStyles struct {
	label   lipgloss.Style
	value   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

func newHeadlessStyles(out io.Writer) headlessStyles {
	r := lipgloss.NewRenderer(out)
	return headlessStyles{
		label:   r.NewStyle().Foreground(lipgloss.Color("244")),
		value:   r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("70")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
}

// RunHeadless loads the video behind uri, adds it to the target playlist and
// prints the outcome to out. Authorization intents open the browser and wait
// for the loopback redirect.
func RunHeadless(ctx context.Context, cfg AddConfig, uri string, out io.Writer) error {
	if err := cfg.normalize(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The looper outlives ctx so that cleanup can still reach the main
	// context. Close stops it.
	looper := engine.NewLooper(cfg.Workers)
	defer looper.Close()
	go func() {
		_ = looper.Run(context.Background())
	}()

	h := &headless{
		ctx:     ctx,
		cfg:     cfg,
		looper:  looper,
		uri:     uri,
		out:     out,
		styles:  newHeadlessStyles(out),
		changed: make(chan struct{}, 1),
		intents: make(chan types.Intent, 1),
	}
	return h.run()
}

func (h *headless) run() error {
	lifecycle := events.NewLifecycleRegistry()
	h.looper.Do(func() {
		h.vm = viewmodel.NewAddViewModel(h.ctx, h.cfg.dependencies(h.looper))
		h.vm.Events().Observe(lifecycle, h.onEvent)
		lifecycle.SetState(events.Resumed)
	})
	if h.vm == nil {
		return h.ctx.Err()
	}
	cancelObserve := h.vm.Model().Observe(func(viewmodel.AddModel) {
		select {
		case h.changed <- struct{}{}:
		default:
		}
	})
	defer func() {
		cancelObserve()
		h.looper.Do(func() {
			h.vm.Clear()
			lifecycle.SetState(events.Destroyed)
		})
	}()

	h.looper.Do(func() {
		h.vm.SetPermissionNeeded(h.cfg.PermissionNeeded)
		h.vm.SetVideoURI(h.uri)
	})
	model, err := h.wait(videoInfoSettled, func() {
		if _, loading := h.vm.Model().Get().VideoInfo.(viewmodel.VideoInfoProgress); loading {
			h.vm.SetVideoURI(h.uri)
		}
	})
	if err != nil {
		return err
	}
	switch info := model.VideoInfo.(type) {
	case viewmodel.VideoInfoError:
		h.line("video", h.styles.failure.Render(describeInfoError(info.Err)))
		return fmt.Errorf("%w: %s", ErrVideoUnavailable, describeInfoError(info.Err))
	case viewmodel.VideoInfoLoaded:
		title := runewidth.Truncate(info.Item.Title, headlessTitleWidth, "…")
		h.line("video", h.styles.value.Render(runewidth.FillRight(title, headlessTitleWidth))+"  "+youtube.FormatISODuration(info.Item.Duration))
	}

	videoID := model.VideoID
	h.looper.Do(func() { h.vm.WatchLater(videoID) })
	model, err = h.wait(videoAddSettled, func() { h.vm.WatchLater(videoID) })
	if err != nil {
		return err
	}
	h.line("account", accountLabel(model.Account))
	h.line("playlist", playlistLabel(model.TargetPlaylist))
	if addErr, failed := model.VideoAdd.(viewmodel.VideoAddError); failed {
		h.line("status", h.styles.failure.Render(describeAddError(addErr.Err)))
		return fmt.Errorf("%w: %s", ErrAddFailed, describeAddError(addErr.Err))
	}
	h.line("status", h.styles.success.Render("added"))
	return nil
}

func (h *headless) onEvent(event viewmodel.AddEvent) {
	if open, ok := event.(viewmodel.OpenAuthIntent); ok {
		select {
		case h.intents <- open.Intent:
		default:
			h.cfg.Logger.Warn("authorization_already_pending")
		}
	}
}

// wait blocks until done accepts the current model. Authorization intents
// are completed along the way, after which resume runs on the main context.
func (h *headless) wait(done func(viewmodel.AddModel) bool, resume func()) (viewmodel.AddModel, error) {
	for {
		model := h.vm.Model().Get()
		if done(model) {
			return model, nil
		}
		select {
		case <-h.ctx.Done():
			return model, h.ctx.Err()
		case <-h.changed:
		case intent := <-h.intents:
			if err := h.authorize(intent); err != nil {
				return model, err
			}
			h.looper.Do(func() {
				h.vm.OnAccountPermissionGranted()
				resume()
			})
		}
	}
}

func (h *headless) authorize(intent types.Intent) error {
	account, err := h.cfg.Accounts.Authorize(h.ctx, intent, func(url string) error {
		fmt.Fprintf(h.out, "authorize in your browser: %s\n", url)
		if err := h.cfg.Open(h.ctx, url); err != nil {
			h.cfg.Logger.Warn("open_url_failed", logging.Err(err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	h.line("signed in", account.Name)
	return nil
}

func (h *headless) line(label, value string) {
	fmt.Fprintf(h.out, "%s %s\n", h.styles.label.Render(runewidth.FillRight(label, 10)), value)
}

func videoInfoSettled(model viewmodel.AddModel) bool {
	_, loading := model.VideoInfo.(viewmodel.VideoInfoProgress)
	return !loading
}

func videoAddSettled(model viewmodel.AddModel) bool {
	switch model.VideoAdd.(type) {
	case viewmodel.VideoAddSuccess, viewmodel.VideoAddError:
		return true
	}
	return false
}
