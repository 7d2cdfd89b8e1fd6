package app

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"watchlater/internal/events"
	"watchlater/internal/logging"
	"watchlater/internal/resolver"
	"watchlater/internal/types"
	"watchlater/internal/viewmodel"
)

type LauncherConfig struct {
	Resolver   viewmodel.Resolver
	DesktopID  string
	ExampleURI string
	ConfigPath string
	Workers    int
	Logger     logging.Logger
	Open       func(ctx context.Context, url string) error
}

func (c *LauncherConfig) normalize() error {
	if c.Resolver == nil {
		return fmt.Errorf("app: resolver is required")
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	if c.Open == nil {
		c.Open = OpenURL
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return nil
}

// LauncherScreen shows whether YouTube links reach this program and how to
// fix it when they do not.
type LauncherScreen struct {
	ctx       context.Context
	cfg       LauncherConfig
	vm        *viewmodel.LauncherViewModel
	lifecycle *events.LifecycleRegistry
	logger    logging.Logger

	spinner spinner.Model
	width   int
	opens   []string
}

func NewLauncherScreen(ctx context.Context, cfg LauncherConfig, vm *viewmodel.LauncherViewModel) *LauncherScreen {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	s := &LauncherScreen{
		ctx:       ctx,
		cfg:       cfg,
		vm:        vm,
		lifecycle: events.NewLifecycleRegistry(),
		logger:    cfg.Logger.With(logging.F("screen", "launcher")),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:     80,
	}
	vm.Events().Observe(s.lifecycle, s.onEvent)
	return s
}

func (s *LauncherScreen) onEvent(event viewmodel.LauncherEvent) {
	switch e := event.(type) {
	case viewmodel.OpenYouTubeSettings:
		s.opens = append(s.opens, "https://www.youtube.com/account")
	case viewmodel.OpenWatchLaterSettings:
		if s.cfg.ConfigPath != "" {
			s.opens = append(s.opens, s.cfg.ConfigPath)
		}
	case viewmodel.OpenExample:
		s.opens = append(s.opens, e.URI)
	}
}

func (s *LauncherScreen) Init() tea.Cmd {
	s.lifecycle.SetState(events.Resumed)
	s.vm.OnResume()
	return tea.Batch(s.spinner.Tick, s.takeOpens())
}

func (s *LauncherScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case postedMsg:
		msg.run()
	case tea.WindowSizeMsg:
		s.width = max(minScreenWidth, msg.Width)
	case tea.KeyPressMsg:
		cmd = s.handleKey(msg.String())
	case spinner.TickMsg:
		s.spinner, cmd = s.spinner.Update(msg)
	}
	return s, tea.Batch(cmd, s.takeOpens())
}

func (s *LauncherScreen) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "r":
		s.vm.OnResume()
	case "y":
		s.vm.YouTubeSettings()
	case "s":
		s.vm.WatchLaterSettings()
	case "e":
		s.vm.TryExample()
	}
	return nil
}

// takeOpens hands every URL requested by an event to the opener.
func (s *LauncherScreen) takeOpens() tea.Cmd {
	if len(s.opens) == 0 {
		return nil
	}
	urls := s.opens
	s.opens = nil
	open, ctx, logger := s.cfg.Open, s.ctx, s.logger
	return func() tea.Msg {
		for _, url := range urls {
			if err := open(ctx, url); err != nil {
				logger.Warn("open_url_failed", logging.F("url", url), logging.Err(err))
			}
		}
		return nil
	}
}

func (s *LauncherScreen) View() tea.View {
	v := tea.NewView(s.render())
	v.AltScreen = true
	return v
}

func (s *LauncherScreen) render() string {
	model := s.vm.Model().Get()
	width := max(minScreenWidth, s.width)
	var b strings.Builder
	b.WriteString(headerStyle.Render("Watch Later setup"))
	b.WriteString("\n\n")
	switch problems := model.ResolverProblems; {
	case problems == nil:
		b.WriteString(activityStyle.Render(s.spinner.View() + " checking link handlers"))
	case problems.NeedsSetup():
		b.WriteString(warningStyle.Render(" YouTube links do not open here yet "))
		b.WriteString("\n\n")
		b.WriteString(renderMarkdown(setupGuide(s.cfg.DesktopID, *problems), width))
	default:
		b.WriteString(successStyle.Render(" YouTube links open in Watch Later "))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("r: check again  y: YouTube account  s: settings  e: try an example  q: quit"))
	return b.String()
}

// setupGuide explains how to register the program as the YouTube handler.
func setupGuide(desktopID string, problems types.ResolverProblems) string {
	if desktopID == "" {
		desktopID = "watchlater.desktop"
	}
	var b strings.Builder
	if !problems.WatchLaterIsDefault {
		b.WriteString("Watch Later is not the default handler for YouTube links. Make it the default:\n\n")
		for _, scheme := range resolver.HandledSchemes {
			fmt.Fprintf(&b, "    xdg-mime default %s %s\n", desktopID, scheme)
		}
		b.WriteString("\n")
	}
	if problems.VerifiedDomainsMissing > 0 {
		fmt.Fprintf(&b, "The desktop entry `%s` does not declare %d of the %d YouTube link types. Add them to its `MimeType` key:\n\n",
			desktopID, problems.VerifiedDomainsMissing, len(resolver.HandledSchemes))
		fmt.Fprintf(&b, "    MimeType=%s;\n", strings.Join(resolver.HandledSchemes, ";"))
	}
	return b.String()
}
