package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"watchlater/internal/events"
	"watchlater/internal/logging"
	"watchlater/internal/types"
	"watchlater/internal/videoid"
	"watchlater/internal/viewmodel"
	"watchlater/internal/youtube"
)

const (
	minScreenWidth      = 40
	descriptionLines    = 8
	clipboardTimeout    = 2 * time.Second
	accountsLoadTimeout = 5 * time.Second
)

type pendingAction uint8

const (
	actionNone pendingAction = iota
	actionLoadInfo
	actionWatchLater
	actionChangePlaylist
)

type accountsLoadedMsg struct {
	accounts []types.Account
	err      error
}

type authDoneMsg struct {
	account types.Account
	err     error
}

type copiedMsg struct {
	method ClipboardMethod
	err    error
}

// AddScreen renders the add workflow and turns keys into view-model calls.
type AddScreen struct {
	ctx       context.Context
	cfg       AddConfig
	vm        *viewmodel.AddViewModel
	lifecycle *events.LifecycleRegistry
	logger    logging.Logger

	uri         string
	spinner     spinner.Model
	width       int
	cursor      int
	status      string
	accounts    []types.Account
	intent      *types.Intent
	authorizing bool
	lastAction  pendingAction
}

// NewAddScreen attaches to vm's events. The screen must be the only observer.
func NewAddScreen(ctx context.Context, cfg AddConfig, vm *viewmodel.AddViewModel, uri string) *AddScreen {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	s := &AddScreen{
		ctx:       ctx,
		cfg:       cfg,
		vm:        vm,
		lifecycle: events.NewLifecycleRegistry(),
		logger:    cfg.Logger.With(logging.F("screen", "add")),
		uri:       uri,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:     80,
	}
	vm.Events().Observe(s.lifecycle, s.onEvent)
	return s
}

func (s *AddScreen) onEvent(event viewmodel.AddEvent) {
	switch e := event.(type) {
	case viewmodel.OpenAuthIntent:
		intent := e.Intent
		s.intent = &intent
	}
}

// start feeds the initial state into the view model and marks the screen
// created, which releases buffered events.
func (s *AddScreen) start() {
	s.vm.SetPermissionNeeded(s.cfg.PermissionNeeded)
	s.lastAction = actionLoadInfo
	s.vm.SetVideoURI(s.uri)
	s.lifecycle.SetState(events.Resumed)
}

func (s *AddScreen) Init() tea.Cmd {
	s.start()
	return tea.Batch(s.spinner.Tick, s.loadAccounts(), s.takeIntent())
}

func (s *AddScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case accountsLoadedMsg:
		if msg.err != nil {
			s.status = "accounts: " + msg.err.Error()
			break
		}
		s.accounts = msg.accounts
	case authDoneMsg:
		cmd = s.finishAuthorization(msg)
	case copiedMsg:
		if msg.err != nil {
			s.status = "copy failed: " + msg.err.Error()
		} else {
			s.status = "link copied (" + msg.method.String() + ")"
		}
	}
	return s, tea.Batch(cmd, s.takeIntent())
}

func (s *AddScreen) handleKey(key string) tea.Cmd {
	model := s.vm.Model().Get()
	if key == "ctrl+c" {
		return tea.Quit
	}
	if model.PlaylistSelection != nil {
		return s.handleSelectionKey(key, model.PlaylistSelection.Playlists)
	}
	switch key {
	case "q", "esc":
		return tea.Quit
	case "enter", "w":
		if model.VideoID == "" {
			s.status = "nothing to add"
			return nil
		}
		s.status = ""
		s.lastAction = actionWatchLater
		s.vm.WatchLater(model.VideoID)
	case "p":
		s.status = ""
		s.lastAction = actionChangePlaylist
		s.vm.ChangePlaylist()
	case "a":
		s.cycleAccount(model.Account)
		return s.loadAccounts()
	case "c":
		if model.VideoID == "" {
			return nil
		}
		return s.copyLink(videoid.WatchURL(model.VideoID))
	}
	return nil
}

func (s *AddScreen) handleSelectionKey(key string, playlists []types.Playlist) tea.Cmd {
	switch key {
	case "esc", "q":
		s.cursor = 0
		s.vm.ClearPlaylists()
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(playlists)-1 {
			s.cursor++
		}
	case "enter":
		if len(playlists) == 0 {
			s.cursor = 0
			s.vm.ClearPlaylists()
			return s.openURL("https://www.youtube.com/feed/playlists")
		}
		selected := playlists[min(s.cursor, len(playlists)-1)]
		s.cursor = 0
		s.vm.SelectPlaylist(selected)
	}
	return nil
}

func (s *AddScreen) cycleAccount(current *types.Account) {
	if len(s.accounts) == 0 {
		s.status = "no accounts; run `watchlater account add`"
		return
	}
	next := s.accounts[0]
	if current != nil {
		for i, account := range s.accounts {
			if account.Name == current.Name {
				next = s.accounts[(i+1)%len(s.accounts)]
				break
			}
		}
	}
	s.vm.SetAccount(next)
}

func (s *AddScreen) loadAccounts() tea.Cmd {
	accounts := s.cfg.Accounts
	ctx := s.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, accountsLoadTimeout)
		defer cancel()
		list, err := accounts.Accounts(ctx)
		return accountsLoadedMsg{accounts: list, err: err}
	}
}

func (s *AddScreen) copyLink(link string) tea.Cmd {
	clip := s.cfg.Clipboard
	ctx := s.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, clipboardTimeout)
		defer cancel()
		method, err := clip.Copy(ctx, link)
		return copiedMsg{method: method, err: err}
	}
}

func (s *AddScreen) openURL(url string) tea.Cmd {
	open := s.cfg.Open
	ctx := s.ctx
	logger := s.logger
	return func() tea.Msg {
		if err := open(ctx, url); err != nil {
			logger.Warn("open_url_failed", logging.F("url", url), logging.Err(err))
		}
		return nil
	}
}

// takeIntent starts authorization for an intent the view model emitted.
func (s *AddScreen) takeIntent() tea.Cmd {
	if s.intent == nil || s.authorizing {
		return nil
	}
	intent := *s.intent
	s.intent = nil
	s.authorizing = true
	cfg := s.cfg
	ctx := s.ctx
	return func() tea.Msg {
		account, err := cfg.authorize(ctx, intent)
		return authDoneMsg{account: account, err: err}
	}
}

func (s *AddScreen) finishAuthorization(msg authDoneMsg) tea.Cmd {
	s.authorizing = false
	if msg.err != nil {
		s.logger.Warn("authorization_failed", logging.Err(msg.err))
		s.status = "authorization failed: " + msg.err.Error()
		s.vm.OnAccountPermissionGranted()
		return nil
	}
	s.status = "signed in as " + msg.account.Name
	s.vm.OnAccountPermissionGranted()
	s.resume()
	return s.loadAccounts()
}

// resume repeats the action that ran into the authorization intent.
func (s *AddScreen) resume() {
	model := s.vm.Model().Get()
	switch s.lastAction {
	case actionWatchLater:
		if model.VideoID != "" {
			s.vm.WatchLater(model.VideoID)
		}
	case actionChangePlaylist:
		s.vm.ChangePlaylist()
	case actionLoadInfo:
		if _, loading := model.VideoInfo.(viewmodel.VideoInfoProgress); loading {
			s.vm.SetVideoURI(s.uri)
		}
	}
}

func (s *AddScreen) View() tea.View {
	v := tea.NewView(s.render())
	v.AltScreen = true
	return v
}

func (s *AddScreen) render() string {
	model := s.vm.Model().Get()
	width := max(minScreenWidth, s.width)
	var b strings.Builder
	b.WriteString(headerStyle.Render("Watch Later"))
	b.WriteString("\n\n")
	b.WriteString(s.renderVideo(model, width))
	b.WriteString("\n\n")
	b.WriteString(renderField("Account", accountLabel(model.Account)))
	b.WriteString("\n")
	b.WriteString(renderField("Playlist", playlistLabel(model.TargetPlaylist)))
	b.WriteString("\n\n")
	b.WriteString(s.renderAddState(model))
	if model.PlaylistSelection != nil {
		b.WriteString("\n\n")
		b.WriteString(s.renderSelection(model.PlaylistSelection.Playlists, width))
	}
	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(fitLines(s.status, width, 1)))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(s.help(model)))
	return b.String()
}

func (s *AddScreen) renderVideo(model viewmodel.AddModel, width int) string {
	switch info := model.VideoInfo.(type) {
	case viewmodel.VideoInfoLoaded:
		title := titleStyle.Render(fitLines(info.Item.Title, width, 1))
		if d := youtube.FormatISODuration(info.Item.Duration); d != "" {
			title += "  " + labelStyle.Render(d)
		}
		description := fitLines(renderDescription(info.Item.Description, width), width, descriptionLines)
		if description == "" {
			return title
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, dividerStyle.Render(strings.Repeat("─", min(width, 60))), description)
	case viewmodel.VideoInfoError:
		return errorStyle.Render(" " + describeInfoError(info.Err) + " ")
	default:
		return activityStyle.Render(s.spinner.View() + " loading video")
	}
}

func (s *AddScreen) renderAddState(model viewmodel.AddModel) string {
	switch state := model.VideoAdd.(type) {
	case viewmodel.VideoAddProgress:
		return activityStyle.Render(s.spinner.View() + " adding")
	case viewmodel.VideoAddSuccess:
		return successStyle.Render(" added to " + playlistLabel(model.TargetPlaylist) + " ")
	case viewmodel.VideoAddError:
		return errorStyle.Render(" " + describeAddError(state.Err) + " ")
	case viewmodel.VideoAddHasIntent:
		return warningStyle.Render(" waiting for authorization in the browser ")
	default:
		return ""
	}
}

func (s *AddScreen) renderSelection(playlists []types.Playlist, width int) string {
	inner := max(minScreenWidth, width-4)
	if len(playlists) == 0 {
		return dialogFrameStyle.Render("You have no playlists yet.\n" + helpStyle.Render("enter: create one on YouTube  esc: close"))
	}
	lines := []string{titleStyle.Render("Choose a playlist")}
	for i, playlist := range playlists {
		line := fitLines(playlist.Title, inner-2, 1)
		if i == s.cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
			continue
		}
		lines = append(lines, "  "+line)
	}
	lines = append(lines, helpStyle.Render("enter: select  esc: close"))
	return dialogFrameStyle.Render(strings.Join(lines, "\n"))
}

func (s *AddScreen) help(model viewmodel.AddModel) string {
	if model.PlaylistSelection != nil {
		return "j/k: move  enter: select  esc: close"
	}
	return "enter: watch later  p: playlist  a: account  c: copy link  q: quit"
}

func renderField(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-9s", label)) + valueStyle.Render(value)
}

func accountLabel(account *types.Account) string {
	if account == nil {
		return "none"
	}
	return account.Name
}

func playlistLabel(playlist *types.Playlist) string {
	if playlist == nil {
		return "none"
	}
	if playlist.Title == "" {
		return playlist.ID
	}
	return playlist.Title
}
