// Package viewmodel holds the add and launcher workflows. Each view model
// owns a tea program, exposes model snapshots as observable values and emits
// fire-once events for its host.
package viewmodel

import (
	"context"

	"watchlater/internal/events"
	"watchlater/internal/livedata"
	"watchlater/internal/logging"
	"watchlater/internal/tea"
	"watchlater/internal/types"
)

type Accounts interface {
	GetAuthToken(ctx context.Context) types.AuthTokenResult
	InvalidateToken(ctx context.Context, token string)
	Put(ctx context.Context, account types.Account) error
	ObserveAccount(fn func(*types.Account)) (cancel func())
}

type Videos interface {
	GetVideoInfo(ctx context.Context, videoID, token string) types.VideoInfoResult
}

type Playlists interface {
	GetPlaylists(ctx context.Context, token string) types.PlaylistsResult
	AddVideo(ctx context.Context, videoID, token string, playlist types.Playlist) types.AddVideoResult
	SetPlaylist(ctx context.Context, playlist types.Playlist) error
	ObserveTargetPlaylist(fn func(*types.Playlist)) (cancel func())
}

type VideoIDParser interface {
	ParseVideoID(raw string) (string, bool)
}

type AddDependencies struct {
	Accounts  Accounts
	Videos    Videos
	Playlists Playlists
	Parser    VideoIDParser
	Scheduler tea.Scheduler
	Logger    logging.Logger
}

// AddViewModel drives the add screen. Its methods must be called on the
// scheduler's main context.
type AddViewModel struct {
	deps   AddDependencies
	ctx    context.Context
	cancel context.CancelFunc
	logger logging.Logger

	model  *livedata.Value[AddModel]
	events *events.Source[AddEvent]

	account        *tea.Source[*types.Account, AddMsg]
	targetPlaylist *tea.Source[*types.Playlist, AddMsg]

	program *tea.Program[AddModel, AddMsg]
}

func NewAddViewModel(ctx context.Context, deps AddDependencies) *AddViewModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	vm := &AddViewModel{
		deps:   deps,
		logger: deps.Logger.With(logging.F("workflow", "add")),
		model:  livedata.New(initialAddModel()),
		events: events.NewSource[AddEvent](),
	}
	vm.ctx, vm.cancel = context.WithCancel(ctx)

	var cancelAccount, cancelPlaylist func()
	vm.account = tea.NewSource[*types.Account, AddMsg](
		func() {
			cancelAccount = deps.Accounts.ObserveAccount(vm.account.Submit)
		},
		func() {
			if cancelAccount != nil {
				cancelAccount()
			}
		},
	)
	vm.targetPlaylist = tea.NewSource[*types.Playlist, AddMsg](
		func() {
			cancelPlaylist = deps.Playlists.ObserveTargetPlaylist(vm.targetPlaylist.Submit)
		},
		func() {
			if cancelPlaylist != nil {
				cancelPlaylist()
			}
		},
	)

	fx := vm.effects()
	vm.program = tea.New(
		initialAddModel(),
		tea.None[AddMsg](),
		vm.model.Set,
		func(model AddModel, msg AddMsg) (AddModel, tea.Cmd[AddMsg]) {
			return UpdateAdd(fx, model, msg)
		},
		vm.subscriptions,
		tea.WithScheduler(deps.Scheduler),
		tea.WithLogger(vm.logger),
	)
	return vm
}

func (vm *AddViewModel) effects() AddEffects {
	return AddEffects{
		ParseVideoID: vm.deps.Parser.ParseVideoID,
		GetAuthToken: tea.Task0[AddMsg](func() types.AuthTokenResult {
			return vm.deps.Accounts.GetAuthToken(vm.ctx)
		}),
		GetVideoInfo: tea.Task2[AddMsg](func(videoID, token string) types.VideoInfoResult {
			return vm.deps.Videos.GetVideoInfo(vm.ctx, videoID, token)
		}),
		GetPlaylists: tea.Task1[AddMsg](func(token string) types.PlaylistsResult {
			return vm.deps.Playlists.GetPlaylists(vm.ctx, token)
		}),
		AddVideo: tea.Task3[AddMsg](func(videoID, token string, playlist types.Playlist) types.AddVideoResult {
			return vm.deps.Playlists.AddVideo(vm.ctx, videoID, token, playlist)
		}),
		InvalidateToken: tea.EventFn[AddMsg](func(token string) {
			vm.deps.Accounts.InvalidateToken(vm.ctx, token)
		}),
		PutAccount: tea.EventFn[AddMsg](func(account types.Account) {
			if err := vm.deps.Accounts.Put(vm.ctx, account); err != nil {
				vm.logger.Error("put_account_failed", logging.F("account", account.Name), logging.Err(err))
			}
		}),
		SetPlaylist: tea.EventFn[AddMsg](func(playlist types.Playlist) {
			if err := vm.deps.Playlists.SetPlaylist(vm.ctx, playlist); err != nil {
				vm.logger.Error("set_playlist_failed", logging.F("playlist", playlist.ID), logging.Err(err))
			}
		}),
		OpenAuthIntent: tea.EventFn[AddMsg](func(intent types.Intent) {
			vm.events.Submit(OpenAuthIntent{Intent: intent})
		}),
	}
}

func (vm *AddViewModel) subscriptions(AddModel) tea.Sub[AddMsg] {
	return tea.BatchSub(
		vm.account.Map(func(account *types.Account) AddMsg { return OnAccount{Account: account} }),
		vm.targetPlaylist.Map(func(playlist *types.Playlist) AddMsg { return OnTargetPlaylist{Playlist: playlist} }),
	)
}

// Model publishes every rendered snapshot.
func (vm *AddViewModel) Model() *livedata.Value[AddModel] {
	return vm.model
}

func (vm *AddViewModel) Events() *events.Source[AddEvent] {
	return vm.events
}

func (vm *AddViewModel) WatchLater(videoID string) {
	vm.program.UI(WatchLater{VideoID: videoID})
}

func (vm *AddViewModel) SetAccount(account types.Account) {
	vm.program.UI(SetAccount{Account: account})
}

func (vm *AddViewModel) ChangePlaylist() {
	vm.program.UI(ChangePlaylist{})
}

func (vm *AddViewModel) SelectPlaylist(playlist types.Playlist) {
	vm.program.UI(SelectPlaylist{Playlist: playlist})
}

func (vm *AddViewModel) ClearPlaylists() {
	vm.program.UI(ClearPlaylists{})
}

func (vm *AddViewModel) SetPermissionNeeded(needed bool) {
	vm.program.UI(SetPermissionNeeded{Needed: needed})
}

func (vm *AddViewModel) SetVideoURI(uri string) {
	vm.program.UI(SetVideoURI{URI: uri})
}

func (vm *AddViewModel) OnAccountPermissionGranted() {
	vm.program.UI(OnAccountPermissionGranted{})
}

// Clear releases the repository observers and cancels in-flight requests.
func (vm *AddViewModel) Clear() {
	vm.program.Clear()
	vm.cancel()
}
