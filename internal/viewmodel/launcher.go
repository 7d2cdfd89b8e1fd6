package viewmodel

import (
	"context"
	"fmt"

	"watchlater/internal/events"
	"watchlater/internal/livedata"
	"watchlater/internal/logging"
	"watchlater/internal/tea"
	"watchlater/internal/types"
)

type LauncherModel struct {
	ResolverProblems *types.ResolverProblems
}

// LauncherMsg is the closed set of messages the launcher workflow accepts.
type LauncherMsg interface {
	isLauncherMsg()
}

type OnResume struct{}

type YouTubeSettings struct{}

type WatchLaterSettings struct{}

type TryExample struct{}

type OnResolverProblems struct {
	Problems *types.ResolverProblems
}

func (OnResume) isLauncherMsg()           {}
func (YouTubeSettings) isLauncherMsg()    {}
func (WatchLaterSettings) isLauncherMsg() {}
func (TryExample) isLauncherMsg()         {}
func (OnResolverProblems) isLauncherMsg() {}

// LauncherEvent is a fire-once request to the launcher screen.
type LauncherEvent interface {
	isLauncherEvent()
}

type OpenYouTubeSettings struct{}

type OpenWatchLaterSettings struct{}

type OpenExample struct {
	URI string
}

func (OpenYouTubeSettings) isLauncherEvent()    {}
func (OpenWatchLaterSettings) isLauncherEvent() {}
func (OpenExample) isLauncherEvent()            {}

type Resolver interface {
	Update(ctx context.Context)
	ObserveProblems(fn func(*types.ResolverProblems)) (cancel func())
}

type LauncherDependencies struct {
	Resolver   Resolver
	ExampleURI string
	Scheduler  tea.Scheduler
	Logger     logging.Logger
}

// LauncherEffects builds the commands the launcher reducer may issue.
type LauncherEffects struct {
	UpdateResolver func() tea.Cmd[LauncherMsg]
	Emit           func(LauncherEvent) tea.Cmd[LauncherMsg]
	ExampleURI     string
}

func UpdateLauncher(fx LauncherEffects, model LauncherModel, msg LauncherMsg) (LauncherModel, tea.Cmd[LauncherMsg]) {
	switch msg := msg.(type) {
	case OnResume:
		return model, fx.UpdateResolver()
	case YouTubeSettings:
		return model, fx.Emit(OpenYouTubeSettings{})
	case WatchLaterSettings:
		return model, fx.Emit(OpenWatchLaterSettings{})
	case TryExample:
		return model, fx.Emit(OpenExample{URI: fx.ExampleURI})
	case OnResolverProblems:
		model.ResolverProblems = msg.Problems
		return model, tea.None[LauncherMsg]()
	}
	panic(fmt.Sprintf("viewmodel: unhandled launcher message %T", msg))
}

// LauncherViewModel drives the setup screen. Its methods must be called on
// the scheduler's main context, except OnResume which may be called anywhere.
type LauncherViewModel struct {
	ctx    context.Context
	cancel context.CancelFunc

	model  *livedata.Value[LauncherModel]
	events *events.Source[LauncherEvent]

	onResume *tea.Source[struct{}, LauncherMsg]
	problems *tea.Source[*types.ResolverProblems, LauncherMsg]

	program *tea.Program[LauncherModel, LauncherMsg]
}

func NewLauncherViewModel(ctx context.Context, deps LauncherDependencies) *LauncherViewModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	vm := &LauncherViewModel{
		model:    livedata.New(LauncherModel{}),
		events:   events.NewSource[LauncherEvent](),
		onResume: tea.NewSource[struct{}, LauncherMsg](nil, nil),
	}
	vm.ctx, vm.cancel = context.WithCancel(ctx)

	var cancelProblems func()
	vm.problems = tea.NewSource[*types.ResolverProblems, LauncherMsg](
		func() {
			cancelProblems = deps.Resolver.ObserveProblems(vm.problems.Submit)
		},
		func() {
			if cancelProblems != nil {
				cancelProblems()
			}
		},
	)

	fx := LauncherEffects{
		UpdateResolver: func() tea.Cmd[LauncherMsg] {
			return tea.Event[LauncherMsg](func() { deps.Resolver.Update(vm.ctx) })
		},
		Emit:       tea.EventFn[LauncherMsg](vm.events.Submit),
		ExampleURI: deps.ExampleURI,
	}
	vm.program = tea.New(
		LauncherModel{},
		tea.None[LauncherMsg](),
		vm.model.Set,
		func(model LauncherModel, msg LauncherMsg) (LauncherModel, tea.Cmd[LauncherMsg]) {
			return UpdateLauncher(fx, model, msg)
		},
		func(LauncherModel) tea.Sub[LauncherMsg] {
			return tea.BatchSub(
				vm.onResume.Map(func(struct{}) LauncherMsg { return OnResume{} }),
				vm.problems.Map(func(p *types.ResolverProblems) LauncherMsg { return OnResolverProblems{Problems: p} }),
			)
		},
		tea.WithScheduler(deps.Scheduler),
		tea.WithLogger(deps.Logger.With(logging.F("workflow", "launcher"))),
	)
	return vm
}

func (vm *LauncherViewModel) Model() *livedata.Value[LauncherModel] {
	return vm.model
}

func (vm *LauncherViewModel) Events() *events.Source[LauncherEvent] {
	return vm.events
}

// OnResume asks for a fresh resolver check. The host calls it whenever the
// screen regains focus.
func (vm *LauncherViewModel) OnResume() {
	vm.onResume.Submit(struct{}{})
}

func (vm *LauncherViewModel) YouTubeSettings() {
	vm.program.UI(YouTubeSettings{})
}

func (vm *LauncherViewModel) WatchLaterSettings() {
	vm.program.UI(WatchLaterSettings{})
}

func (vm *LauncherViewModel) TryExample() {
	vm.program.UI(TryExample{})
}

func (vm *LauncherViewModel) Clear() {
	vm.program.Clear()
	vm.cancel()
}
