package app

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"watchlater/internal/events"
	"watchlater/internal/viewmodel"
)

// RunAdd shows the add screen for uri until the user quits.
func RunAdd(ctx context.Context, cfg AddConfig, uri string) error {
	if err := cfg.normalize(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	scheduler := newProgramScheduler(cfg.Workers)
	defer scheduler.Close()

	vm := viewmodel.NewAddViewModel(ctx, cfg.dependencies(scheduler))
	defer vm.Clear()
	screen := NewAddScreen(ctx, cfg, vm, uri)
	defer screen.lifecycle.SetState(events.Destroyed)

	return runProgram(ctx, screen, scheduler)
}

// RunLauncher shows the setup screen until the user quits.
func RunLauncher(ctx context.Context, cfg LauncherConfig) error {
	if err := cfg.normalize(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	scheduler := newProgramScheduler(cfg.Workers)
	defer scheduler.Close()

	vm := viewmodel.NewLauncherViewModel(ctx, viewmodel.LauncherDependencies{
		Resolver:   cfg.Resolver,
		ExampleURI: cfg.ExampleURI,
		Scheduler:  scheduler,
		Logger:     cfg.Logger,
	})
	defer vm.Clear()
	screen := NewLauncherScreen(ctx, cfg, vm)
	defer screen.lifecycle.SetState(events.Destroyed)

	return runProgram(ctx, screen, scheduler)
}

func runProgram(ctx context.Context, model tea.Model, scheduler *programScheduler) error {
	p := tea.NewProgram(model, tea.WithContext(ctx))
	go scheduler.forward(p.Send)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
