package main

import (
	"context"
	"io"
	"os"

	"watchlater/internal/app"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	openServices servicesFactory
	runAdd       func(ctx context.Context, cfg app.AddConfig, uri string) error
	runHeadless  func(ctx context.Context, cfg app.AddConfig, uri string, out io.Writer) error
	runLauncher  func(ctx context.Context, cfg app.LauncherConfig) error
	clipboard    app.ClipboardService
	open         func(ctx context.Context, url string) error
	version      string
}

func defaultCommandWiring(stdin io.Reader, stdout, stderr io.Writer) commandWiring {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdin:        stdin,
		stdout:       stdout,
		stderr:       stderr,
		openServices: openServices,
		runAdd:       app.RunAdd,
		runHeadless:  app.RunHeadless,
		runLauncher:  app.RunLauncher,
		clipboard:    app.NewClipboardService(),
		open:         app.OpenURL,
		version:      buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"add":      NewAddCommand(wiring),
		"setup":    NewSetupCommand(wiring),
		"account":  NewAccountCommand(wiring.stdout, wiring.stderr, wiring.openServices, wiring.open),
		"playlist": NewPlaylistCommand(wiring.stdout, wiring.stderr, wiring.openServices),
		"config":   NewConfigCommand(wiring.stdout, wiring.stderr),
	}
}
