package main

import (
	"flag"
)

// SetupCommand shows the launcher screen.
type SetupCommand struct {
	wiring commandWiring
}

func NewSetupCommand(wiring commandWiring) *SetupCommand {
	return &SetupCommand{wiring: wiring}
}

func (c *SetupCommand) Run(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	fs.SetOutput(c.wiring.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	svc, err := c.wiring.openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	cfg := svc.launcherConfig()
	cfg.Open = c.wiring.open
	return c.wiring.runLauncher(ctx, cfg)
}
