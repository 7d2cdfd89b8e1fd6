package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"watchlater/internal/logging"
	"watchlater/internal/types"
)

const accountUsage = "usage: watchlater account list|add [email]|use <email>|remove <email>"

type AccountCommand struct {
	stdout       io.Writer
	stderr       io.Writer
	openServices servicesFactory
	open         func(ctx context.Context, url string) error
}

func NewAccountCommand(stdout, stderr io.Writer, openServices servicesFactory, open func(ctx context.Context, url string) error) *AccountCommand {
	return &AccountCommand{
		stdout:       stdout,
		stderr:       stderr,
		openServices: openServices,
		open:         open,
	}
}

func (c *AccountCommand) Run(args []string) error {
	fs := flag.NewFlagSet("account", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New(accountUsage)
	}
	action, rest := fs.Arg(0), fs.Args()[1:]

	ctx, stop := commandContext()
	defer stop()

	svc, err := c.openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	switch action {
	case "list", "ls":
		return c.list(ctx, svc)
	case "add", "login":
		name := ""
		if len(rest) > 0 {
			name = strings.TrimSpace(rest[0])
		}
		return c.add(ctx, svc, name)
	case "use", "select":
		name, err := requireName(rest)
		if err != nil {
			return err
		}
		if err := svc.accounts.Put(ctx, types.Account{Name: name}); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "using %s\n", name)
		return nil
	case "remove", "rm":
		name, err := requireName(rest)
		if err != nil {
			return err
		}
		if err := svc.accounts.Remove(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "removed %s\n", name)
		return nil
	default:
		return fmt.Errorf("unknown account action %q\n%s", action, accountUsage)
	}
}

func (c *AccountCommand) list(ctx context.Context, svc *services) error {
	accounts, err := svc.accounts.Accounts(ctx)
	if err != nil {
		return err
	}
	printAccounts(c.stdout, accounts, svc.accounts.Account().Get())
	return nil
}

// add runs the consent flow in the browser and selects the new account.
func (c *AccountCommand) add(ctx context.Context, svc *services, name string) error {
	if !svc.cfg.OAuthConfigured() {
		return errors.New("no OAuth client configured; set oauth.client_id in config.toml")
	}
	intent := svc.accounts.NewIntent(name)
	account, err := svc.accounts.Authorize(ctx, intent, func(url string) error {
		fmt.Fprintf(c.stdout, "authorize in your browser: %s\n", url)
		if err := c.open(ctx, url); err != nil {
			svc.logger.Warn("open_url_failed", logging.Err(err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	fmt.Fprintf(c.stdout, "signed in as %s\n", account.Name)
	return nil
}

func requireName(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("account email is required")
	}
	return strings.TrimSpace(args[0]), nil
}
