package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const clipboardReadTimeout = 2 * time.Second

type AddCommand struct {
	wiring commandWiring
}

func NewAddCommand(wiring commandWiring) *AddCommand {
	return &AddCommand{wiring: wiring}
}

func (c *AddCommand) Run(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(c.wiring.stderr)
	noTUI := fs.Bool("no-tui", false, "print progress instead of showing the add screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return errors.New("at most one link is accepted")
	}

	ctx, stop := commandContext()
	defer stop()

	uri, err := c.resolveURI(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	svc, err := c.wiring.openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	cfg := svc.addConfig()
	cfg.Clipboard = c.wiring.clipboard
	cfg.Open = c.wiring.open
	if *noTUI {
		return c.wiring.runHeadless(ctx, cfg, uri, c.wiring.stdout)
	}
	return c.wiring.runAdd(ctx, cfg, uri)
}

// resolveURI reads the link from the argument, from stdin for "-", or from
// the clipboard when no argument is given.
func (c *AddCommand) resolveURI(ctx context.Context, arg string) (string, error) {
	switch strings.TrimSpace(arg) {
	case "-":
		return readFirstLine(c.wiring.stdin)
	case "":
		ctx, cancel := context.WithTimeout(ctx, clipboardReadTimeout)
		defer cancel()
		text, err := c.wiring.clipboard.Paste(ctx)
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		if text == "" {
			return "", errors.New("no link given and the clipboard is empty")
		}
		return firstLine(text), nil
	default:
		return strings.TrimSpace(arg), nil
	}
}

func readFirstLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errors.New("no link on stdin")
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(line)
}
