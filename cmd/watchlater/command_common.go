package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"text/tabwriter"

	"watchlater/internal/types"
)

const version = "dev"

func printAccounts(output io.Writer, accounts []types.Account, selected *types.Account) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "SELECTED\tACCOUNT")
	for _, account := range accounts {
		mark := ""
		if selected != nil && selected.Name == account.Name {
			mark = "*"
		}
		fmt.Fprintf(writer, "%s\t%s\n", mark, account.Name)
	}
	_ = writer.Flush()
}

func printPlaylists(output io.Writer, playlists []types.Playlist, target *types.Playlist) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "TARGET\tID\tTITLE")
	for _, playlist := range playlists {
		mark := ""
		if target != nil && target.ID == playlist.ID {
			mark = "*"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", mark, playlist.ID, playlist.Title)
	}
	_ = writer.Flush()
}

// commandContext is cancelled on interrupt so pending authorization and API
// calls stop with the command.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
