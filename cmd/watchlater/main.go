package main

import (
	"fmt"
	"os"
)

const usageText = `watchlater adds YouTube videos to a playlist of your choice.

Usage:
  watchlater <command> [flags]

Commands:
  add       add a video from a link (argument, - for stdin, or the clipboard)
  setup     check that YouTube links open in watchlater
  account   list, add, use or remove Google accounts
  playlist  list playlists or set the target playlist
  config    print configuration (effective or defaults)
  version   print the build version
  help      show help

Add flags:
  --no-tui    print progress instead of showing the add screen

Examples:
  watchlater add https://youtu.be/jqxENMKaeCU
  pbpaste | watchlater add --no-tui -
  watchlater account add
  watchlater playlist set "Later"
  watchlater config --format toml
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdin, os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	case "version", "--version":
		fmt.Fprintln(os.Stdout, wiring.version)
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
