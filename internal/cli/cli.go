// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package cli implements the recosys command line tool. Commands work on
// the configured profile store directly, without a running server.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Record    *RecordCommand
	Seen      *SeenCommand
	Recommend *RecommendCommand
	Stats     *StatsCommand
	Reset     *ResetCommand
}

// buildParser constructs the go-flags parser with every subcommand registered.
func buildParser(version string, out io.Writer, in io.Reader) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "recosys"
	parser.LongDescription = "Click statistics and article recommendation for the Hirstart portal."

	shared := &common{globals: &globals, version: version, out: out, in: in}
	cmds := &commands{
		Record:    &RecordCommand{shared: shared},
		Seen:      &SeenCommand{shared: shared},
		Recommend: &RecommendCommand{shared: shared},
		Stats:     &StatsCommand{shared: shared},
		Reset:     &ResetCommand{shared: shared},
	}

	mustAdd := func(name, short, long string, data interface{}) {
		if _, err := parser.AddCommand(name, short, long, data); err != nil {
			panic(fmt.Sprintf("register %s command: %v", name, err))
		}
	}
	mustAdd("record", "Record a link click", "Record a clicked link for the profile. Its item is marked seen as well.", cmds.Record)
	mustAdd("seen", "Mark or check seen items", "Mark article IDs as seen, or report whether they are with --check.", cmds.Seen)
	mustAdd("recommend", "Pick an article from a page", "Scan a saved or fetched portal page and pick one article for the profile.", cmds.Recommend)
	mustAdd("stats", "Show profile statistics", "Show the profile's click statistics and seen list size.", cmds.Stats)
	mustAdd("reset", "Delete all profile data", "Delete every stored value of the profile. Asks for confirmation unless --force.", cmds.Reset)

	return parser, &globals, cmds
}

// Run is the main entry point using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses args (os.Args when nil) and executes the matched
// subcommand, writing to stdout.
func RunWithArgs(version string, args []string) error {
	return run(version, args, os.Stdout, os.Stdin)
}

func run(version string, args []string, out io.Writer, in io.Reader) error {
	// --version is valid without a subcommand.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			_, err := fmt.Fprintf(out, "recosys %s\n", version)
			return err
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version, out, in)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	var flagsErr *goflags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
		return nil
	}
	return err
}
