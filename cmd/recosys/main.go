// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Command recosys records clicks and picks articles for a local profile.
package main

import (
	"fmt"
	"os"

	"github.com/sanchomuzax/hirstart-recosys/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
