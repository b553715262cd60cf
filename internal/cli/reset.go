// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Execute implements the go-flags Commander interface for ResetCommand.
func (c *ResetCommand) Execute(args []string) error {
	profile := c.shared.globals.Profile

	if !c.Force {
		c.shared.printf("This deletes all clicks, counters and seen items of profile %s.\n", profile)
		c.shared.printf(`Type "RESET" to confirm: `)

		scanner := bufio.NewScanner(c.shared.in)
		if !scanner.Scan() {
			return errors.New("aborted: no input received")
		}
		if strings.TrimSpace(scanner.Text()) != "RESET" {
			return errors.New("aborted: confirmation text did not match")
		}
	}

	ctx := context.Background()
	rt, done, err := c.shared.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	unlock := rt.locker.Lock(profile)
	err = rt.store.Delete(ctx, profile)
	unlock()
	if err != nil {
		return fmt.Errorf("reset profile: %w", err)
	}

	c.shared.printf("Profile %s reset\n", profile)
	return nil
}
