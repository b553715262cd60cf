// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package cli

import (
	"context"
	"fmt"

	"github.com/sanchomuzax/hirstart-recosys/internal/validation"
)

// Execute implements the go-flags Commander interface for SeenCommand.
func (c *SeenCommand) Execute(args []string) error {
	for _, id := range c.Args.Items {
		if !validation.ValidItemID(id) {
			return fmt.Errorf("invalid item ID %q: must be numeric", id)
		}
	}

	ctx := context.Background()
	rt, done, err := c.shared.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	profile := c.shared.globals.Profile
	for _, id := range c.Args.Items {
		if c.Check {
			ok, err := rt.registry.HasSeen(ctx, profile, id)
			if err != nil {
				return fmt.Errorf("read seen items: %w", err)
			}
			c.shared.printf("%s\t%s\n", id, yesNo(ok, "seen", "not seen"))
			continue
		}

		added, err := rt.registry.MarkSeen(ctx, profile, id)
		if err != nil {
			return fmt.Errorf("mark %s seen: %w", id, err)
		}
		c.shared.printf("%s\t%s\n", id, yesNo(added, "marked", "already seen"))
	}
	return nil
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
