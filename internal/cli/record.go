// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package cli

import (
	"context"
	"fmt"

	"github.com/sanchomuzax/hirstart-recosys/internal/clicklog"
	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
)

// Execute implements the go-flags Commander interface for RecordCommand.
func (c *RecordCommand) Execute(args []string) error {
	ctx := context.Background()
	rt, done, err := c.shared.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	profile := c.shared.globals.Profile
	resolved, err := rt.resolver.ResolveClick(pagescan.ClickInput{
		Href:         c.Href,
		Rel:          c.Rel,
		CategoryHref: c.CategoryHref,
		PageURL:      c.PageURL,
	})
	if err != nil {
		return fmt.Errorf("resolve click: %w", err)
	}

	if resolved.ItemID != "" {
		added, err := rt.registry.MarkSeen(ctx, profile, resolved.ItemID)
		if err != nil {
			return fmt.Errorf("mark item seen: %w", err)
		}
		if added {
			c.shared.printf("Marked item %s seen\n", resolved.ItemID)
		}
	}

	if resolved.HostSite {
		c.shared.printf("Not recorded: %s is the portal itself\n", resolved.Site)
		return nil
	}

	result, err := rt.tracker.RecordClick(ctx, profile, clicklog.Click{
		Site:     resolved.Site,
		Category: resolved.Category,
		ItemID:   resolved.ItemID,
	})
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}

	category := result.Event.Category
	if category == "" {
		category = "-"
	}
	c.shared.printf("Recorded %s [%s]\n", result.Event.Site, category)
	if n := len(result.Evicted); n > 0 {
		c.shared.printf("Evicted %d oldest click(s)\n", n)
	}
	return nil
}
