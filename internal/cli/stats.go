// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/sanchomuzax/hirstart-recosys/internal/render"
	"github.com/sanchomuzax/hirstart-recosys/internal/stats"
)

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	ctx := context.Background()
	rt, done, err := c.shared.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	summary, err := rt.summary(ctx, c.shared.globals.Profile)
	if err != nil {
		return fmt.Errorf("load statistics: %w", err)
	}

	if c.Panel {
		html, err := render.Panel(summary)
		if err != nil {
			return err
		}
		c.shared.printf("%s\n", html)
		return nil
	}

	switch c.Format {
	case "json":
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		c.shared.printf("%s\n", data)
	case "yaml":
		data, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		c.shared.printf("%s", data)
	default:
		c.printText(summary)
	}
	return nil
}

func (c *StatsCommand) printText(s stats.Summary) {
	p := c.shared.printf
	p("Profile %s\n", c.shared.globals.Profile)
	p("================\n")
	p("Clicks:      %d / %d\n", s.TotalClicks, s.MaxEvents)
	p("Seen items:  %d / %d\n", s.SeenCount, s.MaxSeen)
	p("Sites:       %d\n", s.DistinctSites)
	p("Categories:  %d\n", s.DistinctCats)

	printEntries := func(title string, entries []stats.Entry) {
		if len(entries) == 0 {
			return
		}
		p("\n%s:\n", title)
		for _, e := range entries {
			p("  %-24s %d\n", e.Key, e.Count)
		}
	}
	printEntries("Top sites", s.TopSites)
	printEntries("Top categories", s.TopCategories)

	if len(s.RecentClicks) > 0 {
		p("\nRecent clicks:\n")
		for _, ev := range s.RecentClicks {
			category := ev.Category
			if category == "" {
				category = "-"
			}
			p("  %s  %-24s %s\n", ev.Time().Local().Format(time.DateTime), ev.Site, category)
		}
	}
}
