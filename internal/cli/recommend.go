// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
	"github.com/sanchomuzax/hirstart-recosys/internal/recommend"
	"github.com/sanchomuzax/hirstart-recosys/internal/render"
	"github.com/sanchomuzax/hirstart-recosys/internal/validation"
)

// Execute implements the go-flags Commander interface for RecommendCommand.
func (c *RecommendCommand) Execute(args []string) error {
	if (c.Page == "") == (c.URL == "") {
		return errors.New("recommend needs exactly one of --page or --url")
	}
	if c.Dismiss != "" && !validation.ValidItemID(c.Dismiss) {
		return fmt.Errorf("invalid item ID %q: must be numeric", c.Dismiss)
	}

	ctx := context.Background()
	rt, done, err := c.shared.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	articles, err := c.articles(ctx, rt)
	if err != nil {
		return err
	}
	candidates := pagescan.Candidates(articles)
	profile := c.shared.globals.Profile

	if c.Explain {
		ranked, err := rt.engine.Explain(ctx, profile, candidates)
		if err != nil {
			return fmt.Errorf("rank candidates: %w", err)
		}
		c.printRanked(len(candidates), ranked)
		return nil
	}

	var resp *recommend.Response
	if c.Dismiss != "" {
		resp, err = rt.engine.Dismiss(ctx, profile, c.Dismiss, candidates)
	} else {
		resp, err = rt.engine.Recommend(ctx, profile, candidates)
	}
	if err != nil {
		return fmt.Errorf("select recommendation: %w", err)
	}

	if c.HTML {
		if resp.Selected == nil {
			return nil
		}
		box, err := render.Highlight(articles[resp.Selected.Position].HTML, resp.Selected.ItemID)
		if err != nil {
			return fmt.Errorf("render highlight: %w", err)
		}
		c.shared.printf("%s\n", box)
		return nil
	}

	c.shared.printf("Scanned:   %d\n", resp.Scanned)
	c.shared.printf("Eligible:  %d\n", resp.Eligible)
	if resp.Selected == nil {
		c.shared.printf("Selected:  none\n")
		return nil
	}
	s := resp.Selected
	c.shared.printf("Selected:  %s #%s (score %d)\n", s.Site, s.ItemID, s.Score)
	if s.Title != "" {
		c.shared.printf("           %s\n", s.Title)
	}
	if s.URL != "" {
		c.shared.printf("           %s\n", s.URL)
	}
	return nil
}

func (c *RecommendCommand) articles(ctx context.Context, rt *runtime) ([]pagescan.Article, error) {
	if c.URL != "" {
		articles, err := rt.fetcher.Fetch(ctx, c.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch page: %w", err)
		}
		return articles, nil
	}

	f, err := os.Open(c.Page)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()

	base := c.PageURL
	if base == "" {
		base = rt.cfg.Portal.BaseURL
	}
	articles, err := rt.scanner.Scan(f, base)
	if err != nil {
		return nil, fmt.Errorf("scan page: %w", err)
	}
	return articles, nil
}

func (c *RecommendCommand) printRanked(scanned int, ranked []recommend.Candidate) {
	c.shared.printf("Scanned %d, eligible %d\n", scanned, len(ranked))
	for i, cand := range ranked {
		category := cand.Category
		if category == "" {
			category = "-"
		}
		c.shared.printf("%3d. %5d  %-24s %-14s #%s\n", i+1, cand.Score, cand.Site, category, cand.ItemID)
	}
}
