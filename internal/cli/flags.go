// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package cli

import "io"

// DefaultProfile is used when --profile is not given.
const DefaultProfile = "local-profile"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file"`
	Profile string `long:"profile" description:"Profile ID" default:"local-profile"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// common is shared by every command.
type common struct {
	globals *GlobalFlags
	version string
	out     io.Writer
	in      io.Reader

	// rt is injected by tests; nil opens the configured store.
	rt *runtime
}

// RecordCommand records one clicked link.
type RecordCommand struct {
	Href         string `long:"href" description:"Clicked link target" required:"true"`
	Rel          string `long:"rel" description:"Link rel attribute carrying the item ID (hs_<id>_<n>)"`
	CategoryHref string `long:"category-href" description:"Href of the nearest category link"`
	PageURL      string `long:"page-url" description:"URL of the page the click happened on"`

	shared *common
}

// SeenCommand marks or checks seen items.
type SeenCommand struct {
	Check bool `long:"check" description:"Only report whether the items are seen"`

	Args struct {
		Items []string `positional-arg-name:"item-id" required:"1"`
	} `positional-args:"yes"`

	shared *common
}

// RecommendCommand picks one article from a portal page.
type RecommendCommand struct {
	Page    string `long:"page" description:"Path to a saved portal page"`
	URL     string `long:"url" description:"Portal page to fetch"`
	PageURL string `long:"page-url" description:"URL relative links in --page resolve against"`
	Dismiss string `long:"dismiss" description:"Mark this item seen before picking"`
	Explain bool   `long:"explain" description:"List every eligible article with its score"`
	HTML    bool   `long:"html" description:"Print the highlight box HTML of the pick"`

	shared *common
}

// StatsCommand prints the profile statistics.
type StatsCommand struct {
	Format string `long:"format" description:"Output format" choice:"text" choice:"json" choice:"yaml" default:"text"`
	Panel  bool   `long:"panel" description:"Print the info panel HTML instead"`

	shared *common
}

// ResetCommand deletes all data of the profile.
type ResetCommand struct {
	Force bool `long:"force" description:"Skip the confirmation prompt"`

	shared *common
}
