// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package pagescan

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultHostDomain is the portal's own domain.
const DefaultHostDomain = "hirstart.hu"

// ClickInput describes a clicked link as reported by the page.
type ClickInput struct {
	// Href is the clicked link target.
	Href string `json:"href" validate:"required,max=4096"`

	// Rel is the link's rel attribute, which may carry the item ID.
	Rel string `json:"rel,omitempty" validate:"max=512"`

	// CategoryHref is the href of the category link nearest to the clicked
	// link, if any.
	CategoryHref string `json:"categoryHref,omitempty" validate:"max=4096"`

	// PageURL is the URL of the page the click happened on.
	PageURL string `json:"pageUrl,omitempty" validate:"omitempty,url,max=4096"`
}

// ResolvedClick is a click reduced to what the statistics need.
type ResolvedClick struct {
	Site     string `json:"site"`
	Category string `json:"category,omitempty"`
	ItemID   string `json:"item_id,omitempty"`

	// HostSite is true for links back into the portal itself. Such clicks
	// still mark their item seen but are not counted.
	HostSite bool `json:"host_site"`
}

// Resolver turns ClickInputs into ResolvedClicks.
type Resolver struct {
	HostDomain string
	Categories CategoryExtractor
}

// NewResolver creates a Resolver. Empty hostDomain uses DefaultHostDomain
// and a nil extractor uses PathCategoryExtractor.
func NewResolver(hostDomain string, categories CategoryExtractor) *Resolver {
	if hostDomain == "" {
		hostDomain = DefaultHostDomain
	}
	if categories == nil {
		categories = PathCategoryExtractor{}
	}
	return &Resolver{HostDomain: strings.ToLower(hostDomain), Categories: categories}
}

// IsHostSite reports whether site is the portal domain or one of its
// subdomains.
func (r *Resolver) IsHostSite(site string) bool {
	site = strings.TrimSuffix(strings.ToLower(site), ".")
	return site == r.HostDomain || strings.HasSuffix(site, "."+r.HostDomain)
}

// ResolveClick extracts the site, item ID and category of a click. The
// category comes from CategoryHref, or from the page URL when there is no
// category link. A malformed category is dropped rather than failing the
// click; a malformed Href fails it.
func (r *Resolver) ResolveClick(in ClickInput) (ResolvedClick, error) {
	out := ResolvedClick{ItemID: ExtractItemID(in.Rel)}

	site, err := ExtractSite(in.Href, in.PageURL)
	if err != nil {
		return out, err
	}
	out.Site = site
	out.HostSite = r.IsHostSite(site)

	categoryHref := in.CategoryHref
	if categoryHref == "" {
		categoryHref = in.PageURL
	}
	if categoryHref != "" {
		category, err := r.Categories.Category(categoryHref, in.PageURL)
		if err == nil {
			out.Category = category
		} else if !errors.Is(err, ErrParse) {
			return out, err
		}
	}
	return out, nil
}

// FindClickInput locates the link with the given href in doc and builds its
// ClickInput, looking for the category link the way the portal lays pages
// out: an "a.rovat" in the enclosing div, then the link of an "osszes"
// widget footer, then the heading link of a "fooldalBox" section.
func FindClickInput(doc *goquery.Document, href, pageURL string) (ClickInput, bool) {
	var link *goquery.Selection
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("href"); v == href {
			link = s
			return false
		}
		return true
	})
	if link == nil {
		return ClickInput{}, false
	}

	in := ClickInput{Href: href, PageURL: pageURL}
	in.Rel, _ = link.Attr("rel")

	if cat := link.Closest("div").Find("a.rovat").First(); cat.Length() > 0 {
		in.CategoryHref, _ = cat.Attr("href")
	} else if footer := link.Closest("div.osszes_box, a.osszes"); footer.Length() > 0 {
		target := footer
		if !footer.Is("a[href]") {
			target = footer.Find("a[href]").First()
		}
		in.CategoryHref, _ = target.Attr("href")
	} else if heading := link.Closest("div.fooldalBox").Find("h2 a[href]").First(); heading.Length() > 0 {
		in.CategoryHref, _ = heading.Attr("href")
	}
	return in, true
}
