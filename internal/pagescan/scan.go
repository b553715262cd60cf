// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package pagescan

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/metrics"
	"github.com/sanchomuzax/hirstart-recosys/internal/recommend"
)

// ArticleSelector matches the article blocks of a portal page.
const ArticleSelector = "div.boxhir, div.rovidhir"

// Article is one article block found on a page.
type Article struct {
	Site     string `json:"site"`
	Category string `json:"category,omitempty"`
	ItemID   string `json:"item_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`
	Hidden   bool   `json:"hidden"`
	Position int    `json:"position"`
	HTML     string `json:"-"`
}

// Candidate converts the article for the recommendation selector.
func (a Article) Candidate() recommend.Candidate {
	return recommend.Candidate{
		Site:     a.Site,
		Category: a.Category,
		ItemID:   a.ItemID,
		URL:      a.URL,
		Title:    a.Title,
		Visible:  !a.Hidden,
		Position: a.Position,
	}
}

// Candidates converts every article, keeping page order.
func Candidates(articles []Article) []recommend.Candidate {
	out := make([]recommend.Candidate, len(articles))
	for i, a := range articles {
		out[i] = a.Candidate()
	}
	return out
}

// Scanner extracts articles from portal HTML.
type Scanner struct {
	categories CategoryExtractor
	logger     zerolog.Logger
}

// NewScanner creates a Scanner. A nil extractor uses PathCategoryExtractor.
func NewScanner(categories CategoryExtractor) *Scanner {
	if categories == nil {
		categories = PathCategoryExtractor{}
	}
	return &Scanner{
		categories: categories,
		logger:     logging.WithComponent("pagescan"),
	}
}

// SetLogger replaces the scanner's logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (s *Scanner) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

// Scan parses r with the default scanner.
func Scan(r io.Reader, pageURL string) ([]Article, error) {
	return NewScanner(nil).Scan(r, pageURL)
}

// Scan parses the page in r and returns its articles in page order. Links
// are resolved against pageURL. Articles whose site cannot be parsed are
// still returned, with an empty Site, so positions match the page.
func (s *Scanner) Scan(r io.Reader, pageURL string) ([]Article, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}
	return s.ScanDocument(doc, pageURL), nil
}

// ScanDocument is Scan for an already parsed document.
func (s *Scanner) ScanDocument(doc *goquery.Document, pageURL string) []Article {
	var articles []Article
	doc.Find(ArticleSelector).Each(func(i int, sel *goquery.Selection) {
		articles = append(articles, s.article(i, sel, pageURL))
	})
	return articles
}

func (s *Scanner) article(pos int, sel *goquery.Selection, pageURL string) Article {
	a := Article{Position: pos, Hidden: IsHidden(sel)}

	if link := sel.Find("a[href]").First(); link.Length() > 0 {
		href, _ := link.Attr("href")
		a.Title = strings.TrimSpace(link.Text())
		site, err := ExtractSite(href, pageURL)
		if err != nil {
			s.parseFailed("href", err)
		} else {
			a.Site = site
			if u, err := resolve(href, pageURL); err == nil {
				a.URL = u.String()
			}
		}
	}

	if catLink := sel.Find("a.rovat[href]").First(); catLink.Length() > 0 {
		href, _ := catLink.Attr("href")
		category, err := s.categories.Category(href, pageURL)
		if err != nil {
			s.parseFailed("category", err)
		} else {
			a.Category = category
		}
	}

	if relLink := sel.Find("a[rel]").First(); relLink.Length() > 0 {
		rel, _ := relLink.Attr("rel")
		a.ItemID = ExtractItemID(rel)
	}

	if html, err := goquery.OuterHtml(sel); err == nil {
		a.HTML = html
	}
	return a
}

func (s *Scanner) parseFailed(field string, err error) {
	metrics.RecordParseError(field)
	s.logger.Debug().Err(err).Str("field", field).Msg("Skipping unparsable attribute")
}

// IsHidden reports whether sel or any ancestor is hidden by the
// "sourcehidden" class, the hidden attribute or an inline display:none.
func IsHidden(sel *goquery.Selection) bool {
	for node := sel.First(); node.Length() > 0; node = node.Parent() {
		if goquery.NodeName(node) == "#document" {
			break
		}
		if node.HasClass("sourcehidden") {
			return true
		}
		if _, ok := node.Attr("hidden"); ok {
			return true
		}
		if style, ok := node.Attr("style"); ok && displayNone(style) {
			return true
		}
	}
	return false
}

func displayNone(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "display") {
			value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
			if strings.EqualFold(value, "none") {
				return true
			}
		}
	}
	return false
}
