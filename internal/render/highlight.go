// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package render produces the HTML fragments shown on the portal page: the
// highlighted article box and the diagnostic info panel.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const (
	// HighlightBoxID is the id of the highlighted article container.
	HighlightBoxID = "hirstart-highlighted-article-box"
	// CloseButtonClass marks the dismiss button inside the box.
	CloseButtonClass = "highlight-close-btn"

	boxHTML = `<div id="` + HighlightBoxID + `" class="highlightArticle _ce_measure_widget" data-ce-measure-widget="highlightArticle"></div>`
)

// ErrEmptyArticle is returned when there is no article markup to render.
var ErrEmptyArticle = errors.New("empty article html")

var articlePolicy = newArticlePolicy()

// newArticlePolicy allows the markup portal article blocks are built from.
// Scripts, event handlers and inline styles are stripped.
func newArticlePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements("div", "span", "p", "h2", "h3", "h4", "strong", "em", "b", "i", "br", "ul", "li", "small")
	p.AllowAttrs("href", "rel", "target", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("data-item-id").OnElements("span")
	return p
}

// Highlight wraps a copy of an article block in the highlight box and adds a
// close button carrying itemID. Any close button already present in the
// article is replaced. The article markup is sanitised first.
func Highlight(articleHTML, itemID string) (string, error) {
	clean := articlePolicy.Sanitize(articleHTML)
	if strings.TrimSpace(clean) == "" {
		return "", ErrEmptyArticle
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return "", fmt.Errorf("parse article html: %w", err)
	}
	article := doc.Find("body").Children().First()
	if article.Length() == 0 {
		return "", ErrEmptyArticle
	}

	article.Find("." + CloseButtonClass).Remove()
	article.SetAttr("style", "position: relative")
	article.AppendHtml(`<span class="` + CloseButtonClass + `"></span>`)
	button := article.ChildrenFiltered("span." + CloseButtonClass).Last()
	button.SetAttr("data-item-id", itemID)
	button.SetText("×")

	article.WrapHtml(boxHTML)
	box := doc.Find("#" + HighlightBoxID)

	out, err := goquery.OuterHtml(box)
	if err != nil {
		return "", fmt.Errorf("render highlight box: %w", err)
	}
	return out, nil
}
