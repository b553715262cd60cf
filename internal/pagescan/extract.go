// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package pagescan reads a portal page and extracts the articles on it, and
// resolves clicked links into sites, categories and article IDs.
package pagescan

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("parse error")

// ParseError reports an attribute that could not be parsed. The affected
// candidate is skipped; the rest of the page is still used.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

var itemIDPattern = regexp.MustCompile(`hs_(\d+)_-?\d+`)

// ExtractItemID returns the article ID embedded in a rel attribute such as
// "hs_123456_-1". It returns "" when rel carries no ID.
func ExtractItemID(rel string) string {
	m := itemIDPattern.FindStringSubmatch(rel)
	if m == nil {
		return ""
	}
	return m[1]
}

// resolve parses href relative to base. Protocol-relative and relative
// links are supported.
func resolve(href, base string) (*url.URL, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return nil, errors.New("empty url")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, err
	}
	if base == "" {
		return ref, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	return b.ResolveReference(ref), nil
}

// ExtractSite returns the lowercase hostname of href (resolved against base)
// with a leading "www." removed.
func ExtractSite(href, base string) (string, error) {
	u, err := resolve(href, base)
	if err != nil {
		return "", &ParseError{Field: "href", Value: href, Err: err}
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", &ParseError{Field: "href", Value: href, Err: errors.New("missing host")}
	}
	return strings.TrimPrefix(host, "www."), nil
}

// CategoryExtractor derives a content category from a category link. It
// returns "" when no category can be determined.
type CategoryExtractor interface {
	Category(href, base string) (string, error)
}

// CategoryFunc adapts a function to CategoryExtractor.
type CategoryFunc func(href, base string) (string, error)

func (f CategoryFunc) Category(href, base string) (string, error) {
	return f(href, base)
}

var (
	phpPagePattern = regexp.MustCompile(`/([A-Za-z0-9_-]+)\.php$`)
	segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// PathCategoryExtractor reads the category from a URL path:
//
//	/sport.php          -> sport
//	/belfold/friss      -> belfold
//	/?category=Kultura  -> kultura
//
// A trailing "name.php" wins, then the first plain path segment, then the
// "category" query parameter.
type PathCategoryExtractor struct{}

func (PathCategoryExtractor) Category(href, base string) (string, error) {
	if strings.TrimSpace(href) == "" {
		return "", nil
	}
	u, err := resolve(href, base)
	if err != nil {
		return "", &ParseError{Field: "category", Value: href, Err: err}
	}
	return categoryFromURL(u), nil
}

func categoryFromURL(u *url.URL) string {
	if m := phpPagePattern.FindStringSubmatch(u.Path); m != nil {
		return strings.ToLower(m[1])
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if segmentPattern.MatchString(seg) {
			return strings.ToLower(seg)
		}
	}
	if c := u.Query().Get("category"); c != "" {
		return strings.ToLower(c)
	}
	return ""
}
