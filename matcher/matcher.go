// SPDX-License-Identifier: GPL-3.0-or-later

// Package matcher implements the two matcher variants categories are built from:
// case-insensitive regular expressions and case-insensitive substrings.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/CrawX/go-contact-classifier/domain"
)

type PatternMatcher struct {
	re *regexp.Regexp
}

var _ domain.Matcher = (*PatternMatcher)(nil)

func Pattern(expr string) (*PatternMatcher, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("could not compile pattern %q: %w", expr, err)
	}
	return &PatternMatcher{re: re}, nil
}

func MustPattern(expr string) *PatternMatcher {
	m, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return m
}

func (p *PatternMatcher) Match(text string) bool {
	return p.re.MatchString(text)
}

func (p *PatternMatcher) String() string {
	return strings.TrimPrefix(p.re.String(), "(?i)")
}

type SubstringMatcher struct {
	needle string
}

var _ domain.Matcher = SubstringMatcher{}

// Substring matches needle against text after both went through
// domain.NormalizePattern, so case and runs of whitespace never matter.
func Substring(needle string) SubstringMatcher {
	return SubstringMatcher{needle: domain.NormalizePattern(needle)}
}

func (s SubstringMatcher) Match(text string) bool {
	if s.needle == "" {
		return false
	}
	return strings.Contains(domain.NormalizePattern(text), s.needle)
}

func (s SubstringMatcher) String() string {
	return s.needle
}

// Patterns compiles every expression, failing on the first invalid one.
func Patterns(exprs ...string) ([]domain.Matcher, error) {
	matchers := make([]domain.Matcher, 0, len(exprs))
	for _, e := range exprs {
		m, err := Pattern(e)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

func MustPatterns(exprs ...string) []domain.Matcher {
	matchers, err := Patterns(exprs...)
	if err != nil {
		panic(err)
	}
	return matchers
}

// Substrings builds substring matchers, skipping blank needles.
func Substrings(needles ...string) []domain.Matcher {
	matchers := make([]domain.Matcher, 0, len(needles))
	for _, n := range needles {
		if strings.TrimSpace(n) == "" {
			continue
		}
		matchers = append(matchers, Substring(n))
	}
	return matchers
}
