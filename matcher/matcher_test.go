// SPDX-License-Identifier: GPL-3.0-or-later
package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternMatcher(t *testing.T) {
	tests := []struct {
		expr     string
		text     string
		expected bool
	}{
		{`\bclient scenario\b`, "Sending you a CLIENT scenario", true},
		{`pre-?approv`, "Preapproval letter", true},
		{`\brate\b`, "corporate event", false},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			m, err := Pattern(tc.expr)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, m.Match(tc.text))
			assert.Equal(t, tc.expr, m.String())
		})
	}
}

func TestPatternInvalid(t *testing.T) {
	m, err := Pattern(`(unclosed`)
	assert.Nil(t, m)
	assert.Error(t, err)
	assert.Panics(t, func() { MustPattern(`(unclosed`) })
}

func TestSubstringMatcher(t *testing.T) {
	m := Substring("Loan Officer")
	assert.True(t, m.Match("Jane Doe, Senior LOAN OFFICER"))
	assert.False(t, m.Match("loan"))
	assert.Equal(t, "loan officer", m.String())
	assert.False(t, Substring("").Match("anything"))
}

func TestSubstringMatcherIgnoresWhitespaceRuns(t *testing.T) {
	tests := []struct {
		name   string
		needle string
		text   string
		match  bool
	}{
		{"tabintext", "following up on the appraisal", "Following up on\tthe appraisal for Maple St", true},
		{"tabinneedle", "Following up on\tthe appraisal", "following up on the appraisal", true},
		{"doublespace", "appraisal update", "Re: Appraisal  update", true},
		{"linebreak", "senior loan officer", "Senior Loan\nOfficer", true},
		{"different", "appraisal update", "appraisal of the update", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.match, Substring(tc.needle).Match(tc.text))
		})
	}
}

func TestSubstringsSkipsBlank(t *testing.T) {
	assert.Len(t, Substrings("a", " ", "", "b"), 2)
}
