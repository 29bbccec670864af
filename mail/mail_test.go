// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Saying Hello", "Saying Hello"},
		{"utf8", "=?UTF-8?B?SGVsbG8gV29ybGQ=?=", "Hello World"},
		{"latin1", "=?ISO-8859-1?Q?Gr=FC=DFe?=", "Grüße"},
		{"broken", "=?UNKNOWN-CHARSET?Q?abc?=", "=?UNKNOWN-CHARSET?Q?abc?="},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DecodeHeader(tc.input))
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{" Jane.Broker@Example.COM ", "jane.broker@example.com", true},
		{"<bob@gmail.com>", "bob@gmail.com", true},
		{"not an address", "", false},
		{"missing@tld", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			address, ok := NormalizeAddress(tc.input)
			assert.Equal(t, tc.expected, address)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestParseAddresses(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected []Address
	}{
		{"empty", "", nil},
		{"single", "Jane Broker <Jane.Broker@example.com>", []Address{{"jane.broker@example.com", "Jane Broker"}}},
		{"list", "a@example.com, \"B, Person\" <b@example.com>, a@example.com", []Address{{"a@example.com", ""}, {"b@example.com", "B, Person"}}},
		{"encoded", "=?UTF-8?Q?Ren=C3=A9?= <rene@example.fr>", []Address{{"rene@example.fr", "René"}}},
		{"fallback", "undisclosed recipients: x@example.com; <<broken y@example.org", []Address{{"x@example.com", ""}, {"y@example.org", ""}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseAddresses(tc.header))
		})
	}
}

func TestDisplayNameFromAddress(t *testing.T) {
	assert.Equal(t, "Jane Broker", DisplayNameFromAddress("jane.broker@example.com"))
	assert.Equal(t, "Bob Smith", DisplayNameFromAddress("bob_smith+loans@gmail.com"))
	assert.Equal(t, "Info", DisplayNameFromAddress("info.2020@example.com"))
}

func TestShortSubject(t *testing.T) {
	assert.Equal(t, "short", ShortSubject("short"))
	assert.Equal(t, "This subject is far too long f...", ShortSubject("This subject is far too long for a log line"))
}
