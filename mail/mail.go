// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"mime"
	stdmail "net/mail"
	"regexp"
	"strings"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	wordDecoder = &mime.WordDecoder{
		CharsetReader: charset.Reader,
	}
	addressParser = &stdmail.AddressParser{
		WordDecoder: wordDecoder,
	}

	addressPattern      = regexp.MustCompile(`[A-Za-z0-9._%+\-']+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)+`)
	validAddressPattern = regexp.MustCompile(`^[^@\s<>"]+@[^@\s<>"]+\.[^@\s<>".]+$`)
)

type Address struct {
	Address string
	Name    string
}

// DecodeHeader decodes RFC 2047 encoded-words, returning the input unchanged when
// it cannot be decoded.
func DecodeHeader(value string) string {
	decoded, err := wordDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// NormalizeAddress lowercases and trims an address. The second return value is false
// for anything that does not look like a mailbox address.
func NormalizeAddress(address string) (string, bool) {
	address = strings.ToLower(strings.Trim(strings.TrimSpace(address), `<>"' `))
	if !validAddressPattern.MatchString(address) {
		return "", false
	}
	return address, true
}

// ParseAddresses extracts the normalized addresses of a From/To/Cc header value.
// Headers net/mail rejects are scanned for anything address-shaped instead.
func ParseAddresses(header string) []Address {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}

	seen := map[string]bool{}
	result := []Address{}
	add := func(address, name string) {
		normalized, ok := NormalizeAddress(address)
		if !ok || seen[normalized] {
			return
		}
		seen[normalized] = true
		result = append(result, Address{Address: normalized, Name: strings.TrimSpace(name)})
	}

	list, err := addressParser.ParseList(header)
	if err == nil {
		for _, a := range list {
			add(a.Address, a.Name)
		}
		return result
	}

	for _, a := range addressPattern.FindAllString(header, -1) {
		add(a, "")
	}
	return result
}

// DisplayNameFromAddress guesses a readable name from the local part, e.g.
// "jane.broker@example.com" becomes "Jane Broker".
func DisplayNameFromAddress(address string) string {
	local := address
	if i := strings.Index(address, "@"); i >= 0 {
		local = address[:i]
	}
	if i := strings.Index(local, "+"); i >= 0 {
		local = local[:i]
	}

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	words := []string{}
	for _, p := range parts {
		if strings.Trim(p, "0123456789") == "" {
			continue
		}
		words = append(words, p)
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func ShortSubject(subject string) string {
	if (len(subject)) > 30 {
		subject = subject[:30] + "..."
	}
	return subject
}
