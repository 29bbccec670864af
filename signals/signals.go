// SPDX-License-Identifier: GPL-3.0-or-later

// Package signals cuts the classification relevant fragments out of a message as seen
// from one correspondent.
package signals

import (
	"regexp"
	"strings"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/mail"
)

const SignatureLines = 20

type Direction int

const (
	Unrelated = Direction(iota)
	Sent
	Received
)

func (d Direction) String() string {
	switch d {
	case Sent:
		return "sent"
	case Received:
		return "received"
	}
	return "unrelated"
}

var (
	credentialPattern = regexp.MustCompile(`(?i)\b(?:nmls|license|licence|lic|dre|calbre|crd|npn)\b\.?\s*(?:id|no|number|num)?\.?\s*[:#]?\s*(\d{4,})`)

	personalDataPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:dob|d\.o\.b\.?|date of birth)\b\W{0,3}\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`),
		regexp.MustCompile(`(?i)\b(?:ssn|social security(?: number)?)\b[^\d\n]{0,20}\d{4}`),
		regexp.MustCompile(`(?i)\b(?:fico|credit score)s?\b(?:\s+score)?(?:\s+(?:is|of|was))?\W{0,3}[3-8]\d{2}\b`),
	}

	titlePattern = regexp.MustCompile(`(?i)\b(?:senior |sr\.? |associate |managing |licensed |certified )?(?:mortgage broker|real estate (?:agent|broker)|realtor|loan officer|mortgage (?:advisor|consultant|banker)|financial (?:advisor|planner)|insurance (?:agent|broker)|escrow officer|title officer|attorney at law|attorney|broker associate|cpa|account executive|account manager|customer success manager)\b`)

	greetingPattern = regexp.MustCompile(`(?i)^(?:hi|hello|hey|dear|good (?:morning|afternoon|evening)|greetings)\b[\s\w.]{0,30}[,!:]?$`)
	quoteHeader     = regexp.MustCompile(`(?i)^on .+ wrote:$`)
	headerLike      = regexp.MustCompile(`^(?i)(?:from|to|cc|sent|date|subject):\s`)
)

// Fragments are the parts of one message a classifier looks at.
type Fragments struct {
	Direction Direction
	Subject   string
	Body      string
	Signature string

	// Credential is only looked for in messages the correspondent sent.
	Credential string

	// PersonalData counts personal-data markers, only for received messages.
	PersonalData int
}

// DirectionOf tells whether address sent or received msg.
func DirectionOf(msg *domain.RawMessage, address string) Direction {
	for _, a := range mail.ParseAddresses(msg.From) {
		if a.Address == address {
			return Sent
		}
	}
	for _, header := range []string{msg.To, msg.Cc} {
		for _, a := range mail.ParseAddresses(header) {
			if a.Address == address {
				return Received
			}
		}
	}
	return Unrelated
}

// Extract derives the fragments of msg for address.
func Extract(msg *domain.RawMessage, address string) *Fragments {
	return ExtractDirection(msg, DirectionOf(msg, address))
}

// ExtractDirection derives the fragments when the caller already knows the direction.
func ExtractDirection(msg *domain.RawMessage, direction Direction) *Fragments {
	f := &Fragments{
		Direction: direction,
		Subject:   msg.Subject,
		Body:      strings.Join(msg.Body, "\n"),
		Signature: Signature(msg.Body),
	}

	switch direction {
	case Sent:
		f.Credential = Credential(f.Body)
		if f.Credential == "" {
			f.Credential = Credential(f.Signature)
		}
	case Received:
		f.PersonalData = PersonalDataMarkers(f.Subject + "\n" + f.Body)
	}

	return f
}

// Signature returns the last SignatureLines body lines.
func Signature(body []string) string {
	start := len(body) - SignatureLines
	if start < 0 {
		start = 0
	}
	return strings.Join(body[start:], "\n")
}

// Credential returns the first licence-style identifier in text.
func Credential(text string) string {
	m := credentialPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// PersonalDataMarkers counts the distinct kinds of personal data present in text.
func PersonalDataMarkers(text string) int {
	n := 0
	for _, p := range personalDataPatterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}

// Opener returns the first body line that reads like the start of a message: 10 to
// 200 characters, not quoted, no header line, not a bare greeting.
func Opener(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 10 || len(line) > 200 {
			continue
		}
		if strings.HasPrefix(line, ">") || quoteHeader.MatchString(line) || headerLike.MatchString(line) || greetingPattern.MatchString(line) {
			continue
		}
		if strings.HasPrefix(line, "--") || strings.Contains(line, "://") {
			continue
		}
		return line
	}
	return ""
}

// TitlePhrases returns the professional titles found in a signature, lowercased
// and without duplicates.
func TitlePhrases(signature string) []string {
	seen := map[string]bool{}
	phrases := []string{}
	for _, m := range titlePattern.FindAllString(signature, -1) {
		p := domain.NormalizePattern(m)
		if seen[p] {
			continue
		}
		seen[p] = true
		phrases = append(phrases, p)
	}
	return phrases
}
