// SPDX-License-Identifier: GPL-3.0-or-later
package trainer

import (
	"regexp"
	"strings"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/signals"
)

// learned subjects shorter than this would match almost anything
const minSubjectLength = 5

var replyPrefix = regexp.MustCompile(`(?i)^(?:(?:re|fw|fwd|aw|wg)\s*(?:\[\d+\])?\s*:\s*)+`)

// ExtractPatterns collects what a record teaches about its category: the opener of
// every body sample, the sample subjects without reply prefixes and the professional
// titles found in the signatures.
func ExtractPatterns(rec *domain.CorrespondentRecord) domain.PatternSet {
	patterns := domain.PatternSet{
		Openers:    []string{},
		Subjects:   []string{},
		Signatures: []string{},
	}

	for _, body := range rec.BodySamples {
		if opener := signals.Opener(body); opener != "" {
			patterns.Openers = append(patterns.Openers, opener)
		}
	}

	for _, subject := range rec.SampleSubjects {
		subject = strings.TrimSpace(replyPrefix.ReplaceAllString(subject, ""))
		if len(subject) >= minSubjectLength {
			patterns.Subjects = append(patterns.Subjects, subject)
		}
	}

	for _, signature := range rec.Signatures {
		patterns.Signatures = append(patterns.Signatures, signals.TitlePhrases(signature)...)
	}

	return patterns
}
