// SPDX-License-Identifier: GPL-3.0-or-later

// Package aggregate folds correspondent maps from several scans and contact lists
// into one.
package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"
	"github.com/CrawX/go-contact-classifier/mail"

	"github.com/sirupsen/logrus"
)

// MergeRecord adds src into dst. Counts and tallies are summed, sample lists are
// concatenated and cut to their bounds, the credential flag is or-ed. Credential value
// and display name keep what dst already has.
func MergeRecord(dst, src *domain.CorrespondentRecord) {
	dst.Sent += src.Sent
	dst.Received += src.Received
	dst.PersonalDataMarkers += src.PersonalDataMarkers

	dst.SampleSubjects = domain.AppendBounded(dst.SampleSubjects, domain.MaxSampleSubjects, src.SampleSubjects...)
	dst.BodySamples = domain.AppendBounded(dst.BodySamples, domain.MaxBodySamples, src.BodySamples...)
	dst.Signatures = domain.AppendBounded(dst.Signatures, domain.MaxSignatureSamples, src.Signatures...)

	for category, t := range src.Tallies {
		if t == nil || t.Empty() {
			continue
		}
		dst.Tally(category).Add(*t)
	}

	dst.HasCredential = dst.HasCredential || src.HasCredential
	if dst.CredentialValue == "" {
		dst.CredentialValue = src.CredentialValue
	}
	dst.SetDisplayName(src.DisplayName)
}

// Merge folds src into dst. Records are re-keyed by their normalized address; records
// without a valid address are skipped. src is left untouched.
func Merge(dst, src domain.Correspondents) {
	l := log.Logger(log.LOG_AGGREGATE)
	for key, rec := range src {
		if rec == nil {
			continue
		}
		address := rec.Address
		if address == "" {
			address = key
		}
		normalized, ok := mail.NormalizeAddress(address)
		if !ok {
			l.WithField("address", address).Warn("Skipping correspondent with malformed address")
			continue
		}

		target, exists := dst[normalized]
		if !exists {
			target = domain.NewCorrespondentRecord(normalized)
			dst[normalized] = target
		}
		MergeRecord(target, rec)
	}
}

// MergeAll combines maps in order into a new map.
func MergeAll(maps ...domain.Correspondents) domain.Correspondents {
	merged := domain.Correspondents{}
	for _, m := range maps {
		Merge(merged, m)
	}
	return merged
}

// Contact is one entry of a contact list file.
type Contact struct {
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	Name          string   `json:"name"`
	SentCount     int      `json:"sent_count"`
	ReceivedCount int      `json:"received_count"`
	Subjects      []string `json:"subjects"`
	Credential    string   `json:"credential"`
}

func (c Contact) address() string {
	if strings.TrimSpace(c.Email) != "" {
		return c.Email
	}
	return c.Address
}

// LoadContacts reads a contact list: either a JSON array of contacts or an object with
// a "contacts" array. A missing file is an empty list.
func LoadContacts(path string) ([]Contact, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Logger(log.LOG_AGGREGATE).WithField("file", path).Warn("Contact list does not exist, skipping")
		return []Contact{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read contact list %s: %w", path, err)
	}

	contacts := []Contact{}
	if err := json.Unmarshal(data, &contacts); err == nil {
		return contacts, nil
	}

	wrapped := struct {
		Contacts []Contact `json:"contacts"`
	}{}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("could not parse contact list %s: %w", path, err)
	}
	if wrapped.Contacts == nil {
		return []Contact{}, nil
	}
	return wrapped.Contacts, nil
}

// FromContacts turns contact list entries into records. Entries without a valid
// address are skipped, duplicates are merged.
func FromContacts(contacts []Contact) domain.Correspondents {
	l := log.Logger(log.LOG_AGGREGATE)
	records := domain.Correspondents{}
	for _, c := range contacts {
		address, ok := mail.NormalizeAddress(c.address())
		if !ok {
			l.WithField("address", c.address()).Warn("Skipping contact with malformed address")
			continue
		}

		rec := domain.NewCorrespondentRecord(address)
		rec.Sent = nonNegative(c.SentCount)
		rec.Received = nonNegative(c.ReceivedCount)
		for _, s := range c.Subjects {
			rec.AddSubject(mail.DecodeHeader(s))
		}
		rec.SetCredential(strings.TrimSpace(c.Credential))
		rec.SetDisplayName(c.Name)

		if existing, ok := records[address]; ok {
			MergeRecord(existing, rec)
			continue
		}
		records[address] = rec
	}

	l.WithFields(logrus.Fields{"contacts": len(contacts), "records": len(records)}).Debug("Converted contacts")
	return records
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
