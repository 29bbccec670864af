// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "strings"

const (
	MaxSampleSubjects   = 10
	MaxBodySamples      = 3
	MaxSignatureSamples = 3
)

// SignalTally counts matcher hits per pattern class for one category.
type SignalTally struct {
	Subject   int `json:"subject"`
	Body      int `json:"body"`
	Signature int `json:"signature"`
}

func (t SignalTally) Empty() bool {
	return t.Subject == 0 && t.Body == 0 && t.Signature == 0
}

func (t *SignalTally) Add(o SignalTally) {
	t.Subject += o.Subject
	t.Body += o.Body
	t.Signature += o.Signature
}

type CorrespondentRecord struct {
	Address  string `json:"address"`
	Sent     int    `json:"sent"`
	Received int    `json:"received"`

	SampleSubjects []string `json:"sample_subjects,omitempty"`
	BodySamples    []string `json:"body_samples,omitempty"`
	Signatures     []string `json:"signatures,omitempty"`

	Tallies map[string]*SignalTally `json:"tallies,omitempty"`

	HasCredential   bool   `json:"has_credential"`
	CredentialValue string `json:"credential,omitempty"`

	// PersonalDataMarkers counts operator-sent messages to this correspondent that
	// carried personal data such as a date of birth or a credit score.
	PersonalDataMarkers int `json:"personal_data_markers,omitempty"`

	DisplayName string `json:"name,omitempty"`
}

func NewCorrespondentRecord(address string) *CorrespondentRecord {
	return &CorrespondentRecord{
		Address: address,
		Tallies: map[string]*SignalTally{},
	}
}

func (r *CorrespondentRecord) Exchanges() int {
	return r.Sent + r.Received
}

func (r *CorrespondentRecord) Domain() string {
	i := strings.LastIndex(r.Address, "@")
	if i < 0 {
		return ""
	}
	return r.Address[i+1:]
}

func (r *CorrespondentRecord) Tally(category string) *SignalTally {
	if r.Tallies == nil {
		r.Tallies = map[string]*SignalTally{}
	}
	t, ok := r.Tallies[category]
	if !ok {
		t = &SignalTally{}
		r.Tallies[category] = t
	}
	return t
}

func (r *CorrespondentRecord) AddSubject(subject string) {
	if subject == "" {
		return
	}
	r.SampleSubjects = AppendBounded(r.SampleSubjects, MaxSampleSubjects, subject)
}

func (r *CorrespondentRecord) AddBodySample(body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	r.BodySamples = AppendBounded(r.BodySamples, MaxBodySamples, body)
}

func (r *CorrespondentRecord) AddSignature(signature string) {
	if strings.TrimSpace(signature) == "" {
		return
	}
	r.Signatures = AppendBounded(r.Signatures, MaxSignatureSamples, signature)
}

// SetCredential keeps the first credential value ever seen.
func (r *CorrespondentRecord) SetCredential(value string) {
	if value == "" {
		return
	}
	r.HasCredential = true
	if r.CredentialValue == "" {
		r.CredentialValue = value
	}
}

// SetDisplayName only fills an empty name, the first writer wins.
func (r *CorrespondentRecord) SetDisplayName(name string) {
	name = strings.TrimSpace(name)
	if r.DisplayName == "" && name != "" {
		r.DisplayName = name
	}
}

// AppendBounded appends values and trims the result to at most max entries,
// keeping the oldest ones.
func AppendBounded(list []string, max int, values ...string) []string {
	list = append(list, values...)
	if len(list) > max {
		list = list[:max]
	}
	return list
}

// Correspondents is keyed by normalized address.
type Correspondents map[string]*CorrespondentRecord

// Get returns the record for address, creating it at first sighting.
func (c Correspondents) Get(address string) *CorrespondentRecord {
	r, ok := c[address]
	if !ok {
		r = NewCorrespondentRecord(address)
		c[address] = r
	}
	return r
}
