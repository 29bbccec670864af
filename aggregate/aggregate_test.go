// SPDX-License-Identifier: GPL-3.0-or-later
package aggregate

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"

	"github.com/stretchr/testify/assert"
)

type totals struct {
	Sent, Received, Markers int
	Credential              bool
	Tallies                 map[string]domain.SignalTally
}

// project keeps the order independent fields of every record.
func project(records domain.Correspondents) map[string]totals {
	out := map[string]totals{}
	for address, r := range records {
		tallies := map[string]domain.SignalTally{}
		for c, t := range r.Tallies {
			tallies[c] = *t
		}
		out[address] = totals{r.Sent, r.Received, r.PersonalDataMarkers, r.HasCredential, tallies}
	}
	return out
}

func record(address string, sent, received int, credential string, tally domain.SignalTally) *domain.CorrespondentRecord {
	r := domain.NewCorrespondentRecord(address)
	r.Sent = sent
	r.Received = received
	r.SetCredential(credential)
	r.AddSubject(fmt.Sprintf("%s subject", address))
	if !tally.Empty() {
		*r.Tally("client") = tally
	}
	return r
}

func fixtures() (domain.Correspondents, domain.Correspondents, domain.Correspondents) {
	a := domain.Correspondents{
		"jane@example.com": record("jane@example.com", 2, 1, "", domain.SignalTally{Subject: 1}),
		"bob@gmail.com":    record("bob@gmail.com", 0, 3, "", domain.SignalTally{}),
	}
	b := domain.Correspondents{
		"jane@example.com": record("jane@example.com", 1, 0, "123456", domain.SignalTally{Body: 2}),
		"carl@example.org": record("carl@example.org", 5, 5, "", domain.SignalTally{Signature: 1}),
	}
	c := domain.Correspondents{
		"bob@gmail.com":    record("bob@gmail.com", 1, 1, "", domain.SignalTally{Subject: 1, Body: 1}),
		"carl@example.org": record("carl@example.org", 0, 1, "777777", domain.SignalTally{}),
	}
	c["bob@gmail.com"].PersonalDataMarkers = 2
	return a, b, c
}

func TestMergeCommutativeAndAssociative(t *testing.T) {
	log.InitLogging("error")
	a, b, c := fixtures()

	ab := MergeAll(a, b)
	ba := MergeAll(b, a)
	assert.Equal(t, project(ab), project(ba))

	abThenC := MergeAll(MergeAll(a, b), c)
	aThenBc := MergeAll(a, MergeAll(b, c))
	single := MergeAll(c, a, b)
	assert.Equal(t, project(abThenC), project(aThenBc))
	assert.Equal(t, project(abThenC), project(single))

	jane := abThenC["jane@example.com"]
	assert.Equal(t, 3, jane.Sent)
	assert.Equal(t, 1, jane.Received)
	assert.True(t, jane.HasCredential)
	assert.Equal(t, "123456", jane.CredentialValue)
	assert.Equal(t, domain.SignalTally{Subject: 1, Body: 2}, *jane.Tallies["client"])
	assert.Equal(t, 2, abThenC["bob@gmail.com"].PersonalDataMarkers)
}

func TestMergeLeavesSourceUntouched(t *testing.T) {
	log.InitLogging("error")
	a, b, _ := fixtures()
	before := project(a)

	MergeAll(a, b, a)

	assert.Equal(t, before, project(a))
	assert.Equal(t, 2, a["jane@example.com"].Sent)
}

func TestMergeRecordFirstWriterWins(t *testing.T) {
	dst := domain.NewCorrespondentRecord("jane@example.com")
	dst.CredentialValue = "111111"
	dst.HasCredential = true
	dst.DisplayName = "Jane"

	src := domain.NewCorrespondentRecord("jane@example.com")
	src.SetCredential("222222")
	src.SetDisplayName("Jane Broker")

	MergeRecord(dst, src)

	assert.Equal(t, "111111", dst.CredentialValue)
	assert.Equal(t, "Jane", dst.DisplayName)

	empty := domain.NewCorrespondentRecord("jane@example.com")
	MergeRecord(empty, src)
	assert.Equal(t, "222222", empty.CredentialValue)
	assert.Equal(t, "Jane Broker", empty.DisplayName)
}

func TestMergeRecordBoundsSamples(t *testing.T) {
	dst := domain.NewCorrespondentRecord("jane@example.com")
	src := domain.NewCorrespondentRecord("jane@example.com")
	for i := 0; i < 8; i++ {
		dst.AddSubject(fmt.Sprintf("dst %d", i))
		src.AddSubject(fmt.Sprintf("src %d", i))
		dst.AddBodySample(fmt.Sprintf("body %d", i))
		src.AddSignature(fmt.Sprintf("sig %d", i))
	}

	MergeRecord(dst, src)

	assert.Len(t, dst.SampleSubjects, domain.MaxSampleSubjects)
	assert.Equal(t, "dst 0", dst.SampleSubjects[0])
	assert.Equal(t, "src 1", dst.SampleSubjects[9])
	assert.Len(t, dst.BodySamples, domain.MaxBodySamples)
	assert.Len(t, dst.Signatures, domain.MaxSignatureSamples)
}

func TestMergeSkipsMalformedAddresses(t *testing.T) {
	log.InitLogging("error")
	src := domain.Correspondents{
		"Jane@Example.com": domain.NewCorrespondentRecord("Jane@Example.com"),
		"broken":           domain.NewCorrespondentRecord("broken"),
		"":                 domain.NewCorrespondentRecord(""),
		"nil@example.com":  nil,
	}
	src["Jane@Example.com"].Sent = 1

	merged := MergeAll(src)

	assert.Len(t, merged, 1)
	assert.Equal(t, 1, merged["jane@example.com"].Sent)
	assert.Equal(t, "jane@example.com", merged["jane@example.com"].Address)
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadContacts(t *testing.T) {
	log.InitLogging("error")

	tests := []struct {
		name     string
		content  string
		expected []Contact
		err      bool
	}{
		{"array", `[{"email": "jane@example.com", "name": "Jane", "sent_count": 2}]`, []Contact{{Email: "jane@example.com", Name: "Jane", SentCount: 2}}, false},
		{"object", `{"contacts": [{"address": "bob@gmail.com", "subjects": ["hi"]}]}`, []Contact{{Address: "bob@gmail.com", Subjects: []string{"hi"}}}, false},
		{"emptyobject", `{}`, []Contact{}, false},
		{"garbage", `not json`, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			contacts, err := LoadContacts(writeFile(t, "contacts.json", tc.content))
			if tc.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, contacts)
		})
	}

	contacts, err := LoadContacts(filepath.Join(t.TempDir(), "missing.json"))
	assert.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestFromContacts(t *testing.T) {
	log.InitLogging("error")

	records := FromContacts([]Contact{
		{Email: "Jane@Example.com", Name: "Jane Broker", SentCount: 2, Subjects: []string{"Client scenario"}, Credential: "123456"},
		{Address: "jane@example.com", Name: "Someone Else", ReceivedCount: 4},
		{Email: "not an address"},
		{Email: "bob@gmail.com", SentCount: -3},
	})

	assert.Len(t, records, 2)
	jane := records["jane@example.com"]
	assert.Equal(t, 2, jane.Sent)
	assert.Equal(t, 4, jane.Received)
	assert.Equal(t, "Jane Broker", jane.DisplayName)
	assert.Equal(t, "123456", jane.CredentialValue)
	assert.Equal(t, []string{"Client scenario"}, jane.SampleSubjects)
	assert.Equal(t, 0, records["bob@gmail.com"].Sent)
}
