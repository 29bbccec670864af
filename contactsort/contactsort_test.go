// SPDX-License-Identifier: GPL-3.0-or-later
package contactsort

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CrawX/go-contact-classifier/classifier"
	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/domain/mocks"
	"github.com/CrawX/go-contact-classifier/knowledgebase"
	"github.com/CrawX/go-contact-classifier/log"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

const ARCHIVE = `From jane.broker@example.com Mon Jan  6 10:00:00 2020
From: Jane Broker <jane.broker@example.com>
To: loans@ourbank.com
Subject: Sending you a client scenario

I have a client who wants to refinance...
NMLS #123456
From loans@ourbank.com Tue Jan  7 11:00:00 2020
From: loans@ourbank.com
To: bob@gmail.com
Subject: Your application

DOB: 01/02/1980, SSN ending 1234, FICO 720
From alice@example.org Wed Jan  8 12:00:00 2020
From: Alice <alice@example.org>
To: loans@ourbank.com
Subject: Weekly update notes

Here are the notes from this week.
From alice@example.org Thu Jan  9 12:00:00 2020
From: Alice <alice@example.org>
To: loans@ourbank.com
Subject: Re: Weekly update notes

Some more notes from this week.
From dave@example.net Fri Jan 10 12:00:00 2020
From: dave@example.net
To: loans@ourbank.com
Subject: Checking in

Just checking in on things.
`

type fixture struct {
	dir     string
	archive string
	output  string
	store   *knowledgebase.Store
}

func newFixture(t *testing.T) *fixture {
	log.InitLogging("error")
	dir := t.TempDir()
	f := &fixture{
		dir:     dir,
		archive: filepath.Join(dir, "archive.mbox"),
		output:  filepath.Join(dir, "results", "classification.json"),
		store:   knowledgebase.NewStore(filepath.Join(dir, "kb.json")),
	}
	assert.NoError(t, os.WriteFile(f.archive, []byte(ARCHIVE), 0o600))
	return f
}

func (f *fixture) writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(f.dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestContactSort(t *testing.T, store domain.KnowledgeStore, ledger domain.Ledger, cfgs ...ConfigFunc) *ContactSort {
	cfgs = append([]ConfigFunc{EngineOptions(
		classifier.InternalDomains("ourbank.com"),
		classifier.PersonalDomains("gmail.com"),
	)}, cfgs...)
	cs, err := NewContactSort(classifier.DefaultCategories(), store, ledger, cfgs...)
	assert.NoError(t, err)
	return cs
}

func readResults(t *testing.T, path string) map[string][]*domain.ClassificationResult {
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	results := map[string][]*domain.ClassificationResult{}
	assert.NoError(t, json.Unmarshal(data, &results))
	return results
}

func addresses(results []*domain.ClassificationResult) []string {
	out := []string{}
	for _, r := range results {
		out = append(out, r.Address)
	}
	return out
}

func TestNewContactSort(t *testing.T) {
	log.InitLogging("error")
	tests := []struct {
		name string
		cfgs []ConfigFunc
		err  string
	}{
		{"ok", []ConfigFunc{}, ""},
		{"err", []ConfigFunc{SaveEvery(0)}, "error applying configuration: SaveEvery must be at least 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cs, err := NewContactSort(classifier.DefaultCategories(), nil, nil, tc.cfgs...)
			if len(tc.err) == 0 {
				assert.NotNil(t, cs)
				assert.NoError(t, err)
			} else {
				assert.Nil(t, cs)
				assert.EqualError(t, err, tc.err)
			}
		})
	}

	_, err := NewContactSort(domain.CategorySet{}, nil, nil)
	assert.Error(t, err)
}

func TestScanAndClassify(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedger(ctrl)
	ledger.EXPECT().SaveScan(gomock.Any()).DoAndReturn(func(s domain.ScanSummary) error {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, 2, s.Archives)
		assert.Equal(t, 5, s.Messages)
		assert.Equal(t, 6, s.Correspondents)
		return nil
	})

	contacts := f.writeFile(t, "contacts.json", `{"contacts": [{"email": "Carol@Example.org", "name": "Carol"}, {"email": "broken"}]}`)

	cs := newTestContactSort(t, f.store, ledger)
	report, err := cs.ScanAndClassify(
		[]string{f.archive, filepath.Join(f.dir, "missing.mbox")},
		[]string{contacts, filepath.Join(f.dir, "missing.json")},
		f.output,
	)
	assert.NoError(t, err)
	assert.Equal(t, f.output, report.Output)
	assert.Equal(t, 1, report.Counts[classifier.CategoryReferralPartner])

	results := readResults(t, f.output)
	assert.Len(t, results, 6)

	referral := results[classifier.CategoryReferralPartner]
	assert.Equal(t, []string{"jane.broker@example.com"}, addresses(referral))
	assert.GreaterOrEqual(t, referral[0].Confidence, 90)
	assert.Equal(t, "123456", referral[0].Evidence.Credential)
	assert.Equal(t, "Jane Broker", referral[0].Name)

	assert.Equal(t, []string{"bob@gmail.com"}, addresses(results[classifier.CategoryClient]))
	assert.Equal(t, []string{"loans@ourbank.com"}, addresses(results[domain.CategoryInternal]))
	assert.Equal(t, []string{"alice@example.org", "carol@example.org", "dave@example.net"}, addresses(results[domain.CategoryUnknown]))
	assert.Empty(t, results[classifier.CategoryVendor])
}

func TestScanAndClassifyMissingArchive(t *testing.T) {
	f := newFixture(t)
	cs := newTestContactSort(t, f.store, nil)

	report, err := cs.ScanAndClassify([]string{filepath.Join(f.dir, "does-not-exist.mbox")}, nil, f.output)

	assert.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Correspondents)

	results := readResults(t, f.output)
	assert.Len(t, results, 6)
	for category, list := range results {
		assert.Empty(t, list, category)
	}

	data, err := os.ReadFile(f.output)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"unknown": []`)
}

func TestTrainThenClassify(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedger(ctrl)
	ledger.EXPECT().SaveCorrection(gomock.Any()).DoAndReturn(func(c domain.Correction) error {
		assert.Equal(t, "alice@example.org", c.Address)
		assert.Equal(t, classifier.CategoryVendor, c.Actual)
		return nil
	})

	cs := newTestContactSort(t, f.store, ledger, SaveEvery(5))
	out := &bytes.Buffer{}

	// alice has the most exchanges of the unsure correspondents, the input ends after her
	assert.NoError(t, cs.Train([]string{f.archive}, nil, strings.NewReader("3\n"), out))
	assert.Contains(t, out.String(), "<alice@example.org>")
	assert.Contains(t, out.String(), "Classified 1 correspondents")

	kb := f.store.Load()
	assert.Len(t, kb.Corrections, 1)
	assert.Equal(t, 1, kb.Stats.ByCategory[classifier.CategoryVendor])
	assert.Contains(t, kb.Patterns[classifier.CategoryVendor].Subjects, "weekly update notes")
	assert.Contains(t, kb.Patterns[classifier.CategoryVendor].Openers, "here are the notes from this week.")

	ledger.EXPECT().SaveScan(gomock.Any()).Return(nil)
	_, err := cs.ScanAndClassify([]string{f.archive}, nil, f.output)
	assert.NoError(t, err)

	vendors := readResults(t, f.output)[classifier.CategoryVendor]
	assert.Equal(t, []string{"alice@example.org"}, addresses(vendors))
	assert.Equal(t, 100, vendors[0].Confidence)
}

func TestTrainDryRun(t *testing.T) {
	log.InitLogging("error")
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive.mbox")
	assert.NoError(t, os.WriteFile(archive, []byte(ARCHIVE), 0o600))

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kb := domain.NewKnowledgeBase()
	store := mocks.NewMockKnowledgeStore(ctrl)
	store.EXPECT().Load().Return(kb)

	cs := newTestContactSort(t, store, nil, DryRun())
	assert.NoError(t, cs.Train([]string{archive}, nil, strings.NewReader("1\n2\nq\n"), &bytes.Buffer{}))

	assert.Len(t, kb.Corrections, 2)
}

func TestBatchTrain(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	list := f.writeFile(t, "partners.json", `[{"email": "jane.broker@example.com"}, {"email": "newpartner@example.com", "name": "New Partner"}]`)

	ledger := mocks.NewMockLedger(ctrl)
	ledger.EXPECT().SaveCorrections(gomock.Any()).DoAndReturn(func(c []domain.Correction) error {
		assert.Len(t, c, 2)
		return nil
	})

	cs := newTestContactSort(t, f.store, ledger)
	summary, err := cs.BatchTrain(list, classifier.CategoryReferralPartner, []string{f.archive})

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, "jane.broker@example.com", summary.Corrections[0].Address)
	assert.Equal(t, classifier.CategoryReferralPartner, summary.Corrections[0].Predicted)
	assert.Equal(t, domain.CategoryUnknown, summary.Corrections[1].Predicted)

	kb := f.store.Load()
	assert.Equal(t, 2, kb.Stats.BatchTrained)
	assert.Contains(t, kb.Patterns[classifier.CategoryReferralPartner].Subjects, "sending you a client scenario")

	_, err = cs.BatchTrain(list, "nonsense", nil)
	assert.Error(t, err)

	_, err = cs.BatchTrain(f.writeFile(t, "broken.json", "{"), classifier.CategoryClient, nil)
	assert.Error(t, err)
}

func TestBatchTrainDryRun(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockKnowledgeStore(ctrl)
	ledger := mocks.NewMockLedger(ctrl)
	store.EXPECT().Load().Return(domain.NewKnowledgeBase())

	list := f.writeFile(t, "clients.json", `[{"email": "bob@gmail.com"}]`)
	cs := newTestContactSort(t, store, ledger, DryRun())

	summary, err := cs.BatchTrain(list, classifier.CategoryClient, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Records)
}

func TestStats(t *testing.T) {
	log.InitLogging("error")
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kb := domain.NewKnowledgeBase()
	kb.AddPatterns(classifier.CategoryClient, domain.PatternSet{Subjects: []string{"my loan"}, Openers: []string{"when can we close on the house"}})
	kb.AddPatterns("retired", domain.PatternSet{Signatures: []string{"cpa"}})
	kb.RecordCorrection("bob@gmail.com", domain.CategoryUnknown, classifier.CategoryClient, domain.CorrectionInteractive)

	store := mocks.NewMockKnowledgeStore(ctrl)
	store.EXPECT().Load().Return(kb)
	ledger := mocks.NewMockLedger(ctrl)
	ledger.EXPECT().CorrectionCount().Return(4, nil)
	ledger.EXPECT().ScanCount().Return(2, nil)

	cs := newTestContactSort(t, store, ledger)
	stats, err := cs.Stats()

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Patterns)
	assert.Equal(t, 1, stats.Corrections)
	assert.Equal(t, 1, stats.Misclassified)
	assert.Equal(t, 4, *stats.LedgerCorrections)
	assert.Equal(t, 2, *stats.LedgerScans)

	assert.Equal(t, []CategoryStats{
		{Category: classifier.CategoryReferralPartner},
		{Category: classifier.CategoryClient, Openers: 1, Subjects: 1, Trained: 1},
		{Category: classifier.CategoryVendor},
		{Category: classifier.CategoryPersonal},
		{Category: "retired", Signatures: 1},
	}, stats.Categories)
}

func TestHistory(t *testing.T) {
	log.InitLogging("error")
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kb := domain.NewKnowledgeBase()
	first := kb.RecordCorrection("bob@gmail.com", domain.CategoryUnknown, classifier.CategoryClient, domain.CorrectionInteractive)
	kb.RecordCorrection("sue@example.com", domain.CategoryUnknown, classifier.CategoryVendor, domain.CorrectionBatch)
	second := kb.RecordCorrection("bob@gmail.com", classifier.CategoryClient, classifier.CategoryPersonal, domain.CorrectionInteractive)

	t.Run("ledger", func(t *testing.T) {
		store := mocks.NewMockKnowledgeStore(ctrl)
		ledger := mocks.NewMockLedger(ctrl)
		ledger.EXPECT().CorrectionsFor("bob@gmail.com").Return([]domain.Correction{first}, nil)

		cs := newTestContactSort(t, store, ledger)
		history, err := cs.History(" <BOB@Gmail.com> ")

		assert.NoError(t, err)
		assert.Equal(t, []domain.Correction{first}, history)
	})

	t.Run("ledgerfails", func(t *testing.T) {
		store := mocks.NewMockKnowledgeStore(ctrl)
		ledger := mocks.NewMockLedger(ctrl)
		ledger.EXPECT().CorrectionsFor("bob@gmail.com").Return(nil, errors.New("database is locked"))

		cs := newTestContactSort(t, store, ledger)
		_, err := cs.History("bob@gmail.com")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database is locked")
	})

	t.Run("knowledgebase", func(t *testing.T) {
		store := mocks.NewMockKnowledgeStore(ctrl)
		store.EXPECT().Load().Return(kb)

		cs := newTestContactSort(t, store, nil)
		history, err := cs.History("BOB@gmail.com")

		assert.NoError(t, err)
		assert.Equal(t, []domain.Correction{first, second}, history)
	})

	t.Run("invalid", func(t *testing.T) {
		cs := newTestContactSort(t, mocks.NewMockKnowledgeStore(ctrl), mocks.NewMockLedger(ctrl))
		_, err := cs.History("not-an-address")

		assert.Error(t, err)
	})
}
