// SPDX-License-Identifier: GPL-3.0-or-later
package contactsort

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/CrawX/go-contact-classifier/aggregate"
	"github.com/CrawX/go-contact-classifier/classifier"
	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/knowledgebase"
	"github.com/CrawX/go-contact-classifier/log"
	"github.com/CrawX/go-contact-classifier/mail"
	"github.com/CrawX/go-contact-classifier/trainer"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ContactSort struct {
	categories domain.CategorySet
	store      domain.KnowledgeStore
	ledger     domain.Ledger

	configuration *configuration

	l *logrus.Logger
}

type ScanReport struct {
	Summary domain.ScanSummary
	Counts  map[string]int
	Output  string
}

// NewContactSort wires the entry points together. ledger may be nil.
func NewContactSort(categories domain.CategorySet, store domain.KnowledgeStore, ledger domain.Ledger, configFunc ...ConfigFunc) (*ContactSort, error) {
	config := defaultConfiguration()
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	if categories.Len() == 0 {
		return nil, fmt.Errorf("no categories configured")
	}

	return &ContactSort{
		categories:    categories,
		store:         store,
		ledger:        ledger,
		configuration: config,
		l:             log.Logger(log.LOG_MAIN),
	}, nil
}

func (cs *ContactSort) newEngine(kb *domain.KnowledgeBase) (*classifier.Engine, error) {
	opts := append([]classifier.Option{}, cs.configuration.EngineOptions...)
	opts = append(opts, classifier.Knowledge(kb), classifier.Overrides(kb))
	return classifier.NewEngine(cs.categories, opts...)
}

// scan folds all archives and contact lists into one map. Unreadable archives and
// contact lists are logged and skipped.
func (cs *ContactSort) scan(engine *classifier.Engine, archives, contactLists []string) (domain.Correspondents, domain.ScanSummary) {
	summary := domain.ScanSummary{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	scanned := domain.Correspondents{}
	for _, archive := range archives {
		n, err := mail.ScanFile(archive, cs.configuration.MaxBodyLines, func(m *domain.RawMessage) {
			engine.Observe(scanned, m)
		})
		summary.Messages += n
		if err != nil {
			cs.l.WithError(err).WithField("archive", archive).Error("Could not scan archive, continuing with the next one")
			continue
		}
		summary.Archives++
	}

	sources := []domain.Correspondents{scanned}
	for _, path := range contactLists {
		contacts, err := aggregate.LoadContacts(path)
		if err != nil {
			cs.l.WithError(err).WithField("file", path).Warn("Could not load contact list, skipping")
			continue
		}
		sources = append(sources, aggregate.FromContacts(contacts))
	}

	records := aggregate.MergeAll(sources...)
	summary.Correspondents = len(records)

	cs.l.WithFields(logrus.Fields{
		"archives":       summary.Archives,
		"messages":       summary.Messages,
		"correspondents": summary.Correspondents,
	}).Info("Scanned")
	return records, summary
}

// ScanAndClassify classifies everyone found in archives and contactLists and writes the
// results to output, keyed by category.
func (cs *ContactSort) ScanAndClassify(archives, contactLists []string, output string) (*ScanReport, error) {
	kb := cs.store.Load()
	engine, err := cs.newEngine(kb)
	if err != nil {
		return nil, err
	}

	records, summary := cs.scan(engine, archives, contactLists)
	results := engine.ClassifyAll(records)
	grouped := classifier.GroupByCategory(engine.Categories(), results)

	if err := knowledgebase.WriteJSON(output, grouped); err != nil {
		return nil, fmt.Errorf("could not write results: %w", err)
	}

	report := &ScanReport{Summary: summary, Counts: map[string]int{}, Output: output}
	for category, list := range grouped {
		report.Counts[category] = len(list)
	}

	cs.l.WithFields(logrus.Fields{"file": output, "results": len(results)}).Info("Wrote classification results")

	if cs.ledger != nil && !cs.configuration.DryRun {
		if err := cs.ledger.SaveScan(summary); err != nil {
			cs.l.WithError(err).Warn("Could not record scan in ledger")
		}
	}

	return report, nil
}

// Train presents the correspondents the engine is unsure about, one per turn, reading
// decisions from in.
func (cs *ContactSort) Train(archives, contactLists []string, in io.Reader, out io.Writer) error {
	kb := cs.store.Load()
	engine, err := cs.newEngine(kb)
	if err != nil {
		return err
	}

	records, _ := cs.scan(engine, archives, contactLists)
	candidates := trainer.SelectCandidates(records, engine.ClassifyAll(records), cs.configuration.TrainThreshold)
	cs.l.WithFields(logrus.Fields{"correspondents": len(records), "candidates": len(candidates)}).Info("Starting training session")

	opts := []trainer.SessionOption{trainer.SaveEvery(cs.configuration.SaveEvery)}
	if cs.configuration.DryRun {
		opts = append(opts, trainer.DryRun())
	}

	session, err := trainer.NewSession(kb, cs.store, cs.ledger, engine.Categories(), candidates, opts...)
	if err != nil {
		return err
	}
	return trainer.Run(session, in, out)
}

// BatchTrain teaches category from every address of a curated contact list. Archives,
// when given, supply the subjects and samples patterns are extracted from.
func (cs *ContactSort) BatchTrain(listFile, category string, archives []string) (*trainer.BatchSummary, error) {
	contacts, err := aggregate.LoadContacts(listFile)
	if err != nil {
		return nil, err
	}

	kb := cs.store.Load()
	engine, err := cs.newEngine(kb)
	if err != nil {
		return nil, err
	}

	listed := aggregate.FromContacts(contacts)
	if len(archives) > 0 {
		scanned, _ := cs.scan(engine, archives, nil)
		for address, rec := range listed {
			if found, ok := scanned[address]; ok {
				aggregate.MergeRecord(rec, found)
			}
		}
	}

	predicted := map[string]string{}
	for address, rec := range listed {
		predicted[address] = engine.Classify(rec).Category
	}

	summary, err := trainer.BatchTrain(kb, engine.Categories(), category, listed, predicted)
	if err != nil {
		return nil, err
	}

	if cs.configuration.DryRun {
		cs.l.Info("Dry run, not saving knowledge base")
		return summary, nil
	}

	if err := cs.store.Save(kb); err != nil {
		return nil, err
	}
	if cs.ledger != nil {
		if err := cs.ledger.SaveCorrections(summary.Corrections); err != nil {
			cs.l.WithError(err).Warn("Could not record corrections in ledger")
		}
	}
	return summary, nil
}

type CategoryStats struct {
	Category   string
	Openers    int
	Subjects   int
	Signatures int
	Trained    int
}

type Stats struct {
	UpdatedAt     time.Time
	Categories    []CategoryStats
	Patterns      int
	Corrections   int
	TotalTrained  int
	Misclassified int
	BatchTrained  int

	// only set with a ledger
	LedgerCorrections *int
	LedgerScans       *int
}

// Stats summarizes the knowledge base and, when configured, the ledger.
func (cs *ContactSort) Stats() (*Stats, error) {
	kb := cs.store.Load()

	stats := &Stats{
		UpdatedAt:     kb.UpdatedAt,
		Categories:    []CategoryStats{},
		Patterns:      kb.PatternCount(),
		Corrections:   len(kb.Corrections),
		TotalTrained:  kb.Stats.TotalTrained,
		Misclassified: kb.Stats.Misclassified,
		BatchTrained:  kb.Stats.BatchTrained,
	}

	seen := map[string]bool{}
	ids := append([]string{}, cs.categories.IDs()...)
	extra := []string{}
	for category := range kb.Patterns {
		if !cs.categories.Contains(category) {
			extra = append(extra, category)
		}
	}
	for category := range kb.Stats.ByCategory {
		if !cs.categories.Contains(category) && kb.Patterns[category] == nil {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)

	for _, category := range append(ids, extra...) {
		if seen[category] {
			continue
		}
		seen[category] = true

		c := CategoryStats{Category: category, Trained: kb.Stats.ByCategory[category]}
		if set := kb.Patterns[category]; set != nil {
			c.Openers, c.Subjects, c.Signatures = len(set.Openers), len(set.Subjects), len(set.Signatures)
		}
		stats.Categories = append(stats.Categories, c)
	}

	if cs.ledger != nil {
		corrections, err := cs.ledger.CorrectionCount()
		if err != nil {
			return nil, err
		}
		scans, err := cs.ledger.ScanCount()
		if err != nil {
			return nil, err
		}
		stats.LedgerCorrections, stats.LedgerScans = &corrections, &scans
	}

	return stats, nil
}

// History lists the corrections recorded for address, oldest first. The ledger is
// preferred when configured, otherwise the knowledge base's corrections log is used.
func (cs *ContactSort) History(address string) ([]domain.Correction, error) {
	normalized, ok := mail.NormalizeAddress(address)
	if !ok {
		return nil, fmt.Errorf("not a mail address: %q", address)
	}

	if cs.ledger != nil {
		corrections, err := cs.ledger.CorrectionsFor(normalized)
		if err != nil {
			return nil, fmt.Errorf("could not read history of %s: %w", normalized, err)
		}
		return corrections, nil
	}

	history := []domain.Correction{}
	for _, c := range cs.store.Load().Corrections {
		if c.Address == normalized {
			history = append(history, c)
		}
	}
	return history, nil
}
