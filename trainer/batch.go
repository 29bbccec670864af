// SPDX-License-Identifier: GPL-3.0-or-later
package trainer

import (
	"fmt"
	"sort"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"

	"github.com/sirupsen/logrus"
)

type BatchSummary struct {
	Records     int
	Patterns    int
	Corrections []domain.Correction
}

// BatchTrain teaches category from every record without asking anyone. predicted maps
// addresses to what the engine guessed; missing entries count as unknown.
func BatchTrain(kb *domain.KnowledgeBase, categories domain.CategorySet, category string, records domain.Correspondents, predicted map[string]string) (*BatchSummary, error) {
	if !categories.Contains(category) {
		return nil, fmt.Errorf("unknown category %q, expected one of %v", category, categories.IDs())
	}

	addresses := make([]string, 0, len(records))
	for address, rec := range records {
		if rec != nil {
			addresses = append(addresses, address)
		}
	}
	sort.Strings(addresses)

	summary := &BatchSummary{Corrections: []domain.Correction{}}
	for _, address := range addresses {
		rec := records[address]

		guess, ok := predicted[address]
		if !ok {
			guess = domain.CategoryUnknown
		}

		summary.Patterns += kb.AddPatterns(category, ExtractPatterns(rec))
		summary.Corrections = append(summary.Corrections, kb.RecordCorrection(address, guess, category, domain.CorrectionBatch))
		summary.Records++
	}

	log.Logger(log.LOG_TRAINER).WithFields(logrus.Fields{
		"category": category,
		"records":  summary.Records,
		"patterns": summary.Patterns,
	}).Info("Batch trained category")
	return summary, nil
}
