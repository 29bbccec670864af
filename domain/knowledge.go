// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const KnowledgeBaseVersion = 1

const (
	CorrectionInteractive = "interactive"
	CorrectionBatch       = "batch"
)

type PatternSet struct {
	Openers    []string `json:"openers"`
	Subjects   []string `json:"subjects"`
	Signatures []string `json:"signatures"`
}

func (p *PatternSet) Len() int {
	return len(p.Openers) + len(p.Subjects) + len(p.Signatures)
}

type Correction struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Predicted string    `json:"predicted"`
	Actual    string    `json:"actual"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

type KnowledgeStats struct {
	TotalTrained  int            `json:"total_trained"`
	Misclassified int            `json:"misclassified"`
	BatchTrained  int            `json:"batch_trained"`
	ByCategory    map[string]int `json:"by_category"`
}

// KnowledgeBase holds learned patterns per category and the log of human corrections.
// Everything is additive: patterns are set-inserted and corrections only appended.
type KnowledgeBase struct {
	Version     int                    `json:"version"`
	Patterns    map[string]*PatternSet `json:"patterns"`
	Corrections []Correction           `json:"corrections"`
	Stats       KnowledgeStats         `json:"stats"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func NewKnowledgeBase() *KnowledgeBase {
	kb := &KnowledgeBase{Version: KnowledgeBaseVersion}
	kb.ensure()
	return kb
}

// ensure fills nil collections, e.g. after decoding an older file.
func (kb *KnowledgeBase) ensure() {
	if kb.Patterns == nil {
		kb.Patterns = map[string]*PatternSet{}
	}
	if kb.Corrections == nil {
		kb.Corrections = []Correction{}
	}
	if kb.Stats.ByCategory == nil {
		kb.Stats.ByCategory = map[string]int{}
	}
	for category, set := range kb.Patterns {
		if set == nil {
			kb.Patterns[category] = &PatternSet{}
		}
	}
}

func (kb *KnowledgeBase) Normalize() {
	kb.ensure()
	if kb.Version == 0 {
		kb.Version = KnowledgeBaseVersion
	}
}

func NormalizePattern(p string) string {
	return strings.ToLower(strings.Join(strings.Fields(p), " "))
}

// AddPatterns merges the patterns of every class into the category and returns how
// many were new.
func (kb *KnowledgeBase) AddPatterns(category string, patterns PatternSet) int {
	kb.ensure()
	set, ok := kb.Patterns[category]
	if !ok {
		set = &PatternSet{}
		kb.Patterns[category] = set
	}

	added := 0
	set.Openers, added = insertAll(set.Openers, patterns.Openers, added)
	set.Subjects, added = insertAll(set.Subjects, patterns.Subjects, added)
	set.Signatures, added = insertAll(set.Signatures, patterns.Signatures, added)
	return added
}

func insertAll(list []string, values []string, added int) ([]string, int) {
	for _, v := range values {
		v = NormalizePattern(v)
		if v == "" || contains(list, v) {
			continue
		}
		list = append(list, v)
		added++
	}
	return list, added
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

// RecordCorrection appends to the corrections log and updates the stats.
func (kb *KnowledgeBase) RecordCorrection(address, predicted, actual, source string) Correction {
	kb.ensure()
	c := Correction{
		ID:        uuid.New().String(),
		Address:   address,
		Predicted: predicted,
		Actual:    actual,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
	kb.Corrections = append(kb.Corrections, c)

	kb.Stats.TotalTrained++
	kb.Stats.ByCategory[actual]++
	if predicted != actual {
		kb.Stats.Misclassified++
	}
	if source == CorrectionBatch {
		kb.Stats.BatchTrained++
	}
	return c
}

// LatestCorrections maps each corrected address to the category it was last corrected to.
func (kb *KnowledgeBase) LatestCorrections() map[string]string {
	latest := map[string]string{}
	for _, c := range kb.Corrections {
		latest[c.Address] = c.Actual
	}
	return latest
}

func (kb *KnowledgeBase) PatternCount() int {
	n := 0
	for _, set := range kb.Patterns {
		if set != nil {
			n += set.Len()
		}
	}
	return n
}
