// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "time"

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . KnowledgeStore,Ledger

type ScanSummary struct {
	ID             string
	StartedAt      time.Time
	Archives       int
	Messages       int
	Correspondents int
}

// KnowledgeStore loads and saves the knowledge base. Load never fails, an absent or
// unreadable store yields a fresh knowledge base.
type KnowledgeStore interface {
	Load() *KnowledgeBase
	Save(kb *KnowledgeBase) error
}

// Ledger is an append-only audit trail next to the knowledge base file.
type Ledger interface {
	SaveCorrection(c Correction) error
	SaveCorrections(c []Correction) error
	SaveScan(s ScanSummary) error
	CorrectionCount() (int, error)
	ScanCount() (int, error)
	CorrectionsFor(address string) ([]Correction, error)
	Close() error
}
