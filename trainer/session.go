// SPDX-License-Identifier: GPL-3.0-or-later

// Package trainer grows the knowledge base from human decisions, one correspondent at
// a time or in bulk.
package trainer

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"

	"github.com/sirupsen/logrus"
)

const (
	DefaultConfidenceThreshold = 90
	DefaultSaveEvery           = 10
)

var ErrSessionDone = errors.New("training session is done")

type State int

const (
	AwaitingInput = State(iota)
	Processing
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting input"
	case Processing:
		return "processing"
	}
	return "done"
}

type Outcome int

const (
	Ignored = Outcome(iota)
	Accepted
	Skipped
	Quit
)

type Candidate struct {
	Record *domain.CorrespondentRecord
	Result *domain.ClassificationResult
}

func (c Candidate) address() string {
	switch {
	case c.Record != nil:
		return c.Record.Address
	case c.Result != nil:
		return c.Result.Address
	}
	return ""
}

// SelectCandidates picks the results worth a human look: unknown ones and those below
// threshold. Internal correspondents are never presented. The busiest correspondents
// come first.
func SelectCandidates(records domain.Correspondents, results []*domain.ClassificationResult, threshold int) []Candidate {
	candidates := []Candidate{}
	for _, r := range results {
		if r.Category == domain.CategoryInternal {
			continue
		}
		if r.Category != domain.CategoryUnknown && r.Confidence >= threshold {
			continue
		}
		rec, ok := records[r.Address]
		if !ok || rec == nil {
			continue
		}
		candidates = append(candidates, Candidate{Record: rec, Result: r})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ei, ej := candidates[i].Record.Exchanges(), candidates[j].Record.Exchanges()
		if ei != ej {
			return ei > ej
		}
		return candidates[i].Record.Address < candidates[j].Record.Address
	})
	return candidates
}

// Session is the turn based training loop. Each Handle call consumes one operator
// input; the session never blocks itself, so a terminal and a test drive it the same way.
type Session struct {
	kb         *domain.KnowledgeBase
	store      domain.KnowledgeStore
	ledger     domain.Ledger
	categories domain.CategorySet
	candidates []Candidate

	saveEvery int
	dryRun    bool

	state     State
	pos       int
	accepted  int
	sinceSave int
	finished  bool

	l *logrus.Logger
}

type SessionOption func(s *Session) error

func SaveEvery(n int) SessionOption {
	return func(s *Session) error {
		if n < 1 {
			return fmt.Errorf("SaveEvery must be at least 1, got %d", n)
		}
		s.saveEvery = n
		return nil
	}
}

// DryRun keeps every change in memory.
func DryRun() SessionOption {
	return func(s *Session) error {
		s.dryRun = true
		return nil
	}
}

// NewSession starts a session over candidates. ledger may be nil. Candidates without a
// record or a result are dropped.
func NewSession(kb *domain.KnowledgeBase, store domain.KnowledgeStore, ledger domain.Ledger, categories domain.CategorySet, candidates []Candidate, opts ...SessionOption) (*Session, error) {
	if kb == nil {
		return nil, errors.New("could not start session: no knowledge base")
	}
	if categories.Len() == 0 {
		return nil, errors.New("could not start session: no categories")
	}

	l := log.Logger(log.LOG_TRAINER)
	usable := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Record == nil || c.Result == nil {
			l.WithField("address", c.address()).Warn("Dropping candidate without record or result")
			continue
		}
		usable = append(usable, c)
	}

	s := &Session{
		kb:         kb,
		store:      store,
		ledger:     ledger,
		categories: categories,
		candidates: usable,
		saveEvery:  DefaultSaveEvery,
		state:      AwaitingInput,
		l:          l,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("could not start session: %w", err)
		}
	}

	if len(usable) == 0 {
		s.state = Done
	}
	return s, nil
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Categories() domain.CategorySet {
	return s.categories
}

// Current returns the candidate awaiting a decision.
func (s *Session) Current() (Candidate, bool) {
	if s.state == Done || s.pos >= len(s.candidates) {
		return Candidate{}, false
	}
	return s.candidates[s.pos], true
}

// Position returns the 1-based number of the current candidate and the total.
func (s *Session) Position() (int, int) {
	return s.pos + 1, len(s.candidates)
}

func (s *Session) Accepted() int {
	return s.accepted
}

// Handle dispatches one line of input: a digit picks the category with that number in
// declaration order, "s" skips, "q" quits. Anything else is ignored.
func (s *Session) Handle(input string) (Outcome, error) {
	if s.state == Done {
		return Quit, ErrSessionDone
	}
	s.state = Processing

	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "q":
		s.state = Done
		return Quit, s.Finish()
	case "s":
		return Skipped, s.Skip()
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > s.categories.Len() {
		s.state = AwaitingInput
		return Ignored, nil
	}

	if err := s.accept(s.categories.At(n - 1).ID); err != nil {
		s.state = AwaitingInput
		return Accepted, err
	}
	return Accepted, s.advance()
}

// Skip moves on without touching the knowledge base.
func (s *Session) Skip() error {
	if s.state == Done {
		return ErrSessionDone
	}
	if c, ok := s.Current(); ok {
		s.l.WithField("address", c.address()).Debug("Skipped")
	}
	return s.advance()
}

func (s *Session) accept(category string) error {
	c := s.candidates[s.pos]

	added := s.kb.AddPatterns(category, ExtractPatterns(c.Record))
	correction := s.kb.RecordCorrection(c.Record.Address, c.Result.Category, category, domain.CorrectionInteractive)
	s.accepted++
	s.sinceSave++

	s.l.WithFields(logrus.Fields{
		"address":   c.Record.Address,
		"predicted": c.Result.Category,
		"actual":    category,
		"patterns":  added,
	}).Info("Classified correspondent")

	if s.ledger != nil && !s.dryRun {
		if err := s.ledger.SaveCorrection(correction); err != nil {
			s.l.WithError(err).WithField("address", c.Record.Address).Warn("Could not record correction in ledger")
		}
	}

	if s.sinceSave >= s.saveEvery {
		return s.save()
	}
	return nil
}

func (s *Session) advance() error {
	s.pos++
	if s.pos >= len(s.candidates) {
		s.state = Done
		return s.Finish()
	}
	s.state = AwaitingInput
	return nil
}

// Finish ends the session with a final save. Calling it again does nothing.
func (s *Session) Finish() error {
	s.state = Done
	if s.finished {
		return nil
	}
	s.finished = true

	s.l.WithFields(logrus.Fields{"accepted": s.accepted, "presented": s.pos}).Info("Training session finished")
	return s.save()
}

func (s *Session) save() error {
	s.sinceSave = 0
	if s.dryRun {
		s.l.Info("Dry run, not saving knowledge base")
		return nil
	}
	if err := s.store.Save(s.kb); err != nil {
		return fmt.Errorf("could not save training progress: %w", err)
	}
	return nil
}
