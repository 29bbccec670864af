// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CategoryInternal = "internal"
	CategoryUnknown  = "unknown"
)

type SignalClass string

const (
	SubjectSignal   = SignalClass("subject")
	BodySignal      = SignalClass("body")
	SignatureSignal = SignalClass("signature")
)

// Matcher tests a piece of text for a single signal.
type Matcher interface {
	Match(text string) bool
	String() string
}

type PatternClass struct {
	Weight   int
	Matchers []Matcher
}

// Count returns how many matchers of the class hit text.
func (p PatternClass) Count(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, m := range p.Matchers {
		if m.Match(text) {
			n++
		}
	}
	return n
}

func (p PatternClass) with(extra []Matcher) PatternClass {
	matchers := make([]Matcher, 0, len(p.Matchers)+len(extra))
	matchers = append(matchers, p.Matchers...)
	matchers = append(matchers, extra...)
	return PatternClass{Weight: p.Weight, Matchers: matchers}
}

type CategoryDefinition struct {
	ID        string
	Label     string
	Subject   PatternClass
	Body      PatternClass
	Signature PatternClass
}

func (d CategoryDefinition) Class(class SignalClass) PatternClass {
	switch class {
	case SubjectSignal:
		return d.Subject
	case BodySignal:
		return d.Body
	default:
		return d.Signature
	}
}

// Score weighs a tally with the class weights of the definition.
func (d CategoryDefinition) Score(t SignalTally) int {
	return t.Subject*d.Subject.Weight + t.Body*d.Body.Weight + t.Signature*d.Signature.Weight
}

// CategorySet is the ordered, immutable list of categories the engine competes them in.
// Declaration order doubles as the tie-break order.
type CategorySet struct {
	defs  []CategoryDefinition
	index map[string]int
}

func NewCategorySet(defs ...CategoryDefinition) (CategorySet, error) {
	if len(defs) == 0 {
		return CategorySet{}, errors.New("at least one category is required")
	}

	set := CategorySet{
		defs:  make([]CategoryDefinition, 0, len(defs)),
		index: map[string]int{},
	}
	for _, d := range defs {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return CategorySet{}, errors.New("category id must not be empty")
		}
		if id == CategoryInternal || id == CategoryUnknown {
			return CategorySet{}, fmt.Errorf("category id %q is reserved", id)
		}
		if _, exists := set.index[id]; exists {
			return CategorySet{}, fmt.Errorf("category %q declared twice", id)
		}
		if d.Subject.Weight < 0 || d.Body.Weight < 0 || d.Signature.Weight < 0 {
			return CategorySet{}, fmt.Errorf("category %q has a negative weight", id)
		}
		d.ID = id
		if d.Label == "" {
			d.Label = id
		}
		set.index[id] = len(set.defs)
		set.defs = append(set.defs, d)
	}

	return set, nil
}

func (s CategorySet) Len() int {
	return len(s.defs)
}

// At returns the i-th definition in declaration order.
func (s CategorySet) At(i int) CategoryDefinition {
	return s.defs[i]
}

func (s CategorySet) Get(id string) (CategoryDefinition, bool) {
	i, ok := s.index[id]
	if !ok {
		return CategoryDefinition{}, false
	}
	return s.defs[i], true
}

func (s CategorySet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s CategorySet) IDs() []string {
	ids := make([]string, len(s.defs))
	for i, d := range s.defs {
		ids[i] = d.ID
	}
	return ids
}

// Extend returns a new set where the extra matchers are appended to the given
// category and class. Unknown categories are ignored, the receiver is left untouched.
func (s CategorySet) Extend(extra map[string]map[SignalClass][]Matcher) CategorySet {
	out := CategorySet{
		defs:  make([]CategoryDefinition, len(s.defs)),
		index: s.index,
	}
	for i, d := range s.defs {
		if classes, ok := extra[d.ID]; ok {
			d.Subject = d.Subject.with(classes[SubjectSignal])
			d.Body = d.Body.with(classes[BodySignal])
			d.Signature = d.Signature.with(classes[SignatureSignal])
		}
		out.defs[i] = d
	}
	return out
}
