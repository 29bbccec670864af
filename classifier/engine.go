// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"
	"github.com/CrawX/go-contact-classifier/mail"
	"github.com/CrawX/go-contact-classifier/matcher"
	"github.com/CrawX/go-contact-classifier/signals"

	"github.com/sirupsen/logrus"
)

const (
	DefaultThreshold = 20

	CredentialBonus       = 50
	PersonalProviderBonus = 10
	PersonalDataBonus     = 25

	MaxConfidence        = 95
	NoSignalConfidence   = 10
	InternalConfidence   = 100
	CorrectionConfidence = 100

	// samples kept on a record are cut to this many bytes
	maxSampleLength = 2000
)

// Engine folds messages into correspondent records and classifies the records. Observe
// mutates the map it is given and must not be called concurrently on the same map;
// Classify only reads.
type Engine struct {
	categories   domain.CategorySet
	professional string
	client       string

	internalDomains map[string]bool
	personalDomains map[string]bool
	operators       map[string]bool

	threshold   int
	overrides   map[string]string
	concurrency int
}

type Option func(e *Engine) error

func NewEngine(categories domain.CategorySet, opts ...Option) (*Engine, error) {
	if categories.Len() == 0 {
		return nil, fmt.Errorf("could not create engine: no categories")
	}

	e := &Engine{
		categories:      categories,
		professional:    CategoryReferralPartner,
		client:          CategoryClient,
		internalDomains: map[string]bool{},
		personalDomains: map[string]bool{},
		operators:       map[string]bool{},
		threshold:       DefaultThreshold,
		overrides:       map[string]string{},
		concurrency:     1,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("could not create engine: %w", err)
		}
	}

	return e, nil
}

func InternalDomains(domains ...string) Option {
	return func(e *Engine) error {
		addDomains(e.internalDomains, domains)
		return nil
	}
}

func PersonalDomains(domains ...string) Option {
	return func(e *Engine) error {
		addDomains(e.personalDomains, domains)
		return nil
	}
}

// OperatorAddresses names the mailboxes the archives belong to. Senders on an
// internal domain count as operators as well.
func OperatorAddresses(addresses ...string) Option {
	return func(e *Engine) error {
		for _, a := range addresses {
			normalized, ok := mail.NormalizeAddress(a)
			if !ok {
				return fmt.Errorf("invalid operator address %q", a)
			}
			e.operators[normalized] = true
		}
		return nil
	}
}

func Threshold(threshold int) Option {
	return func(e *Engine) error {
		if threshold < 0 {
			return fmt.Errorf("threshold must not be negative, got %d", threshold)
		}
		e.threshold = threshold
		return nil
	}
}

// DesignatedCategories changes which categories receive the credential bonus and the
// client bonuses. An id that is not part of the set disables the respective bonus.
func DesignatedCategories(professional, client string) Option {
	return func(e *Engine) error {
		e.professional = professional
		e.client = client
		return nil
	}
}

// Knowledge appends the learned patterns of kb as substring matchers: subjects to the
// subject class, openers to the body class and signature phrases to the signature
// class of their category.
func Knowledge(kb *domain.KnowledgeBase) Option {
	return func(e *Engine) error {
		if kb == nil {
			return nil
		}
		extra := map[string]map[domain.SignalClass][]domain.Matcher{}
		learned := 0
		for category, set := range kb.Patterns {
			if set == nil {
				continue
			}
			if !e.categories.Contains(category) {
				log.Logger(log.LOG_CLASSIFIER).WithField("category", category).Warn("Ignoring patterns of unknown category")
				continue
			}
			extra[category] = map[domain.SignalClass][]domain.Matcher{
				domain.SubjectSignal:   matcher.Substrings(set.Subjects...),
				domain.BodySignal:      matcher.Substrings(set.Openers...),
				domain.SignatureSignal: matcher.Substrings(set.Signatures...),
			}
			learned += set.Len()
		}
		e.categories = e.categories.Extend(extra)
		log.Logger(log.LOG_CLASSIFIER).WithField("patterns", learned).Debug("Loaded learned patterns")
		return nil
	}
}

// Overrides makes the latest human correction of an address authoritative.
func Overrides(kb *domain.KnowledgeBase) Option {
	return func(e *Engine) error {
		if kb == nil {
			return nil
		}
		for address, category := range kb.LatestCorrections() {
			e.overrides[address] = category
		}
		return nil
	}
}

// Concurrency sets how many records ClassifyAll classifies in parallel.
func Concurrency(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		e.concurrency = n
		return nil
	}
}

func addDomains(set map[string]bool, domains []string) {
	for _, d := range domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "@")
		if d != "" {
			set[d] = true
		}
	}
}

// Categories returns the categories in declaration order, including learned matchers.
func (e *Engine) Categories() domain.CategorySet {
	return e.categories
}

func (e *Engine) IsInternal(address string) bool {
	i := strings.LastIndex(address, "@")
	return i >= 0 && e.internalDomains[address[i+1:]]
}

func (e *Engine) IsOperator(address string) bool {
	return e.operators[address] || e.IsInternal(address)
}

// Observe folds one message into records. Senders collect subjects, samples, tallies and
// credentials; recipients are counted and, when the operator sent the message, collect
// personal-data markers.
func (e *Engine) Observe(records domain.Correspondents, msg *domain.RawMessage) {
	senders := mail.ParseAddresses(msg.From)
	fromOperator := false
	isSender := map[string]bool{}

	var sent *signals.Fragments
	for _, s := range senders {
		if sent == nil {
			sent = signals.ExtractDirection(msg, signals.Sent)
		}
		isSender[s.Address] = true
		if e.IsOperator(s.Address) {
			fromOperator = true
		}

		rec := records.Get(s.Address)
		rec.SetDisplayName(s.Name)
		rec.Sent++
		rec.AddSubject(msg.Subject)
		rec.AddBodySample(truncate(sent.Body, maxSampleLength))
		rec.AddSignature(truncate(sent.Signature, maxSampleLength))
		rec.SetCredential(sent.Credential)
		e.tally(rec, sent)
	}

	markers := -1
	for _, header := range []string{msg.To, msg.Cc} {
		for _, r := range mail.ParseAddresses(header) {
			if isSender[r.Address] {
				continue
			}
			rec := records.Get(r.Address)
			rec.SetDisplayName(r.Name)
			rec.Received++

			if !fromOperator {
				continue
			}
			if markers < 0 {
				markers = signals.ExtractDirection(msg, signals.Received).PersonalData
			}
			if markers > 0 {
				rec.PersonalDataMarkers++
			}
		}
	}
}

func (e *Engine) tally(rec *domain.CorrespondentRecord, f *signals.Fragments) {
	for i := 0; i < e.categories.Len(); i++ {
		def := e.categories.At(i)
		t := domain.SignalTally{
			Subject:   def.Subject.Count(f.Subject),
			Body:      def.Body.Count(f.Body),
			Signature: def.Signature.Count(f.Signature),
		}
		if !t.Empty() {
			rec.Tally(def.ID).Add(t)
		}
	}
}

// Classify scores one record. The result only depends on the record and the engine
// configuration.
func (e *Engine) Classify(rec *domain.CorrespondentRecord) *domain.ClassificationResult {
	result := &domain.ClassificationResult{
		Address: rec.Address,
		Name:    rec.DisplayName,
		Scores:  map[string]int{},
		Evidence: domain.Evidence{
			Subjects:   append([]string(nil), rec.SampleSubjects...),
			Credential: rec.CredentialValue,
			Sent:       rec.Sent,
			Received:   rec.Received,
		},
	}
	if result.Name == "" {
		result.Name = mail.DisplayNameFromAddress(rec.Address)
	}

	if e.internalDomains[rec.Domain()] {
		result.Category = domain.CategoryInternal
		result.Confidence = InternalConfidence
		return result
	}

	best, top := "", 0
	for i := 0; i < e.categories.Len(); i++ {
		def := e.categories.At(i)
		score := 0
		if t, ok := rec.Tallies[def.ID]; ok && t != nil {
			score = def.Score(*t)
		}
		if def.ID == e.professional && rec.HasCredential {
			score += CredentialBonus
		}
		if def.ID == e.client {
			if e.personalDomains[rec.Domain()] {
				score += PersonalProviderBonus
			}
			if rec.PersonalDataMarkers > 0 {
				score += PersonalDataBonus
			}
		}
		result.Scores[def.ID] = score

		// strictly greater keeps the earlier declared category on ties
		if score > top {
			best, top = def.ID, score
		}
	}

	result.Category = domain.CategoryUnknown
	if best != "" && top >= e.threshold {
		result.Category = best
	}

	result.Confidence = NoSignalConfidence
	if top > 0 {
		result.Confidence = top
		if result.Confidence > MaxConfidence {
			result.Confidence = MaxConfidence
		}
	}

	if actual, ok := e.overrides[rec.Address]; ok {
		log.Logger(log.LOG_CLASSIFIER).WithFields(logrus.Fields{
			"address":   rec.Address,
			"predicted": result.Category,
			"actual":    actual,
		}).Debug("Applying correction")
		result.Category = actual
		result.Confidence = CorrectionConfidence
	}

	return result
}

// ClassifyAll classifies every record, ordered by address.
func (e *Engine) ClassifyAll(records domain.Correspondents) []*domain.ClassificationResult {
	sorted := make([]*domain.CorrespondentRecord, 0, len(records))
	for address, rec := range records {
		if rec == nil || address == "" {
			continue
		}
		sorted = append(sorted, rec)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Address < sorted[j].Address
	})

	return e.classifyConcurrent(sorted, e.concurrency)
}

// GroupByCategory buckets results per category. Every category of the set plus the
// internal and unknown buckets is present, each sorted by confidence, then address.
func GroupByCategory(categories domain.CategorySet, results []*domain.ClassificationResult) map[string][]*domain.ClassificationResult {
	grouped := map[string][]*domain.ClassificationResult{
		domain.CategoryInternal: {},
		domain.CategoryUnknown:  {},
	}
	for _, id := range categories.IDs() {
		grouped[id] = []*domain.ClassificationResult{}
	}

	for _, r := range results {
		grouped[r.Category] = append(grouped[r.Category], r)
	}

	for _, list := range grouped {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Confidence != list[j].Confidence {
				return list[i].Confidence > list[j].Confidence
			}
			return list[i].Address < list[j].Address
		})
	}
	return grouped
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
