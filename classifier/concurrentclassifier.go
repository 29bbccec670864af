// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import "github.com/CrawX/go-contact-classifier/domain"

// classifyConcurrent classifies records with at most concurrency goroutines. Results keep
// the order of records.
func (e *Engine) classifyConcurrent(records []*domain.CorrespondentRecord, concurrency int) []*domain.ClassificationResult {
	results := make([]*domain.ClassificationResult, len(records))
	if concurrency <= 1 {
		for i, rec := range records {
			results[i] = e.Classify(rec)
		}
		return results
	}

	semaphore := make(chan bool, concurrency)
	for i := 0; i < len(records); i++ {
		semaphore <- true
		go func(index int) {
			results[index] = e.Classify(records[index])
			<-semaphore
		}(i)
	}

	for i := 0; i < concurrency; i++ {
		semaphore <- true
	}

	return results
}
