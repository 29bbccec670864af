// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"fmt"
	"testing"
	"time"

	"github.com/CrawX/go-contact-classifier/domain"

	"github.com/stretchr/testify/assert"
)

func Test_ClassifyConcurrentKeepsOrder(t *testing.T) {
	e := testEngine(t)

	records := []*domain.CorrespondentRecord{}
	for i := 0; i < 50; i++ {
		rec := domain.NewCorrespondentRecord(fmt.Sprintf("person%02d@example.org", i))
		if i%2 == 0 {
			*rec.Tally(CategoryVendor) = domain.SignalTally{Subject: 2}
		}
		records = append(records, rec)
	}

	for _, concurrency := range []int{1, 3, 8} {
		t.Run(fmt.Sprint(concurrency), func(t *testing.T) {
			resultsChan := make(chan []*domain.ClassificationResult)
			go func() {
				resultsChan <- e.classifyConcurrent(records, concurrency)
			}()

			timeoutChan := time.After(time.Second)
			select {
			case results := <-resultsChan:
				assert.Len(t, results, len(records))
				for i, r := range results {
					assert.Equal(t, records[i].Address, r.Address)
					if i%2 == 0 {
						assert.Equal(t, CategoryVendor, r.Category)
					} else {
						assert.Equal(t, domain.CategoryUnknown, r.Category)
					}
				}
			case <-timeoutChan:
				assert.Fail(t, "timeout when classifying concurrently")
			}
		})
	}
}

func Test_ClassifyConcurrentEmpty(t *testing.T) {
	e := testEngine(t, Concurrency(4))
	assert.Empty(t, e.ClassifyAll(domain.Correspondents{}))
}
