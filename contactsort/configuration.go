// SPDX-License-Identifier: GPL-3.0-or-later
package contactsort

import (
	"fmt"

	"github.com/CrawX/go-contact-classifier/classifier"
	"github.com/CrawX/go-contact-classifier/mail"
	"github.com/CrawX/go-contact-classifier/trainer"
)

type ConfigFunc func(c *configuration) error

func DryRun() ConfigFunc {
	return func(c *configuration) error {
		c.DryRun = true

		return nil
	}
}

func SaveEvery(n int) ConfigFunc {
	return func(c *configuration) error {
		if n < 1 {
			return fmt.Errorf("SaveEvery must be at least 1")
		}

		c.SaveEvery = n
		return nil
	}
}

func TrainThreshold(confidence int) ConfigFunc {
	return func(c *configuration) error {
		if confidence < 0 || confidence > 100 {
			return fmt.Errorf("TrainThreshold must be between 0 and 100")
		}

		c.TrainThreshold = confidence
		return nil
	}
}

func MaxBodyLines(n int) ConfigFunc {
	return func(c *configuration) error {
		if n < 1 {
			return fmt.Errorf("MaxBodyLines must be at least 1")
		}

		c.MaxBodyLines = n
		return nil
	}
}

// EngineOptions are passed to every engine built for a run, in front of the options
// derived from the knowledge base.
func EngineOptions(opts ...classifier.Option) ConfigFunc {
	return func(c *configuration) error {
		c.EngineOptions = append(c.EngineOptions, opts...)
		return nil
	}
}

type configuration struct {
	DryRun bool

	SaveEvery      int
	TrainThreshold int
	MaxBodyLines   int

	EngineOptions []classifier.Option
}

func defaultConfiguration() *configuration {
	return &configuration{
		SaveEvery:      trainer.DefaultSaveEvery,
		TrainThreshold: trainer.DefaultConfidenceThreshold,
		MaxBodyLines:   mail.DefaultMaxBodyLines,
	}
}
