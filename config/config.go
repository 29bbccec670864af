// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultFilename = "contactsort.toml"

type Config struct {
	Archives     []string
	ContactLists []string

	KnowledgeBase string
	Results       string
	Ledger        string

	InternalDomains   []string
	PersonalDomains   []string
	OperatorAddresses []string

	Threshold      int
	TrainThreshold int
	SaveEvery      int
	MaxBodyLines   int
	Concurrency    int

	DryRun bool

	Loglevel *string
}

func Default() *Config {
	return &Config{
		KnowledgeBase: "knowledge_base.json",
		Results:       "classification_results.json",
		PersonalDomains: []string{
			"gmail.com", "googlemail.com", "yahoo.com", "hotmail.com", "outlook.com",
			"live.com", "aol.com", "icloud.com", "me.com", "msn.com", "comcast.net",
		},
		Threshold:      20,
		TrainThreshold: 90,
		SaveEvery:      10,
		MaxBodyLines:   100,
		Concurrency:    1,
	}
}

// ReadConfig decodes filename on top of the defaults.
func ReadConfig(filename string) (*Config, error) {
	config := Default()

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Load reads filename when it exists and falls back to the defaults otherwise.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		config := Default()
		return config, config.validate()
	}
	return ReadConfig(filename)
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.KnowledgeBase, "KnowledgeBase must not be empty, set to a filename for the knowledge base"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.Results, "Results must not be empty, set to a filename for the classification results"); err != nil {
		return err
	}

	if c.Threshold < 0 {
		return fmt.Errorf("Threshold must not be negative, got %d", c.Threshold)
	}
	if c.TrainThreshold < 0 || c.TrainThreshold > 100 {
		return fmt.Errorf("TrainThreshold must be between 0 and 100, got %d", c.TrainThreshold)
	}
	if c.SaveEvery < 1 {
		return fmt.Errorf("SaveEvery must be at least 1, got %d", c.SaveEvery)
	}
	if c.MaxBodyLines < 1 {
		return fmt.Errorf("MaxBodyLines must be at least 1, got %d", c.MaxBodyLines)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("Concurrency must be at least 1, got %d", c.Concurrency)
	}

	for _, a := range c.OperatorAddresses {
		if !strings.Contains(a, "@") {
			return fmt.Errorf("OperatorAddresses must contain mail addresses, got %q", a)
		}
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
