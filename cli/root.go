// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"fmt"

	"github.com/CrawX/go-contact-classifier/classifier"
	"github.com/CrawX/go-contact-classifier/config"
	"github.com/CrawX/go-contact-classifier/contactsort"
	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/knowledgebase"
	"github.com/CrawX/go-contact-classifier/log"
	"github.com/CrawX/go-contact-classifier/persistence"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	dryRun     bool

	conf *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "contactsort",
	Short: "Sort mail correspondents into relationship categories",
	Long: `Scans mbox archives, scores every correspondent against the relationship
categories and writes the results grouped by category. The knowledge base
behind the scores is grown with the train and batch-train commands.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFilename, "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "", "log level, overrides the configuration")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "do not write the knowledge base or the ledger")
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if c.Loglevel != nil {
		log.SetLogLevel(*c.Loglevel)
	}
	if logLevel != "" {
		log.SetLogLevel(logLevel)
	}
	if dryRun {
		c.DryRun = true
	}

	conf = c
	return nil
}

// openContactSort builds the entry points from c. The returned func releases the
// ledger and is safe to call when opening failed.
var openContactSort = func(c *config.Config) (*contactsort.ContactSort, func(), error) {
	done := func() {}
	if c == nil {
		return nil, done, fmt.Errorf("configuration not loaded")
	}

	var ledger domain.Ledger
	if c.Ledger != "" {
		p, err := persistence.NewPersistence(c.Ledger)
		if err != nil {
			return nil, done, fmt.Errorf("could not open ledger: %w", err)
		}
		ledger = p
		done = func() {
			if err := p.Close(); err != nil {
				log.Logger(log.LOG_MAIN).WithError(err).Warn("Could not close ledger")
			}
		}
	}

	configs := []contactsort.ConfigFunc{
		contactsort.SaveEvery(c.SaveEvery),
		contactsort.TrainThreshold(c.TrainThreshold),
		contactsort.MaxBodyLines(c.MaxBodyLines),
		contactsort.EngineOptions(
			classifier.InternalDomains(c.InternalDomains...),
			classifier.PersonalDomains(c.PersonalDomains...),
			classifier.OperatorAddresses(c.OperatorAddresses...),
			classifier.Threshold(c.Threshold),
			classifier.Concurrency(c.Concurrency),
		),
	}
	if c.DryRun {
		configs = append(configs, contactsort.DryRun())
	}

	cs, err := contactsort.NewContactSort(classifier.DefaultCategories(), knowledgebase.NewStore(c.KnowledgeBase), ledger, configs...)
	if err != nil {
		done()
		return nil, func() {}, err
	}
	return cs, done, nil
}

// archivesFrom prefers archives given on the command line over the configured ones.
func archivesFrom(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(conf.Archives) > 0 {
		return conf.Archives, nil
	}
	return nil, fmt.Errorf("no archives given, pass them as arguments or set Archives in %s", configFile)
}
