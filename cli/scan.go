// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/CrawX/go-contact-classifier/classifier"
	"github.com/CrawX/go-contact-classifier/contactsort"
	"github.com/CrawX/go-contact-classifier/domain"

	"github.com/spf13/cobra"
)

var (
	scanContacts []string
	scanOutput   string
)

var scanCmd = &cobra.Command{
	Use:   "scan [archive...]",
	Short: "Classify every correspondent in the archives",
	Long: `Streams the archives, merges the correspondents with the contact lists and
writes one list per category to the results file. Archives given as arguments
replace the configured ones; contact lists are added to the configured ones.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanContacts, "contacts", nil, "additional contact list files")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "results file, overrides the configuration")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	archives, err := archivesFrom(args)
	if err != nil {
		return err
	}

	output := conf.Results
	if scanOutput != "" {
		output = scanOutput
	}

	cs, done, err := openContactSort(conf)
	defer done()
	if err != nil {
		return err
	}

	report, err := cs.ScanAndClassify(archives, append(append([]string{}, conf.ContactLists...), scanContacts...), output)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	cmd.Println(renderReport(cmd.OutOrStdout(), report))
	return nil
}

func renderReport(out io.Writer, report *contactsort.ScanReport) string {
	st := newStyles(out)

	lines := []string{
		st.header.Render("Scan " + report.Summary.ID),
		st.row("Archives", report.Summary.Archives),
		st.row("Messages", report.Summary.Messages),
		st.row("Correspondents", report.Summary.Correspondents),
		"",
	}

	ids := append(classifier.DefaultCategories().IDs(), domain.CategoryInternal, domain.CategoryUnknown)
	for _, id := range ids {
		lines = append(lines, st.row(id, report.Counts[id]))
	}
	lines = append(lines, "", st.muted.Render("Results written to "+report.Output))

	return st.box.Render(strings.Join(lines, "\n"))
}
