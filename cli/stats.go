// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/CrawX/go-contact-classifier/contactsort"
	"github.com/CrawX/go-contact-classifier/domain"

	"github.com/spf13/cobra"
)

var statsAddress string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the knowledge base has learned",
	Long: `Shows pattern counts per category and training totals. With --address the
corrections recorded for that correspondent are listed as well.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsAddress, "address", "", "also list the corrections of this address")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cs, done, err := openContactSort(conf)
	defer done()
	if err != nil {
		return err
	}

	stats, err := cs.Stats()
	if err != nil {
		return fmt.Errorf("could not collect stats: %w", err)
	}

	cmd.Println(renderStats(cmd.OutOrStdout(), stats))

	if statsAddress != "" {
		history, err := cs.History(statsAddress)
		if err != nil {
			return err
		}
		cmd.Println(renderHistory(cmd.OutOrStdout(), statsAddress, history))
	}
	return nil
}

func renderHistory(out io.Writer, address string, history []domain.Correction) string {
	st := newStyles(out)

	lines := []string{st.header.Render("History of " + address)}
	if len(history) == 0 {
		lines = append(lines, st.muted.Render("no corrections"))
	}
	for _, c := range history {
		lines = append(lines, fmt.Sprintf("%s  %-12s %s -> %s",
			c.Timestamp.Format("2006-01-02 15:04:05"), c.Source, c.Predicted, c.Actual))
	}
	return st.box.Render(strings.Join(lines, "\n"))
}

func renderStats(out io.Writer, stats *contactsort.Stats) string {
	st := newStyles(out)

	updated := "never"
	if !stats.UpdatedAt.IsZero() {
		updated = stats.UpdatedAt.Format("2006-01-02 15:04:05")
	}

	lines := []string{
		st.header.Render("Knowledge base"),
		st.row("Updated", updated),
		st.row("Patterns", stats.Patterns),
		st.row("Corrections", stats.Corrections),
		st.row("Trained", stats.TotalTrained),
		st.row("Misclassified", stats.Misclassified),
		st.row("Batch trained", stats.BatchTrained),
		"",
		st.muted.Render(fmt.Sprintf("%-20s%8s%9s%11s%8s", "category", "openers", "subjects", "signatures", "trained")),
	}
	for _, c := range stats.Categories {
		lines = append(lines, fmt.Sprintf("%-20s%8d%9d%11d%8d", c.Category, c.Openers, c.Subjects, c.Signatures, c.Trained))
	}

	if stats.LedgerCorrections != nil && stats.LedgerScans != nil {
		lines = append(lines,
			"",
			st.header.Render("Ledger"),
			st.row("Corrections", *stats.LedgerCorrections),
			st.row("Scans", *stats.LedgerScans),
		)
	}

	return st.box.Render(strings.Join(lines, "\n"))
}
