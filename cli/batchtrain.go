// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var batchTrainCmd = &cobra.Command{
	Use:   "batch-train <contact-list> <category> [archive...]",
	Short: "Teach one category from a curated contact list",
	Long: `Records every address of the contact list as the given category. Archives,
when given, supply the subjects and message samples the new patterns are
taken from.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runBatchTrain,
}

func init() {
	rootCmd.AddCommand(batchTrainCmd)
}

func runBatchTrain(cmd *cobra.Command, args []string) error {
	listFile, category, archives := args[0], args[1], args[2:]

	cs, done, err := openContactSort(conf)
	defer done()
	if err != nil {
		return err
	}

	summary, err := cs.BatchTrain(listFile, category, archives)
	if err != nil {
		return fmt.Errorf("batch training failed: %w", err)
	}

	cmd.Printf("Trained %d correspondents as %s, %d new patterns\n", summary.Records, category, summary.Patterns)
	if conf.DryRun {
		cmd.Println("Dry run, nothing was saved")
	}
	return nil
}
