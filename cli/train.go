// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var trainContacts []string

var trainCmd = &cobra.Command{
	Use:   "train [archive...]",
	Short: "Teach the classifier one correspondent at a time",
	Long: `Presents the correspondents the classifier is least sure about, most active
first, and asks for the right category. Every answer adds patterns and a
correction to the knowledge base.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringSliceVar(&trainContacts, "contacts", nil, "additional contact list files")
	rootCmd.AddCommand(trainCmd)
}

// isTerminal reports whether the command reads from an interactive terminal.
var isTerminal = func(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runTrain(cmd *cobra.Command, args []string) error {
	if !isTerminal(cmd) {
		return errors.New("train needs an interactive terminal, use batch-train for unattended runs")
	}

	archives, err := archivesFrom(args)
	if err != nil {
		return err
	}

	cs, done, err := openContactSort(conf)
	defer done()
	if err != nil {
		return err
	}

	contacts := append(append([]string{}, conf.ContactLists...), trainContacts...)
	if err := cs.Train(archives, contacts, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	return nil
}
