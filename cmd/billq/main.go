// billq submits jobs to the worker's queue and inspects results. It talks
// straight to the database: inserting a pending job row is the worker's
// sole input channel.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkarlsen/billdates/internal/storage"
	"github.com/dkarlsen/billdates/internal/storage/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "billq",
		Short:         "billq: queue bill-date generation jobs and inspect the queue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/bills.db", "path to the worker database")

	open := func() (storage.Store, error) {
		return sqlite.New(dbPath)
	}

	rootCmd.AddCommand(
		newAddCmd(open),
		newRunCmd(open),
		newJobsCmd(open),
		newDatesCmd(open),
	)

	return rootCmd
}
