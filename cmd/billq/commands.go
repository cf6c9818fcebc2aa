package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkarlsen/billdates/internal/recurrence"
	"github.com/dkarlsen/billdates/internal/storage"
)

type storeOpener func() (storage.Store, error)

func newAddCmd(open storeOpener) *cobra.Command {
	var (
		userID int64
		reps   int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Queue a bill-date generation job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			params, err := json.Marshal(struct {
				UserID  int64 `json:"user_id"`
				NumReps int   `json:"num_reps"`
			}{userID, reps})
			if err != nil {
				return err
			}

			command := "generate_bill_dates:" + string(params)
			job, err := store.EnqueueJob(cmd.Context(), command)
			if err != nil {
				return err
			}

			fmt.Printf("Bill generation job queued with ID: %s\n", job.ID)
			fmt.Printf("Parameters: user_id=%d, num_reps=%d\n", userID, reps)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "user to generate dates for")
	cmd.Flags().IntVar(&reps, "reps", 42, "repetitions per recurring bill")
	return cmd
}

func newRunCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "run <command>",
		Short: "Queue an arbitrary shell command",
		Long: "Queue an arbitrary shell command for the worker.\n\n" +
			"The command is a single argument, stored verbatim and executed by the\n" +
			"worker via sh -c, so quote it as one string: billq run 'echo \"a b\"'",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.EnqueueJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Shell job queued with ID: %s\n", job.ID)
			return nil
		},
	}
}

func newJobsCmd(open storeOpener) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show recent jobs with status and output",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.ListRecentJobs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Println("Recent Jobs:")
			fmt.Println(strings.Repeat("-", 80))
			for _, job := range jobs {
				fmt.Printf("ID: %s\n", job.ID)
				fmt.Printf("Command: %s\n", job.Command)
				fmt.Printf("Status: %s\n", job.Status)
				fmt.Printf("Created: %s\n", job.CreatedAt.Format(time.DateTime))
				if job.Output != "" {
					fmt.Printf("Output: %s\n", job.Output)
				}
				fmt.Println(strings.Repeat("-", 40))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "number of jobs to show")
	return cmd
}

func newDatesCmd(open storeOpener) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List a user's bill dates inside the current pay period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			period := recurrence.PayPeriodFrom(time.Now())
			dates, err := store.ListBillDates(cmd.Context(), userID, period.TodayDate(), period.NextPayDayString())
			if err != nil {
				return err
			}

			fmt.Printf("Pay period: %s .. %s\n", period.TodayDate(), period.NextPayDayString())
			if len(dates) == 0 {
				fmt.Println("No bill dates in this pay period.")
				return nil
			}
			for _, d := range dates {
				flags := ""
				if d.IsFuture {
					flags += " [future]"
				}
				if d.IsHeavy {
					flags += " [heavy]"
				}
				fmt.Printf("%s  %-30s  %8.2f%s\n", d.Date, d.Description, d.Amount, flags)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "user to list dates for")
	return cmd
}
