package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/atinyakov/leaderboard/internal/client"
	"github.com/atinyakov/leaderboard/internal/models"
	"github.com/spf13/cobra"
)

func submitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <name> <score>",
		Short: "Submit a score and print its receipt hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("score must be an integer: %w", err)
			}
			hash, err := newClient().Submit(cmd.Context(), args[0], score)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func topCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Print the top scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := newClient().Top(cmd.Context())
			if err != nil {
				return err
			}
			printScores(cmd, rows)
			return nil
		},
	}
}

func printScores(cmd *cobra.Command, rows []models.RankedScore) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tSCORE\tHASH")
	for i, r := range rows {
		hash := "-"
		if r.Hash != nil {
			hash = *r.Hash
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, r.Name, r.Score, hash)
	}
	_ = w.Flush()
}

func verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <hash>",
		Short: "Show the submission behind a receipt hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := newClient().Verify(cmd.Context(), args[0])
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("no submission for hash %s", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "name=%s score=%d timestamp=%d\n", rec.Name, rec.Score, rec.Timestamp)
			return nil
		},
	}
}

func resetCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the leaderboard (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Reset(cmd.Context(), password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Leaderboard reset successfully")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func checkNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-name <name>",
		Short: "Run the advisory profanity check on a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, msg, err := newClient().CheckName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", result, msg)
			return nil
		},
	}
}

func healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}
