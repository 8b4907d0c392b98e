// Package main is leaderboardctl, a command-line client for the
// leaderboard API.
package main

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atinyakov/leaderboard/internal/client"
	"github.com/spf13/cobra"
)

const programName = "leaderboardctl"

var (
	version   string
	buildDate string
)

var globalFlags = struct {
	server  string
	timeout time.Duration
}{}

func newClient() *client.Client {
	return client.New(globalFlags.server, &http.Client{Timeout: globalFlags.timeout})
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           programName,
		Short:         "Command-line client for the leaderboard service",
		Version:       fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(
		&globalFlags.server, "server", "s",
		cmp.Or(os.Getenv("LEADERBOARD_SERVER"), "http://localhost:3001"),
		"leaderboard server base URL",
	)
	cmd.PersistentFlags().DurationVar(&globalFlags.timeout, "timeout", 10*time.Second, "request timeout")

	cmd.AddCommand(
		submitCommand(),
		topCommand(),
		verifyCommand(),
		resetCommand(),
		checkNameCommand(),
		healthCommand(),
	)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}
