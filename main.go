package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/helmcode/questionnaire/cmd"
	"github.com/helmcode/questionnaire/pkg/model"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if errors.Is(err, model.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "\n\nQuestionnaire cancelled. Goodbye!")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "questionnaire",
		Short: "Interactive analysis questionnaires",
		Long: `questionnaire walks you through a set of questions, validates the answers,
and produces a structured analysis with an overall assessment and recommendations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cmd.RegisterGlobalFlags(rootCmd)
	rootCmd.AddCommand(
		cmd.NewRunCmd(),
		cmd.NewListCmd(),
		cmd.NewValidateCmd(),
		cmd.NewReportCmd(),
		cmd.NewSQLCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "questionnaire version %s\n", version)
		},
	}
}
