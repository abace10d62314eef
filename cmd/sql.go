package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/questionnaire/pkg/export"
	"github.com/helmcode/questionnaire/pkg/model"
)

var (
	sqlEdit    bool
	sqlExecute bool
	sqlAnalyze bool
)

// NewSQLCmd creates the sql command
func NewSQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql FILE",
		Short: "Build the populated query from a saved experiment export",
		Long: `Populate the SQL template from the answers in a saved experiment monitoring export.

Examples:
  questionnaire sql experiment_monitoring_20240310_120000.json
  questionnaire sql results.json --execute
  questionnaire sql results.json --edit --analyze`,
		Args: cobra.ExactArgs(1),
		RunE: runSQLCmd,
	}
	cmd.Flags().BoolVar(&sqlEdit, "edit", false, "Open the populated query in an editor")
	cmd.Flags().BoolVar(&sqlExecute, "execute", false, "Execute the populated query against the warehouse")
	cmd.Flags().BoolVar(&sqlAnalyze, "analyze", false, "Run the analysis command on the populated query")
	return cmd
}

func runSQLCmd(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	doc, err := export.Load(args[0])
	if err != nil {
		return err
	}
	if doc.Set.Kind != model.KindExperiment {
		return fmt.Errorf("%s is a %s export, not an experiment monitoring export", args[0], doc.SetID)
	}

	path, err := e.writeQuery(doc.Responses, now())
	if err != nil {
		return err
	}
	printSuccess(e.out, "Populated query saved to "+path)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return e.followUp(ctx, path, queryActions{edit: sqlEdit, execute: sqlExecute, analyze: sqlAnalyze})
}
