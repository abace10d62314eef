package cmd

import (
	"github.com/spf13/cobra"

	"github.com/helmcode/questionnaire/pkg/export"
	"github.com/helmcode/questionnaire/pkg/formatter"
)

var reportOutput string

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Display a saved JSON export",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	cmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output format (human, json, yaml)")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	output, err := outputFormat(e.cfg.OutputFormat, reportOutput)
	if err != nil {
		return err
	}

	doc, err := export.Load(args[0])
	if err != nil {
		return err
	}

	title := doc.Set.Name
	if title == "" {
		title = doc.SetID
	}
	return formatter.DisplayResults(e.out, formatter.Report{
		Title:     title,
		Responses: doc.Responses,
		Analysis:  doc.Analysis,
	}, output)
}
