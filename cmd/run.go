package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/questionnaire/pkg/analyzer"
	"github.com/helmcode/questionnaire/pkg/catalog"
	"github.com/helmcode/questionnaire/pkg/collector"
	"github.com/helmcode/questionnaire/pkg/export"
	"github.com/helmcode/questionnaire/pkg/formatter"
	"github.com/helmcode/questionnaire/pkg/model"
	"github.com/helmcode/questionnaire/pkg/validator"
)

var (
	runFile    string
	runOutput  string
	runSave    bool
	runFormat  string
	runOut     string
	runSQL     bool
	runEdit    bool
	runExecute bool
	runAnalyze bool
)

// now is swapped in tests.
var now = time.Now

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [SET]",
		Short: "Answer a question set and analyze the responses",
		Long: `Walk through a question set interactively, then display an analysis of the answers.

Pick a built-in set by id, load a custom set with --file, or choose from a menu.

Examples:
  questionnaire run
  questionnaire run business_analysis -o json
  questionnaire run --file onboarding.yaml --save --format csv
  questionnaire run experiment_monitoring --sql --execute`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}

	cmd.Flags().StringVarP(&runFile, "file", "f", "", "Custom question set file (YAML or JSON)")
	cmd.Flags().StringVarP(&runOutput, "output", "o", "", "Output format (human, json, yaml)")
	cmd.Flags().BoolVar(&runSave, "save", false, "Save results without asking")
	cmd.Flags().StringVar(&runFormat, "format", "", "Export format (json, csv, txt)")
	cmd.Flags().StringVar(&runOut, "out", "", "Export file path (default <set>_<timestamp>.<format> in output_dir)")
	cmd.Flags().BoolVar(&runSQL, "sql", false, "Write the populated experiment query without asking")
	cmd.Flags().BoolVar(&runEdit, "edit", false, "Open the populated query in an editor")
	cmd.Flags().BoolVar(&runExecute, "execute", false, "Execute the populated query against the warehouse")
	cmd.Flags().BoolVar(&runAnalyze, "analyze", false, "Run the analysis command on the populated query")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	output, err := outputFormat(e.cfg.OutputFormat, runOutput)
	if err != nil {
		return err
	}
	format := e.cfg.ExportFormat
	if runFormat != "" {
		format = runFormat
	}
	if !export.ValidFormat(format) {
		return fmt.Errorf("invalid export format %q, must be one of: json, csv, txt", format)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gate := validator.NewGate(validator.New())
	c := collector.New(e.in, e.out, collector.WithGate(gate), collector.WithLogger(e.logger))

	set, err := e.chooseSet(ctx, c, args)
	if err != nil {
		return err
	}

	printHeader(e.out, set.Name)
	responses, err := c.Collect(ctx, set)
	if err != nil {
		return err
	}

	analysis := analyzer.New(analyzer.WithLogger(e.logger)).Analyze(set, responses)
	report := formatter.Report{Title: set.Name, Responses: responses, Analysis: analysis}
	if err := formatter.DisplayResults(e.out, report, output); err != nil {
		return err
	}

	stamp := now()
	save := runSave
	if !save {
		if save, err = c.Confirm(ctx, "Would you like to save the results?"); err != nil {
			return err
		}
	}
	if save {
		doc := export.NewDocument(set, responses, analysis, stamp)
		if path, err := e.save(doc, format, runOut); err != nil {
			printError(e.out, fmt.Sprintf("%v (results not saved)", err))
		} else {
			printSuccess(e.out, "Results saved to "+path)
		}
	}

	if set.Kind != model.KindExperiment {
		return nil
	}

	writeSQL := runSQL || runEdit || runExecute || runAnalyze
	if !writeSQL {
		if writeSQL, err = c.Confirm(ctx, "Would you like to generate the populated SQL query?"); err != nil {
			return err
		}
	}
	if !writeSQL {
		return nil
	}

	path, err := e.writeQuery(responses, stamp)
	if err != nil {
		printError(e.out, err.Error())
		return nil
	}
	printSuccess(e.out, "Populated query saved to "+path)

	if err := e.followUp(ctx, path, queryActions{edit: runEdit, execute: runExecute, analyze: runAnalyze}); err != nil {
		if errors.Is(err, model.ErrCancelled) {
			return err
		}
		printError(e.out, err.Error())
	}
	return nil
}

// chooseSet resolves the set from --file, the positional id, or a menu.
func (e *env) chooseSet(ctx context.Context, c *collector.Collector, args []string) (model.QuestionSet, error) {
	if runFile != "" {
		set, err := catalog.LoadFile(runFile)
		if err != nil {
			return model.QuestionSet{}, err
		}
		e.logger.Debug("custom set loaded", zap.String("set", set.ID), zap.String("path", runFile))
		return set, nil
	}

	if len(args) == 1 {
		set, ok := e.catalog.Get(args[0])
		if !ok {
			return model.QuestionSet{}, fmt.Errorf("unknown question set %q (available: %s)", args[0], setIDs(e.catalog))
		}
		return set, nil
	}

	return c.SelectSet(ctx, e.catalog.Sets())
}

// save writes doc and returns the path written. An empty path means the
// default file name inside the output directory.
func (e *env) save(doc export.Document, format, path string) (string, error) {
	if path == "" {
		if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
			return "", &model.CollaboratorError{Collaborator: "filesystem", Op: "create " + e.cfg.OutputDir, Err: err}
		}
		path = filepath.Join(e.cfg.OutputDir, export.DefaultFilename(doc.SetID, format, doc.Timestamp))
	}
	if err := export.Save(path, format, doc); err != nil {
		return "", err
	}
	e.logger.Info("results saved", zap.String("path", path), zap.String("format", format))
	return path, nil
}
