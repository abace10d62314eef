package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/questionnaire/pkg/export"
	"github.com/helmcode/questionnaire/pkg/model"
	"github.com/helmcode/questionnaire/pkg/runner"
	"github.com/helmcode/questionnaire/pkg/sqltemplate"
	"github.com/helmcode/questionnaire/pkg/warehouse"
)

const queryTimestampLayout = "20060102_150405"

// queryActions are the follow-ups applied to a populated query file.
type queryActions struct {
	edit    bool
	execute bool
	analyze bool
}

func queryFilename(now time.Time) string {
	return fmt.Sprintf("populated_query_%s.sql", now.Format(queryTimestampLayout))
}

// writeQuery renders the template from experiment responses and saves it
// under the output directory, returning the written path.
func (e *env) writeQuery(responses model.ResponseMap, now time.Time) (string, error) {
	query, err := sqltemplate.Render(e.template, sqltemplate.ParamsFromResponses(responses))
	if err != nil {
		return "", fmt.Errorf("failed to populate query: %w", err)
	}
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return "", &model.CollaboratorError{Collaborator: "filesystem", Op: "create " + e.cfg.OutputDir, Err: err}
	}
	path := filepath.Join(e.cfg.OutputDir, queryFilename(now))
	if err := export.AtomicWrite(path, []byte(query)); err != nil {
		return "", &model.CollaboratorError{Collaborator: "filesystem", Op: "save " + filepath.Base(path), Err: err}
	}
	e.logger.Info("populated query written", zap.String("path", path))
	return path, nil
}

// followUp runs the requested actions against a query file in order: edit,
// execute, analyze. The first failure stops the chain.
func (e *env) followUp(ctx context.Context, path string, actions queryActions) error {
	if actions.edit {
		editor := runner.Editor(e.cfg.Editor)
		if err := runner.Edit(ctx, editor, path, e.in, e.out, e.out); err != nil {
			return err
		}
		printSuccess(e.out, "Query updated: "+path)
	}

	if actions.execute {
		if err := e.executeQuery(ctx, path); err != nil {
			return err
		}
	}

	if actions.analyze {
		r := runner.New(e.cfg.Analysis.Command, e.logger)
		if !r.Configured() {
			return runner.ErrNoCommand
		}
		s := newSpinner(e.out, "Running analysis...")
		s.Start()
		output, err := r.Run(ctx, path)
		s.Stop()
		if err != nil {
			return err
		}
		printSuccess(e.out, "Analysis complete")
		fmt.Fprint(e.out, output)
	}
	return nil
}

func (e *env) executeQuery(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &model.CollaboratorError{Collaborator: "filesystem", Op: "read " + filepath.Base(path), Err: err}
	}

	s := newSpinner(e.out, "Executing query against the warehouse...")
	s.Start()
	client, err := warehouse.Open(ctx, e.cfg.Warehouse, e.logger)
	if err != nil {
		s.Stop()
		return err
	}
	defer client.Close()

	result, err := client.Execute(ctx, string(data))
	s.Stop()
	if err != nil {
		return err
	}

	printSuccess(e.out, "Query executed")
	return result.WriteTable(e.out)
}
