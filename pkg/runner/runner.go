// Package runner starts the external programs a run hands off to: the
// analysis command that consumes a populated query file, and the user's
// editor.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/helmcode/questionnaire/pkg/model"
)

// ErrNoCommand means no analysis command was configured.
var ErrNoCommand = errors.New("no analysis command configured (set analysis.command or QUESTIONNAIRE_ANALYSIS_COMMAND)")

// Runner runs a fixed command line with extra arguments appended.
type Runner struct {
	command []string
	logger  *zap.Logger
}

// New splits command on whitespace. An empty command yields a Runner whose
// Run returns ErrNoCommand.
func New(command string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{command: strings.Fields(command), logger: logger}
}

// Configured reports whether a command was given.
func (r *Runner) Configured() bool {
	return len(r.command) > 0
}

// Run executes the command with args appended and returns its combined
// output. A non-zero exit is a CollaboratorError carrying the output.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	if !r.Configured() {
		return "", ErrNoCommand
	}
	argv := append(append([]string{}, r.command[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.command[0], argv...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	r.logger.Debug("running analysis command", zap.String("command", r.command[0]), zap.Strings("args", argv))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		r.logger.Warn("analysis command failed", zap.Error(err))
		return out.String(), &model.CollaboratorError{
			Collaborator: "process",
			Op:           r.command[0],
			Err:          fmt.Errorf("%w: %s", err, strings.TrimSpace(out.String())),
		}
	}
	return out.String(), nil
}

// Editor resolves the editor command: override first, then $VISUAL, then
// $EDITOR, then vi.
func Editor(override string) string {
	for _, candidate := range []string{override, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

// Edit opens path in editor attached to the given terminal streams and
// waits for it to exit.
func Edit(ctx context.Context, editor, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return ErrNoCommand
	}
	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return &model.CollaboratorError{Collaborator: "editor", Op: fields[0], Err: err}
	}
	return nil
}
