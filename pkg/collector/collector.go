// Package collector drives a user through a question set one prompt at a time.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/helmcode/questionnaire/pkg/model"
	"go.uber.org/zap"
)

// Gate checks an answer against the answers accepted so far. An invalid
// outcome blocks the answer; warnings are shown and do not block.
type Gate interface {
	Check(set model.QuestionSet, responses model.ResponseMap, id string, answer model.Answer) model.ValidationOutcome
}

// Collector reads answers line by line from an input stream.
type Collector struct {
	in     *lineReader
	out    io.Writer
	gate   Gate
	logger *zap.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithGate installs the cross-field gate.
func WithGate(g Gate) Option {
	return func(c *Collector) { c.gate = g }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// New returns a Collector reading from in and prompting on out.
func New(in io.Reader, out io.Writer, opts ...Option) *Collector {
	c := &Collector{
		in:     &lineReader{src: in},
		out:    out,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect asks every question of set in order. Optional questions answered
// with an empty value are left out of the result. Cancelling ctx or closing
// the input returns model.ErrCancelled and no responses.
func (c *Collector) Collect(ctx context.Context, set model.QuestionSet) (model.ResponseMap, error) {
	responses := model.NewResponseMap()
	total := len(set.Questions)

	color.New(color.FgCyan, color.Bold).Fprintf(c.out, "\nStarting %s questionnaire...\n", set.Name)
	fmt.Fprintln(c.out, strings.Repeat("=", 60))

	for i, q := range set.Questions {
		fmt.Fprintf(c.out, "\nQuestion %d of %d\n", i+1, total)

		answer, err := c.ask(ctx, set, responses, q)
		if err != nil {
			return model.ResponseMap{}, err
		}
		if !answer.IsEmpty() {
			responses = responses.With(q.ID, answer)
		}

		completed := i + 1
		fmt.Fprintf(c.out, "\nProgress: %s\n", Progress(completed, total))
	}

	fmt.Fprintln(c.out, "\n"+strings.Repeat("=", 60))
	color.New(color.FgGreen, color.Bold).Fprintln(c.out, "           QUESTIONNAIRE COMPLETED!")
	fmt.Fprintln(c.out, strings.Repeat("=", 60))

	c.logger.Debug("questionnaire completed",
		zap.String("set", set.ID),
		zap.Int("answered", responses.Len()),
		zap.Int("questions", total))
	return responses, nil
}

// Progress formats the completion line shown after each accepted answer.
func Progress(completed, total int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	return fmt.Sprintf("%d/%d questions completed (%.1f%%)", completed, total, pct)
}

func (c *Collector) ask(ctx context.Context, set model.QuestionSet, responses model.ResponseMap, q model.QuestionSpec) (model.Answer, error) {
	for {
		c.printQuestion(q)

		line, err := c.in.next(ctx)
		if err != nil {
			return model.Answer{}, err
		}

		answer, err := Parse(q, line)
		if err != nil {
			c.logger.Debug("answer rejected", zap.String("question", q.ID), zap.Error(err))
			printError(c.out, err.Error())
			continue
		}

		if c.gate == nil {
			return answer, nil
		}
		outcome := c.gate.Check(set, responses, q.ID, answer)
		printWarnings(c.out, outcome.Warnings)
		if !outcome.Valid {
			err := &model.InputError{Kind: model.ErrConsistency, Message: strings.Join(outcome.Errors, "; ")}
			c.logger.Debug("answer rejected", zap.String("question", q.ID), zap.Error(err))
			red := color.New(color.FgRed, color.Bold)
			red.Fprintln(c.out, "\n❌ Validation Failed:")
			for _, e := range outcome.Errors {
				fmt.Fprintf(c.out, "   • %s\n", e)
			}
			fmt.Fprintln(c.out, "\nPlease correct this answer to continue.")
			continue
		}
		return answer, nil
	}
}

func (c *Collector) printQuestion(q model.QuestionSpec) {
	bold := color.New(color.Bold)
	bold.Fprintf(c.out, "\n%s\n", q.Prompt)
	if q.Help != "" {
		fmt.Fprintf(c.out, "%s\n", color.HiBlackString(q.Help))
	}
	if q.Required {
		fmt.Fprintln(c.out, "(Required)")
	} else {
		fmt.Fprintln(c.out, "(Optional - press Enter to skip)")
	}

	switch q.Type {
	case model.SingleChoice:
		printOptions(c.out, q.Options)
		fmt.Fprintf(c.out, "\nEnter your choice (1-%d): ", len(q.Options))
	case model.MultiChoice:
		printOptions(c.out, q.Options)
		fmt.Fprint(c.out, "\nEnter the numbers of your choices separated by commas (e.g., 1,3,5): ")
	case model.Numeric:
		fmt.Fprint(c.out, "Enter numeric value: ")
	case model.Rating:
		fmt.Fprintf(c.out, "Your rating (1-%d): ", q.Scale)
	default:
		fmt.Fprint(c.out, "Your response: ")
	}
}

// Choose lists options and returns the zero-based index picked.
func (c *Collector) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("no options to choose from")
	}
	for {
		printOptions(c.out, options)
		fmt.Fprintf(c.out, "\n%s (1-%d): ", prompt, len(options))

		line, err := c.in.next(ctx)
		if err != nil {
			return 0, err
		}
		i, err := parseIndex(strings.TrimSpace(line), len(options))
		if err != nil {
			printError(c.out, err.Error())
			continue
		}
		return i - 1, nil
	}
}

// SelectSet asks the user to pick one of sets.
func (c *Collector) SelectSet(ctx context.Context, sets []model.QuestionSet) (model.QuestionSet, error) {
	labels := make([]string, len(sets))
	for i, s := range sets {
		labels[i] = fmt.Sprintf("%s - %s", s.Name, s.Description)
	}
	fmt.Fprintln(c.out, "Available Question Sets:")
	fmt.Fprintln(c.out, strings.Repeat("-", 40))

	i, err := c.Choose(ctx, "Select a question set", labels)
	if err != nil {
		return model.QuestionSet{}, err
	}
	set := sets[i]
	fmt.Fprintf(c.out, "\nSelected: %s\n", set.Name)
	fmt.Fprintf(c.out, "Description: %s\n", set.Description)
	fmt.Fprintf(c.out, "Number of questions: %d\n", len(set.Questions))
	c.logger.Info("question set selected", zap.String("set", set.ID))
	return set, nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (c *Collector) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(c.out, "\n%s (y/n): ", prompt)
	line, err := c.in.next(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Prompt reads one trimmed line of free text.
func (c *Collector) Prompt(ctx context.Context, prompt string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", prompt)
	line, err := c.in.next(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printOptions(w io.Writer, options []string) {
	for i, opt := range options {
		fmt.Fprintf(w, "  %d. %s\n", i+1, opt)
	}
}

func printError(w io.Writer, msg string) {
	color.New(color.FgRed).Fprintf(w, "✗ %s\n", msg)
}

func printWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintln(w, "\n⚠️  Warnings:")
	for _, warning := range warnings {
		fmt.Fprintf(w, "   • %s\n", warning)
	}
}

// lineReader feeds lines from a blocking reader to callers that can give up
// when their context is cancelled. It reads one byte at a time and stops at
// the newline, so between prompts nothing is buffered and nothing is reading:
// the input can be handed to a child process such as an editor.
type lineReader struct {
	src io.Reader
	// pending holds a read abandoned by a cancelled caller; the next call
	// collects it instead of starting a second reader.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

func (r *lineReader) next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrCancelled, err)
	}
	result := r.pending
	if result == nil {
		result = make(chan lineResult, 1)
		go func() {
			line, err := readLine(r.src)
			result <- lineResult{line, err}
		}()
	}

	select {
	case <-ctx.Done():
		r.pending = result
		return "", fmt.Errorf("%w: %v", model.ErrCancelled, ctx.Err())
	case res := <-result:
		r.pending = nil
		if errors.Is(res.err, io.EOF) {
			return "", fmt.Errorf("%w: input closed", model.ErrCancelled)
		}
		if res.err != nil {
			return "", fmt.Errorf("%w: %v", model.ErrCancelled, res.err)
		}
		return res.line, nil
	}
}

// readLine reads up to and including the next newline. A final line without
// a newline is returned before io.EOF.
func readLine(src io.Reader) (string, error) {
	var line []byte
	b := make([]byte, 1)
	for {
		n, err := src.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				return strings.TrimRight(string(line), "\r"), nil
			}
			line = append(line, b[0])
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return strings.TrimRight(string(line), "\r"), nil
			}
			return "", err
		}
	}
}
