package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/questionnaire/pkg/catalog"
	"github.com/helmcode/questionnaire/pkg/config"
	"github.com/helmcode/questionnaire/pkg/formatter"
	"github.com/helmcode/questionnaire/pkg/logging"
	"github.com/helmcode/questionnaire/pkg/sqltemplate"
)

var (
	configPath string
	logLevel   string
)

// RegisterGlobalFlags adds the flags every subcommand reads.
func RegisterGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
}

// env is what a subcommand needs once configuration is resolved.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	catalog  *catalog.Catalog
	template string
	in       io.Reader
	out      io.Writer
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		logger: logger,
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
	}

	// Metric options come from the query template; a missing template
	// falls back to the built-in metric list.
	var metrics []string
	tmpl, err := sqltemplate.Load(cfg.SQLTemplate)
	if err != nil {
		printWarning(e.out, fmt.Sprintf("%v. Using default metrics.", err))
		tmpl = sqltemplate.DefaultTemplate
	} else {
		metrics = sqltemplate.ExtractMetrics(tmpl)
	}
	e.template = tmpl
	e.catalog = catalog.New(metrics)

	for _, path := range cfg.CustomSets {
		set, err := catalog.LoadFile(path)
		if err == nil {
			err = e.catalog.Register(set)
		}
		if err != nil {
			printError(e.out, fmt.Sprintf("Skipping custom set %s: %v", path, err))
			logger.Warn("custom set not loaded", zap.String("path", path), zap.Error(err))
		}
	}
	return e, nil
}

// outputFormat applies the -o flag over the configured display format.
func outputFormat(configured, flag string) (string, error) {
	format := configured
	if flag != "" {
		format = flag
	}
	if !formatter.ValidFormat(format) {
		return "", fmt.Errorf("invalid output format %q, must be one of: %s", format, strings.Join(formatter.Formats, ", "))
	}
	return format, nil
}

func setIDs(c *catalog.Catalog) string {
	sets := c.Sets()
	ids := make([]string, len(sets))
	for i, s := range sets {
		ids[i] = s.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}

func newSpinner(w io.Writer, suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	return s
}

func printHeader(w io.Writer, title string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w)
	cyan.Fprintln(w, "📋 "+title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func printSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(w, "✓ %s\n", msg)
}

func printError(w io.Writer, msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "✗ %s\n", msg)
}

func printWarning(w io.Writer, msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(w, "⚠ %s\n", msg)
}
