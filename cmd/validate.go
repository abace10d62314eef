package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/questionnaire/pkg/catalog"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a custom question set file",
		Long: `Check every question in a custom question set file and report the problems found.

Examples:
  questionnaire validate onboarding.yaml
  questionnaire validate sets/retro.json`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	def, err := catalog.ReadFile(args[0])
	if err != nil {
		return err
	}

	printHeader(e.out, fmt.Sprintf("Validating %s", args[0]))
	invalid := 0
	for i, err := range def.Check() {
		q := def.Questions[i]
		label := fmt.Sprintf("#%d %s", i+1, q.ID)
		if err != nil {
			invalid++
			printError(e.out, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		printSuccess(e.out, label)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d questions are invalid", invalid, len(def.Questions))
	}

	set, err := def.Build()
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out)
	printSuccess(e.out, fmt.Sprintf("%s is valid (%d questions, kind %s)", set.ID, len(set.Questions), set.Kind))
	return nil
}
