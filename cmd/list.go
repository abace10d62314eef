package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List question set categories and sets",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	bold := color.New(color.Bold)

	printHeader(e.out, "Question Categories")
	for _, cat := range e.catalog.Categories() {
		bold.Fprintf(e.out, "\n%s", cat.Name)
		fmt.Fprintf(e.out, " (%s)\n", cat.ID)
		fmt.Fprintf(e.out, "  %s\n", cat.Description)
		for _, id := range cat.SetIDs {
			fmt.Fprintf(e.out, "  • %s\n", id)
		}
	}

	printHeader(e.out, "Question Sets")
	for _, set := range e.catalog.Sets() {
		bold.Fprintf(e.out, "\n%s", set.ID)
		fmt.Fprintf(e.out, " - %s (%d questions)\n", set.Name, len(set.Questions))
		fmt.Fprintf(e.out, "  %s\n", set.Description)
	}
	fmt.Fprintln(e.out)
	return nil
}
