package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/date"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
)

var addCmd = &cobra.Command{
	Use:     "add [TITLE]",
	Aliases: []string{"create"},
	Short:   "Add a task",
	Long: `Adds a task with a title and a deadline.

Title can be provided as a positional argument or via --title flag.
The deadline accepts "YYYY-MM-DD HH:MM", "YYYY-MM-DD", RFC 3339, or a
relative offset such as +2h, +3d or +1w. Without --deadline the
configured default_deadline is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	addCmd.Flags().String("description", "", "task description (markdown)")
	addCmd.Flags().String("deadline", "", "deadline (e.g. \"2025-03-07 17:00\" or +2h)")
	addCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(addCmd)
}

// normalizeTaskFlags maps flag aliases onto their canonical names.
func normalizeTaskFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "desc", "body":
		name = "description"
	case "due":
		name = "deadline"
	}
	return pflag.NormalizedName(name)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, err := resolveAddTitle(cmd, args)
	if err != nil {
		return err
	}

	tr, err := openTracker()
	if err != nil {
		return err
	}
	defer tr.Close()

	description, _ := cmd.Flags().GetString("description")
	deadline, _ := cmd.Flags().GetString("deadline")
	if deadline == "" {
		deadline = "+" + tr.cfg.DefaultDeadline
	}

	t, err := tr.lc.CreateWithDescription(title, description, deadline)
	if err != nil {
		return err
	}

	row, err := tr.row(t.ID)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, row)
	}

	output.Messagef(os.Stdout, "Added task #%d: %s", t.ID, t.Title)
	output.Messagef(os.Stdout, "  Deadline: %s (%s)", date.Format(t.Deadline, tr.loc), row.Label)
	return nil
}

// resolveAddTitle returns the task title from either the positional arg or --title flag.
func resolveAddTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", clierr.New(clierr.InvalidTitle, "title is required: provide it as an argument or with --title")
	}
}
