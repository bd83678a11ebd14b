package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/authoring-labs/debugtags/internal/api"
	"github.com/authoring-labs/debugtags/internal/l10n"
	"github.com/authoring-labs/debugtags/internal/prompt"
	"github.com/authoring-labs/debugtags/internal/tags"
	"github.com/spf13/cobra"
)

var (
	listUnused  bool
	listJSON    bool
	listFilters []string
	pruneYes    bool
)

func init() {
	tagsListCmd.Flags().BoolVar(&listUnused, "unused", false, "Show unused tags only")
	tagsListCmd.Flags().BoolVar(&listJSON, "json", false, "Print rows as JSON")
	tagsListCmd.Flags().StringArrayVar(&listFilters, "filter", nil, "Tag query option as key=value (repeatable), e.g. title=intro")
	tagsPruneCmd.Flags().BoolVarP(&pruneYes, "yes", "y", false, "Delete without asking for confirmation")

	tagsCmd.AddCommand(tagsListCmd, tagsRenameCmd, tagsTransferCmd, tagsDeleteCmd, tagsPruneCmd)
	rootCmd.AddCommand(tagsCmd)
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Inspect and maintain tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags with the courses and assets that use them",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

var tagsRenameCmd = &cobra.Command{
	Use:   "rename <id> [title]",
	Short: "Rename a tag",
	Long: `Rename the tag with the given id. Without a title the new name is asked for,
with the current title as the default.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagAction(cmd, args[1:], false, func(ctx context.Context, v *tags.View) error {
			return v.Rename(ctx, args[0])
		})
	},
}

var tagsTransferCmd = &cobra.Command{
	Use:   "transfer <id> [dest-id]",
	Short: "Move everything tagged with one tag onto another",
	Long: `Reassign the courses and assets tagged with <id> to the destination tag.
The source tag is kept. Without a destination it is chosen from a list.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagAction(cmd, args[1:], false, func(ctx context.Context, v *tags.View) error {
			return v.Transfer(ctx, args[0])
		})
	},
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagAction(cmd, nil, false, func(ctx context.Context, v *tags.View) error {
			return v.Delete(ctx, args[0])
		})
	},
}

var tagsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete every tag no course or asset uses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagAction(cmd, nil, pruneYes, func(ctx context.Context, v *tags.View) error {
			return v.DeleteUnused(ctx)
		})
	},
}

func runTagsList(cmd *cobra.Command, args []string) error {
	q, err := api.ParseTagQuery(listFilters)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	notifier := prompt.NewNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr())
	view := tags.NewView(client, nil, notifier,
		tags.WithLocale(settings.Locale),
		tags.WithLogger(logger),
	)
	if err := view.Fetch(cmd.Context(), q); err != nil {
		return fmt.Errorf("fetching tags: %w", err)
	}

	snap, _ := view.State()
	rows := snap.Rows
	if listUnused {
		rows = snap.UnusedRows()
	}

	if listJSON {
		if rows == nil {
			rows = []tags.Row{}
		}
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling rows: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printRows(cmd.OutOrStdout(), rows)
	fmt.Fprintln(cmd.OutOrStdout(), view.Printer().Sprintf(l10n.UnusedCount, snap.UnusedCount))
	return nil
}

func printRows(out io.Writer, rows []tags.Row) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOURSES\tASSETS\tUNUSED")
	for _, r := range rows {
		unused := ""
		if r.Unused {
			unused = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID(), r.Title(), strconv.Itoa(len(r.Courses)), strconv.Itoa(len(r.Assets)), unused)
	}
	w.Flush()
}

// runTagAction loads the current tags and runs action with a terminal dialog
// answered from answers first. Cancelling is not an error; a failure the
// operator has already been alerted to exits non-zero without repeating it.
func runTagAction(cmd *cobra.Command, answers []string, yes bool, action func(context.Context, *tags.View) error) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	dialog := prompt.NewDialog(cmd.InOrStdin(), cmd.ErrOrStderr(),
		prompt.WithAnswers(answers...),
		prompt.WithAssumeYes(yes),
	)
	notifier := prompt.NewNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr())
	view := tags.NewView(client, dialog, notifier,
		tags.WithLocale(settings.Locale),
		tags.WithLogger(logger),
	)

	ctx := cmd.Context()
	if err := view.Fetch(ctx, nil); err != nil {
		return fmt.Errorf("fetching tags: %w", err)
	}

	err = action(ctx, view)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tags.ErrCancelled):
		fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
		return nil
	case notifier.Alerts() > 0:
		return fmt.Errorf("%w: %w", errReported, err)
	default:
		return err
	}
}
