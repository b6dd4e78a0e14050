package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cauldron/internal/recipe"
	"github.com/roach88/cauldron/internal/workspace"
)

// NewHeadCommand creates the head command.
func NewHeadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "head",
		Short:         "Print the current version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, false, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				r, err := ws.Head()
				if err != nil {
					return f.Fail("failed to read head", err, nil)
				}
				return f.Emit(r, func(w io.Writer) { writeRecipe(w, r) })
			})
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <version-id>",
		Short:         "Print a version by id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, false, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				r, err := ws.Show(args[0])
				if err != nil {
					return f.Fail("failed to read version", err, nil)
				}
				return f.Emit(r, func(w io.Writer) { writeRecipe(w, r) })
			})
		},
	}
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <version-id>",
		Short: "Move head to an existing version",
		Long: `Move head to an existing version. Modifications applied afterwards
start a new branch from it; no version is ever removed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, true, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				if err := ws.Checkout(args[0]); err != nil {
					return f.Fail("failed to checkout", err, nil)
				}
				return f.Emit(map[string]string{"head": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Head is now %s\n", args[0])
				})
			})
		},
	}
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "log",
		Short:         "List versions from head back to the root",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, false, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				lineage, err := ws.Log()
				if err != nil {
					return f.Fail("failed to read log", err, nil)
				}
				return f.Emit(lineage, func(w io.Writer) { writeLog(w, lineage) })
			})
		},
	}
}

// writeLog prints lineage newest first, marking head.
func writeLog(w io.Writer, lineage []recipe.Recipe) {
	for i := len(lineage) - 1; i >= 0; i-- {
		marker := " "
		if i == len(lineage)-1 {
			marker = "*"
		}
		r := lineage[i]
		fmt.Fprintf(w, "%s %s  %d ingredient(s), %d step(s)\n",
			marker, r.Tiny(), len(r.Ingredients), len(r.Instructions))
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Summarize the workspace",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, false, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				st := ws.Stats()
				return f.Emit(st, func(w io.Writer) {
					head := st.Head
					if head == "" {
						head = "(none)"
					}
					fmt.Fprintf(w, "Head:     %s\n", head)
					if st.Head != "" {
						fmt.Fprintf(w, "Depth:    %d\n", st.Depth)
					}
					fmt.Fprintf(w, "Versions: %d (%d branch tip(s))\n", st.Versions, st.Branches)
					fmt.Fprintf(w, "Pending:  %d\n", st.Pending)
					if st.Next != "" {
						fmt.Fprintf(w, "Next:     %s\n", st.Next)
					}
					fmt.Fprintf(w, "Staged:   %d document(s), %d url(s)\n", st.StagedDocs, st.StagedURLs)
				})
			})
		},
	}
}
