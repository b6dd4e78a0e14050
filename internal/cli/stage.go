package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cauldron/internal/compiler"
	"github.com/roach88/cauldron/internal/recipe"
	"github.com/roach88/cauldron/internal/workspace"
)

// StagedList is the payload of stage list.
type StagedList struct {
	Documents []recipe.Recipe `json:"documents"`
	URLs      []string        `json:"urls"`
}

// NewStageCommand creates the stage command group.
func NewStageCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage the staging buffer",
		Long: `Stage recipe documents and source URLs before promotion.

Both stacks are last-in first-out: promote takes the most recently
staged document.`,
	}

	cmd.AddCommand(newStageURLCommand(rootOpts))
	cmd.AddCommand(newStageRecipeCommand(rootOpts))
	cmd.AddCommand(newStageListCommand(rootOpts))

	return cmd
}

func newStageURLCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url <url>",
		Short: "Stage a source URL",
		Long: `Push a source URL onto the staging buffer.

The URL must start with one of the configured url_schemes and must not
already be staged.

Example:
  cauldron stage url https://example.com/banana-bread`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, true, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				if err := ws.StageURL(args[0]); err != nil {
					return f.Fail("failed to stage url", err, nil)
				}
				return f.Emit(map[string]string{"url": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Staged %s\n", args[0])
				})
			})
		},
	}
}

func newStageRecipeCommand(opts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "recipe <file>",
		Short: "Compile and stage recipes from a CUE or YAML file",
		Long: `Compile every recipe in a .cue, .yaml or .yml file and stage them in
declaration order, so the last recipe in the file is promoted first.

Recipes with lint findings are refused unless --force is given.

Example:
  cauldron stage recipe ./banana-bread.cue
  cauldron stage recipe ./imports.yaml --force`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)
			recipes, err := compiler.LoadFile(args[0])
			if err != nil {
				return f.Fail(fmt.Sprintf("failed to compile %s", args[0]), err, nil)
			}
			if !force {
				var findings []compiler.ValidationError
				for _, r := range recipes {
					findings = append(findings, lint(r)...)
				}
				if len(findings) > 0 {
					err := recipe.NewValidationError("%d lint finding(s) in %s", len(findings), args[0])
					return f.Fail("refusing to stage", err, findings)
				}
			}

			return withWorkspace(cmd, opts, true, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				staged := make([]recipe.Recipe, 0, len(recipes))
				for _, r := range recipes {
					if err := ws.StageDocument(r); err != nil {
						return f.Fail("failed to stage recipe", err, nil)
					}
					staged = append(staged, r)
				}
				return f.Emit(staged, func(w io.Writer) {
					for _, r := range staged {
						fmt.Fprintf(w, "Staged %s\n", r.Tiny())
					}
				})
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "stage recipes even with lint findings")

	return cmd
}

func newStageListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List staged documents and URLs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, false, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				docs, urls := ws.Staged()
				list := StagedList{Documents: docs, URLs: urls}
				if list.Documents == nil {
					list.Documents = []recipe.Recipe{}
				}
				if list.URLs == nil {
					list.URLs = []string{}
				}
				return f.Emit(list, func(w io.Writer) { writeStaged(w, list) })
			})
		},
	}
}

// writeStaged lists both stacks top first.
func writeStaged(w io.Writer, list StagedList) {
	fmt.Fprintf(w, "Documents (%d):\n", len(list.Documents))
	for i := len(list.Documents) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "  %s\n", list.Documents[i].Tiny())
	}
	fmt.Fprintf(w, "URLs (%d):\n", len(list.URLs))
	for i := len(list.URLs) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "  %s\n", list.URLs[i])
	}
}

// NewPromoteCommand creates the promote command.
func NewPromoteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Commit the most recently staged document",
		Long: `Pop the top staged document into the version graph.

On an empty graph it becomes the root. Otherwise it is committed as a
child of head and head moves to it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, true, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				id, err := ws.Promote()
				if err != nil {
					return f.Fail("failed to promote", err, nil)
				}
				return f.Emit(map[string]string{"version": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Promoted %s\n", id)
				})
			})
		},
	}

	return cmd
}
