package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cauldron/internal/queue"
	"github.com/roach88/cauldron/internal/recipe"
	"github.com/roach88/cauldron/internal/workspace"
)

// EnqueueOptions holds flags for the enqueue command. Exactly one
// operation flag must be set.
type EnqueueOptions struct {
	*RootOptions
	Priority          int
	AddIngredient     string // name:quantity[:unit]
	RemoveIngredient  string
	UpdateIngredient  string
	Quantity          float64
	Unit              string
	AddInstruction    string
	RemoveInstruction string
	AddTag            string
	RemoveTag         string
}

var operationFlags = []string{
	"add-ingredient",
	"remove-ingredient",
	"update-ingredient",
	"add-instruction",
	"remove-instruction",
	"add-tag",
	"remove-tag",
}

// NewEnqueueCommand creates the enqueue command.
func NewEnqueueCommand(rootOpts *RootOptions) *cobra.Command {
	return newEnqueueCommand(&EnqueueOptions{RootOptions: rootOpts})
}

func newEnqueueCommand(opts *EnqueueOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Queue a modification",
		Long: `Queue one edit operation with a priority. Lower priorities are
applied first; equal priorities are applied in the order queued.

Example:
  cauldron enqueue --priority 1 --add-ingredient banana:3
  cauldron enqueue --priority 2 --add-ingredient flour:2:cups
  cauldron enqueue --update-ingredient flour --quantity 2.5
  cauldron enqueue --priority 5 --remove-tag dessert`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opts.operation(cmd)
			if err != nil {
				return newFormatter(cmd, opts.RootOptions).Fail("invalid operation", err, nil)
			}
			return withWorkspace(cmd, opts.RootOptions, true, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				m, err := ws.Enqueue(opts.Priority, op)
				if err != nil {
					return f.Fail("failed to enqueue", err, nil)
				}
				return f.Emit(m, func(w io.Writer) {
					fmt.Fprintf(w, "Queued %s\n", m)
				})
			})
		},
	}

	cmd.Flags().IntVarP(&opts.Priority, "priority", "p", 0, "priority (lower runs first)")
	cmd.Flags().StringVar(&opts.AddIngredient, "add-ingredient", "", "add an ingredient (name:quantity[:unit])")
	cmd.Flags().StringVar(&opts.RemoveIngredient, "remove-ingredient", "", "remove every ingredient with this name")
	cmd.Flags().StringVar(&opts.UpdateIngredient, "update-ingredient", "", "update every ingredient with this name")
	cmd.Flags().Float64Var(&opts.Quantity, "quantity", 0, "new quantity for --update-ingredient")
	cmd.Flags().StringVar(&opts.Unit, "unit", "", "new unit for --update-ingredient")
	cmd.Flags().StringVar(&opts.AddInstruction, "add-instruction", "", "append an instruction")
	cmd.Flags().StringVar(&opts.RemoveInstruction, "remove-instruction", "", "remove the first matching instruction")
	cmd.Flags().StringVar(&opts.AddTag, "add-tag", "", "append a tag")
	cmd.Flags().StringVar(&opts.RemoveTag, "remove-tag", "", "remove the first matching tag")

	return cmd
}

// operation builds the edit operation from the one operation flag set.
func (o *EnqueueOptions) operation(cmd *cobra.Command) (recipe.EditOperation, error) {
	var set []string
	for _, name := range operationFlags {
		if cmd.Flags().Changed(name) {
			set = append(set, "--"+name)
		}
	}
	if len(set) != 1 {
		return recipe.EditOperation{}, recipe.NewValidationError(
			"exactly one operation flag is required, got %d %v", len(set), set)
	}
	updating := cmd.Flags().Changed("update-ingredient")
	if !updating && (cmd.Flags().Changed("quantity") || cmd.Flags().Changed("unit")) {
		return recipe.EditOperation{}, recipe.NewValidationError("--quantity and --unit require --update-ingredient")
	}

	var op recipe.EditOperation
	switch set[0] {
	case "--add-ingredient":
		ing, err := parseIngredient(o.AddIngredient)
		if err != nil {
			return recipe.EditOperation{}, err
		}
		op = recipe.AddIngredient(ing)
	case "--remove-ingredient":
		op = recipe.RemoveIngredient(o.RemoveIngredient)
	case "--update-ingredient":
		var qty *float64
		var unit *string
		if cmd.Flags().Changed("quantity") {
			qty = &o.Quantity
		}
		if cmd.Flags().Changed("unit") {
			unit = &o.Unit
		}
		op = recipe.UpdateIngredient(o.UpdateIngredient, qty, unit)
	case "--add-instruction":
		op = recipe.AddInstruction(o.AddInstruction)
	case "--remove-instruction":
		op = recipe.RemoveInstruction(o.RemoveInstruction)
	case "--add-tag":
		op = recipe.AddTag(o.AddTag)
	case "--remove-tag":
		op = recipe.RemoveTag(o.RemoveTag)
	}
	if err := op.Validate(); err != nil {
		return recipe.EditOperation{}, err
	}
	return op, nil
}

// parseIngredient parses "name:quantity[:unit]".
func parseIngredient(s string) (recipe.Ingredient, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return recipe.Ingredient{}, recipe.NewValidationError("ingredient %q: want name:quantity[:unit]", s)
	}
	qty, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return recipe.Ingredient{}, recipe.NewValidationError("ingredient %q: bad quantity %q", s, parts[1])
	}
	unit := ""
	if len(parts) == 3 {
		unit = strings.TrimSpace(parts[2])
	}
	return recipe.NewIngredient(strings.TrimSpace(parts[0]), qty, unit), nil
}

// NewPendingCommand creates the pending command.
func NewPendingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "pending",
		Short:         "List queued modifications in the order they will apply",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, false, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				pending := ws.Pending()
				if pending == nil {
					pending = []recipe.Modification{}
				}
				return f.Emit(pending, func(w io.Writer) {
					if len(pending) == 0 {
						fmt.Fprintln(w, "No pending modifications.")
						return
					}
					for _, m := range pending {
						fmt.Fprintln(w, m)
					}
				})
			})
		},
	}
}

// NewReRankCommand creates the rerank command.
func NewReRankCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rerank <modification-id> <priority>",
		Short: "Change the priority of a queued modification",
		Long: `Change the priority of a queued modification. Its position among
modifications of equal priority stays the order it was first queued in.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := strconv.Atoi(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid priority %q", args[1]))
			}
			return withWorkspace(cmd, rootOpts, true, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				if err := ws.ReRank(args[0], priority); err != nil {
					return f.Fail("failed to rerank", err, nil)
				}
				data := map[string]any{"modification": args[0], "priority": priority}
				return f.Emit(data, func(w io.Writer) {
					fmt.Fprintf(w, "Re-ranked %s to %d\n", args[0], priority)
				})
			})
		},
	}
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the next queued modification to head",
		Long: `Apply the next queued modification to head, committing a new version.

A modification that cannot be applied (for example removing an absent
instruction) is dropped and reported. With --all, modifications are
applied until the queue is empty or one fails.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, true, func(_ context.Context, ws *workspace.Workspace, f *OutputFormatter) error {
				var results []queue.Result
				var err error
				if all {
					results, err = ws.ApplyAll()
				} else {
					var res queue.Result
					res, err = ws.ApplyNext()
					results = []queue.Result{res}
				}
				if results == nil {
					results = []queue.Result{}
				}
				if err != nil {
					return f.Fail("failed to apply", err, results)
				}
				return f.Emit(results, func(w io.Writer) {
					if len(results) == 0 {
						fmt.Fprintln(w, "queue is empty")
					}
					for _, res := range results {
						writeResult(w, res)
					}
				})
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "apply until the queue is empty")

	return cmd
}
