package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cauldron/internal/queue"
	"github.com/roach88/cauldron/internal/recipe"
	"github.com/roach88/cauldron/internal/workspace"
)

// workspaceFunc is the body of a command operating on an open workspace.
type workspaceFunc func(ctx context.Context, ws *workspace.Workspace, f *OutputFormatter) error

// withWorkspace opens the configured workspace and runs fn against it.
// When persist is set, state is saved after fn returns, even if fn failed:
// a failed apply has still dropped its modification.
func withWorkspace(cmd *cobra.Command, opts *RootOptions, persist bool, fn workspaceFunc) error {
	f := newFormatter(cmd, opts)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	b, err := workspace.OpenBackend(cfg)
	if err != nil {
		return f.Fail("failed to open backend", err, nil)
	}
	ws, err := workspace.Open(ctx, b, workspace.WithSchemes(cfg.URLSchemes...))
	if err != nil {
		b.Close()
		return f.Fail("failed to open workspace", err, nil)
	}
	defer ws.Close()

	runErr := fn(ctx, ws, f)
	if persist {
		if err := ws.Save(ctx); err != nil {
			return f.Fail("failed to save workspace", err, nil)
		}
	}
	return runErr
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeRecipe(w io.Writer, r recipe.Recipe) {
	fmt.Fprintf(w, "%s\n", r.Tiny())
	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "Ingredients:")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(w, "  - %s\n", ing)
		}
	}
	if len(r.Instructions) > 0 {
		fmt.Fprintln(w, "Instructions:")
		for i, step := range r.Instructions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	if len(r.Sources) > 0 {
		fmt.Fprintln(w, "Sources:")
		for _, src := range r.Sources {
			fmt.Fprintf(w, "  - %s\n", src)
		}
	}
}

func writeResult(w io.Writer, res queue.Result) {
	switch res.Status {
	case queue.StatusApplied:
		note := ""
		if !res.Changed {
			note = " (no content change)"
		}
		fmt.Fprintf(w, "applied %s -> %s%s\n", res.Modification.ID, res.VersionID, note)
	case queue.StatusEmpty:
		fmt.Fprintln(w, "queue is empty")
	default:
		fmt.Fprintf(w, "%s %s\n", res.Status, res.Modification.ID)
	}
}
