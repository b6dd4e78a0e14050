package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cauldron/internal/workspace"
)

// InitResult is the payload of the init command.
type InitResult struct {
	Backend string `json:"backend"`
	DataDir string `json:"data_dir"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty workspace",
		Long: `Write empty state for the version graph, modification queue and
staging buffer using the backend named in the config file.

Refuses to run when a version graph has already been saved.

Example:
  cauldron init
  cauldron --config ./kitchen.yaml init`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}

	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	b, err := workspace.OpenBackend(cfg)
	if err != nil {
		return f.Fail("failed to open backend", err, nil)
	}
	ws, err := workspace.Init(commandContext(cmd), b, workspace.WithSchemes(cfg.URLSchemes...))
	if err != nil {
		b.Close()
		return f.Fail("failed to initialize workspace", err, nil)
	}
	defer ws.Close()

	result := InitResult{Backend: cfg.Backend, DataDir: cfg.DataDir}
	return f.Emit(result, func(w io.Writer) {
		fmt.Fprintf(w, "Initialized %s workspace in %s\n", result.Backend, result.DataDir)
	})
}
