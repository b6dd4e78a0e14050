package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cauldron/internal/compiler"
	"github.com/roach88/cauldron/internal/recipe"
)

// FileValidation holds the lint findings for one recipe file.
type FileValidation struct {
	Path    string                     `json:"path"`
	Recipes []string                   `json:"recipes"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check recipe files without staging them",
		Long: `Compile CUE or YAML recipe files and report lint findings.

Nothing is written to the workspace.

Exit codes:
  0 - All recipes valid
  1 - One or more lint findings
  2 - A file could not be compiled`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		recipes, err := compiler.LoadFile(path)
		if err != nil {
			return formatter.Fail(fmt.Sprintf("failed to compile %s", path), err, nil)
		}
		formatter.VerboseLog("compiled %d recipe(s) from %s", len(recipes), path)

		fv := FileValidation{Path: path, Recipes: make([]string, 0, len(recipes))}
		for _, r := range recipes {
			fv.Recipes = append(fv.Recipes, r.Name)
			fv.Errors = append(fv.Errors, lint(r)...)
		}
		if len(fv.Errors) > 0 {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if err := formatter.Emit(result, func(w io.Writer) { writeValidation(w, result) }); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// lint runs compiler.Validate and prefixes each finding's field with the
// recipe name.
func lint(r recipe.Recipe) []compiler.ValidationError {
	errs := compiler.Validate(r)
	for i := range errs {
		errs[i].Field = r.Name + "." + errs[i].Field
	}
	return errs
}

func writeValidation(w io.Writer, result ValidationResult) {
	for _, fv := range result.Files {
		if len(fv.Errors) == 0 {
			fmt.Fprintf(w, "✓ %s (%d recipe(s))\n", fv.Path, len(fv.Recipes))
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fv.Path)
		for _, e := range fv.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}
