// Package compiler turns recipe source files into recipe documents.
//
// Recipes are authored in CUE or YAML. A CUE file declares recipes under a
// top-level "recipe" struct keyed by name:
//
//	recipe: "Banana Bread": {
//		ingredients: [{name: "banana", quantity: 3}]
//		instructions: ["Mash bananas"]
//		tags: ["dessert"]
//	}
//
// A YAML file lists them under "recipes". Every compiled recipe gets a
// fresh ID; names are trimmed and NFC-normalized.
package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/cauldron/internal/recipe"
)

// CompileRecipe parses a CUE value into a Recipe.
//
// The value should be the recipe struct itself; its label is the recipe
// name unless a "name" field overrides it:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`recipe: Pancakes: { ... }`)
//	r, err := CompileRecipe(v.LookupPath(cue.ParsePath("recipe.Pancakes")))
func CompileRecipe(v cue.Value) (recipe.Recipe, error) {
	if err := v.Err(); err != nil {
		return recipe.Recipe{}, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return recipe.Recipe{}, formatCUEError(err)
	}

	var name string
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		name = labels[len(labels)-1].Unquoted()
	}
	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		s, err := nameVal.String()
		if err != nil {
			return recipe.Recipe{}, formatCUEError(err)
		}
		name = s
	}
	name = normalize(name)
	if name == "" {
		return recipe.Recipe{}, &CompileError{Field: "name", Message: "recipe name is required", Pos: v.Pos()}
	}

	ings, err := parseIngredients(v)
	if err != nil {
		return recipe.Recipe{}, err
	}
	instructions, err := parseStrings(v, "instructions")
	if err != nil {
		return recipe.Recipe{}, err
	}
	tags, err := parseStrings(v, "tags")
	if err != nil {
		return recipe.Recipe{}, err
	}
	sources, err := parseStrings(v, "sources")
	if err != nil {
		return recipe.Recipe{}, err
	}

	return recipe.New(name,
		recipe.WithIngredients(ings...),
		recipe.WithInstructions(instructions...),
		recipe.WithTags(tags...),
		recipe.WithSources(sources...),
	), nil
}

// parseIngredients reads the optional ingredient list.
func parseIngredients(v cue.Value) ([]recipe.Ingredient, error) {
	listVal := v.LookupPath(cue.ParsePath("ingredients"))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var ings []recipe.Ingredient
	for i := 0; iter.Next(); i++ {
		item := iter.Value()
		field := fmt.Sprintf("ingredients[%d]", i)

		name, err := item.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, &CompileError{Field: field + ".name", Message: "ingredient name is required", Pos: item.Pos()}
		}
		name = normalize(name)
		if name == "" {
			return nil, &CompileError{Field: field + ".name", Message: "ingredient name must be non-empty", Pos: item.Pos()}
		}

		qtyVal := item.LookupPath(cue.ParsePath("quantity"))
		if !qtyVal.Exists() {
			return nil, &CompileError{Field: field + ".quantity", Message: "ingredient quantity is required", Pos: item.Pos()}
		}
		qty, err := qtyVal.Float64()
		if err != nil {
			return nil, &CompileError{Field: field + ".quantity", Message: "quantity must be a number", Pos: qtyVal.Pos()}
		}

		var unit string
		if unitVal := item.LookupPath(cue.ParsePath("unit")); unitVal.Exists() {
			unit, err = unitVal.String()
			if err != nil {
				return nil, &CompileError{Field: field + ".unit", Message: "unit must be a string", Pos: unitVal.Pos()}
			}
		}
		ings = append(ings, recipe.NewIngredient(name, qty, strings.TrimSpace(unit)))
	}
	return ings, nil
}

// parseStrings reads an optional list of strings.
func parseStrings(v cue.Value, field string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(field))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "must be a list of strings", Pos: listVal.Pos()}
	}
	var out []string
	for i := 0; iter.Next(); i++ {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// CompileError is a compile failure with its CUE source position, if known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
