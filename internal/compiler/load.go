package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cauldron/internal/recipe"
)

// yamlFile is the YAML recipe file layout.
type yamlFile struct {
	Recipes []yamlRecipe `yaml:"recipes"`
}

type yamlRecipe struct {
	Name         string              `yaml:"name"`
	Ingredients  []recipe.Ingredient `yaml:"ingredients"`
	Instructions []string            `yaml:"instructions"`
	Tags         []string            `yaml:"tags"`
	Sources      []string            `yaml:"sources"`
}

// LoadFile compiles every recipe in a .cue, .yaml or .yml file, in
// declaration order.
func LoadFile(path string) ([]recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		return CompileCUE(data, path)
	case ".yaml", ".yml":
		return CompileYAML(data)
	default:
		return nil, recipe.NewValidationError("unsupported recipe file extension %q", ext)
	}
}

// CompileCUE compiles CUE source holding a top-level "recipe" struct.
func CompileCUE(src []byte, filename string) ([]recipe.Recipe, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	recipesVal := value.LookupPath(cue.ParsePath("recipe"))
	if !recipesVal.Exists() {
		return nil, &CompileError{Field: "recipe", Message: "no recipes declared", Pos: value.Pos()}
	}
	iter, err := recipesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []recipe.Recipe
	for iter.Next() {
		r, err := CompileRecipe(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("recipe.%s: %w", iter.Selector().String(), err)
		}
		out = append(out, r)
	}
	return out, nil
}

// CompileYAML compiles a YAML recipe file. Unknown keys are rejected.
func CompileYAML(src []byte) ([]recipe.Recipe, error) {
	var file yamlFile
	decoder := yaml.NewDecoder(bytes.NewReader(src))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Recipes) == 0 {
		return nil, &CompileError{Field: "recipes", Message: "no recipes declared"}
	}

	out := make([]recipe.Recipe, 0, len(file.Recipes))
	for i, y := range file.Recipes {
		name := normalize(y.Name)
		if name == "" {
			return nil, &CompileError{Field: fmt.Sprintf("recipes[%d].name", i), Message: "recipe name is required"}
		}
		ings := make([]recipe.Ingredient, len(y.Ingredients))
		for j, ing := range y.Ingredients {
			ing.Name = normalize(ing.Name)
			if ing.Name == "" {
				return nil, &CompileError{
					Field:   fmt.Sprintf("recipes[%d].ingredients[%d].name", i, j),
					Message: "ingredient name must be non-empty",
				}
			}
			ings[j] = ing
		}
		out = append(out, recipe.New(name,
			recipe.WithIngredients(ings...),
			recipe.WithInstructions(y.Instructions...),
			recipe.WithTags(y.Tags...),
			recipe.WithSources(y.Sources...),
		))
	}
	return out, nil
}
