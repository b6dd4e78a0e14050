// Package testutil provides recipe fixtures shared by package tests.
//
// Fixtures return a new value with a fresh id on every call, so tests never
// share a document by accident.
package testutil

import "github.com/roach88/cauldron/internal/recipe"

// BananaBread returns the canonical example document: two bananas, one
// instruction, no tags or sources.
func BananaBread() recipe.Recipe {
	return recipe.New("Banana Bread",
		recipe.WithIngredients(recipe.NewIngredient("banana", 2, "count")),
		recipe.WithInstructions("Mix"),
	)
}

// Pancakes returns a document with repeated units, a unitless ingredient
// and a tag.
func Pancakes() recipe.Recipe {
	return recipe.New("Pancakes",
		recipe.WithIngredients(
			recipe.NewIngredient("flour", 2, "cup"),
			recipe.NewIngredient("milk", 1.5, "cup"),
			recipe.NewIngredient("egg", 1, ""),
		),
		recipe.WithInstructions("Whisk", "Fry"),
		recipe.WithTags("breakfast"),
	)
}

// Modification builds a modification or panics. For table setup only.
func Modification(priority int, op recipe.EditOperation) recipe.Modification {
	return recipe.MustModification(priority, op)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
