package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cauldron/internal/recipe"
)

func TestValidate_Clean(t *testing.T) {
	r := recipe.New("Banana Bread",
		recipe.WithIngredients(
			recipe.NewIngredient("banana", 3, ""),
			recipe.NewIngredient("banana", 1, ""),
		),
		recipe.WithInstructions("Mash bananas"),
		recipe.WithTags("dessert", "quick"),
		recipe.WithSources("https://example.com/bread"),
	)
	assert.Empty(t, Validate(r))
}

func TestValidate_CollectsAll(t *testing.T) {
	r := recipe.Recipe{
		Name:         " ",
		Ingredients:  []recipe.Ingredient{recipe.NewIngredient("", -1, "cup")},
		Instructions: []string{"Stir", ""},
		Tags:         []string{"quick", "quick", ""},
		Sources:      []string{"not a url"},
	}

	var codes []string
	for _, e := range Validate(r) {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{
		ErrRecipeNameEmpty,
		ErrIngredientNameEmpty,
		ErrNegativeQuantity,
		ErrBlankInstruction,
		ErrDuplicateTag,
		ErrBlankTag,
		ErrInvalidSource,
	}, codes)
}

func TestValidationError_Format(t *testing.T) {
	e := ValidationError{Field: "tags[1]", Message: `duplicate tag: "quick"`, Code: ErrDuplicateTag}
	assert.Equal(t, `[E105] tags[1]: duplicate tag: "quick"`, e.Error())
}

func TestValidate_NonFiniteQuantity(t *testing.T) {
	for _, q := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		r := recipe.New("Nut Loaf",
			recipe.WithIngredients(recipe.NewIngredient("walnuts", q, "cup")),
			recipe.WithInstructions("Bake"),
		)
		errs := Validate(r)
		require.Len(t, errs, 1)
		assert.Equal(t, ErrNonFiniteQuantity, errs[0].Code)
		assert.Equal(t, "ingredients[0].quantity", errs[0].Field)
	}
}
