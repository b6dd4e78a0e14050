package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bananaBread() Recipe {
	return New("Banana Bread",
		WithIngredients(NewIngredient("banana", 2, "count")),
		WithInstructions("Mix"),
	)
}

func TestApply_AddIngredient_AllowsDuplicates(t *testing.T) {
	r := bananaBread()

	out, applied, err := Apply(r, AddIngredient(NewIngredient("banana", 1, "count")))
	require.NoError(t, err)
	assert.True(t, applied)
	require.Len(t, out.Ingredients, 2)
	assert.Equal(t, "banana", out.Ingredients[1].Name)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	r := bananaBread()

	_, _, err := Apply(r, AddTag("vegan"))
	require.NoError(t, err)
	_, _, err = Apply(r, UpdateIngredient("banana", ptr(5.0), nil))
	require.NoError(t, err)

	assert.Empty(t, r.Tags)
	assert.Equal(t, 2.0, r.Ingredients[0].Quantity)
}

func TestApply_KeepsID(t *testing.T) {
	r := bananaBread()

	out, _, err := Apply(r, AddInstruction("Bake"))
	require.NoError(t, err)
	assert.Equal(t, r.ID, out.ID)
}

func TestApply_RemoveIngredient_RemovesAllMatches(t *testing.T) {
	r := New("r", WithIngredients(
		NewIngredient("salt", 1, "tsp"),
		NewIngredient("flour", 2, "cup"),
		NewIngredient("salt", 0.5, "tsp"),
	))

	out, applied, err := Apply(r, RemoveIngredient("salt"))
	require.NoError(t, err)
	assert.True(t, applied)
	require.Len(t, out.Ingredients, 1)
	assert.Equal(t, "flour", out.Ingredients[0].Name)
}

func TestApply_RemoveIngredient_AbsentIsNoOp(t *testing.T) {
	r := bananaBread()

	out, applied, err := Apply(r, RemoveIngredient("walnuts"))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, r.Ingredients, out.Ingredients)

	changed, err := Changed(r, out)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestApply_UpdateIngredient_PartialFields(t *testing.T) {
	r := New("r", WithIngredients(
		NewIngredient("milk", 1, "cup"),
		NewIngredient("milk", 2, "cup"),
	))

	out, applied, err := Apply(r, UpdateIngredient("milk", nil, ptr("ml")))
	require.NoError(t, err)
	assert.True(t, applied)
	for _, ing := range out.Ingredients {
		assert.Equal(t, "ml", ing.UnitString())
	}
	assert.Equal(t, 1.0, out.Ingredients[0].Quantity)
	assert.Equal(t, 2.0, out.Ingredients[1].Quantity)

	out, _, err = Apply(out, UpdateIngredient("milk", ptr(250.0), nil))
	require.NoError(t, err)
	assert.Equal(t, 250.0, out.Ingredients[0].Quantity)
	assert.Equal(t, "ml", out.Ingredients[0].UnitString())
}

func TestApply_RemoveThenUpdate_ZeroMatches(t *testing.T) {
	r := bananaBread()

	removed, applied, err := Apply(r, RemoveIngredient("banana"))
	require.NoError(t, err)
	require.True(t, applied)

	updated, applied, err := Apply(removed, UpdateIngredient("banana", ptr(3.0), ptr("count")))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.False(t, updated.HasIngredient("banana"))
}

func TestApply_RemoveInstruction_FirstExactMatch(t *testing.T) {
	r := New("r", WithInstructions("Mix", "Bake", "Mix"))

	out, applied, err := Apply(r, RemoveInstruction("Mix"))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"Bake", "Mix"}, out.Instructions)
}

func TestApply_RemoveInstruction_AbsentErrors(t *testing.T) {
	r := bananaBread()

	_, applied, err := Apply(r, RemoveInstruction("Bake"))
	require.Error(t, err)
	assert.False(t, applied)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Ingredient removal of an absent name is not an error.
	_, applied, err = Apply(r, RemoveIngredient("walnuts"))
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestApply_Tags(t *testing.T) {
	r := bananaBread()

	out, applied, err := Apply(r, AddTag("vegan"))
	require.NoError(t, err)
	require.True(t, applied)
	assert.True(t, out.HasTag("vegan"))

	out, _, err = Apply(out, RemoveTag("vegan"))
	require.NoError(t, err)
	assert.False(t, out.HasTag("vegan"))

	_, _, err = Apply(out, RemoveTag("vegan"))
	assert.True(t, IsInvariantViolation(err))
}

func TestApply_EmptyOperation(t *testing.T) {
	r := bananaBread()

	out, applied, err := Apply(r, EditOperation{})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, r, out)
}

func TestApply_Precedence(t *testing.T) {
	r := bananaBread()
	tag := "vegan"
	step := "Bake"
	op := EditOperation{AddTag: &tag, AddInstruction: &step}

	assert.Equal(t, OpAddInstruction, op.Kind())

	out, applied, err := Apply(r, op)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"Mix", "Bake"}, out.Instructions)
	assert.Empty(t, out.Tags)
}

func TestEditOperation_KindOrder(t *testing.T) {
	tests := []struct {
		op   EditOperation
		want OpKind
	}{
		{AddIngredient(NewIngredient("a", 1, "")), OpAddIngredient},
		{RemoveIngredient("a"), OpRemoveIngredient},
		{UpdateIngredient("a", nil, nil), OpUpdateIngredient},
		{AddInstruction("a"), OpAddInstruction},
		{RemoveInstruction("a"), OpRemoveInstruction},
		{AddTag("a"), OpAddTag},
		{RemoveTag("a"), OpRemoveTag},
		{EditOperation{}, OpNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Kind())
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
