package recipe

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModification_FreshIDEveryCall(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		m, err := NewModification(1, AddTag("x"))
		require.NoError(t, err)
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

func TestNewModification_UUIDv7(t *testing.T) {
	m := MustModification(1, AddTag("x"))

	parsed, err := uuid.Parse(m.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNewModification_EmptyOperation(t *testing.T) {
	_, err := NewModification(1, EditOperation{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewModification_InvalidIngredient(t *testing.T) {
	_, err := NewModification(1, AddIngredient(Ingredient{Quantity: 1}))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "name is required")
}

func TestNewModification_QuantityMustBeFiniteAndNonNegative(t *testing.T) {
	ptr := func(f float64) *float64 { return &f }
	tests := []struct {
		name string
		op   EditOperation
		msg  string
	}{
		{"add_nan", AddIngredient(NewIngredient("walnuts", math.NaN(), "cup")), "quantity must be a finite number"},
		{"add_inf", AddIngredient(NewIngredient("walnuts", math.Inf(1), "cup")), "quantity must be a finite number"},
		{"add_neg_inf", AddIngredient(NewIngredient("walnuts", math.Inf(-1), "cup")), "quantity must be a finite number"},
		{"add_negative", AddIngredient(NewIngredient("walnuts", -0.5, "cup")), "quantity must not be negative"},
		{"update_nan", UpdateIngredient("banana", ptr(math.NaN()), nil), "quantity must be a finite number"},
		{"update_inf", UpdateIngredient("banana", ptr(math.Inf(1)), nil), "quantity must be a finite number"},
		{"update_negative", UpdateIngredient("banana", ptr(-1), nil), "quantity must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModification(1, tt.op)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := NewModification(1, AddIngredient(NewIngredient("salt", 0, "")))
	assert.NoError(t, err, "zero is a valid quantity")
	_, err = NewModification(1, UpdateIngredient("banana", nil, nil))
	assert.NoError(t, err, "an update without a quantity is valid")
}

func TestRecipe_Validate(t *testing.T) {
	ok := New("bread", WithIngredients(NewIngredient("flour", 2, "cup")))
	assert.NoError(t, ok.Validate())

	bad := New("bread", WithIngredients(
		NewIngredient("flour", 2, "cup"),
		NewIngredient("walnuts", math.NaN(), "cup"),
	))
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "ingredients[1]")
}

func TestNewModification_CopiesOperation(t *testing.T) {
	ing := NewIngredient("walnuts", 0.5, "cup")
	op := AddIngredient(ing)
	m := MustModification(5, op)

	op.AddIngredient.Quantity = 9
	assert.Equal(t, 0.5, m.Operation.AddIngredient.Quantity)
}

func TestModification_Validate_MissingID(t *testing.T) {
	m := Modification{Priority: 1, Operation: AddTag("x")}
	err := m.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNewRecipe_FreshIDEveryCall(t *testing.T) {
	a := New("same")
	b := New("same")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "same ("+a.ID+")", a.Tiny())
}

func TestRecipe_CloneIsDeep(t *testing.T) {
	r := New("r", WithIngredients(NewIngredient("milk", 1, "cup")), WithTags("a"))
	c := r.Clone()

	*c.Ingredients[0].Unit = "ml"
	c.Tags[0] = "b"

	assert.Equal(t, "cup", r.Ingredients[0].UnitString())
	assert.Equal(t, "a", r.Tags[0])
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/bread"))
	assert.True(t, IsValidation(ValidateURL("not a url")))
	assert.True(t, IsValidation(ValidateURL("")))
}
