package compiler

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/cauldron/internal/recipe"
)

// Validation error codes (E100-E199)
const (
	ErrRecipeNameEmpty     = "E101" // name is required
	ErrIngredientNameEmpty = "E102" // ingredient name is required
	ErrNegativeQuantity    = "E103" // quantities are >= 0
	ErrBlankInstruction    = "E104" // instruction text is required
	ErrDuplicateTag        = "E105" // tags are a set in practice
	ErrInvalidSource       = "E106" // sources must be URLs
	ErrBlankTag            = "E107" // tag text is required
	ErrNonFiniteQuantity   = "E108" // NaN and Inf cannot be persisted
)

// ValidationError is one problem found in a compiled recipe.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled recipe and returns every problem found
// (does not fail-fast). Duplicate ingredient names are allowed.
func Validate(r recipe.Recipe) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrRecipeNameEmpty,
		})
	}

	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("ingredients[%d].name", i),
				Message: "ingredient name is required",
				Code:    ErrIngredientNameEmpty,
			})
		}
		if math.IsNaN(ing.Quantity) || math.IsInf(ing.Quantity, 0) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("ingredients[%d].quantity", i),
				Message: fmt.Sprintf("quantity %s is not a finite number", recipe.FormatQuantity(ing.Quantity)),
				Code:    ErrNonFiniteQuantity,
			})
		} else if ing.Quantity < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("ingredients[%d].quantity", i),
				Message: fmt.Sprintf("quantity %s is negative", recipe.FormatQuantity(ing.Quantity)),
				Code:    ErrNegativeQuantity,
			})
		}
	}

	for i, step := range r.Instructions {
		if strings.TrimSpace(step) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("instructions[%d]", i),
				Message: "instruction must be non-empty",
				Code:    ErrBlankInstruction,
			})
		}
	}

	seen := make(map[string]bool)
	for i, tag := range r.Tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tags[%d]", i),
				Message: "tag must be non-empty",
				Code:    ErrBlankTag,
			})
			continue
		}
		if seen[tag] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tags[%d]", i),
				Message: fmt.Sprintf("duplicate tag: %q", tag),
				Code:    ErrDuplicateTag,
			})
		}
		seen[tag] = true
	}

	for i, src := range r.Sources {
		if err := recipe.ValidateURL(src); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("sources[%d]", i),
				Message: fmt.Sprintf("%q is not a URL", src),
				Code:    ErrInvalidSource,
			})
		}
	}

	return errs
}
