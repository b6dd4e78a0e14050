package recipe

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Quantities are persisted as JSON numbers, which have no NaN or Inf.
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks that the modification has an id and a populated,
// well-formed operation.
func (m Modification) Validate() error {
	if err := validate.Struct(m); err != nil {
		return formatValidationError("modification", err)
	}
	return m.Operation.Validate()
}

// Validate checks the dispatched field of the operation.
// An operation with no populated field is a Validation error.
func (op EditOperation) Validate() error {
	switch op.Kind() {
	case OpNone:
		return NewValidationError("modification has no operation")
	case OpAddIngredient:
		if err := validate.Struct(op.AddIngredient); err != nil {
			return formatValidationError("add_ingredient", err)
		}
	case OpUpdateIngredient:
		if err := validate.Struct(op.UpdateIngredient); err != nil {
			return formatValidationError("update_ingredient", err)
		}
	case OpRemoveIngredient:
		return requireText("remove_ingredient", *op.RemoveIngredient)
	case OpAddInstruction:
		return requireText("add_instruction", *op.AddInstruction)
	case OpRemoveInstruction:
		return requireText("remove_instruction", *op.RemoveInstruction)
	case OpAddTag:
		return requireText("add_tag", *op.AddTag)
	case OpRemoveTag:
		return requireText("remove_tag", *op.RemoveTag)
	}
	return nil
}

// Validate checks every ingredient: each needs a name and a finite,
// non-negative quantity.
func (r Recipe) Validate() error {
	for i, ing := range r.Ingredients {
		if err := validate.Struct(ing); err != nil {
			return formatValidationError(fmt.Sprintf("%s: ingredients[%d]", r.Name, i), err)
		}
	}
	return nil
}

// ValidateURL checks that s parses as an absolute URL.
func ValidateURL(s string) error {
	if err := validate.Var(s, "required,url"); err != nil {
		return NewValidationError("invalid URL %q", s)
	}
	return nil
}

func requireText(field, s string) error {
	if err := validate.Var(s, "required"); err != nil {
		return NewValidationError("%s is required", field)
	}
	return nil
}

// formatValidationError flattens validator field errors into one
// Validation error.
func formatValidationError(prefix string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Code: CodeValidation, Message: prefix + " is invalid", Err: err}
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "finite":
			msgs = append(msgs, field+" must be a finite number")
		case "gte":
			msgs = append(msgs, field+" must not be negative")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return NewValidationError("%s: %s", prefix, strings.Join(msgs, "; "))
}
