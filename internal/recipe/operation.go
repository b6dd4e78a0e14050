package recipe

import "fmt"

// OpKind names the populated field of an EditOperation.
type OpKind string

// Operation kinds, listed in dispatch precedence order.
const (
	OpNone              OpKind = ""
	OpAddIngredient     OpKind = "add_ingredient"
	OpRemoveIngredient  OpKind = "remove_ingredient"
	OpUpdateIngredient  OpKind = "update_ingredient"
	OpAddInstruction    OpKind = "add_instruction"
	OpRemoveInstruction OpKind = "remove_instruction"
	OpAddTag            OpKind = "add_tag"
	OpRemoveTag         OpKind = "remove_tag"
)

// IngredientUpdate overwrites the quantity and/or unit of every ingredient
// named Name. Nil fields are left unchanged.
type IngredientUpdate struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Quantity *float64 `json:"quantity,omitempty" yaml:"quantity,omitempty" validate:"omitempty,finite,gte=0"`
	Unit     *string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// EditOperation is a single edit. A well-formed operation has exactly one
// field set; when several are set, only the first in precedence order
// (the order of the fields below) is applied.
type EditOperation struct {
	AddIngredient     *Ingredient       `json:"add_ingredient,omitempty" yaml:"add_ingredient,omitempty"`
	RemoveIngredient  *string           `json:"remove_ingredient,omitempty" yaml:"remove_ingredient,omitempty"`
	UpdateIngredient  *IngredientUpdate `json:"update_ingredient,omitempty" yaml:"update_ingredient,omitempty"`
	AddInstruction    *string           `json:"add_instruction,omitempty" yaml:"add_instruction,omitempty"`
	RemoveInstruction *string           `json:"remove_instruction,omitempty" yaml:"remove_instruction,omitempty"`
	AddTag            *string           `json:"add_tag,omitempty" yaml:"add_tag,omitempty"`
	RemoveTag         *string           `json:"remove_tag,omitempty" yaml:"remove_tag,omitempty"`
}

// AddIngredient builds an operation appending ing.
func AddIngredient(ing Ingredient) EditOperation {
	ing = ing.clone()
	return EditOperation{AddIngredient: &ing}
}

// RemoveIngredient builds an operation removing every ingredient named name.
func RemoveIngredient(name string) EditOperation {
	return EditOperation{RemoveIngredient: &name}
}

// UpdateIngredient builds an operation updating every ingredient named name.
// Pass nil to leave quantity or unit unchanged.
func UpdateIngredient(name string, quantity *float64, unit *string) EditOperation {
	return EditOperation{UpdateIngredient: &IngredientUpdate{Name: name, Quantity: quantity, Unit: unit}}
}

// AddInstruction builds an operation appending an instruction.
func AddInstruction(text string) EditOperation {
	return EditOperation{AddInstruction: &text}
}

// RemoveInstruction builds an operation removing the first exact match.
func RemoveInstruction(text string) EditOperation {
	return EditOperation{RemoveInstruction: &text}
}

// AddTag builds an operation appending a tag.
func AddTag(tag string) EditOperation {
	return EditOperation{AddTag: &tag}
}

// RemoveTag builds an operation removing the first exact match.
func RemoveTag(tag string) EditOperation {
	return EditOperation{RemoveTag: &tag}
}

// Kind returns the field Apply would dispatch on, or OpNone.
func (op EditOperation) Kind() OpKind {
	switch {
	case op.AddIngredient != nil:
		return OpAddIngredient
	case op.RemoveIngredient != nil:
		return OpRemoveIngredient
	case op.UpdateIngredient != nil:
		return OpUpdateIngredient
	case op.AddInstruction != nil:
		return OpAddInstruction
	case op.RemoveInstruction != nil:
		return OpRemoveInstruction
	case op.AddTag != nil:
		return OpAddTag
	case op.RemoveTag != nil:
		return OpRemoveTag
	default:
		return OpNone
	}
}

// IsEmpty reports whether no field is populated.
func (op EditOperation) IsEmpty() bool {
	return op.Kind() == OpNone
}

// Describe renders the dispatched operation for display.
func (op EditOperation) Describe() string {
	switch op.Kind() {
	case OpAddIngredient:
		return fmt.Sprintf("add ingredient %s", op.AddIngredient)
	case OpRemoveIngredient:
		return fmt.Sprintf("remove ingredient %q", *op.RemoveIngredient)
	case OpUpdateIngredient:
		u := op.UpdateIngredient
		s := fmt.Sprintf("update ingredient %q", u.Name)
		if u.Quantity != nil {
			s += " quantity=" + FormatQuantity(*u.Quantity)
		}
		if u.Unit != nil {
			s += " unit=" + *u.Unit
		}
		return s
	case OpAddInstruction:
		return fmt.Sprintf("add instruction %q", *op.AddInstruction)
	case OpRemoveInstruction:
		return fmt.Sprintf("remove instruction %q", *op.RemoveInstruction)
	case OpAddTag:
		return fmt.Sprintf("add tag %q", *op.AddTag)
	case OpRemoveTag:
		return fmt.Sprintf("remove tag %q", *op.RemoveTag)
	default:
		return "empty operation"
	}
}

func (op EditOperation) clone() EditOperation {
	out := EditOperation{}
	if op.AddIngredient != nil {
		ing := op.AddIngredient.clone()
		out.AddIngredient = &ing
	}
	out.RemoveIngredient = cloneString(op.RemoveIngredient)
	if op.UpdateIngredient != nil {
		u := IngredientUpdate{Name: op.UpdateIngredient.Name, Unit: cloneString(op.UpdateIngredient.Unit)}
		if op.UpdateIngredient.Quantity != nil {
			q := *op.UpdateIngredient.Quantity
			u.Quantity = &q
		}
		out.UpdateIngredient = &u
	}
	out.AddInstruction = cloneString(op.AddInstruction)
	out.RemoveInstruction = cloneString(op.RemoveInstruction)
	out.AddTag = cloneString(op.AddTag)
	out.RemoveTag = cloneString(op.RemoveTag)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
