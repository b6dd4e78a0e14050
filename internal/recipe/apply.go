package recipe

import "slices"

// Apply applies op to a copy of r and returns the copy.
//
// Only the first populated field of op (in EditOperation field order) is
// applied. applied is false only when op has no populated field; it means
// "an operation was dispatched", not "content changed" (see Changed).
//
// Ingredient removal and update never fail: absent names are a no-op.
// Instruction and tag removal require an exact match and return an
// InvariantViolation error otherwise.
//
// The returned recipe keeps r's ID. Committing it as a new version with a
// fresh id is the caller's job.
func Apply(r Recipe, op EditOperation) (Recipe, bool, error) {
	out := r.Clone()

	switch op.Kind() {
	case OpAddIngredient:
		out.Ingredients = append(out.Ingredients, op.AddIngredient.clone())

	case OpRemoveIngredient:
		name := *op.RemoveIngredient
		out.Ingredients = slices.DeleteFunc(out.Ingredients, func(i Ingredient) bool {
			return i.Name == name
		})

	case OpUpdateIngredient:
		u := op.UpdateIngredient
		for i := range out.Ingredients {
			if out.Ingredients[i].Name != u.Name {
				continue
			}
			if u.Quantity != nil {
				out.Ingredients[i].Quantity = *u.Quantity
			}
			if u.Unit != nil {
				unit := *u.Unit
				out.Ingredients[i].Unit = &unit
			}
		}

	case OpAddInstruction:
		out.Instructions = append(out.Instructions, *op.AddInstruction)

	case OpRemoveInstruction:
		idx := slices.Index(out.Instructions, *op.RemoveInstruction)
		if idx < 0 {
			return r, false, NewInvariantViolation("instruction not present: "+*op.RemoveInstruction, r.ID)
		}
		out.Instructions = slices.Delete(out.Instructions, idx, idx+1)

	case OpAddTag:
		out.Tags = append(out.Tags, *op.AddTag)

	case OpRemoveTag:
		idx := slices.Index(out.Tags, *op.RemoveTag)
		if idx < 0 {
			return r, false, NewInvariantViolation("tag not present: "+*op.RemoveTag, r.ID)
		}
		out.Tags = slices.Delete(out.Tags, idx, idx+1)

	default:
		return r, false, nil
	}

	return out, true, nil
}
