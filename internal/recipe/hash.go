package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRecipe separates recipe content hashes from any other hash space.
const DomainRecipe = "cauldron/recipe/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentMap returns the recipe's content, id excluded, in the form
// accepted by MarshalCanonical.
func (r Recipe) ContentMap() map[string]any {
	ings := make([]any, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		m := map[string]any{
			"name":     ing.Name,
			"quantity": FormatQuantity(ing.Quantity),
		}
		if ing.Unit != nil {
			m["unit"] = *ing.Unit
		}
		ings[i] = m
	}
	return map[string]any{
		"name":         r.Name,
		"ingredients":  ings,
		"instructions": stringsToAny(r.Instructions),
		"tags":         stringsToAny(r.Tags),
		"sources":      stringsToAny(r.Sources),
	}
}

// Fingerprint returns a content hash of the recipe. Two recipes with equal
// name, ingredients, instructions, tags and sources share a fingerprint
// regardless of id.
func (r Recipe) Fingerprint() (string, error) {
	data, err := MarshalCanonical(r.ContentMap())
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainRecipe, data), nil
}

// Changed reports whether before and after differ in content.
func Changed(before, after Recipe) (bool, error) {
	a, err := before.Fingerprint()
	if err != nil {
		return false, err
	}
	b, err := after.Fingerprint()
	if err != nil {
		return false, err
	}
	return a != b, nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
