package recipe

import (
	"fmt"
	"slices"
)

// Ingredient is one line of a recipe's ingredient list.
//
// Update and remove operations address ingredients by Name only, so an
// operation on "flour" affects every entry named "flour".
type Ingredient struct {
	Name     string  `json:"name" yaml:"name" validate:"required"`
	Quantity float64 `json:"quantity" yaml:"quantity" validate:"finite,gte=0"`
	Unit     *string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// NewIngredient builds an Ingredient. An empty unit means "no unit".
func NewIngredient(name string, quantity float64, unit string) Ingredient {
	ing := Ingredient{Name: name, Quantity: quantity}
	if unit != "" {
		ing.Unit = &unit
	}
	return ing
}

// UnitString returns the unit or "" when absent.
func (i Ingredient) UnitString() string {
	if i.Unit == nil {
		return ""
	}
	return *i.Unit
}

// String renders the ingredient as "name quantity unit".
func (i Ingredient) String() string {
	if u := i.UnitString(); u != "" {
		return fmt.Sprintf("%s %s %s", i.Name, FormatQuantity(i.Quantity), u)
	}
	return fmt.Sprintf("%s %s", i.Name, FormatQuantity(i.Quantity))
}

func (i Ingredient) clone() Ingredient {
	out := i
	if i.Unit != nil {
		u := *i.Unit
		out.Unit = &u
	}
	return out
}

// Recipe is the versioned document.
//
// Each accepted modification produces a new Recipe value with a new ID.
// Committed versions are never mutated; callers receive copies.
type Recipe struct {
	ID           string       `json:"id" yaml:"id,omitempty"`
	Name         string       `json:"name" yaml:"name"`
	Ingredients  []Ingredient `json:"ingredients" yaml:"ingredients"`
	Instructions []string     `json:"instructions" yaml:"instructions"`
	Tags         []string     `json:"tags" yaml:"tags"`
	Sources      []string     `json:"sources" yaml:"sources"`
}

// Option configures a Recipe built by New.
type Option func(*Recipe)

// WithIngredients sets the ingredient list.
func WithIngredients(ings ...Ingredient) Option {
	return func(r *Recipe) { r.Ingredients = append(r.Ingredients, ings...) }
}

// WithInstructions sets the instruction list.
func WithInstructions(steps ...string) Option {
	return func(r *Recipe) { r.Instructions = append(r.Instructions, steps...) }
}

// WithTags sets the tag list.
func WithTags(tags ...string) Option {
	return func(r *Recipe) { r.Tags = append(r.Tags, tags...) }
}

// WithSources sets the source list.
func WithSources(sources ...string) Option {
	return func(r *Recipe) { r.Sources = append(r.Sources, sources...) }
}

// New creates a Recipe with a freshly generated id.
func New(name string, opts ...Option) Recipe {
	r := Recipe{
		ID:           NewID(),
		Name:         name,
		Ingredients:  []Ingredient{},
		Instructions: []string{},
		Tags:         []string{},
		Sources:      []string{},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Clone returns a deep copy. Slices are never shared with the original.
func (r Recipe) Clone() Recipe {
	out := Recipe{
		ID:           r.ID,
		Name:         r.Name,
		Ingredients:  make([]Ingredient, len(r.Ingredients)),
		Instructions: slices.Clone(r.Instructions),
		Tags:         slices.Clone(r.Tags),
		Sources:      slices.Clone(r.Sources),
	}
	for i, ing := range r.Ingredients {
		out.Ingredients[i] = ing.clone()
	}
	if out.Instructions == nil {
		out.Instructions = []string{}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Sources == nil {
		out.Sources = []string{}
	}
	return out
}

// Tiny returns a short "name (id)" label for listings.
func (r Recipe) Tiny() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.ID)
}

// HasIngredient reports whether any ingredient is named name.
func (r Recipe) HasIngredient(name string) bool {
	return slices.ContainsFunc(r.Ingredients, func(i Ingredient) bool { return i.Name == name })
}

// HasTag reports whether tag is present.
func (r Recipe) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}
