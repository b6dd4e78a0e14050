// Package staging holds harvested recipes and source URLs before they are
// promoted into a version graph.
//
// Buffer keeps two independent LIFO stacks. It has no internal locking.
package staging

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/cauldron/internal/recipe"
)

// DefaultSchemes are the URL prefixes PushURL accepts by default.
var DefaultSchemes = []string{"http://", "https://"}

// Buffer is the staging area.
type Buffer struct {
	docs    []recipe.Recipe
	urls    []string
	schemes []string
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithSchemes replaces the accepted URL scheme prefixes.
func WithSchemes(schemes ...string) Option {
	return func(b *Buffer) { b.schemes = slices.Clone(schemes) }
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{schemes: slices.Clone(DefaultSchemes)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PushDocument stages a recipe on top of the document stack.
// Returns a Validation error if r has no id or an ingredient is invalid.
func (b *Buffer) PushDocument(r recipe.Recipe) error {
	if r.ID == "" {
		return recipe.NewValidationError("staged recipe %q has no id", r.Name)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	b.docs = append(b.docs, r.Clone())
	return nil
}

// PopDocument removes and returns the most recently staged recipe.
func (b *Buffer) PopDocument() (recipe.Recipe, bool) {
	if len(b.docs) == 0 {
		return recipe.Recipe{}, false
	}
	r := b.docs[len(b.docs)-1]
	b.docs = b.docs[:len(b.docs)-1]
	return r, true
}

// FindDocument returns a staged recipe by id.
func (b *Buffer) FindDocument(id string) (recipe.Recipe, error) {
	for _, r := range b.docs {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return recipe.Recipe{}, recipe.NewNotFound("staged recipe", id)
}

// RemoveDocument removes a staged recipe by id.
func (b *Buffer) RemoveDocument(id string) error {
	i := slices.IndexFunc(b.docs, func(r recipe.Recipe) bool { return r.ID == id })
	if i < 0 {
		return recipe.NewNotFound("staged recipe", id)
	}
	b.docs = slices.Delete(b.docs, i, i+1)
	return nil
}

// Documents returns copies of every staged recipe, bottom of stack first.
func (b *Buffer) Documents() []recipe.Recipe {
	out := make([]recipe.Recipe, len(b.docs))
	for i, r := range b.docs {
		out[i] = r.Clone()
	}
	return out
}

// PushURL stages a source URL.
//
// Returns a Validation error if the URL is already staged, does not start
// with an accepted scheme prefix, or does not parse as a URL.
func (b *Buffer) PushURL(u string) error {
	if slices.Contains(b.urls, u) {
		return recipe.NewValidationError("URL already staged: %s", u)
	}
	if !slices.ContainsFunc(b.schemes, func(s string) bool { return strings.HasPrefix(u, s) }) {
		return recipe.NewValidationError("URL %q must start with one of %s", u, strings.Join(b.schemes, ", "))
	}
	if err := recipe.ValidateURL(u); err != nil {
		return err
	}
	b.urls = append(b.urls, u)
	return nil
}

// PopURL removes and returns the most recently staged URL.
func (b *Buffer) PopURL() (string, bool) {
	if len(b.urls) == 0 {
		return "", false
	}
	u := b.urls[len(b.urls)-1]
	b.urls = b.urls[:len(b.urls)-1]
	return u, true
}

// HasURL reports whether u is staged.
func (b *Buffer) HasURL(u string) bool {
	return slices.Contains(b.urls, u)
}

// RemoveURL removes u. Returns false if it was not staged.
func (b *Buffer) RemoveURL(u string) bool {
	i := slices.Index(b.urls, u)
	if i < 0 {
		return false
	}
	b.urls = slices.Delete(b.urls, i, i+1)
	return true
}

// URLs returns every staged URL, bottom of stack first.
func (b *Buffer) URLs() []string {
	return slices.Clone(b.urls)
}

// Len returns the number of staged recipes and URLs.
func (b *Buffer) Len() (docs, urls int) {
	return len(b.docs), len(b.urls)
}

// Clear empties both stacks.
func (b *Buffer) Clear() {
	b.docs = nil
	b.urls = nil
}

type bufferData struct {
	Documents []recipe.Recipe `json:"documents"`
	URLs      []string        `json:"urls"`
}

// Snapshot serializes both stacks in stack order.
func (b *Buffer) Snapshot() ([]byte, error) {
	data := bufferData{Documents: b.Documents(), URLs: b.URLs()}
	if data.URLs == nil {
		data.URLs = []string{}
	}
	return recipe.EncodeEnvelope(recipe.KindBuffer, data)
}

// Restore replaces both stacks with a snapshot. Accepted schemes are kept.
// On a DecodeFailure the buffer is unchanged.
func (b *Buffer) Restore(raw []byte) error {
	var data bufferData
	if err := recipe.DecodeEnvelope(raw, recipe.KindBuffer, &data); err != nil {
		return err
	}
	seen := make(map[string]bool, len(data.URLs))
	for _, u := range data.URLs {
		if seen[u] {
			return recipe.NewDecodeFailure(fmt.Sprintf("decode staging_buffer: duplicate URL %s", u), nil)
		}
		seen[u] = true
	}
	docs := make([]recipe.Recipe, len(data.Documents))
	for i, r := range data.Documents {
		if r.ID == "" {
			return recipe.NewDecodeFailure(fmt.Sprintf("decode staging_buffer: document %d has no id", i), nil)
		}
		docs[i] = r.Clone()
	}
	b.docs = docs
	b.urls = slices.Clone(data.URLs)
	return nil
}
