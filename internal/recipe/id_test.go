package recipe

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDv7Generator_Sortable(t *testing.T) {
	gen := UUIDv7Generator{}
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = gen.Generate()
	}
	assert.True(t, sort.StringsAreSorted(ids), "UUIDv7 ids should sort by creation order")
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestSequenceGenerator(t *testing.T) {
	gen := NewSequenceGenerator("v")
	assert.Equal(t, "v-1", gen.Generate())
	assert.Equal(t, "v-2", gen.Generate())
}

func TestSequenceGenerator_Concurrent(t *testing.T) {
	gen := NewSequenceGenerator("m")

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 200)
}

func TestRecipe_Labels(t *testing.T) {
	r := New("Toast", WithIngredients(
		NewIngredient("bread", 2, "slice"),
		NewIngredient("butter", 0.5, ""),
	))
	r.ID = "v-1"

	assert.Equal(t, "Toast (v-1)", r.Tiny())
	assert.Equal(t, "bread 2 slice", r.Ingredients[0].String())
	assert.Equal(t, "butter 0.5", r.Ingredients[1].String())
	assert.True(t, r.HasIngredient("butter"))
	assert.False(t, r.HasIngredient("jam"))
}
