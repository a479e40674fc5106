package machine

import (
	"fmt"
	"sort"
	"strings"
)

// Recipe is a named fixed cost in water and coffee for one brew.
type Recipe struct {
	Name    string
	WaterML int
	CoffeeG int
}

// DisplayName returns the human-readable drink name used in messages,
// e.g. "double-espresso" -> "Double Espresso".
func (r Recipe) DisplayName() string {
	words := strings.Split(r.Name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Catalog is an immutable mapping from recipe name to Recipe,
// constructed once at process start and passed into the Engine.
type Catalog struct {
	recipes map[string]Recipe
}

// NewCatalog builds a catalog from the given recipes. Names must be
// unique and costs positive.
func NewCatalog(recipes ...Recipe) (Catalog, error) {
	m := make(map[string]Recipe, len(recipes))
	for _, r := range recipes {
		if r.Name == "" {
			return Catalog{}, fmt.Errorf("recipe with empty name")
		}
		if r.WaterML <= 0 || r.CoffeeG <= 0 {
			return Catalog{}, fmt.Errorf("recipe %q: costs must be positive (water %d ml, coffee %d g)", r.Name, r.WaterML, r.CoffeeG)
		}
		if _, dup := m[r.Name]; dup {
			return Catalog{}, fmt.Errorf("duplicate recipe %q", r.Name)
		}
		m[r.Name] = r
	}
	return Catalog{recipes: m}, nil
}

// DefaultCatalog returns the built-in drink menu.
func DefaultCatalog() Catalog {
	c, err := NewCatalog(
		Recipe{Name: "espresso", WaterML: 24, CoffeeG: 8},
		Recipe{Name: "double-espresso", WaterML: 48, CoffeeG: 16},
		Recipe{Name: "americano", WaterML: 148, CoffeeG: 16},
		Recipe{Name: "ristretto", WaterML: 16, CoffeeG: 8},
	)
	if err != nil {
		panic(err) // static catalog, cannot fail
	}
	return c
}

// Get looks up a recipe by name.
func (c Catalog) Get(name string) (Recipe, bool) {
	r, ok := c.recipes[name]
	return r, ok
}

// Names returns all recipe names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.recipes))
	for name := range c.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of recipes in the catalog.
func (c Catalog) Len() int {
	return len(c.recipes)
}
