// Package domain defines the core types and interfaces for the shopping list.
// All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is a structured recipe document. Only the parts that matter for
// shopping are modelled: what goes in, and which other recipes it pulls in.
type Recipe struct {
	Path        string       `yaml:"-"`
	Name        string       `yaml:"name"`
	Servings    int          `yaml:"servings"`
	Ingredients []Ingredient `yaml:"ingredients"`
	Includes    []Include    `yaml:"includes"`
	Tags        []string     `yaml:"tags"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	Path string
	Name string
	Tags []string
}

// Ingredient represents a single ingredient with human-style quantities.
type Ingredient struct {
	Name           string  `yaml:"name"`
	Quantity       float64 `yaml:"quantity"`
	Unit           string  `yaml:"unit"` // "g", "cups", "tbsp", ""
	SizeDescriptor string  `yaml:"size"` // "to taste", "a pinch", "handful", ""
	Optional       bool    `yaml:"optional"`
}

// Include pulls another recipe (a sauce, a dough) into this one.
// Scale multiplies on top of the including recipe's scale; zero means 1.
type Include struct {
	Path  string  `yaml:"path"`
	Scale float64 `yaml:"scale"`
}
