// Package aisle parses the aisle configuration that maps ingredients to
// shop categories and gives them a common display name.
//
// The format is line based:
//
//	[produce]
//	tomatoes
//	potatoes|potato
//
//	[dairy]
//	milk|whole milk
//
// The first name on an ingredient line is the common name; the rest are
// aliases that resolve to it.
package aisle

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// Ingredient is one ingredient line of a category.
type Ingredient struct {
	Common  string
	Aliases []string
}

// Category is a named shop section.
type Category struct {
	Name        string
	Ingredients []Ingredient
}

type entry struct {
	category string
	common   string
}

// Config is a parsed aisle configuration. A nil *Config is a valid empty
// configuration.
type Config struct {
	categories []Category
	index      map[string]entry
}

// ParseLenient parses text and never fails: problems are returned as
// warnings and the offending lines are skipped.
func ParseLenient(text string) (*Config, []domain.Warning) {
	cfg := &Config{index: make(map[string]entry)}
	var warnings []domain.Warning
	warn := func(line int, format string, args ...any) {
		warnings = append(warnings, domain.Warning{Line: line, Message: fmt.Sprintf(format, args...)})
	}

	current := -1
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				warn(lineNo, "unterminated category header %q", line)
				current = -1
				continue
			}
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				warn(lineNo, "empty category name")
				current = -1
				continue
			}
			var existed bool
			current, existed = cfg.category(name)
			if existed {
				warn(lineNo, "category %q declared more than once", name)
			}
			continue
		}

		if current < 0 {
			warn(lineNo, "ingredient %q is not under a category", line)
			continue
		}

		var ing Ingredient
		for _, name := range strings.Split(line, "|") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			key := domain.NormalizeName(name)
			if prev, ok := cfg.index[key]; ok {
				warn(lineNo, "ingredient %q already listed under %q", name, prev.category)
				continue
			}
			if ing.Common == "" {
				ing.Common = name
			} else {
				ing.Aliases = append(ing.Aliases, name)
			}
			cfg.index[key] = entry{category: cfg.categories[current].Name, common: ing.Common}
		}
		if ing.Common != "" {
			cfg.categories[current].Ingredients = append(cfg.categories[current].Ingredients, ing)
		}
	}

	return cfg, warnings
}

// category returns the index of the named category, creating it if needed.
func (c *Config) category(name string) (int, bool) {
	for i, cat := range c.categories {
		if cat.Name == name {
			return i, true
		}
	}
	c.categories = append(c.categories, Category{Name: name})
	return len(c.categories) - 1, false
}

// Category returns the category an ingredient belongs to.
func (c *Config) Category(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	e, ok := c.index[domain.NormalizeName(name)]
	return e.category, ok
}

// CommonName resolves an alias to its common name. Unknown names come back
// unchanged.
func (c *Config) CommonName(name string) string {
	if c == nil {
		return name
	}
	if e, ok := c.index[domain.NormalizeName(name)]; ok {
		return e.common
	}
	return name
}

// Categories returns category names in file order.
func (c *Config) Categories() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.Name
	}
	return out
}

// Len is the number of categories.
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}
