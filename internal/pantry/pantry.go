// Package pantry parses the pantry file: what is already at home, and how
// much of it. The file is TOML, one table per storage place:
//
//	[fridge]
//	milk = "1%l"
//	eggs = { quantity = "6", expire = "2026-10-30" }
//
//	[cupboard]
//	salt = "unlimited"
//	pepper = {}
package pantry

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// Item is one stocked ingredient.
type Item struct {
	Name     string
	Section  string
	Quantity *string
	Bought   string
	Expire   string
	Low      string
}

// QuantityString returns the raw quantity, if the entry has one.
func (i *Item) QuantityString() (string, bool) {
	if i == nil || i.Quantity == nil {
		return "", false
	}
	return *i.Quantity, true
}

// ParsedQuantity splits the quantity into a number and a unit. It accepts
// "2%kg", "500 g", "500g", "0.5" and simple fractions like "1/2".
func (i *Item) ParsedQuantity() (float64, string, bool) {
	q, ok := i.QuantityString()
	if !ok {
		return 0, "", false
	}
	return ParseAmount(q)
}

// ParseAmount reads a leading number (decimal or a/b fraction) from s and
// returns it with the remaining text as the unit.
func ParseAmount(s string) (float64, string, bool) {
	s = strings.TrimSpace(s)
	if num, unit, found := strings.Cut(s, "%"); found {
		v, ok := parseNumber(strings.TrimSpace(num))
		return v, strings.TrimSpace(unit), ok
	}

	end := 0
	for end < len(s) && strings.ContainsRune("0123456789./-+", rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, "", false
	}
	v, ok := parseNumber(s[:end])
	return v, strings.TrimSpace(s[end:]), ok
}

func parseNumber(s string) (float64, bool) {
	if num, den, found := strings.Cut(s, "/"); found {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// Section is one storage place. Sections and their items are sorted by
// name; decoded TOML tables carry no order.
type Section struct {
	Name  string
	Items []*Item
}

// Config is a parsed pantry.
type Config struct {
	sections []Section
	index    map[string]*Item
}

// ParseLenient parses text. A TOML syntax error makes the whole file
// unusable and yields a nil config; anything else that is off is reported
// as a warning and skipped.
func ParseLenient(text string) (*Config, []domain.Warning) {
	var raw map[string]any
	if err := toml.Unmarshal([]byte(text), &raw); err != nil {
		w := domain.Warning{Message: fmt.Sprintf("invalid pantry file: %v", err)}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			w.Line, _ = derr.Position()
		}
		return nil, []domain.Warning{w}
	}

	cfg := &Config{index: make(map[string]*Item)}
	var warnings []domain.Warning
	warn := func(format string, args ...any) {
		warnings = append(warnings, domain.Warning{Message: fmt.Sprintf(format, args...)})
	}

	for _, sectionName := range sortedKeys(raw) {
		table, ok := raw[sectionName].(map[string]any)
		if !ok {
			warn("%q is outside of a section, ignored", sectionName)
			continue
		}

		section := Section{Name: sectionName}
		for _, name := range sortedKeys(table) {
			item, err := parseItem(sectionName, name, table[name])
			if err != nil {
				warn("[%s] %s: %v", sectionName, name, err)
				continue
			}
			k := key(name)
			if prev, dup := cfg.index[k]; dup {
				warn("[%s] %s: already stocked in [%s], keeping the first", sectionName, name, prev.Section)
				continue
			}
			cfg.index[k] = item
			section.Items = append(section.Items, item)
		}
		cfg.sections = append(cfg.sections, section)
	}

	return cfg, warnings
}

func parseItem(section, name string, value any) (*Item, error) {
	item := &Item{Name: name, Section: section}
	switch v := value.(type) {
	case string:
		item.Quantity = &v
	case int64, float64:
		q := fmt.Sprint(v)
		item.Quantity = &q
	case map[string]any:
		for field, fv := range v {
			switch field {
			case "quantity":
				switch q := fv.(type) {
				case string:
					item.Quantity = &q
				case int64, float64:
					s := fmt.Sprint(q)
					item.Quantity = &s
				default:
					return nil, fmt.Errorf("quantity must be a string or a number, got %T", fv)
				}
			case "bought":
				item.Bought = fmt.Sprint(fv)
			case "expire":
				item.Expire = fmt.Sprint(fv)
			case "low":
				item.Low = fmt.Sprint(fv)
			default:
				return nil, fmt.Errorf("unknown field %q", field)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported value of type %T", value)
	}
	return item, nil
}

// FindIngredient looks an ingredient up by name, ignoring case and
// treating underscores as spaces. It returns the name as written in the
// pantry file.
func (c *Config) FindIngredient(name string) (string, *Item, bool) {
	if c == nil {
		return "", nil, false
	}
	item, ok := c.index[key(name)]
	if !ok {
		return "", nil, false
	}
	return item.Name, item, true
}

// Sections returns the storage places.
func (c *Config) Sections() []Section {
	if c == nil {
		return nil
	}
	return c.sections
}

func key(name string) string {
	return domain.NormalizeName(strings.ReplaceAll(name, "_", " "))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
