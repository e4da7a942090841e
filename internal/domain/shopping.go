package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemKind tells a recipe reference from a free-form custom item.
type ItemKind int

const (
	// KindRecipe references a recipe by path. It is the default.
	KindRecipe ItemKind = iota
	// KindCustom is a manually added item that never goes through recipes.
	KindCustom
)

// String returns the lowercase wire name of the kind.
func (k ItemKind) String() string {
	switch k {
	case KindCustom:
		return "custom"
	default:
		return "recipe"
	}
}

// ParseItemKind matches s case-insensitively against recipe and custom.
// Anything else, including the empty string, is a recipe.
func ParseItemKind(s string) ItemKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "custom":
		return KindCustom
	default:
		return KindRecipe
	}
}

// MarshalJSON encodes the kind as its wire name.
func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON applies the same unknown-is-recipe rule as ParseItemKind.
func (k *ItemKind) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*k = KindRecipe
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("kind must be a string: %w", err)
	}
	*k = ParseItemKind(s)
	return nil
}

// ReferenceItem is one stored line of the shopping list: a pointer to a
// recipe or a custom entry, never the resolved ingredients.
type ReferenceItem struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Scale    float64  `json:"scale"`
	Kind     ItemKind `json:"kind"`
	Quantity *string  `json:"quantity"`
}

// AddRequest is the shape accepted when adding to the store. Name is
// required; Path may be empty for custom items and is then generated.
type AddRequest struct {
	Path     string
	Name     string
	Scale    *float64
	Kind     ItemKind
	Quantity *string
}

// AggregateEntry is one element of an aggregation request. Unlike
// AddRequest, Name is optional and custom entries fall back to Recipe for
// their display name.
type AggregateEntry struct {
	Recipe   string   `json:"recipe"`
	Scale    *float64 `json:"scale,omitempty"`
	Kind     ItemKind `json:"kind"`
	Name     *string  `json:"name,omitempty"`
	Quantity *string  `json:"quantity,omitempty"`
}

// EntryFromReference turns a stored reference into an aggregation entry.
func EntryFromReference(item ReferenceItem) AggregateEntry {
	scale := item.Scale
	name := item.Name
	return AggregateEntry{
		Recipe:   item.Path,
		Scale:    &scale,
		Kind:     item.Kind,
		Name:     &name,
		Quantity: item.Quantity,
	}
}

// Quantity is an amount of something: a number, or free text such as
// "a pinch". IsText marks text quantities, including an empty one.
type Quantity struct {
	Amount float64
	Text   string
	Unit   string
	IsText bool
}

// TextQuantity returns a text quantity holding s verbatim.
func TextQuantity(s string) Quantity {
	return Quantity{Text: s, IsText: true}
}

// IsNumeric reports whether the quantity carries a number rather than text.
func (q Quantity) IsNumeric() bool { return !q.IsText && q.Text == "" }

// String renders the quantity the way a person would write it.
func (q Quantity) String() string {
	v := q.Text
	if q.IsNumeric() {
		v = FormatAmount(q.Amount)
	}
	if q.Unit == "" {
		return v
	}
	return v + " " + q.Unit
}

type quantityJSON struct {
	Value any    `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// MarshalJSON encodes {"value": number|string, "unit": "..."}.
func (q Quantity) MarshalJSON() ([]byte, error) {
	out := quantityJSON{Unit: q.Unit}
	if q.IsNumeric() {
		out.Value = q.Amount
	} else {
		out.Value = q.Text
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts what MarshalJSON produces.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var in struct {
		Value json.RawMessage `json:"value"`
		Unit  string          `json:"unit"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*q = Quantity{Unit: in.Unit}
	if err := json.Unmarshal(in.Value, &q.Amount); err == nil {
		return nil
	}
	q.IsText = true
	return json.Unmarshal(in.Value, &q.Text)
}

// FormatAmount prints a float in its shortest form: 2 not 2.0, 0.5 not 5e-01.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CustomCategory is the trailing category that holds custom items.
const CustomCategory = "Custom Items"

// ShoppingItem is one line of the rendered list.
type ShoppingItem struct {
	Name       string     `json:"name"`
	Quantities []Quantity `json:"quantities"`
}

// Category groups shopping items under an aisle.
type Category struct {
	Category string         `json:"category"`
	Items    []ShoppingItem `json:"items"`
}

// ShoppingList is the aggregated, categorized result. PantryItems lists
// the ingredients found in stock; it is empty when no pantry is configured.
type ShoppingList struct {
	Categories  []Category `json:"categories"`
	PantryItems []string   `json:"pantry_items"`
}
