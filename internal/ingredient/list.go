// Package ingredient merges recipe ingredients into a shopping list and
// shapes that list with the aisle and pantry configurations.
package ingredient

import (
	"sort"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/aisle"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/pantry"
)

type entry struct {
	name       string
	quantities []domain.Quantity
}

// List is an ordered mapping of ingredient name to quantities. Names are
// matched case-insensitively with whitespace collapsed; the first spelling
// seen is kept for display.
type List struct {
	order []string
	items map[string]*entry
}

// NewList returns an empty list.
func NewList() *List {
	return &List{items: make(map[string]*entry)}
}

// Add merges quantities into the named ingredient, creating it if needed.
// Numeric quantities in the same unit are summed; text quantities are kept
// once each. Calling Add with no quantities only records the ingredient.
func (l *List) Add(name string, qs ...domain.Quantity) {
	key := domain.NormalizeName(name)
	if key == "" {
		return
	}
	e, ok := l.items[key]
	if !ok {
		e = &entry{name: strings.TrimSpace(name)}
		l.items[key] = e
		l.order = append(l.order, key)
	}
	for _, q := range qs {
		e.quantities = merge(e.quantities, q)
	}
}

func merge(qs []domain.Quantity, q domain.Quantity) []domain.Quantity {
	for i := range qs {
		if !strings.EqualFold(qs[i].Unit, q.Unit) || qs[i].IsNumeric() != q.IsNumeric() {
			continue
		}
		if q.IsNumeric() {
			qs[i].Amount += q.Amount
			return qs
		}
		if qs[i].Text == q.Text {
			return qs
		}
	}
	return append(qs, q)
}

// Get returns the quantities of an ingredient.
func (l *List) Get(name string) ([]domain.Quantity, bool) {
	e, ok := l.items[domain.NormalizeName(name)]
	if !ok {
		return nil, false
	}
	return e.quantities, true
}

// Names returns ingredient names in insertion order.
func (l *List) Names() []string {
	out := make([]string, len(l.order))
	for i, key := range l.order {
		out[i] = l.items[key].name
	}
	return out
}

// Len is the number of distinct ingredients.
func (l *List) Len() int { return len(l.order) }

// Clone returns a deep copy.
func (l *List) Clone() *List {
	out := NewList()
	for _, key := range l.order {
		e := l.items[key]
		out.Add(e.name, e.quantities...)
	}
	return out
}

// UseCommonNames renames every ingredient to its aisle common name,
// merging aliases of the same ingredient.
func (l *List) UseCommonNames(cfg *aisle.Config) *List {
	out := NewList()
	for _, key := range l.order {
		e := l.items[key]
		out.Add(cfg.CommonName(e.name), e.quantities...)
	}
	return out
}

// SubtractPantry removes what is already in stock. An entry without a
// quantity, or marked unlimited, covers the ingredient entirely. A numeric
// stock reduces numeric demand in the same unit; an ingredient is dropped
// once nothing of it remains. Stock that is zero, negative or unreadable
// subtracts nothing.
func (l *List) SubtractPantry(p *pantry.Config) *List {
	out := NewList()
	for _, key := range l.order {
		e := l.items[key]
		_, item, found := p.FindIngredient(e.name)
		if !found {
			out.Add(e.name, e.quantities...)
			continue
		}

		raw, has := item.QuantityString()
		if !has || IsUnlimited(raw) {
			continue
		}
		stock, unit, ok := item.ParsedQuantity()
		if !ok || stock <= 0 {
			out.Add(e.name, e.quantities...)
			continue
		}

		var left []domain.Quantity
		for _, q := range e.quantities {
			if !q.IsNumeric() || !strings.EqualFold(q.Unit, unit) || stock <= 0 {
				left = append(left, q)
				continue
			}
			if stock >= q.Amount {
				stock -= q.Amount
				continue
			}
			q.Amount -= stock
			stock = 0
			left = append(left, q)
		}
		if len(left) > 0 {
			out.Add(e.name, left...)
		}
	}
	return out
}

// IsUnlimited reports whether a pantry quantity means "never runs out".
func IsUnlimited(q string) bool {
	return q == "unlim" || q == "unlimited"
}

// OtherCategory holds ingredients the aisle configuration does not know.
const OtherCategory = "other"

// Group is one category of the categorized list.
type Group struct {
	Name  string
	Items []domain.ShoppingItem
}

// Categorize groups ingredients by aisle category, in aisle file order,
// with unknown ingredients last under "other". Items are sorted by name
// inside each group. Groups without items are left out.
func (l *List) Categorize(cfg *aisle.Config) []Group {
	byCat := make(map[string][]domain.ShoppingItem)
	for _, key := range l.order {
		e := l.items[key]
		cat, ok := cfg.Category(e.name)
		if !ok {
			cat = OtherCategory
		}
		qs := make([]domain.Quantity, len(e.quantities))
		copy(qs, e.quantities)
		byCat[cat] = append(byCat[cat], domain.ShoppingItem{Name: e.name, Quantities: qs})
	}

	order := append(cfg.Categories(), OtherCategory)
	groups := make([]Group, 0, len(byCat))
	for _, name := range order {
		items, ok := byCat[name]
		if !ok {
			continue
		}
		delete(byCat, name)
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})
		groups = append(groups, Group{Name: name, Items: items})
	}
	return groups
}
