package storage

import (
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

const (
	fieldSep = "\t"
	header   = "# Shopping List\n# Format: path<TAB>name<TAB>scale<TAB>kind<TAB>quantity\n\n"
)

// decode parses the store file. Blank lines and lines starting with '#'
// are ignored; records with fewer than three fields are skipped.
func decode(content string) []domain.ReferenceItem {
	var items []domain.ReferenceItem
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, fieldSep)
		if len(parts) < 3 {
			continue
		}

		scale, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			scale = 1.0
		}

		kind := domain.KindRecipe
		if len(parts) > 3 {
			kind = domain.ParseItemKind(parts[3])
		}

		var quantity *string
		if len(parts) > 4 && strings.TrimSpace(parts[4]) != "" {
			q := parts[4]
			quantity = &q
		}

		items = append(items, domain.ReferenceItem{
			Path:     parts[0],
			Name:     parts[1],
			Scale:    scale,
			Kind:     kind,
			Quantity: quantity,
		})
	}
	return items
}

// encode renders items behind the header, one record per line, in order.
func encode(items []domain.ReferenceItem) string {
	var b strings.Builder
	b.WriteString(header)
	for _, item := range items {
		quantity := ""
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		b.WriteString(strings.Join([]string{
			item.Path,
			item.Name,
			domain.FormatAmount(item.Scale),
			item.Kind.String(),
			quantity,
		}, fieldSep))
		b.WriteByte('\n')
	}
	return b.String()
}
