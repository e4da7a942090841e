// Package display renders shopping lists in the terminal: a static,
// styled listing and an interactive checklist built on Bubble Tea.
package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is a muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	pantryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b")).
			Strikethrough(true)
)

const indent = "  "

// ── Static rendering ─────────────────────────────────────────────

// Render formats a shopping list for the terminal: one heading per
// category, one line per item with its quantities, and the pantry items
// at the end. width bounds the name column; zero means 80.
func Render(list *domain.ShoppingList, width int) string {
	if list == nil || len(list.Categories) == 0 {
		return secondaryStyle.Render(indent+"Shopping list is empty.") + "\n"
	}
	if width <= 0 {
		width = 80
	}
	nameW := nameColumn(list, width)

	var b strings.Builder
	for i, cat := range list.Categories {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(categoryStyle.Render(cat.Category))
		b.WriteByte('\n')
		for _, item := range cat.Items {
			b.WriteString(indent)
			b.WriteString(primaryStyle.Render(padRight(item.Name, nameW)))
			if q := FormatQuantities(item.Quantities); q != "" {
				b.WriteString(indent)
				b.WriteString(secondaryStyle.Render(q))
			}
			b.WriteByte('\n')
		}
	}

	if len(list.PantryItems) > 0 {
		b.WriteByte('\n')
		b.WriteString(pantryStyle.Render("Already in the pantry: " + strings.Join(list.PantryItems, ", ")))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatQuantities joins quantities as "200 g, 1 cup".
func FormatQuantities(qs []domain.Quantity) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = q.String()
	}
	return strings.Join(parts, ", ")
}

func nameColumn(list *domain.ShoppingList, width int) int {
	w := 0
	for _, cat := range list.Categories {
		for _, item := range cat.Items {
			if n := lipgloss.Width(item.Name); n > w {
				w = n
			}
		}
	}
	if limit := width / 2; w > limit {
		w = limit
	}
	return w
}

func padRight(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
