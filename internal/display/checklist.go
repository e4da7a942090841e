package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// ── Key bindings ─────────────────────────────────────────────────

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "tick"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear ticks"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// ── Checklist model ──────────────────────────────────────────────

type row struct {
	category string
	item     domain.ShoppingItem
}

// Checklist is a Bubble Tea model for ticking items off while shopping.
type Checklist struct {
	rows    []row
	cursor  int
	checked map[int]bool
	help    help.Model
	done    bool
}

// NewChecklist builds a checklist over every item of the list, in order.
func NewChecklist(list *domain.ShoppingList) Checklist {
	c := Checklist{checked: make(map[int]bool), help: help.New()}
	if list == nil {
		return c
	}
	for _, cat := range list.Categories {
		for _, item := range cat.Items {
			c.rows = append(c.rows, row{category: cat.Category, item: item})
		}
	}
	return c
}

// RunChecklist runs the checklist until the user quits and returns the
// names of the ticked items.
func RunChecklist(list *domain.ShoppingList) ([]string, error) {
	final, err := tea.NewProgram(NewChecklist(list)).Run()
	if err != nil {
		return nil, err
	}
	return final.(Checklist).Checked(), nil
}

// Checked returns the names of ticked items in list order.
func (c Checklist) Checked() []string {
	var out []string
	for i, r := range c.rows {
		if c.checked[i] {
			out = append(out, r.item.Name)
		}
	}
	return out
}

func (c Checklist) Init() tea.Cmd { return nil }

func (c Checklist) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			c.done = true
			return c, tea.Quit
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.rows)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if len(c.rows) > 0 {
				c.checked[c.cursor] = !c.checked[c.cursor]
			}
		case key.Matches(msg, keys.Clear):
			c.checked = make(map[int]bool)
		}

	case tea.WindowSizeMsg:
		c.help.Width = msg.Width
	}
	return c, nil
}

func (c Checklist) View() string {
	if len(c.rows) == 0 {
		return secondaryStyle.Render(indent+"Nothing to buy.") + "\n"
	}

	var b strings.Builder
	for i, r := range c.rows {
		if i == 0 || c.rows[i-1].category != r.category {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(categoryStyle.Render(r.category))
			b.WriteByte('\n')
		}

		pointer := "  "
		if i == c.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ] "
		line := r.item.Name
		if q := FormatQuantities(r.item.Quantities); q != "" {
			line += "  " + q
		}
		if c.checked[i] {
			box = "[x] "
			line = checkedStyle.Render(line)
		} else {
			line = primaryStyle.Render(line)
		}
		b.WriteString(pointer + box + line + "\n")
	}

	if !c.done {
		b.WriteString("\n" + c.help.View(keys) + "\n")
	}
	return b.String()
}
