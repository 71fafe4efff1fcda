// Package explorer implements an interactive terminal browser over a
// loaded workload's splitting/packing design-space catalogs, grounded on
// the teacher's bubbletea list models (internal/cli's former RepoListModel/
// ManifestListModel) but walking (level, dataspace) catalog slots instead
// of GitHub repositories and manifest files.
package explorer

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/designspace"
	"github.com/maeri-project/timeloop/pkg/core/legalize"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorDim    = lipgloss.Color("240")

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNormal   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleSplit    = lipgloss.NewStyle().Foreground(colorYellow)
	stylePack     = lipgloss.NewStyle().Foreground(colorGreen)
)

// slotRow is one flattened (level, dataspace) row in the browser list.
type slotRow struct {
	level     int
	dataspace string
	splitting []designspace.SplittingOption
	packing   []designspace.PackingOption
}

// Model is the bubbletea model for browsing a Legal's catalogs.
type Model struct {
	legal *legalize.Legal
	arch  archspec.List
	rows  []slotRow

	cursor    int
	optCursor int
	viewing   bool // true when drilled into a slot's option list

	splittingID, packingID uint64
	result                 string
	err                    error
}

// New builds a browser Model over lg's catalogs. lg must already be
// Init'd.
func New(lg *legalize.Legal, arch archspec.List) (Model, error) {
	cat, err := lg.Catalogs()
	if err != nil {
		return Model{}, err
	}
	var rows []slotRow
	for level, row := range cat.Slots {
		for dsIdx, slot := range row {
			rows = append(rows, slotRow{
				level:     level,
				dataspace: cat.DataspaceOrder[dsIdx],
				splitting: slot.Splitting,
				packing:   slot.Packing,
			})
		}
	}
	return Model{legal: lg, arch: arch, rows: rows}, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.viewing {
			m.viewing = false
			m.optCursor = 0
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		if m.viewing {
			if m.optCursor > 0 {
				m.optCursor--
			}
		} else if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.viewing {
			if m.optCursor < m.optionCount()-1 {
				m.optCursor++
			}
		} else if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter":
		if !m.viewing && m.optionCount() > 0 {
			m.viewing = true
			m.optCursor = 0
		} else if m.viewing {
			m.result, m.err = m.construct()
		}
	}
	return m, nil
}

func (m Model) optionCount() int {
	row := m.rows[m.cursor]
	return len(row.splitting) + len(row.packing)
}

// construct materializes the layout at the model's (splittingID,
// packingID), which no key binding changes, so every preview is the layout
// at IDs 0/0; the highlighted option does not change which IDs are
// constructed. The browser inspects catalogs and has no multi-slot picker.
func (m Model) construct() (string, error) {
	l, err := m.legal.Construct(context.Background(), m.splittingID, m.packingID)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for level := range l.Levels {
		fmt.Fprintf(&b, "level %d: %d dataspaces\n", level, len(l.Levels[level].Nests))
	}
	return b.String(), nil
}

func (m Model) View() string {
	if m.viewing {
		return m.viewSlot()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Design-space catalogs"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ navigate  ⏎ open slot  q quit"))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		kind := styleDim.Render("concordant")
		switch {
		case len(row.splitting) > 0:
			kind = styleSplit.Render(fmt.Sprintf("%d splitting options", len(row.splitting)))
		case len(row.packing) > 0:
			kind = stylePack.Render(fmt.Sprintf("%d packing options", len(row.packing)))
		}
		levelName := fmt.Sprintf("L%d", row.level)
		if row.level < len(m.arch) {
			levelName = m.arch[row.level].Name
		}
		line := fmt.Sprintf("%s%-10s %-12s %s", cursor, levelName, row.dataspace, kind)
		if i == m.cursor {
			b.WriteString(styleSelected.Render(line))
		} else {
			b.WriteString(styleNormal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("[%d/%d slots]", m.cursor+1, len(m.rows))))
	return b.String()
}

func (m Model) viewSlot() string {
	row := m.rows[m.cursor]
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", styleTitle.Render(fmt.Sprintf("Slot: level %d, %s", row.level, row.dataspace)))
	b.WriteString(styleDim.Render("↑/↓ navigate  ⏎ construct preview  esc back  q quit"))
	b.WriteString("\n\n")

	idx := 0
	for _, opt := range row.splitting {
		m.writeOption(&b, idx, "split", opt.Ranks, opt.Factors)
		idx++
	}
	for _, opt := range row.packing {
		m.writeOption(&b, idx, "pack", opt.Ranks, opt.Factors)
		idx++
	}

	if m.result != "" {
		b.WriteString("\n")
		b.WriteString(styleDim.Render(m.result))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Render(m.err.Error()))
	}
	return b.String()
}

func (m Model) writeOption(b *strings.Builder, idx int, kind string, ranks []string, factors map[string]int) {
	cursor := "  "
	if idx == m.optCursor {
		cursor = "▸ "
	}
	parts := make([]string, len(ranks))
	for i, r := range ranks {
		parts[i] = fmt.Sprintf("%s=%d", r, factors[r])
	}
	line := fmt.Sprintf("%s[%s] %s", cursor, kind, strings.Join(parts, " "))
	if idx == m.optCursor {
		b.WriteString(styleSelected.Render(line))
	} else {
		b.WriteString(styleNormal.Render(line))
	}
	b.WriteString("\n")
}
