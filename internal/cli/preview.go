package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the preview command, an interactive plan browser.
func (c *CLI) previewCommand() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "preview [document.json]",
		Short: "Browse computed grid plans interactively",
		Long: `Browse computed grid plans interactively.

The preview command computes a plan for every variant set in the document
and opens a terminal browser: pick a set to see where each variant would
land. Nothing is modified; use 'arrange' to apply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return c.runPreview(args[0], cfg)
		},
	}

	flags.register(cmd)
	return cmd
}

// setPreview is one set's computed plan for display.
type setPreview struct {
	name    string
	issue   string // non-empty when the set cannot be planned
	entries []previewEntry
}

// previewEntry is one variant's planned placement.
type previewEntry struct {
	name string
	key  string
	pt   layout.Point
}

// runPreview computes plans and starts the browser.
func (c *CLI) runPreview(input string, cfg layout.Config) error {
	doc, err := document.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	var previews []setPreview
	for _, s := range doc.Sets {
		previews = append(previews, buildPreview(s, cfg))
	}
	if len(previews) == 0 {
		printInfo("Document has no variant sets")
		return nil
	}

	model := NewPlanBrowserModel(previews)
	_, err = tea.NewProgram(model).Run()
	return err
}

// buildPreview scans and plans one set.
func buildPreview(s *document.Set, cfg layout.Config) setPreview {
	p := setPreview{name: s.NodeName}

	info, childCount := pipeline.Scan(s)
	if err := pipeline.CheckSet(info, childCount); err != nil {
		p.issue = err.Error()
		return p
	}
	plan, err := layout.Plan(info, cfg)
	if err != nil {
		p.issue = err.Error()
		return p
	}

	for _, v := range info.Variants {
		key := v.Key(info.PropertyKeys)
		pt, ok := plan[key]
		if !ok {
			continue
		}
		p.entries = append(p.entries, previewEntry{name: v.Name, key: key, pt: pt})
	}
	sort.Slice(p.entries, func(i, j int) bool {
		a, b := p.entries[i].pt, p.entries[j].pt
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return p
}

// =============================================================================
// PlanBrowserModel - Interactive plan browsing
// =============================================================================

// PlanBrowserModel is the bubbletea model for browsing computed plans.
type PlanBrowserModel struct {
	Previews []setPreview
	Cursor   int
	Height   int
}

// NewPlanBrowserModel creates a new plan browser model.
func NewPlanBrowserModel(previews []setPreview) PlanBrowserModel {
	return PlanBrowserModel{Previews: previews, Height: 20}
}

func (m PlanBrowserModel) Init() tea.Cmd {
	return nil
}

func (m PlanBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Previews)-1 {
				m.Cursor++
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PlanBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Grid Plan Preview"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ switch set  q quit"))
	b.WriteString("\n\n")

	for i, p := range m.Previews {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-24s %s", cursor, p.name, listDimStyle.Render(previewSummary(p)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if p.issue != "" {
			b.WriteString(listDimStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	current := m.Previews[m.Cursor]
	if current.issue != "" {
		b.WriteString(StyleWarning.Render("! " + current.issue))
		b.WriteString("\n")
		return b.String()
	}

	rows := [][]string{}
	limit := min(len(current.entries), m.Height)
	for _, e := range current.entries[:limit] {
		rows = append(rows, []string{
			e.name, e.key,
			fmt.Sprintf("%.0f", e.pt.X),
			fmt.Sprintf("%.0f", e.pt.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Variant", "Key", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(current.entries) > limit {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", len(current.entries)-limit)))
		b.WriteString("\n")
	}

	return b.String()
}

// previewSummary describes a set in one short phrase.
func previewSummary(p setPreview) string {
	if p.issue != "" {
		return "unplannable"
	}
	return fmt.Sprintf("%d variants", len(p.entries))
}
