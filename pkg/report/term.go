package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	termTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("167"))
	termGroup = lipgloss.NewStyle().Bold(true)
	termItem  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// RenderTerminal renders a payload for terminal output, applying the role
// ranges as lipgloss styles. Text outside any range passes through as-is.
func RenderTerminal(p Payload) string {
	var b strings.Builder
	pos := 0
	for _, r := range p.Ranges {
		if r.Start > pos {
			b.WriteString(p.Text[pos:r.Start])
		}
		segment := p.Text[r.Start:r.End]
		switch r.Role {
		case RoleTitle:
			b.WriteString(termTitle.Render(segment))
		case RoleGroup:
			b.WriteString(termGroup.Render(segment))
		case RoleItem:
			b.WriteString(termItem.Render(segment))
		default:
			b.WriteString(segment)
		}
		pos = r.End
	}
	if pos < len(p.Text) {
		b.WriteString(p.Text[pos:])
	}
	return b.String()
}
