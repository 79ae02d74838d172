// Package report builds the structured rotation report emitted when the
// rotation gate aborts a run.
//
// The payload is a pure data transformation: the full report text plus
// role-tagged character ranges (title, group name, item) that let any
// renderer apply styling per range. Glyph rendering and canvas insertion
// are host responsibilities; this package only knows how to lay the text
// out and, for terminal use, how to style it with lipgloss.
package report

import "strings"

// Title is the fixed first line of every rotation report.
const Title = "Rotation issues detected — normalize rotation to zero and re-run"

// FontSize is the fixed font size for rendered report text.
const FontSize = 12.0

// Role tags a character range for styling.
type Role string

// Range roles.
const (
	RoleTitle Role = "title"
	RoleGroup Role = "group"
	RoleItem  Role = "item"
)

// Group is one variant set with non-conforming items.
type Group struct {
	Name  string   `json:"name" bson:"name"`
	Items []string `json:"items" bson:"items"`
}

// Range is a half-open character range [Start, End) within the payload text.
type Range struct {
	Start int  `json:"start" bson:"start"`
	End   int  `json:"end" bson:"end"`
	Role  Role `json:"role" bson:"role"`
}

// Payload is the renderable report: full text, a fixed font size, and the
// style ranges. Ranges never overlap and are ordered by Start.
type Payload struct {
	Text     string  `json:"text" bson:"text"`
	FontSize float64 `json:"font_size" bson:"font_size"`
	Ranges   []Range `json:"ranges" bson:"ranges"`
}

// Build produces the report payload for the given groups:
//
//	<title, bold>
//	<blank>
//	• <group name, bold>
//	    <item>
//	    <item>
//	<blank between groups>
//
// Character offsets are byte offsets into Text.
func Build(groups []Group) Payload {
	var b strings.Builder
	var ranges []Range

	tag := func(role Role, write func()) {
		start := b.Len()
		write()
		ranges = append(ranges, Range{Start: start, End: b.Len(), Role: role})
	}

	tag(RoleTitle, func() { b.WriteString(Title) })
	b.WriteString("\n\n")

	for gi, g := range groups {
		b.WriteString("• ")
		tag(RoleGroup, func() { b.WriteString(g.Name) })
		b.WriteString("\n")
		for _, item := range g.Items {
			b.WriteString("    ")
			tag(RoleItem, func() { b.WriteString(item) })
			b.WriteString("\n")
		}
		if gi < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	return Payload{
		Text:     b.String(),
		FontSize: FontSize,
		Ranges:   ranges,
	}
}
