package report

import (
	"strings"
	"testing"
)

func TestBuildSingleGroup(t *testing.T) {
	p := Build([]Group{
		{Name: "Icons", Items: []string{"Size=16", "Size=24"}},
	})

	want := Title + "\n\n• Icons\n    Size=16\n    Size=24\n"
	if p.Text != want {
		t.Errorf("Text = %q, want %q", p.Text, want)
	}
	if p.FontSize != FontSize {
		t.Errorf("FontSize = %v, want %v", p.FontSize, FontSize)
	}
}

func TestBuildGroupSeparators(t *testing.T) {
	p := Build([]Group{
		{Name: "A", Items: []string{"one"}},
		{Name: "B", Items: []string{"two"}},
	})

	// Blank line between groups, none after the last.
	if !strings.Contains(p.Text, "    one\n\n• B") {
		t.Errorf("missing blank separator between groups:\n%q", p.Text)
	}
	if strings.HasSuffix(p.Text, "\n\n") {
		t.Errorf("trailing blank line after last group:\n%q", p.Text)
	}
}

func TestBuildRanges(t *testing.T) {
	groups := []Group{
		{Name: "Icons", Items: []string{"Size=16"}},
		{Name: "Badges", Items: []string{"solid", "outline"}},
	}
	p := Build(groups)

	var titles, groupNames, items []string
	prevEnd := 0
	for _, r := range p.Ranges {
		if r.Start < prevEnd {
			t.Fatalf("ranges overlap or are unordered at %+v", r)
		}
		prevEnd = r.End
		seg := p.Text[r.Start:r.End]
		switch r.Role {
		case RoleTitle:
			titles = append(titles, seg)
		case RoleGroup:
			groupNames = append(groupNames, seg)
		case RoleItem:
			items = append(items, seg)
		}
	}

	if len(titles) != 1 || titles[0] != Title {
		t.Errorf("title ranges = %v", titles)
	}
	if len(groupNames) != 2 || groupNames[0] != "Icons" || groupNames[1] != "Badges" {
		t.Errorf("group ranges = %v", groupNames)
	}
	if len(items) != 3 {
		t.Errorf("item ranges = %v", items)
	}
}

func TestBuildEmpty(t *testing.T) {
	p := Build(nil)
	if !strings.HasPrefix(p.Text, Title) {
		t.Errorf("empty report should still carry the title: %q", p.Text)
	}
	if len(p.Ranges) != 1 {
		t.Errorf("Ranges = %v, want title only", p.Ranges)
	}
}

func TestRenderTerminalCoversAllText(t *testing.T) {
	p := Build([]Group{{Name: "Icons", Items: []string{"a", "b"}}})
	out := RenderTerminal(p)

	// Styling may inject escape codes but must not drop any payload text.
	for _, fragment := range []string{Title, "Icons", "a", "b", "• "} {
		if !strings.Contains(out, fragment) {
			t.Errorf("rendered output missing %q", fragment)
		}
	}
}
