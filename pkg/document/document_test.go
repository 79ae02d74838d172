package document

import (
	"bytes"
	"context"
	"reflect"
	"testing"
)

func sampleDoc() *Document {
	return &Document{
		Sets: []*Set{
			{
				NodeID: "s1", NodeName: "Icons", X: 10, Y: 20, W: 200, H: 100,
				Items: []*Item{
					{
						NodeID: "i1", NodeName: "Size=16",
						Attrs: map[string]string{"Size": "16", "Style": "filled"},
						X:     20, Y: 20, W: 16, H: 16,
						Kids: []*Item{
							{NodeID: "v1", NodeName: "vector", W: 12, H: 12, AnchorMode: "scale"},
						},
					},
					{NodeID: "i2", NodeName: "Size=24", Attrs: map[string]string{"Size": "24"}, W: 24, H: 24, Rot: 5},
				},
			},
			{NodeID: "s2", NodeName: "Badges"},
		},
		Selected: []string{"s2"},
	}
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDoc()

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if !reflect.DeepEqual(got.Export(), doc.Export()) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got.Export(), doc.Export())
	}
}

func TestImportRejectsDuplicateIDs(t *testing.T) {
	dj := DocJSON{Sets: []SetJSON{
		{ID: "s1", Children: []ItemJSON{{ID: "x"}, {ID: "x"}}},
	}}
	if _, err := Import(dj); err == nil {
		t.Error("Import accepted duplicate node ids")
	}
}

func TestImportRejectsMissingID(t *testing.T) {
	if _, err := Import(DocJSON{Sets: []SetJSON{{Name: "unnamed"}}}); err == nil {
		t.Error("Import accepted set without id")
	}
}

func TestSelection(t *testing.T) {
	doc := sampleDoc()
	ctx := context.Background()

	all, err := doc.Containers(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("Containers = %d, %v; want 2", len(all), err)
	}

	sel, err := doc.Selection(ctx)
	if err != nil || len(sel) != 1 {
		t.Fatalf("Selection = %d, %v; want 1", len(sel), err)
	}
	if sel[0].ID() != "s2" {
		t.Errorf("Selection[0] = %s, want s2", sel[0].ID())
	}
}

func TestReorder(t *testing.T) {
	doc := sampleDoc()
	s := doc.SetByID("s1")

	if err := s.Reorder([]string{"i2", "i1"}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if s.Items[0].NodeID != "i2" || s.Items[1].NodeID != "i1" {
		t.Errorf("order after Reorder = %s, %s", s.Items[0].NodeID, s.Items[1].NodeID)
	}

	if err := s.Reorder([]string{"i1"}); err == nil {
		t.Error("Reorder accepted short id list")
	}
	if err := s.Reorder([]string{"i1", "nope"}); err == nil {
		t.Error("Reorder accepted unknown id")
	}
}

func TestCapabilityAssertions(t *testing.T) {
	// The core discovers what a node can do through type assertions; make
	// sure the in-memory nodes expose the expected capability set.
	var n Node = &Item{NodeID: "i", AnchorMode: "scale"}

	if _, ok := n.(Rotated); !ok {
		t.Error("Item should be Rotated")
	}
	a, ok := n.(Anchorable)
	if !ok {
		t.Fatal("Item should be Anchorable")
	}
	a.SetAnchor(AnchorTopLeft)
	if a.Anchor() != AnchorTopLeft {
		t.Errorf("Anchor = %q, want %q", a.Anchor(), AnchorTopLeft)
	}

	var c Node = &Set{NodeID: "s"}
	if _, ok := c.(Container); !ok {
		t.Error("Set should be a Container")
	}
	if _, ok := c.(Rotated); ok {
		t.Error("Set should not be Rotated")
	}
}

func TestHostRecording(t *testing.T) {
	doc := &Document{}
	doc.Notify("skipped set")
	doc.Reveal([]string{"a", "b"})

	if len(doc.Notifications) != 1 || doc.Notifications[0] != "skipped set" {
		t.Errorf("Notifications = %v", doc.Notifications)
	}
	if len(doc.Revealed) != 2 {
		t.Errorf("Revealed = %v", doc.Revealed)
	}
}
