package layout

import (
	"testing"

	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/variant"
)

// gridSet builds a 2x2 variant set (colors none/solid, sizes 16/24) with
// deliberately shuffled storage order and stale anchoring.
func gridSet() (*document.Set, variant.Info) {
	attrs := func(color, size string) map[string]string {
		return map[string]string{"Set": "a", "Style": "filled", "Color": color, "Size": size}
	}
	items := []*document.Item{
		{NodeID: "solid24", NodeName: "solid24", Attrs: attrs("solid", "24"), W: 16, H: 16, AnchorMode: "scale"},
		{NodeID: "none16", NodeName: "none16", Attrs: attrs("none", "16"), W: 16, H: 16, AnchorMode: "scale",
			Kids: []*document.Item{{NodeID: "vec1", NodeName: "vector", W: 10, H: 10, AnchorMode: "scale"}}},
		{NodeID: "solid16", NodeName: "solid16", Attrs: attrs("solid", "16"), W: 16, H: 16},
		{NodeID: "none24", NodeName: "none24", Attrs: attrs("none", "24"), W: 16, H: 16},
	}
	s := &document.Set{NodeID: "s1", NodeName: "Icons", W: 1, H: 1, Items: items}

	var variants []variant.Variant
	for _, it := range items {
		variants = append(variants, variant.Variant{
			NodeID: it.NodeID, Name: it.NodeName, Attributes: it.Attrs, Width: it.W, Height: it.H,
		})
	}
	return s, variant.Collect(variants)
}

func TestApplyPlacesAndResizes(t *testing.T) {
	s, info := gridSet()
	cfg := testConfig()

	plan, err := Plan(info, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := Apply(info, plan, s, cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	wantPos := map[string][2]float64{
		"none16":  {20, 20},
		"none24":  {72, 20},
		"solid16": {20, 72},
		"solid24": {72, 72},
	}
	for _, it := range s.Items {
		want, ok := wantPos[it.NodeID]
		if !ok {
			t.Fatalf("unexpected child %s", it.NodeID)
		}
		if it.X != want[0] || it.Y != want[1] {
			t.Errorf("%s at (%v, %v), want (%v, %v)", it.NodeID, it.X, it.Y, want[0], want[1])
		}
	}

	// Tight bounds: box spans (20,20)-(88,88), container 68+2*20 square.
	if s.W != 108 || s.H != 108 {
		t.Errorf("container size = (%v, %v), want (108, 108)", s.W, s.H)
	}
}

func TestApplyReordersRowMajor(t *testing.T) {
	s, info := gridSet()
	cfg := testConfig()

	plan, _ := Plan(info, cfg)
	if err := Apply(info, plan, s, cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []string{"none16", "none24", "solid16", "solid24"}
	for i, it := range s.Items {
		if it.NodeID != want[i] {
			t.Errorf("storage order[%d] = %s, want %s", i, it.NodeID, want[i])
		}
	}
}

func TestApplyResetsAnchorsRecursively(t *testing.T) {
	s, info := gridSet()
	cfg := testConfig()

	plan, _ := Plan(info, cfg)
	if err := Apply(info, plan, s, cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for _, it := range s.Items {
		if it.AnchorMode != document.AnchorTopLeft {
			t.Errorf("%s anchor = %q, want %q", it.NodeID, it.AnchorMode, document.AnchorTopLeft)
		}
		for _, kid := range it.Kids {
			if kid.AnchorMode != document.AnchorTopLeft {
				t.Errorf("%s/%s anchor = %q, want %q", it.NodeID, kid.NodeID, kid.AnchorMode, document.AnchorTopLeft)
			}
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	s, info := gridSet()
	cfg := Default() // centering on: the harder case for drift

	plan, err := Plan(info, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := Apply(info, plan, s, cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	type snap struct{ x, y, w, h float64 }
	first := make(map[string]snap)
	for _, it := range s.Items {
		first[it.NodeID] = snap{it.X, it.Y, it.W, it.H}
	}
	firstW, firstH := s.W, s.H

	// Second run re-scans the already-arranged content.
	var rescanned []variant.Variant
	for _, it := range s.Items {
		rescanned = append(rescanned, variant.Variant{
			NodeID: it.NodeID, Name: it.NodeName, Attributes: it.Attrs, Width: it.W, Height: it.H,
		})
	}
	info2 := variant.Collect(rescanned)
	plan2, err := Plan(info2, cfg)
	if err != nil {
		t.Fatalf("second Plan: %v", err)
	}
	if err := Apply(info2, plan2, s, cfg); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	for _, it := range s.Items {
		if got := (snap{it.X, it.Y, it.W, it.H}); got != first[it.NodeID] {
			t.Errorf("%s drifted: %+v -> %+v", it.NodeID, first[it.NodeID], got)
		}
	}
	if s.W != firstW || s.H != firstH {
		t.Errorf("container drifted: (%v, %v) -> (%v, %v)", firstW, firstH, s.W, s.H)
	}
}

func TestApplyBoundingBoxTightness(t *testing.T) {
	// Mixed heights under centering exercise the translate step.
	attrs := func(size string) map[string]string {
		return map[string]string{"Style": "filled", "Color": "none", "Size": size}
	}
	items := []*document.Item{
		{NodeID: "i16", NodeName: "i16", Attrs: attrs("16"), W: 16, H: 16},
		{NodeID: "i24", NodeName: "i24", Attrs: attrs("24"), W: 24, H: 24},
	}
	s := &document.Set{NodeID: "s", NodeName: "Mixed", Items: items}

	var variants []variant.Variant
	for _, it := range items {
		variants = append(variants, variant.Variant{
			NodeID: it.NodeID, Name: it.NodeName, Attributes: it.Attrs, Width: it.W, Height: it.H,
		})
	}
	info := variant.Collect(variants)
	cfg := Default()

	plan, err := Plan(info, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := Apply(info, plan, s, cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	minX, minY := items[0].X, items[0].Y
	maxX, maxY := items[0].X+items[0].W, items[0].Y+items[0].H
	for _, it := range items[1:] {
		minX = min(minX, it.X)
		minY = min(minY, it.Y)
		maxX = max(maxX, it.X+it.W)
		maxY = max(maxY, it.Y+it.H)
	}

	if minX != cfg.Padding || minY != cfg.Padding {
		t.Errorf("box top-left = (%v, %v), want (%v, %v)", minX, minY, cfg.Padding, cfg.Padding)
	}
	if s.W != maxX-minX+2*cfg.Padding {
		t.Errorf("width = %v, want %v", s.W, maxX-minX+2*cfg.Padding)
	}
	if s.H != maxY-minY+2*cfg.Padding {
		t.Errorf("height = %v, want %v", s.H, maxY-minY+2*cfg.Padding)
	}
	if maxX != s.W-cfg.Padding || maxY != s.H-cfg.Padding {
		t.Error("no child touches the right/bottom padding boundary")
	}
}

func TestApplyEmptyContainer(t *testing.T) {
	s := &document.Set{NodeID: "s", NodeName: "Empty", W: 50, H: 40}
	info := variant.Collect(nil)

	if err := Apply(info, map[string]Point{}, s, testConfig()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.W != 50 || s.H != 40 {
		t.Errorf("empty container resized to (%v, %v)", s.W, s.H)
	}
}
