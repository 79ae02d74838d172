package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/varigrid/varigrid/pkg/cache"
	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/errors"
	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/report"
)

// item builds a leaf with standard 16x16 dimensions.
func item(id string, attrs map[string]string) *document.Item {
	return &document.Item{NodeID: id, NodeName: id, Attrs: attrs, W: 16, H: 16}
}

// iconSet builds a well-formed two-variant set.
func iconSet(id, name string) *document.Set {
	return &document.Set{NodeID: id, NodeName: name, Items: []*document.Item{
		item(id+"-16", map[string]string{"Style": "filled", "Color": "none", "Size": "16"}),
		item(id+"-24", map[string]string{"Style": "filled", "Color": "none", "Size": "24"}),
	}}
}

func testOptions() Options {
	return Options{Config: layout.Default(), Scope: ScopeAll}
}

func TestExecuteArrangesAllSets(t *testing.T) {
	doc := &document.Document{Sets: []*document.Set{
		iconSet("s2", "Navigation"),
		iconSet("s1", "Arrows"),
	}}
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(context.Background(), doc, testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Containers process in name order.
	if len(result.Arranged) != 2 || result.Arranged[0] != "Arrows" || result.Arranged[1] != "Navigation" {
		t.Errorf("arranged = %v, want [Arrows Navigation]", result.Arranged)
	}
	if len(result.Plans["Arrows"]) != 2 {
		t.Errorf("Arrows plan has %d entries, want 2", len(result.Plans["Arrows"]))
	}
	if result.Stats.SetCount != 2 || result.Stats.VariantCount != 4 {
		t.Errorf("stats = %+v", result.Stats)
	}

	// Whole-document scope spaces the containers left to right.
	arrows := doc.SetByID("s1")
	nav := doc.SetByID("s2")
	if arrows.X != 0 || arrows.Y != 0 {
		t.Errorf("first container at (%v, %v), want origin", arrows.X, arrows.Y)
	}
	wantX := arrows.W + layout.DefaultInterSetGap
	if nav.X != wantX {
		t.Errorf("second container at x=%v, want %v", nav.X, wantX)
	}

	// Variants got grid positions.
	first := arrows.Items[0]
	if first.X != layout.DefaultPadding {
		t.Errorf("first variant x = %v, want %v", first.X, layout.DefaultPadding)
	}

	// Summary notification.
	if len(doc.Notifications) == 0 || !strings.Contains(doc.Notifications[len(doc.Notifications)-1], "Arranged 2") {
		t.Errorf("notifications = %v", doc.Notifications)
	}
}

func TestExecuteSelectionScope(t *testing.T) {
	doc := &document.Document{
		Sets:     []*document.Set{iconSet("s1", "Arrows"), iconSet("s2", "Navigation")},
		Selected: []string{"s2"},
	}
	runner := NewRunner(nil, nil, nil)

	opts := testOptions()
	opts.Scope = ScopeSelection
	result, err := runner.Execute(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Arranged) != 1 || result.Arranged[0] != "Navigation" {
		t.Errorf("arranged = %v, want [Navigation]", result.Arranged)
	}

	// The unselected set is untouched.
	if doc.SetByID("s1").Items[0].X != 0 {
		t.Error("selection scope mutated an unselected container")
	}
}

func TestExecuteRotationGate(t *testing.T) {
	rotated := iconSet("s1", "Arrows")
	rotated.Items[1].Rot = 15
	clean := iconSet("s2", "Navigation")
	doc := &document.Document{Sets: []*document.Set{rotated, clean}}
	runner := NewRunner(nil, nil, nil)

	_, err := runner.Execute(context.Background(), doc, testOptions())
	if !errors.Is(err, errors.ErrCodeRotation) {
		t.Fatalf("error code = %v, want ROTATION_NONZERO", errors.GetCode(err))
	}

	// Zero mutations anywhere, including the clean set.
	for _, s := range doc.Sets {
		for _, it := range s.Items {
			if it.X != 0 || it.Y != 0 {
				t.Errorf("%s moved to (%v, %v) despite gate", it.NodeID, it.X, it.Y)
			}
		}
	}

	// Report placed, user notified, offender revealed.
	if len(doc.Reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(doc.Reports))
	}
	payload := doc.Reports[0].Payload
	if !strings.HasPrefix(payload.Text, report.Title) || !strings.Contains(payload.Text, "s1-24") {
		t.Errorf("report text = %q", payload.Text)
	}
	found := false
	for _, n := range doc.Notifications {
		if n == report.Title {
			found = true
		}
	}
	if !found {
		t.Errorf("notifications = %v, want rotation title", doc.Notifications)
	}
	if len(doc.Revealed) != 1 || doc.Revealed[0] != "s1-24" {
		t.Errorf("revealed = %v, want [s1-24]", doc.Revealed)
	}
}

func TestExecuteSkipsInvalidSets(t *testing.T) {
	dup := &document.Set{NodeID: "s1", NodeName: "Broken", Items: []*document.Item{
		item("d1", map[string]string{"Style": "filled", "Color": "none", "Size": "16"}),
		item("d2", map[string]string{"Style": "filled", "Color": "none", "Size": "16"}),
	}}
	empty := &document.Set{NodeID: "s2", NodeName: "Empty"}
	unattributed := &document.Set{NodeID: "s3", NodeName: "Labels", Items: []*document.Item{
		item("l1", nil),
	}}
	partial := &document.Set{NodeID: "s4", NodeName: "Partial", Items: []*document.Item{
		item("p1", map[string]string{"Style": "filled"}),
	}}
	good := iconSet("s5", "Zebra")
	doc := &document.Document{Sets: []*document.Set{dup, empty, unattributed, partial, good}}
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(context.Background(), doc, testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Arranged) != 1 || result.Arranged[0] != "Zebra" {
		t.Errorf("arranged = %v, want [Zebra]", result.Arranged)
	}

	codes := map[string]errors.Code{}
	for _, issue := range result.Skipped {
		codes[issue.Set] = issue.Code
	}
	want := map[string]errors.Code{
		"Broken":  errors.ErrCodeDuplicateKey,
		"Empty":   errors.ErrCodeNoVariants,
		"Labels":  errors.ErrCodeNoAttributes,
		"Partial": errors.ErrCodeMissingAttributes,
	}
	for set, code := range want {
		if codes[set] != code {
			t.Errorf("skip code for %s = %v, want %v", set, codes[set], code)
		}
	}

	// Each skip produced a notification.
	skips := 0
	for _, n := range doc.Notifications {
		if strings.HasPrefix(n, "Skipped ") {
			skips++
		}
	}
	if skips != 4 {
		t.Errorf("got %d skip notifications, want 4", skips)
	}
}

func TestExecuteNothingProcessed(t *testing.T) {
	doc := &document.Document{Sets: []*document.Set{
		{NodeID: "s1", NodeName: "Empty"},
	}}
	runner := NewRunner(nil, nil, nil)

	_, err := runner.Execute(context.Background(), doc, testOptions())
	if !errors.Is(err, errors.ErrCodeNothingProcessed) {
		t.Errorf("error code = %v, want NOTHING_PROCESSED", errors.GetCode(err))
	}
}

func TestExecutePlanCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	doc := &document.Document{Sets: []*document.Set{iconSet("s1", "Arrows")}}
	first, err := runner.Execute(context.Background(), doc, testOptions())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.PlanMisses != 1 || first.CacheInfo.PlanHits != 0 {
		t.Errorf("first run cache info = %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), doc, testOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.CacheInfo.PlanHits != 1 {
		t.Errorf("second run cache info = %+v", second.CacheInfo)
	}
	if len(second.Plans["Arrows"]) != len(first.Plans["Arrows"]) {
		t.Error("cached plan differs from computed plan")
	}

	// Refresh bypasses the cache.
	opts := testOptions()
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.PlanHits != 0 || third.CacheInfo.PlanMisses != 1 {
		t.Errorf("refresh run cache info = %+v", third.CacheInfo)
	}
}

func TestScan(t *testing.T) {
	s := &document.Set{NodeID: "s1", NodeName: "Mixed", Items: []*document.Item{
		item("v1", map[string]string{"Style": "filled", "Size": "16"}),
		item("label", nil),
		item("v2", map[string]string{"Style": "outline", "Size": "16"}),
	}}

	info, childCount := Scan(s)
	if childCount != 3 {
		t.Errorf("childCount = %d, want 3", childCount)
	}
	if len(info.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(info.Variants))
	}
	// Attributes are copied, not aliased.
	info.Variants[0].Attributes["Style"] = "mutated"
	if s.Items[0].Attrs["Style"] == "mutated" {
		t.Error("Scan aliased the node's attribute map")
	}
}

func TestOptionsValidate(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}
	if opts.Scope != ScopeSelection {
		t.Errorf("default scope = %q, want %q", opts.Scope, ScopeSelection)
	}
	if opts.RunID == "" {
		t.Error("run ID should be generated")
	}
	if opts.Config.CellSize != layout.DefaultCellSize {
		t.Errorf("cell size = %v, want default", opts.Config.CellSize)
	}

	bad := Options{Config: layout.Default(), Scope: "everything"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad scope error = %v, want INVALID_CONFIG", err)
	}
}
