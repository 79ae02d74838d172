package validate

import (
	"slices"
	"testing"

	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/variant"
)

func TestConforming(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want bool
	}{
		{"zero", 0, true},
		{"epsilon", 0.001, true},
		{"just over epsilon", 0.002, false},
		{"five degrees", 5, false},
		{"full turn", 360, true},
		{"just under full turn", 359.9995, true},
		{"negative full turn", -720, true},
		{"negative five", -5, false},
		{"large multiple", 1080.0005, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Conforming(tt.deg); got != tt.want {
				t.Errorf("Conforming(%v) = %v, want %v", tt.deg, got, tt.want)
			}
		})
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		deg  float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{365, 5},
		{-5, 355},
		{-365, 355},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.deg); got != tt.want {
			t.Errorf("NormalizeRotation(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}

func TestCheckRotation(t *testing.T) {
	info := variant.Collect([]variant.Variant{
		{Name: "a", Rotation: 0},
		{Name: "b", Rotation: 5},
		{Name: "c", Rotation: -0.0005},
		{Name: "d", Rotation: 90},
	})

	got := CheckRotation(info)
	if want := []string{"b", "d"}; !slices.Equal(got, want) {
		t.Errorf("CheckRotation() = %v, want %v", got, want)
	}
}

func TestCheckDuplicates(t *testing.T) {
	dup := variant.Collect([]variant.Variant{
		{Name: "a", Attributes: variant.Attributes{"Style": "filled", "Size": "16"}},
		{Name: "b", Attributes: variant.Attributes{"Style": "filled", "Size": "24"}},
		{Name: "c", Attributes: variant.Attributes{"Style": "filled", "Size": "16"}},
	})
	key, found := CheckDuplicates(dup)
	if !found {
		t.Fatal("CheckDuplicates() missed a collision")
	}
	if key != "16|filled" {
		t.Errorf("duplicate key = %q, want %q", key, "16|filled")
	}

	clean := variant.Collect([]variant.Variant{
		{Name: "a", Attributes: variant.Attributes{"Style": "filled", "Size": "16"}},
		{Name: "b", Attributes: variant.Attributes{"Style": "outline", "Size": "16"}},
	})
	if key, found := CheckDuplicates(clean); found {
		t.Errorf("CheckDuplicates() = %q on pairwise-distinct variants", key)
	}
}

func TestCheckDuplicatesOmittedKeysCollide(t *testing.T) {
	// Two variants omitting the same optional key and agreeing on the rest
	// collide by design; the key codec degrades absent values to empty
	// fields and the duplicate check surfaces the collision.
	info := variant.Collect([]variant.Variant{
		{Name: "a", Attributes: variant.Attributes{"Style": "filled"}},
		{Name: "b", Attributes: variant.Attributes{"Style": "filled", "Color": "none"}},
		{Name: "c", Attributes: variant.Attributes{"Style": "filled"}},
	})
	if _, found := CheckDuplicates(info); !found {
		t.Error("CheckDuplicates() missed collision between variants omitting the same key")
	}
}

func TestCheckRequired(t *testing.T) {
	b := layout.Default().Attributes

	complete := variant.Collect([]variant.Variant{
		{Name: "a", Attributes: variant.Attributes{"Style": "filled", "Color": "none", "Size": "16"}},
	})
	if missing := CheckRequired(complete, b); len(missing) != 0 {
		t.Errorf("CheckRequired(complete) = %v, want none", missing)
	}

	partial := variant.Collect([]variant.Variant{
		{Name: "a", Attributes: variant.Attributes{"Set": "x", "Style": "filled"}},
	})
	if missing := CheckRequired(partial, b); !slices.Equal(missing, []string{"Color", "Size"}) {
		t.Errorf("CheckRequired(partial) = %v, want [Color Size]", missing)
	}
}
