package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Serialization Format
// =============================================================================

// DocJSON is the canonical serialization format for documents. The format is
// human-readable and round-trip faithful: import → arrange → export →
// re-import produces identical results.
type DocJSON struct {
	Sets      []SetJSON `json:"sets" bson:"sets"`
	Selection []string  `json:"selection,omitempty" bson:"selection,omitempty"`
}

// SetJSON serializes one variant-set container.
type SetJSON struct {
	ID       string     `json:"id" bson:"id"`
	Name     string     `json:"name" bson:"name"`
	X        float64    `json:"x" bson:"x"`
	Y        float64    `json:"y" bson:"y"`
	Width    float64    `json:"width" bson:"width"`
	Height   float64    `json:"height" bson:"height"`
	Children []ItemJSON `json:"children,omitempty" bson:"children,omitempty"`
}

// ItemJSON serializes one leaf item, recursively including nested nodes.
type ItemJSON struct {
	ID         string            `json:"id" bson:"id"`
	Name       string            `json:"name" bson:"name"`
	Attributes map[string]string `json:"attributes,omitempty" bson:"attributes,omitempty"`
	X          float64           `json:"x" bson:"x"`
	Y          float64           `json:"y" bson:"y"`
	Width      float64           `json:"width" bson:"width"`
	Height     float64           `json:"height" bson:"height"`
	Rotation   float64           `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Anchor     string            `json:"anchor,omitempty" bson:"anchor,omitempty"`
	Children   []ItemJSON        `json:"children,omitempty" bson:"children,omitempty"`
}

// =============================================================================
// Conversion
// =============================================================================

// Export converts the in-memory document to its serialization format.
func (d *Document) Export() DocJSON {
	out := DocJSON{
		Sets:      make([]SetJSON, len(d.Sets)),
		Selection: d.Selected,
	}
	for i, s := range d.Sets {
		out.Sets[i] = SetJSON{
			ID:       s.NodeID,
			Name:     s.NodeName,
			X:        s.X,
			Y:        s.Y,
			Width:    s.W,
			Height:   s.H,
			Children: exportItems(s.Items),
		}
	}
	return out
}

func exportItems(items []*Item) []ItemJSON {
	if len(items) == 0 {
		return nil
	}
	out := make([]ItemJSON, len(items))
	for i, it := range items {
		out[i] = ItemJSON{
			ID:         it.NodeID,
			Name:       it.NodeName,
			Attributes: it.Attrs,
			X:          it.X,
			Y:          it.Y,
			Width:      it.W,
			Height:     it.H,
			Rotation:   it.Rot,
			Anchor:     it.AnchorMode,
			Children:   exportItems(it.Kids),
		}
	}
	return out
}

// Import converts a serialized document into the in-memory form.
// Returns an error on duplicate node IDs, which would make reordering and
// position lookup ambiguous.
func Import(dj DocJSON) (*Document, error) {
	seen := make(map[string]bool)
	doc := &Document{
		Sets:     make([]*Set, len(dj.Sets)),
		Selected: dj.Selection,
	}
	for i, sj := range dj.Sets {
		if sj.ID == "" {
			return nil, fmt.Errorf("set %q: missing id", sj.Name)
		}
		if seen[sj.ID] {
			return nil, fmt.Errorf("duplicate node id %q", sj.ID)
		}
		seen[sj.ID] = true
		items, err := importItems(sj.Children, seen)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", sj.ID, err)
		}
		doc.Sets[i] = &Set{
			NodeID:   sj.ID,
			NodeName: sj.Name,
			X:        sj.X,
			Y:        sj.Y,
			W:        sj.Width,
			H:        sj.Height,
			Items:    items,
		}
	}
	return doc, nil
}

func importItems(items []ItemJSON, seen map[string]bool) ([]*Item, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]*Item, len(items))
	for i, ij := range items {
		if ij.ID == "" {
			return nil, fmt.Errorf("item %q: missing id", ij.Name)
		}
		if seen[ij.ID] {
			return nil, fmt.Errorf("duplicate node id %q", ij.ID)
		}
		seen[ij.ID] = true
		kids, err := importItems(ij.Children, seen)
		if err != nil {
			return nil, err
		}
		out[i] = &Item{
			NodeID:     ij.ID,
			NodeName:   ij.Name,
			Attrs:      ij.Attributes,
			X:          ij.X,
			Y:          ij.Y,
			W:          ij.Width,
			H:          ij.Height,
			Rot:        ij.Rotation,
			AnchorMode: ij.Anchor,
			Kids:       kids,
		}
	}
	return out, nil
}

// =============================================================================
// IO
// =============================================================================

// WriteJSON encodes the document as indented JSON to w.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Export()); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// ReadJSON decodes a document from r.
func ReadJSON(r io.Reader) (*Document, error) {
	var dj DocJSON
	if err := json.NewDecoder(r).Decode(&dj); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return Import(dj)
}

// WriteFile writes the document to a JSON file at path.
func WriteFile(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// ReadFile reads a document from a JSON file at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
