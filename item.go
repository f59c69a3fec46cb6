package marquee

import (
	"errors"
	"fmt"
)

// ErrEmptyItem is returned when an item has neither an image source nor a
// label. Such an item cannot be rendered and the whole sequence is rejected
// before any rendering side effect occurs.
var ErrEmptyItem = errors.New("marquee: item has neither image source nor label")

// Item is one entry to render in the strip.
type Item struct {
	// ID is an optional stable key. When empty, the render key falls back
	// to a composite of the item's position and copy index.
	ID string

	// ImageSource is an optional image URL or file path.
	ImageSource string

	// Label is optional text rendered next to (or instead of) the image.
	Label string

	// AccessibleName is an optional accessibility label for the item.
	AccessibleName string

	// InvertForDark inverts the item's colors when rendered on a dark
	// background.
	InvertForDark bool

	// Classes is an optional style class string applied to the item cell.
	Classes string
}

// key returns the render key for this item at position pos within copy
// copyIdx (0 or 1) of the doubled buffer.
func (it Item) key(pos, copyIdx int) string {
	if it.ID != "" {
		return fmt.Sprintf("%s-%d", it.ID, copyIdx)
	}
	return fmt.Sprintf("item-%d-%d", pos, copyIdx)
}

// Sequence is an accepted, validated, ordered list of items. Insertion
// order defines the visual order and the loop period. A Sequence is
// immutable once accepted; supplying a different sequence (by value) starts
// a new generation and re-runs validation and measurement.
type Sequence struct {
	items []Item
}

// NewSequence validates items and returns an accepted sequence. It returns
// a descriptive error if any item has neither an image source nor a label.
func NewSequence(items []Item) (Sequence, error) {
	for i, it := range items {
		if it.ImageSource == "" && it.Label == "" {
			return Sequence{}, fmt.Errorf("item %d: %w", i, ErrEmptyItem)
		}
	}

	// Copy so later mutation of the caller's slice cannot change an
	// accepted sequence.
	seq := Sequence{items: make([]Item, len(items))}
	copy(seq.items, items)
	return seq, nil
}

// Len returns the number of items in one copy of the sequence.
func (s Sequence) Len() int {
	return len(s.items)
}

// Item returns the item at position i within one copy.
func (s Sequence) Item(i int) Item {
	return s.items[i]
}

// Equal reports whether two sequences are equal by value.
func (s Sequence) Equal(other Sequence) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// imageSources returns the de-duplicated image sources of the sequence, in
// first-occurrence order.
func (s Sequence) imageSources() []string {
	seen := make(map[string]bool, len(s.items))
	var sources []string
	for _, it := range s.items {
		if it.ImageSource == "" || seen[it.ImageSource] {
			continue
		}
		seen[it.ImageSource] = true
		sources = append(sources, it.ImageSource)
	}
	return sources
}

// buildBuffer lays the sequence out twice, back to back. The two halves are
// structurally identical (same items, same order, same classes) so the
// visual content at offset zero and at offset one-cycle-distance is pixel
// identical; that identity is what makes the loop invisible.
func (s Sequence) buildBuffer() []Node {
	nodes := make([]Node, 0, 2*len(s.items))
	for copyIdx := 0; copyIdx < 2; copyIdx++ {
		for pos, it := range s.items {
			nodes = append(nodes, itemNode(it, pos, copyIdx))
		}
	}
	return nodes
}

// itemNode renders one item as a node subtree.
func itemNode(it Item, pos, copyIdx int) Node {
	classes := it.Classes
	if it.InvertForDark {
		if classes != "" {
			classes += " "
		}
		classes += "invert"
	}

	var children []Node
	if it.ImageSource != "" {
		children = append(children, Image(it.ImageSource, "object-contain"))
	}
	if it.Label != "" {
		children = append(children, Text(it.Label, ""))
	}

	node := Group(it.key(pos, copyIdx), classes, children...)
	node.AccessName = it.AccessibleName
	return node
}
