// Package marquee renders a horizontally scrolling, visually infinite strip
// of items (images and/or text) with no visible seam when the strip loops.
//
// The component is rendering-technology agnostic: it emits a node tree for
// the host to render and publishes animation parameters (one-cycle scroll
// distance and duration) derived from live layout measurements supplied by
// the host. The host feeds back proximity, resize, and geometry signals
// through the Host interface.
package marquee

import (
	"encoding/json"

	"github.com/agiangrant/marquee/tw"
)

// NodeKind represents the type of render node.
type NodeKind string

const (
	// Container nodes
	NodeStrip NodeKind = "Strip" // the horizontally scrolling row
	NodeGroup NodeKind = "Group" // one item cell (image and/or label)

	// Leaf nodes
	NodeImage NodeKind = "Image"
	NodeText  NodeKind = "Text"
)

// Node represents one entry in the render tree handed to the host.
// Keys are stable across re-renders so the host can reconcile updates;
// the two copies of the sequence carry the same keys distinguished by
// copy index.
type Node struct {
	Kind       NodeKind `json:"kind"`
	Key        string   `json:"key,omitempty"`
	Classes    string   `json:"classes,omitempty"`
	Text       string   `json:"text,omitempty"`
	ImageSrc   string   `json:"image_src,omitempty"`
	AccessName string   `json:"access_name,omitempty"`
	Children   []Node   `json:"children,omitempty"`

	// Cached computed styles (not serialized)
	computedStyle *tw.Style `json:"-"`
}

// Style returns the cached computed style for this node's classes.
func (n *Node) Style() tw.Style {
	if n.computedStyle == nil {
		style := tw.ParseClasses(n.Classes)
		n.computedStyle = &style
	}
	return *n.computedStyle
}

// ToJSON serializes the node tree for hosts that render out of process.
func (n *Node) ToJSON() (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Convenience constructors

// Strip creates the scrolling row container.
func Strip(classes string, children ...Node) Node {
	return Node{
		Kind:     NodeStrip,
		Classes:  classes,
		Children: children,
	}
}

// Group creates an item cell container.
func Group(key, classes string, children ...Node) Node {
	return Node{
		Kind:     NodeGroup,
		Key:      key,
		Classes:  classes,
		Children: children,
	}
}

// Image creates an image node.
func Image(src, classes string) Node {
	return Node{
		Kind:     NodeImage,
		Classes:  classes,
		ImageSrc: src,
	}
}

// Text creates a text node.
func Text(text, classes string) Node {
	return Node{
		Kind:    NodeText,
		Classes: classes,
		Text:    text,
	}
}
