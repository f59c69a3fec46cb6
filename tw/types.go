package tw

// Style holds the concrete style values a marquee strip or item can carry.
// Only the properties the strip layout and measurement care about are
// modeled; unknown classes are ignored, like Tailwind CSS does.
type Style struct {
	// Sizing
	Width  *float32
	Height *float32

	// Flexbox
	Gap *float32

	// Effects
	Opacity *float32
	Invert  bool // color inversion for items rendered on dark backgrounds

	// Object fit (for images)
	ObjectFit *string // "contain", "cover", "fill", "none"
}

// Merge overlays non-nil values of other onto s. Later classes win,
// matching CSS source order.
func (s *Style) Merge(other Style) {
	if other.Width != nil {
		s.Width = other.Width
	}
	if other.Height != nil {
		s.Height = other.Height
	}
	if other.Gap != nil {
		s.Gap = other.Gap
	}
	if other.Opacity != nil {
		s.Opacity = other.Opacity
	}
	if other.Invert {
		s.Invert = true
	}
	if other.ObjectFit != nil {
		s.ObjectFit = other.ObjectFit
	}
}
