package tw

import (
	"fmt"
	"strconv"
	"strings"
)

// remPixels is the root font size used to resolve rem/em lengths.
// Browsers default to 16px and the strip's spacing scale assumes it.
const remPixels = 16.0

// ParseClasses parses a class string and returns the merged style.
// Example: "gap-[24px] h-16 invert object-cover"
//
// Unknown classes are silently ignored.
func ParseClasses(classStr string) Style {
	var style Style

	for _, class := range strings.Fields(classStr) {
		style.Merge(parseClass(class))
	}

	return style
}

// parseClass resolves a single utility class to a partial style.
func parseClass(class string) Style {
	var s Style

	// Arbitrary values: property-[value]
	if prop, value, ok := splitArbitrary(class); ok {
		switch prop {
		case "w":
			s.Width = ParseLength(value)
		case "h":
			s.Height = ParseLength(value)
		case "gap":
			s.Gap = ParseLength(value)
		case "opacity":
			if v, err := strconv.ParseFloat(value, 32); err == nil {
				f := float32(v)
				s.Opacity = &f
			}
		}
		return s
	}

	switch {
	case class == "invert":
		s.Invert = true

	case strings.HasPrefix(class, "object-"):
		fit := strings.TrimPrefix(class, "object-")
		switch fit {
		case "contain", "cover", "fill", "none":
			s.ObjectFit = &fit
		}

	case strings.HasPrefix(class, "gap-"):
		s.Gap = spacingValue(strings.TrimPrefix(class, "gap-"))

	case strings.HasPrefix(class, "w-"):
		s.Width = spacingValue(strings.TrimPrefix(class, "w-"))

	case strings.HasPrefix(class, "h-"):
		s.Height = spacingValue(strings.TrimPrefix(class, "h-"))
	}

	return s
}

// splitArbitrary extracts arbitrary value syntax.
// "gap-[24px]" -> ("gap", "24px", true)
func splitArbitrary(class string) (property, value string, ok bool) {
	bracketIdx := strings.Index(class, "[")
	if bracketIdx == -1 || !strings.HasSuffix(class, "]") {
		return "", "", false
	}

	property = strings.TrimSuffix(class[:bracketIdx], "-")
	value = strings.TrimSuffix(class[bracketIdx+1:], "]")
	return property, value, true
}

// spacingValue resolves a Tailwind spacing step to pixels.
// The scale is 0.25rem per step: gap-4 = 1rem = 16px, gap-12 = 3rem = 48px.
func spacingValue(step string) *float32 {
	n, err := strconv.ParseFloat(step, 32)
	if err != nil {
		return nil
	}
	v := float32(n) * 0.25 * remPixels
	return &v
}

// ParseLength parses CSS length values (px, rem, em, %, or a bare number).
// Bare numbers are treated as pixels. Returns nil if the value does not
// parse.
func ParseLength(value string) *float32 {
	value = strings.TrimSpace(value)

	var numStr string
	var multiplier float32 = 1.0

	switch {
	case strings.HasSuffix(value, "px"):
		numStr = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "%"):
		numStr = strings.TrimSuffix(value, "%")
	case strings.HasSuffix(value, "rem"):
		numStr = strings.TrimSuffix(value, "rem")
		multiplier = remPixels
	case strings.HasSuffix(value, "em"):
		numStr = strings.TrimSuffix(value, "em")
		multiplier = remPixels // approximate: em resolved against the root size
	default:
		numStr = value
	}

	var num float32
	if _, err := fmt.Sscanf(numStr, "%f", &num); err != nil {
		return nil
	}
	result := num * multiplier
	return &result
}
