package core

// Color is a logical foreground colour for a screen cell.
// The presentation layer maps it to a terminal colour.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorCyan
	ColorYellow
	ColorWhite
	ColorGray
	ColorBrightRed
	ColorBrightCyan
	ColorOrange
)

// String returns the colour name.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorRed:
		return "red"
	case ColorCyan:
		return "cyan"
	case ColorYellow:
		return "yellow"
	case ColorWhite:
		return "white"
	case ColorGray:
		return "gray"
	case ColorBrightRed:
		return "bright-red"
	case ColorBrightCyan:
		return "bright-cyan"
	case ColorOrange:
		return "orange"
	default:
		return "unknown"
	}
}
