package core

// Color is the foreground color of a screen cell. The platform layer maps each
// value to an ANSI 256-color code.
type Color uint8

// Palette used by the card table.
const (
	ColorDefault Color = iota
	ColorRed           // red suits
	ColorWhite         // black suits, drawn light on dark terminals
	ColorGreen         // empty pile outlines
	ColorYellow        // cursor
	ColorCyan          // held cards
	ColorBlue          // card backs
	ColorGray          // dimmed faces in thoughtful mode
	ColorBrightWhite   // titles and HUD
	ColorBrightGreen   // win banner
)
