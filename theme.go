package prez

import (
	"fmt"
	"strings"
)

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses an RRGGBB hex string, with or without a leading "#".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want RRGGBB", s)
	}
	var c Color
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// Hex returns the color as an RRGGBB hex string, the form DrawingML solid
// fills use.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Brand palette.
var (
	ColorDarkBlue  = Color{0x0C, 0x41, 0x60}
	ColorTeal      = Color{0x00, 0xA9, 0x8F}
	ColorLightTeal = Color{0xE8, 0xF5, 0xF2}
	ColorWhite     = Color{0xFF, 0xFF, 0xFF}
)

// LevelStyle is the text and bullet styling for one nesting depth.
type LevelStyle struct {
	Size        int // font size in points
	Bold        bool
	Color       Color
	BulletColor Color
}

// Theme holds the colors and per-level text styles the renderer applies.
// Deeper nesting levels than a style list covers clamp to its last entry.
type Theme struct {
	// Levels styles content bullets by nesting depth.
	Levels []LevelStyle
	// TextImageLevels styles the left-column bullets of text_image slides.
	TextImageLevels []LevelStyle
	// Subtitle styles the bullet-less lead-in paragraph on content slides.
	Subtitle LevelStyle
	// TextImageSubtitle styles the lead-in line on text_image slides, which
	// runs a touch smaller than the content one.
	TextImageSubtitle LevelStyle
	// Conclusion styles conclusion takeaways, all depths.
	Conclusion LevelStyle
	// Highlight is the color of <<highlighted>> spans.
	Highlight Color
	// Body is the plain text color on highlight slides.
	Body Color
	// LeftBullet and RightBullet color two_column bullets. The right column
	// sits on the dark gradient, so its default is white.
	LeftBullet  Color
	RightBullet Color
	// Date styles the date stamp on the title slide.
	Date LevelStyle
	// SlideNumber styles the "current / total" stamp.
	SlideNumber LevelStyle
}

// DefaultTheme returns the brand theme.
func DefaultTheme() *Theme {
	return NewTheme(ColorDarkBlue, ColorTeal)
}

// NewTheme derives a full theme from the two-tone scheme: dark for level-0
// text and teal for nested levels and emphasis.
func NewTheme(dark, teal Color) *Theme {
	return &Theme{
		Levels: []LevelStyle{
			{Size: 20, Color: dark, BulletColor: dark},
			{Size: 16, Color: teal, BulletColor: teal},
			{Size: 14, Color: teal, BulletColor: teal},
		},
		TextImageLevels: []LevelStyle{
			{Size: 18, Color: dark, BulletColor: dark},
			{Size: 14, Color: teal, BulletColor: teal},
		},
		Subtitle:          LevelStyle{Size: 18, Color: teal},
		TextImageSubtitle: LevelStyle{Size: 16, Color: teal},
		Conclusion:        LevelStyle{Size: 22, Color: dark, BulletColor: teal},
		Highlight:         teal,
		Body:              dark,
		LeftBullet:        teal,
		RightBullet:       ColorWhite,
		Date:              LevelStyle{Size: 20, Bold: true, Color: ColorWhite},
		SlideNumber:       LevelStyle{Size: 12, Color: dark},
	}
}

// Level returns the content style for nesting level n, clamped.
func (t *Theme) Level(n int) LevelStyle {
	return clampStyle(t.Levels, n)
}

// TextImageLevel returns the text_image style for nesting level n, clamped.
func (t *Theme) TextImageLevel(n int) LevelStyle {
	return clampStyle(t.TextImageLevels, n)
}

// MaxLevel is the deepest styled nesting level. Entries beyond it clamp.
func (t *Theme) MaxLevel() int {
	return len(t.Levels) - 1
}

func clampStyle(styles []LevelStyle, n int) LevelStyle {
	if len(styles) == 0 {
		return LevelStyle{}
	}
	if n >= len(styles) {
		n = len(styles) - 1
	}
	if n < 0 {
		n = 0
	}
	return styles[n]
}
