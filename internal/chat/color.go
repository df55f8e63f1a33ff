package chat

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/gookit/color"
)

const (
	saturation = 1.0
	lightness  = 0.7
)

// Color is a participant color at fixed saturation and lightness.
type Color struct {
	Hue int // 0-359
}

// ColorFor derives a stable color from seed. Display names are the seed, so a
// participant keeps their color across reconnects.
func ColorFor(seed string) Color {
	return Color{Hue: int(xxhash.Sum64String(seed) % 360)}
}

func (c Color) CSS() string {
	return fmt.Sprintf("hsl(%d, 100%%, 70%%)", c.Hue)
}

func (c Color) Hex() string {
	rgb := color.HslToRgb(float64(c.Hue)/360, saturation, lightness)
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}
