package face

import (
	"fmt"
	"image/color"
	"math/rand/v2"
)

// DefaultBackground is red, used whenever no custom colour is configured.
const DefaultBackground = 0xFF0000

// PackRGB packs three 8-bit channels into a 24-bit 0xRRGGBB integer.
func PackRGB(r, g, b int) int {
	return (r << 16) | (g << 8) | b
}

func UnpackRGB(c int) (r, g, b int) {
	return (c >> 16) & 0xFF, (c >> 8) & 0xFF, c & 0xFF
}

func ColorFromHex(c int) color.RGBA {
	r, g, b := UnpackRGB(c)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF}
}

// Hex renders c as "#RRGGBB".
func Hex(c int) string {
	r, g, b := UnpackRGB(c)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// RandomChannels draws three channels, each uniform in [0,255].
func RandomChannels(rng *rand.Rand) [3]int {
	var ch [3]int
	for i := range ch {
		ch[i] = rng.IntN(256)
	}
	return ch
}

func RandomColor(rng *rand.Rand) int {
	ch := RandomChannels(rng)
	return PackRGB(ch[0], ch[1], ch[2])
}
