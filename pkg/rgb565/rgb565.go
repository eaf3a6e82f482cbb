// Package rgb565 converts 24-bit RGB values to the 16-bit 5-6-5 colour
// representation used on the wire by 4DGL display controllers.
package rgb565

import "image/color"

// Named 24-bit colours.
const (
	White     uint32 = 0xFFFFFF
	Black     uint32 = 0x000000
	Red       uint32 = 0xFF0000
	Green     uint32 = 0x00FF00
	Blue      uint32 = 0x0000FF
	LightGrey uint32 = 0xBFBFBF
	DarkGrey  uint32 = 0x5F5F5F
)

// Color is a packed 5-6-5 colour: red in bits 15-11, green in 10-5, blue in 4-0.
type Color uint16

// Pack truncates a 24-bit 0xRRGGBB value to 5-6-5 and returns the two wire
// bytes, high byte first. Only bits 23-19 (red), 15-10 (green) and 7-3 (blue)
// of rgb contribute; the rest are discarded, never rounded.
func Pack(rgb uint32) (hi, lo byte) {
	red5 := (rgb >> 19) & 0x1F
	green6 := (rgb >> 10) & 0x3F
	blue5 := (rgb >> 3) & 0x1F

	hi = byte(((red5 << 3) | (green6 >> 3)) & 0xFF)
	lo = byte(((green6 << 5) | blue5) & 0xFF)
	return hi, lo
}

// Encode packs a 24-bit value into a Color.
func Encode(rgb uint32) Color {
	hi, lo := Pack(rgb)
	return FromBytes(hi, lo)
}

// FromBytes builds a Color from its two wire bytes.
func FromBytes(hi, lo byte) Color {
	return Color(uint16(hi)<<8 | uint16(lo))
}

// Bytes returns the wire representation, high byte first.
func (c Color) Bytes() (hi, lo byte) {
	return byte(c >> 8), byte(c)
}

// Components returns the raw 5-bit red, 6-bit green and 5-bit blue fields.
func (c Color) Components() (r5, g6, b5 uint8) {
	return uint8(c>>11) & 0x1F, uint8(c>>5) & 0x3F, uint8(c) & 0x1F
}

// RGB expands the colour back to 24 bits by replicating the high bits into the
// low ones. The low 3 (red, blue) or 2 (green) bits lost by packing are not
// recovered, so RGB(Encode(x)) equals x only for values already on the 5-6-5 grid
// after expansion.
func (c Color) RGB() uint32 {
	r5, g6, b5 := c.Components()
	r := uint32(r5<<3 | r5>>2)
	g := uint32(g6<<2 | g6>>4)
	b := uint32(b5<<3 | b5>>2)
	return r<<16 | g<<8 | b
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return ToColor(c.RGB()).RGBA()
}

// ToColor converts a 24-bit value to an opaque color.RGBA.
func ToColor(rgb uint32) color.RGBA {
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
}

// FromColor converts any color.Color to a 24-bit value, dropping alpha.
func FromColor(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r>>8)<<16 | (g>>8)<<8 | b>>8
}
