package rgb565

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rgb    uint32
		wantHi byte
		wantLo byte
	}{
		{name: "white", rgb: White, wantHi: 0xFF, wantLo: 0xFF},
		{name: "black", rgb: Black, wantHi: 0x00, wantLo: 0x00},
		{name: "red", rgb: Red, wantHi: 0xF8, wantLo: 0x00},
		{name: "green", rgb: Green, wantHi: 0x07, wantLo: 0xE0},
		{name: "blue", rgb: Blue, wantHi: 0x00, wantLo: 0x1F},
		{name: "light grey", rgb: LightGrey, wantHi: 0xBD, wantLo: 0xF7},
		{name: "low bits only", rgb: 0x070307, wantHi: 0x00, wantLo: 0x00},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hi, lo := Pack(tt.rgb)
			assert.Equal(t, tt.wantHi, hi)
			assert.Equal(t, tt.wantLo, lo)
		})
	}
}

func TestPack_IgnoresTruncatedBits(t *testing.T) {
	t.Parallel()

	// bits that never reach the wire: 31-24, 18-16, 9-8, 2-0
	const ignored uint32 = 0xFF070307

	rapid.Check(t, func(t *rapid.T) {
		rgb := rapid.Uint32().Draw(t, "rgb")
		noise := rapid.Uint32().Draw(t, "noise") & ignored

		hi1, lo1 := Pack(rgb)
		hi2, lo2 := Pack(rgb ^ noise)
		if hi1 != hi2 || lo1 != lo2 {
			t.Fatalf("Pack(%06x)=%02x%02x but Pack(%06x)=%02x%02x", rgb, hi1, lo1, rgb^noise, hi2, lo2)
		}
	})
}

func TestEncode_RoundTripsThroughExpansion(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		c := Color(rapid.Uint16().Draw(t, "c"))
		if got := Encode(c.RGB()); got != c {
			t.Fatalf("Encode(%06x) = %04x, want %04x", c.RGB(), got, c)
		}
	})
}

func TestColor_RGB(t *testing.T) {
	t.Parallel()

	assert.Equal(t, White, Encode(White).RGB())
	assert.Equal(t, Black, Encode(Black).RGB())
	assert.Equal(t, Red, Encode(Red).RGB())
	// precision loss: 0x123456 is not on the 5-6-5 grid
	assert.Equal(t, uint32(0x103452), Encode(0x123456).RGB())
}

func TestColor_Bytes(t *testing.T) {
	t.Parallel()

	c := FromBytes(0xF8, 0x1F)
	hi, lo := c.Bytes()
	assert.Equal(t, byte(0xF8), hi)
	assert.Equal(t, byte(0x1F), lo)

	r5, g6, b5 := c.Components()
	assert.Equal(t, uint8(0x1F), r5)
	assert.Equal(t, uint8(0x00), g6)
	assert.Equal(t, uint8(0x1F), b5)
}

func TestFromColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0x102030), FromColor(color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}))
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, ToColor(Red))
}
