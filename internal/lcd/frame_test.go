package lcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/aleksclark/go-4dgl/pkg/rgb565"
)

func TestEncodeCircle(t *testing.T) {
	t.Parallel()

	got := encodeCircle(120, 160, 80, rgb565.White)

	assert.Equal(t, []byte{cmdCircle, 0x00, 0x78, 0x00, 0xA0, 0x00, 0x50, 0xFF, 0xFF}, got)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"autobaud", encodeAutobaud(), []byte{0x55}},
		{"clear", encodeClear(), []byte{0x45}},
		{"version", encodeVersion(Off), []byte{0x56, 0x00}},
		{"baud rate", encodeBaudRate(0x0D), []byte{0x51, 0x0D}},
		{"background", encodeBackground(rgb565.Red), []byte{0x42, 0xF8, 0x00}},
		{"display control", encodeDisplayControl(ModeOrientation, byte(Landscape)), []byte{0x59, 0x04, 0x01}},
		{"volume", encodeSetVolume(64), []byte{0x76, 0x40}},
		{
			"triangle",
			encodeTriangle(1, 2, 300, 4, 5, 6, rgb565.Blue),
			[]byte{0x47, 0, 1, 0, 2, 0x01, 0x2C, 0, 4, 0, 5, 0, 6, 0x00, 0x1F},
		},
		{"line", encodeLine(7, 23, 623, 23, rgb565.White), []byte{0x4C, 0, 7, 0, 23, 0x02, 0x6F, 0, 23, 0xFF, 0xFF}},
		{"rectangle", encodeRectangle(0, 0, 10, 20, rgb565.Green), []byte{0x72, 0, 0, 0, 0, 0, 10, 0, 20, 0x07, 0xE0}},
		{"ellipse", encodeEllipse(100, 100, 30, 10, rgb565.Black), []byte{0x65, 0, 100, 0, 100, 0, 30, 0, 10, 0, 0}},
		{"pixel", encodePixel(256, 1, rgb565.White), []byte{0x50, 0x01, 0x00, 0, 1, 0xFF, 0xFF}},
		{"read pixel", encodeReadPixel(10, 20), []byte{0x52, 0, 10, 0, 20}},
		{"screen copy", encodeScreenCopy(1, 2, 3, 4, 5, 6), []byte{0x63, 0, 1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 6}},
		{"pen size", encodePenSize(Wireframe), []byte{0x70, 0x01}},
		{"set font", encodeSetFont(Font12x16), []byte{0x46, 0x03}},
		{"text mode", encodeTextMode(Transparent), []byte{0x4F, 0x00}},
		{"text char", encodeTextChar('A', 2, 3, rgb565.White), []byte{0x54, 'A', 2, 3, 0xFF, 0xFF}},
		{
			"graphic char",
			encodeGraphicChar('Z', 10, 20, rgb565.Red, 2, 3),
			[]byte{0x74, 'Z', 0, 10, 0, 20, 0xF8, 0x00, 2, 3},
		},
		{
			"text string",
			encodeTextString("SCORE:", 2, 1, Font8x8, rgb565.White),
			[]byte{0x73, 2, 1, 0x01, 0xFF, 0xFF, 'S', 'C', 'O', 'R', 'E', ':', 0x00},
		},
		{
			"graphic string",
			encodeGraphicString("hi", 300, 5, Font5x7, rgb565.Red, 1, 1),
			[]byte{0x53, 0x01, 0x2C, 0, 5, 0x00, 0xF8, 0x00, 1, 1, 'h', 'i', 0x00},
		},
		{
			"text button",
			encodeTextButton("OK", ButtonUp, 10, 20, rgb565.Blue, Font8x12, rgb565.White, 1, 2),
			[]byte{0x62, 0x01, 0, 10, 0, 20, 0x00, 0x1F, 0x02, 0xFF, 0xFF, 1, 2, 'O', 'K', 0x00},
		},
		{"empty string", encodeTextString("", 0, 0, Font5x7, rgb565.Black), []byte{0x73, 0, 0, 0, 0, 0, 0x00}},
		{"touch mode", encodeTouchMode(TouchPress), []byte{0x6F, 0x01}},
		{"wait touch", encodeWaitTouch(2000), []byte{0x77, 0x07, 0xD0}},
		{"set touch", encodeSetTouch(0, 0, 239, 319), []byte{0x75, 0, 0, 0, 0, 0, 239, 0x01, 0x3F}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestEncode_TruncatesTo16Bits(t *testing.T) {
	t.Parallel()

	got := encodeCircle(0x12345, -1, 0x10000, rgb565.Black)

	assert.Equal(t, []byte{cmdCircle, 0x23, 0x45, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00}, got)
}

func TestEncode_StringStopsAtNUL(t *testing.T) {
	t.Parallel()

	got := encodeTextString("ab\x00cd", 0, 0, Font5x7, rgb565.Black)

	assert.Equal(t, []byte{0x73, 0, 0, 0, 0, 0, 'a', 'b', 0x00}, got)
}

func TestFrameLen_MatchesEncoders(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		x := rapid.IntRange(0, 0xFFFF).Draw(t, "x")
		y := rapid.IntRange(0, 0xFFFF).Draw(t, "y")
		c := rapid.Uint32Range(0, 0xFFFFFF).Draw(t, "color")
		s := rapid.StringMatching(`[ -~]{0,64}`).Draw(t, "s")

		frames := [][]byte{
			encodeCircle(x, y, x, c),
			encodeTriangle(x, y, x, y, x, y, c),
			encodeLine(x, y, y, x, c),
			encodeRectangle(x, y, y, x, c),
			encodeEllipse(x, y, x, y, c),
			encodePixel(x, y, c),
			encodeReadPixel(x, y),
			encodeScreenCopy(x, y, x, y, x, y),
			encodeGraphicChar('x', x, y, c, 1, 1),
			encodeWaitTouch(x),
			encodeSetTouch(x, y, x, y),
		}
		for _, f := range frames {
			if len(f) != FrameLen(f[0], 0) {
				t.Fatalf("frame 0x%02X has %d bytes, want %d", f[0], len(f), FrameLen(f[0], 0))
			}
		}

		strFrames := [][]byte{
			encodeTextString(s, 1, 2, Font8x8, c),
			encodeGraphicString(s, x, y, Font8x8, c, 1, 1),
			encodeTextButton(s, ButtonDown, x, y, c, Font8x8, c, 1, 1),
		}
		for _, f := range strFrames {
			if len(f) != FrameLen(f[0], len(s)) {
				t.Fatalf("frame 0x%02X has %d bytes, want %d", f[0], len(f), FrameLen(f[0], len(s)))
			}
			if f[len(f)-1] != 0 {
				t.Fatalf("frame 0x%02X not NUL terminated", f[0])
			}
		}
	})
}

func TestFrameLen_Unknown(t *testing.T) {
	t.Parallel()

	assert.Zero(t, FrameLen(0x00, 0))
	assert.Equal(t, 9, FrameLen(cmdCircle, 100))
	assert.Equal(t, 17, FrameLen(cmdTextString, 10))
}

func TestBaudCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate          int
		wantCode      byte
		wantEffective int
	}{
		{110, 0x00, 110},
		{9600, 0x06, 9600},
		{19200, 0x08, 19200},
		{31250, 0x09, 31250},
		{115200, 0x0D, 115200},
		{256000, 0x0F, 256000},
		{9601, 0x06, 9600},
		{0, 0x06, 9600},
	}

	for _, tt := range tests {
		tt := tt
		code, effective := BaudCode(tt.rate)
		assert.Equal(t, tt.wantCode, code, "rate %d", tt.rate)
		assert.Equal(t, tt.wantEffective, effective, "rate %d", tt.rate)
	}
}
