package lcd

import (
	"strings"

	"github.com/aleksclark/go-4dgl/pkg/rgb565"
)

// frame accumulates the bytes of one command. Numeric fields are truncated to
// 16 bits and written high byte first; colours are packed to 5-6-5.
type frame []byte

func newFrame(op byte, payload int) frame {
	f := make(frame, 0, FrameLen(op, payload))
	return append(f, op)
}

func (f frame) u16(vs ...int) frame {
	for _, v := range vs {
		f = append(f, byte(v>>8), byte(v))
	}
	return f
}

func (f frame) rgb(c uint32) frame {
	hi, lo := rgb565.Pack(c)
	return append(f, hi, lo)
}

func (f frame) raw(bs ...byte) frame {
	return append(f, bs...)
}

func (f frame) str(s string) frame {
	f = append(f, s...)
	return append(f, 0)
}

// cString cuts s at its first NUL; the controller stops reading there.
func cString(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

func encodeAutobaud() []byte { return newFrame(cmdAutobaud, 0) }

func encodeClear() []byte { return newFrame(cmdClear, 0) }

func encodeVersion(toScreen Switch) []byte {
	return newFrame(cmdVersion, 0).raw(byte(toScreen))
}

func encodeBaudRate(code byte) []byte {
	return newFrame(cmdBaudRate, 0).raw(code)
}

func encodeBackground(c uint32) []byte {
	return newFrame(cmdBackground, 0).rgb(c)
}

func encodeDisplayControl(mode ControlMode, value byte) []byte {
	return newFrame(cmdDisplayCtl, 0).raw(byte(mode), value)
}

func encodeSetVolume(v byte) []byte {
	return newFrame(cmdSetVolume, 0).raw(v)
}

func encodeCircle(x, y, radius int, c uint32) []byte {
	return newFrame(cmdCircle, 0).u16(x, y, radius).rgb(c)
}

func encodeTriangle(x1, y1, x2, y2, x3, y3 int, c uint32) []byte {
	return newFrame(cmdTriangle, 0).u16(x1, y1, x2, y2, x3, y3).rgb(c)
}

func encodeLine(x1, y1, x2, y2 int, c uint32) []byte {
	return newFrame(cmdLine, 0).u16(x1, y1, x2, y2).rgb(c)
}

func encodeRectangle(x1, y1, x2, y2 int, c uint32) []byte {
	return newFrame(cmdRectangle, 0).u16(x1, y1, x2, y2).rgb(c)
}

func encodeEllipse(x, y, rx, ry int, c uint32) []byte {
	return newFrame(cmdEllipse, 0).u16(x, y, rx, ry).rgb(c)
}

func encodePixel(x, y int, c uint32) []byte {
	return newFrame(cmdPixel, 0).u16(x, y).rgb(c)
}

func encodeReadPixel(x, y int) []byte {
	return newFrame(cmdReadPixel, 0).u16(x, y)
}

func encodeScreenCopy(xs, ys, xd, yd, width, height int) []byte {
	return newFrame(cmdScreenCopy, 0).u16(xs, ys, xd, yd, width, height)
}

func encodePenSize(style PenStyle) []byte {
	return newFrame(cmdPenSize, 0).raw(byte(style))
}

func encodeSetFont(font Font) []byte {
	return newFrame(cmdSetFont, 0).raw(byte(font))
}

func encodeTextMode(mode TextMode) []byte {
	return newFrame(cmdTextMode, 0).raw(byte(mode))
}

func encodeTextChar(ch, col, row byte, c uint32) []byte {
	return newFrame(cmdTextChar, 0).raw(ch, col, row).rgb(c)
}

func encodeGraphicChar(ch byte, x, y int, c uint32, width, height byte) []byte {
	return newFrame(cmdGraphicChar, 0).raw(ch).u16(x, y).rgb(c).raw(width, height)
}

func encodeTextString(s string, col, row byte, font Font, c uint32) []byte {
	s = cString(s)
	return newFrame(cmdTextString, len(s)).raw(col, row, byte(font)).rgb(c).str(s)
}

func encodeGraphicString(s string, x, y int, font Font, c uint32, width, height byte) []byte {
	s = cString(s)
	return newFrame(cmdGraphicString, len(s)).u16(x, y).raw(byte(font)).rgb(c).raw(width, height).str(s)
}

func encodeTextButton(s string, state ButtonState, x, y int, button uint32, font Font, text uint32, width, height byte) []byte {
	s = cString(s)
	return newFrame(cmdTextButton, len(s)).
		raw(byte(state)).
		u16(x, y).
		rgb(button).
		raw(byte(font)).
		rgb(text).
		raw(width, height).
		str(s)
}

func encodeTouchMode(mode TouchMode) []byte {
	return newFrame(cmdGetTouch, 0).raw(byte(mode))
}

func encodeWaitTouch(delay int) []byte {
	return newFrame(cmdWaitTouch, 0).u16(delay)
}

func encodeSetTouch(x1, y1, x2, y2 int) []byte {
	return newFrame(cmdSetTouch, 0).u16(x1, y1, x2, y2)
}
