package lcd

import (
	"context"
	"errors"

	"github.com/aleksclark/go-4dgl/pkg/rgb565"
)

// Coordinates, sizes and radii are sent as 16-bit values; callers keep them
// within 0-65535. Colours are 24-bit 0xRRGGBB.

// BackgroundColor sets the colour used by Cls.
func (d *Display) BackgroundColor(ctx context.Context, color uint32) error {
	return d.do(ctx, encodeBackground(color))
}

// DisplayControl sets a display mode. Changing ModeOrientation also updates
// the text grid and re-selects the current font. The grid follows the new
// orientation when the controller answers, ACK or NAK, but is left as it was
// when no answer arrives. SetFont differs: it moves the grid even on a link
// timeout.
func (d *Display) DisplayControl(ctx context.Context, mode ControlMode, value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.command(ctx, encodeDisplayControl(mode, value))
	if mode != ModeOrientation {
		return err
	}
	var cerr *CommandError
	if err != nil && !errors.As(err, &cerr) {
		// link failure, the controller may never have seen the frame
		return err
	}
	d.session.SetOrientation(Orientation(value))
	if ferr := d.setFontLocked(ctx, d.session.Font); err == nil {
		err = ferr
	}
	return err
}

// SetOrientation rotates the screen.
func (d *Display) SetOrientation(ctx context.Context, o Orientation) error {
	return d.DisplayControl(ctx, ModeOrientation, byte(o))
}

// SetVolume sets the speaker volume (8-127).
func (d *Display) SetVolume(ctx context.Context, value byte) error {
	return d.do(ctx, encodeSetVolume(value))
}

// Circle draws a circle centred on (x, y), filled or outlined per PenSize.
func (d *Display) Circle(ctx context.Context, x, y, radius int, color uint32) error {
	return d.do(ctx, encodeCircle(x, y, radius, color))
}

// Triangle draws a triangle through three vertices.
func (d *Display) Triangle(ctx context.Context, x1, y1, x2, y2, x3, y3 int, color uint32) error {
	return d.do(ctx, encodeTriangle(x1, y1, x2, y2, x3, y3, color))
}

// Line draws a line between two points.
func (d *Display) Line(ctx context.Context, x1, y1, x2, y2 int, color uint32) error {
	return d.do(ctx, encodeLine(x1, y1, x2, y2, color))
}

// Rectangle draws a rectangle between opposite corners.
func (d *Display) Rectangle(ctx context.Context, x1, y1, x2, y2 int, color uint32) error {
	return d.do(ctx, encodeRectangle(x1, y1, x2, y2, color))
}

// Ellipse draws an ellipse centred on (x, y).
func (d *Display) Ellipse(ctx context.Context, x, y, rx, ry int, color uint32) error {
	return d.do(ctx, encodeEllipse(x, y, rx, ry, color))
}

// Pixel sets one pixel.
func (d *Display) Pixel(ctx context.Context, x, y int, color uint32) error {
	return d.do(ctx, encodePixel(x, y, color))
}

// ReadPixel returns the colour of one pixel as the controller stores it, in
// 5-6-5. Use Color.RGB to widen it; the bits dropped when the pixel was
// written are not recoverable.
func (d *Display) ReadPixel(ctx context.Context, x, y int) (rgb565.Color, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	resp, err := d.query(ctx, encodeReadPixel(x, y), pixelResponseLen)
	if err != nil {
		return 0, err
	}
	return decodePixel(resp)
}

// ScreenCopy copies a width x height block from (xs, ys) to (xd, yd).
func (d *Display) ScreenCopy(ctx context.Context, xs, ys, xd, yd, width, height int) error {
	return d.do(ctx, encodeScreenCopy(xs, ys, xd, yd, width, height))
}

// PenSize selects filled or outlined shapes.
func (d *Display) PenSize(ctx context.Context, style PenStyle) error {
	return d.do(ctx, encodePenSize(style))
}
