package lcd

import "context"

// SetFont selects a built-in font and recomputes the text grid. The grid is
// updated before the frame is sent, so it holds even when the controller
// rejects the command or never answers.
func (d *Display) SetFont(ctx context.Context, font Font) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setFontLocked(ctx, font)
}

func (d *Display) setFontLocked(ctx context.Context, font Font) error {
	d.session.SetFont(font)
	d.logger.Debug().
		Stringer("font", font).
		Int("cols", d.session.MaxCols).
		Int("rows", d.session.MaxRows).
		Msg("text grid")
	return d.command(ctx, encodeSetFont(font))
}

// TextMode selects transparent or opaque text.
func (d *Display) TextMode(ctx context.Context, mode TextMode) error {
	return d.do(ctx, encodeTextMode(mode))
}

// TextChar draws one character in a text cell.
func (d *Display) TextChar(ctx context.Context, c byte, col, row int, color uint32) error {
	return d.do(ctx, encodeTextChar(c, byte(col), byte(row), color))
}

// GraphicChar draws one character at a pixel position, scaled by width and
// height multipliers.
func (d *Display) GraphicChar(ctx context.Context, c byte, x, y int, color uint32, width, height byte) error {
	return d.do(ctx, encodeGraphicChar(c, x, y, color, width, height))
}

// TextString draws s starting at a text cell. s ends at its first NUL byte.
func (d *Display) TextString(ctx context.Context, s string, col, row int, font Font, color uint32) error {
	return d.do(ctx, encodeTextString(s, byte(col), byte(row), font, color))
}

// GraphicString draws s at a pixel position, scaled by width and height
// multipliers.
func (d *Display) GraphicString(ctx context.Context, s string, x, y int, font Font, color uint32, width, height byte) error {
	return d.do(ctx, encodeGraphicString(s, x, y, font, color, width, height))
}

// Button describes a text button.
type Button struct {
	Text      string
	State     ButtonState
	X, Y      int
	Color     uint32
	Font      Font
	TextColor uint32
	Width     byte
	Height    byte
}

// TextButton draws a button with a text label.
func (d *Display) TextButton(ctx context.Context, b Button) error {
	return d.do(ctx, encodeTextButton(b.Text, b.State, b.X, b.Y, b.Color, b.Font, b.TextColor, b.Width, b.Height))
}

// Locate moves the text cursor. Positions outside the grid are not corrected.
func (d *Display) Locate(col, row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session.Locate(col, row)
}

// SetColor sets the text colour used by PutChar and PutString.
func (d *Display) SetColor(color uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session.Color = color
}

// Cursor returns the text cursor position.
func (d *Display) Cursor() (col, row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Col, d.session.Row
}

// Grid returns the number of text columns and rows for the current font and
// orientation.
func (d *Display) Grid() (cols, rows int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.MaxCols, d.session.MaxRows
}

// Font returns the current font.
func (d *Display) Font() Font {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Font
}

// PutChar draws c at the cursor and advances it, wrapping at the right and
// bottom edges. Text past the last row overwrites the first.
func (d *Display) PutChar(ctx context.Context, c byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.session
	err := d.command(ctx, encodeTextChar(c, byte(s.Col), byte(s.Row), s.Color))
	s.AdvanceChar()
	return err
}

// PutString draws str at the cursor in one command and advances the cursor by
// its length.
func (d *Display) PutString(ctx context.Context, str string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.session
	str = cString(str)
	err := d.command(ctx, encodeTextString(str, byte(s.Col), byte(s.Row), s.Font, s.Color))
	s.AdvanceString(len(str))
	return err
}
