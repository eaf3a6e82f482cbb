package lcd

import "github.com/aleksclark/go-4dgl/pkg/rgb565"

// Session tracks the text cursor and the font metrics it wraps against.
// Coordinates are character cells, not pixels.
type Session struct {
	Col         int
	Row         int
	Color       uint32
	Font        Font
	Orientation Orientation
	MaxCols     int
	MaxRows     int

	// screen size in portrait orientation
	width  int
	height int
}

// NewSession returns a session at the origin with white text, portrait
// orientation and the 5x7 font.
func NewSession(width, height int) *Session {
	s := &Session{
		Color:       rgb565.White,
		Orientation: Portrait,
		width:       width,
		height:      height,
	}
	s.SetFont(Font5x7)
	return s
}

// Reset returns the cursor, colour and orientation to their start values and
// recomputes the grid for the current font.
func (s *Session) Reset() {
	s.Col, s.Row = 0, 0
	s.Color = rgb565.White
	s.Orientation = Portrait
	s.SetFont(s.Font)
}

// ScreenSize returns the pixel size for the current orientation.
func (s *Session) ScreenSize() (w, h int) {
	if s.Orientation.IsLandscape() {
		return s.height, s.width
	}
	return s.width, s.height
}

// SetFont selects f and recomputes the column and row bounds.
func (s *Session) SetFont(f Font) {
	s.Font = f
	w, h := s.ScreenSize()
	cw, ch := f.Cell()
	s.MaxCols = w / cw
	s.MaxRows = h / ch
}

// SetOrientation records o and recomputes the grid for the current font.
// Values other than the four rotations leave the orientation unchanged.
func (s *Session) SetOrientation(o Orientation) {
	switch o {
	case Landscape, ReverseLandscape, Portrait, ReversePortrait:
		s.Orientation = o
	}
	s.SetFont(s.Font)
}

// Locate moves the cursor without bounds checks.
func (s *Session) Locate(col, row int) {
	s.Col, s.Row = col, row
}

// AdvanceChar moves the cursor past one character, wrapping to the next row
// at the right edge and back to the top row past the bottom edge.
func (s *Session) AdvanceChar() {
	s.Col++
	if s.MaxCols > 0 && s.Col >= s.MaxCols {
		s.Col = 0
		s.Row++
	}
	if s.MaxRows > 0 && s.Row >= s.MaxRows {
		s.Row = 0
	}
}

// AdvanceString moves the cursor past n characters written in one command.
func (s *Session) AdvanceString(n int) {
	s.Col += n
	if s.MaxCols > 0 && s.Col >= s.MaxCols {
		s.Row += s.Col / s.MaxCols
		s.Col %= s.MaxCols
	}
	if s.MaxRows > 0 && s.Row >= s.MaxRows {
		s.Row %= s.MaxRows
	}
}
