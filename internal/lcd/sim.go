package lcd

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"time"

	"github.com/fogleman/gg"
	"go.bug.st/serial"

	"github.com/aleksclark/go-4dgl/internal/syncutil"
	"github.com/aleksclark/go-4dgl/pkg/rgb565"
)

// Simulated controller for running without hardware.

var errPortClosed = errors.New("port closed")

// SimulatedController is an in-process 4DGL controller. It implements Port,
// parses the frames written to it, renders them onto an image and queues the
// replies a real controller would send. Like the hardware it ignores
// everything but the autobaud byte after a reset.
type SimulatedController struct {
	mu syncutil.Mutex

	width  int
	height int
	dc     *gg.Context

	in          []byte
	out         []byte
	frames      [][]byte
	script      map[byte][][]byte
	controls    map[ControlMode]byte
	readTimeout time.Duration

	hostBaud   int
	deviceBaud int
	locked     bool
	closed     bool
	resets     int

	identity    DeviceIdentity
	background  uint32
	pen         PenStyle
	font        Font
	textMode    TextMode
	orientation Orientation
	volume      byte
	touchRegion [4]int
	touch       TouchState
	touchX      int
	touchY      int
}

// NewSimulated creates a simulated controller with a portrait panel of the
// given size.
func NewSimulated(width, height int) *SimulatedController {
	s := &SimulatedController{
		width:    width,
		height:   height,
		script:   make(map[byte][][]byte),
		controls: make(map[ControlMode]byte),
		hostBaud: DefaultBaudRate,
		identity: DeviceIdentity{Type: 0x01, Revision: 0x02, Firmware: 0x03},
	}
	s.powerOn()
	return s
}

func (s *SimulatedController) powerOn() {
	s.locked = false
	s.deviceBaud = 0
	s.in = nil
	s.out = nil
	s.background = rgb565.Black
	s.pen = Solid
	s.font = Font5x7
	s.textMode = Opaque
	s.orientation = Portrait
	s.touch = TouchNone
	s.touchX, s.touchY = 0xFFFF, 0xFFFF
	s.dc = gg.NewContext(s.width, s.height)
	s.clear()
}

// ResetLine returns a reset input wired to this controller. Releasing it
// restarts the controller.
func (s *SimulatedController) ResetLine() ResetLine {
	return simReset{s}
}

type simReset struct{ s *SimulatedController }

func (r simReset) Set(high bool) error {
	if !high {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.resets++
	r.s.powerOn()
	return nil
}

// SetIdentity sets the reply to version queries.
func (s *SimulatedController) SetIdentity(id DeviceIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
}

// Script replaces the controller's next reply to op. An empty reply makes the
// controller stay silent.
func (s *SimulatedController) Script(op byte, reply []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script[op] = append(s.script[op], reply)
}

// Touch reports a press at (x, y) to subsequent touch queries.
func (s *SimulatedController) Touch(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch = TouchPressed
	s.touchX, s.touchY = x, y
}

// Release ends the current touch.
func (s *SimulatedController) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch = TouchReleased
}

// Frames returns every complete frame received since the last reset of the
// record.
func (s *SimulatedController) Frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.frames))
	copy(out, s.frames)
	return out
}

// ClearFrames empties the frame record.
func (s *SimulatedController) ClearFrames() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = nil
}

// Resets returns how many times the reset line was released.
func (s *SimulatedController) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}

// DeviceBaudRate returns the rate the controller is locked to, or 0 before
// autobaud.
func (s *SimulatedController) DeviceBaudRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceBaud
}

// Control returns the last value set for a display-control mode.
func (s *SimulatedController) Control(mode ControlMode) (byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.controls[mode]
	return v, ok
}

// Width returns the canvas width for the current orientation.
func (s *SimulatedController) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Width()
}

// Height returns the canvas height for the current orientation.
func (s *SimulatedController) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Height()
}

// Image returns a copy of the screen contents.
func (s *SimulatedController) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.dc.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// SavePNG writes the screen contents to path.
func (s *SimulatedController) SavePNG(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.SavePNG(path)
}

// Port methods.

func (s *SimulatedController) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errPortClosed
	}
	if s.locked && s.hostBaud != s.deviceBaud {
		// framing errors on the controller side
		return len(p), nil
	}
	s.in = append(s.in, p...)
	s.process()
	return len(p), nil
}

func (s *SimulatedController) Read(p []byte) (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, errPortClosed
	}
	if len(s.out) == 0 {
		wait := s.readTimeout
		s.mu.Unlock()
		time.Sleep(wait)
		return 0, nil
	}
	defer s.mu.Unlock()
	if s.hostBaud != s.deviceBaud {
		n := len(s.out)
		s.out = nil
		// garbage at the wrong rate
		return copy(p, bytes.Repeat([]byte{0xFE}, n)), nil
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

func (s *SimulatedController) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *SimulatedController) SetMode(mode *serial.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hostBaud = mode.BaudRate
	return nil
}

func (s *SimulatedController) SetReadTimeout(t time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readTimeout = t
	return nil
}

func (s *SimulatedController) ResetInputBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = nil
	return nil
}

func (s *SimulatedController) Drain() error { return nil }

// SetDTR treats DTR as the reset input, so DTRResetLine works against the
// simulator.
func (s *SimulatedController) SetDTR(dtr bool) error {
	return simReset{s}.Set(!dtr)
}

// process consumes every complete frame in the input buffer.
func (s *SimulatedController) process() {
	for len(s.in) > 0 {
		op := s.in[0]
		if !s.locked {
			if op == cmdAutobaud {
				s.locked = true
				s.deviceBaud = s.hostBaud
				s.record(s.in[:1])
				s.reply(op, respAck)
			}
			s.in = s.in[1:]
			continue
		}

		n := FrameLen(op, 0)
		if n == 0 {
			s.in = s.in[1:]
			s.out = append(s.out, respNak)
			continue
		}
		if len(s.in) < n {
			return
		}
		if isStringCommand(op) {
			end := bytes.IndexByte(s.in[n:], 0)
			if end < 0 {
				return
			}
			n += end + 1
		}

		f := s.in[:n]
		s.record(f)
		s.in = s.in[n:]
		s.execute(f)
	}
}

func (s *SimulatedController) record(f []byte) {
	s.frames = append(s.frames, append([]byte(nil), f...))
}

// reply queues resp unless a scripted reply for op is pending.
func (s *SimulatedController) reply(op byte, resp ...byte) {
	if q := s.script[op]; len(q) > 0 {
		s.out = append(s.out, q[0]...)
		s.script[op] = q[1:]
		return
	}
	s.out = append(s.out, resp...)
}

func u16(b []byte) int {
	return int(b[0])<<8 | int(b[1])
}

func (s *SimulatedController) setColor(hi, lo byte) {
	s.dc.SetColor(rgb565.FromBytes(hi, lo))
}

func (s *SimulatedController) paint() {
	if s.pen == Wireframe {
		s.dc.Stroke()
		return
	}
	s.dc.Fill()
}

func (s *SimulatedController) clear() {
	s.dc.SetColor(rgb565.Encode(s.background))
	s.dc.Clear()
}

func (s *SimulatedController) execute(f []byte) {
	op := f[0]
	p := f[1:]

	switch op {
	case cmdAutobaud:
	case cmdClear:
		s.clear()
	case cmdVersion:
		id := s.identity
		s.reply(op, id.Type, id.Revision, id.Firmware, id.Reserved1, id.Reserved2)
		return
	case cmdBaudRate:
		s.reply(op, respAck)
		for rate, code := range baudCodes {
			if code == p[0] {
				s.deviceBaud = rate
			}
		}
		return
	case cmdBackground:
		s.background = rgb565.FromBytes(p[0], p[1]).RGB()
	case cmdDisplayCtl:
		s.displayControl(ControlMode(p[0]), p[1])
	case cmdSetVolume:
		s.volume = p[0]
	case cmdCircle:
		s.setColor(p[6], p[7])
		s.dc.DrawCircle(float64(u16(p)), float64(u16(p[2:])), float64(u16(p[4:])))
		s.paint()
	case cmdTriangle:
		s.setColor(p[12], p[13])
		s.dc.MoveTo(float64(u16(p)), float64(u16(p[2:])))
		s.dc.LineTo(float64(u16(p[4:])), float64(u16(p[6:])))
		s.dc.LineTo(float64(u16(p[8:])), float64(u16(p[10:])))
		s.dc.ClosePath()
		s.paint()
	case cmdLine:
		s.setColor(p[8], p[9])
		s.dc.DrawLine(float64(u16(p)), float64(u16(p[2:])), float64(u16(p[4:])), float64(u16(p[6:])))
		s.dc.Stroke()
	case cmdRectangle:
		s.setColor(p[8], p[9])
		x1, y1, x2, y2 := u16(p), u16(p[2:]), u16(p[4:]), u16(p[6:])
		s.dc.DrawRectangle(float64(x1), float64(y1), float64(x2-x1), float64(y2-y1))
		s.paint()
	case cmdEllipse:
		s.setColor(p[8], p[9])
		s.dc.DrawEllipse(float64(u16(p)), float64(u16(p[2:])), float64(u16(p[4:])), float64(u16(p[6:])))
		s.paint()
	case cmdPixel:
		s.setColor(p[4], p[5])
		s.dc.SetPixel(u16(p), u16(p[2:]))
	case cmdReadPixel:
		c := rgb565.Encode(rgb565.FromColor(s.dc.Image().At(u16(p), u16(p[2:]))))
		hi, lo := c.Bytes()
		s.reply(op, hi, lo)
		return
	case cmdScreenCopy:
		s.screenCopy(u16(p), u16(p[2:]), u16(p[4:]), u16(p[6:]), u16(p[8:]), u16(p[10:]))
	case cmdPenSize:
		s.pen = PenStyle(p[0])
	case cmdSetFont:
		s.font = Font(p[0])
	case cmdTextMode:
		s.textMode = TextMode(p[0])
	case cmdTextChar:
		cw, ch := s.font.Cell()
		s.drawText(string(p[0]), int(p[1])*cw, int(p[2])*ch, s.font, p[3], p[4])
	case cmdGraphicChar:
		s.drawText(string(p[0]), u16(p[1:]), u16(p[3:]), s.font, p[5], p[6])
	case cmdTextString:
		font := Font(p[2])
		cw, ch := font.Cell()
		s.drawText(cString(string(p[5:])), int(p[0])*cw, int(p[1])*ch, font, p[3], p[4])
	case cmdGraphicString:
		s.drawText(cString(string(p[9:])), u16(p), u16(p[2:]), Font(p[4]), p[5], p[6])
	case cmdTextButton:
		s.drawButton(p)
	case cmdGetTouch:
		s.getTouch(TouchMode(p[0]))
		return
	case cmdWaitTouch:
	case cmdSetTouch:
		s.touchRegion = [4]int{u16(p), u16(p[2:]), u16(p[4:]), u16(p[6:])}
	}

	s.reply(op, respAck)
}

func (s *SimulatedController) displayControl(mode ControlMode, value byte) {
	s.controls[mode] = value
	if mode != ModeOrientation {
		return
	}
	o := Orientation(value)
	if o.IsLandscape() == s.orientation.IsLandscape() {
		s.orientation = o
		return
	}
	s.orientation = o
	w, h := s.width, s.height
	if o.IsLandscape() {
		w, h = h, w
	}
	s.dc = gg.NewContext(w, h)
	s.clear()
}

func (s *SimulatedController) screenCopy(xs, ys, xd, yd, w, h int) {
	src := s.dc.Image()
	block := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(block, block.Bounds(), src, image.Pt(xs, ys), draw.Src)
	s.dc.DrawImage(block, xd, yd)
}

// drawText renders with gg's built-in face; glyph shapes only approximate the
// controller's fonts but cells are placed on the controller's grid.
func (s *SimulatedController) drawText(text string, x, y int, font Font, hi, lo byte) {
	cw, ch := font.Cell()
	if s.textMode == Opaque {
		s.dc.SetColor(rgb565.Encode(s.background))
		s.dc.DrawRectangle(float64(x), float64(y), float64(cw*len(text)), float64(ch))
		s.dc.Fill()
	}
	s.setColor(hi, lo)
	s.dc.DrawString(text, float64(x), float64(y+ch-1))
}

func (s *SimulatedController) drawButton(p []byte) {
	state := ButtonState(p[0])
	x, y := u16(p[1:]), u16(p[3:])
	font := Font(p[7])
	wm, hm := int(p[10]), int(p[11])
	text := cString(string(p[12:]))
	cw, ch := font.Cell()
	if wm < 1 {
		wm = 1
	}
	if hm < 1 {
		hm = 1
	}
	bw := float64(cw*wm*len(text) + 4)
	bh := float64(ch*hm + 4)

	s.setColor(p[5], p[6])
	s.dc.DrawRectangle(float64(x), float64(y), bw, bh)
	s.dc.Fill()
	if state == ButtonUp {
		s.dc.SetColor(rgb565.Encode(rgb565.White))
		s.dc.DrawRectangle(float64(x), float64(y), bw, bh)
		s.dc.Stroke()
	}
	s.setColor(p[8], p[9])
	s.dc.DrawString(text, float64(x+2), float64(y+2+ch-1))
}

func (s *SimulatedController) getTouch(mode TouchMode) {
	switch mode {
	case TouchGetPosition:
		s.reply(cmdGetTouch, byte(s.touchX>>8), byte(s.touchX), byte(s.touchY>>8), byte(s.touchY))
	case TouchStatusQuery:
		s.reply(cmdGetTouch, 0x00, byte(s.touch), 0x00, 0x00)
		if s.touch == TouchReleased {
			s.touch = TouchNone
		}
	default:
		s.reply(cmdGetTouch, respAck)
	}
}
