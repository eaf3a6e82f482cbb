package lcd

// Command bytes for the 4DGL serial command set.
const (
	cmdAutobaud      byte = 0x55
	cmdClear         byte = 0x45
	cmdBaudRate      byte = 0x51
	cmdVersion       byte = 0x56
	cmdBackground    byte = 0x42
	cmdDisplayCtl    byte = 0x59
	cmdSetVolume     byte = 0x76
	cmdCircle        byte = 0x43
	cmdTriangle      byte = 0x47
	cmdLine          byte = 0x4C
	cmdRectangle     byte = 0x72
	cmdEllipse       byte = 0x65
	cmdPixel         byte = 0x50
	cmdReadPixel     byte = 0x52
	cmdScreenCopy    byte = 0x63
	cmdPenSize       byte = 0x70
	cmdSetFont       byte = 0x46
	cmdTextMode      byte = 0x4F
	cmdTextChar      byte = 0x54
	cmdGraphicChar   byte = 0x74
	cmdTextString    byte = 0x73
	cmdGraphicString byte = 0x53
	cmdTextButton    byte = 0x62
	cmdGetTouch      byte = 0x6F
	cmdWaitTouch     byte = 0x77
	cmdSetTouch      byte = 0x75
)

// Controller answers.
const (
	respAck byte = 0x06
	respNak byte = 0x15
)

// Response sizes for the structured replies.
const (
	versionResponseLen = 5
	pixelResponseLen   = 2
	touchResponseLen   = 4
)

// frameSizes holds the exact length of every fixed-size frame, and the header
// length (opcode and parameters, before the string payload) of string frames.
var frameSizes = map[byte]int{
	cmdAutobaud:      1,
	cmdClear:         1,
	cmdBaudRate:      2,
	cmdVersion:       2,
	cmdBackground:    3,
	cmdDisplayCtl:    3,
	cmdSetVolume:     2,
	cmdCircle:        9,
	cmdTriangle:      15,
	cmdLine:          11,
	cmdRectangle:     11,
	cmdEllipse:       11,
	cmdPixel:         7,
	cmdReadPixel:     5,
	cmdScreenCopy:    13,
	cmdPenSize:       2,
	cmdSetFont:       2,
	cmdTextMode:      2,
	cmdTextChar:      6,
	cmdGraphicChar:   10,
	cmdTextString:    6,
	cmdGraphicString: 10,
	cmdTextButton:    13,
	cmdGetTouch:      2,
	cmdWaitTouch:     3,
	cmdSetTouch:      9,
}

func isStringCommand(op byte) bool {
	return op == cmdTextString || op == cmdGraphicString || op == cmdTextButton
}

// FrameLen returns the exact number of bytes sent for op. payload is the string
// length for string-carrying commands and is ignored otherwise. It returns 0 for
// unknown opcodes.
func FrameLen(op byte, payload int) int {
	n, ok := frameSizes[op]
	if !ok {
		return 0
	}
	if isStringCommand(op) {
		return n + payload + 1
	}
	return n
}

// Switch is an on/off parameter value.
type Switch byte

const (
	Off Switch = 0x00
	On  Switch = 0x01
)

// PenStyle selects filled or outlined shapes.
type PenStyle byte

const (
	Solid     PenStyle = 0x00
	Wireframe PenStyle = 0x01
)

// TextMode selects whether text cells paint their background.
type TextMode byte

const (
	Transparent TextMode = 0x00
	Opaque      TextMode = 0x01
)

// Font selects one of the controller's built-in fonts.
type Font byte

const (
	Font5x7   Font = 0x00
	Font8x8   Font = 0x01
	Font8x12  Font = 0x02
	Font12x16 Font = 0x03
)

// Cell returns the character cell size in pixels. The 5x7 font advances by 6
// pixels, not 5. Unknown fonts use an 8x8 cell.
func (f Font) Cell() (w, h int) {
	switch f {
	case Font5x7:
		return 6, 8
	case Font8x8:
		return 8, 8
	case Font8x12:
		return 8, 12
	case Font12x16:
		return 12, 16
	default:
		return 8, 8
	}
}

func (f Font) String() string {
	switch f {
	case Font5x7:
		return "5x7"
	case Font8x8:
		return "8x8"
	case Font8x12:
		return "8x12"
	case Font12x16:
		return "12x16"
	default:
		return "unknown"
	}
}

// ControlMode is the first parameter of the display-control command.
type ControlMode byte

const (
	ModeBacklight    ControlMode = 0x00
	ModeDisplay      ControlMode = 0x01
	ModeContrast     ControlMode = 0x02
	ModePower        ControlMode = 0x03
	ModeOrientation  ControlMode = 0x04
	ModeTouchControl ControlMode = 0x05
	ModeImageFormat  ControlMode = 0x06
	ModeProtectFAT   ControlMode = 0x08
	ModeResolution   ControlMode = 0x0C
)

// Orientation is the value sent with ModeOrientation.
type Orientation byte

const (
	Landscape        Orientation = 0x01
	ReverseLandscape Orientation = 0x02
	Portrait         Orientation = 0x03
	ReversePortrait  Orientation = 0x04
)

// IsLandscape reports whether the orientation swaps screen width and height.
func (o Orientation) IsLandscape() bool {
	return o == Landscape || o == ReverseLandscape
}

func (o Orientation) String() string {
	switch o {
	case Landscape:
		return "landscape"
	case ReverseLandscape:
		return "landscape-reversed"
	case Portrait:
		return "portrait"
	case ReversePortrait:
		return "portrait-reversed"
	default:
		return "unknown"
	}
}

// Values for ModeTouchControl.
const (
	TouchEnable  byte = 0x00
	TouchDisable byte = 0x01
	TouchReset   byte = 0x02
)

// TouchMode is the sub-command of the get-touch opcode.
type TouchMode byte

const (
	TouchWait        TouchMode = 0x00
	TouchPress       TouchMode = 0x01
	TouchRelease     TouchMode = 0x02
	TouchMove        TouchMode = 0x03
	TouchStatusQuery TouchMode = 0x04
	TouchGetPosition TouchMode = 0x05
)

// TouchState is the activity code reported by a touch-status query.
type TouchState int

const (
	TouchUnknown  TouchState = -1
	TouchNone     TouchState = 0
	TouchPressed  TouchState = 1
	TouchReleased TouchState = 2
	TouchMoving   TouchState = 3
)

func (s TouchState) String() string {
	switch s {
	case TouchNone:
		return "none"
	case TouchPressed:
		return "press"
	case TouchReleased:
		return "release"
	case TouchMoving:
		return "moving"
	default:
		return "unknown"
	}
}

// DefaultBaudRate is the rate used for autobaud and for unrecognised requests.
const DefaultBaudRate = 9600

// baudCodes maps the supported bit rates to their protocol codes.
var baudCodes = map[int]byte{
	110:    0x00,
	300:    0x01,
	600:    0x02,
	1200:   0x03,
	2400:   0x04,
	4800:   0x05,
	9600:   0x06,
	14400:  0x07,
	19200:  0x08,
	31250:  0x09,
	38400:  0x0A,
	56000:  0x0B,
	57600:  0x0C,
	115200: 0x0D,
	128000: 0x0E,
	256000: 0x0F,
}

// BaudCode returns the protocol code for rate and the rate it actually selects.
// Unsupported rates fall back to 9600.
func BaudCode(rate int) (code byte, effective int) {
	if c, ok := baudCodes[rate]; ok {
		return c, rate
	}
	return baudCodes[DefaultBaudRate], DefaultBaudRate
}

// ButtonState selects the drawn state of a text button.
type ButtonState byte

const (
	ButtonDown ButtonState = 0x00
	ButtonUp   ButtonState = 0x01
)
