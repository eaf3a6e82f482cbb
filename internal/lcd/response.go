package lcd

import (
	"github.com/aleksclark/go-4dgl/pkg/rgb565"
)

// Reply classifies a single-byte acknowledgement.
type Reply int

const (
	ReplyUnknown Reply = 0
	ReplyAck     Reply = 1
	ReplyNak     Reply = -1
)

func (r Reply) String() string {
	switch r {
	case ReplyAck:
		return "ACK"
	case ReplyNak:
		return "NAK"
	default:
		return "unknown"
	}
}

// DeviceIdentity is the controller description returned by the version query.
type DeviceIdentity struct {
	Type      byte
	Revision  byte
	Firmware  byte
	Reserved1 byte
	Reserved2 byte
}

func decodeAck(resp []byte) Reply {
	if len(resp) == 0 {
		return ReplyUnknown
	}
	switch resp[0] {
	case respAck:
		return ReplyAck
	case respNak:
		return ReplyNak
	default:
		return ReplyUnknown
	}
}

// ackError converts a single-byte reply to the error returned to callers.
func ackError(op byte, resp []byte) error {
	switch decodeAck(resp) {
	case ReplyAck:
		return nil
	case ReplyNak:
		return &CommandError{Op: op, Err: ErrNak}
	default:
		return &CommandError{Op: op, Err: ErrUnknownResponse, Got: resp}
	}
}

func decodeVersion(resp []byte) (DeviceIdentity, error) {
	if len(resp) != versionResponseLen {
		return DeviceIdentity{}, &CommandError{Op: cmdVersion, Err: ErrIncompleteResponse, Got: resp, Want: versionResponseLen}
	}
	return DeviceIdentity{
		Type:      resp[0],
		Revision:  resp[1],
		Firmware:  resp[2],
		Reserved1: resp[3],
		Reserved2: resp[4],
	}, nil
}

// decodePixel returns the colour exactly as reported: 16-bit 5-6-5.
func decodePixel(resp []byte) (rgb565.Color, error) {
	if len(resp) != pixelResponseLen {
		return 0, &CommandError{Op: cmdReadPixel, Err: ErrIncompleteResponse, Got: resp, Want: pixelResponseLen}
	}
	return rgb565.FromBytes(resp[0], resp[1]), nil
}

// decodeTouch reads two big-endian coordinates. An axis whose high byte is
// 0xFF reads as 0. Short replies yield (-1, -1).
func decodeTouch(resp []byte) (x, y int, err error) {
	if len(resp) != touchResponseLen {
		return -1, -1, &CommandError{Op: cmdGetTouch, Err: ErrIncompleteResponse, Got: resp, Want: touchResponseLen}
	}
	if resp[0] != 0xFF {
		x = int(resp[0])<<8 | int(resp[1])
	}
	if resp[2] != 0xFF {
		y = int(resp[2])<<8 | int(resp[3])
	}
	return x, y, nil
}

// decodeTouchStatus takes the status code from the second byte.
func decodeTouchStatus(resp []byte) (TouchState, error) {
	if len(resp) != touchResponseLen {
		return TouchUnknown, &CommandError{Op: cmdGetTouch, Err: ErrIncompleteResponse, Got: resp, Want: touchResponseLen}
	}
	return TouchState(resp[1]), nil
}
