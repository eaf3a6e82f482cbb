package lcd

import (
	"errors"
	"fmt"
)

var (
	// ErrNak means the controller rejected the command.
	ErrNak = errors.New("controller replied NAK")
	// ErrUnknownResponse means the reply byte was neither ACK nor NAK.
	ErrUnknownResponse = errors.New("unknown controller response")
	// ErrIncompleteResponse means fewer bytes arrived than the reply format needs.
	ErrIncompleteResponse = errors.New("incomplete controller response")
	// ErrLinkTimeout means no reply byte arrived before the deadline.
	ErrLinkTimeout = errors.New("no response from controller")
)

// CommandError reports a failed exchange for a single command.
type CommandError struct {
	Err  error
	Op   byte
	Got  []byte
	Want int
}

func (e *CommandError) Error() string {
	if e.Want > 0 {
		return fmt.Sprintf("command 0x%02X: %v (got %d of %d bytes)", e.Op, e.Err, len(e.Got), e.Want)
	}
	if len(e.Got) > 0 {
		return fmt.Sprintf("command 0x%02X: %v (0x%02X)", e.Op, e.Err, e.Got[0])
	}
	return fmt.Sprintf("command 0x%02X: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// IsSoft reports whether err is a reply the caller may treat as an
// indeterminate result rather than a failure.
func IsSoft(err error) bool {
	return errors.Is(err, ErrUnknownResponse)
}
