package lcd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

// Port is the part of serial.Port the driver uses.
type Port interface {
	io.ReadWriteCloser
	SetMode(mode *serial.Mode) error
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
	Drain() error
}

var _ Port = (serial.Port)(nil)

// Timing controls pacing and waiting on the link.
type Timing struct {
	// ByteDelay is the pause after each transmitted byte.
	ByteDelay time.Duration
	// PollInterval bounds each blocking read while waiting for the first
	// reply byte.
	PollInterval time.Duration
	// ResponseGap is how long to wait for further reply bytes once the first
	// has arrived.
	ResponseGap time.Duration
	// ResponseTimeout bounds the wait for the first reply byte. Zero waits
	// forever.
	ResponseTimeout time.Duration
}

// Transport owns the byte stream to the controller. It is not safe for
// concurrent use; Display serialises access to it.
type Transport struct {
	port   Port
	clock  clockwork.Clock
	logger zerolog.Logger
	timing Timing
	baud   int
}

// NewTransport wraps an open port running at baud.
func NewTransport(port Port, baud int, timing Timing, clock clockwork.Clock, logger zerolog.Logger) *Transport {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Transport{
		port:   port,
		clock:  clock,
		logger: logger,
		timing: timing,
		baud:   baud,
	}
}

// BaudRate returns the host side bit rate.
func (t *Transport) BaudRate() int { return t.baud }

// Drain discards any bytes already received.
func (t *Transport) Drain() error {
	if err := t.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("drain input: %w", err)
	}
	return nil
}

// SendFrame writes the frame one byte at a time with the configured spacing.
func (t *Transport) SendFrame(ctx context.Context, b []byte) error {
	if len(b) > 0 {
		t.logger.Trace().Hex("frame", b).Msgf("command 0x%02X", b[0])
	}
	one := make([]byte, 1)
	for i, c := range b {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("send byte %d: %w", i, err)
		}
		one[0] = c
		if _, err := t.port.Write(one); err != nil {
			return fmt.Errorf("send byte %d: %w", i, err)
		}
		if t.timing.ByteDelay > 0 {
			t.clock.Sleep(t.timing.ByteDelay)
		}
	}
	return nil
}

// AwaitResponse blocks until at least one byte arrives, then keeps reading
// while more bytes follow within the response gap, up to maxBytes. A zero
// timeout waits until ctx is done.
func (t *Transport) AwaitResponse(ctx context.Context, maxBytes int, timeout time.Duration) ([]byte, error) {
	buf := make([]byte, maxBytes)
	if err := t.port.SetReadTimeout(t.timing.PollInterval); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	start := t.clock.Now()
	n := 0
	for n == 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLinkTimeout, err)
		}
		if timeout > 0 && t.clock.Since(start) >= timeout {
			return nil, fmt.Errorf("%w after %s", ErrLinkTimeout, timeout)
		}
		k, err := t.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		n = k
	}

	if n < maxBytes {
		if err := t.port.SetReadTimeout(t.timing.ResponseGap); err != nil {
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
		for n < maxBytes {
			k, err := t.port.Read(buf[n:])
			if err != nil {
				return nil, fmt.Errorf("read response: %w", err)
			}
			if k == 0 {
				break
			}
			n += k
		}
	}

	t.logger.Trace().Hex("response", buf[:n]).Int("len", n).Msg("answer received")
	return buf[:n], nil
}

// Exchange drains stale input, sends the frame and waits for a reply of up to
// maxBytes.
func (t *Transport) Exchange(ctx context.Context, b []byte, maxBytes int, timeout time.Duration) ([]byte, error) {
	if err := t.Drain(); err != nil {
		return nil, err
	}
	if err := t.SendFrame(ctx, b); err != nil {
		return nil, err
	}
	return t.AwaitResponse(ctx, maxBytes, timeout)
}

// SetBaudRate switches the host side of the link. Bytes already written are
// flushed at the old rate first.
func (t *Transport) SetBaudRate(rate int) error {
	if err := t.port.Drain(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if err := t.port.SetMode(serialMode(rate)); err != nil {
		return fmt.Errorf("set baud rate %d: %w", rate, err)
	}
	t.baud = rate
	return nil
}

func serialMode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}
