// Package lcd drives 4D Systems 4DGL display controllers over a serial link.
package lcd

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"

	"github.com/aleksclark/go-4dgl/internal/syncutil"
)

// Config holds display configuration.
type Config struct {
	Port     string
	BaudRate int
	// Width and Height are the panel size in portrait orientation.
	Width  int
	Height int
	Timing Timing
	// ResetHold is how long the reset line is held low.
	ResetHold time.Duration
	// BootDelay is the wait after releasing reset before the controller
	// accepts commands.
	BootDelay time.Duration
	Reset     ResetLine
	Clock     clockwork.Clock
	Logger    *zerolog.Logger
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Port:     "/dev/ttyUSB0",
		BaudRate: DefaultBaudRate,
		Width:    240,
		Height:   320,
		Timing: Timing{
			ByteDelay:       time.Millisecond,
			PollInterval:    5 * time.Millisecond,
			ResponseGap:     20 * time.Millisecond,
			ResponseTimeout: 5 * time.Second,
		},
		ResetHold: 5 * time.Millisecond,
		BootDelay: 3 * time.Second,
	}
}

// Display is a connection to a 4DGL controller. All methods are safe for
// concurrent use; each command exchange runs under one lock because the
// protocol has no way to match replies to interleaved requests.
type Display struct {
	mu          syncutil.Mutex
	port        Port
	link        *Transport
	reset       ResetLine
	clock       clockwork.Clock
	session     *Session
	logger      zerolog.Logger
	cfg         Config
	identity    DeviceIdentity
	hasIdentity bool
	stage       Stage
}

// OpenPort opens a serial port at baud, 8N1.
func OpenPort(name string, baud int) (serial.Port, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(name, serialMode(baud))
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return port, nil
}

// Open opens the serial port named in cfg and brings the link up.
func Open(ctx context.Context, cfg Config) (*Display, error) {
	port, err := OpenPort(cfg.Port, cfg.BaudRate)
	if err != nil {
		return nil, err
	}

	d := New(port, cfg)
	if err := d.BringUp(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// New wraps an already open port. No bytes are exchanged until BringUp or
// another command is called.
//
// A zero Timing takes the defaults. Otherwise a zero PollInterval or
// ResponseGap is defaulted on its own, while a zero ByteDelay or
// ResponseTimeout is kept: no pacing, and no limit on the reply wait.
func New(port Port, cfg Config) *Display {
	def := DefaultConfig()
	if cfg.BaudRate == 0 {
		cfg.BaudRate = def.BaudRate
	}
	if cfg.Timing == (Timing{}) {
		cfg.Timing = def.Timing
	}
	if cfg.Timing.PollInterval <= 0 {
		cfg.Timing.PollInterval = def.Timing.PollInterval
	}
	if cfg.Timing.ResponseGap <= 0 {
		cfg.Timing.ResponseGap = def.Timing.ResponseGap
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Reset == nil {
		cfg.Reset = NopResetLine{}
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	logger = logger.With().Str("component", "lcd").Logger()

	return &Display{
		port:    port,
		link:    NewTransport(port, cfg.BaudRate, cfg.Timing, cfg.Clock, logger),
		reset:   cfg.Reset,
		clock:   cfg.Clock,
		session: NewSession(cfg.Width, cfg.Height),
		logger:  logger,
		cfg:     cfg,
	}
}

// Close closes the serial port.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	return err
}

// Width returns the screen width in pixels for the current orientation.
func (d *Display) Width() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, _ := d.session.ScreenSize()
	return w
}

// Height returns the screen height in pixels for the current orientation.
func (d *Display) Height() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, h := d.session.ScreenSize()
	return h
}

// BaudRate returns the host side bit rate of the link.
func (d *Display) BaudRate() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.link.BaudRate()
}

// command sends a frame that is answered by a single ACK/NAK byte.
// The caller holds d.mu.
func (d *Display) command(ctx context.Context, b []byte) error {
	return d.commandTimeout(ctx, b, d.cfg.Timing.ResponseTimeout)
}

func (d *Display) commandTimeout(ctx context.Context, b []byte, timeout time.Duration) error {
	resp, err := d.link.Exchange(ctx, b, 1, timeout)
	if err != nil {
		return fmt.Errorf("command 0x%02X: %w", b[0], err)
	}
	return d.checkAck(b[0], resp)
}

func (d *Display) checkAck(op byte, resp []byte) error {
	err := ackError(op, resp)
	if err != nil {
		d.logger.Warn().Err(err).Msg("command not acknowledged")
	}
	return err
}

// query sends a frame answered by a structured reply of up to n bytes.
// The caller holds d.mu.
func (d *Display) query(ctx context.Context, b []byte, n int) ([]byte, error) {
	resp, err := d.link.Exchange(ctx, b, n, d.cfg.Timing.ResponseTimeout)
	if err != nil {
		return nil, fmt.Errorf("command 0x%02X: %w", b[0], err)
	}
	return resp, nil
}

func (d *Display) do(ctx context.Context, b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command(ctx, b)
}

// sleep waits for dur on the display clock or until ctx is done.
func (d *Display) sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.clock.After(dur):
		return nil
	}
}
