package lcd

import (
	"context"
	"fmt"
)

// Stage is a step of the link bring-up sequence.
type Stage int

const (
	StageIdle Stage = iota
	StageReset
	StageAutobaud
	StageVersionQuery
	StageClearScreen
	StageReady
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageReset:
		return "reset"
	case StageAutobaud:
		return "autobaud"
	case StageVersionQuery:
		return "version"
	case StageClearScreen:
		return "clear"
	case StageReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Stage returns the last bring-up step reached. After a failed BringUp it is
// the step that failed.
func (d *Display) Stage() Stage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stage
}

// BringUp resets the controller, locks its bit rate, reads its identity and
// clears the screen. The text session then starts at the origin in white with
// the 5x7 font and opaque text. Nothing is retried; a failed step is returned
// and BringUp may be called again.
func (d *Display) BringUp(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	steps := []struct {
		run   func(context.Context) error
		stage Stage
		soft  bool
	}{
		{stage: StageReset, run: d.resetLocked},
		{stage: StageAutobaud, run: d.autobaudLocked, soft: true},
		{stage: StageVersionQuery, run: func(ctx context.Context) error {
			_, err := d.queryVersionLocked(ctx)
			return err
		}},
		{stage: StageClearScreen, run: d.clsLocked, soft: true},
	}

	for _, step := range steps {
		d.stage = step.stage
		d.logger.Info().Stringer("stage", step.stage).Msg("bring-up")
		err := step.run(ctx)
		if err != nil && step.soft && IsSoft(err) {
			d.logger.Warn().Err(err).Stringer("stage", step.stage).Msg("ignoring unrecognised reply")
			err = nil
		}
		if err != nil {
			return fmt.Errorf("bring-up %s: %w", step.stage, err)
		}
	}

	d.session.Reset()
	if err := d.setFontLocked(ctx, Font5x7); err != nil && !IsSoft(err) {
		return fmt.Errorf("bring-up font: %w", err)
	}
	if err := d.command(ctx, encodeTextMode(Opaque)); err != nil && !IsSoft(err) {
		return fmt.Errorf("bring-up text mode: %w", err)
	}

	d.stage = StageReady
	d.logger.Info().
		Uint8("type", d.identity.Type).
		Uint8("revision", d.identity.Revision).
		Uint8("firmware", d.identity.Firmware).
		Int("baud", d.link.BaudRate()).
		Msg("display ready")
	return nil
}

// Reset pulses the reset line, waits for the controller to boot and discards
// whatever it sent meanwhile.
func (d *Display) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resetLocked(ctx)
}

func (d *Display) resetLocked(ctx context.Context) error {
	if err := d.reset.Set(false); err != nil {
		return fmt.Errorf("assert reset: %w", err)
	}
	if err := d.sleep(ctx, d.cfg.ResetHold); err != nil {
		_ = d.reset.Set(true)
		return err
	}
	if err := d.reset.Set(true); err != nil {
		return fmt.Errorf("release reset: %w", err)
	}
	if err := d.sleep(ctx, d.cfg.BootDelay); err != nil {
		return err
	}
	return d.link.Drain()
}

// Autobaud sends the autobaud byte the controller uses to detect the bit rate.
func (d *Display) Autobaud(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.autobaudLocked(ctx)
}

func (d *Display) autobaudLocked(ctx context.Context) error {
	return d.command(ctx, encodeAutobaud())
}

// QueryVersion asks for the controller identity. On success it is also kept
// for Identity; an incomplete reply leaves the stored identity untouched.
func (d *Display) QueryVersion(ctx context.Context) (DeviceIdentity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queryVersionLocked(ctx)
}

func (d *Display) queryVersionLocked(ctx context.Context) (DeviceIdentity, error) {
	resp, err := d.query(ctx, encodeVersion(Off), versionResponseLen)
	if err != nil {
		return DeviceIdentity{}, err
	}
	id, err := decodeVersion(resp)
	if err != nil {
		d.logger.Warn().Err(err).Msg("version query")
		return DeviceIdentity{}, err
	}
	d.identity = id
	d.hasIdentity = true
	return id, nil
}

// Identity returns the identity read by the last successful version query.
func (d *Display) Identity() (DeviceIdentity, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.identity, d.hasIdentity
}

// Cls clears the screen to the background colour.
func (d *Display) Cls(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clsLocked(ctx)
}

func (d *Display) clsLocked(ctx context.Context) error {
	return d.command(ctx, encodeClear())
}

// SetBaudRate switches both ends of the link to rate. Unsupported rates
// select 9600; the rate actually selected is returned. The request is sent at
// the current rate and the reply is read at the new one.
func (d *Display) SetBaudRate(ctx context.Context, rate int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	code, effective := BaudCode(rate)
	if effective != rate {
		d.logger.Warn().Int("requested", rate).Int("effective", effective).Msg("unsupported baud rate")
	}

	b := encodeBaudRate(code)
	if err := d.link.Drain(); err != nil {
		return d.link.BaudRate(), err
	}
	if err := d.link.SendFrame(ctx, b); err != nil {
		return d.link.BaudRate(), fmt.Errorf("command 0x%02X: %w", b[0], err)
	}
	if err := d.link.SetBaudRate(effective); err != nil {
		return d.link.BaudRate(), err
	}
	resp, err := d.link.AwaitResponse(ctx, 1, d.cfg.Timing.ResponseTimeout)
	if err != nil {
		return effective, fmt.Errorf("command 0x%02X: %w", b[0], err)
	}
	return effective, d.checkAck(b[0], resp)
}
