package lcd

import (
	"context"
	"fmt"
	"time"
)

// TouchMode sets which touch event the controller reports.
func (d *Display) TouchMode(ctx context.Context, mode TouchMode) error {
	return d.do(ctx, encodeTouchMode(mode))
}

// GetTouch returns the last touch position. An axis the controller reports as
// invalid reads as 0. A reply of any length but 4 returns (-1, -1) and
// ErrIncompleteResponse.
func (d *Display) GetTouch(ctx context.Context) (x, y int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	resp, err := d.query(ctx, encodeTouchMode(TouchGetPosition), touchResponseLen+1)
	if err != nil {
		return -1, -1, err
	}
	return decodeTouch(resp)
}

// TouchStatus returns the current touch activity.
func (d *Display) TouchStatus(ctx context.Context) (TouchState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	resp, err := d.query(ctx, encodeTouchMode(TouchStatusQuery), touchResponseLen+1)
	if err != nil {
		return TouchUnknown, err
	}
	return decodeTouchStatus(resp)
}

// WaitTouch blocks until the screen is touched or delay elapses on the
// controller. The reply wait is extended by delay.
func (d *Display) WaitTouch(ctx context.Context, delay time.Duration) error {
	ms := int(delay / time.Millisecond)
	if ms < 0 || ms > 0xFFFF {
		return fmt.Errorf("wait touch delay %s out of range", delay)
	}

	timeout := d.cfg.Timing.ResponseTimeout
	if timeout > 0 {
		timeout += delay
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commandTimeout(ctx, encodeWaitTouch(ms), timeout)
}

// SetTouchRegion restricts touch detection to a rectangle.
func (d *Display) SetTouchRegion(ctx context.Context, x1, y1, x2, y2 int) error {
	return d.do(ctx, encodeSetTouch(x1, y1, x2, y2))
}
