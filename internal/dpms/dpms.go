// Package dpms provides monitor sleep state detection via DRM.
package dpms

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// SysfsRoot is where DRM connectors are listed on Linux.
const SysfsRoot = "/sys/class/drm"

// State represents the DPMS power state.
type State int

const (
	On State = iota
	Standby
	Suspend
	Off
	Unknown
)

func (s State) String() string {
	switch s {
	case On:
		return "On"
	case Standby:
		return "Standby"
	case Suspend:
		return "Suspend"
	case Off:
		return "Off"
	default:
		return "Unknown"
	}
}

// IsAsleep returns true if the state indicates the monitor is asleep.
func (s State) IsAsleep() bool {
	return s == Standby || s == Suspend || s == Off
}

// Reader reads connector states from a sysfs tree.
type Reader struct {
	fs   afero.Fs
	root string
}

// NewReader reads below root on fsys. Use afero.NewOsFs and SysfsRoot for
// the live system.
func NewReader(fsys afero.Fs, root string) *Reader {
	return &Reader{fs: fsys, root: root}
}

// State returns On if any connected monitor is on, Off if all readable ones
// are asleep, and Unknown if none could be read.
func (r *Reader) State() State {
	matches, err := afero.Glob(r.fs, filepath.Join(r.root, "card*-*", "dpms"))
	if err != nil || len(matches) == 0 {
		return Unknown
	}

	anyOn := false
	anyAsleep := false

	for _, path := range matches {
		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			continue
		}

		state := parseState(strings.TrimSpace(string(data)))
		if state == On {
			anyOn = true
		} else if state.IsAsleep() {
			anyAsleep = true
		}
	}

	if anyOn {
		return On
	}
	if anyAsleep {
		return Off
	}
	return Unknown
}

func parseState(s string) State {
	switch s {
	case "On":
		return On
	case "Standby":
		return Standby
	case "Suspend":
		return Suspend
	case "Off":
		return Off
	default:
		return Unknown
	}
}

// Watcher polls a Reader and reports state changes.
type Watcher struct {
	reader    *Reader
	clock     clockwork.Clock
	logger    zerolog.Logger
	onChange  func(State)
	interval  time.Duration
	lastState State
}

// NewWatcher creates a watcher that calls onChange from its own goroutine.
// A nil clock uses the real clock.
func NewWatcher(reader *Reader, interval time.Duration, clock clockwork.Clock, onChange func(State)) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Watcher{
		reader:    reader,
		clock:     clock,
		logger:    log.Logger.With().Str("component", "dpms").Logger(),
		onChange:  onChange,
		interval:  interval,
		lastState: Unknown,
	}
}

// Run polls until ctx is done. The state at start is taken as the baseline
// and not reported; Unknown readings never are.
func (w *Watcher) Run(ctx context.Context) {
	w.lastState = w.reader.State()
	w.logger.Debug().Stringer("state", w.lastState).Msg("initial monitor state")

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			state := w.reader.State()
			if state != w.lastState && state != Unknown {
				w.logger.Info().Stringer("from", w.lastState).Stringer("to", state).Msg("monitor state changed")
				w.lastState = state
				if w.onChange != nil {
					w.onChange(state)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
