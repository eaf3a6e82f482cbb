// Package config loads the tft4dgl TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/aleksclark/go-4dgl/internal/lcd"
)

// Reset line kinds.
const (
	ResetGPIO = "gpio"
	ResetDTR  = "dtr"
	ResetNone = "none"
)

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Values is the whole configuration file.
type Values struct {
	Serial  Serial  `toml:"serial"`
	Screen  Screen  `toml:"screen"`
	Reset   Reset   `toml:"reset"`
	Timing  Timing  `toml:"timing"`
	Panel   Panel   `toml:"panel"`
	Logging Logging `toml:"logging"`
}

type Serial struct {
	Port     string `toml:"port"`
	BaudRate int    `toml:"baud_rate"`
	// TargetBaudRate is switched to after bring-up; zero stays at BaudRate.
	TargetBaudRate int `toml:"target_baud_rate"`
}

type Screen struct {
	Orientation string `toml:"orientation"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
}

type Reset struct {
	Line string `toml:"line"`
	Pin  string `toml:"pin"`
}

type Timing struct {
	ByteDelay       Duration `toml:"byte_delay"`
	PollInterval    Duration `toml:"poll_interval"`
	ResponseGap     Duration `toml:"response_gap"`
	ResponseTimeout Duration `toml:"response_timeout"`
	ResetHold       Duration `toml:"reset_hold"`
	BootDelay       Duration `toml:"boot_delay"`
}

type Panel struct {
	Interval   Duration `toml:"interval"`
	FollowDPMS bool     `toml:"follow_dpms"`
}

type Logging struct {
	File  string `toml:"file"`
	Debug bool   `toml:"debug"`
}

// Defaults returns the values used for anything the file leaves out.
func Defaults() Values {
	d := lcd.DefaultConfig()
	return Values{
		Serial: Serial{
			Port:     d.Port,
			BaudRate: d.BaudRate,
		},
		Screen: Screen{
			Width:       d.Width,
			Height:      d.Height,
			Orientation: lcd.Portrait.String(),
		},
		Reset: Reset{Line: ResetNone},
		Timing: Timing{
			ByteDelay:       Duration(d.Timing.ByteDelay),
			PollInterval:    Duration(d.Timing.PollInterval),
			ResponseGap:     Duration(d.Timing.ResponseGap),
			ResponseTimeout: Duration(d.Timing.ResponseTimeout),
			ResetHold:       Duration(d.ResetHold),
			BootDelay:       Duration(d.BootDelay),
		},
		Panel: Panel{
			Interval:   Duration(2 * time.Second),
			FollowDPMS: true,
		},
	}
}

// Load reads path from fsys on top of Defaults. A missing file is not an
// error.
func Load(fsys afero.Fs, path string) (Values, error) {
	vals := Defaults()
	if path == "" {
		return vals, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return vals, nil
	} else if err != nil {
		return vals, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &vals); err != nil {
		return vals, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := vals.Validate(); err != nil {
		return vals, err
	}
	return vals, nil
}

// Save writes vals to path as TOML.
func Save(fsys afero.Fs, path string, vals Values) error {
	data, err := toml.Marshal(&vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks fields that have a fixed set of values.
func (v Values) Validate() error {
	if _, err := ParseOrientation(v.Screen.Orientation); err != nil {
		return err
	}
	switch v.Reset.Line {
	case ResetGPIO:
		if v.Reset.Pin == "" {
			return errors.New("reset line gpio needs a pin")
		}
	case ResetDTR, ResetNone, "":
	default:
		return fmt.Errorf("unknown reset line %q", v.Reset.Line)
	}
	if v.Screen.Width < 0 || v.Screen.Height < 0 {
		return fmt.Errorf("invalid screen size %dx%d", v.Screen.Width, v.Screen.Height)
	}
	return nil
}

// ParseOrientation accepts the names printed by lcd.Orientation.String.
// An empty string is portrait.
func ParseOrientation(s string) (lcd.Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait":
		return lcd.Portrait, nil
	case "portrait-reversed":
		return lcd.ReversePortrait, nil
	case "landscape":
		return lcd.Landscape, nil
	case "landscape-reversed":
		return lcd.ReverseLandscape, nil
	default:
		return 0, fmt.Errorf("unknown orientation %q", s)
	}
}

// LCDConfig converts the file values to a driver configuration. The reset
// line, clock and logger are left for the caller to fill in.
func (v Values) LCDConfig() lcd.Config {
	cfg := lcd.DefaultConfig()
	cfg.Port = v.Serial.Port
	cfg.BaudRate = v.Serial.BaudRate
	cfg.Width = v.Screen.Width
	cfg.Height = v.Screen.Height
	cfg.Timing = lcd.Timing{
		ByteDelay:       time.Duration(v.Timing.ByteDelay),
		PollInterval:    time.Duration(v.Timing.PollInterval),
		ResponseGap:     time.Duration(v.Timing.ResponseGap),
		ResponseTimeout: time.Duration(v.Timing.ResponseTimeout),
	}
	cfg.ResetHold = time.Duration(v.Timing.ResetHold)
	cfg.BootDelay = time.Duration(v.Timing.BootDelay)
	return cfg
}
