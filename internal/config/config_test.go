package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksclark/go-4dgl/internal/lcd"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	vals, err := Load(afero.NewMemMapFs(), "/etc/tft4dgl.toml")

	require.NoError(t, err)
	assert.Equal(t, Defaults(), vals)
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()

	vals, err := Load(afero.NewMemMapFs(), "")

	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", vals.Serial.Port)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cfg.toml", []byte(`
[serial]
port = "/dev/ttyAMA0"
target_baud_rate = 115200

[screen]
width = 480
height = 640
orientation = "landscape"

[reset]
line = "gpio"
pin = "GPIO17"

[timing]
byte_delay = "0s"
response_timeout = "250ms"

[logging]
debug = true
`), 0o644))

	vals, err := Load(fsys, "/cfg.toml")
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyAMA0", vals.Serial.Port)
	assert.Equal(t, 9600, vals.Serial.BaudRate)
	assert.Equal(t, 115200, vals.Serial.TargetBaudRate)
	assert.Equal(t, 480, vals.Screen.Width)
	assert.Equal(t, "landscape", vals.Screen.Orientation)
	assert.Equal(t, ResetGPIO, vals.Reset.Line)
	assert.Equal(t, Duration(0), vals.Timing.ByteDelay)
	assert.Equal(t, Duration(250*time.Millisecond), vals.Timing.ResponseTimeout)
	assert.Equal(t, Duration(20*time.Millisecond), vals.Timing.ResponseGap)
	assert.True(t, vals.Logging.Debug)
	assert.True(t, vals.Panel.FollowDPMS)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad toml", "[serial\nport =", "unmarshal"},
		{"bad duration", "[timing]\nbyte_delay = \"fast\"", "unmarshal"},
		{"bad orientation", "[screen]\norientation = \"sideways\"", "orientation"},
		{"bad reset line", "[reset]\nline = \"rts\"", "reset line"},
		{"gpio without pin", "[reset]\nline = \"gpio\"", "pin"},
		{"negative size", "[screen]\nwidth = -1", "screen size"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, "/cfg.toml", []byte(tt.content), 0o644))

			_, err := Load(fsys, "/cfg.toml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	vals := Defaults()
	vals.Serial.TargetBaudRate = 57600
	vals.Timing.BootDelay = Duration(1500 * time.Millisecond)

	require.NoError(t, Save(fsys, "/cfg.toml", vals))

	data, err := afero.ReadFile(fsys, "/cfg.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.5s")

	got, err := Load(fsys, "/cfg.toml")
	require.NoError(t, err)
	assert.Equal(t, vals, got)
}

func TestParseOrientation(t *testing.T) {
	t.Parallel()

	for _, o := range []lcd.Orientation{lcd.Landscape, lcd.ReverseLandscape, lcd.Portrait, lcd.ReversePortrait} {
		got, err := ParseOrientation(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}

	got, err := ParseOrientation(" Landscape ")
	require.NoError(t, err)
	assert.Equal(t, lcd.Landscape, got)
}

func TestLCDConfig(t *testing.T) {
	t.Parallel()

	vals := Defaults()
	vals.Serial.Port = "/dev/ttyS1"
	vals.Screen.Width, vals.Screen.Height = 480, 640
	vals.Timing.ResponseTimeout = 0

	cfg := vals.LCDConfig()

	assert.Equal(t, "/dev/ttyS1", cfg.Port)
	assert.Equal(t, 9600, cfg.BaudRate)
	assert.Equal(t, 480, cfg.Width)
	assert.Equal(t, 640, cfg.Height)
	assert.Zero(t, cfg.Timing.ResponseTimeout)
	assert.Equal(t, 3*time.Second, cfg.BootDelay)
	assert.Equal(t, time.Millisecond, cfg.Timing.ByteDelay)
}
