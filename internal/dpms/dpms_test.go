package dpms

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeState(t *testing.T, fsys afero.Fs, connector, state string) {
	t.Helper()
	path := filepath.Join(SysfsRoot, connector, "dpms")
	require.NoError(t, afero.WriteFile(fsys, path, []byte(state+"\n"), 0o644))
}

func TestReader_State(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		states map[string]string
		want   State
	}{
		{"no connectors", nil, Unknown},
		{"one on", map[string]string{"card0-HDMI-A-1": "On"}, On},
		{"any on wins", map[string]string{"card0-HDMI-A-1": "Off", "card0-DP-1": "On"}, On},
		{"all asleep", map[string]string{"card0-HDMI-A-1": "Suspend", "card1-DP-2": "Standby"}, Off},
		{"unreadable value", map[string]string{"card0-HDMI-A-1": "Bogus"}, Unknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := afero.NewMemMapFs()
			require.NoError(t, fsys.MkdirAll(SysfsRoot, 0o755))
			for c, s := range tt.states {
				writeState(t, fsys, c, s)
			}

			assert.Equal(t, tt.want, NewReader(fsys, SysfsRoot).State())
		})
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	assert.True(t, Standby.IsAsleep())
	assert.True(t, Off.IsAsleep())
	assert.False(t, On.IsAsleep())
	assert.False(t, Unknown.IsAsleep())
	assert.Equal(t, "Suspend", Suspend.String())
}

func TestWatcher_ReportsChanges(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeState(t, fsys, "card0-HDMI-A-1", "On")
	clock := clockwork.NewFakeClock()

	var mu sync.Mutex
	var got []State
	changed := make(chan struct{}, 4)
	w := NewWatcher(NewReader(fsys, SysfsRoot), time.Second, clock, func(s State) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
		changed <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	// unchanged state is not reported
	clock.Advance(time.Second)

	writeState(t, fsys, "card0-HDMI-A-1", "Off")
	clock.Advance(time.Second)
	<-changed

	writeState(t, fsys, "card0-HDMI-A-1", "Bogus")
	clock.Advance(time.Second)

	writeState(t, fsys, "card0-HDMI-A-1", "On")
	clock.Advance(time.Second)
	<-changed

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{Off, On}, got)
}
