// Package panel renders a host status panel on a 4DGL text grid.
package panel

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aleksclark/go-4dgl/internal/lcd"
	"github.com/aleksclark/go-4dgl/internal/syncutil"
	"github.com/aleksclark/go-4dgl/internal/sysinfo"
)

// Console is the part of lcd.Display the panel draws with.
type Console interface {
	Cls(ctx context.Context) error
	Locate(col, row int)
	SetColor(color uint32)
	PutString(ctx context.Context, s string) error
	Grid() (cols, rows int)
	DisplayControl(ctx context.Context, mode lcd.ControlMode, value byte) error
}

var _ Console = (*lcd.Display)(nil)

// Colors defines the color palette for the panel.
type Colors struct {
	Text    uint32
	TextDim uint32
	Header  uint32
	BarLow  uint32
	BarMed  uint32
	BarHigh uint32
}

// DefaultColors returns the default htop-style green palette.
func DefaultColors() Colors {
	return Colors{
		Text:    0x00FF00,
		TextDim: 0x00B400,
		Header:  0x00FFFF,
		BarLow:  0x00FF00,
		BarMed:  0xFFFF00,
		BarHigh: 0xFF0000,
	}
}

// Line is one row of panel text.
type Line struct {
	Text  string
	Color uint32
}

// Config holds panel configuration.
type Config struct {
	Console  Console
	Source   sysinfo.Source
	Clock    clockwork.Clock
	Logger   *zerolog.Logger
	Colors   Colors
	Interval time.Duration
}

// Panel redraws host statistics at a fixed interval, sending only rows whose
// text or colour changed.
type Panel struct {
	mu       syncutil.Mutex
	console  Console
	source   sysinfo.Source
	clock    clockwork.Clock
	logger   zerolog.Logger
	colors   Colors
	interval time.Duration
	asleep   bool

	// last row drawn, for change detection
	cache map[int]Line
}

// New creates a panel. Zero fields take defaults.
func New(cfg Config) *Panel {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Source == nil {
		cfg.Source = sysinfo.Host{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Colors == (Colors{}) {
		cfg.Colors = DefaultColors()
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Panel{
		console:  cfg.Console,
		source:   cfg.Source,
		clock:    cfg.Clock,
		logger:   logger.With().Str("component", "panel").Logger(),
		colors:   cfg.Colors,
		interval: cfg.Interval,
		cache:    make(map[int]Line),
	}
}

// Run clears the screen, draws once and then redraws every interval until ctx
// is done. Failed updates are logged and retried on the next tick.
func (p *Panel) Run(ctx context.Context) error {
	p.mu.Lock()
	err := p.console.Cls(ctx)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("initial clear: %w", err)
	}
	if err := p.Update(ctx); err != nil {
		return fmt.Errorf("initial draw: %w", err)
	}

	p.logger.Info().Dur("interval", p.interval).Msg("started")

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			if err := p.Update(ctx); err != nil {
				p.logger.Error().Err(err).Msg("update failed")
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Update takes a snapshot and redraws the rows that changed. It does nothing
// while the panel is asleep.
func (p *Panel) Update(ctx context.Context) error {
	snap, err := p.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.asleep {
		return nil
	}

	cols, rows := p.console.Grid()
	lines := Lines(snap, cols, p.colors)
	for row, line := range lines {
		if row >= rows {
			break
		}
		line.Text = fit(line.Text, cols)
		if !p.changed(row, line) {
			continue
		}
		p.console.Locate(0, row)
		p.console.SetColor(line.Color)
		if err := p.console.PutString(ctx, line.Text); err != nil {
			delete(p.cache, row)
			return fmt.Errorf("draw row %d: %w", row, err)
		}
	}
	return nil
}

// SetAsleep turns the backlight off and pauses updates, or turns it back on
// and redraws everything.
func (p *Panel) SetAsleep(ctx context.Context, asleep bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if asleep == p.asleep {
		return nil
	}
	p.asleep = asleep
	p.logger.Info().Bool("asleep", asleep).Msg("power state")

	if asleep {
		return p.console.DisplayControl(ctx, lcd.ModeBacklight, byte(lcd.Off))
	}
	clear(p.cache)
	if err := p.console.DisplayControl(ctx, lcd.ModeBacklight, byte(lcd.On)); err != nil {
		return err
	}
	return p.console.Cls(ctx)
}

// changed checks if a row changed and updates cache.
func (p *Panel) changed(row int, line Line) bool {
	if prev, ok := p.cache[row]; ok && prev == line {
		return false
	}
	p.cache[row] = line
	return true
}

// Lines lays out a snapshot for a grid cols characters wide.
func Lines(s sysinfo.Snapshot, cols int, c Colors) []Line {
	host := s.Hostname
	if host == "" {
		host = "localhost"
	}
	lines := []Line{
		{Text: host, Color: c.Header},
		{Text: "Up   " + sysinfo.FormatUptime(s.Uptime), Color: c.TextDim},
		{Text: bar("CPU", s.CPUPercent, cols), Color: c.level(s.CPUPercent)},
		{Text: fmt.Sprintf("Load %.2f %.2f %.2f", s.Load1, s.Load5, s.Load15), Color: c.Text},
		{Text: bar("Mem", s.MemPercent, cols), Color: c.level(s.MemPercent)},
		{Text: "     " + sysinfo.FormatBytes(s.MemUsed) + "/" + sysinfo.FormatBytes(s.MemTotal), Color: c.TextDim},
	}
	if s.SwapTotal > 0 {
		lines = append(lines, Line{Text: bar("Swap", s.SwapPercent, cols), Color: c.level(s.SwapPercent)})
	}
	if s.Temp > 0 {
		lines = append(lines, Line{Text: fmt.Sprintf("Temp %.0fC", s.Temp), Color: c.Text})
	}
	if s.CoreCount > 0 {
		lines = append(lines, Line{Text: fmt.Sprintf("Cores %d", s.CoreCount), Color: c.TextDim})
	}
	return lines
}

// level picks a bar colour based on percentage.
func (c Colors) level(pct float64) uint32 {
	switch {
	case pct < 50:
		return c.BarLow
	case pct < 80:
		return c.BarMed
	default:
		return c.BarHigh
	}
}

// bar renders "CPU  [|||||     ]  45%" across cols characters.
func bar(label string, pct float64, cols int) string {
	pct = math.Max(0, math.Min(100, pct))
	head := fmt.Sprintf("%-5s", label)
	tail := fmt.Sprintf(" %3.0f%%", pct)

	inner := cols - len(head) - len(tail) - 2
	if inner < 1 {
		return head + strings.TrimSpace(tail)
	}
	filled := int(math.Round(pct / 100 * float64(inner)))
	return head + "[" + strings.Repeat("|", filled) + strings.Repeat(" ", inner-filled) + "]" + tail
}

// fit pads or cuts s to exactly cols characters so a redraw covers the
// previous text.
func fit(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	if len(s) > cols {
		return s[:cols]
	}
	return s + strings.Repeat(" ", cols-len(s))
}
