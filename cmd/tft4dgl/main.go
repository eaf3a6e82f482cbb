// Command tft4dgl brings up a 4DGL display and draws a demo screen, a host
// status panel or the controller identity.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/aleksclark/go-4dgl/internal/config"
	"github.com/aleksclark/go-4dgl/internal/dpms"
	"github.com/aleksclark/go-4dgl/internal/lcd"
	"github.com/aleksclark/go-4dgl/internal/logging"
	"github.com/aleksclark/go-4dgl/internal/panel"
	"github.com/aleksclark/go-4dgl/pkg/rgb565"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to TOML config file")
	portName := flag.String("port", "", "serial port, overrides the config file")
	simulate := flag.String("simulate", "", "use a simulated controller and write the screen to this PNG file")
	mode := flag.String("mode", "demo", "what to show: demo, panel or info")
	baud := flag.Int("baud", 0, "bit rate to switch to after bring-up")
	debug := flag.Bool("debug", false, "log every byte on the link")
	logFile := flag.String("log", "", "also log to this file")
	flag.Parse()

	vals, err := config.Load(afero.NewOsFs(), *configPath)
	if err != nil {
		return err
	}
	if *portName != "" {
		vals.Serial.Port = *portName
	}
	if *baud != 0 {
		vals.Serial.TargetBaudRate = *baud
	}
	if *debug {
		vals.Logging.Debug = true
	}
	if *logFile != "" {
		vals.Logging.File = *logFile
	}
	if err := logging.Setup(vals.Logging.Debug, vals.Logging.File); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		d   *lcd.Display
		sim *lcd.SimulatedController
	)
	if *simulate != "" {
		d, sim, err = openSimulated(ctx, vals)
	} else {
		d, err = openSerial(ctx, vals)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn().Err(err).Msg("close display")
		}
	}()

	if err := configure(ctx, d, vals); err != nil {
		return err
	}

	switch *mode {
	case "demo":
		err = demo(ctx, d)
	case "panel":
		err = runPanel(ctx, d, vals)
	case "info":
		err = info(ctx, d)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if sim != nil {
		if serr := sim.SavePNG(*simulate); serr != nil {
			return errors.Join(err, fmt.Errorf("save screen: %w", serr))
		}
		log.Info().Str("file", *simulate).Msg("screen saved")
	}
	return err
}

func openSimulated(ctx context.Context, vals config.Values) (*lcd.Display, *lcd.SimulatedController, error) {
	cfg := vals.LCDConfig()
	cfg.Timing.ByteDelay = 0
	cfg.ResetHold = 0
	cfg.BootDelay = 0

	sim := lcd.NewSimulated(cfg.Width, cfg.Height)
	cfg.Reset = sim.ResetLine()
	d := lcd.New(sim, cfg)
	if err := d.BringUp(ctx); err != nil {
		return nil, nil, err
	}
	return d, sim, nil
}

func openSerial(ctx context.Context, vals config.Values) (*lcd.Display, error) {
	cfg := vals.LCDConfig()

	switch vals.Reset.Line {
	case config.ResetGPIO:
		line, err := lcd.OpenGPIOResetLine(vals.Reset.Pin)
		if err != nil {
			return nil, err
		}
		cfg.Reset = line
	case config.ResetDTR:
		// DTR lives on the port itself, so open it here
		port, err := lcd.OpenPort(cfg.Port, cfg.BaudRate)
		if err != nil {
			return nil, err
		}
		cfg.Reset = lcd.DTRResetLine{Port: port}
		d := lcd.New(port, cfg)
		if err := d.BringUp(ctx); err != nil {
			_ = d.Close()
			return nil, err
		}
		return d, nil
	}

	return lcd.Open(ctx, cfg)
}

// configure applies the bit rate and orientation from the config.
func configure(ctx context.Context, d *lcd.Display, vals config.Values) error {
	if target := vals.Serial.TargetBaudRate; target != 0 && target != d.BaudRate() {
		rate, err := d.SetBaudRate(ctx, target)
		if err != nil {
			return fmt.Errorf("switch to %d baud: %w", target, err)
		}
		log.Info().Int("baud", rate).Msg("bit rate switched")
	}

	o, err := config.ParseOrientation(vals.Screen.Orientation)
	if err != nil {
		return err
	}
	if o != lcd.Portrait {
		if err := d.SetOrientation(ctx, o); err != nil {
			return fmt.Errorf("set orientation: %w", err)
		}
	}
	return nil
}

func demo(ctx context.Context, d *lcd.Display) error {
	w, h := d.Width(), d.Height()
	_, rows := d.Grid()

	steps := []func() error{
		func() error { return d.Circle(ctx, 120, 160, 80, rgb565.White) },
		func() error { return d.PenSize(ctx, lcd.Wireframe) },
		func() error { return d.Rectangle(ctx, 2, 2, w-3, h-3, rgb565.LightGrey) },
		func() error { return d.PenSize(ctx, lcd.Solid) },
		func() error { return d.TextString(ctx, "4DGL", 1, 1, lcd.Font8x8, rgb565.Green) },
		func() error { return d.SetFont(ctx, lcd.Font5x7) },
		func() error {
			d.Locate(2, rows-3)
			d.SetColor(rgb565.Red)
			return d.PutString(ctx, "SCORE:")
		},
		func() error {
			d.SetColor(rgb565.White)
			return d.PutString(ctx, " 0")
		},
		func() error {
			return d.TextButton(ctx, lcd.Button{
				Text:      "OK",
				State:     lcd.ButtonUp,
				X:         w/2 - 12,
				Y:         h - 40,
				Color:     rgb565.DarkGrey,
				Font:      lcd.Font8x8,
				TextColor: rgb565.White,
				Width:     1,
				Height:    1,
			})
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			if !lcd.IsSoft(err) {
				return err
			}
			log.Warn().Err(err).Msg("continuing after unrecognised reply")
		}
	}
	return nil
}

func runPanel(ctx context.Context, d *lcd.Display, vals config.Values) error {
	p := panel.New(panel.Config{
		Console:  d,
		Interval: time.Duration(vals.Panel.Interval),
	})

	if vals.Panel.FollowDPMS {
		reader := dpms.NewReader(afero.NewOsFs(), dpms.SysfsRoot)
		w := dpms.NewWatcher(reader, 5*time.Second, nil, func(s dpms.State) {
			if err := p.SetAsleep(ctx, s.IsAsleep()); err != nil {
				log.Warn().Err(err).Msg("follow monitor power")
			}
		})
		go w.Run(ctx)
	}

	return p.Run(ctx)
}

func info(ctx context.Context, d *lcd.Display) error {
	id, ok := d.Identity()
	if !ok {
		var err error
		if id, err = d.QueryVersion(ctx); err != nil {
			return err
		}
	}
	cols, rows := d.Grid()

	fmt.Printf("type:      0x%02X\n", id.Type)
	fmt.Printf("revision:  0x%02X\n", id.Revision)
	fmt.Printf("firmware:  0x%02X\n", id.Firmware)
	fmt.Printf("screen:    %dx%d\n", d.Width(), d.Height())
	fmt.Printf("text grid: %dx%d (%s)\n", cols, rows, d.Font())
	fmt.Printf("baud:      %d\n", d.BaudRate())
	return nil
}
