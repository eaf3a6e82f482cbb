package lcd

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// ResetLine drives the controller's active-low reset input.
type ResetLine interface {
	Set(high bool) error
}

// GPIOResetLine is a reset input wired to a host GPIO pin.
type GPIOResetLine struct {
	pin gpio.PinOut
}

// OpenGPIOResetLine initialises the host drivers and claims the named pin
// (for example "GPIO17"), leaving it high so the controller runs.
func OpenGPIOResetLine(name string) (*GPIOResetLine, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	if err := p.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("configure reset pin %s: %w", name, err)
	}
	return &GPIOResetLine{pin: p}, nil
}

func (l *GPIOResetLine) Set(high bool) error {
	level := gpio.Low
	if high {
		level = gpio.High
	}
	return l.pin.Out(level)
}

// DTRSetter is implemented by serial.Port.
type DTRSetter interface {
	SetDTR(dtr bool) error
}

// DTRResetLine drives reset from the serial port's DTR output. Asserting DTR
// pulls the line low, as on the usual USB-serial reset circuit.
type DTRResetLine struct {
	Port DTRSetter
}

func (l DTRResetLine) Set(high bool) error {
	return l.Port.SetDTR(!high)
}

// NopResetLine is used when the reset input is not connected.
type NopResetLine struct{}

func (NopResetLine) Set(bool) error { return nil }
