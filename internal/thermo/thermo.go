// Package thermo reads the temperature shown in the temperature display
// mode.
package thermo

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/sysfs"
)

// Source reports a temperature in degrees Celsius.
type Source interface {
	Celsius() (float64, error)
}

// Index converts degrees to the half-degree index the word tables use,
// e.g. 22.5 °C gives 45.
func Index(celsius float64) int {
	return int(math.Round(celsius * 2))
}

// Sensor is a kernel thermal zone such as "cpu-thermal" or
// "thermal_zone0".
type Sensor struct {
	s *sysfs.ThermalSensor
}

func Open(name string) (*Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	s, err := sysfs.ThermalSensorByName(name)
	if err != nil {
		return nil, fmt.Errorf("thermal sensor %q: %w", name, err)
	}
	return &Sensor{s: s}, nil
}

func (s *Sensor) Celsius() (float64, error) {
	var e physic.Env
	if err := s.s.Sense(&e); err != nil {
		return 0, err
	}
	return float64(e.Temperature-physic.ZeroCelsius) / float64(physic.Celsius), nil
}

func (s *Sensor) String() string { return s.s.String() }

// Fixed always reads the same value.
type Fixed float64

func (f Fixed) Celsius() (float64, error) { return float64(f), nil }
