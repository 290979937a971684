package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // "" picks the first port, e.g. /dev/spidev0.0
	FreqKHz int    `yaml:"freq_khz"` // WS2812 data rate, 800 for most strips
}

type Night struct {
	Off string `yaml:"off"` // "23:00"
	On  string `yaml:"on"`  // "06:30"
}

type Brightness struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

type Display struct {
	Mode       int        `yaml:"mode"`
	Animation  string     `yaml:"animation"`
	Brightness Brightness `yaml:"brightness"`
}

// Temperature names the kernel thermal zone read in the temperature
// display mode. Empty leaves that mode showing only ES IST.
type Temperature struct {
	Sensor string `yaml:"sensor,omitempty"` // "thermal_zone0"
}

type Store struct {
	Path string `yaml:"path"`
}

type Logging struct {
	Level  string `yaml:"level"`  // zerolog level name
	Format string `yaml:"format"` // "console" | "json" | "journal"
}

type Config struct {
	Driver      string      `yaml:"driver"` // "spi" | "sim"
	SPI         SPI         `yaml:"spi,omitempty"`
	FPS         int         `yaml:"fps"`
	Location    string      `yaml:"location"`
	Night       Night       `yaml:"night,omitempty"`
	Display     Display     `yaml:"display"`
	Temperature Temperature `yaml:"temperature,omitempty"`
	Store       Store       `yaml:"store"`
	Addr        string      `yaml:"addr"`
	Logging     Logging     `yaml:"logging"`
}

// Default is used for every field the file leaves empty.
func Default() *Config {
	return &Config{
		Driver:   "sim",
		SPI:      SPI{FreqKHz: 800},
		FPS:      30,
		Location: "Local",
		Display: Display{
			Mode:       0,
			Animation:  "fade",
			Brightness: Brightness{R: 20, G: 20, B: 20},
		},
		Store:   Store{Path: "wordclock.eeprom"},
		Addr:    ":8080",
		Logging: Logging{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks c and lower-cases Driver.
func (c *Config) Validate() error {
	c.Driver = strings.ToLower(c.Driver)
	switch c.Driver {
	case "spi", "sim":
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if (c.Night.Off == "") != (c.Night.On == "") {
		return fmt.Errorf("night needs both off and on")
	}
	switch c.Logging.Format {
	case "", "console", "json", "journal":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
