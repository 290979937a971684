package led

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// DefaultFreq is the data rate of WS2812B pixels.
const DefaultFreq = 800 * physic.KiloHertz

// NRZ drives a WS2812 strip through an SPI port.
type NRZ struct {
	dev  *nrzled.Dev
	port io.Closer
}

// NewNRZ encodes frames for count pixels onto p. The port stays owned by
// the caller.
func NewNRZ(p spi.Port, count int, freq physic.Frequency) (*NRZ, error) {
	if freq == 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{dev: d}, nil
}

// OpenNRZ initialises the host drivers and opens the named SPI port ("" for
// the first one available).
func OpenNRZ(name string, count int, freq physic.Frequency) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", name, err)
	}
	n, err := NewNRZ(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	n.port = p
	return n, nil
}

func (n *NRZ) Write(pixels []byte) (int, error) {
	return n.dev.Write(pixels)
}

func (n *NRZ) String() string { return n.dev.String() }

// Close blanks the strip and releases the port.
func (n *NRZ) Close() error {
	err := n.dev.Halt()
	if n.port != nil {
		if cerr := n.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
