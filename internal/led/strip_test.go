package led_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"

	. "github.com/coreman2200/funtimes-wordclock/internal/led"
)

// gate blocks every Write until release is closed.
type gate struct {
	release chan struct{}
	mu      sync.Mutex
	frames  [][]byte
	err     error
}

func (g *gate) Write(p []byte) (int, error) {
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frames = append(g.frames, append([]byte(nil), p...))
	return len(p), g.err
}

func TestColorPacking(t *testing.T) {
	c := RGB{R: 0x11, G: 0x22, B: 0x33}
	assert.Equal(t, uint32(0x112233), c.Pack())
	assert.Equal(t, c, Unpack(0xFF112233))
	assert.True(t, Off.IsOff())
	assert.False(t, c.IsOff())
}

func TestNewStripRejectsEmpty(t *testing.T) {
	_, err := NewStrip(NewSim(zerolog.Nop()), 0)
	assert.Error(t, err)
}

func TestStripBusyWhileWriting(t *testing.T) {
	g := &gate{release: make(chan struct{})}
	s, err := NewStrip(g, 2)
	require.NoError(t, err)

	s.SetLed(1, RGB{R: 1, G: 2, B: 3})
	s.SetLed(5, RGB{R: 9})
	require.NoError(t, s.Refresh())
	assert.True(t, s.Busy())
	assert.ErrorIs(t, s.Refresh(), ErrBusy)

	// the buffer can be edited while the old frame is on the wire
	s.SetAll(RGB{B: 7})

	close(g.release)
	s.Wait()
	assert.False(t, s.Busy())
	assert.Equal(t, uint64(1), s.Frames())
	require.Len(t, g.frames, 1)
	assert.Equal(t, []byte{0, 0, 0, 1, 2, 3}, g.frames[0])
	assert.Equal(t, []byte{0, 0, 7, 0, 0, 7}, s.Snapshot())
}

func TestStripReportsWriteErrorOnNextRefresh(t *testing.T) {
	g := &gate{release: make(chan struct{}), err: errors.New("boom")}
	close(g.release)
	s, err := NewStrip(g, 1)
	require.NoError(t, err)

	require.NoError(t, s.Refresh())
	s.Wait()
	assert.Zero(t, s.Frames())

	g.err = nil
	err = s.Refresh()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	s.Wait()
	assert.NoError(t, s.Refresh())
	s.Wait()
	assert.Equal(t, uint64(1), s.Frames())
}

func TestStripOnFrame(t *testing.T) {
	sim := NewSim(zerolog.Nop())
	s, err := NewStrip(sim, 3)
	require.NoError(t, err)

	var got []byte
	s.OnFrame(func(f []byte) { got = append([]byte(nil), f...) })
	s.SetAll(RGB{R: 4})
	require.NoError(t, s.Refresh())
	s.Wait()

	assert.Equal(t, []byte{4, 0, 0, 4, 0, 0, 4, 0, 0}, got)
	assert.Equal(t, got, sim.Last())
	assert.Equal(t, 1, sim.Frames())
	assert.NoError(t, s.Close())
}

func TestNRZ(t *testing.T) {
	buf := bytes.Buffer{}
	n, err := NewNRZ(spitest.NewRecordRaw(&buf), 1, 2500*physic.KiloHertz)
	require.NoError(t, err)
	assert.Equal(t, "nrzled{recordraw}", n.String())

	w, err := n.Write([]byte{})
	assert.Zero(t, w)
	assert.NoError(t, err)

	w, err = n.Write([]byte{0xFF, 0x00, 0x80})
	assert.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.NotZero(t, buf.Len())
}

func TestSlowObserverDoesNotHoldBusy(t *testing.T) {
	sim := NewSim(zerolog.Nop())
	s, err := NewStrip(sim, 2)
	require.NoError(t, err)

	release := make(chan struct{})
	frames := make(chan []byte, 2)
	s.OnFrame(func(f []byte) {
		<-release
		frames <- f
	})

	s.SetAll(RGB{G: 1})
	require.NoError(t, s.Refresh())
	require.Eventually(t, func() bool { return sim.Frames() == 1 && !s.Busy() }, time.Second, time.Millisecond)

	// a second frame goes out while the first observer is still blocked
	s.SetAll(RGB{B: 2})
	require.NoError(t, s.Refresh())
	require.Eventually(t, func() bool { return sim.Frames() == 2 && !s.Busy() }, time.Second, time.Millisecond)

	close(release)
	s.Wait()
	got := [][]byte{<-frames, <-frames}
	assert.ElementsMatch(t, [][]byte{{0, 1, 0, 0, 1, 0}, {0, 0, 2, 0, 0, 2}}, got)
}
