// Package brightness keeps the per-channel colour levels of the clock and
// converts them to PWM duty cycles.
package brightness

import (
	"math"
	"sync"

	"github.com/coreman2200/funtimes-wordclock/internal/led"
)

const (
	MaxLevel = 31
	Levels   = MaxLevel + 1
	MaxDuty  = 255
	Gamma    = 2.2
)

// Channel indexes the colour channels.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Channels
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return "?"
}

// Table maps a level to its duty cycle.
var Table [Levels]uint8

func init() {
	for l := 0; l < Levels; l++ {
		Table[l] = uint8(math.Round(MaxDuty * math.Pow(float64(l)/MaxLevel, 1/Gamma)))
	}
}

// Duty converts a level; out of range levels are clamped.
func Duty(level int) uint8 {
	return Table[clamp(level)]
}

// Color converts a level triple.
func Color(levels [Channels]int) led.RGB {
	return led.RGB{R: Duty(levels[Red]), G: Duty(levels[Green]), B: Duty(levels[Blue])}
}

func clamp(l int) int {
	if l < 0 {
		return 0
	}
	if l > MaxLevel {
		return MaxLevel
	}
	return l
}

// Model holds the levels. Every mutator clamps and then calls the change
// hook, even when the value did not move.
type Model struct {
	mu       sync.RWMutex
	levels   [Channels]int
	onChange func([Channels]int)
}

func New(r, g, b int) *Model {
	return &Model{levels: [Channels]int{clamp(r), clamp(g), clamp(b)}}
}

// OnChange installs fn, replacing any previous hook.
func (m *Model) OnChange(fn func(levels [Channels]int)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

func (m *Model) Levels() [Channels]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.levels
}

func (m *Model) Level(c Channel) int {
	if c < 0 || c >= Channels {
		return 0
	}
	return m.Levels()[c]
}

// RGB is the colour of a fully lit LED.
func (m *Model) RGB() led.RGB { return Color(m.Levels()) }

func (m *Model) Set(c Channel, level int) int {
	if c < 0 || c >= Channels {
		return 0
	}
	return m.update(func(l *[Channels]int) { l[c] = clamp(level) })[c]
}

func (m *Model) Increment(c Channel) int { return m.Set(c, m.Level(c)+1) }
func (m *Model) Decrement(c Channel) int { return m.Set(c, m.Level(c)-1) }

// SetAll sets all three channels with a single change notification.
func (m *Model) SetAll(r, g, b int) [Channels]int {
	return m.update(func(l *[Channels]int) {
		*l = [Channels]int{clamp(r), clamp(g), clamp(b)}
	})
}

func (m *Model) update(fn func(*[Channels]int)) [Channels]int {
	m.mu.Lock()
	fn(&m.levels)
	levels, hook := m.levels, m.onChange
	m.mu.Unlock()
	if hook != nil {
		hook(levels)
	}
	return levels
}
