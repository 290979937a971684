package display

import (
	"github.com/coreman2200/funtimes-wordclock/internal/animation"
	"github.com/coreman2200/funtimes-wordclock/internal/words"
)

// Modes holds the selected display and animation mode. Set rejects values
// outside the tables and leaves the previous one in place; Increment and
// Decrement wrap around. Persisting is a separate, explicit step.
type Modes struct {
	display  int
	anim     animation.Mode
	onChange func()
}

// NewModes starts from the given selection; invalid values fall back to
// mode 0 and no animation.
func NewModes(display int, anim animation.Mode) *Modes {
	m := &Modes{}
	if display >= 0 && display < words.ModeCount {
		m.display = display
	}
	if anim < animation.ModeCount {
		m.anim = anim
	}
	return m
}

func (m *Modes) Display() int              { return m.display }
func (m *Modes) Animation() animation.Mode { return m.anim }

// Description is the display mode's sample phrase.
func (m *Modes) Description() string { return words.Modes[m.display].Description }

// SetDisplay selects mode v and returns the mode in effect afterwards.
func (m *Modes) SetDisplay(v int) int {
	if v < 0 || v >= words.ModeCount {
		return m.display
	}
	if v != m.display {
		m.display = v
		m.changed()
	}
	return m.display
}

func (m *Modes) IncrementDisplay() int {
	return m.SetDisplay((m.display + 1) % words.ModeCount)
}

func (m *Modes) DecrementDisplay() int {
	return m.SetDisplay((m.display + words.ModeCount - 1) % words.ModeCount)
}

// SetAnimation selects v and returns the animation in effect afterwards.
func (m *Modes) SetAnimation(v animation.Mode) animation.Mode {
	if v >= animation.ModeCount {
		return m.anim
	}
	if v != m.anim {
		m.anim = v
		m.changed()
	}
	return m.anim
}

func (m *Modes) IncrementAnimation() animation.Mode {
	return m.SetAnimation((m.anim + 1) % animation.ModeCount)
}

func (m *Modes) DecrementAnimation() animation.Mode {
	return m.SetAnimation((m.anim + animation.ModeCount - 1) % animation.ModeCount)
}

func (m *Modes) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}
