package animation

import (
	"fmt"
	"strings"
)

// Mode is the user selectable animation.
type Mode uint8

const (
	None Mode = iota
	Fade
	Roll
	Explode
	Random
	ModeCount
)

var modeNames = [ModeCount]string{
	None:    "none",
	Fade:    "fade",
	Roll:    "roll",
	Explode: "explode",
	Random:  "random",
}

func (m Mode) String() string {
	if m >= ModeCount {
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
	return modeNames[m]
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(m), nil
		}
	}
	return None, fmt.Errorf("unknown animation %q", s)
}

// Direction is the way the old scene leaves during a roll.
type Direction uint8

const (
	Right Direction = iota
	Left
	Down
	Up
	directions
)

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	}
	return "?"
}

func (d Direction) horizontal() bool { return d == Right || d == Left }

// Effect is what actually runs: Random resolves to one of the others and
// Roll carries its direction.
type Effect struct {
	Mode Mode
	Dir  Direction
}

func (e Effect) String() string {
	if e.Mode == Roll {
		return "roll-" + e.Dir.String()
	}
	return e.Mode.String()
}

// randomEffects are the choices of Random, picked uniformly.
var randomEffects = []Effect{
	{Mode: Fade},
	{Mode: Roll, Dir: Right},
	{Mode: Roll, Dir: Left},
	{Mode: Roll, Dir: Down},
	{Mode: Roll, Dir: Up},
	{Mode: Explode},
}
