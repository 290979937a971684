package ws

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-wordclock/internal/animation"
	"github.com/coreman2200/funtimes-wordclock/internal/brightness"
	"github.com/coreman2200/funtimes-wordclock/internal/selftest"
	"github.com/coreman2200/funtimes-wordclock/internal/words"
)

// Control is a control message as sent by the preview page, e.g.
// {"display":3,"animation":"roll","brightness":[20,20,31],"save":true}.
type Control struct {
	Display    *int    `json:"display,omitempty"`
	Animation  *string `json:"animation,omitempty"`
	Brightness *[3]int `json:"brightness,omitempty"`
	Save       bool    `json:"save,omitempty"`
	RunTest    string  `json:"runTest,omitempty"`
}

// Command is a validated Control, applied by the main loop.
type Command struct {
	Display    *int
	Animation  *animation.Mode
	Brightness *[brightness.Channels]int
	Save       bool
	Test       selftest.Kind
}

var errEmpty = errors.New("empty control message")

// Command validates c. Brightness levels are clamped later by the model.
func (c Control) Command() (Command, error) {
	var cmd Command
	if c.Display != nil {
		if *c.Display < 0 || *c.Display >= words.ModeCount {
			return Command{}, fmt.Errorf("display mode %d out of range", *c.Display)
		}
		cmd.Display = c.Display
	}
	if c.Animation != nil {
		m, err := animation.ParseMode(*c.Animation)
		if err != nil {
			return Command{}, err
		}
		cmd.Animation = &m
	}
	if c.Brightness != nil {
		levels := [brightness.Channels]int(*c.Brightness)
		cmd.Brightness = &levels
	}
	cmd.Save = c.Save
	if c.RunTest != "" {
		k, err := selftest.ParseKind(c.RunTest)
		if err != nil {
			return Command{}, err
		}
		cmd.Test = k
	}
	if cmd == (Command{}) {
		return Command{}, errEmpty
	}
	return cmd, nil
}
