package words

import (
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-wordclock/internal/layout"
)

// Selection is the outcome of Select.
type Selection struct {
	Words []ID
	// Hour is the hour the phrase refers to, after the minute entry's
	// offset has been applied ("HALB ZWEI" at 1:30 gives 2).
	Hour int
}

// Select returns the words lit for mode at hour:minute. Arguments outside
// their ranges are clamped; an unknown mode falls back to mode 0.
func Select(mode, hour, minute int) Selection {
	if mode < 0 || mode >= ModeCount {
		mode = 0
	}
	hour = clamp(hour, 0, 23)
	minute = clamp(minute, 0, 59)

	m := Modes[mode]
	entry := MinuteTable[m.Minutes][minute]
	slot := hour + entry.HourOffset

	ids := make([]ID, 0, 2+MaxMinuteWords+MaxHourWords)
	ids = append(ids, ES, IST)
	ids = append(ids, entry.Words...)
	ids = append(ids, HourTable[m.Hours][slot]...)
	return Selection{Words: ids, Hour: slot % 24}
}

// Temperature indices cover 10.0 .. 39.5 °C in half degrees.
const (
	TemperatureMin = 20
	TemperatureMax = 80
)

// SelectTemperature phrases a half-degree temperature index, e.g. 45 reads
// "ES IST ZWEI UND ZWANZIG KOMMA FÜNF GRAD".
func SelectTemperature(index int) Selection {
	index = clamp(index, TemperatureMin, TemperatureMax-1)
	sel := Select(TemperatureMode, 0, 0)
	sel.Words = append(sel.Words, minuteNumerals.words(index/2)...)
	if index%2 == 1 {
		sel.Words = append(sel.Words, Komma, Fuenf3)
	}
	sel.Words = append(sel.Words, Grad)
	return sel
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Validate checks the tables against the plate and the size limits of the
// entries.
func Validate() error {
	l := layout.Default()
	for id := ID(0); id < Count; id++ {
		wd := table[id]
		r := wd.Rect
		if r.Len == 0 || !l.Contains(r.Row, r.Col) || !l.Contains(r.Row, r.Col+r.Len-1) {
			return fmt.Errorf("word %d (%s): rect %+v outside plate", id, wd.Label, r)
		}
		row := []rune(Plate[r.Row])
		if got := string(row[r.Col : r.Col+r.Len]); got != wd.Label {
			return fmt.Errorf("word %d: plate reads %q, want %q", id, got, wd.Label)
		}
	}
	for i, m := range Modes {
		if m.Minutes >= MinuteStyleCount || m.Hours >= HourStyleCount {
			return fmt.Errorf("mode %d (%s): style out of range", i, m.Description)
		}
	}
	for s := MinuteStyle(0); s < MinuteStyleCount; s++ {
		for m, e := range MinuteTable[s] {
			if e.HourOffset != 0 && e.HourOffset != 1 {
				return fmt.Errorf("minute style %s, minute %d: offset %d", s, m, e.HourOffset)
			}
			if len(e.Words) > MaxMinuteWords {
				return fmt.Errorf("minute style %s, minute %d: %d words", s, m, len(e.Words))
			}
			if err := checkIDs(e.Words); err != nil {
				return fmt.Errorf("minute style %s, minute %d: %w", s, m, err)
			}
		}
	}
	for s := HourStyle(0); s < HourStyleCount; s++ {
		for h, ids := range HourTable[s] {
			if len(ids) > MaxHourWords {
				return fmt.Errorf("hour style %s, hour %d: %d words", s, h, len(ids))
			}
			if err := checkIDs(ids); err != nil {
				return fmt.Errorf("hour style %s, hour %d: %w", s, h, err)
			}
		}
		if !equalIDs(HourTable[s][24], HourTable[s][0]) {
			return fmt.Errorf("hour style %s: slot 24 differs from slot 0", s)
		}
	}
	return nil
}

func checkIDs(ids []ID) error {
	for _, id := range ids {
		if id >= Count {
			return fmt.Errorf("word id %d out of range", id)
		}
	}
	return nil
}

func equalIDs(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Render prints the plate with every letter outside ids dimmed to '·'.
func Render(ids []ID) string {
	lit := make([][]bool, len(Plate))
	for r := range Plate {
		lit[r] = make([]bool, layout.Columns)
	}
	for _, id := range ids {
		wd, ok := Lookup(id)
		if !ok {
			continue
		}
		for k := 0; k < wd.Rect.Len; k++ {
			lit[wd.Rect.Row][wd.Rect.Col+k] = true
		}
	}

	var sb strings.Builder
	for r, line := range Plate {
		for c, ch := range []rune(line) {
			if lit[r][c] {
				sb.WriteRune(ch)
			} else {
				sb.WriteRune('·')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Phrase joins the labels of ids with spaces.
func Phrase(ids []ID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, " ")
}
