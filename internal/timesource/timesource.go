// Package timesource supplies the hour, minute and power state the clock
// displays.
package timesource

import (
	"fmt"
	"time"
)

// Source is any provider of the displayed time.
type Source interface {
	Now() (power bool, hour, minute int)
}

// ClockTime is a time of day in minutes after midnight.
type ClockTime int

// ParseClock reads "HH:MM".
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return ClockTime(h*60 + m), nil
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c/60, c%60) }

// Window is a daily span [Off, On) during which the display is switched
// off. It may wrap midnight.
type Window struct {
	Off, On ClockTime
}

// Contains reports whether t lies inside the window. An empty window
// (Off == On) contains nothing.
func (w Window) Contains(t ClockTime) bool {
	switch {
	case w.Off == w.On:
		return false
	case w.Off < w.On:
		return t >= w.Off && t < w.On
	default:
		return t >= w.Off || t < w.On
	}
}

// System reads the host clock in a fixed location.
type System struct {
	loc   *time.Location
	night *Window
	now   func() time.Time
}

type Option func(*System)

// WithNight switches the display off inside w.
func WithNight(w Window) Option { return func(s *System) { s.night = &w } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *System) { s.now = now } }

// NewSystem loads the IANA location name ("" or "Local" for the host
// zone).
func NewSystem(location string, opts ...Option) (*System, error) {
	loc := time.Local
	if location != "" && location != "Local" {
		l, err := time.LoadLocation(location)
		if err != nil {
			return nil, fmt.Errorf("load location: %w", err)
		}
		loc = l
	}
	s := &System{loc: loc, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *System) Now() (bool, int, int) {
	t := s.now().In(s.loc)
	h, m := t.Hour(), t.Minute()
	power := s.night == nil || !s.night.Contains(ClockTime(h*60+m))
	return power, h, m
}

// Fixed always reports the same time. The show command and tests use it.
type Fixed struct {
	Power        bool
	Hour, Minute int
}

func (f Fixed) Now() (bool, int, int) { return f.Power, f.Hour, f.Minute }
