package events

// Event type constants for kelindar/event.
const (
	TypeModeChanged uint32 = iota + 1
	TypeBrightnessChanged
	TypeSceneChanged
	TypeAnimationFinished
	TypeSettingsSaved
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// ModeChanged is published after the display or animation mode moved.
type ModeChanged struct {
	Display     int    `json:"display"`
	Description string `json:"description"`
	Animation   string `json:"animation"`
}

func (e ModeChanged) Type() uint32 { return TypeModeChanged }

// BrightnessChanged carries the new per-channel levels.
type BrightnessChanged struct {
	Levels [3]int `json:"levels"`
}

func (e BrightnessChanged) Type() uint32 { return TypeBrightnessChanged }

// SceneChanged is published when a new target was applied.
type SceneChanged struct {
	Power       bool     `json:"power"`
	Temperature bool     `json:"temperature"`
	Hour        int      `json:"hour"`
	Minute      int      `json:"minute"`
	Words       []string `json:"words"`
	Effect      string   `json:"effect"`
}

func (e SceneChanged) Type() uint32 { return TypeSceneChanged }

// AnimationFinished reports a transition that reached its target.
type AnimationFinished struct {
	Effect string `json:"effect"`
	Ticks  int    `json:"ticks"`
}

func (e AnimationFinished) Type() uint32 { return TypeAnimationFinished }

// SettingsSaved reports the outcome of an explicit save.
type SettingsSaved struct {
	OK bool `json:"ok"`
}

func (e SettingsSaved) Type() uint32 { return TypeSettingsSaved }
