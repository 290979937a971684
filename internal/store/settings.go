package store

import (
	"errors"
	"fmt"
)

// Settings layout.
const (
	Magic byte = 0x57

	offMagic    = 0
	offDisplay  = 1
	offAnim     = 2
	offLevels   = 3
	offChecksum = 6

	SettingsSize = 7
)

// ErrNoSettings means the store holds no valid settings block.
var ErrNoSettings = errors.New("store: no saved settings")

// Settings are the values persisted across restarts.
type Settings struct {
	Display   int
	Animation int
	Levels    [3]int
}

func checksum(b []byte) byte {
	var x byte
	for _, v := range b {
		x ^= v
	}
	return x
}

func (s Settings) encode() []byte {
	b := make([]byte, SettingsSize)
	b[offMagic] = Magic
	b[offDisplay] = byte(s.Display)
	b[offAnim] = byte(s.Animation)
	for i, l := range s.Levels {
		b[offLevels+i] = byte(l)
	}
	b[offChecksum] = checksum(b[:offChecksum])
	return b
}

// LoadSettings reads the settings block. Values are returned as stored;
// range checks belong to the caller.
func LoadSettings(st Store) (Settings, error) {
	b, err := st.Read(0, SettingsSize)
	if err != nil {
		return Settings{}, err
	}
	if b[offMagic] != Magic {
		return Settings{}, ErrNoSettings
	}
	if c := checksum(b[:offChecksum]); c != b[offChecksum] {
		return Settings{}, fmt.Errorf("%w: checksum %#02x, want %#02x", ErrNoSettings, b[offChecksum], c)
	}
	s := Settings{
		Display:   int(b[offDisplay]),
		Animation: int(b[offAnim]),
	}
	for i := range s.Levels {
		s.Levels[i] = int(b[offLevels+i])
	}
	return s, nil
}

func SaveSettings(st Store, s Settings) error {
	return st.Write(0, s.encode())
}
