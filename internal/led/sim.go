package led

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sim is a Writer without hardware. It keeps the last frame and logs a
// compact summary of each one at debug level.
type Sim struct {
	log zerolog.Logger

	mu    sync.Mutex
	count int
	last  []byte
}

func NewSim(log zerolog.Logger) *Sim {
	return &Sim{log: log}
}

func (s *Sim) Write(pixels []byte) (int, error) {
	s.mu.Lock()
	s.count++
	s.last = append(s.last[:0], pixels...)
	n := s.count
	s.mu.Unlock()

	var lit int
	for i := 0; i+2 < len(pixels); i += 3 {
		if pixels[i]|pixels[i+1]|pixels[i+2] != 0 {
			lit++
		}
	}
	s.log.Debug().Int("frame", n).Int("lit", lit).Msg("sim frame")
	return len(pixels), nil
}

// Frames is the number of frames written.
func (s *Sim) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Last returns a copy of the last frame.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}
