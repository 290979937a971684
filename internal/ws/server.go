// Package ws serves the live preview of the plate and accepts control
// messages over websockets.
package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/funtimes-wordclock/internal/diagnostics"
	"github.com/coreman2200/funtimes-wordclock/internal/events"
	"github.com/coreman2200/funtimes-wordclock/internal/layout"
	"github.com/coreman2200/funtimes-wordclock/internal/metrics"
	"github.com/coreman2200/funtimes-wordclock/internal/selftest"
	"github.com/coreman2200/funtimes-wordclock/internal/words"
)

const writeWait = 200 * time.Millisecond

// ErrQueueFull is returned when the main loop has not taken the previous
// commands yet.
var ErrQueueFull = errors.New("command queue full")

// Status mirrors the clock as last reported on the event bus.
type Status struct {
	Display     int      `json:"display"`
	Description string   `json:"description"`
	Animation   string   `json:"animation"`
	Levels      [3]int   `json:"levels"`
	Power       bool     `json:"power"`
	Temperature bool     `json:"temperature"`
	Hour        int      `json:"hour"`
	Minute      int      `json:"minute"`
	Words       []string `json:"words"`
	Effect      string   `json:"effect"`
	Animating   bool     `json:"animating"`
	LastTicks   int      `json:"last_ticks"`
	Saved       *bool    `json:"saved,omitempty"`
}

type Server struct {
	log      zerolog.Logger
	layout   layout.Layout
	fps      int
	driver   string
	commands chan<- Command

	mu          sync.RWMutex
	frameID     uint64
	startTime   time.Time
	status      Status
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	writeMu     sync.Mutex

	upgrader websocket.Upgrader
}

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option { return func(s *Server) { s.log = l } }
func WithFPS(fps int) Option             { return func(s *Server) { s.fps = fps } }
func WithDriver(name string) Option      { return func(s *Server) { s.driver = name } }

// NewServer hands accepted commands to cmds; the main loop owns the other
// end.
func NewServer(l layout.Layout, cmds chan<- Command, opts ...Option) *Server {
	s := &Server{
		log:         zerolog.Nop(),
		layout:      l,
		commands:    cmds,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes mounts the sockets, /health and /metrics.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", s.HandleFramesWS)
	mux.HandleFunc("/ws/diag", s.HandleDiagWS)
	mux.HandleFunc("/ws/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// Watch keeps the status in step with bus. It returns the unsubscribe
// function.
func (s *Server) Watch(bus *events.Bus) func() {
	unsub := []func(){
		bus.Subscribe(func(e events.ModeChanged) {
			s.update(func(st *Status) {
				st.Display, st.Description, st.Animation = e.Display, e.Description, e.Animation
			})
		}),
		bus.Subscribe(func(e events.BrightnessChanged) {
			s.update(func(st *Status) { st.Levels = e.Levels })
		}),
		bus.Subscribe(func(e events.SceneChanged) {
			s.update(func(st *Status) {
				st.Power, st.Temperature = e.Power, e.Temperature
				st.Hour, st.Minute = e.Hour, e.Minute
				st.Words, st.Effect = e.Words, e.Effect
				st.Animating = true
			})
		}),
		bus.Subscribe(func(e events.AnimationFinished) {
			s.update(func(st *Status) {
				st.Animating, st.LastTicks = false, e.Ticks
			})
		}),
		bus.Subscribe(func(e events.SettingsSaved) {
			ok := e.OK
			s.update(func(st *Status) { st.Saved = &ok })
			s.Push(diag.SettingsSaved(e.OK))
		}),
	}
	return func() {
		for _, fn := range unsub {
			fn()
		}
	}
}

// SetStatus seeds the status before the first events arrive.
func (s *Server) SetStatus(st Status) { s.update(func(cur *Status) { *cur = st }) }

func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) update(fn func(*Status)) {
	s.mu.Lock()
	fn(&s.status)
	s.mu.Unlock()
}

// Frame broadcasts one written frame. It is registered with the strip and
// runs on its transfer goroutine.
func (s *Server) Frame(rgb []byte) {
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	s.mu.Lock()
	s.frameID++
	id := s.frameID
	s.mu.Unlock()

	b, err := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})
	if err != nil {
		return
	}
	s.broadcast(s.clients, b)
}

// Push sends d to every diagnostics client.
func (s *Server) Push(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	s.broadcast(s.diagClients, b)
}

func (s *Server) broadcast(set map[*websocket.Conn]bool, b []byte) {
	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(set))
	for c := range set {
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	for _, c := range conns {
		s.write(c, b)
	}
}

func (s *Server) write(c *websocket.Conn, b []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = c.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
		s.log.Debug().Err(err).Msg("websocket write")
	}
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	s.serveSubscriber(w, r, s.clients, true)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	s.serveSubscriber(w, r, s.diagClients, false)
}

// serveSubscriber registers a read-only client in set until it hangs up.
func (s *Server) serveSubscriber(w http.ResponseWriter, r *http.Request, set map[*websocket.Conn]bool, topology bool) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if topology {
		s.sendTopology(conn)
	}
	s.mu.Lock()
	set[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// reply answers one control message.
type reply struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Status Status `json:"status"`
}

func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		resp := reply{OK: true}
		if err := s.submit(data); err != nil {
			s.log.Info().Err(err).Msg("control message rejected")
			resp = reply{Error: err.Error()}
		}
		resp.Status = s.Status()
		b, _ := json.Marshal(resp)
		s.write(conn, b)
	}
}

// submit queues one control message and pushes a diagnostic when it is
// rejected.
func (s *Server) submit(data []byte) error {
	var c Control
	err := json.Unmarshal(data, &c)
	if err != nil {
		err = fmt.Errorf("decode: %w", err)
		s.Push(diag.ControlRejected(err))
		return err
	}
	cmd, err := c.Command()
	switch {
	case errors.Is(err, selftest.ErrUnknownKind):
		s.Push(diag.TestUnknown(c.RunTest))
		return err
	case err != nil:
		s.Push(diag.ControlRejected(err))
		return err
	}
	select {
	case s.commands <- cmd:
		return nil
	default:
		s.Push(diag.ControlRejected(ErrQueueFull))
		return ErrQueueFull
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"count":    s.layout.Count(),
		"fps":      s.fps,
		"driver":   s.driver,
		"status":   s.status,
	}
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) sendTopology(conn *websocket.Conn) {
	top := map[string]any{
		"dim":    map[string]int{"rows": s.layout.Dim.Rows, "columns": s.layout.Dim.Columns},
		"order":  map[string]bool{"flipOddRows": s.layout.Order.FlipOddRows},
		"plate":  words.Plate,
		"driver": s.driver,
	}
	b, _ := json.Marshal(top)
	s.write(conn, b)
}
