package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-wordclock/internal/animation"
	diag "github.com/coreman2200/funtimes-wordclock/internal/diagnostics"
	"github.com/coreman2200/funtimes-wordclock/internal/events"
	"github.com/coreman2200/funtimes-wordclock/internal/layout"
	"github.com/coreman2200/funtimes-wordclock/internal/selftest"
)

func newTestServer(t *testing.T, queue int) (*Server, *httptest.Server, chan Command) {
	t.Helper()
	cmds := make(chan Command, queue)
	s := NewServer(layout.Default(), cmds, WithFPS(30), WithDriver("sim"))
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return s, ts, cmds
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	return c
}

func readJSON(t *testing.T, c *websocket.Conn, v any) {
	t.Helper()
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestControlQueuesCommand(t *testing.T) {
	_, ts, cmds := newTestServer(t, 1)
	c := dial(t, ts, "/ws/control")

	require.NoError(t, c.WriteMessage(websocket.TextMessage,
		[]byte(`{"display":3,"animation":"explode","brightness":[1,2,40],"save":true}`)))
	var r reply
	readJSON(t, c, &r)
	assert.True(t, r.OK)

	cmd := <-cmds
	require.NotNil(t, cmd.Display)
	assert.Equal(t, 3, *cmd.Display)
	require.NotNil(t, cmd.Animation)
	assert.Equal(t, animation.Explode, *cmd.Animation)
	assert.Equal(t, [3]int{1, 2, 40}, *cmd.Brightness)
	assert.True(t, cmd.Save)
}

func TestControlRejects(t *testing.T) {
	_, ts, cmds := newTestServer(t, 1)
	c := dial(t, ts, "/ws/control")

	for _, msg := range []string{
		`{"display":8}`,
		`{"animation":"spin"}`,
		`{"runTest":"plane_z"}`,
		`{}`,
		`not json`,
	} {
		require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(msg)))
		var r reply
		readJSON(t, c, &r)
		assert.False(t, r.OK, msg)
		assert.NotEmpty(t, r.Error, msg)
	}
	assert.Len(t, cmds, 0)

	// queue holds one command
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"runTest":"row_sweep"}`)))
	var r reply
	readJSON(t, c, &r)
	require.True(t, r.OK)
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"save":true}`)))
	readJSON(t, c, &r)
	assert.False(t, r.OK)
	assert.Equal(t, ErrQueueFull.Error(), r.Error)
	assert.Equal(t, selftest.RowSweep, (<-cmds).Test)
}

func TestFramesCarryTopologyThenFrames(t *testing.T) {
	s, ts, _ := newTestServer(t, 1)
	c := dial(t, ts, "/ws/frames")

	var top struct {
		Dim    map[string]int `json:"dim"`
		Plate  []string       `json:"plate"`
		Driver string         `json:"driver"`
	}
	readJSON(t, c, &top)
	assert.Equal(t, layout.Rows, top.Dim["rows"])
	assert.Equal(t, layout.Columns, top.Dim["columns"])
	assert.Len(t, top.Plate, layout.Rows)
	assert.Equal(t, "sim", top.Driver)

	// the client is registered after the topology went out
	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.clients) == 1
	}, time.Second, 5*time.Millisecond)

	s.Frame([]byte{1, 2, 3})
	var f struct {
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	readJSON(t, c, &f)
	assert.Equal(t, uint64(1), f.FrameID)
	assert.Equal(t, []byte{1, 2, 3}, f.RGB)
}

func TestDiagnosticsFromBus(t *testing.T) {
	s, ts, _ := newTestServer(t, 1)
	bus := events.New()
	defer s.Watch(bus)()

	c := dial(t, ts, "/ws/diag")
	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.diagClients) == 1
	}, time.Second, 5*time.Millisecond)

	bus.Publish(events.SettingsSaved{OK: false})
	var d diag.Diagnostic
	readJSON(t, c, &d)
	assert.Equal(t, "SETTINGS.SAVE_FAILED", d.Code)

	bus.Publish(events.ModeChanged{Display: 2, Description: "ES IST EIN UHR SIEBEN", Animation: "fade"})
	bus.Publish(events.BrightnessChanged{Levels: [3]int{5, 6, 7}})
	require.Eventually(t, func() bool {
		st := s.Status()
		return st.Display == 2 && st.Levels == [3]int{5, 6, 7}
	}, time.Second, 5*time.Millisecond)
}

func TestRejectedControlPushesDiagnostic(t *testing.T) {
	s, ts, _ := newTestServer(t, 1)
	d := dial(t, ts, "/ws/diag")
	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.diagClients) == 1
	}, time.Second, 5*time.Millisecond)
	c := dial(t, ts, "/ws/control")

	var r reply
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"runTest":"plane_z"}`)))
	readJSON(t, c, &r)
	require.False(t, r.OK)
	var got diag.Diagnostic
	readJSON(t, d, &got)
	assert.Equal(t, "TEST.UNKNOWN", got.Code)
	assert.Equal(t, "plane_z", got.Evidence["name"])

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"display":8}`)))
	readJSON(t, c, &r)
	require.False(t, r.OK)
	readJSON(t, d, &got)
	assert.Equal(t, "CONTROL.REJECTED", got.Code)
}

func TestStatusTracksAnimation(t *testing.T) {
	s, _, _ := newTestServer(t, 1)
	bus := events.New()
	defer s.Watch(bus)()

	bus.Publish(events.SceneChanged{Power: true, Hour: 9, Minute: 30, Words: []string{"ES", "IST", "HALB", "ZEHN"}, Effect: "roll"})
	require.Eventually(t, func() bool { return s.Status().Animating }, time.Second, 5*time.Millisecond)

	bus.Publish(events.AnimationFinished{Effect: "roll", Ticks: 18})
	require.Eventually(t, func() bool {
		st := s.Status()
		return !st.Animating && st.LastTicks == 18
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "roll", s.Status().Effect)
}

func TestHealth(t *testing.T) {
	s, ts, _ := newTestServer(t, 1)
	s.SetStatus(Status{Display: 4, Words: []string{"ES", "IST"}})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var h struct {
		Count  int    `json:"count"`
		FPS    int    `json:"fps"`
		Status Status `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, layout.Rows*layout.Columns, h.Count)
	assert.Equal(t, 30, h.FPS)
	assert.Equal(t, 4, h.Status.Display)
	assert.Equal(t, []string{"ES", "IST"}, h.Status.Words)

	m, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	m.Body.Close()
	assert.Equal(t, http.StatusOK, m.StatusCode)
}
