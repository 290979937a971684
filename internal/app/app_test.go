package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-wordclock/internal/animation"
	"github.com/coreman2200/funtimes-wordclock/internal/config"
	"github.com/coreman2200/funtimes-wordclock/internal/selftest"
	"github.com/coreman2200/funtimes-wordclock/internal/thermo"
	"github.com/coreman2200/funtimes-wordclock/internal/timesource"
	"github.com/coreman2200/funtimes-wordclock/internal/words"
	"github.com/coreman2200/funtimes-wordclock/internal/ws"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Display.Animation = "none"
	cfg.Store.Path = filepath.Join(t.TempDir(), "settings.eeprom")
	return cfg
}

func newTestCore(t *testing.T, cfg *config.Config) *Core {
	t.Helper()
	core, err := InitCore(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { core.Close() })
	core.Clock = timesource.Fixed{Power: true, Hour: 13, Minute: 7}
	return core
}

// settle steps until the display rests, waiting out each transfer.
func settle(t *testing.T, c *Conductor) {
	t.Helper()
	for n := 0; n < 50; n++ {
		c.step()
		c.core.Strip.Wait()
		if c.core.Display.Stopped() && c.test == nil {
			return
		}
	}
	t.Fatal("display did not settle")
}

func TestInitCoreDefaults(t *testing.T) {
	core := newTestCore(t, testConfig(t))
	assert.Equal(t, "sim", core.Driver)
	assert.Equal(t, 0, core.Display.Modes().Display())
	assert.Equal(t, animation.None, core.Display.Modes().Animation())
	assert.Equal(t, [3]int{20, 20, 20}, core.Display.Brightness().Levels())
}

func TestInitCoreRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Display.Animation = "wobble"
	_, err := InitCore(cfg, zerolog.Nop())
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Night = config.Night{Off: "25:00", On: "06:00"}
	_, err = InitCore(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestStepShowsClock(t *testing.T) {
	core := newTestCore(t, testConfig(t))
	c := NewConductor(core)
	settle(t, c)

	assert.Equal(t, words.Select(0, 13, 7).Words, core.Display.Words())
	assert.True(t, core.Display.Scene().Quiescent())
	assert.NotZero(t, core.Strip.Frames())
}

func TestCommandsAndSavedSettingsSurviveRestart(t *testing.T) {
	cfg := testConfig(t)
	core := newTestCore(t, cfg)
	c := NewConductor(core)

	mode, anim := 3, animation.Fade
	levels := [3]int{1, 2, 40}
	c.apply(ws.Command{Display: &mode, Animation: &anim, Brightness: &levels, Save: true})
	assert.Equal(t, [3]int{1, 2, 31}, core.Display.Brightness().Levels())
	settle(t, c)
	assert.Equal(t, words.Select(3, 13, 7).Words, core.Display.Words())
	require.NoError(t, core.Close())

	again := newTestCore(t, cfg)
	assert.Equal(t, 3, again.Display.Modes().Display())
	assert.Equal(t, animation.Fade, again.Display.Modes().Animation())
	assert.Equal(t, [3]int{1, 2, 31}, again.Display.Brightness().Levels())
}

func TestSelfTestTakesOverThenRedraws(t *testing.T) {
	core := newTestCore(t, testConfig(t))
	c := NewConductor(core)
	settle(t, c)
	before := core.Strip.Snapshot()

	c.apply(ws.Command{Test: selftest.RowSweep})
	require.NotNil(t, c.test)
	c.step()
	core.Strip.Wait()
	assert.NotEqual(t, before, core.Strip.Snapshot())

	settle(t, c)
	assert.Nil(t, c.test)
	assert.Equal(t, before, core.Strip.Snapshot())
}

func TestTemperatureModeReadsSensor(t *testing.T) {
	core := newTestCore(t, testConfig(t))
	c := NewConductor(core)
	core.Display.Modes().SetDisplay(words.TemperatureMode)

	// no sensor: the clock path leaves ES IST
	settle(t, c)
	assert.Equal(t, []words.ID{words.ES, words.IST}, core.Display.Words())

	core.Thermo = thermo.Fixed(22.5)
	settle(t, c)
	assert.Equal(t, words.SelectTemperature(45).Words, core.Display.Words())

	// other modes ignore the sensor
	core.Display.Modes().SetDisplay(0)
	settle(t, c)
	assert.Equal(t, words.Select(0, 13, 7).Words, core.Display.Words())
}

func TestReloadAppliesDisplaySection(t *testing.T) {
	core := newTestCore(t, testConfig(t))
	c := NewConductor(core)

	cfg := testConfig(t)
	cfg.Display.Mode = 5
	cfg.Display.Animation = "explode"
	cfg.Display.Brightness = config.Brightness{R: 31, G: 0, B: 7}
	c.reload(cfg)

	assert.Equal(t, 5, core.Display.Modes().Display())
	assert.Equal(t, animation.Explode, core.Display.Modes().Animation())
	assert.Equal(t, [3]int{31, 0, 7}, core.Display.Brightness().Levels())
	assert.Same(t, cfg, core.Config)
}

func TestRunStopsWithContext(t *testing.T) {
	core := newTestCore(t, testConfig(t))
	c := NewConductor(core)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	mode := 6
	core.commands <- ws.Command{Display: &mode}
	require.Eventually(t, func() bool { return core.Ticks.Fired() > 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, 6, core.Display.Modes().Display())
	assert.False(t, c.LastTick().IsZero())
}
