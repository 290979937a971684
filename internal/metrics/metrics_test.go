package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-wordclock/internal/animation"
)

func TestObserverCounts(t *testing.T) {
	eff := animation.Effect{Mode: animation.Roll, Dir: animation.Up}
	before := testutil.ToFloat64(animationsStarted.WithLabelValues("roll-up"))
	skipped := testutil.ToFloat64(ticksSkipped)

	var o Observer
	o.Started(eff)
	o.Skipped()
	o.Finished(eff, 16)

	assert.Equal(t, before+1, testutil.ToFloat64(animationsStarted.WithLabelValues("roll-up")))
	assert.Equal(t, skipped+1, testutil.ToFloat64(ticksSkipped))
	assert.Equal(t, 1, testutil.CollectAndCount(animationTicks))
}

func TestGauges(t *testing.T) {
	SetBrightness([3]int{31, 4, 0})
	assert.Equal(t, 31.0, testutil.ToFloat64(brightnessLevel.WithLabelValues("red")))
	assert.Equal(t, 4.0, testutil.ToFloat64(brightnessLevel.WithLabelValues("green")))

	SetDisplayMode(5)
	assert.Equal(t, 5.0, testutil.ToFloat64(displayMode))

	frames := testutil.ToFloat64(framesWritten)
	FrameWritten()
	assert.Equal(t, frames+1, testutil.ToFloat64(framesWritten))
}

func TestHandlerServesNamespace(t *testing.T) {
	SetTickOverruns(2)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "wordclock_loop_tick_overruns 2")
}
