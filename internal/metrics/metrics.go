// Package metrics exports the clock's counters and gauges to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coreman2200/funtimes-wordclock/internal/animation"
)

const namespace = "wordclock"

var (
	framesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "led",
		Name:      "frames_written_total",
		Help:      "Frames pushed to the LED strip",
	})

	ticksSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "animation",
		Name:      "ticks_skipped_total",
		Help:      "Animation ticks skipped because the LED output stayed busy",
	})

	animationsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "animation",
		Name:      "started_total",
		Help:      "Animations started, by effect",
	}, []string{"effect"})

	animationTicks = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "animation",
		Name:      "ticks",
		Help:      "Ticks an animation took to reach its target",
		Buckets:   []float64{1, 2, 5, 9, 16, 18, 32},
	}, []string{"effect"})

	brightnessLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "display",
		Name:      "brightness_level",
		Help:      "Brightness level (0-31) per colour channel",
	}, []string{"channel"})

	displayMode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "display",
		Name:      "mode",
		Help:      "Selected display mode",
	})

	tickOverruns = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "loop",
		Name:      "tick_overruns",
		Help:      "Scheduler ticks raised while the previous one was still pending",
	})
)

var channelNames = [3]string{"red", "green", "blue"}

func FrameWritten() { framesWritten.Inc() }

// SetBrightness records the level of each channel.
func SetBrightness(levels [3]int) {
	for i, l := range levels {
		brightnessLevel.WithLabelValues(channelNames[i]).Set(float64(l))
	}
}

func SetDisplayMode(m int) { displayMode.Set(float64(m)) }

func SetTickOverruns(n uint64) { tickOverruns.Set(float64(n)) }

// Observer feeds engine progress into the metrics.
type Observer struct{}

var _ animation.Observer = Observer{}

func (Observer) Started(e animation.Effect) {
	animationsStarted.WithLabelValues(e.String()).Inc()
}

func (Observer) Finished(e animation.Effect, ticks int) {
	animationTicks.WithLabelValues(e.String()).Observe(float64(ticks))
}

func (Observer) Skipped() { ticksSkipped.Inc() }

// Handler serves every promauto registered metric.
func Handler() http.Handler {
	return promhttp.Handler()
}
