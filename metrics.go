package pulsesim

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("pulsesim")

var (
	pressesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsesim_presses_total",
		Help: "Total number of simulated button presses",
	})

	pulsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsesim_pulses_total",
		Help: "Total number of processed pulses by signal",
	}, []string{"signal"})

	pressPulses = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pulsesim_press_pulses",
		Help:    "Number of pulses processed per button press",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	})

	periodsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsesim_periods_found_total",
		Help: "Number of periods found, by detection method",
	}, []string{"method"})

	lowPulses  = pulsesTotal.WithLabelValues(Low.String())
	highPulses = pulsesTotal.WithLabelValues(High.String())
)

func observePress(c Counts) {
	pressesTotal.Inc()
	lowPulses.Add(float64(c.Low))
	highPulses.Add(float64(c.High))
	pressPulses.Observe(float64(c.Total()))
}

// uint64Attr returns an int64 span attribute holding v, clamped to
// math.MaxInt64.
//
func uint64Attr(key string, v uint64) attribute.KeyValue {
	if v > math.MaxInt64 {
		v = math.MaxInt64
	}
	return attribute.Int64(key, int64(v))
}
