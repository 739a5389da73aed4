package comparison

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/smartbasket/basket-service/internal/comparison"

var (
	// comparisonDuration tracks the time taken for a full basket comparison.
	comparisonDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "basket_comparison_duration_seconds",
		Help:    "Time taken to compare a basket across stores",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
	}, []string{"outcome"}) // outcome: ok, error

	// basketSize tracks the distribution of resolved basket sizes.
	basketSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "basket_comparison_items_count",
		Help:    "Number of active reference items in comparison requests",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	})

	// droppedItems counts requested ids that were unknown or inactive.
	droppedItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: "basket_comparison_dropped_items_total",
		Help: "Requested reference items dropped because they were unknown or inactive",
	})

	// storeCount tracks the number of active stores compared.
	storeCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "basket_comparison_stores_count",
		Help:    "Number of active stores compared",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	// fullyAvailableStores tracks how many stores carry the whole basket.
	fullyAvailableStores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "basket_comparison_fully_available_stores_count",
		Help:    "Number of stores carrying every basket item",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	// potentialSavings tracks the spread between the most and least expensive full baskets.
	potentialSavings = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "basket_comparison_potential_savings",
		Help:    "Difference between highest and lowest full-basket totals",
		Buckets: []float64{0, 0.5, 1, 2, 5, 10, 20, 50},
	})
)

// MetricsRecorder records comparison metrics to Prometheus and to the
// OpenTelemetry meter provider.
type MetricsRecorder struct {
	duration    metric.Float64Histogram
	comparisons metric.Int64Counter
}

// NewMetricsRecorder creates a recorder on the global meter provider.
func NewMetricsRecorder() *MetricsRecorder {
	return newMetricsRecorder(otel.Meter(meterName))
}

func newMetricsRecorder(meter metric.Meter) *MetricsRecorder {
	duration, err := meter.Float64Histogram("basket.comparison.duration",
		metric.WithDescription("Time taken to compare a basket across stores"),
		metric.WithUnit("s"))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create comparison duration instrument")
		duration = noop.Float64Histogram{}
	}

	comparisons, err := meter.Int64Counter("basket.comparison.requests",
		metric.WithDescription("Basket comparisons by outcome"))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create comparison counter instrument")
		comparisons = noop.Int64Counter{}
	}

	return &MetricsRecorder{duration: duration, comparisons: comparisons}
}

// RecordComparison records the duration and outcome of a comparison.
func (m *MetricsRecorder) RecordComparison(ctx context.Context, duration time.Duration, success bool) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	comparisonDuration.WithLabelValues(outcome).Observe(duration.Seconds())

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.duration.Record(ctx, duration.Seconds(), attrs)
	m.comparisons.Add(ctx, 1, attrs)
}

// RecordBasket records the resolved basket size and how many ids were dropped.
func (m *MetricsRecorder) RecordBasket(size, dropped int) {
	basketSize.Observe(float64(size))
	if dropped > 0 {
		droppedItems.Add(float64(dropped))
	}
}

// RecordStores records the number of stores compared and how many qualified.
func (m *MetricsRecorder) RecordStores(total, fullyAvailable int) {
	storeCount.Observe(float64(total))
	fullyAvailableStores.Observe(float64(fullyAvailable))
}

// RecordSavings records the potential savings of a comparison.
func (m *MetricsRecorder) RecordSavings(amount float64) {
	potentialSavings.Observe(amount)
}
