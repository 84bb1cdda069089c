package obs

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"service-admission/internal/domain"
)

// Metrics holds the collectors for fee computations and the HTTP surface.
type Metrics struct {
	Computations    *prometheus.CounterVec
	DiscountLines   *prometheus.CounterVec
	DiscountAmount  *prometheus.CounterVec
	GroupSize       prometheus.Histogram
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics builds the collectors and registers them with reg. Collectors that
// are already registered are reused.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Count of fee computations by result.",
		}, []string{"result"}),
		DiscountLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_lines_total",
			Help:      "Count of discount lines issued by kind.",
		}, []string{"kind"}),
		DiscountAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_amount_total",
			Help:      "Sum of discounted amounts by kind.",
		}, []string{"kind"}),
		GroupSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "group_size",
			Help:      "Number of visitors per computed group.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 50},
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.Computations = register(reg, m.Computations)
	m.DiscountLines = register(reg, m.DiscountLines)
	m.DiscountAmount = register(reg, m.DiscountAmount)
	m.GroupSize = register(reg, m.GroupSize)
	m.RequestDuration = register(reg, m.RequestDuration)
	return m
}

// ObserveComputation records the outcome of one computation.
func (m *Metrics) ObserveComputation(groupSize int, records []domain.AudienceRecord, err error) {
	if m == nil {
		return
	}
	m.GroupSize.Observe(float64(groupSize))
	switch {
	case err == nil:
		m.Computations.WithLabelValues("ok").Inc()
	case errors.Is(err, domain.ErrInconsistentState):
		m.Computations.WithLabelValues("inconsistent").Inc()
		return
	default:
		m.Computations.WithLabelValues("error").Inc()
		return
	}
	for _, r := range records {
		for _, line := range r.Discounts {
			m.DiscountLines.WithLabelValues(string(line.Kind)).Inc()
			m.DiscountAmount.WithLabelValues(string(line.Kind)).Add(float64(line.Amount))
		}
	}
}

// Middleware records request latency.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			m.RequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
