package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "signals"

// Drop reasons reported on signals_messages_dropped_total.
const (
	ReasonTopic      = "topic"
	ReasonEnvelope   = "envelope"
	ReasonMessage    = "message"
	ReasonDirection  = "direction"
	ReasonEncode     = "encode"
	ReasonPublish    = "publish"
	ReasonQueueFull  = "queue_full"
	ReasonNoReply    = "no_reply"
	ReasonAuditWrite = "audit"
	ReasonRateLimit  = "rate_limited"
)

// Collector owns a private registry so tests can create as many as they
// like without clashing on the default one.
type Collector struct {
	registry *prometheus.Registry

	inbound    prometheus.Counter
	dropped    *prometheus.CounterVec
	dispatch   *prometheus.HistogramVec
	published  *prometheus.CounterVec
	events     *prometheus.CounterVec
	goroutines prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		inbound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Inbound broker messages accepted by the pipeline.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_total",
			Help:      "Messages dropped before or after dispatch, by reason.",
		}, []string{"reason"}),
		dispatch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in a method handler, including the store transaction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "Messages published to the broker, by kind.",
		}, []string{"kind"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Notifications fanned out, by event kind.",
		}, []string{"kind"}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "go_routines",
			Help:      "Number of goroutines at the last scrape.",
		}),
	}

	c.registry.MustRegister(
		c.inbound,
		c.dropped,
		c.dispatch,
		c.published,
		c.events,
		c.goroutines,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) MessageReceived() {
	c.inbound.Inc()
}

func (c *Collector) MessageDropped(reason string) {
	c.dropped.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveDispatch(method, outcome string, elapsed time.Duration) {
	c.dispatch.WithLabelValues(method, outcome).Observe(elapsed.Seconds())
}

// MessagePublished counts a publish; kind is "response" or "notification".
func (c *Collector) MessagePublished(kind string) {
	c.published.WithLabelValues(kind).Inc()
}

func (c *Collector) EventEmitted(kind string) {
	c.events.WithLabelValues(kind).Inc()
}

func (c *Collector) refreshSystemGauges() {
	c.goroutines.Set(float64(runtime.NumGoroutine()))
}
