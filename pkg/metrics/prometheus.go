package metrics

// HTTP middleware in the spirit of github.com/zsais/go-gin-prometheus, cut
// down to the request counter, latency histogram and response size summary,
// with the option of serving /metrics from its own listener.

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpLatencyBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000,
	3000, 5000, 7500, 10000, 15000,
	30000, 60000, 120000,
}

const defaultMetricsPath = "/metrics"

// Logger is the minimal logging surface the middleware needs; it is satisfied
// by zap.SugaredLogger.
type Logger interface {
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

type defaultLogger struct{ *log.Logger }

func (l *defaultLogger) Error(v ...interface{})                 { l.Println(v...) }
func (l *defaultLogger) Errorf(format string, v ...interface{}) { l.Printf(format, v...) }

// RequestCounterURLLabelMappingFn controls the cardinality of the "url"
// label. Return c.FullPath() to collapse parameterized routes such as
// /api/v1/firms/:crd into one series.
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus instruments a gin engine and exposes the collected metrics.
type Prometheus struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec
	resSz  *prometheus.SummaryVec

	router        *gin.Engine
	listenAddress string

	MetricsPath             string
	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn

	logger Logger
}

type NewPrometheusOptions struct {
	Subsystem               string
	MetricsPath             string
	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn
	Logger                  Logger
}

func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		MetricsPath:             options.MetricsPath,
		ReqCntURLLabelMappingFn: options.ReqCntURLLabelMappingFn,
		logger:                  options.Logger,
	}
	if p.MetricsPath == "" {
		p.MetricsPath = defaultMetricsPath
	}
	if p.ReqCntURLLabelMappingFn == nil {
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string { return c.Request.URL.Path }
	}
	if p.logger == nil {
		p.logger = &defaultLogger{Logger: log.Default()}
	}

	p.registerMetrics(options.Subsystem)
	return p
}

// SetListenAddress serves /metrics from a dedicated address instead of the
// instrumented engine, keeping scrapes out of the API access log.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
	if p.listenAddress != "" {
		p.router = gin.New()
	}
}

// Use attaches the middleware to the engine and mounts the metrics endpoint.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	if p.listenAddress != "" {
		p.router.GET(p.MetricsPath, prometheusHandler())
		go func() {
			if err := p.router.Run(p.listenAddress); err != nil {
				p.logger.Errorf("metrics listener stopped: %v", err)
			}
		}()
		return
	}
	e.GET(p.MetricsPath, prometheusHandler())
}

func (p *Prometheus) registerMetrics(subsystem string) {
	p.reqCnt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "req_total",
		Help:      "How many HTTP requests processed, partitioned by status code, method and URL.",
	}, []string{"code", "method", "url"})

	p.reqDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      "req_dur_ms",
		Help:      "The HTTP request latencies in milliseconds.",
		Buckets:   httpLatencyBuckets,
	}, []string{"code", "method", "url"})

	p.resSz = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Subsystem: subsystem,
		Name:      "resp_sz_bytes",
		Help:      "The HTTP response sizes in bytes.",
	}, []string{"code", "method", "url"})

	for _, collector := range []prometheus.Collector{p.reqCnt, p.reqDur, p.resSz} {
		if err := prometheus.Register(collector); err != nil {
			p.logger.Errorf("failed to register metrics collector: %v", err)
		}
	}
}

// HandlerFunc records one observation per request.
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.MetricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.ReqCntURLLabelMappingFn(c)
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)

		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		p.resSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(c.Writer.Size()))
	}
}

func prometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
