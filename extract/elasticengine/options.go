package elasticengine

import (
	"io"
	"net/http"
	"time"

	"github.com/esqproject/esq/extract"
)

// Option defines a functional option for configuring an Extractor.
type Option func(*Extractor) error

// WithLogger sets the logger for the Extractor.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: search request bodies with execution timing (development use)
// Info level: batch counts, durations, snapshot lifecycle (production-safe)
// Warn level: non-critical issues like snapshot-close failures
// Error level: critical failures that cause the run to fail.
func WithLogger(logger extract.Logger) Option {
	return func(e *Extractor) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Extractor.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled. When both loggers are
// configured, the contextual one wins.
func WithContextualLogger(logger extract.ContextualLogger) Option {
	return func(e *Extractor) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Extractor.
// The collector will receive search durations, emitted-document counts and
// transport error counters.
func WithMetrics(collector extract.MetricsCollector) Option {
	return func(e *Extractor) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Extractor.
// The collector will receive one span per search call, including the anchor probe.
func WithTracing(collector extract.TracingCollector) Option {
	return func(e *Extractor) error {
		e.tracingCollector = collector
		return nil
	}
}

// WithOutput redirects emitted documents away from standard output.
func WithOutput(out io.Writer) Option {
	return func(e *Extractor) error {
		e.out = out
		return nil
	}
}

// WithBatchCap overrides the fixed per-request batch cap.
func WithBatchCap(batchCap uint) Option {
	return func(e *Extractor) error {
		if batchCap == 0 {
			return extract.ErrZeroBatchCap
		}

		e.batchCap = batchCap

		return nil
	}
}

// WithPollInterval overrides the delay between follow-mode polling cycles.
func WithPollInterval(interval time.Duration) Option {
	return func(e *Extractor) error {
		e.pollInterval = interval
		return nil
	}
}

// WithLatency overrides the ingestion-latency buffer subtracted from "now"
// when no explicit upper time bound is given.
func WithLatency(latency string) Option {
	return func(e *Extractor) error {
		if latency == "" {
			return extract.ErrEmptyLatencyBuffer
		}

		e.latency = latency

		return nil
	}
}

// WithKeepAlive overrides the keep-alive TTL requested for snapshot handles.
func WithKeepAlive(keepAlive string) Option {
	return func(e *Extractor) error {
		e.keepAlive = keepAlive
		return nil
	}
}

// WithHTTPClient sets the underlying http.Client, e.g. to configure timeouts
// or TLS. A nil client keeps the default.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) error {
		e.httpClient = client
		return nil
	}
}
