package elasticengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/esqproject/esq/extract"
)

const (
	metricSearchDuration   = "esq_search_duration"
	metricDocumentsEmitted = "esq_documents_emitted"
	metricTransportErrors  = "esq_transport_errors"

	spanNameSearch    = "esq.search"
	spanAttrOperation = "operation"
	spanAttrErrorType = "error_type"
	spanAttrHitCount  = "hit_count"
	spanAttrDuration  = "duration_ms"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeNetwork  = "network"
	errorTypeParse    = "parse"
	errorTypeProtocol = "protocol"
	errorTypeOther    = "other"
)

// logDebug logs at debug level, preferring the contextual logger when configured.
func (e Extractor) logDebug(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// logWarn logs at warn level, preferring the contextual logger when configured.
func (e Extractor) logWarn(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (e Extractor) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}
	if e.logger != nil {
		e.logger.Error(msg, allArgs...)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (e Extractor) logOperation(ctx context.Context, action string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}
	if e.logger != nil {
		e.logger.Info(logMsgOperation+action, args...)
	}
}

// logSearchWithDuration logs request bodies with execution time at debug level.
func (e Extractor) logSearchWithDuration(ctx context.Context, body []byte, action string, duration time.Duration) {
	e.logDebug(ctx, logMsgSearchExecuted+action,
		logAttrDurationMS, e.toMilliseconds(duration),
		logAttrRequest, string(body))
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (e Extractor) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordSearchDuration records a successful search duration if a metrics collector is configured.
func (e Extractor) recordSearchDuration(ctx context.Context, operation string, duration time.Duration) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          statusSuccess,
	}

	if contextualCollector, ok := e.metricsCollector.(extract.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricSearchDuration, duration, labels)
	} else {
		e.metricsCollector.RecordDuration(metricSearchDuration, duration, labels)
	}
}

// recordDocumentsEmitted records the per-batch emitted document count if a metrics collector is configured.
func (e Extractor) recordDocumentsEmitted(ctx context.Context, count int) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{}

	if contextualCollector, ok := e.metricsCollector.(extract.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricDocumentsEmitted, float64(count), labels)
	} else {
		e.metricsCollector.RecordValue(metricDocumentsEmitted, float64(count), labels)
	}
}

// recordErrorMetrics records transport error counters if a metrics collector is configured.
func (e Extractor) recordErrorMetrics(ctx context.Context, operation string, errorType string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := e.metricsCollector.(extract.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricTransportErrors, labels)
	} else {
		e.metricsCollector.IncrementCounter(metricTransportErrors, labels)
	}
}

// startSearchSpan starts a tracing span for one search call if a tracing collector is configured.
func (e Extractor) startSearchSpan(ctx context.Context, operation string) (context.Context, extract.SpanContext) {
	if e.tracingCollector == nil {
		return ctx, nil
	}

	return e.tracingCollector.StartSpan(ctx, spanNameSearch, map[string]string{
		spanAttrOperation: operation,
	})
}

// finishSearchSpanSuccess finishes a successful search span with its results.
func (e Extractor) finishSearchSpanSuccess(span extract.SpanContext, hitCount int, duration time.Duration) {
	if e.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)

	e.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{
		spanAttrHitCount: fmt.Sprintf("%d", hitCount),
		spanAttrDuration: fmt.Sprintf("%.2f", e.toMilliseconds(duration)),
	})
}

// finishSearchSpanError finishes a search span with error details.
func (e Extractor) finishSearchSpanError(span extract.SpanContext, errorType string, duration time.Duration) {
	if e.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusError)

	e.tracingCollector.FinishSpan(span, statusError, map[string]string{
		spanAttrErrorType: errorType,
		spanAttrDuration:  fmt.Sprintf("%.2f", e.toMilliseconds(duration)),
	})
}

// errorTypeOf classifies an error against the extraction taxonomy for metrics labels.
func errorTypeOf(err error) string {
	switch {
	case errors.Is(err, extract.ErrNetwork):
		return errorTypeNetwork
	case errors.Is(err, extract.ErrParse):
		return errorTypeParse
	case errors.Is(err, extract.ErrProtocol):
		return errorTypeProtocol
	default:
		return errorTypeOther
	}
}
