package elasticengine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/esqproject/esq/extract"
	"github.com/esqproject/esq/extract/elasticengine/internal/transport"
)

const (
	defaultBatchCap     uint = 1000
	defaultPollInterval      = time.Second
	defaultLatency           = "1m"
	defaultKeepAlive         = "1m"

	snapshotCloseTimeout = 5 * time.Second

	logMsgRunStarted          = "extraction run started"
	logMsgRunCompleted        = "extraction run completed"
	logMsgBatchCompleted      = "batch completed"
	logMsgProbeCompleted      = "anchor probe completed"
	logMsgProbeFailed         = "anchor probe failed, starting without a cursor"
	logMsgSearchFailed        = "search request failed"
	logMsgBuildRequestFailed  = "failed to build search request"
	logMsgSnapshotOpened      = "snapshot opened"
	logMsgSnapshotClosed      = "snapshot closed"
	logMsgSnapshotCloseFailed = "failed to close snapshot"
	logMsgSearchExecuted      = "executed search for: "
	logMsgOperation           = "extraction operation: "

	logAttrError      = "error"
	logAttrRequest    = "request"
	logAttrHitCount   = "hit_count"
	logAttrDurationMS = "duration_ms"
	logAttrMode       = "mode"
	logAttrSnapshotID = "snapshot_id"

	logActionSearch = "search"
	logActionProbe  = "probe"
)

// Endpoint identifies the search service, with optional basic-auth credentials.
type Endpoint = transport.Endpoint

// IndexInfo is one row of an index listing.
type IndexInfo = transport.IndexInfo

// AliasEntry maps one alias name to the index it points at.
type AliasEntry = transport.AliasEntry

// Extractor drives time-windowed, cursor-paginated extraction runs against one
// Elasticsearch-style endpoint. It is configured once and safe to reuse for
// sequential runs; a run never shares its snapshot handle with anything else.
type Extractor struct {
	client           *transport.Client
	httpClient       *http.Client
	index            string
	out              io.Writer
	logger           extract.Logger
	contextualLogger extract.ContextualLogger
	metricsCollector extract.MetricsCollector
	tracingCollector extract.TracingCollector
	batchCap         uint
	pollInterval     time.Duration
	latency          string
	keepAlive        string
}

// NewExtractor creates an Extractor for the given endpoint and target index or
// alias, with optional configuration. The index may be empty for clients that
// only use the administrative calls; Run rejects it.
func NewExtractor(endpoint Endpoint, index string, options ...Option) (Extractor, error) {
	if endpoint.URL == "" {
		return Extractor{}, extract.ErrEmptyEndpointURL
	}

	e := Extractor{
		index:        index,
		out:          os.Stdout,
		batchCap:     defaultBatchCap,
		pollInterval: defaultPollInterval,
		latency:      defaultLatency,
		keepAlive:    defaultKeepAlive,
	}

	for _, option := range options {
		if err := option(&e); err != nil {
			return Extractor{}, err
		}
	}

	e.client = transport.NewClient(endpoint, e.httpClient)

	return e, nil
}

// pageState is the explicit loop state of the batch paginator, threaded through
// each iteration as a value so single iterations stay deterministic and testable.
type pageState struct {
	cursor    json.RawMessage
	remaining extract.DocumentBudgetUint
}

// Run executes one extraction according to the plan: it opens a snapshot when
// the plan requires one (and guarantees its release on every exit path), seeks
// the starting cursor for anchor-relative modes, then drives the batch loop,
// emitting every retrieved document to the output, one per line.
//
// In follow mode the loop polls indefinitely, refreshing the snapshot each
// cycle, until the context is canceled or a request fails. No request is
// retried; a transport failure aborts the run.
func (e Extractor) Run(ctx context.Context, plan extract.Plan) error {
	if e.index == "" {
		return extract.ErrEmptyIndexName
	}

	e.logOperation(ctx, logMsgRunStarted, logAttrMode, plan.Mode().String())

	session := e.newPITSession()
	if plan.NeedsSnapshot() {
		if openErr := session.Open(ctx); openErr != nil {
			return openErr
		}
	}
	defer e.releaseSession(ctx, session)

	state := pageState{
		cursor:    e.seekStartCursor(ctx, plan, session),
		remaining: plan.Budget(),
	}

	for {
		next, done, batchErr := e.runBatch(ctx, plan, session, state)
		if batchErr != nil {
			return batchErr
		}
		if done {
			e.logOperation(ctx, logMsgRunCompleted, logAttrMode, plan.Mode().String())
			return nil
		}

		state = next

		if plan.PollBetweenBatches() {
			if refreshErr := session.Refresh(ctx); refreshErr != nil {
				return refreshErr
			}
			if sleepErr := e.sleepBetweenBatches(ctx); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

// runBatch performs one iteration of the pagination loop and returns the next
// loop state plus whether the run is finished.
func (e Extractor) runBatch(
	ctx context.Context,
	plan extract.Plan,
	session *pitSession,
	state pageState,
) (pageState, bool, error) {

	body, buildErr := e.buildBatchRequest(plan, session, state)
	if buildErr != nil {
		e.logError(ctx, logMsgBuildRequestFailed, buildErr)
		return state, false, buildErr
	}

	response, searchErr := e.executeSearch(ctx, session, body, logActionSearch)
	if searchErr != nil {
		return state, false, searchErr
	}

	hits := response.Hits.Hits

	if len(hits) == 0 && !plan.PollBetweenBatches() {
		return state, true, nil
	}

	if emitErr := e.emitHits(hits); emitErr != nil {
		return state, false, emitErr
	}

	next := state
	if len(hits) > 0 {
		next.cursor = hits[len(hits)-1].Sort
	}

	e.logOperation(ctx, logMsgBatchCompleted, logAttrHitCount, len(hits))
	e.recordDocumentsEmitted(ctx, len(hits))

	if next.remaining != extract.UnboundedBudget {
		if uint(len(hits)) >= next.remaining {
			next.remaining = 0
		} else {
			next.remaining -= uint(len(hits))
		}

		if next.remaining == 0 {
			return next, true, nil
		}
	}

	return next, false, nil
}

// buildBatchRequest assembles the forward-sorted request of one batch. The
// request is built fresh each iteration so that the server-evaluated
// "now minus latency" upper bound moves with the live edge while polling.
func (e Extractor) buildBatchRequest(plan extract.Plan, session *pitSession, state pageState) ([]byte, error) {
	size := e.batchCap
	if state.remaining != extract.UnboundedBudget {
		size = min(state.remaining, e.batchCap)
	}

	builder := NewSearchQueryBuilder().
		WithSortOrder(forwardSortOrder(plan.SortWithTiebreak())).
		WithSize(size).
		WithSourceFields(plan.SelectFields()).
		WithMatch(plan.WhereFilters()).
		WithTimeRange(plan.TimeFrom(), plan.TimeTo(), e.latency)

	if state.cursor != nil {
		builder = builder.WithSearchAfter(state.cursor)
	}

	if session.IsOpen() {
		builder = builder.WithSnapshot(session.ID(), e.keepAlive)
	}

	return builder.Build()
}

// executeSearch sends one search request, with timing, tracing and metrics.
// Requests carrying a snapshot reference go to the cluster-level search path.
func (e Extractor) executeSearch(
	ctx context.Context,
	session *pitSession,
	body []byte,
	action string,
) (*transport.SearchResponse, error) {

	collection := e.index
	if session.IsOpen() {
		collection = ""
	}

	spanCtx, span := e.startSearchSpan(ctx, action)

	start := time.Now()
	response, searchErr := e.client.Search(spanCtx, collection, body)
	duration := time.Since(start)

	e.logSearchWithDuration(ctx, body, action, duration)

	if searchErr != nil {
		e.logError(ctx, logMsgSearchFailed, searchErr)
		e.recordErrorMetrics(ctx, action, errorTypeOf(searchErr))
		e.finishSearchSpanError(span, errorTypeOf(searchErr), duration)

		return nil, searchErr
	}

	e.recordSearchDuration(ctx, action, duration)
	e.finishSearchSpanSuccess(span, len(response.Hits.Hits), duration)

	return response, nil
}

// emitHits writes each hit's document body as one line, in retrieval order.
func (e Extractor) emitHits(hits []transport.Hit) error {
	for _, hit := range hits {
		if _, writeErr := fmt.Fprintf(e.out, "%s\n", hit.Source); writeErr != nil {
			return fmt.Errorf("failed to write document to output: %w", writeErr)
		}
	}

	return nil
}

// releaseSession closes the snapshot handle regardless of how the run ended.
// It runs on a context that survives cancellation of the run context, so an
// interrupted run still releases its handle; failures are diagnostics, never
// run errors.
func (e Extractor) releaseSession(ctx context.Context, session *pitSession) {
	if !session.IsOpen() {
		return
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotCloseTimeout)
	defer cancel()

	if closeErr := session.Close(closeCtx); closeErr != nil {
		e.logWarn(closeCtx, logMsgSnapshotCloseFailed, logAttrError, closeErr.Error())
	}
}

// sleepBetweenBatches blocks for the poll interval or until the context is done.
func (e Extractor) sleepBetweenBatches(ctx context.Context) error {
	timer := time.NewTimer(e.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
