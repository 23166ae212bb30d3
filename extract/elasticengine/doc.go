// Package elasticengine implements the extraction engine against an
// Elasticsearch-style HTTP search API.
//
// The engine turns an extract.Plan into a sequence of search requests: it opens
// a point-in-time snapshot when the plan needs a consistent multi-page read,
// runs a one-time reverse probe to seat the cursor for anchor-relative modes,
// then paginates forward batch by batch via search_after, emitting each
// document body as one line of output. In follow mode the loop polls
// indefinitely, refreshing the snapshot every cycle.
//
// Key guarantees:
//   - Forward pagination under a snapshot uses a compound sort (time ascending,
//     per-shard sequence ascending), so the cursor is a total order and no
//     document is skipped or duplicated across page boundaries.
//   - The snapshot handle is released on every exit path, including context
//     cancellation, with exactly one close per open.
//   - No request is retried; any transport failure aborts the run.
//
// Usage examples:
//
//	// Basic usage
//	engine, _ := elasticengine.NewExtractor(
//		elasticengine.Endpoint{URL: "http://localhost:9200"},
//		"app-logs",
//	)
//
//	// With operational logging and a custom batch cap
//	engine, _ := elasticengine.NewExtractor(
//		endpoint,
//		"app-logs",
//		elasticengine.WithLogger(logger),
//		elasticengine.WithBatchCap(500),
//	)
//
//	plan, _ := extract.ResolvePlan(extract.Options{Follow: true, Lines: 10})
//	err := engine.Run(ctx, plan)
package elasticengine
