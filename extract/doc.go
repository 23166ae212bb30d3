// Package extract provides the core abstractions for time-windowed, cursor-paginated
// document extraction from a remote search store.
//
// This package defines the types and pure logic shared by engine implementations:
// resolving raw command parameters into an extraction Plan, parsing selection and
// filter specs, the error taxonomy, and the dependency-free observability contracts.
//
// A Plan captures everything an engine needs to drive one extraction run:
//   - the retrieval mode (around a point in time, up to one, from one, a full
//     range, a live tail, or the plain recent tail)
//   - whether a consistent read snapshot is required for multi-page pagination
//   - the total document budget, which may be unbounded
//   - the anchor probe parameters for modes that seek relative to a point in time
//
// Common usage pattern:
//
//	where := "level:ERROR"
//	plan, err := extract.ResolvePlan(extract.Options{
//		To:    "2024-01-01 12:00",
//		Lines: 100,
//		Where: &where,
//	})
//	if err != nil {
//		// handle validation error
//	}
//
//	err = engine.Run(ctx, plan)
package extract
