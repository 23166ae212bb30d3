package elasticengine

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	jsoniter "github.com/json-iterator/go"

	"github.com/esqproject/esq/extract"
)

const (
	timestampField = "@timestamp"
	tiebreakField  = "_shard_doc"
	orderAsc       = "asc"
	orderDesc      = "desc"
)

// forwardSortOrder is the compound sort of all forward pagination: time
// ascending, then the per-shard sequence field ascending when a snapshot is in
// play. The tiebreaker makes the cursor a total order so no document is skipped
// or duplicated across page boundaries.
func forwardSortOrder(withTiebreak bool) []any {
	sortOrder := []any{
		map[string]any{timestampField: map[string]string{"order": orderAsc}},
	}

	if withTiebreak {
		sortOrder = append(sortOrder, map[string]any{tiebreakField: map[string]string{"order": orderAsc}})
	}

	return sortOrder
}

// reverseSortOrder is the probe sort: time descending, tiebreaker still
// ascending so the reversed window stays deterministic across shards.
func reverseSortOrder(withTiebreak bool) []any {
	sortOrder := []any{
		map[string]any{timestampField: map[string]string{"order": orderDesc}},
	}

	if withTiebreak {
		sortOrder = append(sortOrder, map[string]any{tiebreakField: map[string]string{"order": orderAsc}})
	}

	return sortOrder
}

/***** SearchQueryBuilder *****/

// SearchQueryBuilder is a pure, chainable value builder for one search request.
// Every With* call returns a modified copy; the zero-value-plus-defaults builder
// comes from NewSearchQueryBuilder. Configuration steps that can fail (time
// range parsing) record the first error, which Build surfaces instead of
// producing an invalid composite request.
type SearchQueryBuilder struct {
	sortOrder     []any
	size          uint
	sourceFields  []string
	hasProjection bool
	searchAfter   json.RawMessage
	queryRange    map[string]any
	queryMatch    map[string]any
	pitID         string
	pitKeepAlive  string
	err           error
}

// NewSearchQueryBuilder returns a builder with the default forward sort and
// the default batch size.
func NewSearchQueryBuilder() SearchQueryBuilder {
	return SearchQueryBuilder{
		sortOrder: forwardSortOrder(false),
		size:      defaultBatchCap,
	}
}

// WithSortOrder replaces the sort order.
func (b SearchQueryBuilder) WithSortOrder(sortOrder []any) SearchQueryBuilder {
	b.sortOrder = sortOrder
	return b
}

// WithSize sets the number of documents requested by this call.
func (b SearchQueryBuilder) WithSize(size uint) SearchQueryBuilder {
	b.size = size
	return b
}

// WithSourceFields sets the source projection. A nil slice leaves the full
// document body in place; a non-nil empty slice suppresses the body entirely
// (used by the anchor probe); a non-empty slice restricts the body to those fields.
func (b SearchQueryBuilder) WithSourceFields(fields []string) SearchQueryBuilder {
	if fields == nil {
		return b
	}

	b.sourceFields = fields
	b.hasProjection = true

	return b
}

// WithSearchAfter sets the pagination cursor, the raw sort-key tuple of the
// last document of the previous batch.
func (b SearchQueryBuilder) WithSearchAfter(cursor json.RawMessage) SearchQueryBuilder {
	b.searchAfter = cursor
	return b
}

// WithMatch sets the match clause built from the given equality filters.
// A nil slice adds no clause; an empty non-nil slice is the explicit
// match-everything clause.
func (b SearchQueryBuilder) WithMatch(filters extract.WhereFilters) SearchQueryBuilder {
	if filters == nil {
		return b
	}

	b.queryMatch = matchClause(filters)

	return b
}

// WithTimeRange sets the half-open time range clause [from, to). Both bounds
// are parsed best-effort from human-readable date strings; an unparseable
// bound fails the builder. When to is empty the effective upper bound is
// "now minus latency", compensating for ingestion delay so live reads do not
// race just-indexed documents.
func (b SearchQueryBuilder) WithTimeRange(from string, to string, latency string) SearchQueryBuilder {
	if b.err != nil {
		return b
	}

	bounds := map[string]any{}

	if from != "" {
		fromTime, parseErr := dateparse.ParseAny(from)
		if parseErr != nil {
			b.err = fmt.Errorf("%w: invalid from date: %s", extract.ErrDateParse, from)
			return b
		}
		bounds["gte"] = fromTime.Format(time.RFC3339)
	}

	if to != "" {
		toTime, parseErr := dateparse.ParseAny(to)
		if parseErr != nil {
			b.err = fmt.Errorf("%w: invalid to date: %s", extract.ErrDateParse, to)
			return b
		}
		bounds["lt"] = toTime.Format(time.RFC3339)
	} else {
		bounds["lt"] = "now-" + latency
	}

	b.queryRange = map[string]any{
		"range": map[string]any{timestampField: bounds},
	}

	return b
}

// WithSnapshot attaches the point-in-time reference to the request.
func (b SearchQueryBuilder) WithSnapshot(id string, keepAlive string) SearchQueryBuilder {
	b.pitID = id
	b.pitKeepAlive = keepAlive

	return b
}

// Build composes the request document and encodes it to JSON. A time range and
// a match clause combine as a logical AND; one alone is used directly; neither
// emits no filter clause at all.
func (b SearchQueryBuilder) Build() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}

	request := map[string]any{
		"sort": b.sortOrder,
		"size": b.size,
	}

	if b.hasProjection {
		if len(b.sourceFields) == 0 {
			request["_source"] = false
		} else {
			request["_source"] = b.sourceFields
		}
	}

	if b.searchAfter != nil {
		request["search_after"] = b.searchAfter
	}

	if b.pitID != "" {
		request["pit"] = map[string]string{"id": b.pitID, "keep_alive": b.pitKeepAlive}
	}

	switch {
	case b.queryRange != nil && b.queryMatch != nil:
		request["query"] = map[string]any{
			"bool": map[string]any{"must": []any{b.queryRange, b.queryMatch}},
		}
	case b.queryRange != nil:
		request["query"] = b.queryRange
	case b.queryMatch != nil:
		request["query"] = b.queryMatch
	}

	body, marshalErr := jsoniter.Marshal(request)
	if marshalErr != nil {
		return nil, errors.Join(extract.ErrParse, marshalErr)
	}

	return body, nil
}

func matchClause(filters extract.WhereFilters) map[string]any {
	switch len(filters) {
	case 0:
		return map[string]any{"match_all": map[string]any{}}

	case 1:
		return map[string]any{
			"match": map[string]any{filters[0].Field(): filters[0].Value()},
		}

	default:
		must := make([]any, 0, len(filters))
		for _, filter := range filters {
			must = append(must, map[string]any{
				"match": map[string]any{filter.Field(): filter.Value()},
			})
		}

		return map[string]any{"bool": map[string]any{"must": must}}
	}
}
