package elasticengine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esqproject/esq/extract"
	"github.com/esqproject/esq/extract/elasticengine"
)

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()

	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &decoded))

	return decoded
}

func Test_SearchQueryBuilder_Defaults(t *testing.T) {
	body, err := elasticengine.NewSearchQueryBuilder().Build()

	require.NoError(t, err)
	decoded := decodeBody(t, body)

	assert.Equal(t, float64(1000), decoded["size"])
	require.Len(t, decoded["sort"], 1)
	assert.NotContains(t, decoded, "query")
	assert.NotContains(t, decoded, "search_after")
	assert.NotContains(t, decoded, "pit")
	assert.NotContains(t, decoded, "_source")
}

func Test_SearchQueryBuilder_TimeRange(t *testing.T) {
	tests := []struct {
		name       string
		from       string
		to         string
		expectedGt string
		expectedLt string
	}{
		{
			name:       "open_upper_bound_uses_latency_buffer",
			from:       "2024-01-01",
			to:         "",
			expectedGt: "2024-01-01T00:00:00Z",
			expectedLt: "now-1m",
		},
		{
			name:       "both_bounds_parse_to_rfc3339",
			from:       "2024-01-01 10:00:00",
			to:         "2024-01-02T12:30:00Z",
			expectedGt: "2024-01-01T10:00:00Z",
			expectedLt: "2024-01-02T12:30:00Z",
		},
		{
			name:       "lower_bound_only_absent",
			from:       "",
			to:         "2024-06-15",
			expectedGt: "",
			expectedLt: "2024-06-15T00:00:00Z",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, err := elasticengine.NewSearchQueryBuilder().
				WithTimeRange(tc.from, tc.to, "1m").
				Build()

			require.NoError(t, err)
			decoded := decodeBody(t, body)

			rangeClause, ok := decoded["query"].(map[string]any)["range"].(map[string]any)["@timestamp"].(map[string]any)
			require.True(t, ok)

			if tc.expectedGt == "" {
				assert.NotContains(t, rangeClause, "gte")
			} else {
				assert.Equal(t, tc.expectedGt, rangeClause["gte"])
			}
			assert.Equal(t, tc.expectedLt, rangeClause["lt"])
		})
	}
}

func Test_SearchQueryBuilder_UnparseableDateFailsBuild(t *testing.T) {
	_, err := elasticengine.NewSearchQueryBuilder().
		WithTimeRange("not a date", "", "1m").
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrDateParse)
}

func Test_SearchQueryBuilder_MatchClause(t *testing.T) {
	tests := []struct {
		name     string
		filters  extract.WhereFilters
		validate func(t *testing.T, decoded map[string]any)
	}{
		{
			name:    "nil_filters_add_no_clause",
			filters: nil,
			validate: func(t *testing.T, decoded map[string]any) {
				assert.NotContains(t, decoded, "query")
			},
		},
		{
			name:    "empty_filters_match_everything",
			filters: extract.MatchAll(),
			validate: func(t *testing.T, decoded map[string]any) {
				query, ok := decoded["query"].(map[string]any)
				require.True(t, ok)
				assert.Contains(t, query, "match_all")
			},
		},
		{
			name:    "single_filter_is_a_plain_match",
			filters: extract.WhereFilters{extract.W("level", "error")},
			validate: func(t *testing.T, decoded map[string]any) {
				match, ok := decoded["query"].(map[string]any)["match"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "error", match["level"])
			},
		},
		{
			name: "multiple_filters_combine_with_and",
			filters: extract.WhereFilters{
				extract.W("level", "error"),
				extract.W("service", "api"),
			},
			validate: func(t *testing.T, decoded map[string]any) {
				must, ok := decoded["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
				require.True(t, ok)
				assert.Len(t, must, 2)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, err := elasticengine.NewSearchQueryBuilder().
				WithMatch(tc.filters).
				Build()

			require.NoError(t, err)
			tc.validate(t, decodeBody(t, body))
		})
	}
}

func Test_SearchQueryBuilder_RangeAndMatchCombineWithAnd(t *testing.T) {
	body, err := elasticengine.NewSearchQueryBuilder().
		WithTimeRange("2024-01-01", "2024-01-02", "1m").
		WithMatch(extract.WhereFilters{extract.W("level", "error")}).
		Build()

	require.NoError(t, err)
	decoded := decodeBody(t, body)

	must, ok := decoded["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	require.True(t, ok)
	require.Len(t, must, 2)
	assert.Contains(t, must[0].(map[string]any), "range")
	assert.Contains(t, must[1].(map[string]any), "match")
}

func Test_SearchQueryBuilder_SourceProjection(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		validate func(t *testing.T, decoded map[string]any)
	}{
		{
			name:   "nil_fields_keep_full_body",
			fields: nil,
			validate: func(t *testing.T, decoded map[string]any) {
				assert.NotContains(t, decoded, "_source")
			},
		},
		{
			name:   "empty_fields_suppress_the_body",
			fields: []string{},
			validate: func(t *testing.T, decoded map[string]any) {
				assert.Equal(t, false, decoded["_source"])
			},
		},
		{
			name:   "explicit_fields_restrict_the_body",
			fields: []string{"message", "level"},
			validate: func(t *testing.T, decoded map[string]any) {
				assert.Equal(t, []any{"message", "level"}, decoded["_source"])
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, err := elasticengine.NewSearchQueryBuilder().
				WithSourceFields(tc.fields).
				Build()

			require.NoError(t, err)
			tc.validate(t, decodeBody(t, body))
		})
	}
}

func Test_SearchQueryBuilder_CursorAndSnapshot(t *testing.T) {
	cursor := json.RawMessage(`[1704067200000,42]`)

	body, err := elasticengine.NewSearchQueryBuilder().
		WithSize(10).
		WithSearchAfter(cursor).
		WithSnapshot("pit-id-1", "1m").
		Build()

	require.NoError(t, err)
	decoded := decodeBody(t, body)

	assert.Equal(t, float64(10), decoded["size"])
	assert.Equal(t, []any{float64(1704067200000), float64(42)}, decoded["search_after"])

	pit, ok := decoded["pit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pit-id-1", pit["id"])
	assert.Equal(t, "1m", pit["keep_alive"])
}
