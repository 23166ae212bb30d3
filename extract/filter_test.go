package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esqproject/esq/extract"
)

func Test_ParseWhereSpec_ValidSpecs(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected extract.WhereFilters
	}{
		{
			name:     "single_pair",
			spec:     "level:error",
			expected: extract.WhereFilters{extract.W("level", "error")},
		},
		{
			name: "multiple_pairs_keep_order",
			spec: "a:1,b:2",
			expected: extract.WhereFilters{
				extract.W("a", "1"),
				extract.W("b", "2"),
			},
		},
		{
			name: "pairs_are_trimmed",
			spec: " level : error , service : api ",
			expected: extract.WhereFilters{
				extract.W("level", "error"),
				extract.W("service", "api"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filters, err := extract.ParseWhereSpec(tc.spec)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, filters)
		})
	}
}

func Test_ParseWhereSpec_InvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{name: "empty_spec", spec: ""},
		{name: "pair_without_value", spec: "a:1,bad"},
		{name: "pair_with_empty_value", spec: "a:"},
		{name: "pair_with_empty_field", spec: ":1"},
		{name: "pair_with_extra_colon", spec: "a:1:2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filters, err := extract.ParseWhereSpec(tc.spec)

			require.Error(t, err)
			assert.ErrorIs(t, err, extract.ErrValidation)
			assert.Nil(t, filters)
		})
	}
}

func Test_ParseSelectSpec(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		expected  []string
		expectErr bool
	}{
		{name: "single_field", spec: "message", expected: []string{"message"}},
		{name: "fields_are_trimmed", spec: "f1, f2 ,f3", expected: []string{"f1", "f2", "f3"}},
		{name: "empty_entries_are_dropped", spec: "f1,,f2", expected: []string{"f1", "f2"}},
		{name: "empty_spec_fails", spec: "", expectErr: true},
		{name: "only_separators_fails", spec: " , , ", expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields, err := extract.ParseSelectSpec(tc.spec)

			if tc.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, extract.ErrValidation)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, fields)
		})
	}
}
