package extract

import (
	"fmt"
	"strings"
)

type FilterFieldString = string
type FilterValueString = string

/***** WhereFilter *****/

// WhereFilter is a single equality filter on a document field. A list of
// WhereFilter(s) combines via logical AND into one match clause.
type WhereFilter struct {
	field FilterFieldString
	value FilterValueString
}

// W constructs a WhereFilter from a field name and a value.
func W(field FilterFieldString, value FilterValueString) WhereFilter {
	return WhereFilter{field: field, value: value}
}

func (wf WhereFilter) Field() FilterFieldString {
	return wf.field
}

func (wf WhereFilter) Value() FilterValueString {
	return wf.value
}

// WhereFilters is an alias type for a slice of WhereFilter.
//
// A nil slice means "no match clause at all"; a non-nil empty slice is the
// explicit select-all clause and yields a match-everything query.
type WhereFilters = []WhereFilter

// MatchAll returns the explicit select-all clause.
func MatchAll() WhereFilters {
	return WhereFilters{}
}

/***** spec parsing *****/

// ParseWhereSpec decomposes a comma-separated "field:value,field:value" spec into
// WhereFilters. Both sides of every pair must be non-empty after trimming; any
// malformed pair fails the whole parse, no partial filter list is returned.
func ParseWhereSpec(spec string) (WhereFilters, error) {
	if spec == "" {
		return nil, fmt.Errorf("%w: where clause cannot be empty", ErrValidation)
	}

	filters := make(WhereFilters, 0)

	for _, pair := range strings.Split(spec, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf(
				"%w: invalid where clause format, expected 'field:value', got '%s'", ErrValidation, pair)
		}

		field := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if field == "" || value == "" {
			return nil, fmt.Errorf(
				"%w: invalid where clause format, expected 'field:value', got '%s'", ErrValidation, pair)
		}

		filters = append(filters, W(field, value))
	}

	return filters, nil
}

// ParseSelectSpec decomposes a comma-separated field-name spec into a list of
// trimmed, non-empty field names. An empty spec, or a spec that is empty after
// trimming, is a validation error.
func ParseSelectSpec(spec string) ([]string, error) {
	if spec == "" {
		return nil, fmt.Errorf("%w: select clause cannot be empty", ErrValidation)
	}

	fields := make([]string, 0)

	for _, raw := range strings.Split(spec, ",") {
		field := strings.TrimSpace(raw)
		if field == "" {
			continue
		}
		fields = append(fields, field)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: select clause must contain at least one field", ErrValidation)
	}

	return fields, nil
}
