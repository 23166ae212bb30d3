package extract

import (
	"errors"
	"fmt"
)

// Category sentinels for the extraction error taxonomy. Failure sites attach the
// concrete cause with errors.Join or fmt.Errorf("%w: ..."), so callers can classify
// with errors.Is while still seeing a human-readable message.
var (
	// ErrValidation is returned for bad parameter combinations or malformed
	// filter/selection specs. Always raised before any network call.
	ErrValidation = errors.New("validation error")

	// ErrConfig is returned when no usable configuration or credentials are available.
	ErrConfig = errors.New("configuration error")

	// ErrDateParse is returned when an anchor/from/to string cannot be parsed.
	ErrDateParse = errors.New("date parse error")

	// ErrNetwork is returned for transport failures and non-success HTTP statuses.
	ErrNetwork = errors.New("network error")

	// ErrParse is returned when a response body cannot be decoded.
	ErrParse = errors.New("response parse error")

	// ErrProtocol is returned when the search service answers with a well-formed
	// but semantically invalid response, e.g. an open-snapshot reply without an id.
	ErrProtocol = errors.New("search service protocol error")
)

var ErrEmptyEndpointURL = errors.New("empty endpoint url supplied")
var ErrEmptyIndexName = errors.New("empty index name supplied")
var ErrZeroBatchCap = errors.New("batch cap must be positive")
var ErrEmptyLatencyBuffer = errors.New("empty ingestion-latency buffer supplied")
var ErrMissingSnapshotID = fmt.Errorf("%w: open-snapshot response contains no id", ErrProtocol)
