package transport

import (
	"encoding/json"
)

// Endpoint identifies the search service one client talks to.
// Username and Password may be empty for unauthenticated endpoints.
type Endpoint struct {
	URL      string
	Username string
	Password string
}

// Hit is one document returned by a search call. Source is the raw document
// body (absent when the request suppressed it), Sort is the raw sort-key tuple
// used as the pagination cursor.
type Hit struct {
	Source json.RawMessage `json:"_source"`
	Sort   json.RawMessage `json:"sort"`
}

// SearchHits is the inner hits container of a search response.
type SearchHits struct {
	Hits []Hit `json:"hits"`
}

// SearchResponse is the decoded body of a _search call, reduced to the fields
// the extraction engine consumes.
type SearchResponse struct {
	Hits SearchHits `json:"hits"`
}

// IndexInfo is one row of a _cat/indices listing.
type IndexInfo struct {
	Health string `json:"health"`
	Status string `json:"status"`
	Index  string `json:"index"`
}

// AliasEntry maps one alias name to the index it points at.
type AliasEntry struct {
	Alias string
	Index string
}

type pitResponse struct {
	ID string `json:"id"`
}

type aliasIndexEntry struct {
	Aliases map[string]json.RawMessage `json:"aliases"`
}
