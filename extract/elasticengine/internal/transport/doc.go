// Package transport implements the HTTP boundary with the search service.
//
// It speaks the Elasticsearch-style JSON API: _search, point-in-time handles,
// _cat/indices and alias management. All calls are synchronous, context-bound,
// and carry basic auth when the endpoint has credentials.
package transport
