package elasticengine

import (
	"context"
)

// Administrative calls used by the surrounding CLI. These are plain
// request/response operations with none of the pagination machinery.

// ListIndices lists the indices of the cluster.
func (e Extractor) ListIndices(ctx context.Context) ([]IndexInfo, error) {
	return e.client.CatIndices(ctx)
}

// ListAliases lists every alias of the cluster as alias/index pairs.
func (e Extractor) ListAliases(ctx context.Context) ([]AliasEntry, error) {
	return e.client.ListAliases(ctx)
}

// AddAlias points an alias at an index.
func (e Extractor) AddAlias(ctx context.Context, alias string, index string) error {
	return e.client.AddAlias(ctx, alias, index)
}

// RemoveAlias removes an alias from an index.
func (e Extractor) RemoveAlias(ctx context.Context, alias string, index string) error {
	return e.client.RemoveAlias(ctx, alias, index)
}

// Ping probes the endpoint, reporting whether the configured credentials are
// accepted by something that looks like a search service.
func (e Extractor) Ping(ctx context.Context) (bool, error) {
	return e.client.Ping(ctx)
}
