package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/esqproject/esq/extract"
)

const contentTypeJSON = "application/json"

// Client is a thin, synchronous HTTP adapter for the search service.
// It owns no state beyond the endpoint and the underlying http.Client.
type Client struct {
	httpClient *http.Client
	endpoint   Endpoint
}

// NewClient creates a Client for the given endpoint. A nil httpClient falls
// back to a plain http.Client.
func NewClient(endpoint Endpoint, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
	}
}

// Search posts the given request body to the search API. An empty collection
// targets the cluster-level _search endpoint, which is required when the body
// carries a snapshot reference.
func (c *Client) Search(ctx context.Context, collection string, body []byte) (*SearchResponse, error) {
	path := "/_search"
	if collection != "" {
		path = "/" + url.PathEscape(collection) + "/_search"
	}

	respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	response := &SearchResponse{}
	if decodeErr := jsoniter.Unmarshal(respBody, response); decodeErr != nil {
		return nil, errors.Join(extract.ErrParse, decodeErr)
	}

	return response, nil
}

// OpenPIT opens a point-in-time handle on the given collection and returns its
// opaque id. A well-formed response without an id is a protocol error.
func (c *Client) OpenPIT(ctx context.Context, collection string, keepAlive string) (string, error) {
	path := fmt.Sprintf("/%s/_pit?keep_alive=%s", url.PathEscape(collection), url.QueryEscape(keepAlive))

	respBody, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return "", err
	}

	response := pitResponse{}
	if decodeErr := jsoniter.Unmarshal(respBody, &response); decodeErr != nil {
		return "", errors.Join(extract.ErrParse, decodeErr)
	}

	if response.ID == "" {
		return "", extract.ErrMissingSnapshotID
	}

	return response.ID, nil
}

// ClosePIT releases a point-in-time handle.
func (c *Client) ClosePIT(ctx context.Context, id string) error {
	body, marshalErr := jsoniter.Marshal(map[string]string{"id": id})
	if marshalErr != nil {
		return errors.Join(extract.ErrParse, marshalErr)
	}

	_, err := c.do(ctx, http.MethodDelete, "/_pit", body)

	return err
}

// CatIndices lists the indices of the cluster.
func (c *Client) CatIndices(ctx context.Context) ([]IndexInfo, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/_cat/indices?format=json", nil)
	if err != nil {
		return nil, err
	}

	var indices []IndexInfo
	if decodeErr := jsoniter.Unmarshal(respBody, &indices); decodeErr != nil {
		return nil, errors.Join(extract.ErrParse, decodeErr)
	}

	return indices, nil
}

// ListAliases returns every alias of the cluster as flat alias/index pairs,
// sorted by alias name for deterministic output.
func (c *Client) ListAliases(ctx context.Context) ([]AliasEntry, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/_alias", nil)
	if err != nil {
		return nil, err
	}

	var byIndex map[string]aliasIndexEntry
	if decodeErr := jsoniter.Unmarshal(respBody, &byIndex); decodeErr != nil {
		return nil, errors.Join(extract.ErrParse, decodeErr)
	}

	entries := make([]AliasEntry, 0)
	for index, entry := range byIndex {
		for alias := range entry.Aliases {
			entries = append(entries, AliasEntry{Alias: alias, Index: index})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Alias != entries[j].Alias {
			return entries[i].Alias < entries[j].Alias
		}
		return entries[i].Index < entries[j].Index
	})

	return entries, nil
}

// AddAlias points an alias at an index via the _aliases actions API.
func (c *Client) AddAlias(ctx context.Context, alias string, index string) error {
	return c.updateAliases(ctx, "add", alias, index)
}

// RemoveAlias removes an alias from an index via the _aliases actions API.
func (c *Client) RemoveAlias(ctx context.Context, alias string, index string) error {
	return c.updateAliases(ctx, "remove", alias, index)
}

func (c *Client) updateAliases(ctx context.Context, action string, alias string, index string) error {
	body, marshalErr := jsoniter.Marshal(map[string]any{
		"actions": []map[string]any{
			{action: map[string]string{"index": index, "alias": alias}},
		},
	})
	if marshalErr != nil {
		return errors.Join(extract.ErrParse, marshalErr)
	}

	_, err := c.do(ctx, http.MethodPost, "/_aliases", body)

	return err
}

// Ping probes the endpoint with a _cat request. It reports false for a
// non-success status (typically missing or bad credentials) and errors when
// the endpoint does not look like a search service at all.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	req, buildErr := c.buildRequest(ctx, http.MethodGet, "/_cat", nil)
	if buildErr != nil {
		return false, buildErr
	}

	resp, sendErr := c.httpClient.Do(req)
	if sendErr != nil {
		return false, errors.Join(extract.ErrNetwork, sendErr)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, nil
	}

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return false, errors.Join(extract.ErrNetwork, readErr)
	}

	if !strings.Contains(string(respBody), "/_cat/") {
		return false, fmt.Errorf("%w: the server does not appear to be a search service", extract.ErrConfig)
	}

	return true, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body []byte) ([]byte, error) {
	req, buildErr := c.buildRequest(ctx, method, path, body)
	if buildErr != nil {
		return nil, buildErr
	}

	resp, sendErr := c.httpClient.Do(req)
	if sendErr != nil {
		return nil, errors.Join(extract.ErrNetwork, sendErr)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, errors.Join(extract.ErrNetwork, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s answered status %d", extract.ErrNetwork, method, path, resp.StatusCode)
	}

	return respBody, nil
}

func (c *Client) buildRequest(ctx context.Context, method string, path string, body []byte) (*http.Request, error) {
	requestURL := strings.TrimRight(c.endpoint.URL, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, buildErr := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if buildErr != nil {
		return nil, errors.Join(extract.ErrNetwork, buildErr)
	}

	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	if c.endpoint.Username != "" && c.endpoint.Password != "" {
		req.SetBasicAuth(c.endpoint.Username, c.endpoint.Password)
	}

	return req, nil
}
