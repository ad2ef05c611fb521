package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// Index makes tracked applications full-text searchable, partitioned by
// user.
type Index struct {
	client    *elasticsearch.Client
	indexName string
	logger    zerolog.Logger
}

// applicationDoc is what gets indexed: the application plus its owner.
type applicationDoc struct {
	Username string `json:"username"`
	domain.TrackedApplication
}

// New creates the search index client
func New(addresses []string, indexName string, logger zerolog.Logger) (*Index, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	// Check connection
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	return &Index{
		client:    client,
		indexName: indexName,
		logger:    logger.With().Str("component", "search").Logger(),
	}, nil
}

// EnsureIndex creates the index with its mapping if it doesn't exist
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.indexName})
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil // Index already exists
	}

	mapping := `{
		"settings": {
			"analysis": {
				"analyzer": {
					"folded_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase", "asciifolding"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"username": {"type": "keyword"},
				"id": {"type": "keyword"},
				"job_posting_id": {"type": "keyword"},
				"company_id": {"type": "keyword"},
				"company_name": {
					"type": "text",
					"analyzer": "folded_analyzer",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"job_posting_title": {
					"type": "text",
					"analyzer": "folded_analyzer",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"job_posting_location": {"type": "text", "analyzer": "folded_analyzer"},
				"salary": {"type": "float"},
				"salary_low": {"type": "float"},
				"salary_high": {"type": "float"},
				"salary_period": {"type": "integer"},
				"tracked_date": {"type": "date", "format": "date_optional_time||epoch_millis", "ignore_malformed": true},
				"status_events": {"enabled": false},
				"coordinates": {"enabled": false}
			}
		}
	}`

	res, err = i.client.Indices.Create(
		i.indexName,
		i.client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}

// BulkIndex replaces one user's documents with a fresh application set.
// Documents removed from the tracker upstream disappear from search too.
func (i *Index) BulkIndex(ctx context.Context, username string, apps []domain.TrackedApplication) error {
	if err := i.deleteByUser(ctx, username); err != nil {
		return err
	}
	if len(apps) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for _, app := range apps {
		docID := username + ":" + app.ID
		meta := map[string]any{
			"index": map[string]any{
				"_index": i.indexName,
				"_id":    docID,
			},
		}
		metaBytes, _ := json.Marshal(meta)
		buf.Write(metaBytes)
		buf.WriteByte('\n')

		docBytes, err := json.Marshal(applicationDoc{Username: username, TrackedApplication: app})
		if err != nil {
			i.logger.Error().Err(err).Str("id", app.ID).Msg("marshal application")
			continue
		}
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := i.client.Bulk(bytes.NewReader(buf.Bytes()), i.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	// Parse response to check for individual errors
	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkRes.Errors {
		for _, item := range bulkRes.Items {
			if item.Index.Status >= 400 {
				i.logger.Error().
					Str("id", item.Index.ID).
					Str("type", item.Index.Error.Type).
					Str("reason", item.Index.Error.Reason).
					Msg("bulk index error")
			}
		}
	}

	return nil
}

func (i *Index) deleteByUser(ctx context.Context, username string) error {
	query := fmt.Sprintf(`{"query": {"term": {"username": %q}}}`, username)

	res, err := i.client.DeleteByQuery(
		[]string{i.indexName},
		bytes.NewReader([]byte(query)),
		i.client.DeleteByQuery.WithContext(ctx),
		i.client.DeleteByQuery.WithConflicts("proceed"),
	)
	if err != nil {
		return fmt.Errorf("delete by query: %w", err)
	}
	defer res.Body.Close()

	// 404 means the index doesn't exist yet; the bulk call will create it.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete by query error: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy full-text query over one user's applications.
func (i *Index) Search(ctx context.Context, username, query string, size int) ([]domain.TrackedApplication, error) {
	if size <= 0 {
		size = 50
	}

	body := map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"username": username}},
				},
				"must": []any{
					map[string]any{
						"multi_match": map[string]any{
							"query":     query,
							"fields":    []string{"company_name^2", "job_posting_title^3", "job_posting_location"},
							"fuzziness": "AUTO",
						},
					},
				},
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.indexName),
		i.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.Status())
	}

	var searchRes struct {
		Hits struct {
			Hits []struct {
				Source applicationDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchRes); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	apps := make([]domain.TrackedApplication, 0, len(searchRes.Hits.Hits))
	for _, hit := range searchRes.Hits.Hits {
		apps = append(apps, hit.Source.TrackedApplication)
	}
	return apps, nil
}
