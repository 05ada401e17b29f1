package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/shopspring/decimal"
)

// Elastic indexes and queries listing documents. Documents are keyed by
// slug so repeated index writes for the same variant overwrite in place.
type Elastic struct {
	client *elasticsearch.Client
	index  string
}

// NewElastic creates the search client and verifies connectivity.
func NewElastic(addresses []string, index string) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch ping failed: %s", res.String())
	}

	return &Elastic{client: client, index: index}, nil
}

// Index upserts one listing document.
func (e *Elastic) Index(ctx context.Context, doc models.ListingDocument) error {
	start := time.Now()
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal listing document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: doc.Slug,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		util.IndexFailuresTotal.Inc()
		return fmt.Errorf("failed to index listing %s: %w", doc.Slug, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		util.IndexFailuresTotal.Inc()
		return fmt.Errorf("failed to index listing %s: %s", doc.Slug, res.String())
	}

	util.IndexWritesTotal.Inc()
	util.SearchLatency.WithLabelValues("index").Observe(time.Since(start).Seconds())
	return nil
}

// Delete removes one listing document. Missing documents are fine:
// delete is idempotent.
func (e *Elastic) Delete(ctx context.Context, slug string) error {
	req := esapi.DeleteRequest{Index: e.index, DocumentID: slug}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		util.IndexFailuresTotal.Inc()
		return fmt.Errorf("failed to delete listing %s: %w", slug, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		util.IndexFailuresTotal.Inc()
		return fmt.Errorf("failed to delete listing %s: %s", slug, res.String())
	}
	return nil
}

// Search runs a full-text query over name, description and color.
func (e *Elastic) Search(ctx context.Context, query string, page, limit int) (models.PageResult, error) {
	start := time.Now()

	esQuery := map[string]interface{}{
		"from": (page - 1) * limit,
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^3", "web_description", "color_key"},
				"fuzziness": "AUTO",
			},
		},
	}

	hits, total, err := e.search(ctx, esQuery)
	if err != nil {
		return models.PageResult{}, err
	}

	items := make([]models.ListingSummary, 0, len(hits))
	for _, doc := range hits {
		items = append(items, summaryFromDocument(doc))
	}

	util.SearchLatency.WithLabelValues("search").Observe(time.Since(start).Seconds())
	return models.PageResult{
		Items:   items,
		Total:   total,
		Page:    page,
		HasMore: int64(page*limit) < total,
	}, nil
}

// Autocomplete returns distinct listing names matching a prefix.
func (e *Elastic) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	start := time.Now()

	esQuery := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"match_phrase_prefix": map[string]interface{}{
				"name": prefix,
			},
		},
		"_source": []string{"name"},
	}

	hits, _, err := e.search(ctx, esQuery)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(hits))
	names := make([]string, 0, len(hits))
	for _, doc := range hits {
		if _, ok := seen[doc.Name]; ok {
			continue
		}
		seen[doc.Name] = struct{}{}
		names = append(names, doc.Name)
	}

	util.SearchLatency.WithLabelValues("autocomplete").Observe(time.Since(start).Seconds())
	return names, nil
}

func (e *Elastic) search(ctx context.Context, query map[string]interface{}) ([]models.ListingDocument, int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, 0, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("search request failed: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.ListingDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]models.ListingDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, parsed.Hits.Total.Value, nil
}

func summaryFromDocument(doc models.ListingDocument) models.ListingSummary {
	summary := models.ListingSummary{
		ID:             doc.VariantID,
		Slug:           doc.Slug,
		Name:           doc.Name,
		ColorKey:       doc.ColorKey,
		WebDescription: doc.WebDescription,
		Images:         doc.Images,
		TotalStock:     doc.TotalStock,
		TopSelling:     doc.TopSelling,
	}
	if summary.Images == nil {
		summary.Images = []string{}
	}
	if doc.PriceStart != nil {
		d := decimal.NewFromFloat(*doc.PriceStart)
		summary.PriceStart = &d
	}
	if doc.PriceEnd != nil {
		d := decimal.NewFromFloat(*doc.PriceEnd)
		summary.PriceEnd = &d
	}
	return summary
}
