package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"catalog-assistant/internal/models"
)

const maxSearchHits = 100

// ElasticsearchProductSearch resolves product phrases against a denormalized
// product index where brand, collection and variants live on each document.
type ElasticsearchProductSearch struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchProductSearch(client *elasticsearch.Client, index string) *ElasticsearchProductSearch {
	return &ElasticsearchProductSearch{client: client, index: index}
}

type productDocument struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Brand      *models.Brand      `json:"brand"`
	Collection *models.Collection `json:"collection"`
	Variants   []models.Variant   `json:"variants"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source productDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchProductSearch) FindProductByName(ctx context.Context, phrase string) ([]models.Product, error) {
	query := map[string]interface{}{
		"size": maxSearchHits,
		"query": map[string]interface{}{
			"wildcard": map[string]interface{}{
				"name.keyword": map[string]interface{}{
					"value":            "*" + escapeWildcard(phrase) + "*",
					"case_insensitive": true,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	products := make([]models.Product, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		if doc.Variants == nil {
			doc.Variants = []models.Variant{}
		}
		products = append(products, models.Product{
			ID:         doc.ID,
			Name:       doc.Name,
			Brand:      doc.Brand,
			Collection: doc.Collection,
			Variants:   doc.Variants,
		})
	}
	return products, nil
}

func escapeWildcard(phrase string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)
	return r.Replace(phrase)
}
