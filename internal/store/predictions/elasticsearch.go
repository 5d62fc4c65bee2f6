// Package predictions stores prediction history in Elasticsearch.
package predictions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"medcost-service/internal/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Mapping is the index mapping for prediction records. Payload objects are
// stored but not indexed.
const Mapping = `{
  "mappings": {
    "properties": {
      "user_email":             {"type": "keyword"},
      "prediction":             {"type": "double"},
      "prediction_inr":         {"type": "double"},
      "timestamp":              {"type": "date"},
      "input_data":             {"type": "object", "enabled": false},
      "cost_explanation":       {"type": "object", "enabled": false},
      "individual_predictions": {"type": "object", "enabled": false}
    }
  }
}`

type Store struct {
	client *elasticsearch.Client
	index  string
	now    func() time.Time
}

var _ models.PredictionRepository = (*Store)(nil)

func NewStore(client *elasticsearch.Client, index string) *Store {
	return &Store{client: client, index: index, now: time.Now}
}

func (s *Store) Index() string {
	return s.index
}

// ClampLimit bounds a requested page size to [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Save indexes record and returns its id. ID and Timestamp are filled in
// when empty.
func (s *Store) Save(ctx context.Context, record *models.PredictionRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now().UTC()
	}

	doc := *record
	doc.ID = ""
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode prediction: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return "", fmt.Errorf("index prediction: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("index prediction: %s", res.String())
	}
	return record.ID, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                  `json:"_id"`
			Source models.PredictionRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// ListByUser returns email's predictions, newest first.
func (s *Store) ListByUser(ctx context.Context, email string, limit int) ([]models.PredictionRecord, error) {
	size := ClampLimit(limit)
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"user_email": email}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"timestamp": map[string]interface{}{"order": "desc"}},
		},
	}
	body, _ := json.Marshal(query)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search predictions: %w", err)
	}
	defer res.Body.Close()

	// A user with no history yet may query before the first save created the index.
	if res.StatusCode == 404 {
		return []models.PredictionRecord{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search predictions: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.PredictionRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		rec := hit.Source
		rec.ID = hit.ID
		out = append(out, rec)
	}
	return out, nil
}
