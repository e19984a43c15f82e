// Package search maintains the Elasticsearch index of active job postings
// that candidates browse.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/common/logger"
	"paygo-hire/internal/models"
)

// Index wraps the jobs index. Only active jobs live here; drafts and closed
// jobs are removed so candidates never find them.
type Index struct {
	client *elasticsearch.Client
	name   string
	logger logger.Logger
}

func NewIndex(client *elasticsearch.Client, name string, log logger.Logger) *Index {
	return &Index{
		client: client,
		name:   name,
		logger: log.WithFields(map[string]interface{}{"component": "search", "index": name}),
	}
}

// jobDocument is the indexed shape of a job.
type jobDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

func (i *Index) IndexJob(ctx context.Context, job *models.Job) error {
	doc := jobDocument{
		ID:          job.ID,
		Title:       job.Title,
		Location:    job.Location,
		Salary:      job.Salary,
		Description: job.Description,
		CreatedAt:   job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal job document: %w", err)
	}

	res, err := i.client.Index(i.name, bytes.NewReader(body),
		i.client.Index.WithDocumentID(job.ID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("index job %s: %s", job.ID, res.Status()))
	}
	return nil
}

func (i *Index) RemoveJob(ctx context.Context, jobID string) error {
	res, err := i.client.Delete(i.name, jobID,
		i.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	// A 404 means the job was never indexed; removal is already done.
	if res.IsError() && res.StatusCode != 404 {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("delete job %s: %s", jobID, res.Status()))
	}
	return nil
}

// BuildSearchQuery assembles the bool query for free-text and location
// filtering. Empty arguments fall back to match_all.
func BuildSearchQuery(query, location string) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if query != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "description^2", "salary"},
				"type":   "best_fields",
			},
		})
	}
	if location != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"match": map[string]interface{}{"location": location},
		})
	}

	if len(mustClauses) == 0 && len(filterClauses) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

// Hit is one search result.
type Hit struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Location string  `json:"location"`
	Salary   string  `json:"salary"`
	Score    float64 `json:"score"`
}

// Search runs a free-text job search with an optional location filter.
func (i *Index) Search(ctx context.Context, query, location string, size int) ([]Hit, error) {
	if size <= 0 {
		size = 20
	}
	body, _ := json.Marshal(BuildSearchQuery(query, location))

	req := esapi.SearchRequest{
		Index: []string{i.name},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("search: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64     `json:"_score"`
				Source jobDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("decode response: %w", err))
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{
			ID:       h.Source.ID,
			Title:    h.Source.Title,
			Location: h.Source.Location,
			Salary:   h.Source.Salary,
			Score:    h.Score,
		})
	}
	i.logger.Debug("job search executed", map[string]interface{}{
		"query":    query,
		"location": location,
		"hits":     len(hits),
	})
	return hits, nil
}
