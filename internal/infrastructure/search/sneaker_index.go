package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// SneakerIndex keeps a searchable copy of the catalog in Elasticsearch.
type SneakerIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewSneakerIndex(es *elasticsearch.Client, index string) *SneakerIndex {
	return &SneakerIndex{ES: es, IndexName: index}
}

type sneakerDoc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Slug        string  `json:"slug"`
	Price       float64 `json:"price"`
	IsReady     bool    `json:"is_ready"`
	BrandID     string  `json:"brand_id"`
	CategoryID  string  `json:"category_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toDoc(s *entity.Sneaker) sneakerDoc {
	return sneakerDoc{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Slug:        s.Slug,
		Price:       s.Price,
		IsReady:     s.IsReady,
		BrandID:     s.BrandID,
		CategoryID:  s.CategoryID,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (x *SneakerIndex) Index(ctx context.Context, s *entity.Sneaker) error {
	b, err := json.Marshal(toDoc(s))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: s.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", s.ID, res.Status())
	}
	return nil
}

func (x *SneakerIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match on name (boosted), slug and description and returns hit ids.
func (x *SneakerIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	if size <= 0 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "slug^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	return decodeHitIDs(res.Body)
}
