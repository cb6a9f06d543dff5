package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/models"
)

// ElasticsearchSource reads snapshot documents stored with the region code
// as document ID.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSource(client *elasticsearch.Client, index string) *ElasticsearchSource {
	if index == "" {
		index = "market-snapshots"
	}
	return &ElasticsearchSource{client: client, index: index}
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

func (s *ElasticsearchSource) Load(ctx context.Context, region string) (*models.Snapshot, error) {
	region = NormalizeRegion(region)
	if region == "" {
		return nil, apperrors.NewSnapshotNotFoundError(region)
	}

	res, err := s.client.Get(s.index, region, s.client.Get.WithContext(ctx))
	if err != nil {
		return nil, apperrors.NewSnapshotSourceFailedError("elasticsearch", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewSnapshotNotFoundError(region)
	}
	if res.IsError() {
		return nil, apperrors.NewSnapshotSourceFailedError("elasticsearch", fmt.Errorf("get %s/%s: %s", s.index, region, res.Status()))
	}

	var doc getResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, apperrors.NewSnapshotSourceFailedError("elasticsearch", fmt.Errorf("decode response: %w", err))
	}
	if !doc.Found || len(doc.Source) == 0 {
		return nil, apperrors.NewSnapshotNotFoundError(region)
	}

	return Decode(doc.Source)
}
