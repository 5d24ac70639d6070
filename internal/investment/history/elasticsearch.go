// internal/investment/history/elasticsearch.go
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/models"
)

// DefaultIndex is used when no index name is configured.
const DefaultIndex = "property-recommendations"

// ElasticsearchIndexer indexes history documents by recommendation id.
type ElasticsearchIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchIndexer(client *elasticsearch.Client, index string) *ElasticsearchIndexer {
	if index == "" {
		index = DefaultIndex
	}
	return &ElasticsearchIndexer{client: client, index: index}
}

func (i *ElasticsearchIndexer) Index(ctx context.Context, rec models.RecommendationRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return apperrors.NewSearchIndexFailedError(i.index, err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: rec.RecommendationID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError(i.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return apperrors.NewSearchIndexFailedError(i.index, fmt.Errorf("%s: %s", res.Status(), msg))
	}
	return nil
}
