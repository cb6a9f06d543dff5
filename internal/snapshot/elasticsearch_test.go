package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobmarket-workers/internal/common/errors"
)

type fakeTransport struct {
	status int
	body   []byte
	err    error
	path   string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.path = req.URL.Path
	if f.err != nil {
		return nil, f.err
	}
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: f.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(f.body)),
		Request:    req,
	}, nil
}

func newESSource(t *testing.T, transport *fakeTransport) *ElasticsearchSource {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  []string{"http://localhost:9200"},
		Transport:  transport,
		MaxRetries: 1,
	})
	require.NoError(t, err)
	return NewElasticsearchSource(client, "market-snapshots")
}

func TestElasticsearchSource_Load(t *testing.T) {
	body := append([]byte(`{"_index":"market-snapshots","_id":"uk","found":true,"_source":`), fixture(t, "uk")...)
	body = append(body, '}')
	transport := &fakeTransport{status: http.StatusOK, body: body}

	snap, err := newESSource(t, transport).Load(context.Background(), "UK")
	require.NoError(t, err)
	assert.Equal(t, "GBP", snap.Summary.Currency)
	assert.Equal(t, "/market-snapshots/_doc/uk", transport.path)
}

func TestElasticsearchSource_NotFound(t *testing.T) {
	transport := &fakeTransport{status: http.StatusNotFound, body: []byte(`{"_index":"market-snapshots","_id":"fr","found":false}`)}

	_, err := newESSource(t, transport).Load(context.Background(), "fr")
	assert.True(t, errors.Is(err, apperrors.ErrSnapshotNotFound))
}

func TestElasticsearchSource_ServerError(t *testing.T) {
	transport := &fakeTransport{status: http.StatusBadRequest, body: []byte(`{"error":"bad"}`)}

	_, err := newESSource(t, transport).Load(context.Background(), "uk")
	assert.True(t, errors.Is(err, apperrors.ErrSnapshotSourceFailed))
}

func TestElasticsearchSource_TransportError(t *testing.T) {
	transport := &fakeTransport{err: errors.New("dial tcp: connection refused")}

	_, err := newESSource(t, transport).Load(context.Background(), "uk")
	assert.True(t, errors.Is(err, apperrors.ErrSnapshotSourceFailed))
}

func TestElasticsearchSource_InvalidDocument(t *testing.T) {
	transport := &fakeTransport{status: http.StatusOK, body: []byte(`{"found":true,"_source":{"summary":{}}}`)}

	_, err := newESSource(t, transport).Load(context.Background(), "uk")
	assert.True(t, errors.Is(err, apperrors.ErrSnapshotInvalid))
}
