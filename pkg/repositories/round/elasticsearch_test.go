package round

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/fadedpez/angeleyes/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBaseRepository is a mock implementation of the Repository interface for testing
type MockBaseRepository struct {
	mock.Mock
}

// SaveRoundResult implements Repository
func (m *MockBaseRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// GetGamblerResults implements Repository
func (m *MockBaseRepository) GetGamblerResults(ctx context.Context, gamblerName string, limit int) ([]*entities.RoundResult, error) {
	args := m.Called(ctx, gamblerName, limit)
	return args.Get(0).([]*entities.RoundResult), args.Error(1)
}

// Close implements Repository
func (m *MockBaseRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

type recordedRequest struct {
	method string
	path   string
}

// fakeESTransport answers every Elasticsearch request with an empty 200
// and records what was asked, so indexing can be asserted without a cluster.
type fakeESTransport struct {
	requests []recordedRequest
}

func (t *fakeESTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests = append(t.requests, recordedRequest{method: req.Method, path: req.URL.Path})
	return &http.Response{
		StatusCode: http.StatusOK,
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
		Body: io.NopCloser(strings.NewReader(`{}`)),
	}, nil
}

// newTestElasticsearchRepository builds the decorator over a mock base
// repository and a client whose transport is canned.
func newTestElasticsearchRepository(t *testing.T, baseRepo Repository) (*ElasticsearchRepository, *fakeESTransport) {
	t.Helper()

	transport := &fakeESTransport{}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: transport,
	})
	require.NoError(t, err)

	return &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    "test_rounds",
	}, transport
}

func testRound(id string) *entities.RoundResult {
	return &entities.RoundResult{
		ID:          id,
		GamblerName: "Tuco",
		CompletedAt: time.Now(),
		DealerTotal: 19,
		Hands: []*entities.HandOutcome{
			{HandNumber: 1, Total: 20, Wager: 10_00, Payout: 20_00, Outcome: entities.OutcomeWin},
		},
	}
}

func TestElasticsearchRepositorySaveWritesThrough(t *testing.T) {
	mockBaseRepo := new(MockBaseRepository)
	repo, transport := newTestElasticsearchRepository(t, mockBaseRepo)

	result := testRound("r1")
	mockBaseRepo.On("SaveRoundResult", mock.Anything, result).Return(nil)

	err := repo.SaveRoundResult(context.Background(), result)
	require.NoError(t, err)

	mockBaseRepo.AssertExpectations(t)
	require.Len(t, transport.requests, 1)
	assert.Equal(t, "PUT", transport.requests[0].method)
	assert.Equal(t, "/test_rounds/_doc/r1", transport.requests[0].path)
}

func TestElasticsearchRepositorySaveStopsOnBaseFailure(t *testing.T) {
	mockBaseRepo := new(MockBaseRepository)
	repo, transport := newTestElasticsearchRepository(t, mockBaseRepo)

	result := testRound("r1")
	mockBaseRepo.On("SaveRoundResult", mock.Anything, result).Return(assert.AnError)

	err := repo.SaveRoundResult(context.Background(), result)
	assert.Error(t, err)
	assert.Empty(t, transport.requests, "nothing is indexed when the base save fails")
}

func TestElasticsearchRepositorySyncGamblerRounds(t *testing.T) {
	mockBaseRepo := new(MockBaseRepository)
	repo, transport := newTestElasticsearchRepository(t, mockBaseRepo)

	results := []*entities.RoundResult{testRound("r2"), testRound("r1")}
	mockBaseRepo.On("GetGamblerResults", mock.Anything, "Tuco", 500).Return(results, nil)

	synced, err := repo.SyncGamblerRounds(context.Background(), "Tuco", 500)
	require.NoError(t, err)

	assert.Equal(t, 2, synced)
	mockBaseRepo.AssertExpectations(t)
	require.Len(t, transport.requests, 2)
	assert.Equal(t, "/test_rounds/_doc/r2", transport.requests[0].path)
	assert.Equal(t, "/test_rounds/_doc/r1", transport.requests[1].path)
}

func TestElasticsearchRepositoryDelegatesReadsAndClose(t *testing.T) {
	mockBaseRepo := new(MockBaseRepository)
	repo, transport := newTestElasticsearchRepository(t, mockBaseRepo)

	results := []*entities.RoundResult{testRound("r1")}
	mockBaseRepo.On("GetGamblerResults", mock.Anything, "Tuco", 10).Return(results, nil)
	mockBaseRepo.On("Close").Return(nil)

	got, err := repo.GetGamblerResults(context.Background(), "Tuco", 10)
	require.NoError(t, err)
	assert.Equal(t, results, got)

	assert.NoError(t, repo.Close())
	mockBaseRepo.AssertExpectations(t)
	assert.Empty(t, transport.requests, "reads and close never touch Elasticsearch")
}
