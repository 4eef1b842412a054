package round

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/angeleyes/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch
// round repository
type ElasticsearchConfig struct {
	URL      string
	Username string
	Password string
	Index    string
}

// DefaultElasticsearchConfig returns a default configuration
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:   "http://localhost:9200",
		Index: "angeleyes_rounds",
	}
}

// ElasticsearchRepository decorates a base repository, indexing every
// saved round for search and analytics. Reads of round history fall back
// to the base repository; ES is write-through only.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
}

// NewElasticsearchRepository creates a new Elasticsearch round repository
// wrapping the given base repository.
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.Index == "" {
		config.Index = "angeleyes_rounds"
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    config.Index,
	}

	if err := repo.initIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return repo, nil
}

// initIndex creates the rounds index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index})
	if err != nil {
		return fmt.Errorf("error checking if rounds index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 404 {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"id": { "type": "keyword" },
				"gambler_name": { "type": "keyword" },
				"completed_at": { "type": "date" },
				"dealer_cards": { "type": "keyword" },
				"dealer_total": { "type": "integer" },
				"dealer_blackjack": { "type": "boolean" },
				"dealer_busted": { "type": "boolean" },
				"gambler_blackjack": { "type": "boolean" },
				"pre_turn_over": { "type": "boolean" },
				"bankroll_after": { "type": "long" },
				"hands": {
					"type": "nested",
					"properties": {
						"hand_number": { "type": "integer" },
						"cards": { "type": "keyword" },
						"total": { "type": "integer" },
						"status": { "type": "keyword" },
						"wager": { "type": "long" },
						"insurance": { "type": "long" },
						"payout": { "type": "long" },
						"outcome": { "type": "keyword" }
					}
				}
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(mapping)),
	}

	createRes, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating rounds index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating rounds index: %s", createRes.String())
	}

	return nil
}

// IndexRoundResult indexes a round result in Elasticsearch
func (r *ElasticsearchRepository) IndexRoundResult(ctx context.Context, result *entities.RoundResult) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error marshaling round result: %w", err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(jsonData),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(result.ID),
		r.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing round result: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing round result: %s", res.String())
	}

	return nil
}

// SaveRoundResult saves to the base repository and indexes in Elasticsearch
func (r *ElasticsearchRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	if err := r.baseRepo.SaveRoundResult(ctx, result); err != nil {
		return fmt.Errorf("error saving round result to base repository: %w", err)
	}

	return r.IndexRoundResult(ctx, result)
}

// GetGamblerResults delegates to the base repository
func (r *ElasticsearchRepository) GetGamblerResults(ctx context.Context, gamblerName string, limit int) ([]*entities.RoundResult, error) {
	return r.baseRepo.GetGamblerResults(ctx, gamblerName, limit)
}

// SyncGamblerRounds re-indexes the gambler's recent rounds from the base
// repository, catching up anything that missed the write-through path.
func (r *ElasticsearchRepository) SyncGamblerRounds(ctx context.Context, gamblerName string, limit int) (int, error) {
	results, err := r.baseRepo.GetGamblerResults(ctx, gamblerName, limit)
	if err != nil {
		return 0, fmt.Errorf("error loading rounds for sync: %w", err)
	}

	synced := 0
	for _, result := range results {
		if err := r.IndexRoundResult(ctx, result); err != nil {
			return synced, err
		}
		synced++
	}

	return synced, nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
