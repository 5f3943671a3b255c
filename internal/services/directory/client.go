// Package directory resolves player names against a remote player
// directory over HTTP.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

// DefaultBatchSize is the most names sent in one request
const DefaultBatchSize = 10

// Config configures the directory client
type Config struct {
	URL       string
	Timeout   time.Duration
	BatchSize int
}

// profileResponse is one entry of the directory's JSON response
type profileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client looks up player identities by name
type Client struct {
	url       string
	batchSize int
	client    *http.Client
	logger    *slog.Logger
}

// New creates a Client. A nil httpClient gets one with cfg.Timeout.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Client{
		url:       cfg.URL,
		batchSize: batchSize,
		client:    httpClient,
		logger:    logger.With(slog.String("component", "directory")),
	}
}

// ResolveNames looks up names in chunks of the configured batch size. The
// result is keyed by lower-cased name; unknown names and entries with an
// unparseable id are absent. Any failed chunk fails the whole call with
// model.ErrLookupFailed.
func (c *Client) ResolveNames(ctx context.Context, names []string) (map[string]model.NameAndID, error) {
	result := make(map[string]model.NameAndID, len(names))
	for start := 0; start < len(names); start += c.batchSize {
		end := min(start+c.batchSize, len(names))
		profiles, err := c.fetch(ctx, names[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrLookupFailed, err)
		}
		for _, p := range profiles {
			id, err := uuid.Parse(p.ID)
			if err != nil {
				// The name stays unresolved; the rest of the batch is kept
				c.logger.Warn("skipping directory entry with bad id",
					slog.String("name", p.Name),
					slog.String("id", p.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			n := model.NameAndID{Name: p.Name, ID: id}
			result[n.Key()] = n
		}
	}

	c.logger.Debug("names looked up",
		slog.Int("requested", len(names)),
		slog.Int("found", len(result)),
	)
	return result, nil
}

func (c *Client) fetch(ctx context.Context, names []string) ([]profileResponse, error) {
	body, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("encode names: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lookup returned %s", resp.Status)
	}
	// The directory answers 204 when none of the names exist
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var profiles []profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	return profiles, nil
}
