package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

const (
	// Corpus exports sweep the index with a zero vector; this caps how
	// many chunks one export can see.
	exportSweepLimit = 10000

	defaultTimeout = 60 * time.Second
)

// Client queries a Pinecone index over its REST API. Access control is
// pushed down to the store as a metadata predicate on the source field;
// the client never fetches unfiltered results and post-filters, which
// would leak existence and ranking information about inaccessible
// documents.
type Client struct {
	indexHost  string
	apiKey     string
	dimensions int
	policy     *domain.AccessPolicy
	httpClient *http.Client
}

func New(indexHost, apiKey string, dimensions int, policy *domain.AccessPolicy) *Client {
	return &Client{
		indexHost:  strings.TrimRight(indexHost, "/"),
		apiKey:     apiKey,
		dimensions: dimensions,
		policy:     policy,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type queryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Filter          map[string]any `json:"filter,omitempty"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

// Search returns the topK nearest chunks for the query vector, ranked
// by the store's cosine metric, restricted server-side to the sources
// the role may see.
func (c *Client) Search(
	ctx context.Context,
	queryVector []float32,
	role domain.Role,
	topK int,
) ([]domain.ScoredChunk, error) {
	response, err := c.query(ctx, queryRequest{
		Vector:          queryVector,
		TopK:            topK,
		IncludeMetadata: true,
		Filter: map[string]any{
			"source": map[string]any{"$in": c.policy.AllowedSources(role)},
		},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.ScoredChunk, 0, len(response.Matches))
	for _, match := range response.Matches {
		out = append(out, domain.ScoredChunk{
			Chunk:      chunkFromMetadata(match.ID, match.Metadata),
			Score:      match.Score,
			SearchType: domain.SearchDense,
			Rank:       len(out) + 1,
		})
	}
	return out, nil
}

// ExportCorpus fetches the flat chunk collection used to build the
// lexical index. The export is unfiltered on purpose: the lexical side
// applies its own per-role filter at query time.
func (c *Client) ExportCorpus(ctx context.Context) ([]domain.Chunk, error) {
	response, err := c.query(ctx, queryRequest{
		Vector:          make([]float32, c.dimensions),
		TopK:            exportSweepLimit,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Chunk, 0, len(response.Matches))
	for _, match := range response.Matches {
		chunk := chunkFromMetadata(match.ID, match.Metadata)
		if chunk.Content == "" {
			continue
		}
		out = append(out, chunk)
	}
	return out, nil
}

func (c *Client) query(ctx context.Context, request queryRequest) (*queryResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal query body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexHost+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "pinecone query", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "pinecone query",
			fmt.Errorf("status %s", resp.Status))
	}

	var response queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "pinecone query",
			fmt.Errorf("decode response: %w", err))
	}
	return &response, nil
}

func chunkFromMetadata(id string, metadata map[string]any) domain.Chunk {
	chunk := domain.Chunk{
		ID:           metadataString(metadata, "chunk_id"),
		Content:      metadataString(metadata, "content"),
		Source:       metadataString(metadata, "source"),
		Page:         metadataInt(metadata, "page"),
		AccessLevel:  domain.AccessLevel(metadataString(metadata, "access_level")),
		DocumentType: metadataString(metadata, "document_type"),
		Department:   metadataString(metadata, "department"),
	}
	if chunk.ID == "" {
		chunk.ID = id
	}
	return chunk
}

func metadataString(metadata map[string]any, key string) string {
	value, _ := metadata[key].(string)
	return value
}

func metadataInt(metadata map[string]any, key string) int {
	switch value := metadata[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	default:
		return 0
	}
}
