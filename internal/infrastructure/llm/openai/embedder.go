package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

// Texts per embedding request; the API caps batch size well above
// this, but fusion batches stay small anyway.
const embedBatchSize = 100

// Embedder produces fixed-length vectors for query text and re-rank
// snippets.
type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		batch := texts[start:end]

		callCtx, cancel := context.WithTimeout(ctx, e.client.timeout)
		begin := time.Now()
		var vectors [][]float32
		err := e.client.executor.Execute(callCtx, "openai_embed", func(ctx context.Context) error {
			resp, err := e.client.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
				Input: batch,
				Model: e.client.embedModel,
			})
			if err != nil {
				return err
			}
			if len(resp.Data) != len(batch) {
				return fmt.Errorf("got %d embeddings for %d texts", len(resp.Data), len(batch))
			}
			vectors = vectors[:0]
			for _, item := range resp.Data {
				vectors = append(vectors, item.Embedding)
			}
			return nil
		}, classifyAPIError)
		cancel()

		e.client.metrics.ObserveCall("embed", time.Since(begin), err)
		if err != nil {
			return nil, domain.WrapError(domain.ErrEmbedding, "openai embed", err)
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, domain.WrapError(domain.ErrEmbedding, "openai embed", fmt.Errorf("empty embedding result"))
	}
	return vectors[0], nil
}
