package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/service"
)

// OpenAIEngine generates embeddings using the OpenAI API. Used as the
// remote fallback when the local engine is unavailable or uncertain.
type OpenAIEngine struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEngine creates a new OpenAI embedding engine.
func NewOpenAIEngine(apiKey, model string) (*OpenAIEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	return &OpenAIEngine{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(model),
	}, nil
}

// Embed generates an embedding for a single text. Transient API errors
// are retried with backoff before the engine gives up.
func (e *OpenAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32

	err := common.WithRetry(ctx, func() error {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: e.model,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrEmbeddingUnavailable, err)
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: empty embedding", common.ErrEmbeddingUnavailable),
				Retryable: false,
			}
		}
		embedding = resp.Data[0].Embedding
		return nil
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	return embedding, nil
}

// Name returns the engine name.
func (e *OpenAIEngine) Name() string {
	return fmt.Sprintf("openai:%s", e.model)
}
