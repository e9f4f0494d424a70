// Package embedding provides vector embedding generation for semantic
// intent matching. Supports a local Ollama server and an OpenAI fallback.
package embedding

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/pramudya/arus/internal/common"
)

// Engine generates vector embeddings for text.
type Engine interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name returns the engine name for logging.
	Name() string
}

// Config holds embedding engine configuration.
type Config struct {
	// Provider: "ollama" or "openai"
	Provider string

	// Ollama configuration
	OllamaEndpoint string
	OllamaModel    string

	// OpenAI configuration
	OpenAIAPIKey string
	OpenAIModel  string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:       "ollama",
		OllamaEndpoint: "http://localhost:11434",
		OllamaModel:    "nomic-embed-text",
		OpenAIModel:    "text-embedding-3-small",
	}
}

// NewEngine creates an embedding engine based on configuration.
func NewEngine(cfg Config) (Engine, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEngine(cfg.OllamaEndpoint, cfg.OllamaModel), nil
	case "openai":
		return NewOpenAIEngine(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", common.ErrEmbeddingDimension, len(a), len(b))
	}

	var dot, aMag, bMag float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		aMag += float64(a[i]) * float64(a[i])
		bMag += float64(b[i]) * float64(b[i])
	}

	if aMag == 0 || bMag == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(aMag) * math.Sqrt(bMag)), nil
}

// CachedEngine wraps an Engine with an in-memory per-text cache. Exemplar
// texts are embedded once and reused across classifications.
type CachedEngine struct {
	engine Engine
	cache  map[string][]float32
	mu     sync.RWMutex
}

// NewCachedEngine wraps engine with a cache.
func NewCachedEngine(engine Engine) *CachedEngine {
	return &CachedEngine{
		engine: engine,
		cache:  make(map[string][]float32),
	}
}

// Embed returns the cached vector for text, computing it on first use.
func (c *CachedEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	vec, ok := c.cache[text]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := c.engine.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[text] = vec
	c.mu.Unlock()
	return vec, nil
}

// Name returns the underlying engine name.
func (c *CachedEngine) Name() string {
	return c.engine.Name()
}
