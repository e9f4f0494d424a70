// Package intent classifies user messages into intents using a hybrid of
// embedding similarity and keyword matching.
package intent

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/embedding"
	"github.com/pramudya/arus/internal/model"
)

const (
	// acceptThreshold is the similarity at which an embedding match is
	// accepted without consulting further backends.
	acceptThreshold = 0.7
	// maxConfidence caps embedding-derived confidence.
	maxConfidence = 0.95
	// defaultConfidence is reported when nothing matched.
	defaultConfidence = 0.3
)

// Classifier detects user intent. The local engine is tried first, the
// remote engine only when the local result is weak, and keywords last.
// A backend that fails to embed a query is latched off for the rest of
// the process instead of being probed on every message.
type Classifier struct {
	local     *backend
	remote    *backend
	exemplars []Exemplar
}

// backend pairs an embedding engine with its failure latch.
type backend struct {
	engine embedding.Engine
	down   atomic.Bool
}

// NewClassifier creates a classifier. remote may be nil; exemplar
// embeddings are cached per engine so repeated classifications only embed
// the incoming message.
func NewClassifier(local, remote embedding.Engine) *Classifier {
	c := &Classifier{exemplars: Exemplars()}
	if local != nil {
		c.local = &backend{engine: embedding.NewCachedEngine(local)}
	}
	if remote != nil {
		c.remote = &backend{engine: embedding.NewCachedEngine(remote)}
	}
	return c
}

// Classify determines the intent of a user message. It never fails: when
// every backend comes up empty it reports general/unknown with low
// confidence.
func (c *Classifier) Classify(ctx context.Context, message string) model.Classification {
	query := strings.ToLower(strings.TrimSpace(message))
	if query == "" {
		return model.Classification{
			Category:   model.IntentGeneral,
			Type:       model.IntentTypeUnknown,
			Confidence: defaultConfidence,
		}
	}

	// Primary: local embeddings
	localResult, localSim, localOK := c.classifyWithEngine(ctx, c.local, query)
	if localOK && localSim >= acceptThreshold {
		return localResult
	}

	// Secondary: remote embeddings, only when local is weak
	remoteResult, remoteSim, remoteOK := c.classifyWithEngine(ctx, c.remote, query)
	if remoteOK && remoteSim >= acceptThreshold {
		return remoteResult
	}

	// Fallback: keyword matching
	keywordResult, keywordOK := classifyWithKeywords(query)

	best := model.Classification{
		Category:   model.IntentGeneral,
		Type:       model.IntentTypeUnknown,
		Confidence: defaultConfidence,
	}
	if localOK && localResult.Confidence > best.Confidence {
		best = localResult
	}
	if remoteOK && remoteResult.Confidence > best.Confidence {
		best = remoteResult
	}
	if keywordOK && keywordResult.Confidence > best.Confidence {
		best = keywordResult
	}
	return best
}

// classifyWithEngine finds the nearest exemplar by cosine similarity.
// Returns the raw best similarity alongside the scored classification.
func (c *Classifier) classifyWithEngine(ctx context.Context, b *backend, query string) (model.Classification, float64, bool) {
	if b == nil || b.down.Load() {
		return model.Classification{}, 0, false
	}
	engine := b.engine

	queryVec, err := engine.Embed(ctx, query)
	if err != nil {
		// A canceled context is not the backend's fault; only latch
		// genuine backend failures.
		if ctx.Err() == nil {
			b.down.Store(true)
			common.LogError(err, "embedding backend disabled after failure", common.Fields{
				"engine": engine.Name(),
			})
		}
		return model.Classification{}, 0, false
	}

	bestSim := 0.0
	var bestExemplar *Exemplar
	for i := range c.exemplars {
		exemplarVec, err := engine.Embed(ctx, c.exemplars[i].Text)
		if err != nil {
			continue
		}
		sim, err := embedding.CosineSimilarity(queryVec, exemplarVec)
		if err != nil {
			continue
		}
		if sim > bestSim {
			bestSim = sim
			bestExemplar = &c.exemplars[i]
		}
	}

	if bestExemplar == nil {
		return model.Classification{}, 0, false
	}

	return model.Classification{
		Category:   bestExemplar.Category,
		Type:       bestExemplar.Type,
		Confidence: similarityConfidence(bestSim),
	}, bestSim, true
}

// similarityConfidence converts a cosine similarity into a confidence.
// Strong matches map near the similarity itself, weak matches are damped.
func similarityConfidence(sim float64) float64 {
	switch {
	case sim > 0.65:
		return min(maxConfidence, sim)
	case sim > 0.5:
		return sim * 0.85
	default:
		return sim * 0.5
	}
}

// ShouldClarify reports whether the confidence is too low to act on and
// the user should be asked to rephrase.
func ShouldClarify(confidence float64) bool {
	return confidence < 0.5
}
