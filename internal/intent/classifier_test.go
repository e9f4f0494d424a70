package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pramudya/arus/internal/model"
)

// fakeEngine returns canned vectors per text, defaulting to a far-away
// vector for anything unlisted.
type fakeEngine struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEngine) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func (f *fakeEngine) Name() string { return "fake" }

func TestClassifier_EmbeddingMatch(t *testing.T) {
	// Query matches a record exemplar exactly, so both embed to the same
	// vector and similarity is 1.0
	query := "catat pengeluaran 50000 untuk makan"
	engine := &fakeEngine{vectors: map[string][]float32{
		query: {1, 0, 0},
	}}

	classifier := NewClassifier(engine, nil)
	result := classifier.Classify(context.Background(), query)

	assert.Equal(t, model.IntentInteractionData, result.Category)
	assert.Equal(t, model.IntentTypeRecord, result.Type)
	assert.Equal(t, 0.95, result.Confidence, "confidence is capped below the raw similarity")
}

func TestClassifier_RemoteFallback(t *testing.T) {
	query := "transfer 500rb dari cash ke bank"
	local := &fakeEngine{err: errors.New("connection refused")}
	remote := &fakeEngine{vectors: map[string][]float32{
		query: {1, 0, 0},
	}}

	classifier := NewClassifier(local, remote)
	result := classifier.Classify(context.Background(), query)

	assert.Equal(t, model.IntentInteractionData, result.Category)
	assert.Equal(t, model.IntentTypeTransfer, result.Type)
	assert.GreaterOrEqual(t, result.Confidence, 0.7)
}

func TestClassifier_KeywordFallback(t *testing.T) {
	// Both engines down: keyword matching carries the classification
	down := &fakeEngine{err: errors.New("unavailable")}
	classifier := NewClassifier(down, down)

	tests := []struct {
		name         string
		message      string
		wantCategory model.IntentCategory
		wantType     model.IntentType
	}{
		{
			name:         "record expense",
			message:      "catat pengeluaran 50000 untuk makan",
			wantCategory: model.IntentInteractionData,
			wantType:     model.IntentTypeRecord,
		},
		{
			name:         "delete transaction",
			message:      "hapus transaksi terakhir",
			wantCategory: model.IntentInteractionData,
			wantType:     model.IntentTypeDelete,
		},
		{
			name:         "balance query",
			message:      "berapa saldo saya",
			wantCategory: model.IntentContextData,
			wantType:     model.IntentTypeRetrieve,
		},
		{
			name:         "greeting",
			message:      "halo",
			wantCategory: model.IntentGeneral,
			wantType:     model.IntentTypeGreeting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(context.Background(), tt.message)
			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, tt.wantType, result.Type)
			assert.Greater(t, result.Confidence, 0.5)
		})
	}
}

// countingEngine fails every call and records how many times it was asked.
type countingEngine struct {
	calls int
}

func (c *countingEngine) Embed(_ context.Context, _ string) ([]float32, error) {
	c.calls++
	return nil, errors.New("unavailable")
}

func (c *countingEngine) Name() string { return "counting" }

func TestClassifier_FailedBackendIsLatchedOff(t *testing.T) {
	engine := &countingEngine{}
	classifier := NewClassifier(engine, nil)

	classifier.Classify(context.Background(), "catat pengeluaran 50rb")
	classifier.Classify(context.Background(), "hapus transaksi terakhir")
	classifier.Classify(context.Background(), "transfer 100rb ke gopay")

	assert.Equal(t, 1, engine.calls, "backend should not be probed again after a failure")
}

func TestClassifier_DefaultWhenNothingMatches(t *testing.T) {
	down := &fakeEngine{err: errors.New("unavailable")}
	classifier := NewClassifier(down, nil)

	result := classifier.Classify(context.Background(), "xyzzy qwerty")
	assert.Equal(t, model.IntentGeneral, result.Category)
	assert.Equal(t, model.IntentTypeUnknown, result.Type)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestClassifier_EmptyMessage(t *testing.T) {
	classifier := NewClassifier(nil, nil)
	result := classifier.Classify(context.Background(), "   ")
	assert.Equal(t, model.IntentTypeUnknown, result.Type)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestKeywordConfidence(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		keyword string
		want    float64
	}{
		{
			name:    "start of short query",
			query:   "catat pengeluaran makan",
			keyword: "catat",
			want:    1.0, // 0.7 + 0.2 start + 0.1 short
		},
		{
			name:    "mid-query short",
			query:   "tolong catat pengeluaran makan",
			keyword: "catat",
			want:    0.8, // 0.7 + 0.1 short
		},
		{
			name:    "very long query",
			query:   "tolong bantu saya untuk catat semua pengeluaran yang sudah saya lakukan selama satu minggu penuh kemarin ya terima kasih banyak",
			keyword: "catat",
			want:    0.6, // 0.7 - 0.1 long
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keywordConfidence(tt.query, tt.keyword)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestShouldClarify(t *testing.T) {
	assert.True(t, ShouldClarify(0.3))
	assert.False(t, ShouldClarify(0.7))
}

func TestExemplars_CoverAllInteractionTypes(t *testing.T) {
	seen := make(map[model.IntentType]bool)
	for _, ex := range Exemplars() {
		if ex.Category == model.IntentInteractionData {
			seen[ex.Type] = true
		}
	}
	for _, it := range []model.IntentType{
		model.IntentTypeRecord,
		model.IntentTypeEdit,
		model.IntentTypeDelete,
		model.IntentTypeTransfer,
		model.IntentTypeGoal,
	} {
		require.True(t, seen[it], "missing exemplars for %s", it)
	}
}
