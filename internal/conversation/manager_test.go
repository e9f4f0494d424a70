package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/model"
	"github.com/pramudya/arus/internal/service"
)

// fakeStore implements the session portion of service.Storage in
// memory. The embedded interface panics on anything else, which keeps
// these tests honest about what the manager touches.
type fakeStore struct {
	service.Storage
	sessions map[string]*model.Session
	clock    func() time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]*model.Session),
		clock:    time.Now,
	}
}

func sessionKey(userID int64, sessionID string) string {
	return fmt.Sprintf("%d/%s", userID, sessionID)
}

func (f *fakeStore) GetSession(_ context.Context, userID int64, sessionID string) (*model.Session, error) {
	s, ok := f.sessions[sessionKey(userID, sessionID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) SaveSession(_ context.Context, session *model.Session) error {
	copied := *session
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = f.clock()
	}
	copied.UpdatedAt = f.clock()
	f.sessions[sessionKey(session.UserID, session.SessionID)] = &copied
	return nil
}

func (f *fakeStore) DeleteSession(_ context.Context, userID int64, sessionID string) error {
	key := sessionKey(userID, sessionID)
	if _, ok := f.sessions[key]; !ok {
		return common.ErrNotFound
	}
	delete(f.sessions, key)
	return nil
}

func (f *fakeStore) DeleteExpiredSessions(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for key, s := range f.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(f.sessions, key)
			n++
		}
	}
	return n, nil
}

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return NewManager(store), store
}

func TestManager_StartUnknownFlow(t *testing.T) {
	m, _ := newTestManager()
	_, err := m.Start(context.Background(), 1, "s1", "order_pizza")
	assert.Error(t, err)
}

func TestManager_TransferFlow(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	turn, err := m.Start(ctx, 1, "s1", FlowTransfer)
	require.NoError(t, err)
	assert.Equal(t, "AWAITING_FROM_ACCOUNT", turn.State)
	assert.Contains(t, turn.Prompt, "Transfer dari akun mana")

	turn, err = m.UpdateField(ctx, 1, "s1", "from_account", "Cash")
	require.NoError(t, err)
	assert.Equal(t, "AWAITING_TO_ACCOUNT", turn.State)

	turn, err = m.UpdateField(ctx, 1, "s1", "to_account", "BCA")
	require.NoError(t, err)
	assert.Equal(t, "AWAITING_AMOUNT", turn.State)

	turn, err = m.UpdateField(ctx, 1, "s1", "amount", 50000.0)
	require.NoError(t, err)
	assert.Equal(t, StateConfirming, turn.State)
	assert.Contains(t, turn.Prompt, "50000")
	assert.Contains(t, turn.Prompt, "Cash")
	assert.Contains(t, turn.Prompt, "BCA")

	turn, err = m.Confirm(ctx, 1, "s1", true)
	require.NoError(t, err)
	assert.True(t, turn.Ready)
	assert.Equal(t, StateReady, turn.State)
	assert.Equal(t, "Cash", turn.Data["from_account"])
	assert.Equal(t, 50000.0, turn.Data["amount"])
}

func TestManager_AllFieldsSkipToConfirming(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	_, err := m.Start(ctx, 1, "s1", FlowAddTransaction)
	require.NoError(t, err)

	_, err = m.UpdateField(ctx, 1, "s1", "amount", 25000.0)
	require.NoError(t, err)
	_, err = m.UpdateField(ctx, 1, "s1", "type", "expense")
	require.NoError(t, err)
	_, err = m.UpdateField(ctx, 1, "s1", "category", "Makan")
	require.NoError(t, err)

	turn, err := m.UpdateField(ctx, 1, "s1", "account", "Cash")
	require.NoError(t, err)
	assert.Equal(t, StateConfirming, turn.State)
}

func TestManager_StartWithSeedSkipsAnsweredQuestions(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	turn, err := m.StartWith(ctx, 1, "s1", FlowAddTransaction, map[string]any{
		"amount": 50000.0,
		"type":   "expense",
	})
	require.NoError(t, err)
	assert.Equal(t, "AWAITING_CATEGORY", turn.State)
	assert.Equal(t, 50000.0, turn.Data["amount"])
}

func TestManager_StartWithFullSeedStartsAtConfirming(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	turn, err := m.StartWith(ctx, 1, "s1", FlowTransfer, map[string]any{
		"from_account": "Cash",
		"to_account":   "BCA",
		"amount":       75000.0,
	})
	require.NoError(t, err)
	assert.Equal(t, StateConfirming, turn.State)
	assert.Contains(t, turn.Prompt, "Cash")
	assert.Contains(t, turn.Prompt, "BCA")
}

func TestManager_CancelDeletesSession(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	_, err := m.Start(ctx, 1, "s1", FlowDeleteTransaction)
	require.NoError(t, err)

	turn, err := m.Confirm(ctx, 1, "s1", false)
	require.NoError(t, err)
	assert.True(t, turn.Cancelled)
	assert.Equal(t, "Aksi dibatalkan", turn.Prompt)
	assert.Empty(t, store.sessions)

	_, err = m.Active(ctx, 1, "s1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestManager_ConfirmOutsideConfirmingFails(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	_, err := m.Start(ctx, 1, "s1", FlowTransfer)
	require.NoError(t, err)

	_, err = m.Confirm(ctx, 1, "s1", true)
	assert.Error(t, err)
}

func TestManager_DeleteFlowStartsAtConfirming(t *testing.T) {
	m, _ := newTestManager()

	turn, err := m.Start(context.Background(), 1, "s1", FlowDeleteTransaction)
	require.NoError(t, err)
	assert.Equal(t, StateConfirming, turn.State)
	assert.Contains(t, turn.Prompt, "Hapus transaksi ini")
}

func TestManager_StartReplacesExistingFlow(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	_, err := m.Start(ctx, 1, "s1", FlowTransfer)
	require.NoError(t, err)
	_, err = m.UpdateField(ctx, 1, "s1", "from_account", "Cash")
	require.NoError(t, err)

	turn, err := m.Start(ctx, 1, "s1", FlowCreateGoal)
	require.NoError(t, err)
	assert.Equal(t, "AWAITING_GOAL_NAME", turn.State)

	session, err := m.Active(ctx, 1, "s1")
	require.NoError(t, err)
	assert.Equal(t, FlowCreateGoal, session.Flow)
	assert.Empty(t, session.Data)
}

func TestManager_ExpiredSessionIsDeletedLazily(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	_, err := m.Start(ctx, 1, "s1", FlowTransfer)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(model.SessionTTL + time.Minute) }

	_, err = m.Active(ctx, 1, "s1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, store.sessions)
}

func TestManager_ActivitySlidesExpiry(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	base := time.Now()
	store.clock = func() time.Time { return base }
	m.now = func() time.Time { return base }

	_, err := m.Start(ctx, 1, "s1", FlowTransfer)
	require.NoError(t, err)

	// Half the TTL passes, then the user answers a question.
	later := base.Add(30 * time.Minute)
	store.clock = func() time.Time { return later }
	m.now = func() time.Time { return later }
	_, err = m.UpdateField(ctx, 1, "s1", "from_account", "Cash")
	require.NoError(t, err)

	// Another 45 minutes is within the slid window.
	m.now = func() time.Time { return later.Add(45 * time.Minute) }
	_, err = m.Active(ctx, 1, "s1")
	assert.NoError(t, err)
}

func TestManager_NextQuestion(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	q, err := m.NextQuestion(ctx, 1, "s1")
	require.NoError(t, err)
	assert.Empty(t, q)

	_, err = m.Start(ctx, 1, "s1", FlowCreateGoal)
	require.NoError(t, err)

	q, err = m.NextQuestion(ctx, 1, "s1")
	require.NoError(t, err)
	assert.Contains(t, q, "Target tabungan untuk apa")
}

func TestManager_PurgeExpired(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	old := time.Now().Add(-2 * time.Hour)
	store.clock = func() time.Time { return old }
	_, err := m.Start(ctx, 1, "stale", FlowTransfer)
	require.NoError(t, err)

	store.clock = time.Now
	_, err = m.Start(ctx, 2, "fresh", FlowTransfer)
	require.NoError(t, err)

	n, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, store.sessions, 1)
}

func TestPromptFor_LeavesMissingPlaceholders(t *testing.T) {
	got := promptFor(FlowTransfer, StateConfirming, map[string]any{"amount": 50000.0})
	assert.Contains(t, got, "50000")
	assert.Contains(t, got, "{from_account}")
}
