package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/model"
	"github.com/pramudya/arus/internal/service"
)

// Turn is what the manager hands back after each step of a flow: the
// state the conversation landed in and what to say to the user next.
type Turn struct {
	Flow      string
	State     string
	Prompt    string
	Data      map[string]any
	Ready     bool
	Cancelled bool
}

// Manager drives slot-filling conversations, persisting state between
// turns. Sessions expire after an hour of inactivity; expiry is checked
// lazily on access.
type Manager struct {
	store service.Storage
	now   func() time.Time
}

// NewManager creates a conversation manager backed by store.
func NewManager(store service.Storage) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Start begins a new flow for the session, replacing any flow already
// in progress.
func (m *Manager) Start(ctx context.Context, userID int64, sessionID, flow string) (*Turn, error) {
	return m.StartWith(ctx, userID, sessionID, flow, nil)
}

// StartWith begins a flow seeded with fields already extracted from the
// user's message. Questions whose answer is in the seed are skipped; a
// fully seeded flow starts at CONFIRMING.
func (m *Manager) StartWith(ctx context.Context, userID int64, sessionID, flow string, seed map[string]any) (*Turn, error) {
	machine, ok := MachineFor(flow)
	if !ok {
		return nil, fmt.Errorf("unknown flow %q: %w", flow, common.ErrInvalidConfig)
	}

	data := map[string]any{}
	for k, v := range seed {
		data[k] = v
	}

	// First collecting state whose field the seed did not answer;
	// CONFIRMING when every question is already covered.
	state := StateConfirming
	for _, s := range machine.States {
		field, collecting := FieldFor(flow, s)
		if !collecting {
			break
		}
		if _, have := data[field]; !have {
			state = s
			break
		}
	}

	session := &model.Session{
		UserID:    userID,
		SessionID: sessionID,
		Flow:      flow,
		State:     state,
		Data:      data,
	}
	if err := m.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("starting %s flow: %w", flow, err)
	}

	common.LogInfo("conversation started", common.Fields{
		"user_id": userID,
		"flow":    flow,
		"state":   state,
	})

	return &Turn{
		Flow:   flow,
		State:  state,
		Prompt: promptFor(flow, state, session.Data),
		Data:   session.Data,
	}, nil
}

// Active returns the session's current conversation, deleting it first
// if it has outlived its TTL.
func (m *Manager) Active(ctx context.Context, userID int64, sessionID string) (*model.Session, error) {
	session, err := m.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Expired(m.now()) {
		if err := m.store.DeleteSession(ctx, userID, sessionID); err != nil && !errors.Is(err, common.ErrNotFound) {
			common.LogError(err, "deleting expired session", common.Fields{"user_id": userID})
		}
		return nil, common.ErrNotFound
	}
	return session, nil
}

// UpdateField records a collected field value and advances the flow.
// Once every required field is present the flow moves to CONFIRMING
// regardless of position.
func (m *Manager) UpdateField(ctx context.Context, userID int64, sessionID, field string, value any) (*Turn, error) {
	session, err := m.Active(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	machine, ok := MachineFor(session.Flow)
	if !ok {
		return nil, fmt.Errorf("session has unknown flow %q", session.Flow)
	}

	if session.Data == nil {
		session.Data = map[string]any{}
	}
	session.Data[field] = value

	next := StateConfirming
	if !machine.complete(session.Data) {
		if idx := machine.stateIndex(session.State); idx >= 0 && idx+1 < len(machine.States) {
			next = machine.States[idx+1]
		}
	}

	previous := session.State
	session.State = next
	if err := m.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("advancing %s flow: %w", session.Flow, err)
	}

	common.LogDebug("conversation advanced", common.Fields{
		"user_id":   userID,
		"flow":      session.Flow,
		"old_state": previous,
		"new_state": next,
		"field":     field,
	})

	return &Turn{
		Flow:   session.Flow,
		State:  next,
		Prompt: promptFor(session.Flow, next, session.Data),
		Data:   session.Data,
		Ready:  next == StateReady,
	}, nil
}

// Confirm resolves the confirmation step. A negative answer cancels the
// flow and deletes the session. A positive answer is only valid while
// the flow is CONFIRMING and moves it to READY_TO_EXECUTE.
func (m *Manager) Confirm(ctx context.Context, userID int64, sessionID string, confirmed bool) (*Turn, error) {
	session, err := m.Active(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if !confirmed {
		if err := m.store.DeleteSession(ctx, userID, sessionID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("cancelling %s flow: %w", session.Flow, err)
		}
		common.LogInfo("conversation cancelled", common.Fields{
			"user_id": userID,
			"flow":    session.Flow,
		})
		return &Turn{
			Flow:      session.Flow,
			Prompt:    "Aksi dibatalkan",
			Cancelled: true,
		}, nil
	}

	if session.State != StateConfirming {
		return nil, fmt.Errorf("flow %s is in state %s, not awaiting confirmation", session.Flow, session.State)
	}

	session.State = StateReady
	if err := m.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("confirming %s flow: %w", session.Flow, err)
	}

	common.LogInfo("conversation confirmed", common.Fields{
		"user_id": userID,
		"flow":    session.Flow,
	})

	return &Turn{
		Flow:  session.Flow,
		State: StateReady,
		Data:  session.Data,
		Ready: true,
	}, nil
}

// Clear removes the session's conversation state, typically after the
// action executed.
func (m *Manager) Clear(ctx context.Context, userID int64, sessionID string) error {
	err := m.store.DeleteSession(ctx, userID, sessionID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}

// NextQuestion returns the question for the session's current state, or
// empty when no conversation is active.
func (m *Manager) NextQuestion(ctx context.Context, userID int64, sessionID string) (string, error) {
	session, err := m.Active(ctx, userID, sessionID)
	if errors.Is(err, common.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return promptFor(session.Flow, session.State, session.Data), nil
}

// PurgeExpired removes every session past its TTL. Meant for periodic
// housekeeping; per-session expiry does not depend on it.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, m.now().Add(-model.SessionTTL))
}
