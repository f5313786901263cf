// Package memstate is the in-process StateRepository used when no Redis is
// configured. State is lost on restart; that is an accepted limitation.
package memstate

import (
	"context"
	"sync"

	"telegram-docs-bank/internal/domain"
	"telegram-docs-bank/internal/domain/ports/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

type StateRepo struct {
	mu     sync.RWMutex
	states map[int64]repository.ConversationState
}

func NewStateRepo() *StateRepo {
	return &StateRepo{states: make(map[int64]repository.ConversationState)}
}

func (s *StateRepo) SetState(ctx context.Context, tgID int64, state *repository.ConversationState) error {
	if state == nil {
		return domain.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[tgID] = *state
	return nil
}

func (s *StateRepo) GetState(ctx context.Context, tgID int64) (*repository.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := st
	return &cp, nil
}

func (s *StateRepo) ClearState(ctx context.Context, tgID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, tgID)
	return nil
}
