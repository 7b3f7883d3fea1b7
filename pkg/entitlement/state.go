package entitlement

import (
	"context"
	"sync"
)

// StateStore reads per-merchant subscription state. The record is mutated
// externally on plan changes; that component must invalidate the entitlement
// cache for the merchant afterwards.
type StateStore interface {
	// State returns the merchant's record or ErrMerchantNotFound.
	State(ctx context.Context, merchantID string) (MerchantState, error)
}

// InMemStateStore is an in-memory implementation for tests and single-process
// setups. Unlike the read-only StateStore contract it also supports writes so
// lifecycle transitions can be simulated.
type InMemStateStore struct {
	mu     sync.RWMutex
	states map[string]MerchantState
}

// NewInMemStateStore returns an empty in-memory state store.
func NewInMemStateStore() *InMemStateStore {
	return &InMemStateStore{states: make(map[string]MerchantState)}
}

func (s *InMemStateStore) State(_ context.Context, merchantID string) (MerchantState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[merchantID]
	if !ok {
		return MerchantState{}, ErrMerchantNotFound
	}
	return st, nil
}

// Put validates and stores a merchant record, replacing any existing one.
func (s *InMemStateStore) Put(_ context.Context, state MerchantState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.MerchantID] = state
	return nil
}

// Delete removes a merchant record; deleting an absent record is a no-op.
func (s *InMemStateStore) Delete(_ context.Context, merchantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, merchantID)
	return nil
}
