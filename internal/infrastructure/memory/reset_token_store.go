package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ticketline/auth-service/internal/domain"
)

// ResetTokenStore keeps full reset token rows, including real expiry, so the
// lifecycle semantics match the Postgres store: expired rows stay around
// (invisible to FindValid) until DeleteExpired removes them.
type ResetTokenStore struct {
	mu sync.RWMutex
	// token -> row
	data map[string]domain.ResetToken
}

func NewResetTokenStore() *ResetTokenStore {
	return &ResetTokenStore{data: make(map[string]domain.ResetToken)}
}

func (s *ResetTokenStore) Save(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if token == "" {
		return domain.ErrMissingField("token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[token]; exists {
		return domain.ErrStorage(nil)
	}
	s.data[token] = domain.ResetToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (s *ResetTokenStore) FindValid(ctx context.Context, token string, now time.Time) (*domain.ResetToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rt, ok := s.data[token]
	if !ok || !rt.Valid(now) {
		return nil, nil
	}
	out := rt
	return &out, nil
}

func (s *ResetTokenStore) DeleteByToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, token) // idempotent
	return nil
}

func (s *ResetTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for tok, rt := range s.data {
		if rt.SweepEligible(now) {
			delete(s.data, tok)
			n++
		}
	}
	return n, nil
}

// Len reports the number of physically stored rows, expired ones included.
// Test helper.
func (s *ResetTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
