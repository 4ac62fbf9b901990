package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"faceid/internal/claims/models"
	"faceid/pkg/platform/sentinel"
	"faceid/pkg/requestcontext"
	"faceid/pkg/vector"
)

// InMemory is a process-local claim store that keeps insertion order.
type InMemory struct {
	mu     sync.RWMutex
	order  []uuid.UUID
	claims map[uuid.UUID]*models.Claim
}

// NewInMemory returns an empty store.
func NewInMemory() *InMemory {
	return &InMemory{claims: make(map[uuid.UUID]*models.Claim)}
}

func (s *InMemory) Create(_ context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.claims[claim.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range s.claims {
		if existing.UserID == claim.UserID {
			return sentinel.ErrConflict
		}
	}
	c := cloneClaim(claim)
	s.claims[c.ID] = c
	s.order = append(s.order, c.ID)
	return nil
}

func (s *InMemory) All(_ context.Context) ([]models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Claim, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *cloneClaim(s.claims[id]))
	}
	return out, nil
}

func (s *InMemory) ListPending(_ context.Context) ([]models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Claim
	for _, id := range s.order {
		if c := s.claims[id]; !c.Submitted {
			out = append(out, *cloneClaim(c))
		}
	}
	return out, nil
}

func (s *InMemory) MarkIssued(ctx context.Context, id uuid.UUID, credentialID string, replacement *models.Replacement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if replacement != nil && replacement.UserID != c.UserID {
		for otherID, other := range s.claims {
			if otherID != id && other.UserID == replacement.UserID {
				return sentinel.ErrConflict
			}
		}
	}

	c.Submitted = true
	c.CredentialID = credentialID
	if replacement != nil {
		c.UserID = replacement.UserID
		c.Vector = append(vector.Continuous(nil), replacement.Vector...)
		c.Metadata = replacement.Metadata
		c.PublicKey = replacement.PublicKey
	}
	c.UpdatedAt = requestcontext.Now(ctx)
	return nil
}

func (s *InMemory) MarkPending(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.Submitted = false
	c.UpdatedAt = requestcontext.Now(ctx)
	return nil
}

func cloneClaim(c *models.Claim) *models.Claim {
	out := *c
	out.Vector = append(vector.Continuous(nil), c.Vector...)
	return &out
}
