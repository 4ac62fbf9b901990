package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"faceid/internal/claims/models"
	"faceid/pkg/platform/sentinel"
	"faceid/pkg/requestcontext"
	"faceid/pkg/vector"
)

type ClaimStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestClaimStoreSuite(t *testing.T) {
	suite.Run(t, new(ClaimStoreSuite))
}

func (s *ClaimStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func newClaim(userID string, fill float64) *models.Claim {
	v := make(vector.Continuous, vector.Dimension)
	for i := range v {
		v[i] = fill
	}
	now := time.Now()
	return &models.Claim{
		ID:        uuid.New(),
		UserID:    userID,
		Vector:    v,
		Metadata:  "{}",
		PublicKey: "pk-" + userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestCreateAndAll verifies insertion order and copy semantics.
func (s *ClaimStoreSuite) TestCreateAndAll() {
	s.Run("returns claims in insertion order", func() {
		a, b := newClaim("a", 0.1), newClaim("b", 0.2)
		s.Require().NoError(s.store.Create(s.ctx, a))
		s.Require().NoError(s.store.Create(s.ctx, b))

		all, err := s.store.All(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 2)
		s.Equal("a", all[0].UserID)
		s.Equal("b", all[1].UserID)
	})

	s.Run("mutating the result does not touch the store", func() {
		all, err := s.store.All(s.ctx)
		s.Require().NoError(err)
		all[0].Vector[0] = 99

		again, err := s.store.All(s.ctx)
		s.Require().NoError(err)
		s.Equal(0.1, again[0].Vector[0])
	})

	s.Run("duplicate user id conflicts", func() {
		err := s.store.Create(s.ctx, newClaim("a", 0.5))
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

// TestIssuanceTransitions verifies the pending -> issued -> pending cycle.
func (s *ClaimStoreSuite) TestIssuanceTransitions() {
	c := newClaim("carol", 0.3)
	s.Require().NoError(s.store.Create(s.ctx, c))

	pending, err := s.store.ListPending(s.ctx)
	s.Require().NoError(err)
	s.Len(pending, 1)

	s.Run("mark issued without replacement keeps identity fields", func() {
		s.Require().NoError(s.store.MarkIssued(s.ctx, c.ID, "cred-1", nil))
		all, _ := s.store.All(s.ctx)
		s.True(all[0].Submitted)
		s.Equal("cred-1", all[0].CredentialID)
		s.Equal("carol", all[0].UserID)
		s.Equal(models.ClaimStatusIssued, all[0].Status())
	})

	s.Run("replacement overwrites identity fields", func() {
		later := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		ctx := requestcontext.WithTime(s.ctx, later)
		repl := &models.Replacement{UserID: "carol-2", Vector: newClaim("x", 0.31).Vector, Metadata: "m2", PublicKey: "pk2"}

		s.Require().NoError(s.store.MarkIssued(ctx, c.ID, "cred-2", repl))
		all, _ := s.store.All(s.ctx)
		s.Require().Len(all, 1)
		s.Equal("carol-2", all[0].UserID)
		s.Equal(0.31, all[0].Vector[0])
		s.Equal("cred-2", all[0].CredentialID)
		s.Equal(later, all[0].UpdatedAt)
	})

	s.Run("mark pending resets the flag only", func() {
		s.Require().NoError(s.store.MarkPending(s.ctx, c.ID))
		pending, err := s.store.ListPending(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(pending, 1)
		s.Equal("cred-2", pending[0].CredentialID)
	})

	s.Run("unknown ids are not found", func() {
		s.ErrorIs(s.store.MarkIssued(s.ctx, uuid.New(), "x", nil), sentinel.ErrNotFound)
		s.ErrorIs(s.store.MarkPending(s.ctx, uuid.New()), sentinel.ErrNotFound)
	})

	s.Run("replacement onto another user's id conflicts", func() {
		other := newClaim("dave", 0.9)
		s.Require().NoError(s.store.Create(s.ctx, other))
		err := s.store.MarkIssued(s.ctx, c.ID, "cred-3", &models.Replacement{UserID: "dave", Vector: other.Vector})
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}
