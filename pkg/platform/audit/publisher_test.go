package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audit "faceid/pkg/platform/audit"
	"faceid/pkg/platform/audit/store/memory"
	"faceid/pkg/requestcontext"
)

type flakyStore struct {
	*memory.InMemoryStore
	fail  bool
	calls int
}

func (f *flakyStore) Append(ctx context.Context, e audit.Event) error {
	f.calls++
	if f.fail {
		return errors.New("connection refused")
	}
	return f.InMemoryStore.Append(ctx, e)
}

type PublisherSuite struct {
	suite.Suite
	store *flakyStore
	now   time.Time
	pub   *audit.Publisher
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.store = &flakyStore{InMemoryStore: memory.NewInMemoryStore()}
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.pub = audit.New(s.store,
		audit.WithBreaker(2, time.Minute),
		audit.WithClock(func() time.Time { return s.now }),
	)
}

func (s *PublisherSuite) TestFillsRequestScopedFields() {
	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	ctx = requestcontext.WithTime(ctx, s.now)

	s.pub.Emit(ctx, audit.Event{Action: audit.ActionClaimEnrolled, Subject: "claim-1"})

	events, err := s.pub.Recent(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("req-1", events[0].RequestID)
	s.Equal(s.now, events[0].Timestamp)
}

func (s *PublisherSuite) TestRecentIsNewestFirst() {
	ctx := context.Background()
	s.pub.Emit(ctx, audit.Event{Action: audit.ActionContestCreated, Subject: "1"})
	s.pub.Emit(ctx, audit.Event{Action: audit.ActionParticipantRegistered, Subject: "ab"})
	s.pub.Emit(ctx, audit.Event{Action: audit.ActionContestFinalized, Subject: "1"})

	events, err := s.pub.Recent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionContestFinalized, events[0].Action)
	s.Equal(audit.ActionParticipantRegistered, events[1].Action)
}

func (s *PublisherSuite) TestCircuitDropsWhileOpenThenProbes() {
	ctx := context.Background()
	s.store.fail = true
	s.pub.Emit(ctx, audit.Event{Action: audit.ActionCredentialRevoked})
	s.pub.Emit(ctx, audit.Event{Action: audit.ActionCredentialRevoked})
	s.Equal(2, s.store.calls)

	// open: dropped without touching the store
	s.pub.Emit(ctx, audit.Event{Action: audit.ActionCredentialRevoked})
	s.Equal(2, s.store.calls)

	s.store.fail = false
	s.now = s.now.Add(time.Minute)
	s.pub.Emit(ctx, audit.Event{Action: audit.ActionIdentityReplaced, Subject: "claim-2"})
	s.Equal(3, s.store.calls)

	events, err := s.pub.Recent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("claim-2", events[0].Subject)
}

func (s *PublisherSuite) TestNilPublisherIsNoop() {
	var p *audit.Publisher
	s.NotPanics(func() {
		p.Emit(context.Background(), audit.Event{Action: audit.ActionClaimEnrolled})
	})
}

func TestActionCategory(t *testing.T) {
	if audit.ActionIdentityReplaced.Category() != audit.CategoryCompliance {
		t.Fatalf("identity replacement must be a compliance event")
	}
	if audit.ActionParticipantRegistered.Category() != audit.CategoryOperations {
		t.Fatalf("registration must be an operations event")
	}
}
