//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audit "faceid/pkg/platform/audit"
	"faceid/pkg/platform/audit/store/postgres"
	txcontext "faceid/pkg/platform/tx"
	"faceid/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *PostgresStoreSuite) TestAppendAndListRecent() {
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Action:    audit.ActionClaimEnrolled,
		Subject:   "claim-1",
		RequestID: "req-1",
		Detail:    map[string]string{"credential_id": "cred-1"},
		Timestamp: base,
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Action:    audit.ActionIdentityReplaced,
		Subject:   "claim-1",
		Timestamp: base.Add(time.Minute),
	}))

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionIdentityReplaced, events[0].Action)
	s.Empty(events[0].Detail)
	s.Equal("cred-1", events[1].Detail["credential_id"])
	s.Equal("req-1", events[1].RequestID)
	s.True(base.Equal(events[1].Timestamp))

	limited, err := s.store.ListRecent(ctx, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *PostgresStoreSuite) TestAppendJoinsContextTransaction() {
	ctx := context.Background()
	err := txcontext.RunInTx(ctx, s.postgres.DB, func(txCtx context.Context) error {
		if err := s.store.Append(txCtx, audit.Event{Action: audit.ActionContestCreated, Subject: "3", Timestamp: time.Now()}); err != nil {
			return err
		}
		return sql.ErrTxDone
	})
	s.ErrorIs(err, sql.ErrTxDone)

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Empty(events)
}
