package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"faceid/internal/claims/models"
	"faceid/pkg/platform/sentinel"
	txcontext "faceid/pkg/platform/tx"
	"faceid/pkg/requestcontext"
	"faceid/pkg/vector"
)

const uniqueViolation = "23505"

// PostgresStore persists claims in PostgreSQL. Vectors are stored in their
// canonical string form.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed claim store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO claims (id, user_id, vector, metadata, public_key, credential_id, is_submitted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		claim.ID,
		claim.UserID,
		claim.Vector.String(),
		claim.Metadata,
		claim.PublicKey,
		claim.CredentialID,
		claim.Submitted,
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

func (s *PostgresStore) All(ctx context.Context) ([]models.Claim, error) {
	return s.list(ctx, `
		SELECT id, user_id, vector, metadata, public_key, credential_id, is_submitted, created_at, updated_at
		FROM claims
		ORDER BY created_at, id
	`)
}

func (s *PostgresStore) ListPending(ctx context.Context) ([]models.Claim, error) {
	return s.list(ctx, `
		SELECT id, user_id, vector, metadata, public_key, credential_id, is_submitted, created_at, updated_at
		FROM claims
		WHERE NOT is_submitted
		ORDER BY created_at, id
	`)
}

// MarkIssued records the credential and, for replacements, overwrites the
// identity fields in the same statement.
func (s *PostgresStore) MarkIssued(ctx context.Context, id uuid.UUID, credentialID string, replacement *models.Replacement) error {
	now := requestcontext.Now(ctx)
	var (
		res sql.Result
		err error
	)
	if replacement == nil {
		res, err = s.execer(ctx).ExecContext(ctx, `
			UPDATE claims
			SET is_submitted = TRUE, credential_id = $2, updated_at = $3
			WHERE id = $1
		`, id, credentialID, now)
	} else {
		res, err = s.execer(ctx).ExecContext(ctx, `
			UPDATE claims
			SET is_submitted = TRUE, credential_id = $2, updated_at = $3,
			    user_id = $4, vector = $5, metadata = $6, public_key = $7
			WHERE id = $1
		`, id, credentialID, now,
			replacement.UserID, replacement.Vector.String(), replacement.Metadata, replacement.PublicKey)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("mark claim issued: %w", err)
	}
	return expectOneRow(res, "mark claim issued")
}

func (s *PostgresStore) MarkPending(ctx context.Context, id uuid.UUID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE claims SET is_submitted = FALSE, updated_at = $2 WHERE id = $1
	`, id, requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("mark claim pending: %w", err)
	}
	return expectOneRow(res, "mark claim pending")
}

func (s *PostgresStore) list(ctx context.Context, query string) ([]models.Claim, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var out []models.Claim
	for rows.Next() {
		var (
			c   models.Claim
			raw string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &raw, &c.Metadata, &c.PublicKey, &c.CredentialID, &c.Submitted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		c.Vector, err = vector.ParseContinuousString(raw)
		if err != nil {
			return nil, fmt.Errorf("decode claim %s vector: %w", c.ID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}
	return out, nil
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
