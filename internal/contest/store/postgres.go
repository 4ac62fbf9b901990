package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"faceid/internal/contest/models"
	"faceid/pkg/platform/sentinel"
	txcontext "faceid/pkg/platform/tx"
	"faceid/pkg/vector"
)

// PostgresStore persists contest participants in PostgreSQL. The ledger is
// the authority on registration; these rows are a read cache for scoring.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// SaveParticipant inserts the contest index row and the participant in one
// transaction. Existing rows are left untouched.
func (s *PostgresStore) SaveParticipant(ctx context.Context, p *models.Participant) (bool, error) {
	var inserted bool
	err := txcontext.RunInTx(ctx, s.db, func(ctx context.Context) error {
		if _, err := s.execer(ctx).ExecContext(ctx,
			`INSERT INTO contests (id) VALUES ($1) ON CONFLICT DO NOTHING`, int64(p.ContestID)); err != nil {
			return fmt.Errorf("insert contest: %w", err)
		}
		res, err := s.execer(ctx).ExecContext(ctx, `
			INSERT INTO participants (contest_id, image_hash, image_content, name, reward_address, proof, feature_vector, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (contest_id, image_hash) DO NOTHING
		`,
			int64(p.ContestID),
			p.ImageHash,
			p.ImageContent,
			p.Name,
			p.RewardAddress,
			[]byte(p.Proof),
			pq.Array(p.FeatureVector.Ints()),
			p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		inserted = n == 1
		return nil
	})
	return inserted, err
}

const participantColumns = `contest_id, image_hash, image_content, name, reward_address, proof, feature_vector, created_at`

func (s *PostgresStore) ListParticipants(ctx context.Context, contestID uint64) ([]models.Participant, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+participantColumns+`
		FROM participants
		WHERE contest_id = $1
		ORDER BY created_at, image_hash
	`, int64(contestID))
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindParticipant(ctx context.Context, contestID uint64, imageHash string) (*models.Participant, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+participantColumns+`
		FROM participants
		WHERE contest_id = $1 AND image_hash = $2
	`, int64(contestID), imageHash)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row scanner) (*models.Participant, error) {
	var (
		p         models.Participant
		contestID int64
		proof     []byte
		features  pq.Int64Array
	)
	if err := row.Scan(&contestID, &p.ImageHash, &p.ImageContent, &p.Name, &p.RewardAddress, &proof, &features, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan participant: %w", err)
	}
	ints := make([]int, len(features))
	for i, f := range features {
		ints[i] = int(f)
	}
	v, err := vector.ParseDiscrete(ints)
	if err != nil {
		return nil, fmt.Errorf("decode participant vector: %w", err)
	}
	p.ContestID = uint64(contestID)
	p.Proof = proof
	p.FeatureVector = v
	return &p, nil
}
