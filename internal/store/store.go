// Package store persists processed candidate records in PostgreSQL.
// Skills are stored as a JSONB array so skill filters can match inside the
// list without a join table.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"skillparse/internal/config"
	"skillparse/internal/errors"
	"skillparse/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	skills        JSONB NOT NULL DEFAULT '[]',
	fe_score      INTEGER NOT NULL,
	be_score      INTEGER NOT NULL,
	seniority     TEXT NOT NULL,
	qualification TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_candidates_created_at ON candidates (created_at DESC);
`

// StoredCandidate is a candidate record as persisted, with identity and
// creation time assigned by the store.
type StoredCandidate struct {
	ID uuid.UUID `json:"id"`
	types.CandidateRecord
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows candidate queries. Zero-valued fields are ignored; all set
// fields must match (AND semantics). Skills match case-insensitively against
// the stored list; score minimums are inclusive.
type Filter struct {
	Skills        []string
	Seniority     string
	Qualification string
	MinFEScore    *int
	MinBEScore    *int
}

// CandidateStore persists and queries candidate records
type CandidateStore struct {
	db     *sql.DB
	logger *errors.Logger
}

// Open connects to PostgreSQL using the given configuration
func Open(cfg config.StorageConfig, logger *errors.Logger) (*CandidateStore, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to open postgres connection", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &CandidateStore{db: db, logger: logger}, nil
}

// NewWithDB wraps an existing database handle. Used by tests.
func NewWithDB(db *sql.DB, logger *errors.Logger) *CandidateStore {
	return &CandidateStore{db: db, logger: logger}
}

// EnsureSchema creates the candidates table if it does not exist
func (s *CandidateStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to create candidates schema", err)
	}
	return nil
}

// Save persists a candidate record and returns it with identity and
// creation time filled in.
func (s *CandidateStore) Save(ctx context.Context, record types.CandidateRecord) (StoredCandidate, error) {
	stored := StoredCandidate{
		ID:              uuid.New(),
		CandidateRecord: record,
	}

	skills, err := json.Marshal(record.Skills)
	if err != nil {
		return StoredCandidate{}, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to encode skills", err)
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO candidates (id, name, skills, fe_score, be_score, seniority, qualification)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		stored.ID, record.Name, skills, record.FEScore, record.BEScore,
		string(record.Seniority), string(record.Qualification),
	).Scan(&stored.CreatedAt)
	if err != nil {
		return StoredCandidate{}, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to insert candidate", err)
	}

	s.logger.Debug("Candidate stored",
		"id", stored.ID.String(),
		"name", record.Name,
		"skills", len(record.Skills))

	return stored, nil
}

// Query returns candidates matching the filter, newest first
func (s *CandidateStore) Query(ctx context.Context, filter Filter) ([]StoredCandidate, error) {
	query, args := buildQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to query candidates", err)
	}
	defer rows.Close()

	candidates := []StoredCandidate{}
	for rows.Next() {
		var c StoredCandidate
		var skills []byte
		if err := rows.Scan(&c.ID, &c.Name, &skills, &c.FEScore, &c.BEScore,
			&c.Seniority, &c.Qualification, &c.CreatedAt); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
				"Failed to scan candidate row", err)
		}
		if err := json.Unmarshal(skills, &c.Skills); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
				"Failed to decode stored skills", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to iterate candidate rows", err)
	}

	return candidates, nil
}

// buildQuery assembles the SELECT statement for a filter
func buildQuery(filter Filter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, name, skills, fe_score, be_score, seniority, qualification, created_at FROM candidates`)

	var conditions []string
	var args []any

	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, skill := range filter.Skills {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements_text(skills) AS s(skill) WHERE lower(s.skill) = lower(%s))`,
			arg(skill)))
	}
	if filter.Seniority != "" {
		conditions = append(conditions, fmt.Sprintf("seniority = %s", arg(strings.ToLower(filter.Seniority))))
	}
	if filter.Qualification != "" {
		conditions = append(conditions, fmt.Sprintf("qualification = %s", arg(strings.ToLower(filter.Qualification))))
	}
	if filter.MinFEScore != nil {
		conditions = append(conditions, fmt.Sprintf("fe_score >= %s", arg(*filter.MinFEScore)))
	}
	if filter.MinBEScore != nil {
		conditions = append(conditions, fmt.Sprintf("be_score >= %s", arg(*filter.MinBEScore)))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC")

	return sb.String(), args
}

// Count returns the total number of stored candidates
func (s *CandidateStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM candidates`).Scan(&count)
	if err != nil {
		return 0, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to count candidates", err)
	}
	return count, nil
}

// Ping checks database connectivity
func (s *CandidateStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle
func (s *CandidateStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
