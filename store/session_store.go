package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lensfolio/api/models"
)

var ErrSessionNotFound = errors.New("session not found")

const createSessionsTable = `
	CREATE TABLE IF NOT EXISTS analytics_sessions (
		session_id TEXT PRIMARY KEY,
		ip_hash TEXT NOT NULL,
		user_agent TEXT NOT NULL DEFAULT '',
		device TEXT NOT NULL,
		country TEXT NOT NULL,
		first_page TEXT NOT NULL,
		last_page TEXT NOT NULL,
		page_count INTEGER NOT NULL DEFAULT 1 CHECK (page_count >= 1),
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analytics_sessions_started_at ON analytics_sessions (started_at);
`

// SessionStore keeps one row per visit in PostgreSQL.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("failed to create analytics_sessions table: %w", err)
	}
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	query := `
		SELECT session_id, ip_hash, user_agent, device, country, first_page, last_page,
			page_count, started_at, ended_at
		FROM analytics_sessions
		WHERE session_id = $1;
	`
	sess, err := scanSession(s.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// InsertSession creates the row unless one already exists for the id. The returned
// bool reports whether this call created it.
func (s *SessionStore) InsertSession(ctx context.Context, sess *models.Session) (bool, error) {
	query := `
		INSERT INTO analytics_sessions (
			session_id, ip_hash, user_agent, device, country, first_page, last_page,
			page_count, started_at, ended_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id) DO NOTHING;
	`
	res, err := s.db.ExecContext(ctx, query,
		sess.SessionID,
		sess.IPHash,
		sess.UserAgent,
		string(sess.Device),
		sess.Country,
		sess.FirstPage,
		sess.LastPage,
		sess.PageCount,
		sess.StartedAt,
		sess.EndedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read inserted rows: %w", err)
	}
	return n == 1, nil
}

// TouchSession records one more page view. The increment happens inside the
// statement so concurrent touches never lose a count, and ended_at never moves back.
func (s *SessionStore) TouchSession(ctx context.Context, sessionID, page string, at time.Time) error {
	query := `
		UPDATE analytics_sessions
		SET last_page = $2,
			page_count = page_count + 1,
			ended_at = GREATEST(ended_at, $3)
		WHERE session_id = $1;
	`
	res, err := s.db.ExecContext(ctx, query, sessionID, page, at)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read updated rows: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) ListSessionsSince(ctx context.Context, since time.Time) ([]models.Session, error) {
	query := `
		SELECT session_id, ip_hash, user_agent, device, country, first_page, last_page,
			page_count, started_at, ended_at
		FROM analytics_sessions
		WHERE started_at >= $1
		ORDER BY started_at ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		sess   models.Session
		device string
	)
	err := row.Scan(
		&sess.SessionID,
		&sess.IPHash,
		&sess.UserAgent,
		&device,
		&sess.Country,
		&sess.FirstPage,
		&sess.LastPage,
		&sess.PageCount,
		&sess.StartedAt,
		&sess.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	sess.Device = models.Device(device)
	return &sess, nil
}
