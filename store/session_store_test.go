package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lensfolio/api/models"
)

var sessionColumns = []string{
	"session_id", "ip_hash", "user_agent", "device", "country", "first_page", "last_page",
	"page_count", "started_at", "ended_at",
}

func newMockStore(t *testing.T) (*SessionStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), mock
}

func TestSessionStore_GetSession(t *testing.T) {
	s, mock := newMockStore(t)
	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM analytics_sessions")).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow("sess-1", "hash", "ua", "Mobile", "Unknown", "/", "/a", 3, started, started.Add(time.Minute)))

	sess, err := s.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceMobile, sess.Device)
	assert.Equal(t, 3, sess.PageCount)
	assert.Equal(t, "/", sess.FirstPage)
	assert.Equal(t, "/a", sess.LastPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_GetSession_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM analytics_sessions")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	_, err := s.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_InsertSession_Conflict(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	sess := &models.Session{
		SessionID: "sess-1", IPHash: "hash", Device: models.DeviceDesktop, Country: "Unknown",
		FirstPage: "/", LastPage: "/", PageCount: 1, StartedAt: now, EndedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (session_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (session_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := s.InsertSession(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.InsertSession(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_TouchSession(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("page_count = page_count + 1")).
		WithArgs("sess-1", "/b", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("page_count = page_count + 1")).
		WithArgs("gone", "/b", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.TouchSession(context.Background(), "sess-1", "/b", at))
	assert.ErrorIs(t, s.TouchSession(context.Background(), "gone", "/b", at), ErrSessionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_ListSessionsSince(t *testing.T) {
	s, mock := newMockStore(t)
	since := time.Now().UTC().Add(-24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE started_at >= $1")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow("a", "h1", "ua", "Desktop", "Unknown", "/", "/", 1, since, since).
			AddRow("b", "h2", "ua", "Tablet", "Unknown", "/x", "/y", 2, since, since))

	sessions, err := s.ListSessionsSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, models.DeviceTablet, sessions[1].Device)
	assert.NoError(t, mock.ExpectationsWereMet())
}
