package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lensfolio/api/models"
)

func TestStitcher_CreateThenUpdate(t *testing.T) {
	sessions := newMemSessionStore()
	s := NewStitcher(sessions)
	clock := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, s.Touch(ctx, Visit{SessionID: "v", Page: "/", IPHash: "h1", Device: models.DeviceDesktop, Country: "Unknown"}))

	clock = clock.Add(time.Minute)
	require.NoError(t, s.Touch(ctx, Visit{SessionID: "v", Page: "/luts", IPHash: "h2", Device: models.DeviceMobile, Country: "NZ"}))

	sess, err := sessions.GetSession(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.PageCount)
	assert.Equal(t, "/", sess.FirstPage)
	assert.Equal(t, "/luts", sess.LastPage)
	assert.Equal(t, "h1", sess.IPHash, "creation fields are kept")
	assert.Equal(t, models.DeviceDesktop, sess.Device)
	assert.Equal(t, time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC), sess.StartedAt)
	assert.Equal(t, time.Date(2026, 10, 18, 10, 1, 0, 0, time.UTC), sess.EndedAt)
}

func TestStitcher_LostCreateRaceFallsThroughToUpdate(t *testing.T) {
	mem := newMemSessionStore()
	ctx := context.Background()
	now := time.Now().UTC()
	_, err := mem.InsertSession(ctx, &models.Session{
		SessionID: "v", FirstPage: "/", LastPage: "/", PageCount: 1, StartedAt: now, EndedAt: now,
	})
	require.NoError(t, err)

	s := NewStitcher(&racingSessionStore{memSessionStore: mem})
	require.NoError(t, s.Touch(ctx, Visit{SessionID: "v", Page: "/b"}))

	sess, err := mem.GetSession(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.PageCount)
	assert.Equal(t, "/b", sess.LastPage)
}

func TestStitcher_PropagatesStoreErrors(t *testing.T) {
	mem := newMemSessionStore()
	mem.insertErr = errStoreDown
	s := NewStitcher(mem)

	err := s.Touch(context.Background(), Visit{SessionID: "v", Page: "/"})
	assert.ErrorIs(t, err, errStoreDown)
}
