package analytics

import (
	"context"
	"errors"
	"time"

	"lensfolio/api/models"
	"lensfolio/api/store"
)

type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	InsertSession(ctx context.Context, sess *models.Session) (bool, error)
	TouchSession(ctx context.Context, sessionID, page string, at time.Time) error
}

// Visit is the slice of a page view the stitcher needs.
type Visit struct {
	SessionID string
	Page      string
	IPHash    string
	UserAgent string
	Device    models.Device
	Country   string
}

type Stitcher struct {
	sessions SessionStore
	now      func() time.Time
}

func NewStitcher(sessions SessionStore) *Stitcher {
	return &Stitcher{sessions: sessions, now: time.Now}
}

// Touch creates the session on its first page view and otherwise advances
// last_page, page_count and ended_at. Fields set at creation are never rewritten.
func (s *Stitcher) Touch(ctx context.Context, v Visit) error {
	now := s.now().UTC()

	_, err := s.sessions.GetSession(ctx, v.SessionID)
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		created, err := s.sessions.InsertSession(ctx, &models.Session{
			SessionID: v.SessionID,
			IPHash:    v.IPHash,
			UserAgent: v.UserAgent,
			Device:    v.Device,
			Country:   v.Country,
			FirstPage: v.Page,
			LastPage:  v.Page,
			PageCount: 1,
			StartedAt: now,
			EndedAt:   now,
		})
		if err != nil {
			return err
		}
		if created {
			return nil
		}
		// Another request created it between our read and insert.
	case err != nil:
		return err
	}

	return s.sessions.TouchSession(ctx, v.SessionID, v.Page, now)
}
