// Package analytics records site events, stitches them into visits and summarizes
// them for the dashboard.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lensfolio/api/models"
)

var ErrValidation = errors.New("missing required fields")

// stitchTimeout bounds the background session update once the request has returned.
const stitchTimeout = 10 * time.Second

type EventWriter interface {
	InsertEvent(ctx context.Context, event *models.AnalyticsEvent) error
}

type Recorder struct {
	events   EventWriter
	stitcher *Stitcher
	salt     string
	log      *zap.Logger

	wg sync.WaitGroup
}

func NewRecorder(events EventWriter, stitcher *Stitcher, ipSalt string, log *zap.Logger) *Recorder {
	return &Recorder{
		events:   events,
		stitcher: stitcher,
		salt:     ipSalt,
		log:      log,
	}
}

// Validate checks the fields every event must carry.
func Validate(event *models.AnalyticsEvent) error {
	var missing []string
	if event.Event == "" {
		missing = append(missing, "event")
	}
	if strings.TrimSpace(event.Page) == "" {
		missing = append(missing, "page")
	}
	if event.Timestamp.IsZero() {
		missing = append(missing, "timestamp")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if !event.Event.Valid() {
		return fmt.Errorf("%w: unknown event %q", ErrValidation, event.Event)
	}
	return nil
}

// Record validates and enriches event, persists it and, for page views carrying a
// session id, schedules a session update that cannot fail the call.
func (r *Recorder) Record(ctx context.Context, event *models.AnalyticsEvent, clientIP string) error {
	if err := Validate(event); err != nil {
		return err
	}

	event.EventID = uuid.New().String()
	event.Device = ClassifyDevice(event.UserAgent)
	event.Country = LookupCountry(clientIP)
	event.IPHash = HashIP(clientIP, r.salt)

	if err := r.events.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to persist event: %w", err)
	}

	if event.Event == models.EventPageView && event.SessionID != "" && r.stitcher != nil {
		r.dispatchTouch(ctx, Visit{
			SessionID: event.SessionID,
			Page:      event.Page,
			IPHash:    event.IPHash,
			UserAgent: event.UserAgent,
			Device:    event.Device,
			Country:   event.Country,
		})
	}
	return nil
}

func (r *Recorder) dispatchTouch(parent context.Context, visit Visit) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), stitchTimeout)
		defer cancel()

		if err := r.stitcher.Touch(ctx, visit); err != nil {
			r.log.Warn("session update failed",
				zap.String("session_id", visit.SessionID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until every scheduled session update has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
