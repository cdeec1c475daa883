package analytics

import (
	"context"
	"fmt"
	"time"

	"lensfolio/api/models"
	"lensfolio/api/utils"
)

type EventReader interface {
	ListEvents(ctx context.Context, since time.Time, kind models.EventKind) ([]models.AnalyticsEvent, error)
}

type SessionReader interface {
	ListSessionsSince(ctx context.Context, since time.Time) ([]models.Session, error)
}

// Reporter loads a summary window from the stores and hands it to the Aggregator.
type Reporter struct {
	events     EventReader
	sessions   SessionReader
	aggregator *Aggregator
	now        func() time.Time
}

func NewReporter(events EventReader, sessions SessionReader, aggregator *Aggregator) *Reporter {
	return &Reporter{
		events:     events,
		sessions:   sessions,
		aggregator: aggregator,
		now:        time.Now,
	}
}

// Summary resolves rangeKey (24h, 7d, 30d, 90d) and summarizes that window. A
// non-empty kind restricts which events are loaded, so any kind other than
// page_view leaves the page breakdowns empty and shows up only in EventCounts.
func (r *Reporter) Summary(ctx context.Context, rangeKey string, kind models.EventKind) (*models.AnalyticsSummary, error) {
	key, span := utils.ResolveRange(rangeKey)
	windowStart := r.now().UTC().Add(-span)

	events, err := r.events.ListEvents(ctx, windowStart, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	sessions, err := r.sessions.ListSessionsSince(ctx, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	summary := r.aggregator.Summarize(windowStart, events, sessions)
	summary.Range = key
	return summary, nil
}
