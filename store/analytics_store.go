package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lensfolio/api/database"
	"lensfolio/api/models"
)

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS analytics_events (
		event_id String,
		event_type LowCardinality(String),
		page String,
		timestamp DateTime64(3, 'UTC'),
		user_agent String,
		referrer String,
		utm_source String,
		utm_medium String,
		utm_campaign String,
		utm_term String,
		utm_content String,
		session_id String,
		device LowCardinality(String),
		country LowCardinality(String),
		ip_hash String,
		metadata String,
		created_at DateTime64(3, 'UTC') DEFAULT now64(3)
	) ENGINE = MergeTree
	PARTITION BY toYYYYMM(timestamp)
	ORDER BY (event_type, timestamp, event_id)
`

// AnalyticsStore keeps the append-only event log in ClickHouse.
type AnalyticsStore struct {
	DB  *database.ClickHouseClient
	log *zap.Logger
}

func NewAnalyticsStore(chClient *database.ClickHouseClient, log *zap.Logger) *AnalyticsStore {
	return &AnalyticsStore{
		DB:  chClient,
		log: log,
	}
}

func (s *AnalyticsStore) Migrate(ctx context.Context) error {
	if err := s.DB.Conn.Exec(ctx, createEventsTable); err != nil {
		return fmt.Errorf("failed to create analytics_events table: %w", err)
	}
	return nil
}

func (s *AnalyticsStore) InsertEvent(ctx context.Context, event *models.AnalyticsEvent) error {
	return s.InsertAnalyticsEvents(ctx, []models.AnalyticsEvent{*event})
}

func (s *AnalyticsStore) InsertAnalyticsEvents(ctx context.Context, events []models.AnalyticsEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO analytics_events (
			event_id, event_type, page, timestamp, user_agent, referrer,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			session_id, device, country, ip_hash, metadata
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			string(event.Event),
			event.Page,
			event.Timestamp.UTC(),
			event.UserAgent,
			event.Referrer,
			event.UTMSource,
			event.UTMMedium,
			event.UTMCampaign,
			event.UTMTerm,
			event.UTMContent,
			event.SessionID,
			string(event.Device),
			event.Country,
			event.IPHash,
			string(event.Metadata),
		)
		if err != nil {
			batch.Abort()
			return fmt.Errorf("failed to append event %s to batch: %w", event.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	s.log.Debug("Inserted analytics events", zap.Int("count", len(events)))
	return nil
}

// ListEvents returns events stamped at or after since, oldest first. An empty kind
// means every kind.
func (s *AnalyticsStore) ListEvents(ctx context.Context, since time.Time, kind models.EventKind) ([]models.AnalyticsEvent, error) {
	query := `
		SELECT event_id, event_type, page, timestamp, user_agent, referrer,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			session_id, device, country, ip_hash, metadata
		FROM analytics_events
		WHERE timestamp >= ?`
	args := []interface{}{since.UTC()}
	if kind != "" {
		query += " AND event_type = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY timestamp ASC"

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics events: %w", err)
	}
	defer rows.Close()

	events := []models.AnalyticsEvent{}
	for rows.Next() {
		var (
			e                           models.AnalyticsEvent
			eventType, device, metadata string
		)
		if err := rows.Scan(
			&e.EventID, &eventType, &e.Page, &e.Timestamp, &e.UserAgent, &e.Referrer,
			&e.UTMSource, &e.UTMMedium, &e.UTMCampaign, &e.UTMTerm, &e.UTMContent,
			&e.SessionID, &device, &e.Country, &e.IPHash, &metadata,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analytics event: %w", err)
		}
		e.Event = models.EventKind(eventType)
		e.Device = models.Device(device)
		if metadata != "" {
			e.Metadata = []byte(metadata)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analytics events: %w", err)
	}
	return events, nil
}
