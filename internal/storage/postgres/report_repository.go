package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository struct {
	querier
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{querier{pool: pool}}
}

func (r *ReportRepository) ListEventsInWindow(ctx context.Context, category domain.Category, start, end time.Time) ([]domain.Event, error) {
	const query = `
SELECT id, name, category, date, visitors, total_present, created_at
FROM events
WHERE category = $1 AND date >= $2 AND date <= $3
ORDER BY date ASC`
	rows, err := r.query(ctx, query, category, start, end)
	if err != nil {
		return nil, fmt.Errorf("list events in window: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

// DistinctPresentParticipants returns each participant at most once across
// the given events, present rows only, in first-seen name order.
func (r *ReportRepository) DistinctPresentParticipants(ctx context.Context, eventIDs []string) ([]domain.Participant, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	const query = `
SELECT DISTINCT ON (p.id) p.id, p.name, p.is_visitor, p.birth_date, p.created_at
FROM attendance a
JOIN participants p ON p.id = a.participant_id
WHERE a.event_id = ANY($1) AND a.present = TRUE
ORDER BY p.id, p.name`
	rows, err := r.query(ctx, query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("distinct present participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate participants: %w", rows.Err())
	}
	return participants, nil
}
