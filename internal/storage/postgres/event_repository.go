package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	querier
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{querier{pool: pool}}
}

const eventColumns = `id, name, category, date, visitors, total_present, created_at`

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Name, &e.Category, &e.Date, &e.Visitors, &e.TotalPresent, &e.CreatedAt)
	return e, err
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, category, date, visitors, total_present)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.exec(ctx, stmt, event.ID, event.Name, event.Category, event.Date, event.Visitors, event.TotalPresent)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET name = $2, category = $3, date = $4, visitors = $5, total_present = $6
WHERE id = $1`
	tag, err := r.exec(ctx, stmt, event.ID, event.Name, event.Category, event.Date, event.Visitors, event.TotalPresent)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) ListEvents(ctx context.Context, category *domain.Category) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if category != nil {
		query += ` WHERE category = $1`
		args = append(args, *category)
	}
	query += ` ORDER BY date ASC`
	return r.listEvents(ctx, query, args...)
}

func (r *EventRepository) ListEventsBetween(ctx context.Context, category *domain.Category, start, end time.Time) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE date >= $1 AND date <= $2`
	args := []any{start, end}
	if category != nil {
		query += ` AND category = $3`
		args = append(args, *category)
	}
	query += ` ORDER BY date ASC`
	return r.listEvents(ctx, query, args...)
}

func (r *EventRepository) NextEventAfter(ctx context.Context, category *domain.Category, after time.Time) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE date >= $1`
	args := []any{after}
	if category != nil {
		query += ` AND category = $2`
		args = append(args, *category)
	}
	query += ` ORDER BY date ASC LIMIT 1`

	e, err := scanEvent(r.queryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("next event: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) ListUpcomingEvents(ctx context.Context, category *domain.Category, after time.Time, limit int) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE date >= $1`
	args := []any{after}
	if category != nil {
		query += fmt.Sprintf(` AND category = $%d`, len(args)+1)
		args = append(args, *category)
	}
	query += ` ORDER BY date ASC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}
	return r.listEvents(ctx, query, args...)
}

func (r *EventRepository) ListPastEvents(ctx context.Context, category *domain.Category, before time.Time, limit int) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE date < $1`
	args := []any{before}
	if category != nil {
		query += fmt.Sprintf(` AND category = $%d`, len(args)+1)
		args = append(args, *category)
	}
	query += ` ORDER BY date DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}
	return r.listEvents(ctx, query, args...)
}

func (r *EventRepository) listEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
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
