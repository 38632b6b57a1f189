package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/app"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepository struct {
	querier
}

func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{querier{pool: pool}}
}

const participantColumns = `id, name, is_visitor, birth_date, created_at`

func scanParticipant(row pgx.Row) (domain.Participant, error) {
	var p domain.Participant
	err := row.Scan(&p.ID, &p.Name, &p.IsVisitor, &p.BirthDate, &p.CreatedAt)
	return p, err
}

func (r *ParticipantRepository) CreateParticipant(ctx context.Context, p domain.Participant) error {
	const stmt = `
INSERT INTO participants (id, name, is_visitor, birth_date)
VALUES ($1, $2, $3, $4)`
	if _, err := r.exec(ctx, stmt, p.ID, p.Name, p.IsVisitor, p.BirthDate); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) GetParticipant(ctx context.Context, id string) (domain.Participant, error) {
	const query = `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	p, err := scanParticipant(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Participant{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Participant{}, domain.ErrParticipantNotFound
		}
		return domain.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}

func (r *ParticipantRepository) UpdateParticipant(ctx context.Context, p domain.Participant) error {
	const stmt = `
UPDATE participants
SET name = $2, is_visitor = $3, birth_date = $4
WHERE id = $1`
	tag, err := r.exec(ctx, stmt, p.ID, p.Name, p.IsVisitor, p.BirthDate)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *ParticipantRepository) DeleteParticipant(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *ParticipantRepository) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	const query = `SELECT ` + participantColumns + ` FROM participants ORDER BY name ASC`
	return r.listParticipants(ctx, query)
}

func (r *ParticipantRepository) ListParticipantsByVisitor(ctx context.Context, isVisitor bool) ([]domain.Participant, error) {
	const query = `SELECT ` + participantColumns + ` FROM participants WHERE is_visitor = $1 ORDER BY name ASC`
	return r.listParticipants(ctx, query, isVisitor)
}

func (r *ParticipantRepository) SearchParticipantsByName(ctx context.Context, name string) ([]domain.Participant, error) {
	const query = `SELECT ` + participantColumns + ` FROM participants WHERE name ILIKE '%' || $1 || '%' ORDER BY name ASC`
	return r.listParticipants(ctx, query, name)
}

func (r *ParticipantRepository) ListBirthdays(ctx context.Context, month int) ([]domain.Participant, error) {
	const query = `
SELECT ` + participantColumns + `
FROM participants
WHERE birth_date IS NOT NULL AND EXTRACT(MONTH FROM birth_date) = $1
ORDER BY name ASC`
	return r.listParticipants(ctx, query, month)
}

func (r *ParticipantRepository) CountAttendanceByParticipant(ctx context.Context, participantID string, present bool) (int, error) {
	var count int
	err := r.queryRow(ctx,
		`SELECT COUNT(*) FROM attendance WHERE participant_id = $1 AND present = $2`,
		participantID, present,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

func (r *ParticipantRepository) LastPresenceDate(ctx context.Context, participantID string) (*time.Time, error) {
	const query = `
SELECT e.date
FROM attendance a
JOIN events e ON e.id = a.event_id
WHERE a.participant_id = $1 AND a.present = TRUE
ORDER BY e.date DESC
LIMIT 1`
	var date time.Time
	err := r.queryRow(ctx, query, participantID).Scan(&date)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("last presence date: %w", err)
	}
	return &date, nil
}

func (r *ParticipantRepository) ListHistory(ctx context.Context, participantID string) ([]app.AttendanceHistoryEntry, error) {
	const query = `
SELECT e.name, e.category, e.date, a.present
FROM attendance a
JOIN events e ON e.id = a.event_id
WHERE a.participant_id = $1
ORDER BY e.date DESC`
	return r.listHistory(ctx, query, participantID)
}

func (r *ParticipantRepository) ListHistoryBetween(ctx context.Context, participantID string, start, end time.Time) ([]app.AttendanceHistoryEntry, error) {
	const query = `
SELECT e.name, e.category, e.date, a.present
FROM attendance a
JOIN events e ON e.id = a.event_id
WHERE a.participant_id = $1 AND e.date >= $2 AND e.date <= $3
ORDER BY e.date ASC`
	return r.listHistory(ctx, query, participantID, start, end)
}

func (r *ParticipantRepository) listHistory(ctx context.Context, query string, args ...any) ([]app.AttendanceHistoryEntry, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []app.AttendanceHistoryEntry
	for rows.Next() {
		var e app.AttendanceHistoryEntry
		if err := rows.Scan(&e.EventName, &e.Category, &e.Date, &e.Present); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate history: %w", rows.Err())
	}
	return entries, nil
}

func (r *ParticipantRepository) listParticipants(ctx context.Context, query string, args ...any) ([]domain.Participant, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
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
