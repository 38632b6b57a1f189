package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/app"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttendanceRepository backs both the registration workflow and the
// single-record attendance CRUD.
type AttendanceRepository struct {
	querier
}

func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{querier{pool: pool}}
}

func (r *AttendanceRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetEventForUpdate locks the event row so concurrent registration batches
// for the same event serialize on it.
func (r *AttendanceRepository) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `
SELECT id, name, category, date, visitors, total_present, created_at
FROM events WHERE id = $1 FOR UPDATE`
	e, err := scanEvent(r.queryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event for update: %w", err)
	}
	return e, nil
}

func (r *AttendanceRepository) CreateParticipant(ctx context.Context, p domain.Participant) error {
	const stmt = `
INSERT INTO participants (id, name, is_visitor, birth_date)
VALUES ($1, $2, $3, $4)`
	if _, err := r.exec(ctx, stmt, p.ID, p.Name, p.IsVisitor, p.BirthDate); err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

// CreateAttendanceBatch inserts the whole batch in one statement. Rows that
// collide on (event_id, participant_id) — with existing rows or with earlier
// rows of the same batch — are dropped, and the count of rows actually
// inserted is returned.
func (r *AttendanceRepository) CreateAttendanceBatch(ctx context.Context, records []domain.Attendance) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO attendance (id, event_id, participant_id, present) VALUES `)
	args := make([]any, 0, len(records)*4)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, rec.ID, rec.EventID, rec.ParticipantID, rec.Present)
	}
	sb.WriteString(` ON CONFLICT (event_id, participant_id) DO NOTHING`)

	tag, err := r.exec(ctx, sb.String(), args...)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return 0, domain.ErrParticipantNotFound
		}
		return 0, fmt.Errorf("create attendance batch: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *AttendanceRepository) ListMemberIDs(ctx context.Context) ([]string, error) {
	rows, err := r.query(ctx, `SELECT id FROM participants WHERE is_visitor = FALSE ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list member ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate member ids: %w", rows.Err())
	}
	return ids, nil
}

func (r *AttendanceRepository) CountPresences(ctx context.Context, participantID string) (int, error) {
	var count int
	err := r.queryRow(ctx,
		`SELECT COUNT(*) FROM attendance WHERE participant_id = $1 AND present = TRUE`,
		participantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count presences: %w", err)
	}
	return count, nil
}

func (r *AttendanceRepository) PromoteToMember(ctx context.Context, participantID string) error {
	if _, err := r.exec(ctx,
		`UPDATE participants SET is_visitor = FALSE WHERE id = $1`,
		participantID,
	); err != nil {
		return fmt.Errorf("promote to member: %w", err)
	}
	return nil
}

// AddEventCounters applies the increments relative to the stored values, not
// values read earlier in the call.
func (r *AttendanceRepository) AddEventCounters(ctx context.Context, eventID string, present, visitors int) error {
	tag, err := r.exec(ctx,
		`UPDATE events SET total_present = total_present + $2, visitors = visitors + $3 WHERE id = $1`,
		eventID, present, visitors,
	)
	if err != nil {
		return fmt.Errorf("add event counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *AttendanceRepository) CreateAttendance(ctx context.Context, a domain.Attendance) error {
	const stmt = `
INSERT INTO attendance (id, event_id, participant_id, present)
VALUES ($1, $2, $3, $4)`
	if _, err := r.exec(ctx, stmt, a.ID, a.EventID, a.ParticipantID, a.Present); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAttendance
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) GetAttendance(ctx context.Context, id string) (domain.Attendance, error) {
	const query = `
SELECT id, event_id, participant_id, present, created_at
FROM attendance WHERE id = $1`
	var a domain.Attendance
	err := r.queryRow(ctx, query, id).Scan(&a.ID, &a.EventID, &a.ParticipantID, &a.Present, &a.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Attendance{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Attendance{}, domain.ErrAttendanceNotFound
		}
		return domain.Attendance{}, fmt.Errorf("get attendance: %w", err)
	}
	return a, nil
}

func (r *AttendanceRepository) UpdateAttendance(ctx context.Context, a domain.Attendance) error {
	tag, err := r.exec(ctx,
		`UPDATE attendance SET present = $2 WHERE id = $1`,
		a.ID, a.Present,
	)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

func (r *AttendanceRepository) DeleteAttendance(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

func (r *AttendanceRepository) ListAttendance(ctx context.Context) ([]app.AttendanceDetail, error) {
	const query = `
SELECT a.id, a.event_id, a.participant_id, a.present, a.created_at, e.name, p.name
FROM attendance a
JOIN events e ON e.id = a.event_id
JOIN participants p ON p.id = a.participant_id
ORDER BY e.date DESC, p.name ASC`
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var details []app.AttendanceDetail
	for rows.Next() {
		var d app.AttendanceDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.ParticipantID, &d.Present, &d.CreatedAt, &d.EventName, &d.ParticipantName); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		details = append(details, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate attendance: %w", rows.Err())
	}
	return details, nil
}
