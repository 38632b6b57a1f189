package app

import (
	"context"
	"log"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/google/uuid"
)

// RegisterRepository is the store surface the registration workflow needs.
// Batch inserts tolerate duplicates on (event_id, participant_id): rows that
// would violate the composite unique key are skipped, not errored.
type RegisterRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	CreateParticipant(ctx context.Context, p domain.Participant) error
	CreateAttendanceBatch(ctx context.Context, records []domain.Attendance) (int, error)
	ListMemberIDs(ctx context.Context) ([]string, error)
	CountPresences(ctx context.Context, participantID string) (int, error)
	PromoteToMember(ctx context.Context, participantID string) error
	AddEventCounters(ctx context.Context, eventID string, present, visitors int) error
}

// ReportRefresher re-runs the derived reports touched by an event so that any
// downstream consumer reading them right after a registration sees fresh data.
// Reports are computed on demand, so the refresh has no persisted effect.
type ReportRefresher interface {
	RefreshForEvent(ctx context.Context, event domain.Event) error
}

type RegisterService struct {
	repo    RegisterRepository
	reports ReportRefresher
	logger  *log.Logger
}

func NewRegisterService(repo RegisterRepository, reports ReportRefresher, logger *log.Logger) *RegisterService {
	if logger == nil {
		logger = log.Default()
	}
	return &RegisterService{
		repo:    repo,
		reports: reports,
		logger:  logger,
	}
}

// AttendeeInput is one entry of a registration batch: either a reference to
// an existing participant or a bare name to create one.
type AttendeeInput struct {
	ParticipantID string
	Name          string
	Present       bool
	IsVisitor     bool
}

type RegisterInput struct {
	EventID   string
	Attendees []AttendeeInput
}

type RegisterResult struct {
	Created       int
	TotalPresent  int
	VisitorsCount int
}

// Register records a batch of presence facts for one event and applies the
// derived-state rules: members not listed in the batch get an automatic
// absence row, a participant reaching two recorded presences stops being a
// visitor, and the weekly and monthly reports for the event are recomputed.
//
// The absence and promotion steps and the counter updates run in a single
// transaction with the event row locked, so two registrations for the same
// event serialize.
// The whole batch is validated before anything is written.
func (s *RegisterService) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	if in.EventID == "" {
		return RegisterResult{}, domain.ErrInvalidID
	}
	for _, a := range in.Attendees {
		if a.ParticipantID == "" && a.Name == "" {
			return RegisterResult{}, domain.ErrAttendeeUnresolvable
		}
	}

	var (
		result RegisterResult
		event  domain.Event
	)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		event, err = s.repo.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}

		// Resolve each attendee to a participant id, in input order. A bare
		// name creates a new participant with default visitor status; an
		// existing reference is taken as-is.
		records := make([]domain.Attendance, 0, len(in.Attendees))
		for _, a := range in.Attendees {
			participantID := a.ParticipantID
			if participantID == "" {
				p := domain.Participant{
					ID:        uuid.NewString(),
					Name:      a.Name,
					IsVisitor: true,
				}
				if err := s.repo.CreateParticipant(txCtx, p); err != nil {
					return err
				}
				participantID = p.ID
			}
			records = append(records, domain.Attendance{
				ID:            uuid.NewString(),
				EventID:       in.EventID,
				ParticipantID: participantID,
				Present:       a.Present,
			})
		}

		if _, err := s.repo.CreateAttendanceBatch(txCtx, records); err != nil {
			return err
		}

		// Every member not listed in the batch (present or absent, being
		// listed is enough) gets an automatic absence row for this event.
		memberIDs, err := s.repo.ListMemberIDs(txCtx)
		if err != nil {
			return err
		}
		listed := make(map[string]bool, len(records))
		for _, r := range records {
			listed[r.ParticipantID] = true
		}
		var absences []domain.Attendance
		for _, id := range memberIDs {
			if listed[id] {
				continue
			}
			absences = append(absences, domain.Attendance{
				ID:            uuid.NewString(),
				EventID:       in.EventID,
				ParticipantID: id,
				Present:       false,
			})
		}
		if len(absences) > 0 {
			if _, err := s.repo.CreateAttendanceBatch(txCtx, absences); err != nil {
				return err
			}
		}

		// Promotion check: the count sees the rows just inserted above.
		counted := make(map[string]bool, len(records))
		for _, r := range records {
			if !r.Present || counted[r.ParticipantID] {
				continue
			}
			counted[r.ParticipantID] = true
			presences, err := s.repo.CountPresences(txCtx, r.ParticipantID)
			if err != nil {
				return err
			}
			if presences >= domain.MemberPromotionThreshold {
				if err := s.repo.PromoteToMember(txCtx, r.ParticipantID); err != nil {
					return err
				}
			}
		}

		totalPresent := 0
		for _, r := range records {
			if r.Present {
				totalPresent++
			}
		}
		// The visitor counter comes from the raw input flags, independent of
		// presence.
		visitorsCount := 0
		for _, a := range in.Attendees {
			if a.IsVisitor {
				visitorsCount++
			}
		}
		if err := s.repo.AddEventCounters(txCtx, in.EventID, totalPresent, visitorsCount); err != nil {
			return err
		}

		// Created reflects the attempted batch size, not the post-dedup row
		// count. Re-registering an already recorded pair still counts here.
		result = RegisterResult{
			Created:       len(records),
			TotalPresent:  totalPresent,
			VisitorsCount: visitorsCount,
		}
		return nil
	})
	if err != nil {
		return RegisterResult{}, err
	}

	// The refresh runs after commit so the report queries see the new rows.
	// A failed refresh does not undo a successful registration.
	if s.reports != nil {
		if err := s.reports.RefreshForEvent(ctx, event); err != nil {
			s.logger.Printf("WARN: report refresh for event %s failed: %v", event.ID, err)
		}
	}

	return result, nil
}
