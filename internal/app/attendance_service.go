package app

import (
	"context"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/google/uuid"
)

// AttendanceDetail is an attendance row joined with the names it references,
// for listings.
type AttendanceDetail struct {
	domain.Attendance
	EventName       string
	ParticipantName string
}

type AttendanceRepository interface {
	CreateAttendance(ctx context.Context, a domain.Attendance) error
	GetAttendance(ctx context.Context, id string) (domain.Attendance, error)
	UpdateAttendance(ctx context.Context, a domain.Attendance) error
	DeleteAttendance(ctx context.Context, id string) error
	ListAttendance(ctx context.Context) ([]AttendanceDetail, error)
}

// AttendanceService covers the single-record CRUD around the registration
// workflow; the batch path lives in RegisterService.
type AttendanceService struct {
	repo AttendanceRepository
}

func NewAttendanceService(repo AttendanceRepository) *AttendanceService {
	return &AttendanceService{repo: repo}
}

type CreateAttendanceInput struct {
	EventID       string
	ParticipantID string
	Present       bool
}

func (s *AttendanceService) Create(ctx context.Context, in CreateAttendanceInput) (domain.Attendance, error) {
	if in.EventID == "" || in.ParticipantID == "" {
		return domain.Attendance{}, domain.ErrInvalidID
	}

	a := domain.Attendance{
		ID:            uuid.NewString(),
		EventID:       in.EventID,
		ParticipantID: in.ParticipantID,
		Present:       in.Present,
	}
	if err := s.repo.CreateAttendance(ctx, a); err != nil {
		return domain.Attendance{}, err
	}
	return a, nil
}

func (s *AttendanceService) Get(ctx context.Context, id string) (domain.Attendance, error) {
	if id == "" {
		return domain.Attendance{}, domain.ErrInvalidID
	}
	return s.repo.GetAttendance(ctx, id)
}

func (s *AttendanceService) UpdatePresence(ctx context.Context, id string, present bool) (domain.Attendance, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return domain.Attendance{}, err
	}
	a.Present = present
	if err := s.repo.UpdateAttendance(ctx, a); err != nil {
		return domain.Attendance{}, err
	}
	return a, nil
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteAttendance(ctx, id)
}

func (s *AttendanceService) List(ctx context.Context) ([]AttendanceDetail, error) {
	return s.repo.ListAttendance(ctx)
}
