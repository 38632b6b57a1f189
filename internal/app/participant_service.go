package app

import (
	"context"
	"math"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/google/uuid"
)

// AttendanceHistoryEntry is one attendance row joined with its event.
type AttendanceHistoryEntry struct {
	EventName string          `json:"event"`
	Category  domain.Category `json:"category"`
	Date      time.Time       `json:"date"`
	Present   bool            `json:"present"`
}

type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, p domain.Participant) error
	GetParticipant(ctx context.Context, id string) (domain.Participant, error)
	UpdateParticipant(ctx context.Context, p domain.Participant) error
	DeleteParticipant(ctx context.Context, id string) error
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	ListParticipantsByVisitor(ctx context.Context, isVisitor bool) ([]domain.Participant, error)
	SearchParticipantsByName(ctx context.Context, name string) ([]domain.Participant, error)
	ListBirthdays(ctx context.Context, month int) ([]domain.Participant, error)
	CountAttendanceByParticipant(ctx context.Context, participantID string, present bool) (int, error)
	LastPresenceDate(ctx context.Context, participantID string) (*time.Time, error)
	ListHistory(ctx context.Context, participantID string) ([]AttendanceHistoryEntry, error)
	ListHistoryBetween(ctx context.Context, participantID string, start, end time.Time) ([]AttendanceHistoryEntry, error)
}

type ParticipantService struct {
	repo ParticipantRepository
}

func NewParticipantService(repo ParticipantRepository) *ParticipantService {
	return &ParticipantService{repo: repo}
}

type CreateParticipantInput struct {
	Name      string
	IsVisitor *bool
	BirthDate *time.Time
}

func (s *ParticipantService) Create(ctx context.Context, in CreateParticipantInput) (domain.Participant, error) {
	if in.Name == "" {
		return domain.Participant{}, domain.ErrNameRequired
	}

	p := domain.Participant{
		ID:        uuid.NewString(),
		Name:      in.Name,
		IsVisitor: true,
		BirthDate: in.BirthDate,
	}
	if in.IsVisitor != nil {
		p.IsVisitor = *in.IsVisitor
	}
	if err := s.repo.CreateParticipant(ctx, p); err != nil {
		return domain.Participant{}, err
	}
	return p, nil
}

func (s *ParticipantService) Get(ctx context.Context, id string) (domain.Participant, error) {
	if id == "" {
		return domain.Participant{}, domain.ErrInvalidID
	}
	return s.repo.GetParticipant(ctx, id)
}

type UpdateParticipantInput struct {
	Name      *string
	IsVisitor *bool
	BirthDate *time.Time
}

func (s *ParticipantService) Update(ctx context.Context, id string, in UpdateParticipantInput) (domain.Participant, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return domain.Participant{}, domain.ErrNameRequired
		}
		p.Name = *in.Name
	}
	if in.IsVisitor != nil {
		p.IsVisitor = *in.IsVisitor
	}
	if in.BirthDate != nil {
		p.BirthDate = in.BirthDate
	}

	if err := s.repo.UpdateParticipant(ctx, p); err != nil {
		return domain.Participant{}, err
	}
	return p, nil
}

func (s *ParticipantService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteParticipant(ctx, id)
}

func (s *ParticipantService) List(ctx context.Context) ([]domain.Participant, error) {
	return s.repo.ListParticipants(ctx)
}

func (s *ParticipantService) Members(ctx context.Context) ([]domain.Participant, error) {
	return s.repo.ListParticipantsByVisitor(ctx, false)
}

func (s *ParticipantService) Visitors(ctx context.Context) ([]domain.Participant, error) {
	return s.repo.ListParticipantsByVisitor(ctx, true)
}

func (s *ParticipantService) SearchByName(ctx context.Context, name string) ([]domain.Participant, error) {
	return s.repo.SearchParticipantsByName(ctx, name)
}

func (s *ParticipantService) Birthdays(ctx context.Context, month int) ([]domain.Participant, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidMonth
	}
	return s.repo.ListBirthdays(ctx, month)
}

func (s *ParticipantService) History(ctx context.Context, id string) ([]AttendanceHistoryEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, id)
}

// ParticipantStatus summarizes one participant's standing: presence and
// absence totals, last presence, and the promotion threshold in effect.
type ParticipantStatus struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	IsVisitor         bool       `json:"isVisitor"`
	TotalPresences    int        `json:"totalPresences"`
	TotalAbsences     int        `json:"totalAbsences"`
	LastPresence      *time.Time `json:"lastPresence"`
	BecameMemberAfter int        `json:"becameMemberAfter"`
}

func (s *ParticipantService) Status(ctx context.Context, id string) (ParticipantStatus, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return ParticipantStatus{}, err
	}

	presences, err := s.repo.CountAttendanceByParticipant(ctx, id, true)
	if err != nil {
		return ParticipantStatus{}, err
	}
	absences, err := s.repo.CountAttendanceByParticipant(ctx, id, false)
	if err != nil {
		return ParticipantStatus{}, err
	}
	lastPresence, err := s.repo.LastPresenceDate(ctx, id)
	if err != nil {
		return ParticipantStatus{}, err
	}

	return ParticipantStatus{
		ID:                p.ID,
		Name:              p.Name,
		IsVisitor:         p.IsVisitor,
		TotalPresences:    presences,
		TotalAbsences:     absences,
		LastPresence:      lastPresence,
		BecameMemberAfter: domain.MemberPromotionThreshold,
	}, nil
}

// Engagement breaks down one participant's month: which events they attended
// or missed and the resulting participation rate.
type Engagement struct {
	ParticipantID     string            `json:"participantId"`
	Month             int               `json:"month"`
	Year              int               `json:"year"`
	TotalEvents       int               `json:"totalEvents"`
	Presences         int               `json:"presences"`
	Absences          int               `json:"absences"`
	ParticipationRate float64           `json:"participationRate"`
	PresenceDates     []time.Time       `json:"presenceDates"`
	AbsenceDates      []time.Time       `json:"absenceDates"`
	Categories        []domain.Category `json:"categories"`
}

func (s *ParticipantService) Engagement(ctx context.Context, id string, month, year int) (Engagement, error) {
	if month < 1 || month > 12 {
		return Engagement{}, domain.ErrInvalidMonth
	}
	if _, err := s.Get(ctx, id); err != nil {
		return Engagement{}, err
	}

	start, end := MonthBounds(year, month, time.UTC)
	records, err := s.repo.ListHistoryBetween(ctx, id, start, end)
	if err != nil {
		return Engagement{}, err
	}

	engagement := Engagement{
		ParticipantID: id,
		Month:         month,
		Year:          year,
		PresenceDates: []time.Time{},
		AbsenceDates:  []time.Time{},
		Categories:    []domain.Category{},
	}
	if len(records) == 0 {
		return engagement, nil
	}

	seen := make(map[domain.Category]bool)
	for _, r := range records {
		if r.Present {
			engagement.Presences++
			engagement.PresenceDates = append(engagement.PresenceDates, r.Date)
		} else {
			engagement.Absences++
			engagement.AbsenceDates = append(engagement.AbsenceDates, r.Date)
		}
		if !seen[r.Category] {
			seen[r.Category] = true
			engagement.Categories = append(engagement.Categories, r.Category)
		}
	}
	engagement.TotalEvents = len(records)

	rate := float64(engagement.Presences) / float64(engagement.Presences+engagement.Absences) * 100
	engagement.ParticipationRate = math.Round(rate*100) / 100
	return engagement, nil
}

// IndividualReport consolidates a participant's profile, status, monthly
// engagement, and full history in one shape.
type IndividualReport struct {
	Participant struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		IsVisitor bool   `json:"isVisitor"`
	} `json:"participant"`
	Status     ParticipantStatus        `json:"status"`
	Engagement Engagement               `json:"engagement"`
	History    []AttendanceHistoryEntry `json:"history"`
}

func (s *ParticipantService) IndividualReport(ctx context.Context, id string, month, year int) (IndividualReport, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return IndividualReport{}, err
	}

	status, err := s.Status(ctx, id)
	if err != nil {
		return IndividualReport{}, err
	}
	engagement, err := s.Engagement(ctx, id, month, year)
	if err != nil {
		return IndividualReport{}, err
	}
	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return IndividualReport{}, err
	}

	var report IndividualReport
	report.Participant.ID = p.ID
	report.Participant.Name = p.Name
	report.Participant.IsVisitor = p.IsVisitor
	report.Status = status
	report.Engagement = engagement
	report.History = history
	return report, nil
}
