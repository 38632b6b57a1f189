package app

import (
	"context"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
)

// ReportRepository reads the event/attendance facts the reports aggregate.
type ReportRepository interface {
	ListEventsInWindow(ctx context.Context, category domain.Category, start, end time.Time) ([]domain.Event, error)
	DistinctPresentParticipants(ctx context.Context, eventIDs []string) ([]domain.Participant, error)
}

type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// MonthlyReport aggregates one category over one calendar month.
type MonthlyReport struct {
	Month                   int             `json:"month"`
	Year                    int             `json:"year"`
	Category                domain.Category `json:"category"`
	TotalEvents             int             `json:"totalEvents"`
	TotalUniqueParticipants int             `json:"totalUniqueParticipants"`
	TotalUniqueVisitors     int             `json:"totalUniqueVisitors"`
	Participants            []string        `json:"participants"`
	Visitors                []string        `json:"visitors"`
}

// WeeklyReport aggregates one category over the Sunday-to-Saturday week
// containing a reference date.
type WeeklyReport struct {
	WeekStart               time.Time       `json:"weekStart"`
	WeekEnd                 time.Time       `json:"weekEnd"`
	Category                domain.Category `json:"category"`
	TotalEvents             int             `json:"totalEvents"`
	TotalUniqueParticipants int             `json:"totalUniqueParticipants"`
	TotalUniqueVisitors     int             `json:"totalUniqueVisitors"`
	Participants            []string        `json:"participants"`
	Visitors                []string        `json:"visitors"`
}

func (s *ReportService) Monthly(ctx context.Context, category domain.Category, month, year int) (MonthlyReport, error) {
	if month < 1 || month > 12 {
		return MonthlyReport{}, domain.ErrInvalidMonth
	}

	start, end := MonthBounds(year, month, time.UTC)
	report := MonthlyReport{
		Month:        month,
		Year:         year,
		Category:     category,
		Participants: []string{},
		Visitors:     []string{},
	}

	events, err := s.repo.ListEventsInWindow(ctx, category, start, end)
	if err != nil {
		return MonthlyReport{}, err
	}
	if len(events) == 0 {
		return report, nil
	}
	report.TotalEvents = len(events)

	participants, visitors, err := s.presentNames(ctx, events)
	if err != nil {
		return MonthlyReport{}, err
	}
	report.TotalUniqueParticipants = len(participants)
	report.TotalUniqueVisitors = len(visitors)
	report.Participants = participants
	report.Visitors = visitors
	return report, nil
}

func (s *ReportService) Weekly(ctx context.Context, category domain.Category, reference time.Time) (WeeklyReport, error) {
	start, end := WeekBounds(reference)
	report := WeeklyReport{
		WeekStart:    start,
		WeekEnd:      end,
		Category:     category,
		Participants: []string{},
		Visitors:     []string{},
	}

	events, err := s.repo.ListEventsInWindow(ctx, category, start, end)
	if err != nil {
		return WeeklyReport{}, err
	}
	if len(events) == 0 {
		return report, nil
	}
	report.TotalEvents = len(events)

	participants, visitors, err := s.presentNames(ctx, events)
	if err != nil {
		return WeeklyReport{}, err
	}
	report.TotalUniqueParticipants = len(participants)
	report.TotalUniqueVisitors = len(visitors)
	report.Participants = participants
	report.Visitors = visitors
	return report, nil
}

// RefreshForEvent recomputes the weekly and monthly reports covering an
// event. Reports are derived on read, so this only revalidates that the
// queries still run against the just-written rows.
func (s *ReportService) RefreshForEvent(ctx context.Context, event domain.Event) error {
	if _, err := s.Weekly(ctx, event.Category, event.Date); err != nil {
		return err
	}
	_, err := s.Monthly(ctx, event.Category, int(event.Date.Month()), event.Date.Year())
	return err
}

func (s *ReportService) presentNames(ctx context.Context, events []domain.Event) (participants, visitors []string, err error) {
	eventIDs := make([]string, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, e.ID)
	}

	present, err := s.repo.DistinctPresentParticipants(ctx, eventIDs)
	if err != nil {
		return nil, nil, err
	}

	participants = make([]string, 0, len(present))
	visitors = []string{}
	for _, p := range present {
		participants = append(participants, p.Name)
		if p.IsVisitor {
			visitors = append(visitors, p.Name)
		}
	}
	return participants, visitors, nil
}

// WeekBounds returns the Sunday 00:00:00.000 through Saturday 23:59:59.999
// window containing the reference date, in the reference date's location.
func WeekBounds(reference time.Time) (start, end time.Time) {
	y, m, d := reference.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, reference.Location())
	start = day.AddDate(0, 0, -int(day.Weekday()))
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// MonthBounds returns the first calendar day 00:00:00.000 through last
// calendar day 23:59:59.999 of the given month.
func MonthBounds(year, month int, loc *time.Location) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}
