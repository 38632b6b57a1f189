package app

import (
	"context"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/clock"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/google/uuid"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, category *domain.Category) ([]domain.Event, error)
	ListEventsBetween(ctx context.Context, category *domain.Category, start, end time.Time) ([]domain.Event, error)
	NextEventAfter(ctx context.Context, category *domain.Category, after time.Time) (*domain.Event, error)
	ListUpcomingEvents(ctx context.Context, category *domain.Category, after time.Time, limit int) ([]domain.Event, error)
	ListPastEvents(ctx context.Context, category *domain.Category, before time.Time, limit int) ([]domain.Event, error)
}

type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name     string
	Category domain.Category
	Date     time.Time
	Visitors int
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.Name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}

	event := domain.Event{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Category: in.Category,
		Date:     in.Date,
		Visitors: in.Visitors,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id string) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, id)
}

// UpdateEventInput carries a partial update; nil fields are left unchanged.
type UpdateEventInput struct {
	Name     *string
	Category *domain.Category
	Date     *time.Time
}

func (s *EventService) Update(ctx context.Context, id string, in UpdateEventInput) (domain.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return domain.Event{}, domain.ErrEventNameRequired
		}
		event.Name = *in.Name
	}
	if in.Category != nil {
		event.Category = *in.Category
	}
	if in.Date != nil {
		event.Date = *in.Date
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteEvent(ctx, id)
}

func (s *EventService) List(ctx context.Context, category *domain.Category) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx, category)
}

func (s *EventService) Monthly(ctx context.Context, category domain.Category, month, year int) ([]domain.Event, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidMonth
	}
	start, end := MonthBounds(year, month, time.UTC)
	return s.repo.ListEventsBetween(ctx, &category, start, end)
}

func (s *EventService) Weekly(ctx context.Context, category domain.Category, reference time.Time) ([]domain.Event, error) {
	start, end := WeekBounds(reference)
	return s.repo.ListEventsBetween(ctx, &category, start, end)
}

func (s *EventService) Next(ctx context.Context, category domain.Category) (*domain.Event, error) {
	return s.repo.NextEventAfter(ctx, &category, s.clock.Now())
}

func (s *EventService) Upcoming(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListUpcomingEvents(ctx, nil, s.clock.Now(), 0)
}

func (s *EventService) Past(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListPastEvents(ctx, nil, s.clock.Now(), 0)
}

const (
	dashboardUpcomingLimit = 10
	dashboardPastLimit     = 5
)

// Dashboard is the at-a-glance view: the next event plus the current week,
// current month, upcoming, and recently past slices.
type Dashboard struct {
	Category   *domain.Category `json:"category,omitempty"`
	NextEvent  *domain.Event    `json:"nextEvent"`
	ThisWeek   []domain.Event   `json:"thisWeek"`
	ThisMonth  []domain.Event   `json:"thisMonth"`
	Upcoming   []domain.Event   `json:"upcoming"`
	RecentPast []domain.Event   `json:"recentPast"`
}

func (s *EventService) Dashboard(ctx context.Context, category *domain.Category) (Dashboard, error) {
	now := s.clock.Now()
	weekStart, weekEnd := WeekBounds(now)
	monthStart, monthEnd := MonthBounds(now.Year(), int(now.Month()), now.Location())

	next, err := s.repo.NextEventAfter(ctx, category, now)
	if err != nil {
		return Dashboard{}, err
	}
	thisWeek, err := s.repo.ListEventsBetween(ctx, category, weekStart, weekEnd)
	if err != nil {
		return Dashboard{}, err
	}
	thisMonth, err := s.repo.ListEventsBetween(ctx, category, monthStart, monthEnd)
	if err != nil {
		return Dashboard{}, err
	}
	upcoming, err := s.repo.ListUpcomingEvents(ctx, category, now, dashboardUpcomingLimit)
	if err != nil {
		return Dashboard{}, err
	}
	recentPast, err := s.repo.ListPastEvents(ctx, category, now, dashboardPastLimit)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Category:   category,
		NextEvent:  next,
		ThisWeek:   thisWeek,
		ThisMonth:  thisMonth,
		Upcoming:   upcoming,
		RecentPast: recentPast,
	}, nil
}
