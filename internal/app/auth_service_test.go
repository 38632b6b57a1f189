package app

import (
	"context"
	"testing"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/clock"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
)

func TestAuthService(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

	newSvc := func(clk clock.Clock) (*AuthService, *fakeUserRepo) {
		repo := &fakeUserRepo{users: map[string]domain.User{}}
		return NewAuthService(repo, clk, "test-secret"), repo
	}

	t.Run("register hashes the password", func(t *testing.T) {
		svc, repo := newSvc(clock.NewFixed(now))

		id, err := svc.Register(context.Background(), "admin@example.com", "s3cret")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id == "" {
			t.Fatalf("expected a user id")
		}

		user := repo.users[id]
		if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
			t.Fatalf("expected password to be hashed")
		}
		if user.Role != "admin" {
			t.Errorf("Role = %q", user.Role)
		}
	})

	t.Run("register requires both fields", func(t *testing.T) {
		svc, _ := newSvc(clock.NewFixed(now))

		if _, err := svc.Register(context.Background(), "", "pw"); err != domain.ErrCredentialsRequired {
			t.Errorf("expected ErrCredentialsRequired, got %v", err)
		}
		if _, err := svc.Register(context.Background(), "a@b.c", ""); err != domain.ErrCredentialsRequired {
			t.Errorf("expected ErrCredentialsRequired, got %v", err)
		}
	})

	t.Run("login and validate roundtrip", func(t *testing.T) {
		svc, _ := newSvc(clock.NewFixed(now))

		id, err := svc.Register(context.Background(), "admin@example.com", "s3cret")
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		token, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if token == "" {
			t.Fatalf("expected a token")
		}

		user, err := svc.ValidateToken(context.Background(), token)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if user.ID != id || user.Email != "admin@example.com" {
			t.Errorf("validated user = %+v", user)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newSvc(clock.NewFixed(now))

		if _, err := svc.Register(context.Background(), "admin@example.com", "s3cret"); err != nil {
			t.Fatalf("register: %v", err)
		}
		if _, err := svc.Login(context.Background(), "admin@example.com", "wrong"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newSvc(clock.NewFixed(now))

		if _, err := svc.Login(context.Background(), "ghost@example.com", "pw"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		repo := &fakeUserRepo{users: map[string]domain.User{}}
		issuer := NewAuthService(repo, clock.NewFixed(now), "test-secret")
		validator := NewAuthService(repo, clock.NewFixed(now.Add(tokenTTL+time.Minute)), "test-secret")

		if _, err := issuer.Register(context.Background(), "admin@example.com", "s3cret"); err != nil {
			t.Fatalf("register: %v", err)
		}
		token, err := issuer.Login(context.Background(), "admin@example.com", "s3cret")
		if err != nil {
			t.Fatalf("login: %v", err)
		}

		if _, err := validator.ValidateToken(context.Background(), token); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("token for deleted user rejected", func(t *testing.T) {
		svc, repo := newSvc(clock.NewFixed(now))

		id, err := svc.Register(context.Background(), "admin@example.com", "s3cret")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		token, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
		if err != nil {
			t.Fatalf("login: %v", err)
		}

		delete(repo.users, id)
		if _, err := svc.ValidateToken(context.Background(), token); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		svc, _ := newSvc(clock.NewFixed(now))

		if _, err := svc.ValidateToken(context.Background(), "not-a-jwt"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u domain.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
