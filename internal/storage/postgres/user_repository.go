package postgres

import (
	"context"
	"fmt"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	querier
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{querier{pool: pool}}
}

func (r *UserRepository) CreateUser(ctx context.Context, u domain.User) error {
	const stmt = `
INSERT INTO users (id, email, password_hash, role)
VALUES ($1, $2, $3, $4)`
	if _, err := r.exec(ctx, stmt, u.ID, u.Email, u.PasswordHash, u.Role); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
SELECT id, email, password_hash, role, created_at
FROM users WHERE email = $1`
	return r.getUser(ctx, query, email)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
SELECT id, email, password_hash, role, created_at
FROM users WHERE id = $1`
	return r.getUser(ctx, query, id)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.queryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
