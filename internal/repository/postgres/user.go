package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

const uniqueViolation = "23505"

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `SELECT name, email, location, created_at FROM users WHERE email = $1`

	var id domain.Identity
	err := r.db.Pool.QueryRow(ctx, query, domain.NormalizeEmail(email)).Scan(
		&id.Name,
		&id.Email,
		&id.Location,
		&id.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &id, nil
}

func (r *UserRepo) Create(ctx context.Context, identity *domain.Identity) error {
	query := `INSERT INTO users (email, name, location) VALUES ($1, $2, $3) RETURNING email, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		domain.NormalizeEmail(identity.Email),
		identity.Name,
		identity.Location,
	).Scan(&identity.Email, &identity.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}
