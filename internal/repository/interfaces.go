package repository

import (
	"context"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

// UserRepository - справочник пользователей, ключ - нормализованный email
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	Create(ctx context.Context, identity *domain.Identity) error
}
