package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
	"github.com/kitbuilder587/agro-advisor/internal/repository"
)

type UserService interface {
	IdentityDirectory
	Register(ctx context.Context, identity *domain.Identity) error
	Login(ctx context.Context, email string) (*domain.Identity, error)
}

type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
}

func (s *userService) Register(ctx context.Context, identity *domain.Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	identity.Sanitize()

	if err := s.repo.Create(ctx, identity); err != nil {
		return err
	}

	s.logger.Info("new user registered",
		zap.String("email", identity.Email),
		zap.String("location", identity.Location),
	)
	return nil
}

func (s *userService) Login(ctx context.Context, email string) (*domain.Identity, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.ErrMissingEmail
	}

	identity, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("user logged in", zap.String("email", identity.Email))
	return identity, nil
}
