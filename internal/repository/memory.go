package repository

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

// MemoryUserRepository - справочник в памяти, когда DATABASE_URL не задан (и для тестов)
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.Identity
}

func NewMemoryUserRepository(seed ...domain.Identity) *MemoryUserRepository {
	m := &MemoryUserRepository{
		users: make(map[string]domain.Identity),
	}
	for _, id := range seed {
		id.Email = domain.NormalizeEmail(id.Email)
		if id.CreatedAt.IsZero() {
			id.CreatedAt = time.Now()
		}
		m.users[id.Email] = id
	}
	return m
}

func (m *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.users[domain.NormalizeEmail(email)]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	// копия, чтобы вызывающий не правил хранилище
	return &id, nil
}

func (m *MemoryUserRepository) Create(ctx context.Context, identity *domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := domain.NormalizeEmail(identity.Email)
	if _, exists := m.users[key]; exists {
		return domain.ErrUserExists
	}

	identity.Email = key
	identity.CreatedAt = time.Now()
	m.users[key] = *identity
	return nil
}

func (m *MemoryUserRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

var _ UserRepository = (*MemoryUserRepository)(nil)
