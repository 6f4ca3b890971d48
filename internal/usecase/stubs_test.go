package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/northbooks/accounts-service/internal/core/domain"
	"github.com/northbooks/accounts-service/internal/repository"
)

// memoryAccountStore is an in-memory stand-in for the PostgreSQL store,
// faithful to its contract: unique email, atomic triple insert, atomic
// failure counter increment.
type memoryAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	profiles map[string]domain.Profile
	roles    map[string][]domain.Role

	createErr    error
	updateErr    error
	incrementErr error

	createCalls    int
	updateCalls    int
	incrementCalls int
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{
		accounts: make(map[string]*domain.Account),
		profiles: make(map[string]domain.Profile),
		roles:    make(map[string][]domain.Role),
	}
}

func (m *memoryAccountStore) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *memoryAccountStore) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccountStore) CreateWithProfileAndRole(_ context.Context, account domain.Account, profile domain.Profile, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}

	copied := account
	m.accounts[account.ID] = &copied
	m.profiles[account.ID] = profile
	m.roles[account.ID] = append(m.roles[account.ID], role)
	return nil
}

func (m *memoryAccountStore) Update(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.accounts[account.ID]; !ok {
		return repository.ErrNotFound
	}

	copied := account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *memoryAccountStore) IncrementFailedLogins(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.incrementCalls++
	if m.incrementErr != nil {
		return 0, m.incrementErr
	}
	account, ok := m.accounts[id]
	if !ok {
		return 0, repository.ErrNotFound
	}

	account.FailedLoginAttempts++
	return account.FailedLoginAttempts, nil
}

// stored returns the live record, bypassing the copy semantics of GetByID.
func (m *memoryAccountStore) stored(id string) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id]
}

type memoryProfileStore struct {
	store *memoryAccountStore
}

func (m *memoryProfileStore) GetByAccountID(_ context.Context, accountID string) (*domain.Profile, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	profile, ok := m.store.profiles[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := profile
	return &copied, nil
}

type memoryRoleStore struct {
	store *memoryAccountStore
}

func (m *memoryRoleStore) ListByAccount(_ context.Context, accountID string) ([]domain.Role, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	roles := m.store.roles[accountID]
	copied := make([]domain.Role, len(roles))
	copy(copied, roles)
	return copied, nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu         sync.Mutex
	registered []domain.AccountRegisteredEvent
	locked     []domain.AccountLockedEvent
	updated    []domain.ProfileUpdatedEvent

	publishErr error
}

func (p *recordingPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.registered = append(p.registered, event)
	return nil
}

func (p *recordingPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.locked = append(p.locked, event)
	return nil
}

func (p *recordingPublisher) PublishProfileUpdated(_ context.Context, event domain.ProfileUpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.updated = append(p.updated, event)
	return nil
}

var errStorageDown = errors.New("storage unavailable")
