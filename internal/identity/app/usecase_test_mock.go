package app

import (
	"context"
	"time"

	directory "pharmacy_delivery_service/internal/directory/domain"
	"pharmacy_delivery_service/internal/identity/domain"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// CreateAccount mock create account
func (m *MockAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// UpdateAccountStatus mock update account status
func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// FindByAccount mock find account by joined conditions
func (m *MockAccountRepository) FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error) {
	args := m.Called(ctx, accountQuery)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// SetChatID mock persist the generated chat id
func (m *MockAccountRepository) SetChatID(ctx context.Context, accountID, chatID string) error {
	args := m.Called(ctx, accountID, chatID)
	return args.Error(0)
}

// SetAuthUID mock link an external auth uid
func (m *MockAccountRepository) SetAuthUID(ctx context.Context, accountID, authUID string) error {
	args := m.Called(ctx, accountID, authUID)
	return args.Error(0)
}

// ClearChatID mock drop the migrated legacy correlation id
func (m *MockAccountRepository) ClearChatID(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockConversationMigrator Mock ConversationMigrator
type MockConversationMigrator struct {
	mock.Mock
}

// MigrateIdentity mock re-key chat history onto the canonical id
func (m *MockConversationMigrator) MigrateIdentity(ctx context.Context, role domain.Role, oldID, newID string) error {
	args := m.Called(ctx, role, oldID, newID)
	return args.Error(0)
}

// MockDirectoryUseCase Mock DirectoryUseCase
type MockDirectoryUseCase struct {
	mock.Mock
}

// GetVendorByID mock vendor lookup by id
func (m *MockDirectoryUseCase) GetVendorByID(ctx context.Context, vendorID string) (*directory.Vendor, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) != nil {
		return args.Get(0).(*directory.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindVendorByName mock vendor lookup by name
func (m *MockDirectoryUseCase) FindVendorByName(ctx context.Context, name string) (*directory.Vendor, error) {
	args := m.Called(ctx, name)
	if args.Get(0) != nil {
		return args.Get(0).(*directory.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindVendorByOperator mock vendor lookup by operator uid
func (m *MockDirectoryUseCase) FindVendorByOperator(ctx context.Context, operatorUID string) (*directory.Vendor, error) {
	args := m.Called(ctx, operatorUID)
	if args.Get(0) != nil {
		return args.Get(0).(*directory.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

// LinkOperator mock bind operator uid to vendor
func (m *MockDirectoryUseCase) LinkOperator(ctx context.Context, vendorID, operatorUID string) error {
	args := m.Called(ctx, vendorID, operatorUID)
	return args.Error(0)
}

// SeedVendors mock seed bundled vendors
func (m *MockDirectoryUseCase) SeedVendors(ctx context.Context, vendors []directory.Vendor) error {
	args := m.Called(ctx, vendors)
	return args.Error(0)
}

// MockSessionRepository Mock RedisRepository[domain.AccountSession]
type MockSessionRepository struct {
	mock.Mock
}

// Set mock set session
func (m *MockSessionRepository) Set(ctx context.Context, key string, value domain.AccountSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Get mock get session
func (m *MockSessionRepository) Get(ctx context.Context, key string) (domain.AccountSession, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.AccountSession), args.Error(1)
}

// Del mock delete session
func (m *MockSessionRepository) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ExtendTTL mock extend session ttl
func (m *MockSessionRepository) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

// GetTTL mock get session ttl
func (m *MockSessionRepository) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int), args.Error(1)
}
