package app

import (
	"context"
	"testing"

	directory "pharmacy_delivery_service/internal/directory/domain"
	"pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	m.Run()
}

func accountQueryFor(accountID string) *domain.AccountQuery {
	return &domain.AccountQuery{AccountID: &accountID}
}

func TestResolver_Customer_AuthUIDWins(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(&domain.Account{
		AccountID: "acc-1",
		Role:      domain.RoleCustomer,
		Name:      "Ada",
		AuthUID:   "uid-1",
		ChatID:    "anon-1",
	}, nil)

	r := NewResolver(mockRepo, new(MockDirectoryUseCase))
	id, err := r.Resolve(ctx, "acc-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, id.Role)
	assert.Equal(t, "uid-1", id.ID)
	assert.Equal(t, "Ada", id.DisplayName)
	mockRepo.AssertNotCalled(t, "SetChatID", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_Customer_StoredChatID(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(&domain.Account{
		AccountID: "acc-1",
		Role:      domain.RoleCustomer,
		ChatID:    "anon-1",
	}, nil)

	r := NewResolver(mockRepo, new(MockDirectoryUseCase))
	id, err := r.Resolve(ctx, "acc-1")

	assert.NoError(t, err)
	assert.Equal(t, "anon-1", id.ID)
}

func TestResolver_Customer_GeneratesAndPersistsChatID(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	account := &domain.Account{AccountID: "acc-1", Role: domain.RoleCustomer}

	var persisted string
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(account, nil)
	mockRepo.On("SetChatID", ctx, "acc-1", mock.Anything).Run(func(args mock.Arguments) {
		persisted = args.String(2)
		account.ChatID = persisted
	}).Return(nil)

	r := NewResolver(mockRepo, new(MockDirectoryUseCase))
	id, err := r.Resolve(ctx, "acc-1")

	assert.NoError(t, err)
	assert.NotEmpty(t, id.ID)
	// the id handed out is the persisted one
	assert.Equal(t, persisted, id.ID)
	// no profile name, the synthesized label is derived from the chat id
	assert.Equal(t, domain.FallbackCustomerName(id.ID), id.DisplayName)
	mockRepo.AssertExpectations(t)
}

func TestResolver_Customer_ConcurrentFirstWriteWins(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	account := &domain.Account{AccountID: "acc-1", Role: domain.RoleCustomer}

	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(account, nil)
	// another resolve committed first, the re-read surfaces its id
	mockRepo.On("SetChatID", ctx, "acc-1", mock.Anything).Run(func(args mock.Arguments) {
		account.ChatID = "winner-id"
	}).Return(nil)

	r := NewResolver(mockRepo, new(MockDirectoryUseCase))
	id, err := r.Resolve(ctx, "acc-1")

	assert.NoError(t, err)
	assert.Equal(t, "winner-id", id.ID)
}

func TestResolver_Customer_MigratesLegacyHistory(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(&domain.Account{
		AccountID: "acc-1",
		Role:      domain.RoleCustomer,
		AuthUID:   "uid-1",
		ChatID:    "anon-1",
	}, nil)
	mockRepo.On("ClearChatID", ctx, "acc-1").Return(nil)

	mockMigrator := new(MockConversationMigrator)
	mockMigrator.On("MigrateIdentity", ctx, domain.RoleCustomer, "anon-1", "uid-1").Return(nil)

	r := NewResolver(mockRepo, new(MockDirectoryUseCase))
	r.AttachMigrator(mockMigrator)
	id, err := r.Resolve(ctx, "acc-1")

	assert.NoError(t, err)
	assert.Equal(t, "uid-1", id.ID)
	mockMigrator.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestResolver_Customer_MigrationFailureStillResolves(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(&domain.Account{
		AccountID: "acc-1",
		Role:      domain.RoleCustomer,
		AuthUID:   "uid-1",
		ChatID:    "anon-1",
	}, nil)

	mockMigrator := new(MockConversationMigrator)
	mockMigrator.On("MigrateIdentity", ctx, domain.RoleCustomer, "anon-1", "uid-1").Return(assert.AnError)

	r := NewResolver(mockRepo, new(MockDirectoryUseCase))
	r.AttachMigrator(mockMigrator)
	id, err := r.Resolve(ctx, "acc-1")

	// the auth uid is still handed out, the chat id stays so the next
	// resolve retries the merge
	assert.NoError(t, err)
	assert.Equal(t, "uid-1", id.ID)
	mockRepo.AssertNotCalled(t, "ClearChatID", mock.Anything, mock.Anything)
}

func TestResolver_Customer_NoLegacyHistoryNoMigration(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(&domain.Account{
		AccountID: "acc-1",
		Role:      domain.RoleCustomer,
		AuthUID:   "uid-1",
	}, nil)

	mockMigrator := new(MockConversationMigrator)

	r := NewResolver(mockRepo, new(MockDirectoryUseCase))
	r.AttachMigrator(mockMigrator)
	id, err := r.Resolve(ctx, "acc-1")

	assert.NoError(t, err)
	assert.Equal(t, "uid-1", id.ID)
	mockMigrator.AssertNotCalled(t, "MigrateIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_VendorOperator_ByOperatorUID(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, accountQueryFor("acc-2")).Return(&domain.Account{
		AccountID: "acc-2",
		Role:      domain.RoleVendorOperator,
		AuthUID:   "op-uid",
	}, nil)

	mockDirectory := new(MockDirectoryUseCase)
	mockDirectory.On("FindVendorByOperator", ctx, "op-uid").Return(&directory.Vendor{ID: "v_zen", Name: "ZenCare Pharmacy"}, nil)

	r := NewResolver(mockRepo, mockDirectory)
	id, err := r.Resolve(ctx, "acc-2")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleVendorOperator, id.Role)
	assert.Equal(t, "v_zen", id.ID)
	assert.Equal(t, "ZenCare Pharmacy", id.DisplayName)
	assert.False(t, id.LegacyNameMatch)
}

func TestResolver_VendorOperator_LegacyNameMatch(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, accountQueryFor("acc-2")).Return(&domain.Account{
		AccountID:    "acc-2",
		Role:         domain.RoleVendorOperator,
		PharmacyName: "GreenLeaf Pharma",
	}, nil)

	mockDirectory := new(MockDirectoryUseCase)
	mockDirectory.On("FindVendorByOperator", ctx, "acc-2").Return(nil, nil)
	mockDirectory.On("FindVendorByName", ctx, "GreenLeaf Pharma").Return(&directory.Vendor{ID: "v_green", Name: "GreenLeaf Pharma"}, nil)

	r := NewResolver(mockRepo, mockDirectory)
	id, err := r.Resolve(ctx, "acc-2")

	assert.NoError(t, err)
	assert.Equal(t, "v_green", id.ID)
	// name-matched identities are flagged so a migration can re-key them
	assert.True(t, id.LegacyNameMatch)
}

func TestResolver_VendorOperator_Unresolved(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, accountQueryFor("acc-2")).Return(&domain.Account{
		AccountID: "acc-2",
		Role:      domain.RoleVendorOperator,
	}, nil)

	mockDirectory := new(MockDirectoryUseCase)
	mockDirectory.On("FindVendorByOperator", ctx, "acc-2").Return(nil, nil)

	r := NewResolver(mockRepo, mockDirectory)
	_, err := r.Resolve(ctx, "acc-2")

	assert.ErrorIs(t, err, ErrUnresolvedVendor)
}

func TestResolver_StableAcrossCalls(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(&domain.Account{
		AccountID: "acc-1",
		Role:      domain.RoleCustomer,
		AuthUID:   "uid-1",
	}, nil)

	r := NewResolver(mockRepo, new(MockDirectoryUseCase))

	first, err := r.Resolve(ctx, "acc-1")
	assert.NoError(t, err)
	second, err := r.Resolve(ctx, "acc-1")
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}
