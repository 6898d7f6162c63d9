package app

import (
	"context"
	"testing"
	"time"

	"pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/internal/identity/repository"
	"pharmacy_delivery_service/pkg/encrypt"
	"pharmacy_delivery_service/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestIdentityUseCase_Register(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(nil, repository.ErrAccountNotFound)
	mockRepo.On("CreateAccount", ctx, mock.Anything).Run(func(args mock.Arguments) {
		account := args.Get(1).(*domain.Account)
		assert.NotEmpty(t, account.AccountID)
		assert.Equal(t, domain.RoleCustomer, account.Role)
		// the stored password is hashed, never the raw input
		assert.NotEqual(t, "secret123", account.Password)
	}).Return(nil)

	uc := NewIdentityUseCase(mockRepo, 30*time.Minute, new(MockSessionRepository))
	err := uc.Register(ctx, RegisterParam{Email: "ada@example.com", Password: "secret123", Name: "Ada"})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestIdentityUseCase_Register_EmailExists(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(&domain.Account{Email: "ada@example.com"}, nil)

	uc := NewIdentityUseCase(mockRepo, 30*time.Minute, new(MockSessionRepository))
	err := uc.Register(ctx, RegisterParam{Email: "ada@example.com", Password: "secret123"})

	assert.EqualError(t, err, "email already exists")
	mockRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestIdentityUseCase_Register_WeakPassword(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(nil, repository.ErrAccountNotFound)

	uc := NewIdentityUseCase(mockRepo, 30*time.Minute, new(MockSessionRepository))
	err := uc.Register(ctx, RegisterParam{Email: "ada@example.com", Password: "short"})

	assert.ErrorIs(t, err, encrypt.ErrWeakPassword)
	mockRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestIdentityUseCase_Login(t *testing.T) {
	ctx := context.Background()

	hashed, err := encrypt.HashPassword("secret123")
	assert.NoError(t, err)

	account := &domain.Account{
		AccountID: "acc-1",
		Role:      domain.RoleCustomer,
		Email:     "ada@example.com",
		Password:  hashed,
	}

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(account, nil)
	mockRepo.On("UpdateAccountStatus", ctx, mock.Anything).Return(nil)

	mockSessions := new(MockSessionRepository)
	mockSessions.On("Set", mock.Anything, "acc-1", mock.Anything, 30*time.Minute).Return(nil)

	uc := NewIdentityUseCase(mockRepo, 30*time.Minute, mockSessions)
	t1, err := uc.Login(ctx, "ada@example.com", "secret123")

	assert.NoError(t, err)
	assert.NotEmpty(t, t1)

	claims, err := token.ParseJWT(t1)
	assert.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, string(domain.RoleCustomer), claims.Role)

	mockRepo.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}

func TestIdentityUseCase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()

	hashed, err := encrypt.HashPassword("secret123")
	assert.NoError(t, err)

	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByAccount", ctx, mock.Anything).Return(&domain.Account{
		AccountID: "acc-1",
		Email:     "ada@example.com",
		Password:  hashed,
	}, nil)

	uc := NewIdentityUseCase(mockRepo, 30*time.Minute, new(MockSessionRepository))
	_, err = uc.Login(ctx, "ada@example.com", "wrong-password")

	assert.Error(t, err)
}

func TestIdentityUseCase_LinkAuthUID(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)
	mockRepo.On("SetAuthUID", ctx, "acc-1", "uid-1").Return(nil)

	uc := NewIdentityUseCase(mockRepo, 30*time.Minute, new(MockSessionRepository))
	err := uc.LinkAuthUID(ctx, "acc-1", "uid-1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestIdentityUseCase_LinkAuthUID_Empty(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAccountRepository)

	uc := NewIdentityUseCase(mockRepo, 30*time.Minute, new(MockSessionRepository))
	err := uc.LinkAuthUID(ctx, "acc-1", "")

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "SetAuthUID", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdentityUseCase_Logout(t *testing.T) {
	ctx := context.Background()

	t1, err := token.GenerateJWT("acc-1", string(domain.RoleCustomer), "identity_service")
	assert.NoError(t, err)

	mockRepo := new(MockAccountRepository)
	mockRepo.On("UpdateAccountStatus", ctx, mock.Anything).Run(func(args mock.Arguments) {
		account := args.Get(1).(*domain.Account)
		assert.Equal(t, "acc-1", account.AccountID)
		assert.Equal(t, domain.AccountStatusOffLine, account.Status)
	}).Return(nil)

	mockSessions := new(MockSessionRepository)
	mockSessions.On("Del", mock.Anything, "acc-1").Return(nil)

	uc := NewIdentityUseCase(mockRepo, 30*time.Minute, mockSessions)
	err = uc.Logout(ctx, t1)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}
