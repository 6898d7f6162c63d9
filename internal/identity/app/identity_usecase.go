package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/internal/identity/repository"
	"pharmacy_delivery_service/pkg/config"
	"pharmacy_delivery_service/pkg/database"
	"pharmacy_delivery_service/pkg/encrypt"
	"pharmacy_delivery_service/pkg/logger"
	token "pharmacy_delivery_service/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterParam fields accepted on account creation
type RegisterParam struct {
	Email        string
	Password     string
	Role         domain.Role
	Name         string
	Phone        string
	PharmacyName string
}

// IdentityUseCase account lifecycle and sessions
type IdentityUseCase interface {
	Register(ctx context.Context, param RegisterParam) error
	FindAccount(ctx context.Context, query *domain.AccountQuery) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ForceLogout(ctx context.Context, accountID string) error
	CheckSessionTimeout(ctx context.Context, token string) (bool, error)
	ReconnectSession(ctx context.Context, token string) error
	// LinkAuthUID attaches an external auth uid to the account
	LinkAuthUID(ctx context.Context, accountID, authUID string) error
}

type identityUseCase struct {
	accountRepo repository.AccountRepository
	sessionTTL  time.Duration
	redisRepo   database.RedisRepository[domain.AccountSession]
}

// NewIdentityUseCase create an IdentityUseCase
func NewIdentityUseCase(accountRepo repository.AccountRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.AccountSession],
) IdentityUseCase {
	return &identityUseCase{
		accountRepo: accountRepo,
		sessionTTL:  sessionTTL,
		redisRepo:   redisRepo,
	}
}

// Register
func (m *identityUseCase) Register(ctx context.Context, param RegisterParam) error {
	if _, err := m.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Email: &param.Email}); err == nil {
		return errors.New("email already exists")
	}

	if err := encrypt.ValidatePasswordStrength(param.Password); err != nil {
		return err
	}

	pw, err := encrypt.HashPassword(param.Password)
	if err != nil {
		logger.Log.Errorf("password err :", err)
	}

	role := param.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	account := domain.Account{
		AccountID:    uuid.New().String(),
		Role:         role,
		Email:        param.Email,
		Password:     pw,
		Name:         param.Name,
		Phone:        param.Phone,
		PharmacyName: param.PharmacyName,
	}

	logger.Log.Info(fmt.Sprintf("usecase Register : %s %s", account.AccountID, account.Email))

	if err := m.accountRepo.CreateAccount(ctx, &account); err != nil {
		return err
	}

	return nil
}

// FindAccount query accounts with joined conditions
func (m *identityUseCase) FindAccount(ctx context.Context, query *domain.AccountQuery) (*domain.Account, error) {
	return m.accountRepo.FindByAccount(ctx, query)
}

// Login
func (m *identityUseCase) Login(ctx context.Context, email, password string) (string, error) {
	account, err := m.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Email: &email})
	if err != nil {
		logger.Log.Error("email can't find!!!")
		return "", errors.New("account not found")
	}

	if err = account.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return "", err
	}

	account.Status = domain.AccountStatusOnLine

	t, err := token.GenerateJWT(account.AccountID, string(account.Role), config.EnvConfig.IdentityService)
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := domain.AccountSession{
		Token:        t,
		AccountID:    account.AccountID,
		Role:         account.Role,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(m.sessionTTL),
	}

	m.redisRepo.Set(context.Background(), account.AccountID, session, m.sessionTTL)

	if err := m.accountRepo.UpdateAccountStatus(ctx, account); err != nil {
		return "", err
	}

	return t, nil
}

// Logout
func (m *identityUseCase) Logout(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWT(t)
	if err != nil {
		logger.Log.Error("Logout err :", zap.String("err", err.Error()))
		return err
	}
	logger.Log.Debug("logout", zap.String("account token info", fmt.Sprintf("%v", tokenInfo)))

	m.redisRepo.Del(context.Background(), tokenInfo.AccountID)

	if err := m.accountRepo.UpdateAccountStatus(ctx, &domain.Account{
		AccountID: tokenInfo.AccountID,
		Status:    domain.AccountStatusOffLine,
	}); err != nil {
		return err
	}
	return nil
}

// ForceLogout clear every session of the account
func (m *identityUseCase) ForceLogout(ctx context.Context, accountID string) error {
	m.redisRepo.Del(context.Background(), accountID)

	if err := m.accountRepo.UpdateAccountStatus(ctx, &domain.Account{
		AccountID: accountID,
		Status:    domain.AccountStatusOffLine,
	}); err != nil {
		return err
	}
	return nil
}

// CheckSessionTimeout report whether the session expired
func (m *identityUseCase) CheckSessionTimeout(ctx context.Context, t string) (bool, error) {
	tokenInfo, err := token.ParseJWT(t)
	if err != nil {
		logger.Log.Error("CheckSessionTimeout err :", zap.String("err", err.Error()))
		return true, err
	}
	logger.Log.Debug("CheckSessionTimeout", zap.String("account token info", fmt.Sprintf("%v", tokenInfo)))

	ttl, err := m.redisRepo.GetTTL(context.Background(), tokenInfo.AccountID)
	if err != nil {
		return true, err
	}

	if ttl > 0 {
		return false, nil
	}
	return true, nil
}

// ReconnectSession refresh last activity on reconnect
func (m *identityUseCase) ReconnectSession(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWT(t)
	if err != nil {
		logger.Log.Error("ReconnectSession err :", zap.String("err", err.Error()))
		return err
	}
	logger.Log.Debug("ReconnectSession", zap.String("account token info", fmt.Sprintf("%v", tokenInfo)))

	m.redisRepo.ExtendTTL(context.Background(), tokenInfo.AccountID, m.sessionTTL)

	return nil
}

// LinkAuthUID attach the external auth uid once the account is verified
func (m *identityUseCase) LinkAuthUID(ctx context.Context, accountID, authUID string) error {
	if authUID == "" {
		return errors.New("auth uid is required")
	}
	return m.accountRepo.SetAuthUID(ctx, accountID, authUID)
}
