package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"pharmacy_delivery_service/internal/identity/domain"
)

// ErrAccountNotFound no account matched the query
var ErrAccountNotFound = errors.New("no account found with given criteria")

// AccountRepository definition get Account info
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccountStatus(ctx context.Context, account *domain.Account) error
	FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error)
	// SetChatID persists the generated customer correlation id, once
	SetChatID(ctx context.Context, accountID, chatID string) error
	// SetAuthUID links an external auth uid to the account
	SetAuthUID(ctx context.Context, accountID, authUID string) error
	// ClearChatID drops the legacy correlation id after its history has been
	// re-keyed onto the auth uid
	ClearChatID(ctx context.Context, accountID string) error
}

type accountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository create a AccountRepository
func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO account(account_id, role, email, password, name, phone, pharmacy_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.AccountID, account.Role, account.Email, account.Password,
		account.Name, account.Phone, account.PharmacyName)
	return err
}

func (r *accountRepository) UpdateAccountStatus(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, "UPDATE account SET status = $1 WHERE account_id = $2", account.Status, account.AccountID)
	return err
}

func (r *accountRepository) FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error) {
	queryStr := `SELECT id, account_id, role, email, password, name, phone,
		COALESCE(pharmacy_name, ''), COALESCE(auth_uid, ''), COALESCE(chat_id, '')
		FROM account WHERE 1=1`
	params := []interface{}{}
	paramCount := 1

	if accountQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *accountQuery.Email)
		paramCount++
	}
	if accountQuery.AccountID != nil {
		queryStr += fmt.Sprintf(" AND account_id = $%d", paramCount)
		params = append(params, *accountQuery.AccountID)
		paramCount++
	}
	if accountQuery.AuthUID != nil {
		queryStr += fmt.Sprintf(" AND auth_uid = $%d", paramCount)
		params = append(params, *accountQuery.AuthUID)
		paramCount++
	}
	if accountQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *accountQuery.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var account domain.Account
	err := row.Scan(&account.ID, &account.AccountID, &account.Role, &account.Email, &account.Password,
		&account.Name, &account.Phone, &account.PharmacyName, &account.AuthUID, &account.ChatID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) SetChatID(ctx context.Context, accountID, chatID string) error {
	// only the first write wins, the id must stay stable afterwards
	_, err := r.db.Exec(ctx,
		`UPDATE account SET chat_id = $1 WHERE account_id = $2 AND (chat_id IS NULL OR chat_id = '')`,
		chatID, accountID)
	return err
}

func (r *accountRepository) SetAuthUID(ctx context.Context, accountID, authUID string) error {
	_, err := r.db.Exec(ctx, "UPDATE account SET auth_uid = $1 WHERE account_id = $2", authUID, accountID)
	return err
}

func (r *accountRepository) ClearChatID(ctx context.Context, accountID string) error {
	_, err := r.db.Exec(ctx, "UPDATE account SET chat_id = '' WHERE account_id = $1", accountID)
	return err
}
