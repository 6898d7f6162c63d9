package app

import (
	"context"
	"errors"

	directoryapp "pharmacy_delivery_service/internal/directory/app"
	"pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/internal/identity/repository"
	"pharmacy_delivery_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnresolvedVendor operator account matched no vendor, by uid or by name
var ErrUnresolvedVendor = errors.New("no vendor resolved for operator account")

// ConversationMigrator re-keys stored chat history when the canonical id of a
// participant changes
type ConversationMigrator interface {
	MigrateIdentity(ctx context.Context, role domain.Role, oldID, newID string) error
}

// Resolver maps a signed-in account onto its chat identity. The returned id
// is the one correlation key for conversations and watermarks, it must come
// out identical on every call for the same account.
type Resolver struct {
	accountRepo repository.AccountRepository
	directory   directoryapp.DirectoryUseCase
	migrator    ConversationMigrator
}

// NewResolver create a Resolver
func NewResolver(accountRepo repository.AccountRepository, directory directoryapp.DirectoryUseCase) *Resolver {
	return &Resolver{
		accountRepo: accountRepo,
		directory:   directory,
	}
}

// AttachMigrator enable history re-keying on nodes that hold the conversation
// store. Accounts that chatted under a generated id before their auth uid was
// linked get their conversations and watermark folded onto the uid on the
// next resolve.
func (r *Resolver) AttachMigrator(m ConversationMigrator) {
	r.migrator = m
}

// Resolve account onto (role, stable id, display name)
func (r *Resolver) Resolve(ctx context.Context, accountID string) (identity domain.Identity, err error) {
	if accountID == "" {
		return domain.Identity{}, errors.New("account id is required")
	}

	account, err := r.accountRepo.FindByAccount(ctx, &domain.AccountQuery{AccountID: &accountID})
	if err != nil {
		return domain.Identity{}, err
	}

	if account.Role == domain.RoleVendorOperator {
		return r.resolveVendorOperator(ctx, account)
	}
	return r.resolveCustomer(ctx, account)
}

// resolveCustomer auth uid wins, then the stored chat id, else a fresh id is
// generated and persisted before first use
func (r *Resolver) resolveCustomer(ctx context.Context, account *domain.Account) (domain.Identity, error) {
	if account.AuthUID != "" && account.ChatID != "" && account.ChatID != account.AuthUID {
		r.adoptLegacyHistory(ctx, account)
	}

	id := account.AuthUID
	if id == "" {
		id = account.ChatID
	}
	if id == "" {
		id = uuid.New().String()
		if err := r.accountRepo.SetChatID(ctx, account.AccountID, id); err != nil {
			return domain.Identity{}, err
		}
		// first write wins, re-read in case a concurrent resolve beat us
		fresh, err := r.accountRepo.FindByAccount(ctx, &domain.AccountQuery{AccountID: &account.AccountID})
		if err != nil {
			return domain.Identity{}, err
		}
		if fresh.ChatID != "" {
			id = fresh.ChatID
		}
		logger.Log.Info("customer chat id assigned", zap.String("accountID", account.AccountID), zap.String("chatID", id))
	}

	return domain.Identity{
		Role:        domain.RoleCustomer,
		ID:          id,
		DisplayName: account.DisplayName(id),
	}, nil
}

// adoptLegacyHistory folds conversations keyed by the pre-link chat id onto
// the auth uid. Best effort, a failed merge keeps the chat id so the next
// resolve retries, the account still resolves to the auth uid either way.
func (r *Resolver) adoptLegacyHistory(ctx context.Context, account *domain.Account) {
	if r.migrator == nil {
		return
	}

	if err := r.migrator.MigrateIdentity(ctx, domain.RoleCustomer, account.ChatID, account.AuthUID); err != nil {
		logger.Log.Warn("legacy history migration failed",
			zap.String("accountID", account.AccountID),
			zap.String("chatID", account.ChatID),
			zap.String("err", err.Error()))
		return
	}

	if err := r.accountRepo.ClearChatID(ctx, account.AccountID); err != nil {
		logger.Log.Warn("clear migrated chat id failed",
			zap.String("accountID", account.AccountID),
			zap.String("err", err.Error()))
		return
	}

	logger.Log.Info("legacy history migrated",
		zap.String("accountID", account.AccountID),
		zap.String("chatID", account.ChatID),
		zap.String("authUID", account.AuthUID))
}

// resolveVendorOperator the vendor's directory id is the identity, resolved
// by operator uid first, then by the legacy pharmacy-name link
func (r *Resolver) resolveVendorOperator(ctx context.Context, account *domain.Account) (domain.Identity, error) {
	operatorUID := account.AuthUID
	if operatorUID == "" {
		operatorUID = account.AccountID
	}

	vendor, err := r.directory.FindVendorByOperator(ctx, operatorUID)
	if err != nil {
		return domain.Identity{}, err
	}
	if vendor != nil {
		return domain.Identity{
			Role:        domain.RoleVendorOperator,
			ID:          vendor.ID,
			DisplayName: vendor.Name,
		}, nil
	}

	if account.PharmacyName != "" {
		vendor, err = r.directory.FindVendorByName(ctx, account.PharmacyName)
		if err != nil {
			return domain.Identity{}, err
		}
		if vendor != nil {
			logger.Log.Warn("vendor resolved by legacy name match",
				zap.String("accountID", account.AccountID), zap.String("pharmacy", account.PharmacyName))
			return domain.Identity{
				Role:            domain.RoleVendorOperator,
				ID:              vendor.ID,
				DisplayName:     vendor.Name,
				LegacyNameMatch: true,
			}, nil
		}
	}

	return domain.Identity{}, ErrUnresolvedVendor
}
