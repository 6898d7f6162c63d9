package unit

import (
	"testing"
	"time"

	"pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/pkg/encrypt"

	"github.com/stretchr/testify/assert"
)

func TestAccountPasswordMatch(t *testing.T) {
	hashed, err := encrypt.HashPassword("pass1234")
	assert.NoError(t, err)

	account := domain.Account{
		ID:       1,
		Email:    "user@example.com",
		Password: hashed,
	}

	assert.True(t, account.IsPasswordMatch("pass1234") == nil, "should match correct password")
	assert.False(t, account.IsPasswordMatch("wrongpass") == nil, "should not match incorrect password")
}

func TestAccountSessionExpiration(t *testing.T) {
	session := domain.AccountSession{
		Token:        "abcd1234",
		AccountID:    "1",
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
		ExpiredAt:    time.Now().Add(-1 * time.Minute),
	}

	assert.True(t, session.IsExpired(), "session should be expired")
}

func TestAccountDisplayNameFallback(t *testing.T) {
	account := domain.Account{Name: "Ada", Email: "ada@example.com"}
	assert.Equal(t, "Ada", account.DisplayName("abcd1234"))

	account.Name = ""
	assert.Equal(t, "ada@example.com", account.DisplayName("abcd1234"))

	account.Email = ""
	assert.Equal(t, "Customer U_ABCD", account.DisplayName("abcd1234"))
}

func TestIdentityValid(t *testing.T) {
	assert.True(t, domain.Identity{Role: domain.RoleCustomer, ID: "c1"}.Valid())
	assert.True(t, domain.Identity{Role: domain.RoleVendorOperator, ID: "v1"}.Valid())
	assert.False(t, domain.Identity{Role: domain.RoleCustomer}.Valid(), "missing id")
	assert.False(t, domain.Identity{ID: "c1"}.Valid(), "missing role")
}
