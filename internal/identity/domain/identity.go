package domain

import (
	"time"

	"pharmacy_delivery_service/pkg"
	"pharmacy_delivery_service/pkg/encrypt"
)

// Role viewer role of the resolved identity
type Role string

const (
	// RoleCustomer storefront customer
	RoleCustomer Role = "customer"
	// RoleVendorOperator pharmacy operator working a vendor dashboard
	RoleVendorOperator Role = "vendor_operator"
)

// Identity resolved (role, stable id, display name) for the current actor.
// ID is the sole correlation key for conversations and watermarks.
type Identity struct {
	Role        Role   `json:"role"`
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`

	// LegacyNameMatch marks a vendor operator resolved by pharmacy-name
	// fallback instead of auth uid. Such identities should be migrated.
	LegacyNameMatch bool `json:"legacy_name_match,omitempty"`
}

// Valid reports whether the identity can own conversations
func (i Identity) Valid() bool {
	return i.ID != "" && (i.Role == RoleCustomer || i.Role == RoleVendorOperator)
}

// FallbackCustomerName synthesized display label when no profile name is known
func FallbackCustomerName(customerID string) string {
	return "Customer U_" + pkg.ShortID(customerID)
}

// FallbackVendorName synthesized label for a vendor missing from the directory
func FallbackVendorName(vendorID string) string {
	return "Vendor U_" + pkg.ShortID(vendorID)
}

// AccountStatus 0=offline, 1=online, 2=ban, 3=delete
type AccountStatus int

const (
	// AccountStatusOffLine account signed out
	AccountStatusOffLine AccountStatus = iota
	// AccountStatusOnLine account signed in
	AccountStatusOnLine
	// AccountStatusBan account blocked
	AccountStatusBan
	// AccountStatusDelete account removed
	AccountStatusDelete
)

// Account stored storefront account
type Account struct {
	ID        int64
	AccountID string
	Role      Role
	Email     string
	Password  string
	Name      string
	Phone     string
	Status    AccountStatus

	// PharmacyName legacy vendor-operator link, matched by name
	PharmacyName string
	// AuthUID external auth uid once the account is linked
	AuthUID string
	// ChatID locally generated customer correlation id, set once
	ChatID string
}

// IsPasswordMatch verify the login password
func (a *Account) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(a.Password, inputPwd)
}

// DisplayName fallback chain: name, email, synthesized label
func (a *Account) DisplayName(customerID string) string {
	if a.Name != "" {
		return a.Name
	}
	if a.Email != "" {
		return a.Email
	}
	return FallbackCustomerName(customerID)
}

// AccountSession session stored in redis per signed-in account
type AccountSession struct {
	Token        string    `json:"Token"`
	AccountID    string    `json:"AccountID"`
	Role         Role      `json:"Role"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsExpired check whether the session passed its deadline
func (s *AccountSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// AccountQuery join conditions are used to query accounts
type AccountQuery struct {
	ID        *int64  `db:"id"`
	AccountID *string `db:"account_id"`
	Email     *string `db:"email"`
	AuthUID   *string `db:"auth_uid"`
}
