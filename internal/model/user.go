package model

import "time"

// Roles carried in the JWT "role" claim.
const (
	RoleAdmin    = "ADMIN"
	RoleSeller   = "SELLER"
	RoleCustomer = "CUSTOMER"
)

// UserTypeForRole maps an account role onto the ticket submitter type.
func UserTypeForRole(role string) string {
	switch role {
	case RoleSeller:
		return UserTypePhotographer
	case RoleAdmin:
		return UserTypeAdmin
	default:
		return UserTypeClient
	}
}

// User represents an application user record as stored in the `users`
// table.  Handlers never serialize it directly.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Name         – display name used on bookings and tickets.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN, SELLER or CUSTOMER.
//  IsActive     – whether the account is active.
type User struct {
	ID           uint64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
