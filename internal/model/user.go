package model

import "time"

// Role values stored in the users.role column and embedded in JWT
// claims.  ADMIN accounts manage grounds and can see every booking;
// USER accounts book grounds and write reviews.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column.  Handlers
// define separate response types with JSON tags; the password hash
// never leaves the repository layer.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown in conflict reports and emails.
//  Email        – unique email address, stored lowercased.
//  Phone        – contact phone number (optional).
//  PasswordHash – bcrypt hashed password.
//  Role         – USER or ADMIN.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	Phone        string    // users.phone
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PaymentCard is a saved card on a user's profile.  Cards are
// display-only: no charge is ever made against them, so only the
// brand, last four digits and expiry are kept.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owner of the card.
//  Brand       – card network label (e.g. VISA).
//  Last4       – last four digits of the card number.
//  Holder      – cardholder name as printed.
//  ExpiryMonth – expiry month 1–12.
//  ExpiryYear  – four digit expiry year.
//  CreatedAt   – timestamp of creation.
type PaymentCard struct {
	ID          uint64    // payment_cards.id
	UserID      uint64    // payment_cards.user_id
	Brand       string    // payment_cards.brand
	Last4       string    // payment_cards.last4
	Holder      string    // payment_cards.holder
	ExpiryMonth uint8     // payment_cards.expiry_month
	ExpiryYear  uint16    // payment_cards.expiry_year
	CreatedAt   time.Time // payment_cards.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
