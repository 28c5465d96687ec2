package models

import (
	"time"
)

// BlacklistedToken holds the SHA-256 digest of a JWT revoked at logout.
// Rows past ExpiresAt can be purged since the token is rejected anyway.
type BlacklistedToken struct {
	ID        uint      `gorm:"primaryKey"`
	TokenHash string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
