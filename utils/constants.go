package utils

// Application constants
const (
	AppName    = "StoreSphere"
	APIVersion = "v1"

	// Maximum file size for uploads (5MB)
	MaxFileSize = 5 * 1024 * 1024

	DefaultPaginationLimit = 10
	ProductPageLimit       = 12
	MaxPaginationLimit     = 100

	// Admin notification feed size
	NotificationFeedLimit = 50

	DeliveryOTPLength = 6
	DeliveryOTPTTLMin = 15

	DisplayIDPrefix   = "ORD-"
	DisplayIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	DisplayIDLength   = 6
	DisplayIDAttempts = 10
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid email or password"
	ErrUserBlocked        = "Your account has been blocked"
	ErrInvalidToken       = "Invalid or expired token"
	ErrInvalidFileType    = "Invalid file type. Allowed types: jpg, jpeg, png, gif, webp"
	ErrFileTooLarge       = "File size exceeds 5MB limit"
)

// Session keys
const (
	SessionTokenKey      = "token"
	SessionAdminTokenKey = "admin_token"
	SessionOAuthStateKey = "oauth_state"
)
