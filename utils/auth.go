package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func jwtSecret() []byte {
	if config.AppConfig != nil && config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	return []byte(os.Getenv("JWT_SECRET"))
}

func tokenTTL() time.Duration {
	if config.AppConfig != nil && config.AppConfig.JWTExpiryHours > 0 {
		return time.Duration(config.AppConfig.JWTExpiryHours) * time.Hour
	}
	return 24 * time.Hour
}

func signClaims(claims jwt.MapClaims) (string, error) {
	claims["exp"] = time.Now().Add(tokenTTL()).Unix()
	claims["iat"] = time.Now().Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateToken creates a JWT token for a user
func GenerateToken(user *models.User) (string, error) {
	return signClaims(jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// GenerateAdminToken creates a JWT token for an admin
func GenerateAdminToken(admin *models.Admin) (string, error) {
	return signClaims(jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"role":     "admin",
	})
}

// ParseToken validates the signature and expiry and returns the claims
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ClaimID reads a numeric id claim such as user_id or admin_id
func ClaimID(claims jwt.MapClaims, key string) (uint, bool) {
	v, ok := claims[key].(float64)
	if !ok || v <= 0 {
		return 0, false
	}
	return uint(v), true
}

// TokenHash is the digest stored in the blacklist
func TokenHash(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}

// RevokeToken blacklists the token until its own expiry
func RevokeToken(tokenString string) error {
	expiresAt := time.Now().Add(tokenTTL())
	if claims, err := ParseToken(tokenString); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			expiresAt = time.Unix(int64(exp), 0)
		}
	}
	entry := models.BlacklistedToken{TokenHash: TokenHash(tokenString), ExpiresAt: expiresAt}
	return config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
}

// IsTokenRevoked reports whether the token was blacklisted at logout
func IsTokenRevoked(tokenString string) bool {
	var count int64
	config.DB.Model(&models.BlacklistedToken{}).
		Where("token_hash = ? AND expires_at > ?", TokenHash(tokenString), time.Now()).
		Count(&count)
	return count > 0
}

// PurgeExpiredTokens removes blacklist rows that can no longer match a valid token
func PurgeExpiredTokens() (int64, error) {
	res := config.DB.Where("expires_at <= ?", time.Now()).Delete(&models.BlacklistedToken{})
	return res.RowsAffected, res.Error
}

// GenerateOTP creates a numeric code of the given length
func GenerateOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
