// Package identity implements the credential and token side of account
// management: bcrypt password hashing and stateless signed purpose tokens
// with expiry (email confirmation, password reset).
//
// Tokens are HS256 JWTs wrapped in AES-GCM via pkg/crypt, so the strings
// embedded in email links are opaque and URL-safe. A token carries a
// purpose claim; verifying with the wrong purpose fails, so a reset token
// can never confirm an email.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopgo-app/shopgo/config"
	"github.com/shopgo-app/shopgo/pkg/crypt"
)

// Token purposes.
const (
	PurposeEmailConfirm  = "email_confirm"
	PurposePasswordReset = "password_reset"
)

// Token lifetimes.
const (
	EmailConfirmTTL  = 48 * time.Hour
	PasswordResetTTL = 1 * time.Hour
)

// ErrInvalidToken is returned for expired, tampered, or wrong-purpose tokens.
var ErrInvalidToken = errors.New("identity: invalid or expired token")

// Claims holds the typed token payload.
type Claims struct {
	UserID  uint   `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// IssueToken creates an opaque token for the given user and purpose.
func IssueToken(userID uint, purpose string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
	if err != nil {
		return "", err
	}

	return crypt.Encrypt(signed)
}

// VerifyToken checks an opaque token and returns the user ID it was issued
// for. Any failure — decryption, signature, expiry, purpose mismatch —
// reports ErrInvalidToken; callers surface a single user-facing message.
func VerifyToken(opaque, purpose string) (uint, error) {
	signed, err := crypt.Decrypt(opaque)
	if err != nil {
		return 0, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(signed, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != purpose {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
