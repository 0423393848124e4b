package admin

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/akeren/choosepure-waitlist/pkg/constants"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

// Claims are shared by session and reset tokens; Purpose keeps one from being
// accepted as the other.
type Claims struct {
	AdminID uint   `json:"admin_id"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: secret, now: now}
}

// IssueSession signs a 7-day admin session token.
func (ti *TokenIssuer) IssueSession(adminID uint, email, role string) (string, *Claims, error) {
	claims := ti.newClaims(adminID, PurposeSession, constants.SessionTTL)
	claims.Email = email
	claims.Role = role

	token, err := ti.sign(claims)
	return token, claims, err
}

// IssueReset signs a one-hour password reset token.
func (ti *TokenIssuer) IssueReset(adminID uint) (string, *Claims, error) {
	claims := ti.newClaims(adminID, PurposePasswordReset, constants.PasswordResetTTL)

	token, err := ti.sign(claims)
	return token, claims, err
}

// Parse verifies signature, algorithm, expiry and purpose. Expired tokens
// return their claims together with an error matching jwt.ErrTokenExpired.
func (ti *TokenIssuer) Parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && claims.Purpose == purpose {
			return claims, err
		}
		return nil, err
	}

	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: unexpected purpose %q", jwt.ErrTokenInvalidClaims, claims.Purpose)
	}

	return claims, nil
}

func (ti *TokenIssuer) newClaims(adminID uint, purpose string, ttl time.Duration) *Claims {
	now := ti.now()
	return &Claims{
		AdminID: adminID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(adminID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func (ti *TokenIssuer) sign(claims *Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
