package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token scopes. Master tokens belong to platform operators working
// against the master database; tenant tokens belong to staff users of
// one tenant database.
const (
	ScopeMaster = "master"
	ScopeTenant = "tenant"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// UserClaims represents the JWT claims for authenticated callers.
// Subdomain identifies the tenant for tenant-scoped tokens.
type UserClaims struct {
	Email     string `json:"email"`
	UserID    uint   `json:"user_id"`
	RoleID    uint   `json:"role_id,omitempty"`
	Subdomain string `json:"subdomain,omitempty"`
	Scope     string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
	}
}

// GenerateMasterToken creates a token for a platform operator.
func (j *JWTUtil) GenerateMasterToken(email string, userID uint) (string, error) {
	return j.generate(UserClaims{
		Email:  email,
		UserID: userID,
		Scope:  ScopeMaster,
	})
}

// GenerateTenantToken creates a token for a tenant staff user.
func (j *JWTUtil) GenerateTenantToken(email string, userID, roleID uint, subdomain string) (string, error) {
	return j.generate(UserClaims{
		Email:     email,
		UserID:    userID,
		RoleID:    roleID,
		Subdomain: subdomain,
		Scope:     ScopeTenant,
	})
}

func (j *JWTUtil) generate(claims UserClaims) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
