package helpers

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type CustomClaims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type EnhancedClaims struct {
	*CustomClaims
	Role   string `json:"role"`
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
}

func NewEnhancedClaims(claims *CustomClaims) *EnhancedClaims {
	role := claims.Role
	if role == "" {
		role = RoleUser
	}
	return &EnhancedClaims{
		CustomClaims: claims,
		Role:         role,
		UserID:       claims.Subject,
		Email:        claims.Email,
	}
}

// Helper methods for role checking
func (ec *EnhancedClaims) IsAdmin() bool {
	return ec.Role == RoleAdmin
}

func (ec *EnhancedClaims) HasRole(role string) bool {
	return ec.Role == role
}

func (ec *EnhancedClaims) IsOwner(userID string) bool {
	return ec.UserID == userID
}

// CanActFor reports whether the caller may act on behalf of userID.
func (ec *EnhancedClaims) CanActFor(userID string) bool {
	return ec.IsOwner(userID) || ec.IsAdmin()
}
