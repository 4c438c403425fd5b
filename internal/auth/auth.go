// Package auth resolves the acting user from a JWT and carries it as an
// explicit value. Workflow operations never read ambient auth state; the
// actor is resolved once at the request boundary and passed in.
package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"appraisal/internal/model"
	"appraisal/pkg/apperror"
)

const tokenTTL = 24 * time.Hour

// Actor identifies who is performing a workflow operation.
type Actor struct {
	UserID       uuid.UUID
	Email        string
	Name         string
	Role         string
	DepartmentID *uuid.UUID
}

// JWTSecret returns the signing key. A fixed development fallback is used
// unless running in release mode, where the env var is mandatory.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key"
	}
	return []byte(secret)
}

// GenerateToken signs a token carrying the user's identity, role and
// department.
func GenerateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	if user.DepartmentID != nil {
		claims["departmentId"] = user.DepartmentID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}

// ParseToken verifies a token string and reconstructs the Actor.
func ParseToken(tokenString string) (*Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Wrap(apperror.Unauthorized, "invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.New(apperror.Unauthorized, "invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperror.New(apperror.Unauthorized, "invalid subject claim")
	}

	role, _ := claims["role"].(string)
	if !model.ValidRole(role) {
		return nil, apperror.New(apperror.Unauthorized, "unknown role in token")
	}

	actor := &Actor{UserID: userID, Role: role}
	actor.Email, _ = claims["email"].(string)
	actor.Name, _ = claims["name"].(string)
	if dept, ok := claims["departmentId"].(string); ok {
		if deptID, err := uuid.Parse(dept); err == nil {
			actor.DepartmentID = &deptID
		}
	}
	return actor, nil
}
