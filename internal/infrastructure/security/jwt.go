// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// AdminClaims is the decoded identity carried by an admin token.
type AdminClaims struct {
	AdminID string
	Email   string
	Role    string
}

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GetAdminFromClaims extracts admin identity from JWT claims
func GetAdminFromClaims(claims jwt.MapClaims) *AdminClaims {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil
	}
	return &AdminClaims{
		AdminID: sub,
		Email:   email,
		Role:    role,
	}
}

// GenerateAdminToken creates a JWT token for an authenticated admin
func GenerateAdminToken(adminID, email, jwtSecret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   adminID,
		"email": email,
		"role":  "admin",
		"iat":   time.Now().UTC().Unix(),
		"exp":   time.Now().UTC().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
