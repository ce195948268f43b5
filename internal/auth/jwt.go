package auth

import (
	"fmt"
	"time"

	"crimecity-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() ([]byte, error) {
	cfg := config.GlobalConfig
	if cfg == nil || cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is not configured")
	}
	if len(cfg.Auth.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters long")
	}
	return []byte(cfg.Auth.JWTSecret), nil
}

func GenerateJWT(playerID int, username, email, role string) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", fmt.Errorf("cannot generate JWT: %w", err)
	}

	claims := Claims{
		PlayerID: playerID,
		Username: username,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("player_%d", playerID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateJWT(tokenString string) (*Claims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, fmt.Errorf("cannot validate JWT: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
