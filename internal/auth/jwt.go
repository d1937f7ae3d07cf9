package auth

import (
	"errors"
	"time"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   uint              `json:"user_id"`
	Username string            `json:"username"`
	Role     domain.Role       `json:"role"`
	Status   domain.UserStatus `json:"status"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

func GenerateToken(cfg *config.JWTConfig, userID uint, username string, role domain.Role, status domain.UserStatus) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		Status:   status,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.Expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

func ParseToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
