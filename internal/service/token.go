package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthenticatedRole роль, которую Supabase Auth выдаёт вошедшим пользователям.
const AuthenticatedRole = "authenticated"

var ErrInvalidToken = errors.New("service: недействительный access токен")

// TokenManager проверяет access токены Supabase Auth.
// Выпуск нужен только для разработки и CLI.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewTokenManager создаёт менеджер токенов с общим секретом проекта Supabase.
func NewTokenManager(secret string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL}
}

// IssueAccess выпускает access токен в формате Supabase.
func (m *TokenManager) IssueAccess(userID uuid.UUID, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.accessTTL)
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"role":  AuthenticatedRole,
		"aud":   AuthenticatedRole,
		"email": email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccess извлекает userID и роль из access токена.
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, "", errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, "", errors.Join(ErrInvalidToken, jwt.ErrTokenInvalidClaims)
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", errors.Join(ErrInvalidToken, err)
	}

	role, _ := claims["role"].(string)
	return userID, role, nil
}
