package entity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

const (
	tokenBytes = 32

	DefaultLinkTTLDays = 7
	MaxLinkTTLDays     = 90

	SignatureTypeText = "text"
)

type SigningSession struct {
	ID                uuid.UUID
	ProposalVersionID uuid.UUID
	ProposalID        uuid.UUID
	OrgID             uuid.UUID
	TokenHash         string
	SignerEmail       *string
	Status            valueobject.SigningStatus
	ExpiresAt         time.Time
	SignerName        *string
	SignedAt          *time.Time
	CreatedAt         time.Time
}

// NewSigningSession создаёт ожидающую сессию, действующую days дней.
func NewSigningSession(versionID uuid.UUID, tokenHash string, signerEmail *string, days int, now time.Time) (*SigningSession, error) {
	if days < 1 || days > MaxLinkTTLDays {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("срок действия ссылки должен быть от 1 до %d дней", MaxLinkTTLDays))
	}
	if tokenHash == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "хеш токена обязателен")
	}
	return &SigningSession{
		ID:                uuid.New(),
		ProposalVersionID: versionID,
		TokenHash:         tokenHash,
		SignerEmail:       signerEmail,
		Status:            valueobject.SigningStatusPending,
		ExpiresAt:         now.Add(time.Duration(days) * 24 * time.Hour),
		CreatedAt:         now,
	}, nil
}

// IsUsable сообщает, можно ли подписать по сессии в момент now.
func (s *SigningSession) IsUsable(now time.Time) bool {
	return s.Status == valueobject.SigningStatusPending && now.Before(s.ExpiresAt)
}

// NewSigningToken генерирует случайный токен и его хеш.
// В хранилище попадает только хеш.
func NewSigningToken() (token string, hash string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("signing: не удалось сгенерировать токен: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, HashSigningToken(token), nil
}

// HashSigningToken возвращает hex SHA-256 токена.
func HashSigningToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// SigningView публичное представление предложения для подписанта.
type SigningView struct {
	ProposalName  string
	VersionID     uuid.UUID
	VersionNumber int
	Content       valueobject.Content
	SignerEmail   *string
	ExpiresAt     time.Time
	OrgName       string
	ClientName    string
}

// Signature данные подписи, передаваемые процедуре.
type Signature struct {
	SignerName    string
	Consent       bool
	SignatureType string
	SignatureData string
	UserAgent     string
}
