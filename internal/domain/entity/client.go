package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/validation"
)

type Client struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	Name      string
	Email     string
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewClient(orgID uuid.UUID, name, email string, phone, address *string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "имя клиента обязательно")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	now := time.Now()
	return &Client{
		ID:        uuid.New(),
		OrgID:     orgID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ClientPatch частичное обновление клиента, nil поля не меняются.
type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

func (c *Client) Apply(patch ClientPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return apperror.New(apperror.ErrCodeValidation, "имя клиента обязательно")
		}
		c.Name = name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if err := validation.ValidateEmail(email); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		c.Email = email
	}
	if patch.Phone != nil {
		c.Phone = patch.Phone
	}
	if patch.Address != nil {
		c.Address = patch.Address
	}
	c.UpdatedAt = time.Now()
	return nil
}
