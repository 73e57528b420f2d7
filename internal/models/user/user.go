package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	// TokenVersion растёт на login/logout и инвалидирует все старые токены
	TokenVersion int        `json:"token_version" db:"token_version"`
	RefreshToken *string    `json:"-" db:"refresh_token"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

// Public - представление без чувствительных полей, его отдаём наружу
type Public struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	TokenVersion int       `json:"token_version"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToPublic() Public {
	return Public{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}
