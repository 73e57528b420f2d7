package service

import (
	"context"

	"taskKeeper/internal/models/user"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(context.Context, *user.User) error
	GetByID(context.Context, uuid.UUID) (*user.User, error)
	GetByEmail(context.Context, string) (*user.User, error)
	UpdateSession(ctx context.Context, id uuid.UUID, tokenVersion int, refreshToken *string) error
	BumpTokenVersion(ctx context.Context, id uuid.UUID) (int, error)
}
