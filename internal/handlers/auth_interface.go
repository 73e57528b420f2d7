package handlers

import (
	"context"

	"taskKeeper/internal/service"

	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*service.Session, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*service.Session, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}
