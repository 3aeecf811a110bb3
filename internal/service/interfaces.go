package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Revoke(ctx context.Context, claims *types.TokenClaims) error
	Refresh(ctx context.Context, claims *types.TokenClaims) (string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

var (
	_ IAuthService = (*AuthService)(nil)
	_ ImageStore   = (*S3ImageStore)(nil)
)
