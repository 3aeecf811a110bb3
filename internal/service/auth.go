package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/types"
)

// AuthService registers users and issues, validates and revokes tokens.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	ttl       time.Duration
	log       *logrus.Logger
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, jwtSecret string, ttl time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// Register creates a user with the "user" role and returns it with a token.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error) {
	email := strings.TrimSpace(req.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("name = ?", models.RoleUser).First(&role).Error; err != nil {
			return fmt.Errorf("role %q missing: %w", models.RoleUser, err)
		}
		user.Roles = []models.Role{role}
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, "", ErrEmailTaken
	}
	if err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GenerateToken signs a token for userID valid for the configured TTL.
func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses tokenString and rejects expired or revoked tokens.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	var revoked int64
	if err := s.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&revoked).Error; err != nil {
		return nil, err
	}
	if revoked > 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke invalidates the token described by claims. Revoking twice is a no-op.
func (s *AuthService) Revoke(ctx context.Context, claims *types.TokenClaims) error {
	rt := models.RevokedToken{
		JTI:    claims.ID,
		UserID: claims.UserID,
	}
	if claims.ExpiresAt != nil {
		rt.ExpiresAt = claims.ExpiresAt.Time
	} else {
		rt.ExpiresAt = s.now().Add(s.ttl)
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rt).Error
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	// expired entries can never match again
	if err := s.db.WithContext(ctx).Where("expires_at < ?", s.now()).Delete(&models.RevokedToken{}).Error; err != nil {
		s.log.WithError(err).Warn("failed to prune revoked tokens")
	}
	return nil
}

// Refresh revokes the presented token and returns a new one for the same user.
func (s *AuthService) Refresh(ctx context.Context, claims *types.TokenClaims) (string, error) {
	if err := s.Revoke(ctx, claims); err != nil {
		return "", err
	}
	return s.GenerateToken(claims.UserID)
}

// GetUserByID loads a user with roles.
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
