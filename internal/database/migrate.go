package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recetario/backend/internal/models"
)

// Models lists every table owned by the application, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Role{},
		&models.User{},
		&models.RevokedToken{},
		&models.Recipe{},
		&models.Ingredient{},
		&models.Comment{},
		&models.Like{},
	}
}

// RunMigrations brings the schema up to date with the models and makes sure
// the built-in roles exist. PostgreSQL deployments may use cmd/migrate
// instead; both produce the same tables.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return EnsureRoles(ctx, db)
}

// EnsureRoles inserts the admin and user roles when missing.
func EnsureRoles(ctx context.Context, db *gorm.DB) error {
	roles := []models.Role{{Name: models.RoleAdmin}, {Name: models.RoleUser}}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&roles).Error
	if err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}
	return nil
}
