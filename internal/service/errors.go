package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/models"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("the email has already been taken")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrStorageDisabled    = errors.New("image storage is not configured")
)

// CodeRecipePublished is reported when a published recipe would change.
const CodeRecipePublished = "RECIPE_PUBLISHED"

// DomainError is a business rule violation. It carries a stable code that
// clients can switch on.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Code + ": " + e.Message
}

// AssertModifiable rejects changes to a recipe that has been published. It
// applies to every actor, administrators included.
func AssertModifiable(recipe *models.Recipe) error {
	if recipe.Published {
		return &DomainError{
			Code:    CodeRecipePublished,
			Message: "No se puede modificar una receta ya publicada",
		}
	}
	return nil
}

// notFound maps gorm's missing-row error to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
