// Package policy holds the authorization rules for recipes and their
// children. Every rule is a pure function of the actor and the resource.
package policy

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/recetario/backend/internal/models"
)

// ErrForbidden is returned when the actor may not perform the action.
var ErrForbidden = errors.New("forbidden")

func isOwnerOrAdmin(actor *models.User, ownerID uuid.UUID) bool {
	if actor == nil {
		return false
	}
	return actor.ID == ownerID || actor.HasRole(models.RoleAdmin)
}

// CanUpdateRecipe reports whether actor may update recipe.
func CanUpdateRecipe(actor *models.User, recipe *models.Recipe) bool {
	return recipe != nil && isOwnerOrAdmin(actor, recipe.UserID)
}

// CanDeleteRecipe reports whether actor may delete recipe.
func CanDeleteRecipe(actor *models.User, recipe *models.Recipe) bool {
	return recipe != nil && isOwnerOrAdmin(actor, recipe.UserID)
}

// CanCreateIngredient allows only the owner of the parent recipe.
func CanCreateIngredient(actor *models.User, recipe *models.Recipe) bool {
	return actor != nil && recipe != nil && actor.ID == recipe.UserID
}

// CanModifyIngredient covers update and delete of an ingredient of recipe.
func CanModifyIngredient(actor *models.User, recipe *models.Recipe) bool {
	return recipe != nil && isOwnerOrAdmin(actor, recipe.UserID)
}

// CanModifyComment covers update and delete of a comment.
func CanModifyComment(actor *models.User, comment *models.Comment) bool {
	return comment != nil && isOwnerOrAdmin(actor, comment.UserID)
}

// Authorize turns a decision into an error.
func Authorize(allowed bool) error {
	if !allowed {
		return ErrForbidden
	}
	return nil
}
