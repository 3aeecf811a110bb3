package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/models"
)

// TestPassword is the clear-text password of every user made by CreateUser.
const TestPassword = "password123"

// CreateUser inserts a user holding the given roles. With no roles the user
// gets the "user" role.
func CreateUser(t *testing.T, db *gorm.DB, email string, roles ...string) *models.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	var rs []models.Role
	require.NoError(t, db.Where("name IN ?", roles).Find(&rs).Error)
	require.Len(t, rs, len(roles), "unknown role in %v", roles)

	user := &models.User{
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        rs,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateRecipe inserts a recipe owned by owner.
func CreateRecipe(t *testing.T, db *gorm.DB, owner *models.User, title string, published bool) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		UserID:       owner.ID,
		Title:        title,
		Description:  "Descripción de " + title,
		Instructions: "Mezclar y servir.",
		Published:    published,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

// AddIngredient inserts an ingredient into recipe.
func AddIngredient(t *testing.T, db *gorm.DB, recipe *models.Recipe, name string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{RecipeID: recipe.ID, Name: name, Quantity: "1", Unit: "ud"}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// AddComment inserts a comment by author on recipe.
func AddComment(t *testing.T, db *gorm.DB, recipe *models.Recipe, author *models.User, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{RecipeID: recipe.ID, UserID: author.ID, Text: text}
	require.NoError(t, db.Create(c).Error)
	return c
}

// AddLikes makes n fresh users like recipe.
func AddLikes(t *testing.T, db *gorm.DB, recipe *models.Recipe, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		u := CreateUser(t, db, uuid.NewString()+"@likes.test")
		require.NoError(t, db.Create(&models.Like{UserID: u.ID, RecipeID: recipe.ID}).Error)
	}
}
