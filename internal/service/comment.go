package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/models"
)

// CommentService manages comments on recipes, scoped to the parent recipe
// like IngredientService.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name")
	})
}

// List returns the comments of a recipe, oldest first.
func (s *CommentService) List(ctx context.Context, recipeID uuid.UUID) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := withAuthor(s.db.WithContext(ctx)).
		Where("recipe_id = ?", recipeID).
		Order("created_at, id").
		Find(&comments).Error
	return comments, err
}

func (s *CommentService) Find(ctx context.Context, recipeID, id uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	err := withAuthor(s.db.WithContext(ctx)).First(&c, "id = ? AND recipe_id = ?", id, recipeID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *CommentService) Create(ctx context.Context, recipeID, authorID uuid.UUID, text string) (*models.Comment, error) {
	c := &models.Comment{
		RecipeID: recipeID,
		UserID:   authorID,
		Text:     text,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return s.Find(ctx, recipeID, c.ID)
}

func (s *CommentService) Update(ctx context.Context, c *models.Comment, text string) (*models.Comment, error) {
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", c.ID).Update("text", text).Error; err != nil {
		return nil, err
	}
	return s.Find(ctx, c.RecipeID, c.ID)
}

func (s *CommentService) Delete(ctx context.Context, c *models.Comment) error {
	return s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", c.ID).Error
}
