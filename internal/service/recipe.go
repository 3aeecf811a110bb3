package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/query"
	"github.com/pageza/recetario/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, log *logrus.Logger) *RecipeService {
	return &RecipeService{db: db, log: log}
}

// Create stores a new recipe owned by ownerID.
func (s *RecipeService) Create(ctx context.Context, ownerID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{
		UserID:       ownerID,
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		Published:    req.Published,
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"recipe_id": recipe.ID, "user_id": ownerID}).Info("recipe created")
	return recipe, nil
}

// Find loads the bare recipe row, as needed for authorization checks.
func (s *RecipeService) Find(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// Get loads a recipe with its ingredients and like count.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := query.WithLikesCount(s.db.WithContext(ctx).Model(&models.Recipe{})).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredients.created_at, ingredients.id")
		}).
		Where("recipes.id = ?", id).
		First(&recipe).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// List returns one page of recipes matching p.
func (s *RecipeService) List(ctx context.Context, p query.RecipeParams) (*types.RecipePage, error) {
	return query.ListRecipes(ctx, s.db, p)
}

// Update applies the present fields of req. The published check is repeated
// in the UPDATE itself so a concurrent publish cannot slip through.
func (s *RecipeService) Update(ctx context.Context, recipe *models.Recipe, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	if err := AssertModifiable(recipe); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Instructions != nil {
		updates["instructions"] = *req.Instructions
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}
	if len(updates) == 0 {
		return s.Get(ctx, recipe.ID)
	}

	if err := s.guardedUpdate(ctx, recipe.ID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// SetImage stores the image reference of an unpublished recipe.
func (s *RecipeService) SetImage(ctx context.Context, recipe *models.Recipe, url string) (*models.Recipe, error) {
	if err := AssertModifiable(recipe); err != nil {
		return nil, err
	}
	if err := s.guardedUpdate(ctx, recipe.ID, map[string]interface{}{"image_url": url}); err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

func (s *RecipeService) guardedUpdate(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND published = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		current, err := s.Find(ctx, id)
		if err != nil {
			return err
		}
		return AssertModifiable(current)
	}
	return nil
}

// Delete removes a recipe together with its likes, comments and ingredients
// in one transaction.
func (s *RecipeService) Delete(ctx context.Context, recipe *models.Recipe) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", recipe.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.WithField("recipe_id", recipe.ID).Info("recipe deleted")
	return nil
}
