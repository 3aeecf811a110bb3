package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/types"
)

// IngredientService manages the ingredients of a recipe. Every lookup is
// scoped to the parent recipe, so an ingredient reached through another
// recipe's path is not found.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

func (s *IngredientService) List(ctx context.Context, recipeID uuid.UUID) ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at, id").
		Find(&ingredients).Error
	return ingredients, err
}

func (s *IngredientService) Find(ctx context.Context, recipeID, id uuid.UUID) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ? AND recipe_id = ?", id, recipeID).Error; err != nil {
		return nil, notFound(err)
	}
	return &ing, nil
}

func (s *IngredientService) Create(ctx context.Context, recipeID uuid.UUID, req *types.CreateIngredientRequest) (*models.Ingredient, error) {
	ing := &models.Ingredient{
		RecipeID: recipeID,
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	}
	if err := s.db.WithContext(ctx).Create(ing).Error; err != nil {
		return nil, err
	}
	return ing, nil
}

func (s *IngredientService) Update(ctx context.Context, ing *models.Ingredient, req *types.UpdateIngredientRequest) (*models.Ingredient, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(ing).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Find(ctx, ing.RecipeID, ing.ID)
}

func (s *IngredientService) Delete(ctx context.Context, ing *models.Ingredient) error {
	return s.db.WithContext(ctx).Delete(ing).Error
}
