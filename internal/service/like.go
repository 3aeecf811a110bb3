package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/types"
)

// LikeService toggles and counts likes. The unique (user, recipe) index is
// the only synchronization between concurrent toggles.
type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

func (s *LikeService) ensureRecipe(ctx context.Context, recipeID uuid.UUID) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle flips the like of userID on recipeID and reports the new state.
func (s *LikeService) Toggle(ctx context.Context, userID, recipeID uuid.UUID) (*types.LikeStatus, error) {
	if err := s.ensureRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.Like{})
	if res.Error != nil {
		return nil, res.Error
	}

	liked := false
	if res.RowsAffected == 0 {
		if err := db.Create(&models.Like{UserID: userID, RecipeID: recipeID}).Error; err != nil {
			// A concurrent toggle inserted the row first; the pair is liked.
			exists, lookupErr := s.exists(ctx, userID, recipeID)
			if lookupErr != nil || !exists {
				return nil, err
			}
		}
		liked = true
	}

	count, err := s.Count(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return &types.LikeStatus{RecipeID: recipeID, Liked: liked, LikesCount: count}, nil
}

// Count returns the number of likes of a recipe.
func (s *LikeService) Count(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&n).Error
	return n, err
}

// CountFor is Count for an existing recipe; missing recipes are ErrNotFound.
func (s *LikeService) CountFor(ctx context.Context, recipeID uuid.UUID) (*types.LikeStatus, error) {
	if err := s.ensureRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	n, err := s.Count(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return &types.LikeStatus{RecipeID: recipeID, LikesCount: n}, nil
}

// Status reports whether userID likes recipeID along with the count.
func (s *LikeService) Status(ctx context.Context, userID, recipeID uuid.UUID) (*types.LikeStatus, error) {
	if err := s.ensureRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	liked, err := s.exists(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	n, err := s.Count(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return &types.LikeStatus{RecipeID: recipeID, Liked: liked, LikesCount: n}, nil
}

func (s *LikeService) exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}
