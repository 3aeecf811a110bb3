package query

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/types"
)

// LikesCountSQL is the correlated count of likes for the current recipes row.
const LikesCountSQL = "(SELECT COUNT(*) FROM likes WHERE likes.recipe_id = recipes.id)"

// sortColumns maps accepted sort names to ORDER BY expressions.
var sortColumns = map[string]string{
	"title":       "recipes.title",
	"titulo":      "recipes.title",
	"created_at":  "recipes.created_at",
	"likes_count": "likes_count",
}

// WithLikesCount selects every recipe column plus likes_count.
func WithLikesCount(db *gorm.DB) *gorm.DB {
	return db.Select("recipes.*, " + LikesCountSQL + " AS likes_count")
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}

// Filter adds the WHERE clauses for p to db.
func Filter(db *gorm.DB, p RecipeParams) *gorm.DB {
	if p.Search != "" {
		pattern := containsPattern(p.Search)
		db = db.Where(`(LOWER(recipes.title) LIKE ? ESCAPE '\' OR LOWER(recipes.description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if p.Ingredient != "" {
		db = db.Where(`EXISTS (SELECT 1 FROM ingredients WHERE ingredients.recipe_id = recipes.id AND LOWER(ingredients.name) LIKE ? ESCAPE '\')`,
			containsPattern(p.Ingredient))
	}
	if p.MinLikes != nil && *p.MinLikes > 0 {
		db = db.Where(LikesCountSQL+" >= ?", *p.MinLikes)
	}
	return db
}

// Order adds ORDER BY for p.Sort. Unknown fields are ignored; without a
// usable field the newest recipes come first. The id tie-break keeps pages
// stable.
func Order(db *gorm.DB, p RecipeParams) *gorm.DB {
	field := p.Sort
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	column, ok := sortColumns[field]
	if !ok {
		column, desc = "recipes.created_at", true
	}
	if desc {
		column += " DESC"
	}
	return db.Order(column).Order("recipes.id")
}

// ListRecipes runs the listing for p and returns one page with its metadata.
func ListRecipes(ctx context.Context, db *gorm.DB, p RecipeParams) (*types.RecipePage, error) {
	base := Filter(db.WithContext(ctx).Model(&models.Recipe{}), p).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	recipes := make([]models.Recipe, 0, p.PerPage)
	err := Order(WithLikesCount(base), p).
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	return &types.RecipePage{
		Data: recipes,
		Meta: NewPageMeta(p, total),
	}, nil
}

// NewPageMeta computes pagination metadata. last_page is at least 1.
func NewPageMeta(p RecipeParams, total int64) types.PageMeta {
	last := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		last = 1
	}
	return types.PageMeta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    last,
	}
}
