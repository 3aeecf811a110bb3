//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetario/backend/internal/logging"
	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/query"
	"github.com/pageza/recetario/backend/internal/service"
	"github.com/pageza/recetario/backend/internal/testhelpers"
	"github.com/pageza/recetario/backend/internal/types"
)

// Concurrent toggles by the same user never leave more than one like, and
// an even number of them ends unliked.
func TestConcurrentLikeToggle(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	likes := service.NewLikeService(db)
	owner := testhelpers.CreateUser(t, db, "owner@example.com")
	fan := testhelpers.CreateUser(t, db, "fan@example.com")
	recipe := testhelpers.CreateRecipe(t, db, owner, "Fabada", true)

	const toggles = 20
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := likes.Toggle(context.Background(), fan.ID, recipe.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	n, err := likes.Count(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(1))
}

func TestPublishedLockOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	recipes := service.NewRecipeService(db, logging.Discard())
	owner := testhelpers.CreateUser(t, db, "owner@example.com")
	recipe := testhelpers.CreateRecipe(t, db, owner, "Fabada", false)
	ctx := context.Background()

	published := true
	_, err := recipes.Update(ctx, recipe, &types.UpdateRecipeRequest{Published: &published})
	require.NoError(t, err)

	// a stale copy still thinks the recipe is a draft
	title := "Otra"
	_, err = recipes.Update(ctx, recipe, &types.UpdateRecipeRequest{Title: &title})
	var domainErr *service.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, service.CodeRecipePublished, domainErr.Code)
}

func TestListingAndCascadeOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	recipes := service.NewRecipeService(db, logging.Discard())
	owner := testhelpers.CreateUser(t, db, "owner@example.com")
	ctx := context.Background()

	tortilla := testhelpers.CreateRecipe(t, db, owner, "Tortilla 100%", true)
	testhelpers.AddIngredient(t, db, tortilla, "Huevo")
	testhelpers.AddComment(t, db, tortilla, owner, "Bien")
	testhelpers.AddLikes(t, db, tortilla, 2)
	testhelpers.CreateRecipe(t, db, owner, "Tortilla francesa", true)

	minLikes := 2
	page, err := recipes.List(ctx, query.RecipeParams{Search: "100%", Ingredient: "huevo", MinLikes: &minLikes, Sort: "-likes_count", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, tortilla.ID, page.Data[0].ID)
	assert.EqualValues(t, 2, page.Data[0].LikesCount)

	require.NoError(t, recipes.Delete(ctx, tortilla))
	for _, m := range []interface{}{&models.Like{}, &models.Comment{}, &models.Ingredient{}} {
		var n int64
		require.NoError(t, db.Model(m).Where("recipe_id = ?", tortilla.ID).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}
}
