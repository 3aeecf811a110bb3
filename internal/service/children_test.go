package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetario/backend/internal/service"
	"github.com/pageza/recetario/backend/internal/testhelpers"
	"github.com/pageza/recetario/backend/internal/types"
)

func TestIngredientsAreScopedToRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewIngredientService(db)
	ctx := context.Background()

	owner := testhelpers.CreateUser(t, db, "owner@example.com")
	a := testhelpers.CreateRecipe(t, db, owner, "A", false)
	b := testhelpers.CreateRecipe(t, db, owner, "B", false)

	ing, err := svc.Create(ctx, a.ID, &types.CreateIngredientRequest{Name: "sal", Quantity: "1", Unit: "pizca"})
	require.NoError(t, err)

	_, err = svc.Find(ctx, b.ID, ing.ID)
	assert.ErrorIs(t, err, service.ErrNotFound, "wrong parent must not resolve")

	found, err := svc.Find(ctx, a.ID, ing.ID)
	require.NoError(t, err)
	assert.Equal(t, "sal", found.Name)

	qty := "2"
	updated, err := svc.Update(ctx, found, &types.UpdateIngredientRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Quantity)
	assert.Equal(t, "pizca", updated.Unit)

	list, err := svc.List(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.List(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.Delete(ctx, updated))
	_, err = svc.Find(ctx, a.ID, ing.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommentsEmbedAuthor(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCommentService(db)
	ctx := context.Background()

	owner := testhelpers.CreateUser(t, db, "owner@example.com")
	reader := testhelpers.CreateUser(t, db, "reader@example.com")
	a := testhelpers.CreateRecipe(t, db, owner, "A", false)
	b := testhelpers.CreateRecipe(t, db, owner, "B", false)

	c, err := svc.Create(ctx, a.ID, reader.ID, "Muy buena")
	require.NoError(t, err)
	require.NotNil(t, c.User)
	assert.Equal(t, reader.Name, c.User.Name)

	_, err = svc.Find(ctx, b.ID, c.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	edited, err := svc.Update(ctx, c, "Buenísima")
	require.NoError(t, err)
	assert.Equal(t, "Buenísima", edited.Text)

	list, err := svc.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, reader.ID, list[0].User.ID)

	require.NoError(t, svc.Delete(ctx, edited))
	list, err = svc.List(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
