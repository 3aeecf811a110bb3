package query_test

import (
	"context"
	"net/url"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/query"
	"github.com/pageza/recetario/backend/internal/testhelpers"
	"github.com/pageza/recetario/backend/internal/types"
)

type fixture struct {
	db      *gorm.DB
	recipes map[string]*models.Recipe
}

// seed builds: Tortilla (huevo, patata; 5 likes), Gazpacho (tomate; 2 likes),
// Flan (huevo, leche; 0 likes), Arroz 100% (arroz; 1 like).
func seed(t *testing.T) *fixture {
	db := testhelpers.SetupTestDatabase(t)
	owner := testhelpers.CreateUser(t, db, "owner@example.com")

	f := &fixture{db: db, recipes: map[string]*models.Recipe{}}
	add := func(title string, likes int, ingredients ...string) {
		r := testhelpers.CreateRecipe(t, db, owner, title, false)
		for _, ing := range ingredients {
			testhelpers.AddIngredient(t, db, r, ing)
		}
		testhelpers.AddLikes(t, db, r, likes)
		f.recipes[title] = r
	}
	add("Tortilla", 5, "Huevo", "patata")
	add("Gazpacho", 2, "tomate")
	add("Flan", 0, "huevo", "leche")
	add("Arroz 100%", 1, "arroz")
	return f
}

func (f *fixture) list(t *testing.T, raw string) *types.RecipePage {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	p, err := query.ParseRecipeParams(v)
	require.NoError(t, err)
	page, err := query.ListRecipes(context.Background(), f.db, p)
	require.NoError(t, err)
	return page
}

func titles(page *types.RecipePage) []string {
	out := make([]string, 0, len(page.Data))
	for _, r := range page.Data {
		out = append(out, r.Title)
	}
	return out
}

func TestListCarriesLikesCount(t *testing.T) {
	f := seed(t)
	page := f.list(t, "per_page=50")

	require.Len(t, page.Data, 4)
	counts := map[string]int64{}
	for _, r := range page.Data {
		counts[r.Title] = r.LikesCount
	}
	assert.Equal(t, map[string]int64{"Tortilla": 5, "Gazpacho": 2, "Flan": 0, "Arroz 100%": 1}, counts)
}

func TestMinLikesIsExact(t *testing.T) {
	f := seed(t)

	page := f.list(t, "min_likes=2")
	assert.ElementsMatch(t, []string{"Tortilla", "Gazpacho"}, titles(page))
	for _, r := range page.Data {
		assert.GreaterOrEqual(t, r.LikesCount, int64(2))
	}
	assert.Equal(t, int64(2), page.Meta.Total)

	assert.Len(t, f.list(t, "min_likes=5").Data, 1)
	assert.Empty(t, f.list(t, "min_likes=6").Data)
	assert.Len(t, f.list(t, "min_likes=0").Data, 4)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	f := seed(t)

	assert.Equal(t, []string{"Tortilla"}, titles(f.list(t, "q=TORTI")))
	// description is "Descripción de <title>"
	assert.Len(t, f.list(t, "q=descripción").Data, 4)
}

func TestSearchEscapesWildcards(t *testing.T) {
	f := seed(t)

	assert.Equal(t, []string{"Arroz 100%"}, titles(f.list(t, "q="+url.QueryEscape("100%"))))
	assert.Empty(t, f.list(t, "q="+url.QueryEscape("%")+"zz").Data)
	assert.Empty(t, f.list(t, "q=_ortilla").Data)
}

func TestIngredientFilter(t *testing.T) {
	f := seed(t)

	page := f.list(t, "ingredient=HUE")
	assert.ElementsMatch(t, []string{"Tortilla", "Flan"}, titles(page))
	assert.Equal(t, int64(2), page.Meta.Total, "a recipe matching several ingredients counts once")
}

func TestFiltersIntersect(t *testing.T) {
	f := seed(t)

	only := func(raw string) []string { return titles(f.list(t, raw)) }
	ingredient := only("ingredient=huevo")
	likes := only("min_likes=1")
	both := only("ingredient=huevo&min_likes=1")

	var want []string
	for _, a := range ingredient {
		for _, b := range likes {
			if a == b {
				want = append(want, a)
			}
		}
	}
	assert.ElementsMatch(t, want, both)
	assert.Equal(t, []string{"Tortilla"}, both)

	assert.Empty(t, only("q=gazpacho&ingredient=huevo"))
}

func TestSortByTitleDescending(t *testing.T) {
	f := seed(t)

	got := titles(f.list(t, "sort=-titulo"))
	require.Len(t, got, 4)
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i] > got[j] }), "got %v", got)

	asc := titles(f.list(t, "sort=title"))
	assert.Equal(t, []string{"Arroz 100%", "Flan", "Gazpacho", "Tortilla"}, asc)
}

func TestSortByLikes(t *testing.T) {
	f := seed(t)
	assert.Equal(t, []string{"Tortilla", "Gazpacho", "Arroz 100%", "Flan"}, titles(f.list(t, "sort=-likes_count")))
	assert.Equal(t, []string{"Flan", "Arroz 100%", "Gazpacho", "Tortilla"}, titles(f.list(t, "sort=likes_count")))
}

func TestUnknownSortIsIgnored(t *testing.T) {
	f := seed(t)
	page := f.list(t, "sort=-password_hash")
	assert.Len(t, page.Data, 4)
}

func TestPagination(t *testing.T) {
	f := seed(t)

	first := f.list(t, "per_page=3&sort=title")
	assert.Equal(t, []string{"Arroz 100%", "Flan", "Gazpacho"}, titles(first))
	assert.Equal(t, types.PageMeta{CurrentPage: 1, PerPage: 3, Total: 4, LastPage: 2}, first.Meta)

	second := f.list(t, "per_page=3&page=2&sort=title")
	assert.Equal(t, []string{"Tortilla"}, titles(second))

	beyond := f.list(t, "per_page=3&page=9")
	assert.Empty(t, beyond.Data)
	assert.Equal(t, int64(4), beyond.Meta.Total)
}

func TestHugePageListsNothing(t *testing.T) {
	f := seed(t)

	page := f.list(t, "page=9223372036854775807&per_page=50")
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(4), page.Meta.Total)
	assert.Equal(t, 1, page.Meta.LastPage)
	assert.Greater(t, page.Meta.CurrentPage, 1)
}

func TestPerPageClampedTo50(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	owner := testhelpers.CreateUser(t, db, "bulk@example.com")
	for i := 0; i < 55; i++ {
		testhelpers.CreateRecipe(t, db, owner, "Receta", false)
	}

	p, err := query.ParseRecipeParams(url.Values{"per_page": {"500"}})
	require.NoError(t, err)
	page, err := query.ListRecipes(context.Background(), db, p)
	require.NoError(t, err)

	assert.Len(t, page.Data, 50)
	assert.Equal(t, 50, page.Meta.PerPage)
	assert.Equal(t, 2, page.Meta.LastPage)
}
