// Package query composes the filtered, sorted and paginated recipe listing.
package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 50

	// maxOffset bounds (page-1)*per_page so it fits every driver's OFFSET.
	maxOffset = math.MaxInt32
)

// RecipeParams are the listing options taken from the query string. All
// filters are optional and combine with AND.
type RecipeParams struct {
	Search     string
	Ingredient string
	MinLikes   *int
	Sort       string
	Page       int
	PerPage    int
}

// ValidationError reports query string values that are not integers.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "invalid query parameters: " + strings.Join(names, ", ")
}

// ParseRecipeParams reads listing options from v, applying defaults and the
// per_page ceiling.
func ParseRecipeParams(v url.Values) (RecipeParams, error) {
	p := RecipeParams{
		Search:     strings.TrimSpace(v.Get("q")),
		Ingredient: strings.TrimSpace(v.Get("ingredient")),
		Sort:       strings.TrimSpace(v.Get("sort")),
		Page:       1,
		PerPage:    DefaultPerPage,
	}

	errs := map[string][]string{}
	readInt := func(name string) (int, bool) {
		raw := strings.TrimSpace(v.Get(name))
		if raw == "" {
			return 0, false
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs[name] = append(errs[name], "The "+name+" field must be an integer.")
			return 0, false
		}
		return n, true
	}

	if n, ok := readInt("per_page"); ok {
		switch {
		case n > MaxPerPage:
			p.PerPage = MaxPerPage
		case n >= 1:
			p.PerPage = n
		}
	}
	if n, ok := readInt("page"); ok && n > 1 {
		p.Page = min(n, maxOffset/p.PerPage+1)
	}
	if n, ok := readInt("min_likes"); ok && n >= 0 {
		p.MinLikes = &n
	}

	if len(errs) > 0 {
		return p, &ValidationError{Fields: errs}
	}
	return p, nil
}

// Offset is the number of rows skipped before the current page.
func (p RecipeParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}
