package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pageza/recetario/backend/internal/policy"
	"github.com/pageza/recetario/backend/internal/query"
	"github.com/pageza/recetario/backend/internal/service"
)

// validationFailed writes the 422 envelope.
func validationFailed(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "validation failed",
		"errors":  fields,
	})
}

// respondError maps service, policy and validation errors to HTTP responses.
// Anything unrecognised is logged through c.Error and answered with a 500.
func respondError(c *gin.Context, err error) {
	var (
		verrs     validator.ValidationErrors
		bodyErr   *bodyError
		queryErr  *query.ValidationError
		imageErr  *service.ImageError
		domainErr *service.DomainError
	)

	switch {
	case errors.As(err, &verrs):
		validationFailed(c, validationMessages(verrs))
	case errors.As(err, &bodyErr):
		validationFailed(c, map[string][]string{bodyErr.field: {bodyErr.message}})
	case errors.As(err, &queryErr):
		validationFailed(c, queryErr.Fields)
	case errors.As(err, &imageErr):
		validationFailed(c, map[string][]string{"imagen": {imageErr.Message}})
	case errors.Is(err, service.ErrEmailTaken):
		validationFailed(c, map[string][]string{"email": {"The email has already been taken."}})
	case errors.As(err, &domainErr):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{
			"code":    domainErr.Code,
			"message": domainErr.Message,
		}})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "This action is unauthorized."})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// pathID reads a UUID path parameter. Malformed ids cannot name an existing
// row, so they are answered with 404.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
