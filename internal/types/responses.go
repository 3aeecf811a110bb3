package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recetario/backend/internal/models"
)

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Roles []string  `json:"roles"`
}

// NewUserResponse builds the public view of a user
func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Roles: u.RoleNames(),
	}
}

// PageMeta carries pagination metadata for list responses
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// RecipePage is one page of the recipe listing
type RecipePage struct {
	Data []models.Recipe `json:"data"`
	Meta PageMeta        `json:"meta"`
}

// LikeStatus describes the like state of a recipe for the current user
type LikeStatus struct {
	RecipeID   uuid.UUID `json:"receta_id"`
	Liked      bool      `json:"liked"`
	LikesCount int64     `json:"likes_count"`
}

// AuthorResponse is the author embedded in a comment
type AuthorResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CommentResponse is the public view of a comment
type CommentResponse struct {
	ID        uuid.UUID       `json:"id"`
	RecipeID  uuid.UUID       `json:"receta_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Text      string          `json:"texto"`
	User      *AuthorResponse `json:"user,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewCommentResponse builds the public view of c
func NewCommentResponse(c *models.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.User != nil {
		resp.User = &AuthorResponse{ID: c.User.ID, Name: c.User.Name}
	}
	return resp
}

// NewCommentResponses maps a slice of comments
func NewCommentResponses(comments []models.Comment) []*CommentResponse {
	out := make([]*CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
