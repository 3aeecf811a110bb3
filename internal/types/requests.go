package types

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,max=60"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string `json:"titulo" binding:"required,max=200"`
	Description  string `json:"descripcion" binding:"required"`
	Instructions string `json:"instrucciones" binding:"required"`
	Published    bool   `json:"publicada"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Absent fields are left untouched; present ones must not be empty.
type UpdateRecipeRequest struct {
	Title        *string `json:"titulo" binding:"omitnil,min=1,max=200"`
	Description  *string `json:"descripcion" binding:"omitnil,min=1"`
	Instructions *string `json:"instrucciones" binding:"omitnil,min=1"`
	Published    *bool   `json:"publicada"`
}

// CreateIngredientRequest represents the request body for adding an ingredient
type CreateIngredientRequest struct {
	Name     string `json:"nombre" binding:"required,max=200"`
	Quantity string `json:"cantidad" binding:"required,max=50"`
	Unit     string `json:"unidad" binding:"required,max=50"`
}

// UpdateIngredientRequest represents the request body for updating an ingredient
type UpdateIngredientRequest struct {
	Name     *string `json:"nombre" binding:"omitnil,min=1,max=200"`
	Quantity *string `json:"cantidad" binding:"omitnil,min=1,max=50"`
	Unit     *string `json:"unidad" binding:"omitnil,min=1,max=50"`
}

// CommentRequest is used both to create and to update a comment
type CommentRequest struct {
	Text string `json:"texto" binding:"required,max=1000"`
}
