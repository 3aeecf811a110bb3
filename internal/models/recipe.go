package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID           uuid.UUID    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User         *User        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title        string       `gorm:"size:200;not null" json:"titulo"`
	Description  string       `gorm:"type:text;not null" json:"descripcion"`
	Instructions string       `gorm:"type:text;not null" json:"instrucciones"`
	Published    bool         `gorm:"not null;default:false" json:"publicada"`
	ImageURL     *string      `gorm:"size:512" json:"imagen"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Ingredients  []Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredientes,omitempty"`
	Comments     []Comment    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Likes        []Like       `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// LikesCount is filled by listing and detail queries; it is not a column.
	LikesCount int64 `gorm:"->;-:migration" json:"likes_count"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Ingredient struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"receta_id"`
	Name      string    `gorm:"size:200;not null" json:"nombre"`
	Quantity  string    `gorm:"size:50;not null" json:"cantidad"`
	Unit      string    `gorm:"size:50;not null" json:"unidad"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"receta_id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Text      string    `gorm:"size:1000;not null" json:"texto"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Like is unique per (user, recipe); the composite index is what serializes
// concurrent toggles of the same pair.
type Like struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_recipe" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_user_recipe;index" json:"receta_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
