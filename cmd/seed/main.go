package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/database"
	"github.com/pageza/recetario/backend/internal/logging"
	"github.com/pageza/recetario/backend/internal/models"
)

const demoPassword = "password"

type demoUser struct {
	name  string
	email string
	role  string
}

var demoUsers = []demoUser{
	{name: "Administrador", email: "admin@demo.local", role: models.RoleAdmin},
	{name: "Usuario Demo", email: "user@demo.local", role: models.RoleUser},
}

type demoRecipe struct {
	title        string
	description  string
	instructions string
	published    bool
	ingredients  [][3]string
}

var demoRecipes = []demoRecipe{
	{
		title:        "Tortilla de patatas",
		description:  "La clásica, jugosa por dentro.",
		instructions: "Pelar y freír las patatas con la cebolla. Batir los huevos, mezclar y cuajar por ambos lados.",
		published:    true,
		ingredients:  [][3]string{{"patata", "500", "g"}, {"huevo", "6", "ud"}, {"cebolla", "1", "ud"}, {"aceite de oliva", "200", "ml"}},
	},
	{
		title:        "Gazpacho andaluz",
		description:  "Sopa fría de verano.",
		instructions: "Triturar todas las verduras con el pan, el aceite y el vinagre. Colar y enfriar.",
		published:    true,
		ingredients:  [][3]string{{"tomate", "1", "kg"}, {"pepino", "1", "ud"}, {"pimiento verde", "1", "ud"}, {"ajo", "1", "diente"}},
	},
	{
		title:        "Flan de huevo",
		description:  "Postre casero al baño maría.",
		instructions: "Hacer el caramelo, batir huevos con leche y azúcar, hornear al baño maría 45 minutos.",
		published:    false,
		ingredients:  [][3]string{{"huevo", "4", "ud"}, {"leche", "500", "ml"}, {"azúcar", "100", "g"}},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("info", false).WithError(err).Fatal("failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, config.IsProduction())
	ctx := context.Background()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.RunMigrations(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Fatal("failed to hash password")
	}

	var author *models.User
	for _, du := range demoUsers {
		user, err := ensureUser(ctx, db, du, string(hash))
		if err != nil {
			log.WithError(err).WithField("email", du.email).Fatal("failed to create user")
		}
		if du.role == models.RoleUser {
			author = user
		}
	}

	for _, dr := range demoRecipes {
		if err := ensureRecipe(ctx, db, author, dr, log); err != nil {
			log.WithError(err).WithField("titulo", dr.title).Fatal("failed to create recipe")
		}
	}

	log.WithField("password", demoPassword).Info("demo data ready")
}

// ensureUser creates the user unless the email is already registered.
func ensureUser(ctx context.Context, db *gorm.DB, du demoUser, hash string) (*models.User, error) {
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", du.email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var role models.Role
	if err := db.WithContext(ctx).Where("name = ?", du.role).First(&role).Error; err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         du.name,
		Email:        du.email,
		PasswordHash: hash,
		Roles:        []models.Role{role},
	}
	return user, db.WithContext(ctx).Create(user).Error
}

func ensureRecipe(ctx context.Context, db *gorm.DB, author *models.User, dr demoRecipe, log *logrus.Logger) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Recipe{}).
		Where("user_id = ? AND title = ?", author.ID, dr.title).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.WithField("titulo", dr.title).Info("recipe already exists, skipping")
		return nil
	}

	recipe := &models.Recipe{
		UserID:       author.ID,
		Title:        dr.title,
		Description:  dr.description,
		Instructions: dr.instructions,
		Published:    dr.published,
	}
	for _, ing := range dr.ingredients {
		recipe.Ingredients = append(recipe.Ingredients, models.Ingredient{Name: ing[0], Quantity: ing[1], Unit: ing[2]})
	}
	if err := db.WithContext(ctx).Create(recipe).Error; err != nil {
		return err
	}
	log.WithField("titulo", dr.title).Info("recipe created")
	return nil
}
