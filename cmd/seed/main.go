package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	reset := flag.Bool("reset", false, "delete existing users and recipes before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}
	ctx := context.Background()

	if *reset {
		// Children first so foreign keys hold on Postgres.
		log.Println("Cleaning old data...")
		for _, table := range []string{
			"shopping_cart_items", "favorites", "subscriptions",
			"recipe_tags", "recipe_ingredients", "recipes",
			"revoked_tokens", "users",
		} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				log.Fatalf("clean %s: %v", table, err)
			}
		}
	}

	// ================== TAGS ==================
	log.Println("Creating tags...")
	tagRepo := repository.NewTagRepository(db)
	if err := tagRepo.Upsert(ctx, []domain.Tag{
		{Name: "Завтрак", Slug: "breakfast", Color: "#E26C2D"},
		{Name: "Обед", Slug: "lunch", Color: "#49B64E"},
		{Name: "Ужин", Slug: "dinner", Color: "#8775D2"},
	}); err != nil {
		log.Fatal("tags:", err)
	}
	tags, err := tagRepo.List(ctx)
	if err != nil {
		log.Fatal("tags:", err)
	}

	// ================== INGREDIENTS ==================
	log.Println("Creating ingredients...")
	ingredientRepo := repository.NewIngredientRepository(db)
	if _, err := ingredientRepo.CreateMissing(ctx, []domain.Ingredient{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "сахар", MeasurementUnit: "г"},
		{Name: "яйца", MeasurementUnit: "шт."},
		{Name: "молоко", MeasurementUnit: "мл"},
		{Name: "соль", MeasurementUnit: "по вкусу"},
		{Name: "сливочное масло", MeasurementUnit: "г"},
		{Name: "картофель", MeasurementUnit: "г"},
		{Name: "курица", MeasurementUnit: "г"},
	}); err != nil {
		log.Fatal("ingredients:", err)
	}
	ingredients, err := ingredientRepo.List(ctx, "")
	if err != nil {
		log.Fatal("ingredients:", err)
	}

	// ================== USERS ==================
	log.Println("Creating users...")
	admin := upsertUser(db, "admin@foodgram.local", "admin", "admin123", domain.RoleAdmin)
	log.Println("Admin created: admin@foodgram.local / admin123")

	cooks := make([]domain.User, 0, 3)
	for i, name := range []string{"anna", "boris", "vera"} {
		cook := upsertUser(db, name+"@foodgram.local", name, "cook12345", domain.RoleUser)
		cooks = append(cooks, cook)
		log.Printf("Cook %d created: %s / cook12345", i+1, cook.Email)
	}

	// ================== RECIPES ==================
	log.Println("Creating recipes...")
	recipeRepo := repository.NewRecipeRepository(db)
	titles := []string{"Блины", "Омлет", "Куриный суп", "Картофельное пюре", "Сырники", "Запеканка"}
	created := make([]domain.Recipe, 0, len(titles))
	for i, title := range titles {
		author := cooks[i%len(cooks)]
		recipe := domain.Recipe{
			AuthorID:    author.ID,
			Name:        title,
			Text:        fmt.Sprintf("%s: смешать, приготовить, подать.", title),
			Image:       "",
			CookingTime: 10 + rand.Intn(50),
			ShortCode:   strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
			Tags:        []domain.Tag{tags[rand.Intn(len(tags))]},
		}
		for _, idx := range rand.Perm(len(ingredients))[:3] {
			recipe.Ingredients = append(recipe.Ingredients, domain.RecipeIngredient{
				IngredientID: ingredients[idx].ID,
				Amount:       1 + rand.Intn(500),
			})
		}
		if err := recipeRepo.Create(ctx, &recipe); err != nil {
			log.Fatalf("recipe %q: %v", title, err)
		}
		created = append(created, recipe)
	}

	// ================== SOCIAL ==================
	log.Println("Creating subscriptions, favorites and carts...")
	subs := repository.NewSubscriptionRepository(db)
	favorites := repository.NewFavoriteRepository(db)
	cart := repository.NewShoppingCartRepository(db)
	for i, cook := range cooks {
		next := cooks[(i+1)%len(cooks)]
		ignoreDuplicate(subs.Add(ctx, cook.ID, next.ID))
		ignoreDuplicate(favorites.Add(ctx, cook.ID, created[(i+1)%len(created)].ID))
		ignoreDuplicate(cart.Add(ctx, cook.ID, created[i].ID))
		ignoreDuplicate(cart.Add(ctx, cook.ID, created[(i+2)%len(created)].ID))
	}
	ignoreDuplicate(subs.Add(ctx, admin.ID, cooks[0].ID))

	log.Printf("Seed completed: %d tags, %d ingredients, %d users, %d recipes",
		len(tags), len(ingredients), len(cooks)+1, len(created))
}

func upsertUser(db *gorm.DB, email, username, password string, role domain.UserRole) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt:", err)
	}
	u := domain.User{
		Email:        email,
		Username:     username,
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		LastName:     "Demo",
		PasswordHash: string(hash),
		Role:         role,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "password_hash", "role", "updated_at"}),
	}).Create(&u).Error
	if err != nil {
		log.Fatalf("user %s: %v", email, err)
	}
	if u.ID == 0 {
		if err := db.Where("email = ?", email).First(&u).Error; err != nil {
			log.Fatalf("user %s: %v", email, err)
		}
	}
	return u
}

func ignoreDuplicate(err error) {
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		log.Fatal(err)
	}
}
