package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type recordingNotifier struct {
	mu        sync.Mutex
	published []int64
}

func (n *recordingNotifier) RecipePublished(_ context.Context, r *domain.Recipe) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, r.ID)
}

type counter struct{ n int }

func (c *counter) RecipeCreated() { c.n++ }

type fixture struct {
	db       *gorm.DB
	router   *gin.Engine
	jwt      *jwt.Service
	notifier *recordingNotifier
	created  *counter
	sugar    domain.Ingredient
	flour    domain.Ingredient
	lunch    domain.Tag
	dinner   domain.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:       db,
		jwt:      jwt.New("recipes-test-secret", time.Hour),
		notifier: &recordingNotifier{},
		created:  &counter{},
		sugar:    domain.Ingredient{Name: "sugar", MeasurementUnit: "g"},
		flour:    domain.Ingredient{Name: "flour", MeasurementUnit: "g"},
		lunch:    domain.Tag{Name: "Lunch", Slug: "lunch", Color: "#00FF00"},
		dinner:   domain.Tag{Name: "Dinner", Slug: "dinner", Color: "#0000FF"},
	}
	require.NoError(t, db.Create(&f.sugar).Error)
	require.NoError(t, db.Create(&f.flour).Error)
	require.NoError(t, db.Create(&f.lunch).Error)
	require.NoError(t, db.Create(&f.dinner).Error)

	svc := NewService(Deps{
		Recipes:       repository.NewRecipeRepository(db),
		Catalog:       catalog.NewService(repository.NewIngredientRepository(db), repository.NewTagRepository(db), nil),
		Favorites:     repository.NewFavoriteRepository(db),
		Cart:          repository.NewShoppingCartRepository(db),
		Subscriptions: repository.NewSubscriptionRepository(db),
		Images:        storage.NewMediaStore(t.TempDir(), "/media"),
		Notifier:      f.notifier,
		Metrics:       f.created,
		PublicBaseURL: "https://foodgram.example/",
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, 6, 100)
	h.RegisterRoutes(r.Group("/api"),
		middleware.JWTAuth(f.jwt, nil),
		middleware.OptionalAuth(f.jwt, nil))
	h.RegisterShortLinks(r)
	f.router = r
	return f
}

func (f *fixture) user(t *testing.T, username string, role domain.UserRole) (*domain.User, string) {
	t.Helper()
	u := &domain.User{Email: username + "@example.com", Username: username, FirstName: "F", LastName: "L", PasswordHash: "x", Role: role}
	require.NoError(t, repository.NewUserRepository(f.db).Create(context.Background(), u))
	token, err := f.jwt.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return u, token
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) validRecipe(name string) map[string]any {
	return map[string]any{
		"name":         name,
		"text":         "Mix and bake.",
		"cooking_time": 30,
		"image":        pngDataURI,
		"tags":         []int64{f.lunch.ID},
		"ingredients": []map[string]any{
			{"id": f.sugar.ID, "amount": 100},
			{"id": f.flour.ID, "amount": 250},
		},
	}
}

func (f *fixture) create(t *testing.T, token, name string) RecipeResponse {
	t.Helper()
	w := f.do(http.MethodPost, "/api/recipes", token, f.validRecipe(name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[RecipeResponse](t, w)
}

func (f *fixture) count(t *testing.T, table string, recipeID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Where("recipe_id = ?", recipeID).Count(&n).Error)
	return n
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data
}

type page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) (string, map[string]string) {
	t.Helper()
	var env struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Error.Code, env.Error.Details
}

func TestCreateRecipe(t *testing.T) {
	f := newFixture(t)
	author, token := f.user(t, "chef", domain.RoleUser)

	created := f.create(t, token, "Pie")
	assert.Equal(t, "Pie", created.Name)
	assert.Equal(t, author.ID, created.Author.ID)
	assert.False(t, created.Author.IsSubscribed)
	assert.False(t, created.IsFavorited)
	assert.True(t, strings.HasPrefix(created.Image, "/media/recipes/"), created.Image)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "lunch", created.Tags[0].Slug)
	require.Len(t, created.Ingredients, 2)
	assert.Equal(t, IngredientInRecipe{ID: f.sugar.ID, Name: "sugar", MeasurementUnit: "g", Amount: 100}, created.Ingredients[0])

	assert.Equal(t, []int64{created.ID}, f.notifier.published)
	assert.Equal(t, 1, f.created.n)

	w := f.do(http.MethodPost, "/api/recipes", "", f.validRecipe("Anon"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipe_Validation(t *testing.T) {
	f := newFixture(t)
	_, token := f.user(t, "chef", domain.RoleUser)

	tests := []struct {
		name   string
		mutate func(body map[string]any)
		field  string
	}{
		{"zero amount", func(b map[string]any) {
			b["ingredients"] = []map[string]any{{"id": f.sugar.ID, "amount": 0}}
		}, "ingredients[0].amount"},
		{"no ingredients", func(b map[string]any) { b["ingredients"] = []map[string]any{} }, "ingredients"},
		{"no tags", func(b map[string]any) { b["tags"] = []int64{} }, "tags"},
		{"zero cooking time", func(b map[string]any) { b["cooking_time"] = 0 }, "cooking_time"},
		{"missing image", func(b map[string]any) { delete(b, "image") }, "image"},
		{"long name", func(b map[string]any) { b["name"] = strings.Repeat("x", 257) }, "name"},
		{"duplicate ingredient", func(b map[string]any) {
			b["ingredients"] = []map[string]any{{"id": f.sugar.ID, "amount": 1}, {"id": f.sugar.ID, "amount": 2}}
		}, "ingredients"},
		{"duplicate tag", func(b map[string]any) { b["tags"] = []int64{f.lunch.ID, f.lunch.ID} }, "tags"},
		{"unknown ingredient", func(b map[string]any) {
			b["ingredients"] = []map[string]any{{"id": 9999, "amount": 1}}
		}, "ingredients[0].id"},
		{"unknown tag", func(b map[string]any) { b["tags"] = []int64{9999} }, "tags[0]"},
		{"bad image", func(b map[string]any) { b["image"] = "not-an-image" }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := f.validRecipe("Bad")
			tt.mutate(body)
			w := f.do(http.MethodPost, "/api/recipes", token, body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			code, details := errorBody(t, w)
			assert.Equal(t, "VALIDATION_ERROR", code)
			assert.Contains(t, details, tt.field)
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&domain.Recipe{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Zero(t, f.created.n)
}

func TestUpdateAndDelete_Permissions(t *testing.T) {
	f := newFixture(t)
	_, authorToken := f.user(t, "author", domain.RoleUser)
	_, strangerToken := f.user(t, "stranger", domain.RoleUser)
	_, adminToken := f.user(t, "admin", domain.RoleAdmin)

	recipe := f.create(t, authorToken, "Soup")
	path := fmt.Sprintf("/api/recipes/%d", recipe.ID)

	update := f.validRecipe("Better soup")
	delete(update, "image")
	update["tags"] = []int64{f.dinner.ID, f.lunch.ID}
	update["ingredients"] = []map[string]any{{"id": f.flour.ID, "amount": 5}}

	w := f.do(http.MethodPatch, path, strangerToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPatch, path, authorToken, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[RecipeResponse](t, w)
	assert.Equal(t, "Better soup", updated.Name)
	assert.Equal(t, recipe.Image, updated.Image)
	assert.Len(t, updated.Tags, 2)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 5, updated.Ingredients[0].Amount)

	w = f.do(http.MethodPatch, "/api/recipes/9999", authorToken, update)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodDelete, path, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe_RemovesDependents(t *testing.T) {
	f := newFixture(t)
	_, token := f.user(t, "author", domain.RoleUser)
	recipe := f.create(t, token, "Stew")

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID), token, nil).Code)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", recipe.ID), token, nil).Code)

	w := f.do(http.MethodDelete, fmt.Sprintf("/api/recipes/%d", recipe.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	for _, table := range []string{"recipe_ingredients", "recipe_tags", "favorites", "shopping_cart_items"} {
		assert.Zero(t, f.count(t, table, recipe.ID), table)
	}
}

func TestFavoriteAndCartToggles(t *testing.T) {
	f := newFixture(t)
	_, token := f.user(t, "cook", domain.RoleUser)
	recipe := f.create(t, token, "Cake")

	for _, kind := range []struct {
		path  string
		table string
		dup   string
		miss  string
	}{
		{"favorite", "favorites", "ALREADY_FAVORITED", "NOT_FAVORITED"},
		{"shopping_cart", "shopping_cart_items", "ALREADY_IN_CART", "NOT_IN_CART"},
	} {
		t.Run(kind.path, func(t *testing.T) {
			path := fmt.Sprintf("/api/recipes/%d/%s", recipe.ID, kind.path)

			w := f.do(http.MethodPost, path, token, nil)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			short := decode[RecipeShortResponse](t, w)
			assert.Equal(t, recipe.ID, short.ID)
			assert.Equal(t, "Cake", short.Name)

			w = f.do(http.MethodPost, path, token, nil)
			assert.Equal(t, http.StatusConflict, w.Code)
			code, _ := errorBody(t, w)
			assert.Equal(t, kind.dup, code)
			assert.EqualValues(t, 1, f.count(t, kind.table, recipe.ID))

			w = f.do(http.MethodDelete, path, token, nil)
			assert.Equal(t, http.StatusNoContent, w.Code)

			w = f.do(http.MethodDelete, path, token, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			code, _ = errorBody(t, w)
			assert.Equal(t, kind.miss, code)

			w = f.do(http.MethodPost, fmt.Sprintf("/api/recipes/9999/%s", kind.path), token, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)

			w = f.do(http.MethodPost, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestListRecipes_Filters(t *testing.T) {
	f := newFixture(t)
	alice, aliceToken := f.user(t, "alice", domain.RoleUser)
	_, bobToken := f.user(t, "bob", domain.RoleUser)

	first := f.create(t, aliceToken, "First")
	dinnerBody := f.validRecipe("Second")
	dinnerBody["tags"] = []int64{f.dinner.ID}
	w := f.do(http.MethodPost, "/api/recipes", aliceToken, dinnerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[RecipeResponse](t, w)
	third := f.create(t, bobToken, "Third")

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", first.ID), bobToken, nil).Code)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", second.ID), bobToken, nil).Code)

	names := func(path, token string) []string {
		t.Helper()
		w := f.do(http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		p := decode[page[RecipeResponse]](t, w)
		out := make([]string, len(p.Results))
		for i, r := range p.Results {
			out[i] = r.Name
		}
		return out
	}

	assert.Equal(t, []string{third.Name, second.Name, first.Name}, names("/api/recipes", ""))
	assert.Equal(t, []string{"Second", "First"}, names(fmt.Sprintf("/api/recipes?author=%d", alice.ID), ""))
	assert.Equal(t, []string{"Second"}, names("/api/recipes?tags=dinner", ""))
	assert.Equal(t, []string{"Third", "Second", "First"}, names("/api/recipes?tags=dinner&tags=lunch", ""))
	assert.Equal(t, []string{"First"}, names("/api/recipes?is_favorited=1", bobToken))
	assert.Equal(t, []string{"Second"}, names("/api/recipes?is_in_shopping_cart=1", bobToken))
	assert.Len(t, names("/api/recipes?is_favorited=1", ""), 3)
	assert.Equal(t, []string{"Third"}, names("/api/recipes?limit=1", ""))

	w = f.do(http.MethodGet, "/api/recipes?author=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", first.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[RecipeResponse](t, w)
	assert.True(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)
}

func TestShortLink(t *testing.T) {
	f := newFixture(t)
	_, token := f.user(t, "chef", domain.RoleUser)
	recipe := f.create(t, token, "Salad")

	w := f.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d/get-link", recipe.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	link := decode[ShortLinkResponse](t, w).ShortLink
	require.True(t, strings.HasPrefix(link, "https://foodgram.example/s/"), link)
	code := strings.TrimPrefix(link, "https://foodgram.example/s/")
	assert.Len(t, code, shortCodeLength)

	w = f.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d/get-link", recipe.ID), "", nil)
	assert.Equal(t, link, decode[ShortLinkResponse](t, w).ShortLink)

	w = f.do(http.MethodGet, "/s/"+code, "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("https://foodgram.example/recipes/%d", recipe.ID), w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/s/nope00", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/recipes/9999/get-link", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
