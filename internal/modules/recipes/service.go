package recipes

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/repository"
)

const (
	imageDir            = "recipes"
	shortCodeLength     = 6
	shortCodeAlphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shortCodeAttempts   = 10
	shortLinkPathPrefix = "/s/"
)

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) canEdit(r *domain.Recipe) bool {
	return a.UserID == r.AuthorID || a.Role == string(domain.RoleAdmin)
}

// ListQuery mirrors the query string of GET /recipes.
type ListQuery struct {
	AuthorID         int64
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

type Deps struct {
	Recipes       RecipeRepository
	Catalog       CatalogLookup
	Favorites     repository.RecipeMarkRepository
	Cart          repository.RecipeMarkRepository
	Subscriptions SubscriptionChecker
	Images        ImageStore
	Notifier      Notifier
	Metrics       Recorder
	PublicBaseURL string
}

type Service struct {
	recipes       RecipeRepository
	catalog       CatalogLookup
	favorites     repository.RecipeMarkRepository
	cart          repository.RecipeMarkRepository
	subscriptions SubscriptionChecker
	images        ImageStore
	notifier      Notifier
	metrics       Recorder
	publicBaseURL string
}

func NewService(d Deps) *Service {
	return &Service{
		recipes:       d.Recipes,
		catalog:       d.Catalog,
		favorites:     d.Favorites,
		cart:          d.Cart,
		subscriptions: d.Subscriptions,
		images:        d.Images,
		notifier:      d.Notifier,
		metrics:       d.Metrics,
		publicBaseURL: strings.TrimRight(d.PublicBaseURL, "/"),
	}
}

// List returns a filtered page; viewerID 0 means anonymous, which disables the
// favorites and cart filters.
func (s *Service) List(ctx context.Context, viewerID int64, q ListQuery) ([]RecipeResponse, int64, error) {
	f := repository.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.TagSlugs,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if viewerID != 0 {
		if q.IsFavorited {
			f.FavoritedBy = viewerID
		}
		if q.IsInShoppingCart {
			f.InCartOf = viewerID
		}
	}

	list, total, err := s.recipes.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	flags, err := s.viewerFlags(ctx, viewerID, list)
	if err != nil {
		return nil, 0, err
	}

	out := make([]RecipeResponse, len(list))
	for i := range list {
		out[i] = toRecipeResponse(&list[i], flags)
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, viewerID, id int64) (*RecipeResponse, error) {
	r, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, viewerID, r)
}

func (s *Service) Create(ctx context.Context, authorID int64, req CreateRecipeRequest) (*RecipeResponse, error) {
	lines, tags, err := s.resolveComposition(ctx, req)
	if err != nil {
		return nil, err
	}

	code, err := s.newShortCode(ctx)
	if err != nil {
		return nil, err
	}
	image, err := s.images.SaveDataURI(ctx, imageDir, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		ShortCode:   code,
		Ingredients: lines,
		Tags:        tags,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		s.removeImage(image)
		return nil, err
	}

	created, err := s.getRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecipeCreated()
	}
	if s.notifier != nil {
		s.notifier.RecipePublished(ctx, created)
	}
	return s.respond(ctx, authorID, created)
}

// Update replaces name, text, cooking time, ingredients and tags. The image is
// replaced only when a new one is supplied.
func (s *Service) Update(ctx context.Context, actor Actor, id int64, req UpdateRecipeRequest) (*RecipeResponse, error) {
	existing, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canEdit(existing) {
		return nil, ErrForbidden
	}

	lines, tags, err := s.resolveComposition(ctx, req.toCreate())
	if err != nil {
		return nil, err
	}

	oldImage := existing.Image
	image := oldImage
	if req.Image != "" {
		if image, err = s.images.SaveDataURI(ctx, imageDir, req.Image); err != nil {
			return nil, err
		}
	}

	updated := &domain.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		ShortCode:   existing.ShortCode,
		Ingredients: lines,
		Tags:        tags,
	}
	if err := s.recipes.Update(ctx, updated); err != nil {
		if image != oldImage {
			s.removeImage(image)
		}
		return nil, translateRecipeErr(err)
	}
	if image != oldImage {
		s.removeImage(oldImage)
	}

	fresh, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, actor.UserID, fresh)
}

func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	existing, err := s.getRecipe(ctx, id)
	if err != nil {
		return err
	}
	if !actor.canEdit(existing) {
		return ErrForbidden
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return translateRecipeErr(err)
	}
	s.removeImage(existing.Image)
	return nil
}

func (s *Service) AddFavorite(ctx context.Context, userID, recipeID int64) (*RecipeShortResponse, error) {
	return s.mark(ctx, s.favorites, userID, recipeID, ErrAlreadyFavorited)
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return s.unmark(ctx, s.favorites, userID, recipeID, ErrNotFavorited)
}

func (s *Service) AddToCart(ctx context.Context, userID, recipeID int64) (*RecipeShortResponse, error) {
	return s.mark(ctx, s.cart, userID, recipeID, ErrAlreadyInCart)
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return s.unmark(ctx, s.cart, userID, recipeID, ErrNotInCart)
}

func (s *Service) mark(ctx context.Context, marks repository.RecipeMarkRepository, userID, recipeID int64, dup error) (*RecipeShortResponse, error) {
	r, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := marks.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, dup
		}
		return nil, err
	}
	short := toRecipeShort(r)
	return &short, nil
}

func (s *Service) unmark(ctx context.Context, marks repository.RecipeMarkRepository, userID, recipeID int64, missing error) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}
	if err := marks.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return missing
		}
		return err
	}
	return nil
}

// ShortLink returns the public short URL of a recipe, allocating a code for
// recipes that predate short links.
func (s *Service) ShortLink(ctx context.Context, id int64) (string, error) {
	r, err := s.getRecipe(ctx, id)
	if err != nil {
		return "", err
	}
	code := r.ShortCode
	if code == "" {
		if code, err = s.newShortCode(ctx); err != nil {
			return "", err
		}
		if err := s.recipes.SetShortCode(ctx, id, code); err != nil {
			return "", translateRecipeErr(err)
		}
	}
	return s.publicBaseURL + shortLinkPathPrefix + code, nil
}

// Resolve maps a short code back to its recipe id.
func (s *Service) Resolve(ctx context.Context, code string) (int64, error) {
	r, err := s.recipes.GetByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrShortCodeNotFound
		}
		return 0, err
	}
	return r.ID, nil
}

// RecipeURL is where a resolved short link points to.
func (s *Service) RecipeURL(id int64) string {
	return fmt.Sprintf("%s/recipes/%d", s.publicBaseURL, id)
}

// resolveComposition checks that ingredient and tag references are unique and exist.
func (s *Service) resolveComposition(ctx context.Context, req CreateRecipeRequest) ([]domain.RecipeIngredient, []domain.Tag, error) {
	fields := map[string]string{}

	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	seenIngredients := make(map[int64]bool, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if seenIngredients[item.ID] {
			fields["ingredients"] = "unique"
			continue
		}
		seenIngredients[item.ID] = true
		ingredientIDs = append(ingredientIDs, item.ID)
	}

	tagIDs := make([]int64, 0, len(req.Tags))
	seenTags := make(map[int64]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			fields["tags"] = "unique"
			continue
		}
		seenTags[id] = true
		tagIDs = append(tagIDs, id)
	}

	ingredients, err := s.catalog.IngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	tags, err := s.catalog.TagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}

	for i, item := range req.Ingredients {
		if _, ok := ingredients[item.ID]; !ok {
			fields[fmt.Sprintf("ingredients[%d].id", i)] = "exists"
		}
	}
	for i, id := range req.Tags {
		if _, ok := tags[id]; !ok {
			fields[fmt.Sprintf("tags[%d]", i)] = "exists"
		}
	}
	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}

	lines := make([]domain.RecipeIngredient, len(req.Ingredients))
	for i, item := range req.Ingredients {
		lines[i] = domain.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount}
	}
	outTags := make([]domain.Tag, len(tagIDs))
	for i, id := range tagIDs {
		outTags[i] = tags[id]
	}
	return lines, outTags, nil
}

func (s *Service) newShortCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		code, err := randomCode(shortCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := s.recipes.ShortCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrShortCodeExhaust
}

func randomCode(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	limit := big.NewInt(int64(len(shortCodeAlphabet)))
	for j := 0; j < n; j++ {
		i, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(shortCodeAlphabet[i.Int64()])
	}
	return b.String(), nil
}

func (s *Service) respond(ctx context.Context, viewerID int64, r *domain.Recipe) (*RecipeResponse, error) {
	flags, err := s.viewerFlags(ctx, viewerID, []domain.Recipe{*r})
	if err != nil {
		return nil, err
	}
	resp := toRecipeResponse(r, flags)
	return &resp, nil
}

func (s *Service) viewerFlags(ctx context.Context, viewerID int64, list []domain.Recipe) (viewerFlags, error) {
	if viewerID == 0 || len(list) == 0 {
		return viewerFlags{}, nil
	}
	recipeIDs := make([]int64, len(list))
	authorIDs := make([]int64, len(list))
	for i := range list {
		recipeIDs[i] = list[i].ID
		authorIDs[i] = list[i].AuthorID
	}

	var (
		flags viewerFlags
		err   error
	)
	if flags.favorited, err = s.favorites.Marked(ctx, viewerID, recipeIDs); err != nil {
		return viewerFlags{}, err
	}
	if flags.inCart, err = s.cart.Marked(ctx, viewerID, recipeIDs); err != nil {
		return viewerFlags{}, err
	}
	if flags.subscribed, err = s.subscriptions.Subscribed(ctx, viewerID, authorIDs); err != nil {
		return viewerFlags{}, err
	}
	return flags, nil
}

func (s *Service) getRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	r, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, translateRecipeErr(err)
	}
	return r, nil
}

func (s *Service) removeImage(url string) {
	if url == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(url); err != nil {
		slog.Warn("remove recipe image", slog.String("url", url), logging.Err(err))
	}
}

func translateRecipeErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRecipeNotFound
	}
	return err
}
