package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/modules/auth"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/storage"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
)

type Service struct {
	recipes     RecipeRepository
	ingredients IDChecker
	tags        IDChecker
	images      storage.Store
	marks       Marks
}

func NewService(recipes RecipeRepository, ingredients, tags IDChecker, images storage.Store, marks Marks) *Service {
	return &Service{
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		images:      images,
		marks:       marks,
	}
}

/* ---------- READ ---------- */

func (s *Service) Get(ctx context.Context, viewerID, id int64) (*RecipeResponse, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := s.present(ctx, viewerID, []domain.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Service) List(ctx context.Context, viewerID int64, q ListQuery, p pagination.Params) (*pagination.Page[RecipeResponse], error) {
	f := repository.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.Tags,
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
	if viewerID != 0 {
		if q.Favorited {
			f.FavoritedBy = viewerID
		}
		if q.InCart {
			f.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipes.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	items, err := s.present(ctx, viewerID, recipes)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(items, total, p)
	return &page, nil
}

/* ---------- WRITE ---------- */

func (s *Service) Create(ctx context.Context, authorID int64, req CreateRecipeRequest) (*RecipeResponse, error) {
	errs := validator.Validate(req)
	if errs == nil {
		errs = validator.Errors{}
	}
	requireNonBlank(errs, "name", &req.Name)
	requireNonBlank(errs, "text", &req.Text)
	if err := s.checkAssociations(ctx, req.Ingredients, req.Tags, errs); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, errs
	}

	recipe := &domain.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(req.Name),
		Text:        strings.TrimSpace(req.Text),
		CookingTime: req.CookingTime,
	}
	if req.Image != "" {
		url, err := s.saveImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = url
	}

	if err := s.recipes.Create(ctx, recipe, toRows(req.Ingredients), req.Tags); err != nil {
		s.dropImage(ctx, recipe.Image)
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return s.Get(ctx, authorID, recipe.ID)
}

// Update replaces both association sets and any scalar fields present in req.
// Not found is reported before forbidden, forbidden before validation.
func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateRecipeRequest) (*RecipeResponse, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}

	errs := validator.Validate(req)
	if errs == nil {
		errs = validator.Errors{}
	}
	// a present but blank scalar is an error, not "leave unchanged"
	requireNonBlank(errs, "name", req.Name)
	requireNonBlank(errs, "text", req.Text)
	if err := s.checkAssociations(ctx, req.Ingredients, req.Tags, errs); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, errs
	}

	if req.Name != nil {
		recipe.Name = strings.TrimSpace(*req.Name)
	}
	if req.Text != nil {
		recipe.Text = strings.TrimSpace(*req.Text)
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}

	oldImage := recipe.Image
	if req.Image != nil {
		recipe.Image = ""
		if *req.Image != "" {
			url, err := s.saveImage(ctx, *req.Image)
			if err != nil {
				return nil, err
			}
			recipe.Image = url
		}
	}

	if err := s.recipes.Update(ctx, recipe, toRows(req.Ingredients), req.Tags); err != nil {
		if recipe.Image != oldImage {
			s.dropImage(ctx, recipe.Image)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if recipe.Image != oldImage {
		s.dropImage(ctx, oldImage)
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return ErrForbidden
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("delete recipe: %w", err)
	}
	s.dropImage(ctx, recipe.Image)
	return nil
}

/* ---------- HELPERS ---------- */

func (s *Service) load(ctx context.Context, id int64) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// checkAssociations adds duplicate and unknown-id errors to errs. Only
// storage failures are returned.
func (s *Service) checkAssociations(ctx context.Context, ingredients []IngredientInput, tags []int64, errs validator.Errors) error {
	ingredientIDs := make([]int64, 0, len(ingredients))
	for _, in := range ingredients {
		ingredientIDs = append(ingredientIDs, in.ID)
	}

	if hasDuplicates(ingredientIDs) {
		errs.Add("ingredients", validator.MsgUnique)
	} else if len(ingredientIDs) > 0 {
		if err := checkExisting(ctx, s.ingredients, "ingredients", ingredientIDs, errs); err != nil {
			return err
		}
	}

	if hasDuplicates(tags) {
		errs.Add("tags", validator.MsgUnique)
	} else if len(tags) > 0 {
		if err := checkExisting(ctx, s.tags, "tags", tags, errs); err != nil {
			return err
		}
	}
	return nil
}

func checkExisting(ctx context.Context, checker IDChecker, field string, ids []int64, errs validator.Errors) error {
	found, err := checker.ExistingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check %s: %w", field, err)
	}
	for _, id := range ids {
		// non-positive ids are already reported by field validation
		if id > 0 && !found[id] {
			errs.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}
	return nil
}

// requireNonBlank flags a present field holding only whitespace.
func requireNonBlank(errs validator.Errors, field string, v *string) {
	if v == nil || strings.TrimSpace(*v) != "" {
		return
	}
	for _, msg := range errs[field] {
		if msg == validator.MsgRequired {
			return
		}
	}
	errs.Add(field, validator.MsgRequired)
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func toRows(in []IngredientInput) []domain.RecipeIngredient {
	rows := make([]domain.RecipeIngredient, 0, len(in))
	for _, item := range in {
		rows = append(rows, domain.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount})
	}
	return rows
}

func (s *Service) saveImage(ctx context.Context, uri string) (string, error) {
	url, err := storage.SaveDataURI(ctx, s.images, uri)
	switch {
	case errors.Is(err, storage.ErrInvalidDataURI),
		errors.Is(err, storage.ErrInvalidMimeType),
		errors.Is(err, storage.ErrImageTooLarge):
		return "", validator.Errors{"image": {imageMessage(err)}}
	case err != nil:
		return "", fmt.Errorf("save image: %w", err)
	}
	return url, nil
}

func imageMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return "The image must not exceed 10 MB."
	case errors.Is(err, storage.ErrInvalidMimeType):
		return "Upload a valid image. Supported types are JPEG, PNG, GIF and WebP."
	default:
		return "Upload a valid image as a base64 data URI."
	}
}

func (s *Service) dropImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logging.Warn().Err(err).Str("image", url).Msg("failed to delete recipe image")
	}
}

// present renders recipes with the viewer's favorite, cart and subscription flags.
func (s *Service) present(ctx context.Context, viewerID int64, recipes []domain.Recipe) ([]RecipeResponse, error) {
	favorited, inCart, subscribed := map[int64]bool{}, map[int64]bool{}, map[int64]bool{}

	if viewerID != 0 && len(recipes) > 0 {
		recipeIDs := make([]int64, 0, len(recipes))
		authorIDs := make([]int64, 0, len(recipes))
		for _, r := range recipes {
			recipeIDs = append(recipeIDs, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}

		var err error
		if favorited, err = s.marks.Favorites.FilterTargets(ctx, viewerID, recipeIDs); err != nil {
			return nil, fmt.Errorf("load favorites: %w", err)
		}
		if inCart, err = s.marks.Cart.FilterTargets(ctx, viewerID, recipeIDs); err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		if subscribed, err = s.marks.Subscriptions.FilterTargets(ctx, viewerID, authorIDs); err != nil {
			return nil, fmt.Errorf("load subscriptions: %w", err)
		}
	}

	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		resp := RecipeResponse{
			ID:               r.ID,
			Tags:             r.Tags,
			Ingredients:      make([]IngredientAmount, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if resp.Tags == nil {
			resp.Tags = []domain.Tag{}
		}
		if r.Author != nil {
			resp.Author = auth.NewUserResponse(r.Author, subscribed[r.AuthorID])
		}
		for _, ri := range r.Ingredients {
			item := IngredientAmount{ID: ri.IngredientID, Amount: ri.Amount}
			if ri.Ingredient != nil {
				item.Name = ri.Ingredient.Name
				item.MeasurementUnit = ri.Ingredient.MeasurementUnit
			}
			resp.Ingredients = append(resp.Ingredients, item)
		}
		out = append(out, resp)
	}
	return out, nil
}
