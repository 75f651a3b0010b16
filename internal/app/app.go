package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"forkify/internal/likes"
	"forkify/internal/list"
	"forkify/internal/recipe"
	"forkify/internal/search"
)

var (
	// ErrNoSearch is returned when results are paged before any search ran.
	ErrNoSearch = errors.New("no search has been run")
	// ErrNoRecipe is returned when an action needs a loaded recipe.
	ErrNoRecipe = errors.New("no recipe loaded")
)

// RecipeSource defines the remote recipe API.
type RecipeSource interface {
	Search(ctx context.Context, query string) ([]recipe.Summary, error)
	GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error)
}

// Thumbnailer stores a local copy of a recipe image and returns its URL.
type Thumbnailer interface {
	Save(ctx context.Context, id, imageURL string) (string, error)
}

// Storage is the key/value store the list and likes persist through.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
}

// App is the application state and the controllers that change it.
type App struct {
	mu sync.Mutex

	search *search.Search
	recipe *recipe.Recipe
	list   *list.List
	likes  *likes.Likes

	source      RecipeSource
	thumbnailer Thumbnailer
	perPage     int
	logger      *zap.Logger
}

// Option configures an App.
type Option func(*App)

// WithThumbnailer stores thumbnails for liked recipes.
func WithThumbnailer(t Thumbnailer) Option {
	return func(a *App) { a.thumbnailer = t }
}

// WithPerPage sets the number of search results per page.
func WithPerPage(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.perPage = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// New creates an App reading recipes from source and persisting the list and
// likes to storage.
func New(source RecipeSource, storage Storage, opts ...Option) *App {
	a := &App{
		list:    list.New(storage),
		likes:   likes.New(storage),
		source:  source,
		perPage: search.DefaultPerPage,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Restore loads the persisted likes and shopping list.
func (a *App) Restore(ctx context.Context) error {
	if err := a.likes.ReadStorage(ctx); err != nil {
		return err
	}
	if err := a.list.ReadStorage(ctx); err != nil {
		return err
	}
	a.logger.Info("state restored",
		zap.Int("likes", a.likes.NumLikes()),
		zap.Int("list_items", a.list.Len()))
	return nil
}

// ControlSearch runs a new search and returns its first page. An empty query
// leaves the state alone and returns a nil page.
func (a *App) ControlSearch(ctx context.Context, query string) (*search.Page, error) {
	s := search.New(query)
	if s.Query == "" {
		return nil, nil
	}

	if err := s.GetResults(ctx, a.source); err != nil {
		return nil, err
	}
	a.logger.Info("search completed", zap.String("query", s.Query), zap.Int("results", len(s.Result)))

	a.mu.Lock()
	a.search = s
	a.mu.Unlock()

	page := search.Paginate(s.Result, 1, a.perPage)
	return &page, nil
}

// ResultsPage returns page of the current search.
func (a *App) ResultsPage(page int) (*search.Page, error) {
	a.mu.Lock()
	s := a.search
	a.mu.Unlock()

	if s == nil {
		return nil, ErrNoSearch
	}
	p := search.Paginate(s.Result, page, a.perPage)
	return &p, nil
}

// Query returns the query of the current search, if any.
func (a *App) Query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.search == nil {
		return ""
	}
	return a.search.Query
}

// RecipeView is a recipe together with its like state.
type RecipeView struct {
	Recipe *recipe.Recipe `json:"recipe"`
	Liked  bool           `json:"liked"`
}

// ControlRecipe loads the recipe id and makes it the current recipe. When id
// is already current the loaded copy, with its serving changes, is kept.
func (a *App) ControlRecipe(ctx context.Context, id string) (*RecipeView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNoRecipe
	}

	a.mu.Lock()
	current := a.recipe
	a.mu.Unlock()

	if current == nil || current.ID != id {
		r, err := a.source.GetRecipe(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load recipe %s: %w", id, err)
		}
		r.CalcTime()
		r.CalcServings()

		a.mu.Lock()
		a.recipe = r
		current = r
		a.mu.Unlock()
	}

	return a.view(current), nil
}

// UpdateServings moves the current recipe's servings by one. Decreasing
// stops at one serving. It returns ErrNoRecipe if another recipe became
// current while id was loading.
func (a *App) UpdateServings(ctx context.Context, id string, dir recipe.Direction) (*RecipeView, error) {
	id = strings.TrimSpace(id)
	if _, err := a.ControlRecipe(ctx, id); err != nil {
		return nil, err
	}

	a.mu.Lock()
	r := a.recipe
	if r == nil || r.ID != id {
		a.mu.Unlock()
		return nil, ErrNoRecipe
	}
	var err error
	if dir != recipe.Decrease || r.Servings > 1 {
		err = r.UpdateServings(dir)
	}
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return a.view(r), nil
}

// ControlList copies every ingredient of recipe id into the shopping list.
func (a *App) ControlList(ctx context.Context, id string) ([]list.Item, error) {
	view, err := a.ControlRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	added := make([]list.Item, 0, len(view.Recipe.Ingredients))
	for _, ing := range view.Recipe.Ingredients {
		item, err := a.list.AddItem(ctx, ing.Count, ing.Unit, ing.Ingredient)
		if err != nil {
			return added, err
		}
		added = append(added, item)
	}
	return added, nil
}

// DeleteItem removes a shopping list entry.
func (a *App) DeleteItem(ctx context.Context, itemID string) error {
	return a.list.DeleteItem(ctx, itemID)
}

// UpdateCount changes the count of a shopping list entry.
func (a *App) UpdateCount(ctx context.Context, itemID string, count float64) (list.Item, error) {
	return a.list.UpdateCount(ctx, itemID, count)
}

// ListItems returns the shopping list.
func (a *App) ListItems() []list.Item {
	return a.list.Items()
}

// LikeResult is the outcome of toggling a like.
type LikeResult struct {
	Liked    bool        `json:"liked"`
	Like     *likes.Like `json:"like,omitempty"`
	NumLikes int         `json:"num_likes"`
}

// ControlLike toggles the like for recipe id. A new like gets a local
// thumbnail when a Thumbnailer is configured; a failed download keeps the
// remote image.
func (a *App) ControlLike(ctx context.Context, id string) (*LikeResult, error) {
	view, err := a.ControlRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	r := view.Recipe

	if a.likes.IsLiked(r.ID) {
		if err := a.likes.DeleteLike(ctx, r.ID); err != nil {
			return nil, err
		}
		a.logger.Info("recipe unliked", zap.String("id", r.ID))
		return &LikeResult{Liked: false, NumLikes: a.likes.NumLikes()}, nil
	}

	like, err := a.likes.AddLike(ctx, likes.Like{
		ID:     r.ID,
		Title:  r.Title,
		Author: r.Author,
		Img:    r.Img,
	})
	if err != nil {
		return nil, err
	}

	if a.thumbnailer != nil && like.Img != "" {
		if local, err := a.thumbnailer.Save(ctx, like.ID, like.Img); err != nil {
			a.logger.Warn("failed to store thumbnail", zap.String("id", like.ID), zap.Error(err))
		} else if err := a.likes.UpdateImage(ctx, like.ID, local); err != nil {
			a.logger.Warn("failed to update like image", zap.String("id", like.ID), zap.Error(err))
		} else {
			like.Img = local
		}
	}
	a.logger.Info("recipe liked", zap.String("id", r.ID))

	return &LikeResult{Liked: true, Like: &like, NumLikes: a.likes.NumLikes()}, nil
}

// Likes returns the liked recipes.
func (a *App) Likes() []likes.Like {
	return a.likes.All()
}

// IsLiked reports whether recipe id is liked.
func (a *App) IsLiked(id string) bool {
	return a.likes.IsLiked(id)
}

// view copies r so callers can render it without holding the lock.
func (a *App) view(r *recipe.Recipe) *RecipeView {
	a.mu.Lock()
	cp := *r
	cp.Ingredients = append([]recipe.Ingredient(nil), r.Ingredients...)
	a.mu.Unlock()

	return &RecipeView{Recipe: &cp, Liked: a.likes.IsLiked(cp.ID)}
}
