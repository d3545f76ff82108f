package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-shopper/internal/clipper"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/shopping"
	"recipe-shopper/internal/storage"
	"recipe-shopper/internal/validation"
)

var (
	ErrNoShoppingList = errors.New("no shopping list")
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrTooManyRecipes = errors.New("too many recipes")
	ErrNoSelection    = errors.New("select at least one recipe")
	ErrItemNotFound   = errors.New("shopping list item not found")
	ErrNoImage        = errors.New("recipe has no image")
)

// App holds the application's dependencies.
type App struct {
	recipeRepo    *recipe.Repository
	listRepo      *shopping.Repository
	metricsStore  *metrics.Store
	images        storage.ImageStore
	recipeClipper *clipper.Clipper
	validator     *validation.Validator
	sorter        *shopping.Sorter
	logger        *zap.Logger
	blog          Blog
	now           func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewApp creates and initializes a new App instance.
func NewApp(
	recipeRepo *recipe.Repository,
	listRepo *shopping.Repository,
	metricsStore *metrics.Store,
	images storage.ImageStore,
	recipeClipper *clipper.Clipper,
	validator *validation.Validator,
	sorter *shopping.Sorter,
	logger *zap.Logger,
) *App {
	return &App{
		recipeRepo:    recipeRepo,
		listRepo:      listRepo,
		metricsStore:  metricsStore,
		images:        images,
		recipeClipper: recipeClipper,
		validator:     validator,
		sorter:        sorter,
		logger:        logger,
		now:           time.Now,
		locks:         make(map[string]*sync.Mutex),
	}
}

// Validator exposes the validator so front ends can parse user input the
// same way the use cases do.
func (a *App) Validator() *validation.Validator {
	return a.validator
}

// lock serializes load, mutate and save of one owner's list.
func (a *App) lock(owner string) func() {
	a.mu.Lock()
	l, ok := a.locks[owner]
	if !ok {
		l = &sync.Mutex{}
		a.locks[owner] = l
	}
	a.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (a *App) record(ctx context.Context, owner string, kind metrics.Kind, count int) {
	if a.metricsStore == nil {
		return
	}
	err := a.metricsStore.Record(ctx, metrics.Event{OwnerID: owner, Kind: kind, ItemCount: count, Timestamp: a.now()})
	if err != nil {
		a.logger.Warn("failed to record activity", zap.String("kind", string(kind)), zap.Error(err))
	}
}

// loadList returns the owner's list or ErrNoShoppingList.
func (a *App) loadList(ctx context.Context, owner string) (*shopping.ShoppingList, error) {
	list, err := a.listRepo.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	if list == nil {
		return nil, ErrNoShoppingList
	}
	return list, nil
}
