package service

import (
	"context"
	"fmt"
	"time"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/repository/specification"
	"food-consult-bot/internal/repository/unitofwork"
)

// ICatalogService is the only path to the catalog and history tables. Every
// error it returns wraps ErrStorageFailure.
type ICatalogService interface {
	// RandomFoodByType picks among foodType and the catch-all type. nil means no row.
	RandomFoodByType(ctx context.Context, foodType string) (*entity.Food, error)
	RandomFoodByGenreStyle(ctx context.Context, genre, style string) (*entity.Food, error)
	// InsertFoodIfNew stores a catch-all food unless the same name, genre and
	// style already exist. It reports whether a row was inserted.
	InsertFoodIfNew(ctx context.Context, name, genre, style string) (bool, error)
	AppendHistory(ctx context.Context, history *entity.ConsultHistory) error
	TopFoods(ctx context.Context, userId string, limit int) ([]*entity.HistoryTally, error)
}

type catalogService struct {
	uowFactory unitofwork.RepositoryFactory
	timeout    time.Duration
}

func NewCatalogService(uowFactory unitofwork.RepositoryFactory, timeout time.Duration) ICatalogService {
	return &catalogService{
		uowFactory: uowFactory,
		timeout:    timeout,
	}
}

func (c *catalogService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *catalogService) RandomFoodByType(ctx context.Context, foodType string) (*entity.Food, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	food, err := uow.FoodRepository().FindRandom(ctx, specification.FoodOfTypeOrAny{Type: foodType})
	if err != nil {
		return nil, fmt.Errorf("%w: random food of type %s: %v", ErrStorageFailure, foodType, err)
	}
	return food, nil
}

func (c *catalogService) RandomFoodByGenreStyle(ctx context.Context, genre, style string) (*entity.Food, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	food, err := uow.FoodRepository().FindRandom(ctx, specification.ByGenreStyle{Genre: genre, Style: style})
	if err != nil {
		return nil, fmt.Errorf("%w: random food for %s/%s: %v", ErrStorageFailure, genre, style, err)
	}
	return food, nil
}

func (c *catalogService) InsertFoodIfNew(ctx context.Context, name, genre, style string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("%w: begin: %v", ErrStorageFailure, err)
	}
	defer uow.Rollback()

	exists, err := uow.FoodRepository().Exists(ctx,
		specification.ByName{Name: name},
		specification.ByGenreStyle{Genre: genre, Style: style},
	)
	if err != nil {
		return false, fmt.Errorf("%w: check food: %v", ErrStorageFailure, err)
	}
	if exists {
		return false, nil
	}

	food := &entity.Food{
		Name:      name,
		Type:      entity.FoodTypeAny,
		GenreCode: genre,
		StyleCode: style,
	}
	if err := uow.FoodRepository().Create(ctx, food); err != nil {
		return false, fmt.Errorf("%w: insert food: %v", ErrStorageFailure, err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("%w: commit: %v", ErrStorageFailure, err)
	}
	return true, nil
}

func (c *catalogService) AppendHistory(ctx context.Context, history *entity.ConsultHistory) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConsultHistoryRepository().Create(ctx, history); err != nil {
		return fmt.Errorf("%w: append history: %v", ErrStorageFailure, err)
	}
	return nil
}

func (c *catalogService) TopFoods(ctx context.Context, userId string, limit int) ([]*entity.HistoryTally, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	tallies, err := uow.ConsultHistoryRepository().TopFoods(ctx, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: top foods: %v", ErrStorageFailure, err)
	}
	return tallies, nil
}
