package implementation

import (
	"context"
	"errors"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/mapper"
	"food-consult-bot/internal/model"
	"food-consult-bot/internal/repository/contract"
	"food-consult-bot/internal/repository/specification"

	"gorm.io/gorm"
)

type FoodRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewFoodRepository(db *gorm.DB) contract.FoodRepository {
	return &FoodRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *FoodRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FoodRepositoryImpl) Create(ctx context.Context, food *entity.Food) error {
	m := r.mapper.FoodToModel(food)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*food = *r.mapper.FoodToEntity(m)
	return nil
}

func (r *FoodRepositoryImpl) FindRandom(ctx context.Context, specs ...specification.Specification) (*entity.Food, error) {
	var m model.Food
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	query = specification.RandomOrder{}.Apply(query)
	// Take keeps the random ordering instead of forcing a primary key sort
	if err := query.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FoodToEntity(&m), nil
}

func (r *FoodRepositoryImpl) Exists(ctx context.Context, specs ...specification.Specification) (bool, error) {
	count, err := r.Count(ctx, specs...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FoodRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Food{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
