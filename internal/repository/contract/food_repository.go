package contract

import (
	"context"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/repository/specification"
)

type FoodRepository interface {
	Create(ctx context.Context, food *entity.Food) error
	// FindRandom returns nil, nil when nothing matches
	FindRandom(ctx context.Context, specs ...specification.Specification) (*entity.Food, error)
	Exists(ctx context.Context, specs ...specification.Specification) (bool, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
