package contract

import (
	"context"

	"food-consult-bot/internal/entity"
)

type MasterRepository interface {
	FindAllGenres(ctx context.Context) ([]*entity.MasterEntry, error)
	FindAllStyles(ctx context.Context) ([]*entity.MasterEntry, error)
	UpsertGenre(ctx context.Context, entry *entity.MasterEntry) error
	UpsertStyle(ctx context.Context, entry *entity.MasterEntry) error
}
