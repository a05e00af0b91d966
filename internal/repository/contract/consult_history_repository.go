package contract

import (
	"context"

	"food-consult-bot/internal/entity"
)

type ConsultHistoryRepository interface {
	Create(ctx context.Context, history *entity.ConsultHistory) error
	// TopFoods groups a user's history by (food, genre, style), most frequent first
	TopFoods(ctx context.Context, userId string, limit int) ([]*entity.HistoryTally, error)
}
