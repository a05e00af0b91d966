package unitofwork

import (
	"context"

	"food-consult-bot/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FoodRepository() contract.FoodRepository
	MasterRepository() contract.MasterRepository
	ConsultHistoryRepository() contract.ConsultHistoryRepository
}
