package implementation

import (
	"context"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/mapper"
	"food-consult-bot/internal/model"
	"food-consult-bot/internal/repository/contract"
	"food-consult-bot/internal/repository/specification"

	"gorm.io/gorm"
)

type ConsultHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewConsultHistoryRepository(db *gorm.DB) contract.ConsultHistoryRepository {
	return &ConsultHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *ConsultHistoryRepositoryImpl) Create(ctx context.Context, history *entity.ConsultHistory) error {
	m := r.mapper.ConsultHistoryToModel(history)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*history = *r.mapper.ConsultHistoryToEntity(m)
	return nil
}

func (r *ConsultHistoryRepositoryImpl) TopFoods(ctx context.Context, userId string, limit int) ([]*entity.HistoryTally, error) {
	var rows []*model.ConsultHistoryTally

	query := r.db.WithContext(ctx).
		Model(&model.ConsultHistory{}).
		Select("result_food, genre, style, COUNT(*) AS freq")
	query = specification.ByUserID{UserID: userId}.Apply(query)
	query = specification.WithResultFood{}.Apply(query)
	query = query.Group("result_food, genre, style")
	query = specification.OrderBy{Field: "freq", Desc: true}.Apply(query)
	query = specification.Limit{N: limit}.Apply(query)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.TalliesToEntities(rows), nil
}
