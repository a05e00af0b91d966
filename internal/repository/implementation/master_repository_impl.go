package implementation

import (
	"context"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/mapper"
	"food-consult-bot/internal/model"
	"food-consult-bot/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MasterRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewMasterRepository(db *gorm.DB) contract.MasterRepository {
	return &MasterRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *MasterRepositoryImpl) FindAllGenres(ctx context.Context) ([]*entity.MasterEntry, error) {
	var genres []*model.Genre
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return r.mapper.GenresToEntities(genres), nil
}

func (r *MasterRepositoryImpl) FindAllStyles(ctx context.Context) ([]*entity.MasterEntry, error) {
	var styles []*model.Style
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&styles).Error; err != nil {
		return nil, err
	}
	return r.mapper.StylesToEntities(styles), nil
}

func (r *MasterRepositoryImpl) UpsertGenre(ctx context.Context, entry *entity.MasterEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&model.Genre{Code: entry.Code, Name: entry.Name}).Error
}

func (r *MasterRepositoryImpl) UpsertStyle(ctx context.Context, entry *entity.MasterEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&model.Style{Code: entry.Code, Name: entry.Name}).Error
}
