package mapper

import (
	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/model"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

// Food Mappers

func (m *CatalogMapper) FoodToEntity(f *model.Food) *entity.Food {
	if f == nil {
		return nil
	}

	return &entity.Food{
		Id:        f.Id,
		Name:      f.Name,
		Type:      f.Type,
		GenreCode: f.Genre,
		StyleCode: f.Style,
	}
}

func (m *CatalogMapper) FoodToModel(f *entity.Food) *model.Food {
	if f == nil {
		return nil
	}

	return &model.Food{
		Id:    f.Id,
		Name:  f.Name,
		Type:  f.Type,
		Genre: f.GenreCode,
		Style: f.StyleCode,
	}
}

// Master Mappers

func (m *CatalogMapper) GenresToEntities(genres []*model.Genre) []*entity.MasterEntry {
	entries := make([]*entity.MasterEntry, len(genres))
	for i, g := range genres {
		entries[i] = &entity.MasterEntry{Code: g.Code, Name: g.Name}
	}
	return entries
}

func (m *CatalogMapper) StylesToEntities(styles []*model.Style) []*entity.MasterEntry {
	entries := make([]*entity.MasterEntry, len(styles))
	for i, s := range styles {
		entries[i] = &entity.MasterEntry{Code: s.Code, Name: s.Name}
	}
	return entries
}

// History Mappers

func (m *CatalogMapper) ConsultHistoryToModel(h *entity.ConsultHistory) *model.ConsultHistory {
	if h == nil {
		return nil
	}

	var resultFood *string
	if h.ResultFood != "" {
		food := h.ResultFood
		resultFood = &food
	}

	return &model.ConsultHistory{
		Id:          h.Id,
		UserId:      h.UserId,
		Genre:       h.GenreCode,
		Style:       h.StyleCode,
		RequestText: h.RequestText,
		ResultText:  h.ResultText,
		ResultFood:  resultFood,
		CreatedAt:   h.CreatedAt,
	}
}

func (m *CatalogMapper) ConsultHistoryToEntity(h *model.ConsultHistory) *entity.ConsultHistory {
	if h == nil {
		return nil
	}

	var resultFood string
	if h.ResultFood != nil {
		resultFood = *h.ResultFood
	}

	return &entity.ConsultHistory{
		Id:          h.Id,
		UserId:      h.UserId,
		GenreCode:   h.Genre,
		StyleCode:   h.Style,
		RequestText: h.RequestText,
		ResultText:  h.ResultText,
		ResultFood:  resultFood,
		CreatedAt:   h.CreatedAt,
	}
}

func (m *CatalogMapper) TalliesToEntities(rows []*model.ConsultHistoryTally) []*entity.HistoryTally {
	tallies := make([]*entity.HistoryTally, len(rows))
	for i, r := range rows {
		tallies[i] = &entity.HistoryTally{
			ResultFood: r.ResultFood,
			GenreCode:  r.Genre,
			StyleCode:  r.Style,
			Count:      r.Freq,
		}
	}
	return tallies
}
