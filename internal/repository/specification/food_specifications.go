package specification

import (
	"food-consult-bot/internal/entity"

	"gorm.io/gorm"
)

// FoodOfTypeOrAny matches the requested coarse type or the catch-all bucket
type FoodOfTypeOrAny struct {
	Type string
}

func (s FoodOfTypeOrAny) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ? OR type = ?", s.Type, entity.FoodTypeAny)
}

type ByGenreStyle struct {
	Genre string
	Style string
}

func (s ByGenreStyle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("genre = ? AND style = ?", s.Genre, s.Style)
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}
