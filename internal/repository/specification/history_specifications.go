package specification

import "gorm.io/gorm"

type ByUserID struct {
	UserID string
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// WithResultFood skips history rows that never produced a dish
type WithResultFood struct{}

func (s WithResultFood) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("result_food IS NOT NULL")
}
