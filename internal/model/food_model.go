package model

type Food struct {
	Id    uint   `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"type:text;not null;index"`
	Type  string `gorm:"type:varchar(1);not null;index"` // "1" buy-out, "2" cook, "3" either
	Genre string `gorm:"type:text;index:idx_foods_genre_style"`
	Style string `gorm:"type:text;index:idx_foods_genre_style"`
}

func (Food) TableName() string {
	return "foods"
}
