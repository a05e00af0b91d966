package model

type Genre struct {
	Code string `gorm:"type:text;primaryKey"`
	Name string `gorm:"type:text;not null"`
}

func (Genre) TableName() string {
	return "genres"
}

type Style struct {
	Code string `gorm:"type:text;primaryKey"`
	Name string `gorm:"type:text;not null"`
}

func (Style) TableName() string {
	return "styles"
}
