package model

import "time"

type ConsultHistory struct {
	Id          uint      `gorm:"primaryKey;autoIncrement"`
	UserId      string    `gorm:"type:text;not null;index"`
	Genre       string    `gorm:"type:text;not null"`
	Style       string    `gorm:"type:text;not null"`
	RequestText *string   `gorm:"type:text"`
	ResultText  string    `gorm:"type:text;not null"`
	ResultFood  *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"column:timestamp;autoCreateTime"`
}

func (ConsultHistory) TableName() string {
	return "consult_history"
}

// ConsultHistoryTally is the projection of the grouped top-N history query.
type ConsultHistoryTally struct {
	ResultFood string
	Genre      string
	Style      string
	Freq       int64
}
