package entity

import "time"

type ConsultHistory struct {
	Id          uint
	UserId      string
	GenreCode   string
	StyleCode   string
	RequestText *string
	ResultText  string
	ResultFood  string
	CreatedAt   time.Time
}

// HistoryTally counts how often a user was given the same food for a genre and style.
type HistoryTally struct {
	ResultFood string
	GenreCode  string
	StyleCode  string
	Count      int64
}
