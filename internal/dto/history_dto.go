package dto

type GetHistoryRequest struct {
	UserId string `validate:"required,max=64"`
}

type RankedFoodResponse struct {
	Rank      int    `json:"rank"`
	Food      string `json:"food"`
	Genre     string `json:"genre"`
	GenreName string `json:"genre_name"`
	Style     string `json:"style"`
	StyleName string `json:"style_name"`
	Count     int64  `json:"count"`
}
