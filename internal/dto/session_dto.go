package dto

type SessionStatsResponse struct {
	Active   int `json:"active"`
	Capacity int `json:"capacity"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
