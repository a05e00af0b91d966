package dto

type MasterEntryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ReloadMasterResponse struct {
	Genres int `json:"genres"`
	Styles int `json:"styles"`
}
