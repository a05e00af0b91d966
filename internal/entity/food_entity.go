package entity

// Coarse buckets of the foods table. FoodTypeAny matches every type filter.
const (
	FoodTypeBuyOut = "1"
	FoodTypeCook   = "2"
	FoodTypeAny    = "3"
)

type Food struct {
	Id        uint
	Name      string
	Type      string
	GenreCode string
	StyleCode string
}

type MasterEntry struct {
	Code string
	Name string
}
