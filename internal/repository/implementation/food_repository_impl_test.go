package implementation

import (
	"context"
	"strings"
	"testing"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without a server and records the last query.
func dryRunDB(t *testing.T) (*gorm.DB, *string) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost dbname=catalog sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var last string
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(d *gorm.DB) {
		last = d.Statement.SQL.String()
	})
	require.NoError(t, err)
	return db, &last
}

func TestFindRandomBuildsRandomTypedQuery(t *testing.T) {
	db, sql := dryRunDB(t)
	repo := NewFoodRepository(db)

	_, err := repo.FindRandom(context.Background(),
		specification.FoodOfTypeOrAny{Type: entity.FoodTypeCook},
		specification.ByGenreStyle{Genre: "A", Style: "B"},
	)
	require.NoError(t, err)

	query := strings.ToLower(*sql)
	assert.Contains(t, query, `from "foods"`)
	assert.Contains(t, query, "type = $1 or type = $2")
	assert.Contains(t, query, "genre = $3 and style = $4")
	assert.Contains(t, query, "random()")
	assert.Contains(t, query, "limit")
}
