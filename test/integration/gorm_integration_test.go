package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/model"
	"food-consult-bot/internal/repository/specification"
	"food-consult-bot/internal/repository/unitofwork"
	"food-consult-bot/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCatalog(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.Genre{}, &model.Style{}, &model.Food{}, &model.ConsultHistory{}))

	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(gormDB)
	uow := factory.NewUnitOfWork(ctx)

	// Unique codes keep reruns against a shared database independent
	genre := "it-" + uuid.NewString()[:8]
	style := "it-" + uuid.NewString()[:8]
	user := "it-user-" + uuid.NewString()

	t.Cleanup(func() {
		gormDB.Where("genre = ?", genre).Delete(&model.Food{})
		gormDB.Where("user_id = ?", user).Delete(&model.ConsultHistory{})
		gormDB.Where("code = ?", genre).Delete(&model.Genre{})
		gormDB.Where("code = ?", style).Delete(&model.Style{})
	})

	t.Run("Master upsert and read back", func(t *testing.T) {
		require.NoError(t, uow.MasterRepository().UpsertGenre(ctx, &entity.MasterEntry{Code: genre, Name: "テスト和食"}))
		require.NoError(t, uow.MasterRepository().UpsertGenre(ctx, &entity.MasterEntry{Code: genre, Name: "テスト和食2"}))
		require.NoError(t, uow.MasterRepository().UpsertStyle(ctx, &entity.MasterEntry{Code: style, Name: "テスト麺"}))

		genres, err := uow.MasterRepository().FindAllGenres(ctx)
		require.NoError(t, err)

		var found *entity.MasterEntry
		for _, g := range genres {
			if g.Code == genre {
				found = g
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "テスト和食2", found.Name)
	})

	t.Run("Random food respects the type bucket", func(t *testing.T) {
		require.NoError(t, uow.FoodRepository().Create(ctx, &entity.Food{Name: "テストうどん", Type: entity.FoodTypeCook, GenreCode: genre, StyleCode: style}))
		require.NoError(t, uow.FoodRepository().Create(ctx, &entity.Food{Name: "テスト弁当", Type: entity.FoodTypeBuyOut, GenreCode: genre, StyleCode: style}))

		for i := 0; i < 5; i++ {
			food, err := uow.FoodRepository().FindRandom(ctx,
				specification.FoodOfTypeOrAny{Type: entity.FoodTypeCook},
				specification.ByGenreStyle{Genre: genre, Style: style},
			)
			require.NoError(t, err)
			require.NotNil(t, food)
			assert.Equal(t, "テストうどん", food.Name)
		}

		missing, err := uow.FoodRepository().FindRandom(ctx, specification.ByName{Name: "存在しない-" + genre})
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("Transaction rollback discards the insert", func(t *testing.T) {
		tx := factory.NewUnitOfWork(ctx)
		require.NoError(t, tx.Begin(ctx))
		require.NoError(t, tx.FoodRepository().Create(ctx, &entity.Food{Name: "ロールバック丼", Type: entity.FoodTypeAny, GenreCode: genre, StyleCode: style}))
		require.NoError(t, tx.Rollback())

		exists, err := uow.FoodRepository().Exists(ctx, specification.ByName{Name: "ロールバック丼"}, specification.ByGenreStyle{Genre: genre, Style: style})
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("History tallies rank the most frequent food first", func(t *testing.T) {
		repo := uow.ConsultHistoryRepository()
		for _, food := range []string{"テストうどん", "テストそば", "テストうどん"} {
			require.NoError(t, repo.Create(ctx, &entity.ConsultHistory{
				UserId:     user,
				GenreCode:  genre,
				StyleCode:  style,
				ResultText: food + "！",
				ResultFood: food,
			}))
		}

		tallies, err := repo.TopFoods(ctx, user, 3)
		require.NoError(t, err)
		require.Len(t, tallies, 2)
		assert.Equal(t, "テストうどん", tallies[0].ResultFood)
		assert.Equal(t, int64(2), tallies[0].Count)
		t.Logf("Top foods for %s: %d rows", user, len(tallies))
	})
}
