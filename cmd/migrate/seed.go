package main

import (
	"context"
	"fmt"
	"log"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/repository/specification"
	"food-consult-bot/internal/repository/unitofwork"
)

var defaultGenres = []entity.MasterEntry{
	{Code: "1", Name: "和食"},
	{Code: "2", Name: "洋食"},
	{Code: "3", Name: "中華"},
	{Code: "4", Name: "エスニック"},
}

var defaultStyles = []entity.MasterEntry{
	{Code: "1", Name: "さっぱり"},
	{Code: "2", Name: "がっつり"},
}

var defaultFoods = []entity.Food{
	{Name: "牛丼", Type: entity.FoodTypeBuyOut, GenreCode: "1", StyleCode: "2"},
	{Name: "ざるそば", Type: entity.FoodTypeBuyOut, GenreCode: "1", StyleCode: "1"},
	{Name: "ハンバーガー", Type: entity.FoodTypeBuyOut, GenreCode: "2", StyleCode: "2"},
	{Name: "フォー", Type: entity.FoodTypeBuyOut, GenreCode: "4", StyleCode: "1"},
	{Name: "肉じゃが", Type: entity.FoodTypeCook, GenreCode: "1", StyleCode: "2"},
	{Name: "冷やしトマトパスタ", Type: entity.FoodTypeCook, GenreCode: "2", StyleCode: "1"},
	{Name: "麻婆豆腐", Type: entity.FoodTypeCook, GenreCode: "3", StyleCode: "2"},
	{Name: "おにぎり", Type: entity.FoodTypeAny, GenreCode: "1", StyleCode: "1"},
	{Name: "餃子", Type: entity.FoodTypeAny, GenreCode: "3", StyleCode: "2"},
}

// Seed upserts the master maps and adds the starter foods that are missing.
func Seed(ctx context.Context, factory unitofwork.RepositoryFactory) error {
	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for i := range defaultGenres {
		if err := uow.MasterRepository().UpsertGenre(ctx, &defaultGenres[i]); err != nil {
			return fmt.Errorf("genre %s: %w", defaultGenres[i].Code, err)
		}
	}
	for i := range defaultStyles {
		if err := uow.MasterRepository().UpsertStyle(ctx, &defaultStyles[i]); err != nil {
			return fmt.Errorf("style %s: %w", defaultStyles[i].Code, err)
		}
	}

	added := 0
	for i := range defaultFoods {
		food := defaultFoods[i]
		exists, err := uow.FoodRepository().Exists(ctx,
			specification.ByName{Name: food.Name},
			specification.ByGenreStyle{Genre: food.GenreCode, Style: food.StyleCode},
		)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := uow.FoodRepository().Create(ctx, &food); err != nil {
			return fmt.Errorf("food %s: %w", food.Name, err)
		}
		added++
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	log.Printf("Seeded %d genres, %d styles, %d new foods", len(defaultGenres), len(defaultStyles), added)
	return nil
}
