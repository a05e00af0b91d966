package service

import (
	"context"
	"fmt"

	"food-consult-bot/internal/constant"
	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/pkg/recipe"
)

type IRecipeService interface {
	// Lookup always returns renderable text; found is false for the final apology.
	Lookup(ctx context.Context, food string) (text string, found bool)
	Describe(ctx context.Context, food string) string
}

type recipeService struct {
	suggestions ISuggestionService
	cache       recipe.Cache
	logger      logger.ILogger
}

// NewRecipeService accepts a nil cache.
func NewRecipeService(suggestions ISuggestionService, cache recipe.Cache, log logger.ILogger) IRecipeService {
	return &recipeService{
		suggestions: suggestions,
		cache:       cache,
		logger:      log,
	}
}

func (s *recipeService) Lookup(ctx context.Context, food string) (string, bool) {
	if s.cache != nil {
		text, ok, err := s.cache.Get(ctx, food)
		if err != nil {
			s.logger.Warn("RECIPE", "Recipe cache read failed", map[string]interface{}{"food": food, "error": err.Error()})
		} else if ok {
			return text, true
		}
	}

	text, found := s.resolve(ctx, food)
	if found && s.cache != nil {
		if err := s.cache.Set(ctx, food, text); err != nil {
			s.logger.Warn("RECIPE", "Recipe cache write failed", map[string]interface{}{"food": food, "error": err.Error()})
		}
	}
	return text, found
}

func (s *recipeService) resolve(ctx context.Context, food string) (string, bool) {
	hitRes := s.suggestions.SearchRecipe(ctx, food)
	if hit, ok := hitRes.Get(); ok {
		return fmt.Sprintf(constant.FmtRecipeHit, hit.Title, hit.URL), true
	}
	s.logger.Debug("RECIPE", "Recipe search unavailable, asking the model", map[string]interface{}{
		"food":   food,
		"reason": reasonOf(hitRes.Reason()),
	})

	textRes := s.suggestions.AbbreviatedRecipe(ctx, food)
	if text, ok := textRes.Get(); ok {
		return text, true
	}
	s.logger.Warn("RECIPE", "No recipe source answered", map[string]interface{}{
		"food":   food,
		"reason": reasonOf(textRes.Reason()),
	})
	return constant.MsgNoRecipe, false
}

func (s *recipeService) Describe(ctx context.Context, food string) string {
	res := s.suggestions.DescribeDish(ctx, food)
	if text, ok := res.Get(); ok {
		return text
	}
	s.logger.Warn("RECIPE", "Dish description unavailable", map[string]interface{}{
		"food":   food,
		"reason": reasonOf(res.Reason()),
	})
	return constant.MsgNoDetail
}

func reasonOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
