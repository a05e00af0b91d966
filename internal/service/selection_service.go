package service

import (
	"context"
	"fmt"

	"food-consult-bot/internal/constant"
	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/pkg/events"
	"food-consult-bot/pkg/store"
)

// Where a consult result came from
const (
	SourceCatalog  = "catalog"
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

type Selection struct {
	Text string
	// Food is empty unless a dish was produced
	Food    string
	Source  string
	Success bool
}

type ISelectionService interface {
	QuickPick(ctx context.Context, userId, foodType string) Selection
	// ResolveConsult runs the consult chain for a session with genre and style
	// set, and appends history when it succeeds.
	ResolveConsult(ctx context.Context, session *store.Session) Selection
}

type selectionService struct {
	catalog     ICatalogService
	suggestions ISuggestionService
	master      IMasterService
	publisher   IPublisherService
	logger      logger.ILogger
}

func NewSelectionService(
	catalog ICatalogService,
	suggestions ISuggestionService,
	master IMasterService,
	publisher IPublisherService,
	log logger.ILogger,
) ISelectionService {
	return &selectionService{
		catalog:     catalog,
		suggestions: suggestions,
		master:      master,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *selectionService) QuickPick(ctx context.Context, userId, foodType string) Selection {
	food, err := s.catalog.RandomFoodByType(ctx, foodType)
	if err != nil {
		s.logger.Error("SELECTION", "Quick pick failed", map[string]interface{}{
			"user_id": userId,
			"type":    foodType,
			"error":   err.Error(),
		})
		return Selection{Text: constant.MsgStorageApology}
	}
	if food == nil {
		return Selection{Text: constant.MsgNoCandidate}
	}

	s.publisher.Publish(ctx, events.NewFoodSuggested(userId, foodType, food.Name))
	return Selection{
		Text:    fmt.Sprintf(constant.FmtQuickPick, food.Name),
		Food:    food.Name,
		Source:  SourceCatalog,
		Success: true,
	}
}

func (s *selectionService) ResolveConsult(ctx context.Context, session *store.Session) Selection {
	var sel Selection
	if session.RequestText == nil {
		sel = s.fromCatalog(ctx, session, constant.FmtCatalogSuggestion, SourceCatalog)
	} else {
		sel = s.fromModel(ctx, session)
	}

	if !sel.Success {
		return sel
	}

	history := &entity.ConsultHistory{
		UserId:      session.UserID,
		GenreCode:   session.GenreCode,
		StyleCode:   session.StyleCode,
		RequestText: session.RequestText,
		ResultText:  sel.Text,
		ResultFood:  sel.Food,
	}
	if err := s.catalog.AppendHistory(ctx, history); err != nil {
		// The user still gets the dish; only the history row is lost
		s.logger.Error("SELECTION", "Failed to append history", map[string]interface{}{
			"user_id": session.UserID,
			"error":   err.Error(),
		})
	}

	s.publisher.Publish(ctx, events.NewConsultResolved(
		session.UserID, session.GenreCode, session.StyleCode, session.RequestText, sel.Food, sel.Source))
	return sel
}

func (s *selectionService) fromModel(ctx context.Context, session *store.Session) Selection {
	res := s.suggestions.SuggestDish(ctx,
		s.master.GenreName(session.GenreCode),
		s.master.StyleName(session.StyleCode),
		*session.RequestText,
	)

	dish, ok := res.Get()
	if !ok {
		s.logger.Warn("SELECTION", "Dish suggestion unavailable, falling back to catalog", map[string]interface{}{
			"user_id": session.UserID,
			"reason":  reasonOf(res.Reason()),
		})
		return s.fromCatalog(ctx, session, constant.FmtFallbackSuggest, SourceFallback)
	}

	inserted, err := s.catalog.InsertFoodIfNew(ctx, dish, session.GenreCode, session.StyleCode)
	if err != nil {
		s.logger.Error("SELECTION", "Failed to store suggested food", map[string]interface{}{
			"food":  dish,
			"error": err.Error(),
		})
	} else if inserted {
		s.logger.Info("SELECTION", "Suggested food added to catalog", map[string]interface{}{"food": dish})
	}

	return Selection{
		Text:    fmt.Sprintf(constant.FmtAISuggestion, dish),
		Food:    dish,
		Source:  SourceAI,
		Success: true,
	}
}

func (s *selectionService) fromCatalog(ctx context.Context, session *store.Session, format, source string) Selection {
	food, err := s.catalog.RandomFoodByGenreStyle(ctx, session.GenreCode, session.StyleCode)
	if err != nil {
		s.logger.Error("SELECTION", "Catalog lookup failed", map[string]interface{}{
			"user_id": session.UserID,
			"genre":   session.GenreCode,
			"style":   session.StyleCode,
			"error":   err.Error(),
		})
		return Selection{Text: constant.MsgStorageApology}
	}
	if food == nil {
		return Selection{Text: constant.MsgNoMatchingFood}
	}

	return Selection{
		Text:    fmt.Sprintf(format, food.Name),
		Food:    food.Name,
		Source:  source,
		Success: true,
	}
}
