package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"food-consult-bot/internal/constant"
	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/pkg/logger"
)

type RankedFood struct {
	Rank      int
	Food      string
	GenreCode string
	StyleCode string
	Count     int64
}

type IHistoryService interface {
	// Top returns at most limit entries, most frequent first.
	Top(ctx context.Context, userId string) ([]RankedFood, error)
	// Render formats the user's ranking, or the empty or failure text.
	Render(ctx context.Context, userId string) string
}

type historyService struct {
	catalog ICatalogService
	master  IMasterService
	logger  logger.ILogger
	limit   int
}

func NewHistoryService(catalog ICatalogService, master IMasterService, log logger.ILogger) IHistoryService {
	return &historyService{
		catalog: catalog,
		master:  master,
		logger:  log,
		limit:   constant.HistoryRankLimit,
	}
}

// Rank re-sorts tallies by count and caps them. Equal counts keep storage
// order, which storage does not guarantee.
func Rank(tallies []*entity.HistoryTally, limit int) []RankedFood {
	sorted := make([]*entity.HistoryTally, 0, len(tallies))
	for _, t := range tallies {
		if t != nil {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	ranked := make([]RankedFood, len(sorted))
	for i, t := range sorted {
		ranked[i] = RankedFood{
			Rank:      i + 1,
			Food:      t.ResultFood,
			GenreCode: t.GenreCode,
			StyleCode: t.StyleCode,
			Count:     t.Count,
		}
	}
	return ranked
}

func (h *historyService) Top(ctx context.Context, userId string) ([]RankedFood, error) {
	tallies, err := h.catalog.TopFoods(ctx, userId, h.limit)
	if err != nil {
		return nil, err
	}
	return Rank(tallies, h.limit), nil
}

func (h *historyService) Render(ctx context.Context, userId string) string {
	ranked, err := h.Top(ctx, userId)
	if err != nil {
		h.logger.Error("HISTORY", "Failed to fetch history", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return constant.MsgHistoryFailure
	}
	if len(ranked) == 0 {
		h.logger.Info("HISTORY", "No history for user", map[string]interface{}{"user_id": userId})
		return constant.MsgNoHistory
	}

	lines := make([]string, 0, len(ranked))
	for i, r := range ranked {
		mark := ""
		if i < len(constant.HistoryMarks) {
			mark = constant.HistoryMarks[i]
		}
		lines = append(lines, fmt.Sprintf(constant.FmtHistoryLine,
			r.Rank, r.Food, mark, h.master.GenreName(r.GenreCode), h.master.StyleName(r.StyleCode)))
	}
	return strings.Join(lines, "\n")
}
