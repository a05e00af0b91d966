package service

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/internal/repository/unitofwork"
)

type IMasterService interface {
	// Reload replaces both maps at once. On failure the previous maps stay.
	Reload(ctx context.Context) error
	// EnsureLoaded reloads only when the maps are still empty.
	EnsureLoaded(ctx context.Context) error
	Genres() []entity.MasterEntry
	Styles() []entity.MasterEntry
	GenreName(code string) string
	StyleName(code string) string
}

type masterMaps struct {
	genres     map[string]string
	styles     map[string]string
	genreOrder []entity.MasterEntry
	styleOrder []entity.MasterEntry
}

type masterService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	maps       atomic.Pointer[masterMaps]
}

func NewMasterService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IMasterService {
	s := &masterService{
		uowFactory: uowFactory,
		logger:     log,
	}
	s.maps.Store(buildMasterMaps(nil, nil))
	return s
}

func buildMasterMaps(genres, styles []*entity.MasterEntry) *masterMaps {
	m := &masterMaps{
		genres: make(map[string]string, len(genres)),
		styles: make(map[string]string, len(styles)),
	}
	for _, g := range genres {
		m.genres[g.Code] = g.Name
		m.genreOrder = append(m.genreOrder, *g)
	}
	for _, s := range styles {
		m.styles[s.Code] = s.Name
		m.styleOrder = append(m.styleOrder, *s)
	}
	sort.SliceStable(m.genreOrder, func(i, j int) bool { return m.genreOrder[i].Code < m.genreOrder[j].Code })
	sort.SliceStable(m.styleOrder, func(i, j int) bool { return m.styleOrder[i].Code < m.styleOrder[j].Code })
	return m
}

func (s *masterService) Reload(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	genres, err := uow.MasterRepository().FindAllGenres(ctx)
	if err != nil {
		s.logger.Error("MASTER", "Failed to load genres", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("%w: load genres: %v", ErrStorageFailure, err)
	}
	styles, err := uow.MasterRepository().FindAllStyles(ctx)
	if err != nil {
		s.logger.Error("MASTER", "Failed to load styles", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("%w: load styles: %v", ErrStorageFailure, err)
	}

	s.maps.Store(buildMasterMaps(genres, styles))
	s.logger.Info("MASTER", "Master maps loaded", map[string]interface{}{
		"genres": len(genres),
		"styles": len(styles),
	})
	return nil
}

func (s *masterService) EnsureLoaded(ctx context.Context) error {
	m := s.maps.Load()
	if len(m.genres) > 0 && len(m.styles) > 0 {
		return nil
	}
	return s.Reload(ctx)
}

func (s *masterService) Genres() []entity.MasterEntry {
	return append([]entity.MasterEntry(nil), s.maps.Load().genreOrder...)
}

func (s *masterService) Styles() []entity.MasterEntry {
	return append([]entity.MasterEntry(nil), s.maps.Load().styleOrder...)
}

// GenreName falls back to the code itself for unknown genres.
func (s *masterService) GenreName(code string) string {
	if name, ok := s.maps.Load().genres[code]; ok {
		return name
	}
	return code
}

func (s *masterService) StyleName(code string) string {
	if name, ok := s.maps.Load().styles[code]; ok {
		return name
	}
	return code
}
