package service

import (
	"context"
	"errors"
	"sync"

	"food-consult-bot/internal/chat"
	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/repository/contract"
	"food-consult-bot/internal/repository/specification"
	"food-consult-bot/internal/repository/unitofwork"
	"food-consult-bot/pkg/events"
	"food-consult-bot/pkg/outcome"
	"food-consult-bot/pkg/recipe"

	"github.com/stretchr/testify/mock"
)

var errBoom = errors.New("boom")

// fakeDB backs the in-memory repositories. Specifications are interpreted by type.
type fakeDB struct {
	mu        sync.Mutex
	foods     []*entity.Food
	genres    []*entity.MasterEntry
	styles    []*entity.MasterEntry
	history   []*entity.ConsultHistory
	tallies   []*entity.HistoryTally
	fail      error
	creates   int
	commits   int
	rollbacks int
}

func (db *fakeDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{db: db}
}

type fakeUow struct {
	db     *fakeDB
	inTx   bool
	staged []*entity.Food
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.foods = append(u.db.foods, u.staged...)
	u.db.commits++
	u.inTx, u.staged = false, nil
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.inTx {
		return errors.New("no transaction to rollback")
	}
	u.db.mu.Lock()
	u.db.rollbacks++
	u.db.mu.Unlock()
	u.inTx, u.staged = false, nil
	return nil
}

func (u *fakeUow) FoodRepository() contract.FoodRepository { return &fakeFoodRepo{uow: u} }
func (u *fakeUow) MasterRepository() contract.MasterRepository { return &fakeMasterRepo{db: u.db} }
func (u *fakeUow) ConsultHistoryRepository() contract.ConsultHistoryRepository {
	return &fakeHistoryRepo{db: u.db}
}

type fakeFoodRepo struct {
	uow *fakeUow
}

func matches(f *entity.Food, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.FoodOfTypeOrAny:
			if f.Type != s.Type && f.Type != entity.FoodTypeAny {
				return false
			}
		case specification.ByGenreStyle:
			if f.GenreCode != s.Genre || f.StyleCode != s.Style {
				return false
			}
		case specification.ByName:
			if f.Name != s.Name {
				return false
			}
		}
	}
	return true
}

func (r *fakeFoodRepo) filter(specs []specification.Specification) ([]*entity.Food, error) {
	db := r.uow.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.fail != nil {
		return nil, db.fail
	}
	var out []*entity.Food
	for _, f := range append(append([]*entity.Food(nil), db.foods...), r.uow.staged...) {
		if matches(f, specs) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFoodRepo) Create(ctx context.Context, food *entity.Food) error {
	db := r.uow.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.fail != nil {
		return db.fail
	}
	db.creates++
	food.Id = uint(len(db.foods) + len(r.uow.staged) + 1)
	if r.uow.inTx {
		r.uow.staged = append(r.uow.staged, food)
	} else {
		db.foods = append(db.foods, food)
	}
	return nil
}

// FindRandom returns the first match so tests stay deterministic.
func (r *fakeFoodRepo) FindRandom(ctx context.Context, specs ...specification.Specification) (*entity.Food, error) {
	found, err := r.filter(specs)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (r *fakeFoodRepo) Exists(ctx context.Context, specs ...specification.Specification) (bool, error) {
	found, err := r.filter(specs)
	return len(found) > 0, err
}

func (r *fakeFoodRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, err := r.filter(specs)
	return int64(len(found)), err
}

type fakeMasterRepo struct {
	db *fakeDB
}

func (r *fakeMasterRepo) FindAllGenres(ctx context.Context) ([]*entity.MasterEntry, error) {
	if r.db.fail != nil {
		return nil, r.db.fail
	}
	return r.db.genres, nil
}

func (r *fakeMasterRepo) FindAllStyles(ctx context.Context) ([]*entity.MasterEntry, error) {
	if r.db.fail != nil {
		return nil, r.db.fail
	}
	return r.db.styles, nil
}

func (r *fakeMasterRepo) UpsertGenre(ctx context.Context, entry *entity.MasterEntry) error {
	r.db.genres = append(r.db.genres, entry)
	return nil
}

func (r *fakeMasterRepo) UpsertStyle(ctx context.Context, entry *entity.MasterEntry) error {
	r.db.styles = append(r.db.styles, entry)
	return nil
}

type fakeHistoryRepo struct {
	db *fakeDB
}

func (r *fakeHistoryRepo) Create(ctx context.Context, history *entity.ConsultHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.fail != nil {
		return r.db.fail
	}
	r.db.history = append(r.db.history, history)
	return nil
}

func (r *fakeHistoryRepo) TopFoods(ctx context.Context, userId string, limit int) ([]*entity.HistoryTally, error) {
	if r.db.fail != nil {
		return nil, r.db.fail
	}
	return r.db.tallies, nil
}

// mockSuggestions records every call to the generative service.
type mockSuggestions struct {
	mock.Mock
}

func (m *mockSuggestions) SuggestDish(ctx context.Context, genreName, styleName, request string) outcome.Result[string] {
	return m.Called(genreName, styleName, request).Get(0).(outcome.Result[string])
}

func (m *mockSuggestions) AbbreviatedRecipe(ctx context.Context, food string) outcome.Result[string] {
	return m.Called(food).Get(0).(outcome.Result[string])
}

func (m *mockSuggestions) DescribeDish(ctx context.Context, food string) outcome.Result[string] {
	return m.Called(food).Get(0).(outcome.Result[string])
}

func (m *mockSuggestions) SearchRecipe(ctx context.Context, food string) outcome.Result[recipe.Hit] {
	return m.Called(food).Get(0).(outcome.Result[recipe.Hit])
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type bufferResponder struct {
	mu      sync.Mutex
	replies []chat.Reply
}

func (b *bufferResponder) Send(ctx context.Context, reply chat.Reply) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies = append(b.replies, reply)
	return nil
}

func (b *bufferResponder) last() chat.Reply {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.replies) == 0 {
		return chat.Reply{}
	}
	return b.replies[len(b.replies)-1]
}

func (b *bufferResponder) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.replies))
	for _, r := range b.replies {
		out = append(out, r.Text)
	}
	return out
}

func (b *bufferResponder) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies = nil
}

func strPtr(s string) *string { return &s }

// recordingLogger keeps the messages logged at Info and above.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) record(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, message)
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *recordingLogger) Info(module, message string, details map[string]interface{}) { l.record(message) }
func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) { l.record(message) }
func (l *recordingLogger) Error(module, message string, details map[string]interface{}) { l.record(message) }
func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) logged() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}
