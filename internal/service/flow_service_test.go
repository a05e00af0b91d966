package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"food-consult-bot/internal/chat"
	"food-consult-bot/internal/constant"
	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/internal/repository/memory"
	"food-consult-bot/pkg/outcome"
	"food-consult-bot/pkg/recipe"
	"food-consult-bot/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type flowFixture struct {
	db          *fakeDB
	sessions    *memory.SessionRepository
	suggestions *mockSuggestions
	flow        *FlowService
}

func newFlowFixture(t *testing.T) *flowFixture {
	db := seededCatalog()
	db.genres = []*entity.MasterEntry{{Code: "A", Name: "和食"}, {Code: "C", Name: "中華"}}
	db.styles = []*entity.MasterEntry{{Code: "B", Name: "がっつり"}, {Code: "S", Name: "さっぱり"}}

	log := logger.NewNopLogger()
	master := NewMasterService(db, log)
	require.NoError(t, master.Reload(context.Background()))

	f := &flowFixture{
		db:          db,
		sessions:    memory.NewSessionRepository(memory.DefaultCapacity, 0),
		suggestions: &mockSuggestions{},
	}
	catalog := NewCatalogService(db, 0)
	publisher := NewPublisherService(nil, log)
	f.flow = NewFlowService(
		f.sessions,
		NewSelectionService(catalog, f.suggestions, master, publisher, log),
		NewRecipeService(f.suggestions, nil, log),
		NewHistoryService(catalog, master, log),
		master,
		log,
		FlowConfig{PromptExpiry: time.Minute},
	)
	return f
}

func (f *flowFixture) mention(userID string, r chat.Responder) {
	f.flow.Handle(context.Background(), chat.MessageEvent(userID, "ch", "<@bot> hi", true), r)
}

func (f *flowFixture) press(userID string, action chat.Action, r chat.Responder) {
	f.flow.Handle(context.Background(), chat.ActionEvent(userID, "ch", action), r)
}

func (f *flowFixture) say(userID, text string, r chat.Responder) {
	f.flow.Handle(context.Background(), chat.MessageEvent(userID, "ch", text, false), r)
}

func choiceIDs(reply chat.Reply) []string {
	ids := make([]string, 0, len(reply.Choices))
	for _, c := range reply.Choices {
		ids = append(ids, c.Action.ID())
	}
	return ids
}

func TestConsultScenario(t *testing.T) {
	f := newFlowFixture(t)
	r := &bufferResponder{}

	f.mention("u1", r)
	assert.Equal(t, constant.MsgChooseMode, r.last().Text)
	assert.Equal(t, []string{"buy", "cook", "consult"}, choiceIDs(r.last()))

	f.press("u1", chat.Consult(), r)
	assert.Equal(t, constant.MsgChooseGenre, r.last().Text)
	assert.Equal(t, []string{"genre:A", "genre:C"}, choiceIDs(r.last()))
	require.NotNil(t, r.last().Expiry)
	assert.Equal(t, store.StageAwaitingGenre, r.last().Expiry.OnExpire.Stage)

	f.press("u1", chat.GenreChosen("A"), r)
	assert.Equal(t, constant.MsgChooseStyle, r.last().Text)
	assert.Equal(t, []string{"style:B", "style:S"}, choiceIDs(r.last()))

	f.press("u1", chat.StyleChosen("B"), r)
	assert.Equal(t, constant.MsgAskRequest, r.last().Text)
	assert.Equal(t, []string{"request_none"}, choiceIDs(r.last()))

	f.suggestions.On("SuggestDish", "和食", "がっつり", "nothing spicy").Return(outcome.Ok("カツ丼")).Once()
	r.reset()
	f.say("u1", "nothing spicy", r)

	f.suggestions.AssertExpectations(t)
	assert.Equal(t, []string{constant.MsgThinking, "ほなカツ丼でどうや！"}, r.texts())
	assert.Equal(t, []string{"recipe:カツ丼", "detail:カツ丼"}, choiceIDs(r.last()))

	require.Len(t, f.db.history, 1)
	h := f.db.history[0]
	assert.Equal(t, "u1", h.UserId)
	assert.Equal(t, "A", h.GenreCode)
	assert.Equal(t, "B", h.StyleCode)
	assert.Equal(t, "nothing spicy", *h.RequestText)

	_, found := f.sessions.Get("u1")
	assert.False(t, found, "session is removed after the result")
}

func TestFourthUserIsTurnedAway(t *testing.T) {
	f := newFlowFixture(t)
	for i := 1; i <= 3; i++ {
		f.mention(fmt.Sprintf("u%d", i), &bufferResponder{})
	}
	require.Equal(t, 3, f.sessions.Count())

	r := &bufferResponder{}
	f.mention("u4", r)

	assert.Equal(t, constant.MsgAtCapacity, r.last().Text)
	assert.Equal(t, 3, f.sessions.Count())
	_, found := f.sessions.Get("u4")
	assert.False(t, found)

	t.Run("buttons from a non-member are rejected before any mutation", func(t *testing.T) {
		r := &bufferResponder{}
		f.press("u4", chat.Buy(), r)
		assert.Equal(t, constant.MsgBusy, r.last().Text)
		assert.True(t, r.last().Ephemeral)
		assert.Equal(t, 3, f.sessions.Count())
	})
}

func TestRepeatedMentionIsIgnored(t *testing.T) {
	f := newFlowFixture(t)
	r := &bufferResponder{}

	f.mention("u1", r)
	f.mention("u1", r)

	assert.Len(t, r.replies, 1)
}

func TestQuickPickFlow(t *testing.T) {
	t.Run("buy clears the session", func(t *testing.T) {
		f := newFlowFixture(t)
		r := &bufferResponder{}
		f.mention("u1", r)
		f.press("u1", chat.Buy(), r)

		assert.Equal(t, "牛丼！", r.last().Text)
		_, found := f.sessions.Get("u1")
		assert.False(t, found)
		f.suggestions.AssertNotCalled(t, "SearchRecipe", mock.Anything)
	})

	t.Run("cook runs the recipe chain", func(t *testing.T) {
		f := newFlowFixture(t)
		f.suggestions.On("SearchRecipe", "肉じゃが").Return(outcome.Ok(recipe.Hit{Title: "肉じゃが", URL: "https://example.com"}))
		r := &bufferResponder{}
		f.mention("u1", r)
		r.reset()
		f.press("u1", chat.Cook(), r)

		assert.Equal(t, []string{"肉じゃが！", "肉じゃが\nhttps://example.com"}, r.texts())
		assert.Equal(t, 0, f.sessions.Count())
	})

	t.Run("quick pick mid consult keeps the consult", func(t *testing.T) {
		f := newFlowFixture(t)
		r := &bufferResponder{}
		f.mention("u1", r)
		f.press("u1", chat.Consult(), r)
		f.press("u1", chat.Buy(), r)

		s, found := f.sessions.Get("u1")
		require.True(t, found)
		assert.Equal(t, store.StageAwaitingGenre, s.Stage)
	})

	t.Run("storage failure apologises and skips the recipe", func(t *testing.T) {
		f := newFlowFixture(t)
		f.db.fail = errBoom
		r := &bufferResponder{}
		f.press("u1", chat.Cook(), r)

		assert.Equal(t, []string{constant.MsgStorageApology}, r.texts())
		assert.Equal(t, 0, f.sessions.Count())
	})
}

func TestRequestNoneUsesCatalogOnly(t *testing.T) {
	f := newFlowFixture(t)
	r := &bufferResponder{}

	f.mention("u1", r)
	f.press("u1", chat.Consult(), r)
	f.press("u1", chat.GenreChosen("A"), r)
	f.press("u1", chat.StyleChosen("B"), r)
	f.press("u1", chat.RequestNone(), r)

	f.suggestions.AssertNotCalled(t, "SuggestDish", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "ほな「牛丼」かも！", r.last().Text)
	require.Len(t, f.db.history, 1)
	assert.Nil(t, f.db.history[0].RequestText)
	assert.Equal(t, 0, f.sessions.Count())
}

func TestReplyNoneTextCountsAsNoRequest(t *testing.T) {
	f := newFlowFixture(t)
	r := &bufferResponder{}

	f.mention("u1", r)
	f.press("u1", chat.Consult(), r)
	f.press("u1", chat.GenreChosen("A"), r)
	f.press("u1", chat.StyleChosen("B"), r)
	f.say("u1", " なし ", r)

	f.suggestions.AssertNotCalled(t, "SuggestDish", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "ほな「牛丼」かも！", r.last().Text)
}

func TestOutOfOrderActions(t *testing.T) {
	f := newFlowFixture(t)

	t.Run("style without a session", func(t *testing.T) {
		r := &bufferResponder{}
		f.press("ghost", chat.StyleChosen("B"), r)
		assert.Equal(t, constant.MsgNeedsGenreFirst, r.last().Text)
		assert.Equal(t, 0, f.sessions.Count())
	})

	t.Run("genre without a session", func(t *testing.T) {
		r := &bufferResponder{}
		f.press("ghost", chat.GenreChosen("A"), r)
		assert.Equal(t, constant.MsgNoActiveSession, r.last().Text)
		assert.Equal(t, 0, f.sessions.Count())
	})

	t.Run("none without a session", func(t *testing.T) {
		r := &bufferResponder{}
		f.press("ghost", chat.RequestNone(), r)
		assert.Equal(t, constant.MsgNoActiveSession, r.last().Text)
	})

	t.Run("genre is never overwritten", func(t *testing.T) {
		r := &bufferResponder{}
		f.mention("u1", r)
		f.press("u1", chat.Consult(), r)
		f.press("u1", chat.GenreChosen("A"), r)
		f.press("u1", chat.GenreChosen("C"), r)

		assert.Equal(t, constant.MsgStaleChoice, r.last().Text)
		s, _ := f.sessions.Get("u1")
		assert.Equal(t, "A", s.GenreCode)
	})

	t.Run("plain message outside a consult is ignored", func(t *testing.T) {
		r := &bufferResponder{}
		f.say("u2", "hello", r)
		assert.Empty(t, r.replies)
		assert.Equal(t, 1, f.sessions.Count())
	})
}

func TestAbandonClearsOnlyMatchingStage(t *testing.T) {
	f := newFlowFixture(t)
	r := &bufferResponder{}
	f.mention("u1", r)
	f.press("u1", chat.Consult(), r)
	genreExpiry := r.last().Expiry.OnExpire
	f.press("u1", chat.GenreChosen("A"), r)
	styleExpiry := r.last().Expiry.OnExpire

	// The genre prompt expiring after the user moved on is stale
	f.flow.Handle(context.Background(), genreExpiry, r)
	_, found := f.sessions.Get("u1")
	assert.True(t, found)

	f.flow.Handle(context.Background(), styleExpiry, r)
	_, found = f.sessions.Get("u1")
	assert.False(t, found)

	// Abandoning twice is harmless
	f.flow.Handle(context.Background(), styleExpiry, r)
}

func TestReshownGenrePromptSupersedesOldExpiry(t *testing.T) {
	f := newFlowFixture(t)
	r := &bufferResponder{}
	f.mention("u1", r)

	f.press("u1", chat.Consult(), r)
	first := r.last().Expiry.OnExpire
	f.press("u1", chat.Consult(), r)
	require.Equal(t, constant.MsgChooseGenre, r.last().Text)
	second := r.last().Expiry.OnExpire
	assert.NotEqual(t, first.Prompt, second.Prompt)

	f.flow.Handle(context.Background(), first, r)
	s, found := f.sessions.Get("u1")
	require.True(t, found, "the prompt on screen is still live")
	assert.Equal(t, store.StageAwaitingGenre, s.Stage)

	f.press("u1", chat.GenreChosen("A"), r)
	assert.Equal(t, constant.MsgChooseStyle, r.last().Text)

	// Only the prompt's own expiry clears the session
	f.flow.Handle(context.Background(), chat.AbandonEvent("u1", "ch", store.StageAwaitingGenre, second.Prompt), r)
	_, found = f.sessions.Get("u1")
	assert.True(t, found)
}

func TestHistoryMention(t *testing.T) {
	f := newFlowFixture(t)
	f.db.tallies = []*entity.HistoryTally{{ResultFood: "カツ丼", GenreCode: "A", StyleCode: "B", Count: 2}}
	r := &bufferResponder{}

	f.flow.Handle(context.Background(), chat.MessageEvent("u1", "ch", "<@bot> 過去のおすすめ", true), r)

	assert.Equal(t, "1位： カツ丼!!! {和食（がっつり）}", r.last().Text)
	assert.Equal(t, 0, f.sessions.Count(), "history never opens a session")
}

func TestCommands(t *testing.T) {
	f := newFlowFixture(t)
	r := &bufferResponder{}
	ctx := context.Background()

	f.flow.Handle(ctx, chat.CommandEvent("u1", "ch", chat.CommandGenres), r)
	assert.Equal(t, "📚 登録ジャンル一覧：\nA = 和食\nC = 中華", r.last().Text)
	assert.True(t, r.last().Ephemeral)

	f.flow.Handle(ctx, chat.CommandEvent("u1", "ch", chat.CommandStyles), r)
	assert.Equal(t, "🎨 登録スタイル一覧：\nB = がっつり\nS = さっぱり", r.last().Text)

	f.db.styles = append(f.db.styles, &entity.MasterEntry{Code: "M", Name: "まろやか"})
	f.flow.Handle(ctx, chat.CommandEvent("u1", "ch", chat.CommandReload), r)
	assert.Equal(t, constant.MsgReloaded, r.last().Text)

	f.flow.Handle(ctx, chat.CommandEvent("u1", "ch", chat.CommandStyles), r)
	assert.Contains(t, r.last().Text, "M = まろやか")

	f.db.fail = errBoom
	f.flow.Handle(ctx, chat.CommandEvent("u1", "ch", chat.CommandReload), r)
	assert.Equal(t, constant.MsgReloadFailed, r.last().Text)
}

func TestResultAffordances(t *testing.T) {
	f := newFlowFixture(t)
	f.suggestions.On("SearchRecipe", "カツ丼").Return(outcome.Unavailable[recipe.Hit](errNoHit))
	f.suggestions.On("AbbreviatedRecipe", "カツ丼").Return(outcome.Ok("豚肉を揚げる"))
	f.suggestions.On("DescribeDish", "カツ丼").Return(outcome.Ok("卵とじ"))
	r := &bufferResponder{}

	f.press("u9", chat.RecipeWanted("カツ丼"), r)
	assert.Equal(t, "豚肉を揚げる", r.last().Text)

	f.press("u9", chat.DetailWanted("カツ丼"), r)
	assert.Equal(t, "卵とじ", r.last().Text)

	assert.Equal(t, 0, f.sessions.Count())
}

func TestConcurrentUsersResolveIndependently(t *testing.T) {
	f := newFlowFixture(t)
	f.suggestions.On("SuggestDish", mock.Anything, mock.Anything, mock.Anything).Return(outcome.Ok("カツ丼"))

	var wg sync.WaitGroup
	for i := 1; i <= 3; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			r := &bufferResponder{}
			f.mention(user, r)
			f.press(user, chat.Consult(), r)
			f.press(user, chat.GenreChosen("A"), r)
			f.press(user, chat.StyleChosen("B"), r)
			f.say(user, "spicy", r)
		}(fmt.Sprintf("u%d", i))
	}
	wg.Wait()

	assert.Equal(t, 0, f.sessions.Count())
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	assert.Len(t, f.db.history, 3)
}

func TestRecipeMissIsLogged(t *testing.T) {
	f := newFlowFixture(t)
	log := &recordingLogger{}
	f.flow.logger = log
	f.suggestions.On("SearchRecipe", "謎の料理").Return(outcome.Unavailable[recipe.Hit](errBoom))
	f.suggestions.On("AbbreviatedRecipe", "謎の料理").Return(outcome.Unavailable[string](errBoom))

	r := &bufferResponder{}
	f.press("u1", chat.RecipeWanted("謎の料理"), r)

	assert.Equal(t, constant.MsgNoRecipe, r.last().Text)
	assert.Contains(t, log.logged(), "No recipe found")
}
