package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-consult-bot/internal/chat"
	"food-consult-bot/internal/constant"
	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/pkg/keylock"
	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/internal/repository/memory"
	"food-consult-bot/pkg/store"
)

var errStaleChoice = errors.New("choice does not match the session stage")

// SessionTable is the subset of the in-memory session store the flow drives.
type SessionTable interface {
	Get(userID string) (*store.Session, bool)
	Start(userID, channelID string) (*store.Session, error)
	Mutate(userID string, fn func(*store.Session)) (*store.Session, error)
	Clear(userID string)
}

type FlowConfig struct {
	// PromptExpiry withdraws unanswered stage prompts; zero keeps them forever.
	PromptExpiry time.Duration
}

// FlowService is the consult state machine. Every event for a user runs
// under that user's lock, so one user never has two chains in flight.
type FlowService struct {
	sessions  SessionTable
	selection ISelectionService
	recipes   IRecipeService
	history   IHistoryService
	master    IMasterService
	locks     *keylock.KeyLock
	logger    logger.ILogger
	config    FlowConfig
}

var _ chat.Handler = (*FlowService)(nil)

func NewFlowService(
	sessions SessionTable,
	selection ISelectionService,
	recipes IRecipeService,
	history IHistoryService,
	master IMasterService,
	log logger.ILogger,
	config FlowConfig,
) *FlowService {
	return &FlowService{
		sessions:  sessions,
		selection: selection,
		recipes:   recipes,
		history:   history,
		master:    master,
		locks:     keylock.New(),
		logger:    log,
		config:    config,
	}
}

func (f *FlowService) Handle(ctx context.Context, ev chat.Event, r chat.Responder) {
	unlock := f.locks.Lock(ev.UserID)
	defer unlock()

	switch ev.Kind {
	case chat.EventMessage:
		f.onMessage(ctx, ev, r)
	case chat.EventAction:
		f.onAction(ctx, ev, r)
	case chat.EventCommand:
		f.onCommand(ctx, ev, r)
	case chat.EventAbandon:
		f.onAbandon(ev)
	default:
		f.logger.Warn("FLOW", "Unknown event kind", map[string]interface{}{"kind": ev.Kind, "user_id": ev.UserID})
	}
}

func (f *FlowService) send(ctx context.Context, r chat.Responder, reply chat.Reply) {
	if err := r.Send(ctx, reply); err != nil {
		f.logger.Warn("FLOW", "Failed to deliver reply", map[string]interface{}{"error": err.Error()})
	}
}

func (f *FlowService) sendText(ctx context.Context, r chat.Responder, text string) {
	f.send(ctx, r, chat.Reply{Text: text})
}

// sendGuidance answers a rejected step privately.
func (f *FlowService) sendGuidance(ctx context.Context, r chat.Responder, ev chat.Event, err error) {
	var text string
	switch {
	case errors.Is(err, memory.ErrAdmissionRejected):
		text = constant.MsgBusy
		f.logger.Info("FLOW", "Admission rejected", map[string]interface{}{"user_id": ev.UserID})
	case errors.Is(err, memory.ErrNoActiveSession):
		text = constant.MsgNoActiveSession
	case errors.Is(err, ErrNeedsGenreFirst):
		text = constant.MsgNeedsGenreFirst
	case errors.Is(err, errStaleChoice):
		text = constant.MsgStaleChoice
	default:
		text = constant.MsgStorageApology
		f.logger.Error("FLOW", "Unexpected flow error", map[string]interface{}{"user_id": ev.UserID, "error": err.Error()})
	}
	f.send(ctx, r, chat.Reply{Text: text, Ephemeral: true})
}

func (f *FlowService) expiry(ev chat.Event, session *store.Session) *chat.Expiry {
	if f.config.PromptExpiry <= 0 {
		return nil
	}
	return &chat.Expiry{
		After:    f.config.PromptExpiry,
		OnExpire: chat.AbandonEvent(ev.UserID, ev.ChannelID, session.Stage, session.PromptSeq),
	}
}

func (f *FlowService) onMessage(ctx context.Context, ev chat.Event, r chat.Responder) {
	session, found := f.sessions.Get(ev.UserID)

	// A reply to the request prompt is captured whether or not it mentions the bot
	if found && session.AwaitsReply() {
		f.captureRequest(ctx, ev, r, store.NormalizeRequest(ev.Text))
		return
	}

	if !ev.Mentioned {
		return
	}

	if strings.Contains(ev.Text, constant.HistoryKeyword) {
		f.sendText(ctx, r, f.history.Render(ctx, ev.UserID))
		return
	}

	if found && session.Responded {
		f.logger.Debug("FLOW", "Repeated mention ignored", map[string]interface{}{
			"user_id": ev.UserID,
			"stage":   session.Stage.String(),
		})
		return
	}

	if _, err := f.sessions.Start(ev.UserID, ev.ChannelID); err != nil {
		if errors.Is(err, memory.ErrAdmissionRejected) {
			f.logger.Info("FLOW", "Admission rejected", map[string]interface{}{"user_id": ev.UserID})
			f.sendText(ctx, r, constant.MsgAtCapacity)
			return
		}
		f.sendGuidance(ctx, r, ev, err)
		return
	}
	if _, err := f.sessions.Mutate(ev.UserID, func(s *store.Session) { s.Responded = true }); err != nil {
		f.sendGuidance(ctx, r, ev, err)
		return
	}

	f.logger.Info("FLOW", "Session started", map[string]interface{}{"user_id": ev.UserID, "channel_id": ev.ChannelID})
	f.send(ctx, r, chat.Reply{
		Text: constant.MsgChooseMode,
		Choices: []chat.Choice{
			{Label: constant.LabelBuyOut, Action: chat.Buy(), Style: chat.StylePrimary},
			{Label: constant.LabelCook, Action: chat.Cook(), Style: chat.StyleSuccess},
			{Label: constant.LabelConsult, Action: chat.Consult(), Style: chat.StyleSecondary},
		},
	})
}

func (f *FlowService) onAction(ctx context.Context, ev chat.Event, r chat.Responder) {
	var err error

	switch ev.Action.Kind {
	case chat.ActionBuy:
		err = f.quickPick(ctx, ev, r, entity.FoodTypeBuyOut)
	case chat.ActionCook:
		err = f.quickPick(ctx, ev, r, entity.FoodTypeCook)
	case chat.ActionConsult:
		err = f.startConsult(ctx, ev, r)
	case chat.ActionGenreChosen:
		err = f.chooseGenre(ctx, ev, r)
	case chat.ActionStyleChosen:
		err = f.chooseStyle(ctx, ev, r)
	case chat.ActionRequestNone:
		err = f.skipRequest(ctx, ev, r)
	case chat.ActionRecipeWanted:
		f.sendRecipe(ctx, ev, r, ev.Action.Arg)
	case chat.ActionDetailWanted:
		f.sendText(ctx, r, f.recipes.Describe(ctx, ev.Action.Arg))
	default:
		f.logger.Warn("FLOW", "Unknown action", map[string]interface{}{"action": ev.Action.ID(), "user_id": ev.UserID})
	}

	if err != nil {
		f.sendGuidance(ctx, r, ev, err)
	}
}

func (f *FlowService) quickPick(ctx context.Context, ev chat.Event, r chat.Responder, foodType string) error {
	session, err := f.sessions.Start(ev.UserID, ev.ChannelID)
	if err != nil {
		return err
	}

	sel := f.selection.QuickPick(ctx, ev.UserID, foodType)
	f.sendText(ctx, r, sel.Text)

	// A quick pick pressed mid-consult leaves the consult running
	if session.Stage == store.StageStart {
		f.sessions.Clear(ev.UserID)
	}

	if sel.Success && foodType == entity.FoodTypeCook {
		f.sendRecipe(ctx, ev, r, sel.Food)
	}
	return nil
}

func (f *FlowService) sendRecipe(ctx context.Context, ev chat.Event, r chat.Responder, food string) {
	text, found := f.recipes.Lookup(ctx, food)
	if !found {
		f.logger.Info("FLOW", "No recipe found", map[string]interface{}{"user_id": ev.UserID, "food": food})
	}
	f.sendText(ctx, r, text)
}

func (f *FlowService) startConsult(ctx context.Context, ev chat.Event, r chat.Responder) error {
	session, err := f.sessions.Start(ev.UserID, ev.ChannelID)
	if err != nil {
		return err
	}
	if session.Stage > store.StageAwaitingGenre {
		f.send(ctx, r, chat.Reply{Text: constant.MsgConsultOngoing, Ephemeral: true})
		return nil
	}

	if err := f.master.EnsureLoaded(ctx); err != nil {
		f.logger.Warn("FLOW", "Master maps unavailable", map[string]interface{}{"error": err.Error()})
	}
	genres := f.master.Genres()
	if len(genres) == 0 {
		f.sessions.Clear(ev.UserID)
		f.sendText(ctx, r, constant.MsgNoGenres)
		return nil
	}

	// Pressing consult again re-renders the prompt and supersedes the old one
	session, err = f.sessions.Mutate(ev.UserID, func(s *store.Session) {
		s.Stage = store.StageAwaitingGenre
		s.PromptSeq++
	})
	if err != nil {
		return err
	}

	f.send(ctx, r, chat.Reply{
		Text:    constant.MsgChooseGenre,
		Choices: masterChoices(genres, chat.GenreChosen, chat.StylePrimary),
		Expiry:  f.expiry(ev, session),
	})
	return nil
}

func (f *FlowService) chooseGenre(ctx context.Context, ev chat.Event, r chat.Responder) error {
	session, found := f.sessions.Get(ev.UserID)
	if !found {
		return memory.ErrNoActiveSession
	}
	if session.Stage != store.StageAwaitingGenre || session.GenreCode != "" {
		return errStaleChoice
	}

	styles := f.master.Styles()
	if len(styles) == 0 {
		f.sessions.Clear(ev.UserID)
		f.sendText(ctx, r, constant.MsgNoStyles)
		return nil
	}

	session, err := f.sessions.Mutate(ev.UserID, func(s *store.Session) {
		s.GenreCode = ev.Action.Arg
		s.Stage = store.StageAwaitingStyle
		s.PromptSeq++
	})
	if err != nil {
		return err
	}

	f.send(ctx, r, chat.Reply{
		Text:    constant.MsgChooseStyle,
		Choices: masterChoices(styles, chat.StyleChosen, chat.StyleSuccess),
		Expiry:  f.expiry(ev, session),
	})
	return nil
}

func (f *FlowService) chooseStyle(ctx context.Context, ev chat.Event, r chat.Responder) error {
	session, found := f.sessions.Get(ev.UserID)
	if !found || session.GenreCode == "" {
		return ErrNeedsGenreFirst
	}
	if session.Stage != store.StageAwaitingStyle || session.StyleCode != "" {
		return errStaleChoice
	}

	session, err := f.sessions.Mutate(ev.UserID, func(s *store.Session) {
		s.StyleCode = ev.Action.Arg
		s.Stage = store.StageAwaitingRequest
		s.PromptSeq++
	})
	if err != nil {
		return err
	}

	f.send(ctx, r, chat.Reply{
		Text: constant.MsgAskRequest,
		Choices: []chat.Choice{
			{Label: constant.LabelRequestNone, Action: chat.RequestNone(), Style: chat.StyleSecondary},
		},
		Expiry: f.expiry(ev, session),
	})
	return nil
}

func (f *FlowService) skipRequest(ctx context.Context, ev chat.Event, r chat.Responder) error {
	session, found := f.sessions.Get(ev.UserID)
	if !found {
		return memory.ErrNoActiveSession
	}
	if !session.AwaitsReply() {
		return errStaleChoice
	}

	f.resolve(ctx, ev, r, nil)
	return nil
}

func (f *FlowService) captureRequest(ctx context.Context, ev chat.Event, r chat.Responder, request *string) {
	f.sendText(ctx, r, constant.MsgThinking)
	f.resolve(ctx, ev, r, request)
}

// resolve runs the consult chain and always removes the session afterwards.
func (f *FlowService) resolve(ctx context.Context, ev chat.Event, r chat.Responder, request *string) {
	defer f.sessions.Clear(ev.UserID)

	session, err := f.sessions.Mutate(ev.UserID, func(s *store.Session) {
		s.RequestText = request
		s.RequestSet = true
		s.Stage = store.StageResolving
	})
	if err != nil {
		f.sendGuidance(ctx, r, ev, err)
		return
	}

	sel := f.selection.ResolveConsult(ctx, session)

	reply := chat.Reply{Text: sel.Text}
	if sel.Success {
		reply.Choices = []chat.Choice{
			{Label: constant.LabelRecipe, Action: chat.RecipeWanted(sel.Food), Style: chat.StyleSuccess},
			{Label: constant.LabelDetail, Action: chat.DetailWanted(sel.Food), Style: chat.StyleSecondary},
		}
	}
	f.send(ctx, r, reply)

	if _, err := f.sessions.Mutate(ev.UserID, func(s *store.Session) { s.Stage = store.StageDone }); err != nil {
		f.logger.Warn("FLOW", "Session vanished before completion", map[string]interface{}{"user_id": ev.UserID, "error": err.Error()})
	}
	f.logger.Info("FLOW", "Consult resolved", map[string]interface{}{
		"user_id": ev.UserID,
		"genre":   session.GenreCode,
		"style":   session.StyleCode,
		"source":  sel.Source,
		"success": sel.Success,
	})
}

func (f *FlowService) onAbandon(ev chat.Event) {
	session, found := f.sessions.Get(ev.UserID)
	if !found || session.Stage != ev.Stage || session.PromptSeq != ev.Prompt {
		return
	}
	f.sessions.Clear(ev.UserID)
	f.logger.Info("FLOW", "Session abandoned", map[string]interface{}{
		"user_id": ev.UserID,
		"stage":   ev.Stage.String(),
	})
}

func (f *FlowService) onCommand(ctx context.Context, ev chat.Event, r chat.Responder) {
	var text string

	switch ev.Command {
	case chat.CommandGenres:
		if err := f.master.EnsureLoaded(ctx); err != nil {
			f.logger.Warn("FLOW", "Master maps unavailable", map[string]interface{}{"error": err.Error()})
		}
		text = masterList(constant.GenreListHeader, f.master.Genres())
	case chat.CommandStyles:
		if err := f.master.EnsureLoaded(ctx); err != nil {
			f.logger.Warn("FLOW", "Master maps unavailable", map[string]interface{}{"error": err.Error()})
		}
		text = masterList(constant.StyleListHeader, f.master.Styles())
	case chat.CommandReload:
		text = constant.MsgReloaded
		if err := f.master.Reload(ctx); err != nil {
			text = constant.MsgReloadFailed
		}
	default:
		f.logger.Warn("FLOW", "Unknown command", map[string]interface{}{"command": ev.Command})
		return
	}

	f.send(ctx, r, chat.Reply{Text: text, Ephemeral: true})
}

func masterChoices(entries []entity.MasterEntry, action func(string) chat.Action, style chat.ChoiceStyle) []chat.Choice {
	choices := make([]chat.Choice, 0, len(entries))
	for _, e := range entries {
		choices = append(choices, chat.Choice{Label: e.Name, Action: action(e.Code), Style: style})
	}
	return choices
}

func masterList(header string, entries []entity.MasterEntry) string {
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, header)
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf(constant.FmtMasterLine, e.Code, e.Name))
	}
	return strings.Join(lines, "\n")
}
