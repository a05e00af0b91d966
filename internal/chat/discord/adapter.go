// Package discord binds the chat event stream to a Discord bot account.
package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-consult-bot/internal/chat"
	"food-consult-bot/internal/constant"
	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/pkg/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	maxButtonsPerRow = 5
	maxRows          = 5
	maxLabelRunes    = 80
	maxMessageRunes  = 2000
)

type Adapter struct {
	session *discordgo.Session
	submit  chat.Submitter
	guildID string
	logger  logger.ILogger
}

func New(token, guildID string, submit chat.Submitter, log logger.ILogger) (*Adapter, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	a := &Adapter{
		session: session,
		submit:  submit,
		guildID: guildID,
		logger:  log,
	}
	session.AddHandler(a.onReady)
	session.AddHandler(a.onMessageCreate)
	session.AddHandler(a.onInteractionCreate)
	return a, nil
}

// Open connects the gateway and registers the slash commands.
func (a *Adapter) Open() error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	appID := a.session.State.User.ID
	if _, err := a.session.ApplicationCommandBulkOverwrite(appID, a.guildID, applicationCommands()); err != nil {
		a.logger.Error("DISCORD", "Failed to register slash commands", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.session.Close()
}

func (a *Adapter) onReady(s *discordgo.Session, r *discordgo.Ready) {
	a.logger.Info("DISCORD", "Bot connected", map[string]interface{}{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	})
}

func (a *Adapter) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ev := chat.MessageEvent(m.Author.ID, m.ChannelID, m.Content, isMentioned(m.Mentions, s.State.User.ID))
	a.dispatch(ev, &channelResponder{adapter: a, channelID: m.ChannelID})
}

func (a *Adapter) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUser(i.Interaction)
	if userID == "" {
		return
	}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		action, err := chat.ParseAction(i.MessageComponentData().CustomID)
		if errors.Is(err, chat.ErrActionExpired) {
			if a.acknowledge(i.Interaction) {
				r := &interactionResponder{adapter: a, interaction: i.Interaction}
				if err := r.Send(context.Background(), chat.Reply{Text: constant.MsgExpiredChoice, Ephemeral: true}); err != nil {
					a.logger.Warn("DISCORD", "Failed to answer expired component", map[string]interface{}{"error": err.Error()})
				}
			}
			return
		}
		if err != nil {
			a.logger.Warn("DISCORD", "Unknown component", map[string]interface{}{"error": err.Error()})
			return
		}
		if !a.acknowledge(i.Interaction) {
			return
		}
		a.dispatch(chat.ActionEvent(userID, i.ChannelID, action), &interactionResponder{adapter: a, interaction: i.Interaction})

	case discordgo.InteractionApplicationCommand:
		cmd, ok := commandFromName(i.ApplicationCommandData().Name)
		if !ok {
			return
		}
		if !a.acknowledge(i.Interaction) {
			return
		}
		a.dispatch(chat.CommandEvent(userID, i.ChannelID, cmd), &interactionResponder{adapter: a, interaction: i.Interaction})
	}
}

// acknowledge defers the interaction within Discord's three second window.
func (a *Adapter) acknowledge(interaction *discordgo.Interaction) bool {
	if err := a.session.InteractionRespond(interaction, deferralFor(interaction.Type)); err != nil {
		a.logger.Warn("DISCORD", "Failed to acknowledge interaction", map[string]interface{}{"error": err.Error()})
		return false
	}
	return true
}

// deferralFor picks the deferred response per interaction type. A button press
// defers as an update, so every followup is a new message with its own
// visibility; a slash command defers as a private reply.
func deferralFor(t discordgo.InteractionType) *discordgo.InteractionResponse {
	if t == discordgo.InteractionMessageComponent {
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
}

func (a *Adapter) dispatch(ev chat.Event, r chat.Responder) {
	if err := a.submit.Submit(ev, r); err != nil {
		a.logger.Error("DISCORD", "Failed to submit event", map[string]interface{}{
			"user_id": ev.UserID,
			"kind":    ev.Kind,
			"error":   err.Error(),
		})
	}
}

// expire withdraws a prompt once its time is up and reports the abandonment.
func (a *Adapter) expire(expiry *chat.Expiry, channelID string, withdraw func() error) {
	time.AfterFunc(expiry.After, func() {
		if err := withdraw(); err != nil {
			a.logger.Debug("DISCORD", "Prompt already gone", map[string]interface{}{"error": err.Error()})
		}
		a.dispatch(expiry.OnExpire, &channelResponder{adapter: a, channelID: channelID})
	})
}

type channelResponder struct {
	adapter   *Adapter
	channelID string
}

func (r *channelResponder) Send(ctx context.Context, reply chat.Reply) error {
	s := r.adapter.session
	chunks := utils.SplitText(reply.Text, maxMessageRunes)

	var msg *discordgo.Message
	for i, chunk := range chunks {
		data := &discordgo.MessageSend{Content: chunk}
		// Buttons ride on the last chunk
		if i == len(chunks)-1 {
			data.Components = buildComponents(reply.Choices)
		}

		var err error
		msg, err = s.ChannelMessageSendComplex(r.channelID, data, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send channel message: %w", err)
		}
	}

	if reply.Expiry != nil {
		r.adapter.expire(reply.Expiry, r.channelID, func() error {
			return s.ChannelMessageDelete(r.channelID, msg.ID)
		})
	}
	return nil
}

type interactionResponder struct {
	adapter     *Adapter
	interaction *discordgo.Interaction
}

func (r *interactionResponder) Send(ctx context.Context, reply chat.Reply) error {
	s := r.adapter.session
	chunks := utils.SplitText(reply.Text, maxMessageRunes)

	var msg *discordgo.Message
	for i, chunk := range chunks {
		params := &discordgo.WebhookParams{Content: chunk}
		if i == len(chunks)-1 {
			params.Components = buildComponents(reply.Choices)
		}
		if reply.Ephemeral {
			params.Flags = discordgo.MessageFlagsEphemeral
		}

		var err error
		msg, err = s.FollowupMessageCreate(r.interaction, true, params, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send followup: %w", err)
		}
	}

	if reply.Expiry != nil {
		r.adapter.expire(reply.Expiry, r.interaction.ChannelID, func() error {
			return s.FollowupMessageDelete(r.interaction, msg.ID)
		})
	}
	return nil
}

func buttonStyle(style chat.ChoiceStyle) discordgo.ButtonStyle {
	switch style {
	case chat.StyleSuccess:
		return discordgo.SuccessButton
	case chat.StyleSecondary:
		return discordgo.SecondaryButton
	}
	return discordgo.PrimaryButton
}

// buildComponents lays choices out five to a row. Discord renders at most
// five rows, anything past that is dropped.
func buildComponents(choices []chat.Choice) []discordgo.MessageComponent {
	if len(choices) == 0 {
		return nil
	}

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, c := range choices {
		row = append(row, discordgo.Button{
			Label:    truncateLabel(c.Label),
			Style:    buttonStyle(c.Style),
			CustomID: c.Action.ID(),
		})
		if len(row) == maxButtonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	return rows
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= maxLabelRunes {
		return label
	}
	return string(runes[:maxLabelRunes])
}

func isMentioned(mentions []*discordgo.User, botID string) bool {
	for _, u := range mentions {
		if u != nil && u.ID == botID {
			return true
		}
	}
	return false
}

func interactionUser(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func commandFromName(name string) (chat.Command, bool) {
	switch cmd := chat.Command(name); cmd {
	case chat.CommandGenres, chat.CommandStyles, chat.CommandReload:
		return cmd, true
	}
	return "", false
}

func applicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: string(chat.CommandGenres), Description: constant.CommandDescGenres},
		{Name: string(chat.CommandStyles), Description: constant.CommandDescStyles},
		{Name: string(chat.CommandReload), Description: constant.CommandDescReload},
	}
}
