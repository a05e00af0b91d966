package chat

import (
	"food-consult-bot/pkg/store"
)

type EventKind string

const (
	// EventMessage is any inbound text; Mentioned tells whether the bot was addressed.
	EventMessage EventKind = "message"
	EventAction  EventKind = "action"
	EventCommand EventKind = "command"
	// EventAbandon is raised by an adapter when a stage prompt expired unanswered.
	EventAbandon EventKind = "abandon"
)

type Command string

const (
	CommandGenres Command = "genres"
	CommandStyles Command = "styles"
	CommandReload Command = "reload"
)

type Event struct {
	Kind      EventKind   `json:"kind"`
	UserID    string      `json:"user_id"`
	ChannelID string      `json:"channel_id"`
	Text      string      `json:"text,omitempty"`
	Mentioned bool        `json:"mentioned,omitempty"`
	Action    Action      `json:"action,omitempty"`
	Command   Command     `json:"command,omitempty"`
	Stage     store.Stage `json:"stage,omitempty"`
	Prompt    int         `json:"prompt,omitempty"`
}

func MessageEvent(userID, channelID, text string, mentioned bool) Event {
	return Event{Kind: EventMessage, UserID: userID, ChannelID: channelID, Text: text, Mentioned: mentioned}
}

func ActionEvent(userID, channelID string, action Action) Event {
	return Event{Kind: EventAction, UserID: userID, ChannelID: channelID, Action: action}
}

func CommandEvent(userID, channelID string, cmd Command) Event {
	return Event{Kind: EventCommand, UserID: userID, ChannelID: channelID, Command: cmd}
}

// AbandonEvent reports that the prompt numbered prompt, shown at stage, expired.
func AbandonEvent(userID, channelID string, stage store.Stage, prompt int) Event {
	return Event{Kind: EventAbandon, UserID: userID, ChannelID: channelID, Stage: stage, Prompt: prompt}
}
