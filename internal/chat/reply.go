package chat

import (
	"context"
	"time"
)

type ChoiceStyle int

const (
	StylePrimary ChoiceStyle = iota
	StyleSuccess
	StyleSecondary
)

type Choice struct {
	Label  string
	Action Action
	Style  ChoiceStyle
}

// Expiry asks the adapter to withdraw the prompt after a while and report OnExpire.
type Expiry struct {
	After    time.Duration
	OnExpire Event
}

type Reply struct {
	Text      string
	Choices   []Choice
	Ephemeral bool // only the addressed user sees it, where the platform supports that
	Expiry    *Expiry
}

// Responder delivers replies for one inbound event.
type Responder interface {
	Send(ctx context.Context, reply Reply) error
}

// Handler consumes inbound events. Implementations report failures to the
// user through the responder and never return them.
type Handler interface {
	Handle(ctx context.Context, ev Event, r Responder)
}

// Submitter accepts inbound events from an adapter.
type Submitter interface {
	Submit(ev Event, r Responder) error
}
