package store

import (
	"strings"
	"time"
)

// Stage is the position of a session in the fixed consult dialogue.
type Stage int

const (
	StageStart Stage = iota
	StageAwaitingGenre
	StageAwaitingStyle
	StageAwaitingRequest
	StageResolving
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "START"
	case StageAwaitingGenre:
		return "AWAITING_GENRE"
	case StageAwaitingStyle:
		return "AWAITING_STYLE"
	case StageAwaitingRequest:
		return "AWAITING_REQUEST"
	case StageResolving:
		return "RESOLVING"
	case StageDone:
		return "DONE"
	}
	return "UNKNOWN"
}

// Session represents the active conversational state of one user in memory
type Session struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Stage     Stage  `json:"stage"`

	// Set once chosen, never overwritten within a session
	GenreCode string `json:"genre_code,omitempty"`
	StyleCode string `json:"style_code,omitempty"`

	// nil means "no preference"
	RequestText *string `json:"request_text,omitempty"`
	// True once the request stage has been answered (by text or by the none button)
	RequestSet bool `json:"request_set"`

	// An initial prompt was already sent for this mention
	Responded bool `json:"responded"`
	// Bumped on every stage prompt; an expiry only counts for the prompt it was stamped with
	PromptSeq int `json:"prompt_seq"`

	CreatedAt time.Time `json:"created_at"`
}

// InConsult reports whether the user has entered the multi-step consult dialogue.
func (s *Session) InConsult() bool {
	return s.Stage >= StageAwaitingGenre
}

// AwaitsReply reports whether the next free-text message should be captured as the request.
func (s *Session) AwaitsReply() bool {
	return s.Stage == StageAwaitingRequest && s.GenreCode != "" && s.StyleCode != "" && !s.RequestSet
}

// Clone returns a copy safe to hand out of the session table.
func (s *Session) Clone() *Session {
	c := *s
	if s.RequestText != nil {
		t := *s.RequestText
		c.RequestText = &t
	}
	return &c
}

// NormalizeRequest folds blank input and the explicit "nothing" answers into nil.
func NormalizeRequest(text string) *string {
	trimmed := strings.TrimSpace(text)
	switch strings.ToLower(trimmed) {
	case "", "なし", "none":
		return nil
	}
	return &trimmed
}
