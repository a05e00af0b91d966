// Package console drives the chat flow from a terminal, one local user per process.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"food-consult-bot/internal/chat"
	"food-consult-bot/internal/pkg/logger"

	"github.com/fatih/color"
)

const ChannelID = "console"

var (
	botColor    = color.New(color.FgCyan)
	choiceColor = color.New(color.FgYellow)
	noteColor   = color.New(color.Faint)
)

type Adapter struct {
	submit chat.Submitter
	userID string
	out    io.Writer
	logger logger.ILogger

	mu      sync.Mutex
	choices []chat.Choice
	prompt  int // bumped on every prompt so stale expiries leave newer choices alone
}

func New(submit chat.Submitter, userID string, out io.Writer, log logger.ILogger) *Adapter {
	return &Adapter{
		submit: submit,
		userID: userID,
		out:    out,
		logger: log,
	}
}

// Run reads one event per line until in is exhausted or ctx is done.
//
//	@text      mention the bot
//	/genres    slash command (genres, styles, reload)
//	3          press the third button of the last prompt
//	text       plain message
func (a *Adapter) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		a.mu.Lock()
		ev, ok := ParseLine(scanner.Text(), a.userID, a.choices)
		a.mu.Unlock()
		if !ok {
			continue
		}

		if err := a.submit.Submit(ev, a); err != nil {
			a.logger.Error("CONSOLE", "Failed to submit event", map[string]interface{}{"error": err.Error()})
		}
	}
	return scanner.Err()
}

func ParseLine(line, userID string, choices []chat.Choice) (chat.Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return chat.Event{}, false
	}

	if strings.HasPrefix(line, "/") {
		cmd := chat.Command(strings.TrimPrefix(line, "/"))
		switch cmd {
		case chat.CommandGenres, chat.CommandStyles, chat.CommandReload:
			return chat.CommandEvent(userID, ChannelID, cmd), true
		}
		return chat.Event{}, false
	}

	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(choices) {
		return chat.ActionEvent(userID, ChannelID, choices[n-1].Action), true
	}

	if strings.HasPrefix(line, "@") {
		return chat.MessageEvent(userID, ChannelID, strings.TrimSpace(line[1:]), true), true
	}
	return chat.MessageEvent(userID, ChannelID, line, false), true
}

func (a *Adapter) Send(ctx context.Context, reply chat.Reply) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if reply.Ephemeral {
		noteColor.Fprint(a.out, "(only you) ")
	}
	botColor.Fprintln(a.out, reply.Text)

	if len(reply.Choices) == 0 {
		return nil
	}

	a.choices = reply.Choices
	a.prompt++
	for i, c := range reply.Choices {
		choiceColor.Fprintf(a.out, "  [%d] %s\n", i+1, c.Label)
	}

	if reply.Expiry != nil {
		a.expire(reply.Expiry, a.prompt)
	}
	return nil
}

func (a *Adapter) expire(expiry *chat.Expiry, prompt int) {
	time.AfterFunc(expiry.After, func() {
		a.mu.Lock()
		if a.prompt == prompt {
			a.choices = nil
			noteColor.Fprintln(a.out, "(prompt expired)")
		}
		a.mu.Unlock()

		if err := a.submit.Submit(expiry.OnExpire, a); err != nil {
			a.logger.Error("CONSOLE", "Failed to submit expiry", map[string]interface{}{"error": err.Error()})
		}
	})
}

// Banner prints the input help.
func (a *Adapter) Banner() {
	fmt.Fprintln(a.out, "@message mentions the bot, a number presses a button, /genres /styles /reload run commands")
}
