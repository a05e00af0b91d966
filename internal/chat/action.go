package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ActionKind is the closed set of interactive affordances the bot renders.
type ActionKind string

const (
	ActionBuy          ActionKind = "buy"
	ActionCook         ActionKind = "cook"
	ActionConsult      ActionKind = "consult"
	ActionGenreChosen  ActionKind = "genre"
	ActionStyleChosen  ActionKind = "style"
	ActionRequestNone  ActionKind = "request_none"
	ActionRecipeWanted ActionKind = "recipe"
	ActionDetailWanted ActionKind = "detail"
)

// Discord caps custom ids at 100 characters.
const maxActionIDBytes = 100

// An arg too long for the id is parked behind a short key with this prefix.
const parkedArgPrefix = "@"

// ParkedArgTTL bounds how long a result button with a parked arg stays usable.
const ParkedArgTTL = 24 * time.Hour

var ErrActionExpired = errors.New("action argument expired")

var parkedArgs = cache.New(ParkedArgTTL, time.Hour)

// Action is a button press. Arg carries the genre/style code or the dish name.
type Action struct {
	Kind ActionKind `json:"kind"`
	Arg  string     `json:"arg,omitempty"`
}

func Buy() Action { return Action{Kind: ActionBuy} }

func Cook() Action { return Action{Kind: ActionCook} }

func Consult() Action { return Action{Kind: ActionConsult} }

func RequestNone() Action { return Action{Kind: ActionRequestNone} }

func GenreChosen(code string) Action { return Action{Kind: ActionGenreChosen, Arg: code} }

func StyleChosen(code string) Action { return Action{Kind: ActionStyleChosen, Arg: code} }

func RecipeWanted(food string) Action { return Action{Kind: ActionRecipeWanted, Arg: food} }

func DetailWanted(food string) Action { return Action{Kind: ActionDetailWanted, Arg: food} }

func (k ActionKind) takesArg() bool {
	switch k {
	case ActionGenreChosen, ActionStyleChosen, ActionRecipeWanted, ActionDetailWanted:
		return true
	}
	return false
}

func (k ActionKind) valid() bool {
	switch k {
	case ActionBuy, ActionCook, ActionConsult, ActionRequestNone:
		return true
	}
	return k.takesArg()
}

// ID encodes the action as an opaque button id, "kind" or "kind:arg". Args
// that would not fit are parked and the id carries their key instead.
func (a Action) ID() string {
	if !a.Kind.takesArg() {
		return string(a.Kind)
	}
	id := string(a.Kind) + ":" + a.Arg
	if len(id) <= maxActionIDBytes && !strings.HasPrefix(a.Arg, parkedArgPrefix) {
		return id
	}

	key := uuid.NewString()
	parkedArgs.Set(key, a.Arg, cache.DefaultExpiration)
	return string(a.Kind) + ":" + parkedArgPrefix + key
}

func ParseAction(id string) (Action, error) {
	kind, arg, _ := strings.Cut(id, ":")
	a := Action{Kind: ActionKind(kind), Arg: arg}

	if !a.Kind.valid() {
		return Action{}, fmt.Errorf("unknown action %q", id)
	}
	if a.Kind.takesArg() && arg == "" {
		return Action{}, fmt.Errorf("action %q needs an argument", kind)
	}
	if !a.Kind.takesArg() {
		a.Arg = ""
		return a, nil
	}

	if key, parked := strings.CutPrefix(arg, parkedArgPrefix); parked {
		x, found := parkedArgs.Get(key)
		if !found {
			return Action{}, fmt.Errorf("action %q: %w", kind, ErrActionExpired)
		}
		a.Arg = x.(string)
	}
	return a, nil
}
