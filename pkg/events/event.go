package events

import "time"

const (
	// TypeFoodSuggested fires for every successful quick pick.
	TypeFoodSuggested = "FOOD_SUGGESTED"
	// TypeConsultResolved fires once a consult produced a dish and its history row.
	TypeConsultResolved = "CONSULT_RESOLVED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "FOOD_SUGGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewFoodSuggested(userID, foodType, food string) BaseEvent {
	return BaseEvent{
		Type: TypeFoodSuggested,
		Data: map[string]interface{}{
			"user_id":   userID,
			"food_type": foodType,
			"food":      food,
		},
		OccurredAt: time.Now(),
	}
}

func NewConsultResolved(userID, genre, style string, request *string, food, source string) BaseEvent {
	data := map[string]interface{}{
		"user_id": userID,
		"genre":   genre,
		"style":   style,
		"food":    food,
		"source":  source,
	}
	if request != nil {
		data["request_text"] = *request
	}

	return BaseEvent{
		Type:       TypeConsultResolved,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
