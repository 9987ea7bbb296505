package events

import (
	"context"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/player"
	"encoding/json"
	"fmt"
	"time"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	GameCreated  = "game_created"
	MoveMade     = "move_made"
	GameFinished = "game_finished"
	GameDeleted  = "game_deleted"
)

// Event represents a game event published to every listener.
type Event struct {
	Type      string          `json:"event"`
	GameID    string          `json:"game_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent builds an event with payload encoded as JSON.
func NewEvent(eventType, gameID string, payload any) (Event, error) {
	ev := Event{Type: eventType, GameID: gameID, Timestamp: time.Now().UTC()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
		}
		ev.Payload = data
	}
	return ev, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}

// GameCreatedPayload is the payload for the "game_created" event.
type GameCreatedPayload struct {
	BoardSize int            `json:"board_size"`
	Player1   player.Profile `json:"player1"`
	Player2   player.Profile `json:"player2"`
}

// MoveMadePayload is the payload for the "move_made" event.
type MoveMadePayload struct {
	Row           int                 `json:"row"`
	Col           int                 `json:"col"`
	Mark          game.PlayerMark     `json:"mark"`
	Board         [][]game.PlayerMark `json:"board"`
	CurrentPlayer game.PlayerMark     `json:"current_player"`
	GameState     game.GameState      `json:"game_state"`
	MoveCount     int                 `json:"moves_count"`
}

// GameFinishedPayload is the payload for the "game_finished" event.
type GameFinishedPayload struct {
	GameState  game.GameState  `json:"game_state"`
	Winner     game.PlayerMark `json:"winner"`
	WinnerName string          `json:"winner_name,omitempty"`
	TotalMoves int             `json:"total_moves"`
}

// Broker distributes events to subscribers.
type Broker interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe returns a channel of events and a function that ends the
	// subscription and closes the channel.
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
}
