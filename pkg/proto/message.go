package proto

import "ctchen222/Hex/internal/game"

// Server to client message types
const (
	TypeState    = "state"
	TypeUpdate   = "update"
	TypeFinished = "finished"
	TypeDeleted  = "deleted"
	TypeError    = "error"
)

// LastMove is the most recent placement.
type LastMove struct {
	Row  int             `json:"row"`
	Col  int             `json:"col"`
	Mark game.PlayerMark `json:"mark"`
}

// ServerToClientMessage is pushed to game watchers.
type ServerToClientMessage struct {
	Type          string              `json:"type" validate:"required,oneof=state update finished deleted error"`
	GameID        string              `json:"game_id" validate:"required"`
	Reason        string              `json:"reason,omitempty"`
	Board         [][]game.PlayerMark `json:"board,omitempty"`
	CurrentPlayer game.PlayerMark     `json:"current_player,omitempty"`
	GameState     game.GameState      `json:"game_state,omitempty"`
	Winner        game.PlayerMark     `json:"winner,omitempty"`
	LastMove      *LastMove           `json:"last_move,omitempty"`
}
