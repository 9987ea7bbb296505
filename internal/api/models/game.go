package models

import (
	"ctchen222/Hex/internal/player"
	"ctchen222/Hex/internal/room"
	"ctchen222/Hex/pkg/proto"
)

// CreateGameRequest defines the body of a create game request. A missing
// board size falls back to the configured default.
type CreateGameRequest struct {
	BoardSize *int           `json:"board_size"`
	Player1   player.Profile `json:"player1"`
	Player2   player.Profile `json:"player2"`
}

// MoveRequest defines the body of a human move. Coordinates are 0-based.
type MoveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// SaveRequest defines the body of a save request.
type SaveRequest struct {
	Filename string `json:"filename" binding:"max=255"`
}

// LoadRequest defines the body of a load request.
type LoadRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
}

// MoveResponse is returned after a move was applied.
type MoveResponse struct {
	Move     proto.LastMove `json:"move"`
	MoveTime float64        `json:"move_time"`
	State    room.State     `json:"state"`
}

// SaveResponse names the file a game was written to.
type SaveResponse struct {
	GameID   string `json:"game_id"`
	Filename string `json:"filename"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Time        string `json:"time"`
	Version     string `json:"version"`
	StorageType string `json:"storage_type"`
}
