package service

import (
	"context"
	"ctchen222/Hex/internal/api/models"
	"ctchen222/Hex/internal/hub"
	"ctchen222/Hex/internal/repository"
	"ctchen222/Hex/internal/room"
	"ctchen222/Hex/pkg/proto"
)

// GameService defines the game operations exposed over the API.
type GameService interface {
	CreateGame(ctx context.Context, req *models.CreateGameRequest) (room.State, error)
	ListGames(ctx context.Context) []room.Summary
	GetGame(ctx context.Context, id string) (room.State, error)
	DeleteGame(ctx context.Context, id string) error
	MakeMove(ctx context.Context, id string, row, col int) (*models.MoveResponse, error)
	MakeComputerMove(ctx context.Context, id string) (*models.MoveResponse, error)
	Board(ctx context.Context, id string) (room.BoardView, error)
	Save(ctx context.Context, id, filename string) (*models.SaveResponse, error)
	Load(ctx context.Context, filename string) (room.State, error)
	GameStats(ctx context.Context, id string) (room.Stats, error)
	GlobalStats(ctx context.Context) hub.GlobalStats
	Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error)
}

type gameService struct {
	hub         *hub.Hub
	defaultSize int
}

// NewGameService creates a GameService backed by h. Games created without a
// board size use defaultSize.
func NewGameService(h *hub.Hub, defaultSize int) GameService {
	return &gameService{hub: h, defaultSize: defaultSize}
}

func (s *gameService) CreateGame(ctx context.Context, req *models.CreateGameRequest) (room.State, error) {
	size := s.defaultSize
	if req.BoardSize != nil {
		size = *req.BoardSize
	}
	r, err := s.hub.CreateGame(ctx, size, req.Player1, req.Player2)
	if err != nil {
		return room.State{}, err
	}
	return r.State(), nil
}

func (s *gameService) ListGames(ctx context.Context) []room.Summary {
	return s.hub.ListGames(ctx)
}

func (s *gameService) GetGame(ctx context.Context, id string) (room.State, error) {
	r, err := s.hub.Room(ctx, id)
	if err != nil {
		return room.State{}, err
	}
	return r.State(), nil
}

func (s *gameService) DeleteGame(ctx context.Context, id string) error {
	return s.hub.DeleteGame(ctx, id)
}

func (s *gameService) MakeMove(ctx context.Context, id string, row, col int) (*models.MoveResponse, error) {
	res, err := s.hub.MakeMove(ctx, id, row, col)
	if err != nil {
		return nil, err
	}
	return moveResponse(res), nil
}

func (s *gameService) MakeComputerMove(ctx context.Context, id string) (*models.MoveResponse, error) {
	res, err := s.hub.MakeComputerMove(ctx, id)
	if err != nil {
		return nil, err
	}
	return moveResponse(res), nil
}

func (s *gameService) Board(ctx context.Context, id string) (room.BoardView, error) {
	return s.hub.Board(ctx, id)
}

func (s *gameService) Save(ctx context.Context, id, filename string) (*models.SaveResponse, error) {
	name, err := s.hub.SaveToFile(ctx, id, filename)
	if err != nil {
		return nil, err
	}
	return &models.SaveResponse{GameID: id, Filename: name}, nil
}

func (s *gameService) Load(ctx context.Context, filename string) (room.State, error) {
	r, err := s.hub.LoadFromFile(ctx, filename)
	if err != nil {
		return room.State{}, err
	}
	return r.State(), nil
}

func (s *gameService) GameStats(ctx context.Context, id string) (room.Stats, error) {
	return s.hub.GameStats(ctx, id)
}

func (s *gameService) GlobalStats(ctx context.Context) hub.GlobalStats {
	return s.hub.GlobalStats(ctx)
}

func (s *gameService) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	return s.hub.Leaderboard(ctx, limit)
}

func moveResponse(res *room.MoveResult) *models.MoveResponse {
	return &models.MoveResponse{
		Move:     proto.LastMove{Row: res.Move.Row, Col: res.Move.Col, Mark: res.Move.Mark},
		MoveTime: res.Duration.Seconds(),
		State:    res.State,
	}
}
