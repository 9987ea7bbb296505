package room

import (
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/player"
	"ctchen222/Hex/internal/render"
	"time"
)

// State is the full state of a game as shown to clients.
type State struct {
	GameID          string              `json:"game_id"`
	BoardSize       int                 `json:"board_size"`
	Board           [][]game.PlayerMark `json:"board"`
	CurrentPlayer   game.PlayerMark     `json:"current_player"`
	GameState       game.GameState      `json:"game_state"`
	Winner          *int                `json:"winner"`
	MovesCount      int                 `json:"moves_count"`
	EmptyCellsCount int                 `json:"empty_cells_count"`
	Player1         player.Profile      `json:"player1"`
	Player2         player.Profile      `json:"player2"`
	CreatedAt       time.Time           `json:"created_at"`
	LastMoveAt      time.Time           `json:"last_move_at"`
	IsFinished      bool                `json:"is_finished"`
}

// BoardView is the board in raw, symbol and text form.
type BoardView struct {
	GameID        string              `json:"game_id"`
	BoardSize     int                 `json:"board_size"`
	BoardRaw      [][]game.PlayerMark `json:"board_raw"`
	BoardDisplay  [][]string          `json:"board_display"`
	BoardText     string              `json:"board_text"`
	CurrentPlayer game.PlayerMark     `json:"current_player"`
	GameState     game.GameState      `json:"game_state"`
	EmptyCells    []game.Position     `json:"empty_cells"`
}

// Stats are timing statistics of one game. Times are in seconds.
type Stats struct {
	GameID          string  `json:"game_id"`
	TotalMoves      int     `json:"total_moves"`
	AverageMoveTime float64 `json:"average_move_time"`
	FastestMove     float64 `json:"fastest_move"`
	SlowestMove     float64 `json:"slowest_move"`
	TotalGameTime   float64 `json:"total_game_time"`
	MovesPerMinute  float64 `json:"moves_per_minute"`
	Watchers        int     `json:"watchers"`
}

// State returns the current state of the game.
func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state()
}

func (r *Room) state() State {
	var winner *int
	if w := r.engine.Winner(); w != game.Empty {
		n := int(w)
		winner = &n
	}
	return State{
		GameID:          r.ID,
		BoardSize:       r.engine.Size(),
		Board:           r.engine.Board(),
		CurrentPlayer:   r.engine.CurrentPlayer(),
		GameState:       r.engine.State(),
		Winner:          winner,
		MovesCount:      r.engine.MoveCount(),
		EmptyCellsCount: len(r.engine.EmptyCells()),
		Player1:         r.Player1,
		Player2:         r.Player2,
		CreatedAt:       r.createdAt,
		LastMoveAt:      r.lastMoveAt,
		IsFinished:      r.engine.IsFinished(),
	}
}

// Board returns the visual forms of the board.
func (r *Room) Board() BoardView {
	r.mu.Lock()
	defer r.mu.Unlock()

	board := r.engine.Board()
	return BoardView{
		GameID:        r.ID,
		BoardSize:     r.engine.Size(),
		BoardRaw:      board,
		BoardDisplay:  render.SymbolGrid(board),
		BoardText:     render.Rhombus(board),
		CurrentPlayer: r.engine.CurrentPlayer(),
		GameState:     r.engine.State(),
		EmptyCells:    r.engine.EmptyCells(),
	}
}

// Stats returns the timing statistics of the game.
func (r *Room) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{GameID: r.ID, TotalMoves: len(r.moveDurations)}
	if len(r.moveDurations) > 0 {
		var total time.Duration
		fastest, slowest := r.moveDurations[0], r.moveDurations[0]
		for _, d := range r.moveDurations {
			total += d
			fastest = min(fastest, d)
			slowest = max(slowest, d)
		}
		s.AverageMoveTime = total.Seconds() / float64(len(r.moveDurations))
		s.FastestMove = fastest.Seconds()
		s.SlowestMove = slowest.Seconds()
	}

	gameTime := r.lastMoveAt.Sub(r.createdAt)
	s.TotalGameTime = gameTime.Seconds()
	s.MovesPerMinute = float64(s.TotalMoves) / max(1, gameTime.Minutes())
	return s
}

// MoveDurations returns a copy of the recorded move durations.
func (r *Room) MoveDurations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.moveDurations...)
}

// Summary is the short form of a game used in listings.
type Summary struct {
	GameID        string          `json:"game_id"`
	BoardSize     int             `json:"board_size"`
	GameState     game.GameState  `json:"game_state"`
	MovesCount    int             `json:"moves_count"`
	CurrentPlayer game.PlayerMark `json:"current_player"`
	Player1       player.Profile  `json:"player1"`
	Player2       player.Profile  `json:"player2"`
	CreatedAt     time.Time       `json:"created_at"`
	LastMoveAt    time.Time       `json:"last_move_at"`
	InMemory      bool            `json:"in_memory"`
}

// Summary returns the listing form of the game.
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		GameID:        r.ID,
		BoardSize:     r.engine.Size(),
		GameState:     r.engine.State(),
		MovesCount:    r.engine.MoveCount(),
		CurrentPlayer: r.engine.CurrentPlayer(),
		Player1:       r.Player1,
		Player2:       r.Player2,
		CreatedAt:     r.createdAt,
		LastMoveAt:    r.lastMoveAt,
	}
}
