package game

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Snapshot is the persisted form of an engine. Moves is authoritative;
// Board is carried for readers and only checked against the replay.
type Snapshot struct {
	BoardSize     int       `json:"board_size"`
	Board         [][]int   `json:"board,omitempty"`
	CurrentPlayer int       `json:"current_player"`
	Moves         [][3]int  `json:"moves"`
	GameState     GameState `json:"game_state"`
	Winner        *int      `json:"winner"`
}

// Snapshot captures the engine state.
func (e *Engine) Snapshot() *Snapshot {
	moves := make([][3]int, len(e.moves))
	for i, m := range e.moves {
		moves[i] = [3]int{m.Row, m.Col, int(m.Mark)}
	}
	var winner *int
	if e.winner != Empty {
		w := int(e.winner)
		winner = &w
	}
	return &Snapshot{
		BoardSize:     e.board.size,
		Board:         e.board.IntRows(),
		CurrentPlayer: int(e.currentTurn),
		Moves:         moves,
		GameState:     e.state,
		Winner:        winner,
	}
}

// Restore rebuilds an engine by replaying the snapshot's move log on an empty
// board. Any inconsistency between the log and the recorded board, turn,
// state or winner is reported as ErrMalformedState. A missing board is fine.
func Restore(s *Snapshot) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: empty snapshot", ErrMalformedState)
	}
	e, err := New(s.BoardSize)
	if err != nil {
		return nil, err
	}

	for i, m := range s.Moves {
		row, col, mark := m[0], m[1], PlayerMark(m[2])
		if !mark.Valid() {
			return nil, fmt.Errorf("%w: move %d has mark %d", ErrMalformedState, i, m[2])
		}
		if e.IsFinished() {
			return nil, fmt.Errorf("%w: move %d played after the game ended", ErrMalformedState, i)
		}
		if mark != e.currentTurn {
			return nil, fmt.Errorf("%w: move %d played out of turn by %s", ErrMalformedState, i, mark)
		}
		if err := e.Play(row, col); err != nil {
			return nil, fmt.Errorf("%w: move %d at (%d,%d): %v", ErrMalformedState, i, row, col, err)
		}
	}

	if s.Board != nil && !slices.EqualFunc(s.Board, e.board.IntRows(), func(a, b []int) bool { return slices.Equal(a, b) }) {
		return nil, fmt.Errorf("%w: recorded board does not match the move log", ErrMalformedState)
	}
	if s.GameState != e.state {
		return nil, fmt.Errorf("%w: recorded state %q, replay gives %q", ErrMalformedState, s.GameState, e.state)
	}
	if PlayerMark(s.CurrentPlayer) != e.currentTurn {
		return nil, fmt.Errorf("%w: recorded current player %d, replay gives %d", ErrMalformedState, s.CurrentPlayer, e.currentTurn)
	}
	recordedWinner := Empty
	if s.Winner != nil {
		recordedWinner = PlayerMark(*s.Winner)
	}
	if recordedWinner != e.winner {
		return nil, fmt.Errorf("%w: recorded winner %d, replay gives %d", ErrMalformedState, recordedWinner, e.winner)
	}
	return e, nil
}

// MarshalJSON encodes the engine as its snapshot.
func (e *Engine) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Snapshot())
}

// UnmarshalJSON replaces the engine with the one restored from a snapshot.
func (e *Engine) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	restored, err := Restore(&s)
	if err != nil {
		return err
	}
	*e = *restored
	return nil
}
