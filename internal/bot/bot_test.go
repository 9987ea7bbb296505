package bot

import (
	"context"
	"ctchen222/Hex/internal/game"
	"errors"
	"testing"
)

func TestNewComputerPlayer(t *testing.T) {
	p, err := NewComputerPlayer("AI", "")
	if err != nil {
		t.Fatalf("NewComputerPlayer failed: %v", err)
	}
	if p.Difficulty != Medium {
		t.Errorf("Expected default difficulty %s, got %s", Medium, p.Difficulty)
	}
	if p.Name != "AI" {
		t.Errorf("Expected name AI, got %s", p.Name)
	}

	if _, err := NewComputerPlayer("AI", "grandmaster"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("Expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestComputerPlayer_SelectMove(t *testing.T) {
	var _ MoveSelector = (*ComputerPlayer)(nil)

	p, err := NewComputerPlayer("AI", "hard")
	if err != nil {
		t.Fatalf("NewComputerPlayer failed: %v", err)
	}

	e, _ := game.New(5)
	for !e.IsFinished() {
		move, err := p.SelectMove(context.Background(), e)
		if err != nil {
			t.Fatalf("SelectMove failed: %v", err)
		}
		if !e.ApplyMove(move.Row, move.Col) {
			t.Fatalf("SelectMove returned illegal move %v", move)
		}
	}
	if e.Winner() == game.Empty {
		t.Error("Expected self-play to finish with a winner")
	}
}

func TestComputerPlayer_SelectMove_NoMoves(t *testing.T) {
	p, _ := NewComputerPlayer("AI", "easy")
	e, _ := game.New(3)

	if _, err := p.SelectMove(context.Background(), noMovesView{e}); !errors.Is(err, ErrNoLegalMove) {
		t.Errorf("Expected ErrNoLegalMove, got %v", err)
	}
}
