package bot

import (
	"context"
	"ctchen222/Hex/internal/game"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("bot")

// MoveSelector is anything that can choose a move for the player to move:
// a computer player or a human move source.
type MoveSelector interface {
	SelectMove(ctx context.Context, view game.View) (game.Position, error)
}

// ComputerPlayer is a MoveSelector backed by one of the difficulty policies.
type ComputerPlayer struct {
	Name       string
	Difficulty Difficulty

	selectDuration metric.Float64Histogram
}

// NewComputerPlayer creates a computer player. An empty difficulty defaults
// to medium.
func NewComputerPlayer(name string, difficulty string) (*ComputerPlayer, error) {
	if difficulty == "" {
		difficulty = string(Medium)
	}
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	hist, err := meter.Float64Histogram("hex.ai.select.duration",
		metric.WithDescription("Time spent choosing a computer move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai duration histogram: %w", err)
	}

	return &ComputerPlayer{Name: name, Difficulty: d, selectDuration: hist}, nil
}

// SelectMove returns a legal move for the current player of view.
func (p *ComputerPlayer) SelectMove(ctx context.Context, view game.View) (game.Position, error) {
	start := time.Now()
	move, err := CalculateNextMove(view, p.Difficulty)
	elapsed := time.Since(start)

	p.selectDuration.Record(ctx, float64(elapsed.Microseconds())/1000,
		metric.WithAttributes(attribute.String("bot.difficulty", string(p.Difficulty))))

	if err != nil {
		return game.Position{}, err
	}
	slog.DebugContext(ctx, "Computer player chose a move",
		"bot.name", p.Name, "bot.difficulty", p.Difficulty,
		"move.row", move.Row, "move.col", move.Col, "elapsed", elapsed)
	return move, nil
}

func (p *ComputerPlayer) String() string {
	return fmt.Sprintf("ComputerPlayer(%s, %s)", p.Name, p.Difficulty)
}
