package player

import (
	"ctchen222/Hex/internal/bot"
	"errors"
	"fmt"
	"strings"
)

// Type says who makes the moves for a seat.
type Type string

const (
	Human    Type = "human"
	Computer Type = "computer"
)

var ErrInvalidProfile = errors.New("invalid player profile")

// Profile describes one of the two seats of a game.
type Profile struct {
	Type       Type   `json:"type"`
	Name       string `json:"name"`
	Difficulty string `json:"difficulty,omitempty"`
}

// DefaultProfile is the seat used when a game is created or loaded without
// player details.
func DefaultProfile(seat int) Profile {
	return Profile{Type: Human, Name: fmt.Sprintf("Player %d", seat)}
}

// Normalize fills in defaults and checks the profile. Seat is 1 or 2 and is
// only used for the default name.
func (p Profile) Normalize(seat int) (Profile, error) {
	p.Type = Type(strings.ToLower(string(p.Type)))
	switch p.Type {
	case "":
		p.Type = Human
	case Human, Computer:
	default:
		return Profile{}, fmt.Errorf("%w: unknown player type %q", ErrInvalidProfile, p.Type)
	}

	if strings.TrimSpace(p.Name) == "" {
		if p.Type == Computer {
			p.Name = fmt.Sprintf("Computer %d", seat)
		} else {
			p.Name = fmt.Sprintf("Player %d", seat)
		}
	}

	if p.Type == Human {
		p.Difficulty = ""
		return p, nil
	}

	if p.Difficulty == "" {
		p.Difficulty = string(bot.Medium)
	}
	if _, err := bot.ParseDifficulty(p.Difficulty); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return p, nil
}

// IsComputer reports whether the seat is played by the computer.
func (p Profile) IsComputer() bool {
	return p.Type == Computer
}

// ComputerPlayer builds the move selector for a computer seat.
func (p Profile) ComputerPlayer() (*bot.ComputerPlayer, error) {
	if !p.IsComputer() {
		return nil, fmt.Errorf("%w: %s is not a computer player", ErrInvalidProfile, p.Name)
	}
	return bot.NewComputerPlayer(p.Name, p.Difficulty)
}
