package main

import (
	"bufio"
	"context"
	"ctchen222/Hex/internal/bot"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/render"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultSaveName = "quick_save.json"

var (
	errQuit     = errors.New("quit")
	errReloaded = errors.New("game reloaded")
)

// session is one console game. Seats are either a human reading from in or
// a computer player.
type session struct {
	in     *bufio.Scanner
	out    io.Writer
	dir    string
	engine *game.Engine
	seats  map[game.PlayerMark]bot.MoveSelector
	names  map[game.PlayerMark]string
}

// newSession creates a console game on engine. A seat is "human" or a
// computer difficulty. Saves and loads are relative to dir.
func newSession(in io.Reader, out io.Writer, dir string, engine *game.Engine, seat1, seat2 string) (*session, error) {
	s := &session{
		in:     bufio.NewScanner(in),
		out:    out,
		dir:    dir,
		engine: engine,
		seats:  make(map[game.PlayerMark]bot.MoveSelector),
		names:  make(map[game.PlayerMark]string),
	}
	for i, seat := range []string{seat1, seat2} {
		mark := game.PlayerMark(i + 1)
		if strings.EqualFold(seat, "human") || seat == "" {
			s.names[mark] = fmt.Sprintf("Player %d", i+1)
			s.seats[mark] = &consolePlayer{s: s, name: s.names[mark]}
			continue
		}
		name := fmt.Sprintf("Computer %d", i+1)
		cp, err := bot.NewComputerPlayer(name, seat)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", i+1, err)
		}
		s.names[mark] = fmt.Sprintf("%s (%s)", name, cp.Difficulty)
		s.seats[mark] = cp
	}
	return s, nil
}

// Run plays until the game ends or a human quits.
func (s *session) Run(ctx context.Context) error {
	fmt.Fprint(s.out, render.Legend())
	s.printBoard()

	for !s.engine.IsFinished() {
		mark := s.engine.CurrentPlayer()
		pos, err := s.seats[mark].SelectMove(ctx, s.engine)
		switch {
		case errors.Is(err, errReloaded):
			s.printBoard()
			continue
		case errors.Is(err, errQuit):
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		case err != nil:
			return err
		}

		if err := s.engine.Play(pos.Row, pos.Col); err != nil {
			return err
		}
		if _, ok := s.seats[mark].(*bot.ComputerPlayer); ok {
			fmt.Fprintf(s.out, "%s plays %d %d\n", s.names[mark], pos.Row+1, pos.Col+1)
		}
		s.printBoard()
	}

	switch s.engine.State() {
	case game.PlayerAWon, game.PlayerBWon:
		w := s.engine.Winner()
		fmt.Fprintf(s.out, "%s %s wins after %d moves!\n", s.names[w], render.Symbols[w], s.engine.MoveCount())
	default:
		fmt.Fprintln(s.out, "Draw.")
	}
	return nil
}

func (s *session) printBoard() {
	fmt.Fprint(s.out, render.Rhombus(s.engine.Board()))
	if !s.engine.IsFinished() {
		mark := s.engine.CurrentPlayer()
		fmt.Fprintf(s.out, "Move %d, %s %s to play\n", s.engine.MoveCount()+1, s.names[mark], render.Symbols[mark])
	}
}

func (s *session) path(name string) string {
	name = filepath.Base(name)
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(s.dir, name)
}

// consolePlayer reads moves and commands for a human seat.
type consolePlayer struct {
	s    *session
	name string
}

func (p *consolePlayer) SelectMove(ctx context.Context, view game.View) (game.Position, error) {
	s := p.s
	for {
		if err := ctx.Err(); err != nil {
			return game.Position{}, err
		}
		fmt.Fprintf(s.out, "%s, enter a move (row col) or a command: ", p.name)
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return game.Position{}, fmt.Errorf("failed to read input: %w", err)
			}
			return game.Position{}, errQuit
		}

		fields := strings.Fields(strings.ToLower(s.in.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help", "h", "?":
			fmt.Fprint(s.out, helpText)
			continue
		case "rules":
			fmt.Fprint(s.out, rulesText)
			continue
		case "board":
			s.printBoard()
			continue
		case "quit", "exit", "q":
			return game.Position{}, errQuit
		case "save":
			name := defaultSaveName
			if len(fields) > 1 {
				name = fields[1]
			}
			if err := game.SaveFile(s.path(name), s.engine); err != nil {
				fmt.Fprintf(s.out, "Save failed: %v\n", err)
			} else {
				fmt.Fprintf(s.out, "Game saved to %s\n", s.path(name))
			}
			continue
		case "load":
			if len(fields) < 2 {
				fmt.Fprintln(s.out, "Usage: load <file>")
				continue
			}
			loaded, err := game.LoadFile(s.path(fields[1]))
			if err != nil {
				fmt.Fprintf(s.out, "Load failed: %v\n", err)
				continue
			}
			s.engine = loaded
			fmt.Fprintf(s.out, "Game loaded from %s\n", s.path(fields[1]))
			return game.Position{}, errReloaded
		}

		if len(fields) != 2 {
			fmt.Fprintln(s.out, "Enter exactly two numbers separated by a space, or one of: help, rules, save, load, board, quit")
			continue
		}
		row, rerr := strconv.Atoi(fields[0])
		col, cerr := strconv.Atoi(fields[1])
		if rerr != nil || cerr != nil {
			fmt.Fprintln(s.out, "Enter valid numbers or a command (help)")
			continue
		}
		row, col = row-1, col-1

		size := view.Size()
		if row < 0 || row >= size || col < 0 || col >= size {
			fmt.Fprintf(s.out, "Coordinates must be between 1 and %d\n", size)
			continue
		}
		if view.At(row, col) != game.Empty {
			fmt.Fprintln(s.out, "That cell is already taken")
			continue
		}
		return game.Position{Row: row, Col: col}, nil
	}
}

const helpText = `
Moves:
  <row> <col>        place a stone, e.g. "5 7" (1-indexed)
Commands:
  help, h, ?         show this help
  rules              show the rules
  save [file]        save the game (default quick_save.json)
  load <file>        load a saved game, replacing this one
  board              show the board
  quit, exit, q      leave the game
`

const rulesText = `
HEX
  Player 1 (●) connects the top and bottom edges.
  Player 2 (○) connects the left and right edges.
  Players take turns placing one stone on any empty cell.
  Every cell touches up to six neighbours.
  The first player with an unbroken chain between their edges wins.
  A full board always has a winner.
`
