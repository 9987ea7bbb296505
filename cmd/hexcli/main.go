package main

import (
	"context"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/logger"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
)

func main() {
	size := flag.Int("size", 11, "board size (3-25)")
	p1 := flag.String("p1", "human", "player 1: human, easy, medium or hard")
	p2 := flag.String("p2", "medium", "player 2: human, easy, medium or hard")
	load := flag.String("load", "", "saved game to continue")
	dir := flag.String("dir", ".", "directory for save and load")
	debug := flag.Bool("debug", false, "log computer player decisions")
	flag.Parse()

	if *debug {
		logger.Init(true)
	}

	var (
		engine *game.Engine
		err    error
	)
	if *load != "" {
		engine, err = game.LoadFile(*load)
	} else {
		engine, err = game.New(*size)
	}
	if err != nil {
		log.Fatalf("failed to start game: %v", err)
	}

	s, err := newSession(os.Stdin, os.Stdout, *dir, engine, *p1, *p2)
	if err != nil {
		log.Fatalf("invalid player: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("HEX")
	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("game error: %v", err)
	}
}
