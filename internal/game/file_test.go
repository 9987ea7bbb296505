package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadFile(t *testing.T) {
	e, _ := New(4)
	e.ApplyMove(0, 0)
	e.ApplyMove(3, 3)
	e.ApplyMove(1, 2)

	path := filepath.Join(t.TempDir(), "game.json")
	if err := SaveFile(path, e); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.MoveCount() != 3 || loaded.At(1, 2) != PlayerA || loaded.CurrentPlayer() != PlayerB {
		t.Errorf("Loaded game does not match saved game: moves=%d current=%s", loaded.MoveCount(), loaded.CurrentPlayer())
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"board_size": 3, "moves": [[0,0,2]], "current_player": 1, "game_state": "in_progress"}`), 0o644)
	if _, err := LoadFile(bad); !errors.Is(err, ErrMalformedState) {
		t.Errorf("Expected ErrMalformedState, got %v", err)
	}

	junk := filepath.Join(dir, "junk.json")
	os.WriteFile(junk, []byte(`{not json`), 0o644)
	if _, err := LoadFile(junk); !errors.Is(err, ErrMalformedState) {
		t.Errorf("Expected ErrMalformedState for broken JSON, got %v", err)
	}

	big := filepath.Join(dir, "big.json")
	os.WriteFile(big, []byte(`{"board_size": 40, "moves": [], "current_player": 1, "game_state": "in_progress"}`), 0o644)
	if _, err := LoadFile(big); !errors.Is(err, ErrInvalidBoardSize) {
		t.Errorf("Expected ErrInvalidBoardSize, got %v", err)
	}
}
