package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// SaveFile writes the engine's snapshot to path as indented JSON.
func SaveFile(path string, e *Engine) error {
	data, err := json.MarshalIndent(e.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode game: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write game file %s: %w", path, err)
	}
	return nil
}

// LoadFile restores an engine from a snapshot file written by SaveFile.
func LoadFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game file %s: %w", path, err)
	}
	var e Engine
	if err := json.Unmarshal(data, &e); err != nil {
		if errors.Is(err, ErrMalformedState) || errors.Is(err, ErrInvalidBoardSize) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}
	return &e, nil
}
