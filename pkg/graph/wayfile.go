package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadWays decodes a JSON array of ways from a reader.
func LoadWays(r io.Reader) ([]Way, error) {
	var ways []Way
	if err := json.NewDecoder(r).Decode(&ways); err != nil {
		return nil, fmt.Errorf("decoding ways: %w", err)
	}
	return ways, nil
}

// LoadWaysFile reads a ways JSON file from disk.
func LoadWaysFile(path string) ([]Way, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ways file %s: %w", path, err)
	}
	defer f.Close()
	return LoadWays(f)
}
