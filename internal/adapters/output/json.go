// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hermesx/internal/core/domain"
)

// LoadBusinesses reads the upstream collector's JSON export. The file holds a
// flat array of records.
func LoadBusinesses(path string) ([]*domain.Business, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var records []*domain.Business
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}
	return records, nil
}

// WriteBusinesses exports the annotated records, preserving input order.
// The parent directory is created if missing.
func WriteBusinesses(path string, records []*domain.Business) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
