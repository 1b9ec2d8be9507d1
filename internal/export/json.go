// Package export writes processed records to JSON, CSV, and sqlite
// targets.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/grobinson/webminer/internal/record"
)

// JSON writes records to path as an indented JSON array.
func JSON(records []record.Record, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
