package advisory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads an advisory database file and builds an Index from it.
// The format is chosen by file extension: .json, .yml/.yaml, or
// .db/.sqlite for a pre-built SQLite database.
func Load(path string) (*Index, error) {
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path)
	default:
		return LoadFile(path)
	}
}

// LoadFile reads a JSON or YAML advisory database document.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read advisory database: %w", err)
	}

	var db Database
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &db); err != nil {
			return nil, fmt.Errorf("decode advisory database %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &db); err != nil {
			return nil, fmt.Errorf("decode advisory database %s: %w", path, err)
		}
	}

	return NewIndex(db)
}
