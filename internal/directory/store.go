package directory

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Load reads the persisted snapshot. A missing file is a legitimate
// first-run state and returns (nil, nil), never an error.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[directory] No snapshot at %s, starting empty", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var dir Directory
	if err := json.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	// Older snapshots may predate the centre/top-level sections.
	if dir.Faculties == nil {
		dir.Faculties = map[string]*Faculty{}
	}
	if dir.ResearchCentres == nil {
		dir.ResearchCentres = map[string]*ResearchCentre{}
	}
	if dir.TopLevelDepartments == nil {
		dir.TopLevelDepartments = map[string]*TopLevelDepartment{}
	}
	return &dir, nil
}

// Save persists the snapshot atomically: the JSON is written to a temp
// file in the same directory and renamed over the target, so readers never
// observe a half-written snapshot.
func Save(path string, dir *Directory) error {
	data, err := json.MarshalIndent(dir, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
