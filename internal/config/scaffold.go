package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scaffold prepares dir for tracking: it writes pokertrack.toml, creates
// the data/ directory and makes sure .gitignore excludes the data files and
// .env. Files that already exist are left untouched. Returns the list of
// created or modified paths.
func Scaffold(dir string) ([]string, error) {
	var created []string

	// pokertrack.toml
	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	// data/ directory
	dataDir := filepath.Join(dir, "data")
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dataDir, 0755); mkErr != nil {
			return created, fmt.Errorf("scaffold: create %s: %w", dataDir, mkErr)
		}
		created = append(created, dataDir)
	}

	// .gitignore
	gitignorePath := filepath.Join(dir, ".gitignore")
	changed, err := ensureLines(gitignorePath, []string{"data/", ".env"})
	if err != nil {
		return created, err
	}
	if changed {
		created = append(created, gitignorePath)
	}

	return created, nil
}

// ensureLines appends each missing entry to the file at path, creating it if
// needed. Reports whether the file was written.
func ensureLines(path string, entries []string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("scaffold: read %s: %w", path, err)
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(existing), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	content := string(existing)
	added := false
	for _, e := range entries {
		if present[e] {
			continue
		}
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += e + "\n"
		added = true
	}
	if !added {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("scaffold: write %s: %w", path, err)
	}
	return true, nil
}
