// Package storage provides persistent storage for engine preferences and match statistics.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
)

const appName = "othelloplay"

// HomeEnv overrides the data directory when set.
const HomeEnv = "OTHELLOPLAY_HOME"

// dataHomes describes where each platform keeps per-user application data:
// an environment variable to honor first, then a path below the home directory.
var dataHomes = map[string]struct {
	env      string
	fallback []string
}{
	"darwin":  {"", []string{"Library", "Application Support"}},
	"windows": {"APPDATA", []string{"AppData", "Roaming"}},
	"":        {"XDG_DATA_HOME", []string{".local", "share"}},
}

// baseDir returns the per-user data root for goos, before appName is added.
func baseDir(goos string) (string, error) {
	loc, ok := dataHomes[goos]
	if !ok {
		loc = dataHomes[""]
	}
	if loc.env != "" {
		if dir := os.Getenv(loc.env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate data directory: %w", err)
	}
	return filepath.Join(append([]string{home}, loc.fallback...)...), nil
}

// dataPath returns a directory below the application data directory,
// creating it if needed.
func dataPath(elem ...string) (string, error) {
	root := os.Getenv(HomeEnv)
	if root == "" {
		base, err := baseDir(runtime.GOOS)
		if err != nil {
			return "", err
		}
		root = filepath.Join(base, appName)
	}

	dir := filepath.Join(append([]string{root}, elem...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// GetDataDir returns the application data directory: $OTHELLOPLAY_HOME if
// set, otherwise othelloplay below the platform's per-user data root.
func GetDataDir() (string, error) {
	return dataPath()
}

// GetBookDir returns the directory for compiled opening books.
func GetBookDir() (string, error) {
	return dataPath("book")
}

// GetDatabaseDir returns the directory holding the badger database.
func GetDatabaseDir() (string, error) {
	dir, err := dataPath("db")
	if err == nil {
		log.Debug().Str("dir", dir).Msg("database directory")
	}
	return dir, err
}
