package storage

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Strategy != "heuristic" || prefs.Tier != 2 {
			t.Errorf("Expected heuristic tier 2, got %s tier %d", prefs.Strategy, prefs.Tier)
		}
		if prefs.UseBook {
			t.Errorf("Expected book disabled by default")
		}
	})

	t.Run("NewPlayerStats", func(t *testing.T) {
		stats := NewPlayerStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &PlayerStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		if rate := stats.GetWinRate(); rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
		if score := stats.Score(); score != 6 {
			t.Errorf("Expected score 6, got %v", score)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTemp(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.Strategy != DefaultPreferences().Strategy {
		t.Errorf("fresh database strategy = %q", prefs.Strategy)
	}

	prefs.Strategy = "exact"
	prefs.Tier = 3
	prefs.UseBook = true
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.Strategy != "exact" || got.Tier != 3 || !got.UseBook {
		t.Errorf("loaded %+v", got)
	}
}

func TestRecordMatch(t *testing.T) {
	s := openTemp(t)

	results := []MatchResult{
		{Black: "heuristic", White: "random", Margin: 30, Duration: time.Second},
		{Black: "random", White: "heuristic", Margin: -12, Duration: time.Second},
		{Black: "heuristic", White: "random", Margin: 0, Duration: time.Second},
	}
	for _, r := range results {
		if err := s.RecordMatch(r); err != nil {
			t.Fatalf("RecordMatch: %v", err)
		}
	}

	h, err := s.LoadStats("heuristic")
	if err != nil {
		t.Fatal(err)
	}
	if h.GamesPlayed != 3 || h.Wins != 2 || h.Draws != 1 || h.Losses != 0 {
		t.Errorf("heuristic stats = %+v", h)
	}
	if h.DiscMargin != 42 || h.WinsVs["random"] != 2 || h.LongestWinStrk != 2 {
		t.Errorf("heuristic stats = %+v", h)
	}
	if h.TotalPlayTime != 3*time.Second {
		t.Errorf("TotalPlayTime = %v", h.TotalPlayTime)
	}

	all, err := s.AllStats()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("AllStats returned %d players", len(all))
	}
	if r := all["random"]; r.Losses != 2 || r.Draws != 1 || r.DiscMargin != -42 {
		t.Errorf("random stats = %+v", r)
	}

	missing, err := s.LoadStats("nobody")
	if err != nil || missing.GamesPlayed != 0 || missing.WinsVs == nil {
		t.Errorf("LoadStats(unknown) = %+v, %v", missing, err)
	}
}

func TestRanking(t *testing.T) {
	all := map[string]*PlayerStats{
		"random":    {GamesPlayed: 4, Wins: 1, Losses: 3, DiscMargin: -40},
		"exact":     {GamesPlayed: 4, Wins: 3, Draws: 1, DiscMargin: 50},
		"heuristic": {GamesPlayed: 4, Wins: 3, Draws: 1, DiscMargin: 20},
		"minimax":   {GamesPlayed: 4, Wins: 1, Losses: 3, DiscMargin: -40},
	}
	got := Ranking(all)
	want := []string{"exact", "heuristic", "minimax", "random"}
	if !slices.Equal(got, want) {
		t.Errorf("Ranking = %v, want %v", got, want)
	}
	if len(Ranking(nil)) != 0 {
		t.Error("Ranking(nil) is not empty")
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv(HomeEnv, "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	// Test that GetDataDir returns a valid path
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	for _, dir := range []func() (string, error){GetDatabaseDir, GetBookDir} {
		d, err := dir()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(d); err != nil {
			t.Errorf("%s: %v", d, err)
		}
	}

	t.Logf("Data directory: %s", dataDir)
}

func TestDataPathOverride(t *testing.T) {
	root := filepath.Join(t.TempDir(), "engine-home")
	t.Setenv(HomeEnv, root)

	dir, err := GetDatabaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(root, "db"); dir != want {
		t.Errorf("GetDatabaseDir = %s, want %s", dir, want)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("override directory not created: %v", err)
	}
}

func TestBaseDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("APPDATA", "")

	tests := []struct {
		goos string
		want string
	}{
		{"darwin", filepath.Join(home, "Library", "Application Support")},
		{"windows", filepath.Join(home, "AppData", "Roaming")},
		{"linux", filepath.Join(home, ".local", "share")},
		{"plan9", filepath.Join(home, ".local", "share")},
	}
	for _, tc := range tests {
		got, err := baseDir(tc.goos)
		if err != nil || got != tc.want {
			t.Errorf("baseDir(%s) = %s, %v; want %s", tc.goos, got, err, tc.want)
		}
	}

	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	if got, _ := baseDir("linux"); got != xdg {
		t.Errorf("baseDir ignored XDG_DATA_HOME: %s", got)
	}
	if got, _ := baseDir("darwin"); got == xdg {
		t.Error("darwin honored XDG_DATA_HOME")
	}
}
