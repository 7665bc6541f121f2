package storage

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// Storage keys
const (
	keyPreferences = "preferences"
	prefixStats    = "stats/"
)

// UserPreferences stores engine settings between sessions.
type UserPreferences struct {
	Strategy   string    `json:"strategy"` // strategy kind name
	Tier       int       `json:"tier"`     // 1-3
	UseBook    bool      `json:"use_book"` // consult the opening book
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Strategy:   "heuristic",
		Tier:       2,
		UseBook:    false,
		LastPlayed: time.Now(),
	}
}

// PlayerStats stores match statistics for one player (a strategy or a human).
type PlayerStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	DiscMargin     int            `json:"disc_margin"` // sum of final margins
	WinsVs         map[string]int `json:"wins_vs"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewPlayerStats returns empty statistics
func NewPlayerStats() *PlayerStats {
	return &PlayerStats{WinsVs: make(map[string]int)}
}

// MatchResult is the outcome of one finished game.
type MatchResult struct {
	Black    string
	White    string
	Margin   int // final disc margin from Black's point of view
	Duration time.Duration
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// LoadStats loads the statistics of one player, returns empty stats if not found
func (s *Storage) LoadStats(player string) (*PlayerStats, error) {
	var stats *PlayerStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn, player)
		return err
	})
	return stats, err
}

// AllStats returns the statistics of every recorded player.
func (s *Storage) AllStats() (map[string]*PlayerStats, error) {
	all := make(map[string]*PlayerStats)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixStats)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			player := strings.TrimPrefix(string(item.Key()), prefixStats)
			stats := NewPlayerStats()
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			}); err != nil {
				return fmt.Errorf("stats for %s: %w", player, err)
			}
			all[player] = stats
		}
		return nil
	})

	return all, err
}

// RecordMatch updates the statistics of both players in one transaction.
func (s *Storage) RecordMatch(result MatchResult) error {
	return s.db.Update(func(txn *badger.Txn) error {
		black, err := loadStats(txn, result.Black)
		if err != nil {
			return err
		}
		white, err := loadStats(txn, result.White)
		if err != nil {
			return err
		}

		black.record(result.Margin, result.White, result.Duration)
		white.record(-result.Margin, result.Black, result.Duration)

		if err := saveStats(txn, result.Black, black); err != nil {
			return err
		}
		return saveStats(txn, result.White, white)
	})
}

func loadStats(txn *badger.Txn, player string) (*PlayerStats, error) {
	stats := NewPlayerStats()

	item, err := txn.Get([]byte(prefixStats + player))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.WinsVs == nil {
		stats.WinsVs = make(map[string]int)
	}
	return stats, err
}

func saveStats(txn *badger.Txn, player string, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set([]byte(prefixStats+player), data)
}

// record adds one game with the given margin against opponent.
func (s *PlayerStats) record(margin int, opponent string, d time.Duration) {
	s.GamesPlayed++
	s.DiscMargin += margin
	s.TotalPlayTime += d

	switch {
	case margin > 0:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
		s.WinsVs[opponent]++
	case margin < 0:
		s.Losses++
		s.CurrentStreak = 0
	default:
		s.Draws++
		s.CurrentStreak = 0
	}
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *PlayerStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Score returns wins plus half the draws.
func (s *PlayerStats) Score() float64 {
	return float64(s.Wins) + float64(s.Draws)/2
}

// Ranking orders players by score, then by disc margin, then by name.
func Ranking(all map[string]*PlayerStats) []string {
	names := lo.Keys(all)
	slices.SortFunc(names, func(a, b string) int {
		sa, sb := all[a], all[b]
		return cmp.Or(
			cmp.Compare(sb.Score(), sa.Score()),
			cmp.Compare(sb.DiscMargin, sa.DiscMargin),
			strings.Compare(a, b),
		)
	})
	return names
}
