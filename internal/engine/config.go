package engine

import "time"

// Tier is the strength level requested by the host.
type Tier int

// TierBudgets maps each tier to its thinking time.
// Tiers above the highest entry use the highest budget.
var TierBudgets = map[Tier]time.Duration{
	1: 1 * time.Second,
	2: 3 * time.Second,
	3: 5 * time.Second,
}

// BudgetForTier returns the time budget for a tier.
func BudgetForTier(t Tier) time.Duration {
	switch {
	case t <= 1:
		return TierBudgets[1]
	case t == 2:
		return TierBudgets[2]
	default:
		return TierBudgets[3]
	}
}

// Config holds the engine's tuning knobs.
type Config struct {
	MaxBudget        time.Duration // Hard ceiling on any budget
	EndgameThreshold int           // Solve exactly at or below this many empties
	TTMaxEntries     int           // Table is cleared once it grows past this
	MinDepth         int           // First iterative-deepening depth
	MaxDepth         int           // Last iterative-deepening depth
	CheckInterval    uint64        // Nodes between deadline checks (power of two)
	UseBook          bool          // Consult the opening book in the opening
	BookMaxDiscs     int           // Book is consulted while at most this many discs are placed
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		MaxBudget:        10 * time.Second,
		EndgameThreshold: 14,
		TTMaxEntries:     200000,
		MinDepth:         2,
		MaxDepth:         20,
		CheckInterval:    1024,
		UseBook:          false,
		BookMaxDiscs:     12,
	}
}

// clampBudget applies the hard ceiling. A non-positive budget means the ceiling.
func (c Config) clampBudget(budget time.Duration) time.Duration {
	if budget <= 0 || budget > c.MaxBudget {
		return c.MaxBudget
	}
	return budget
}

// checkMask returns the node mask used for deadline checks.
func (c Config) checkMask() uint64 {
	n := c.CheckInterval
	if n == 0 {
		return 0
	}
	// Round down to a power of two.
	for n&(n-1) != 0 {
		n &= n - 1
	}
	return n - 1
}
