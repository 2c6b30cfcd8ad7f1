package mars

import (
	"fmt"

	"github.com/xyproto/env/v2"
)

// Defaults follow the classic '94 tournament setup.
const (
	DefaultArenaSize   = 8000
	DefaultPSpaceSize  = 500
	DefaultMaxCycles   = 80000
	DefaultMaxThreads  = 8000
	DefaultMaxLength   = 100
	DefaultMinDistance = 100
	DefaultVersion     = 80 // version x100, i.e. 0.8
)

// Config carries every knob the simulator honours. The zero value is
// not usable; start from DefaultConfig (or NewBuilder, which does).
type Config struct {
	// ArenaSize is the number of cells in the arena.
	ArenaSize uint32

	// PSpaceSize is the number of cells in each process's private
	// storage. Zero disables LDP/STP (they kill the thread).
	PSpaceSize uint32

	// MaxCycles bounds the match; reaching it is a draw.
	MaxCycles int

	// MaxThreads caps any one process's thread FIFO. SPL degrades
	// to a plain step once the cap is reached.
	MaxThreads int

	// MaxLength is the longest loadable program.
	MaxLength int

	// MinDistance is the minimum circular distance between batch
	// placements.
	MinDistance uint32

	// Version is informational, times 100.
	Version int
}

// DefaultConfig returns the tournament defaults, each overridable
// through the environment (WARS_ARENA_SIZE, WARS_PSPACE_SIZE,
// WARS_MAX_CYCLES, WARS_MAX_THREADS, WARS_MAX_LENGTH,
// WARS_MIN_DISTANCE).
func DefaultConfig() Config {
	return Config{
		ArenaSize:   uint32(env.Int("WARS_ARENA_SIZE", DefaultArenaSize)),
		PSpaceSize:  uint32(env.Int("WARS_PSPACE_SIZE", DefaultPSpaceSize)),
		MaxCycles:   env.Int("WARS_MAX_CYCLES", DefaultMaxCycles),
		MaxThreads:  env.Int("WARS_MAX_THREADS", DefaultMaxThreads),
		MaxLength:   env.Int("WARS_MAX_LENGTH", DefaultMaxLength),
		MinDistance: uint32(env.Int("WARS_MIN_DISTANCE", DefaultMinDistance)),
		Version:     DefaultVersion,
	}
}

func (c Config) validate() error {
	switch {
	case c.ArenaSize == 0:
		return fmt.Errorf("config: arena size must be positive")
	case c.MaxCycles < 1:
		return fmt.Errorf("config: max cycles must be positive")
	case c.MaxThreads < 1:
		return fmt.Errorf("config: max threads per process must be positive")
	case c.MaxLength < 1:
		return fmt.Errorf("config: max program length must be positive")
	case uint32(c.MaxLength) > c.ArenaSize:
		return fmt.Errorf("config: max program length %d exceeds arena size %d",
			c.MaxLength, c.ArenaSize)
	case c.MinDistance > c.ArenaSize:
		return fmt.Errorf("config: min distance %d exceeds arena size %d",
			c.MinDistance, c.ArenaSize)
	}
	return nil
}
