// Package puzzle supplies the secret number for each day's round.
package puzzle

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// Default guess bounds.
const (
	DefaultMin = 1
	DefaultMax = 10
)

// Strategy names accepted in configuration.
const (
	StrategyDaily  = "daily"
	StrategyRandom = "random"
)

// Range is the inclusive interval of valid guesses and targets.
type Range struct {
	Min int
	Max int
}

// DefaultRange returns [1,10].
func DefaultRange() Range {
	return Range{Min: DefaultMin, Max: DefaultMax}
}

// Validate requires a non-empty interval.
func (r Range) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: [%d,%d]", types.ErrGuessRangeInvalid, r.Min, r.Max)
	}
	return nil
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) size() int { return r.Max - r.Min + 1 }

// TargetSource yields the target for a calendar date.
type TargetSource interface {
	Target(date string) int
}

// TargetFunc adapts a plain function to TargetSource.
type TargetFunc func(date string) int

// Target calls f.
func (f TargetFunc) Target(date string) int { return f(date) }

// Daily derives the target from the date alone, so every player and every
// process sees the same number on the same day.
type Daily struct {
	Range Range
}

// Target hashes the date into the range.
func (d Daily) Target(date string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(date))
	return d.Range.Min + int(h.Sum32()%uint32(d.Range.size()))
}

// Random draws a fresh target each time it is asked.
type Random struct {
	Range Range
}

// Target ignores the date.
func (r Random) Target(string) int {
	return r.Range.Min + rand.IntN(r.Range.size())
}

// Pinned records the first target Source yields for a date and replays it
// to every later caller, so a Random draw survives across sessions and
// processes until the day is over. When the pins cannot be read the fresh
// draw is used for this session only.
type Pinned struct {
	Source TargetSource
	Pins   types.TargetLedger
	Logger *slog.Logger
}

// Target returns the pinned value for date, pinning a fresh draw if none.
func (p Pinned) Target(date string) int {
	drawn := p.Source.Target(date)
	pinned, err := p.Pins.Pin(date, drawn)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Warn("target not pinned", "date", date, "error", err)
		}
		return drawn
	}
	return pinned
}

// New returns the target source for a configured strategy name.
func New(strategy string, r Range) (TargetSource, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	switch strategy {
	case "", StrategyDaily:
		return Daily{Range: r}, nil
	case StrategyRandom:
		return Random{Range: r}, nil
	default:
		return nil, fmt.Errorf("unknown target strategy %q", strategy)
	}
}
