// internal/words/selector.go
//
// Match selection policies.
//   - First: earliest match in source order (deterministic).
//   - Uniform: every match equally likely, without collecting matches.

package words

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"sync"
)

// Selector chooses one word from a sequence of matches.
type Selector interface {
	Pick(matches iter.Seq[string]) (string, bool)
	Name() string
}

// SelectorByName maps a config value ("random" or "first") to a Selector.
func SelectorByName(name string, rng *rand.Rand) (Selector, error) {
	switch name {
	case "", "random", "uniform":
		return Uniform(rng), nil
	case "first":
		return First(), nil
	default:
		return nil, fmt.Errorf("words: unknown selection policy %q", name)
	}
}

type first struct{}

// First picks the earliest match in source order. Deterministic.
func First() Selector { return first{} }

func (first) Name() string { return "first" }

func (first) Pick(matches iter.Seq[string]) (string, bool) {
	for w := range matches {
		return w, true
	}
	return "", false
}

type uniform struct {
	mu  sync.Mutex // *rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// Uniform picks each match with equal probability. A nil rng gets a
// randomly seeded PCG source.
func Uniform(rng *rand.Rand) Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &uniform{rng: rng}
}

func (u *uniform) Name() string { return "random" }

// Pick does single-item reservoir sampling so matches are never collected.
func (u *uniform) Pick(matches iter.Seq[string]) (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var (
		chosen string
		seen   int
	)
	for w := range matches {
		seen++
		if u.rng.IntN(seen) == 0 {
			chosen = w
		}
	}
	return chosen, seen > 0
}
