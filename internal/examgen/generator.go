// Package examgen draws randomized test instances from a question bank.
package examgen

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/realie/internal/bank"
)

// Generator picks one question per bank group. It is safe for concurrent
// use; each call draws fresh values from the underlying source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator backed by src. A nil src seeds a PCG source from
// the current time.
func New(src rand.Source) *Generator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>17|1)
	}
	return &Generator{rng: rand.New(src)}
}

// NewSeeded creates a Generator whose sequence of tests is reproducible.
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate returns one SelectedQuestion per group, in bank order. Each pick
// is uniform over the group's pool and independent of the other groups.
// A group with an empty pool yields a *bank.ConfigurationError and no test.
func (g *Generator) Generate(b *bank.Bank) ([]bank.SelectedQuestion, error) {
	n := b.GroupCount()
	if n == 0 {
		return nil, &bank.ConfigurationError{Reason: "question bank has no groups"}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]bank.SelectedQuestion, 0, n)
	for i := 0; i < n; i++ {
		group := b.Group(i)
		size := len(group.Questions)
		if size == 0 {
			return nil, &bank.ConfigurationError{
				GroupID: group.ID,
				Topic:   group.Topic,
				Reason:  "no candidate questions",
			}
		}
		out = append(out, group.Select(g.rng.IntN(size)))
	}
	return out, nil
}
