package llm

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
)

// HeuristicGenerator answers from a persona's canned replies: the first
// keyword rule matching the lowercased message wins, otherwise a random
// entry of the pool is returned.
type HeuristicGenerator struct {
	persona Persona

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewHeuristicGenerator(persona Persona) *HeuristicGenerator {
	return &HeuristicGenerator{
		persona: persona,
		rnd:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// WithSeed makes pool selection reproducible. Used by tests.
func (g *HeuristicGenerator) WithSeed(seed uint64) *HeuristicGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rnd = rand.New(rand.NewPCG(seed, seed))
	return g
}

func (g *HeuristicGenerator) GenerateReply(_ context.Context, userText string) string {
	lower := strings.ToLower(userText)
	for _, rule := range g.persona.Rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Reply
			}
		}
	}

	if len(g.persona.Pool) == 0 {
		return FallbackUnavailable
	}
	g.mu.Lock()
	i := g.rnd.IntN(len(g.persona.Pool))
	g.mu.Unlock()
	return g.persona.Pool[i]
}
