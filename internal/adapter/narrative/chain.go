package narrative

import (
	"context"

	"vexal/internal/app/ports"
	"vexal/internal/resilience"
)

// Chain asks each registered generator in turn, each behind its own circuit
// breaker.
type Chain struct {
	group *resilience.Failover[ports.NarrativeGenerator]
}

var _ ports.NarrativeGenerator = (*Chain)(nil)

func NewChain(cfg resilience.BreakerConfig) *Chain {
	return &Chain{group: resilience.NewFailover[ports.NarrativeGenerator](cfg)}
}

func (c *Chain) Add(name string, gen ports.NarrativeGenerator) {
	c.group.Add(name, gen)
}

func (c *Chain) Len() int {
	return c.group.Len()
}

func (c *Chain) Generate(ctx context.Context, req ports.NarrativeRequest) (ports.Narrative, error) {
	out, name, err := resilience.Do(c.group, func(g ports.NarrativeGenerator) (ports.Narrative, error) {
		return g.Generate(ctx, req)
	})
	if err != nil {
		return ports.Narrative{}, err
	}
	if out.Provider == "" {
		out.Provider = name
	}
	return out, nil
}
