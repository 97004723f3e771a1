package orchestrator

import (
	"errors"
	"sync"
)

// Provider lazily builds the process-wide orchestrator exactly once.
type Provider struct {
	build func() (*Orchestrator, error)

	once sync.Once
	orch *Orchestrator
	err  error
}

// NewProvider creates a provider around a build function.
func NewProvider(build func() (*Orchestrator, error)) *Provider {
	return &Provider{build: build}
}

// Get returns the shared orchestrator. Concurrent first calls build it once;
// a build error is sticky.
func (p *Provider) Get() (*Orchestrator, error) {
	p.once.Do(func() {
		if p.build == nil {
			p.err = errors.New("orchestrator provider has no build function")
			return
		}
		p.orch, p.err = p.build()
	})
	return p.orch, p.err
}
