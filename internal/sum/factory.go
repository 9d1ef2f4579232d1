package sum

import (
	"fmt"
	"sort"
	"sync"
)

// Factory is a registry of summation strategies keyed by name.
type Factory struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{strategies: make(map[string]Strategy)}
}

// NewDefaultFactory returns a factory holding every built-in strategy. Both
// parallel variants use the given worker count.
func NewDefaultFactory(workers int) *Factory {
	f := NewFactory()
	f.Register(Sequential{})
	f.Register(Unrolled{})
	f.Register(NewParallel(workers))
	f.Register(NewParallelUnrolled(workers))
	return f
}

// Register adds s, replacing any strategy with the same name.
func (f *Factory) Register(s Strategy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strategies[s.Name()] = s
}

// Get returns the strategy registered under name.
func (f *Factory) Get(name string) (Strategy, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, f.listLocked())
	}
	return s, nil
}

// MustGet is like Get but panics on unknown names.
func (f *Factory) MustGet(name string) Strategy {
	s, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return s
}

// List returns the registered names in alphabetical order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.listLocked()
}

func (f *Factory) listLocked() []string {
	names := make([]string, 0, len(f.strategies))
	for name := range f.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (f *Factory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.strategies[name]
	return ok
}
