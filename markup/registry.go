package markup

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds named filters so suites and the CLI can refer to them by name.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	filters map[string]Filter
}

// NewRegistry creates an empty filter registry
func NewRegistry() *Registry {
	return &Registry{
		filters: make(map[string]Filter),
	}
}

// Register adds a named filter
func (r *Registry) Register(name string, filter Filter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if filter == nil {
		return fmt.Errorf("filter '%s' is nil", name)
	}
	if _, exists := r.filters[name]; exists {
		return fmt.Errorf("filter '%s' already registered", name)
	}

	r.filters[name] = filter
	return nil
}

// Get retrieves a filter by name
func (r *Registry) Get(name string) (Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.filters[name]
	return f, ok
}

// Lookup resolves every name, failing on the first unknown one
func (r *Registry) Lookup(names ...string) ([]Filter, error) {
	filters := make([]Filter, 0, len(names))
	for _, name := range names {
		f, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown filter '%s', available: %v", name, r.List())
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// List returns the registered filter names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global filter registry
var DefaultRegistry = NewRegistry()

// Register adds a filter to the default registry
func Register(name string, filter Filter) error {
	return DefaultRegistry.Register(name, filter)
}

// Lookup resolves filter names against the default registry
func Lookup(names ...string) ([]Filter, error) {
	return DefaultRegistry.Lookup(names...)
}

func init() {
	_ = Register("font", Font)
	_ = Register("comments", Comments)
}
