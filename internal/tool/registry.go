package tool

import (
	"sort"
	"sync"
)

// Registry maps site identifiers to tools. It is safe for concurrent access.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry { return &Registry{tools: make(map[string]Tool)} }

// Register adds t under t.Name(). Bad entries are reported at startup instead of on first request.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return &ConfigurationError{Site: "", Reason: "tool is nil"}
	}
	name := t.Name()
	if name == "" {
		return &ConfigurationError{Site: name, Reason: "tool name cannot be empty"}
	}
	if ft, ok := t.(*funcTool); ok && ft.fn == nil {
		return &ConfigurationError{Site: name, Reason: "missing callable run(params)"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return &ConfigurationError{Site: name, Reason: "already registered"}
	}
	r.tools[name] = t
	return nil
}

// Resolve returns the tool registered for site.
func (r *Registry) Resolve(site string) (Tool, error) {
	r.mu.RLock()
	t, ok := r.tools[site]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Site: site}
	}
	return t, nil
}

// Names lists registered site identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tools))
	for name := range r.tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
