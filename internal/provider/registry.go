package provider

import (
	"fxhistory/internal/adapters"
	"maps"
	"slices"
)

// Registry maps provider names to adapters. It is built once at start-up and is read only afterwards.
type Registry struct {
	adapters map[string]adapters.RateProvider
}

func (r *Registry) Lookup(name string) (adapters.RateProvider, bool) {
	p, ok := r.adapters[name]
	return p, ok
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := slices.Collect(maps.Keys(r.adapters))
	slices.Sort(names)
	return names
}

func NewRegistry(providers map[string]adapters.RateProvider) *Registry {
	return &Registry{adapters: maps.Clone(providers)}
}
