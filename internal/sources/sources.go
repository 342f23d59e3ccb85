// Package sources manages the registry of press outlets to harvest.
package sources

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/finscope/newscrawl/internal/domain"
)

// ErrNoSources is returned when a registry contains no targets.
var ErrNoSources = errors.New("no sources configured")

// Registry holds the ordered set of source targets for a run.
// Order is stable: the orchestrator visits sources in registry order.
type Registry struct {
	targets []domain.SourceTarget
}

// New creates a registry from the given targets.
func New(targets []domain.SourceTarget) (*Registry, error) {
	if len(targets) == 0 {
		return nil, ErrNoSources
	}
	if err := validate(targets); err != nil {
		return nil, err
	}
	return &Registry{targets: targets}, nil
}

// Default returns the registry of business dailies the crawler ships with.
func Default() *Registry {
	return &Registry{targets: []domain.SourceTarget{
		{Name: "매일경제", OID: "009"},
		{Name: "한국경제", OID: "015"},
		{Name: "머니투데이", OID: "008"},
		{Name: "서울경제", OID: "011"},
		{Name: "파이낸셜뉴스", OID: "014"},
		{Name: "헤럴드경제", OID: "016"},
		{Name: "아시아경제", OID: "277"},
		{Name: "이데일리", OID: "018"},
		{Name: "조세일보", OID: "123"},
		{Name: "조선비즈", OID: "366"},
		{Name: "비즈워치", OID: "648"},
	}}
}

// Targets returns a copy of the registry's targets in stable order.
func (r *Registry) Targets() []domain.SourceTarget {
	out := make([]domain.SourceTarget, len(r.targets))
	copy(out, r.targets)
	return out
}

// Len returns the number of targets.
func (r *Registry) Len() int {
	return len(r.targets)
}

// FindByName returns the target with the given display name, or nil.
func (r *Registry) FindByName(name string) *domain.SourceTarget {
	for i := range r.targets {
		if r.targets[i].Name == name {
			return &r.targets[i]
		}
	}
	return nil
}

// Filter returns a registry restricted to the named source.
func (r *Registry) Filter(name string) (*Registry, error) {
	target := r.FindByName(name)
	if target == nil {
		return nil, fmt.Errorf("unknown source %q", name)
	}
	return &Registry{targets: []domain.SourceTarget{*target}}, nil
}

// validate checks target names and OIDs.
func validate(targets []domain.SourceTarget) error {
	seen := make(map[string]string, len(targets))
	for _, t := range targets {
		if t.Name == "" {
			return errors.New("source name is required")
		}
		if t.OID == "" {
			return fmt.Errorf("source %q: oid is required", t.Name)
		}
		if _, err := strconv.Atoi(t.OID); err != nil {
			return fmt.Errorf("source %q: oid must be numeric, got %q", t.Name, t.OID)
		}
		if prev, dup := seen[t.OID]; dup {
			return fmt.Errorf("sources %q and %q share oid %s", prev, t.Name, t.OID)
		}
		seen[t.OID] = t.Name
	}
	return nil
}
