package plugin

import (
	"fmt"
)

// resolver computes dependency-first linearizations over a snapshot of the
// plugin dependency declarations. The snapshot is taken under the manager
// lock; the resolver itself is not safe for concurrent use.
type resolver struct {
	// depends maps plugin id to its declared dependency ids.
	depends map[string][]string
}

// Resolve returns the ids of every transitive dependency of id in
// dependency-first order: a plugin always appears after everything it
// depends on. When includeSelf is true the id itself closes the sequence.
//
// Depth-first with explicit in-progress and done sets: an unknown
// dependency fails with ErrMissingDependency, a dependency found in the
// in-progress set fails with ErrCyclicDependency.
func (r *resolver) Resolve(id string, includeSelf bool) ([]string, error) {
	if _, ok := r.depends[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPlugin, id)
	}

	var resolved []string
	inProgress := make(map[string]bool)
	done := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		inProgress[id] = true
		for _, dep := range r.depends[id] {
			if _, known := r.depends[dep]; !known {
				return fmt.Errorf("%w: %q required by plugin %q", ErrMissingDependency, dep, id)
			}
			if done[dep] {
				continue
			}
			if inProgress[dep] {
				return fmt.Errorf("%w: %s --> %s", ErrCyclicDependency, id, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(inProgress, id)
		done[id] = true
		resolved = append(resolved, id)
		return nil
	}

	if err := visit(id); err != nil {
		return nil, err
	}

	if !includeSelf {
		return resolved[:len(resolved)-1], nil
	}
	return resolved, nil
}

// LoadOrder resolves every id in the given iteration order and merges the
// individual dependency-first sequences, skipping ids already present in
// the merged sequence. The result is one global topological order
// consistent with every pairwise dependency constraint.
func (r *resolver) LoadOrder(ids []string) ([]string, error) {
	var order []string
	seen := make(map[string]bool)

	for _, id := range ids {
		resolved, err := r.Resolve(id, true)
		if err != nil {
			return nil, err
		}
		for _, dep := range resolved {
			if !seen[dep] {
				seen[dep] = true
				order = append(order, dep)
			}
		}
	}
	return order, nil
}
