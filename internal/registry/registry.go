// Package registry assigns unique spawn names to a batch of model specs
// and preserves their declaration order.
//
// Two models declared with the same name cannot both exist in the world,
// so repeats get a numeric suffix: the first occurrence keeps its name,
// the Nth repeat becomes "name_N". Explicit unique_name values from the
// config participate in de-duplication like declared names, so even
// hand-picked names cannot collide within a batch.
package registry

import (
	"fmt"
	"math/rand/v2"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// AssignUniqueNames appends count suffixes to duplicate names so the
// returned list contains only unique names, in the original order.
//
//	["crate", "crate", "shelf", "crate"] → ["crate", "crate_1", "shelf", "crate_2"]
//
// Suffixes are strictly increasing per base name. Note that the scheme is
// simple by design: it does not guard against an input that already
// contains "crate_1" alongside two "crate" entries — Build detects that
// residual collision and reports it as an error.
func AssignUniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		count, dup := seen[name]
		if dup {
			seen[name] = count + 1
			out = append(out, fmt.Sprintf("%s_%d", name, count+1))
		} else {
			seen[name] = 0
			out = append(out, name)
		}
	}
	return out
}

// Registry maps unique spawn names to their model specs while remembering
// the order in which the specs were declared.
type Registry struct {
	// order holds the unique names in declaration order.
	order []string

	// specs maps unique name to the spec it was assigned to.
	specs map[string]*model.ModelSpec
}

// Build constructs a Registry from parsed model specs.
//
// Each spec's preferred name is its explicit unique_name when set,
// otherwise its declared name. Preferred names are de-duplicated with
// AssignUniqueNames and the result is written back to each spec's
// ResolvedName, so a spec that declared no unique_name receives exactly
// its (possibly suffixed) declared name.
func Build(specs []*model.ModelSpec) (*Registry, error) {
	preferred := make([]string, len(specs))
	for i, spec := range specs {
		if spec.UniqueName != "" {
			preferred[i] = spec.UniqueName
		} else {
			preferred[i] = spec.Name
		}
	}

	unique := AssignUniqueNames(preferred)

	r := &Registry{
		order: unique,
		specs: make(map[string]*model.ModelSpec, len(specs)),
	}
	for i, spec := range specs {
		// A residual collision means the suffixing scheme was defeated by
		// an input that pre-declared a suffixed name. Refuse the batch
		// rather than silently overwriting a spec.
		if prev, exists := r.specs[unique[i]]; exists {
			return nil, fmt.Errorf("unique name %q collides between models %q and %q",
				unique[i], prev.Name, spec.Name)
		}
		spec.ResolvedName = unique[i]
		r.specs[unique[i]] = spec
	}
	return r, nil
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns the unique names in declaration order.
// The returned slice is a copy — callers may reorder it freely.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Shuffled returns the unique names in a random order, for the
// random-order spawn mode.
func (r *Registry) Shuffled() []string {
	out := r.Names()
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Get returns the spec registered under the given unique name.
func (r *Registry) Get(name string) (*model.ModelSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}
