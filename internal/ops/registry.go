package ops

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry holds the operations known to a single application instance.
type Registry struct {
	operations map[string]Operation
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		operations: make(map[string]Operation),
	}
}

// NewWith creates a Registry and registers every module into it.
func NewWith(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds an operation under its kind. Registering the same kind
// twice is a programming error and panics.
func (r *Registry) Register(op Operation) {
	kind := op.Kind()
	if kind == "" {
		panic("operation kind must not be empty")
	}
	if _, exists := r.operations[kind]; exists {
		panic(fmt.Sprintf("operation with kind '%s' already registered", kind))
	}
	slog.Debug("Registering operation.", "kind", kind, "arity", op.Arity())
	r.operations[kind] = op
}

// Lookup returns the operation registered for kind.
func (r *Registry) Lookup(kind string) (Operation, bool) {
	op, ok := r.operations[kind]
	return op, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.operations))
	for k := range r.operations {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// CheckArity reports whether n arguments satisfy op's arity.
func CheckArity(op Operation, n int) error {
	want := op.Arity()
	if want == Variadic {
		if n < 1 {
			return fmt.Errorf("operation '%s' needs at least one input, got %d", op.Kind(), n)
		}
		return nil
	}
	if n != want {
		return fmt.Errorf("operation '%s' takes %d inputs, got %d", op.Kind(), want, n)
	}
	return nil
}
