package module

import (
	"github.com/wippyai/jwasm/errors"
	"github.com/wippyai/jwasm/ir"
)

// SyntheticFunction is a generated routine standing in for a rewritten call.
// Its body text is set once, during the finish phase; until then Body returns
// an empty placeholder.
type SyntheticFunction struct {
	Name ir.FuncName

	// NeedsReceiver marks routines that keep the original instance receiver
	// (the Unsafe singleton) as an explicit leading parameter so the
	// redirected call consumes the same operand count.
	NeedsReceiver bool

	body         string
	materialized bool
}

// Body returns the routine body text, or "" while generation is deferred.
func (f *SyntheticFunction) Body() string {
	return f.body
}

// Materialized reports whether the body has been generated.
func (f *SyntheticFunction) Materialized() bool {
	return f.materialized
}

// SetBody installs the generated body. A body is generated exactly once.
func (f *SyntheticFunction) SetBody(body string) error {
	if f.materialized {
		return errors.Internal(errors.PhaseFinish, "body of %s generated twice", f.Name.Qualified())
	}
	f.body = body
	f.materialized = true
	return nil
}

// FunctionRegistry collects synthesized routines for emission and tracks the
// scan/finish phase boundary of the compilation unit.
type FunctionRegistry struct {
	synthetics map[string]*SyntheticFunction
	order      []string
	finished   bool
}

// NewFunctionRegistry creates an empty registry in the open scan phase.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		synthetics: make(map[string]*SyntheticFunction),
	}
}

// MarkAsNeeded registers a synthesized routine, deduplicating by qualified
// name: many use sites of the same field share one routine.
func (r *FunctionRegistry) MarkAsNeeded(name ir.FuncName, needsReceiver bool) *SyntheticFunction {
	key := name.Qualified()
	if fn, ok := r.synthetics[key]; ok {
		return fn
	}
	fn := &SyntheticFunction{Name: name, NeedsReceiver: needsReceiver}
	r.synthetics[key] = fn
	r.order = append(r.order, key)
	return fn
}

// Finished reports whether the scan phase has been closed.
func (r *FunctionRegistry) Finished() bool {
	return r.finished
}

// Finish closes the scan phase. After this point every registered routine
// must be materialized before emission.
func (r *FunctionRegistry) Finish() {
	r.finished = true
}

// Synthetics returns all registered routines in registration order.
func (r *FunctionRegistry) Synthetics() []*SyntheticFunction {
	out := make([]*SyntheticFunction, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.synthetics[key])
	}
	return out
}
