package lowering

import (
	"go.uber.org/zap"

	"github.com/wippyai/jwasm/errors"
	"github.com/wippyai/jwasm/ir"
	"github.com/wippyai/jwasm/module"
)

// Options configures a Rewriter.
type Options struct {
	// Functions receives the synthesized routines the rewrite produces.
	Functions *module.FunctionRegistry

	// Types records the fields whose layout must survive into the emitted
	// module because a rewritten access names them.
	Types *module.TypeRegistry

	// Logger overrides the package logger for this rewriter.
	Logger *zap.Logger
}

// Rewriter rewrites recognized offset-based accesses in lowered instruction
// bodies into structured field and array operations.
//
// Bodies are fed one at a time through Rewrite while the compilation unit is
// scanned; Finish closes the scan and generates the deferred routine bodies.
// Every rewrite replaces instructions in place, so body length and the
// positions of untouched instructions never change.
type Rewriter struct {
	functions *module.FunctionRegistry
	types     *module.TypeRegistry
	desc      descriptorTable
	pending   []*pendingOp
	log       *zap.Logger
}

// NewRewriter creates a rewriter over the given registries.
func NewRewriter(opts Options) *Rewriter {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Rewriter{
		functions: opts.Functions,
		types:     opts.Types,
		desc:      newDescriptorTable(),
		log:       log,
	}
}

// Rewrite scans one lowered body and rewrites every recognized call in it.
// The slice is modified in place and keeps its length. A call on a
// recognized declaring type that matches no known signature is a fatal
// error: skipping it would surface later as an unmodeled instruction with
// no diagnostic context.
func (r *Rewriter) Rewrite(body []ir.Instruction) error {
	if r.functions.Finished() {
		return errors.Internal(errors.PhaseScan, "rewrite after finish")
	}
	// Local slots are scoped to one body; tokens from the previous body
	// must not leak into this one.
	r.desc.clearLocals()

	for idx := 0; idx < len(body); idx++ {
		call, ok := body[idx].(*ir.Call)
		if !ok || !recognizedClass(call.Name.Class) {
			continue
		}
		spec, ok := lookupCatalog(call.Name)
		if !ok {
			return errors.New(errors.PhaseScan, errors.KindUnsupported).
				Signature(call.Name.Qualified()).
				Offset(call.Pos.Offset).
				Detail("unsupported API of sun.misc.Unsafe").
				Build()
		}

		var err error
		switch spec.op {
		case opAcquireSingleton:
			r.patchAcquireSingleton(body, idx)
		case opDefineField, opDefineFieldIndirect:
			err = r.patchDefineField(body, idx, call, spec)
		case opDefineArray:
			err = r.patchDefineArray(body, idx, call, spec)
		case opArrayBase:
			err = r.patchArrayBase(body, idx, call, spec)
		case opArrayScale:
			err = r.patchArrayScale(body, idx, call, spec)
		case opAccess:
			err = r.patchAccess(body, idx, call, spec)
		case opConst:
			err = r.patchConst(body, idx, call, spec)
		case opRemove:
			err = r.patchRemove(body, idx, call, spec)
		case opNopCall:
			if call.PopCount() == 0 {
				nopRange(body, idx, idx+1)
			} else {
				spec.span = len(call.OperandTypes)
				err = r.patchRemove(body, idx, call, spec)
			}
		case opTrap:
			err = r.patchTrap(body, idx, call)
		case opKeep:
		default:
			err = errors.Internal(errors.PhaseScan, "no patch routine for %s", call.Name.Qualified())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Finish closes the scan phase and generates the body of every deferred
// routine. After Finish returns nil, all synthesized routines registered by
// this rewriter are materialized and further Rewrite calls fail.
func (r *Rewriter) Finish() error {
	r.functions.Finish()
	for _, p := range r.pending {
		if err := r.materialize(p); err != nil {
			return err
		}
	}
	r.pending = nil
	r.log.Debug("rewrite finished",
		zap.Int("routines", len(r.functions.Synthetics())))
	return nil
}
