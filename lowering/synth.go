package lowering

import (
	"go.uber.org/zap"

	"github.com/wippyai/jwasm/errors"
	"github.com/wippyai/jwasm/ir"
	"github.com/wippyai/jwasm/module"
	"github.com/wippyai/jwasm/wat"
)

// pendingOp is a use site whose routine body generation is deferred to the
// finish phase: the descriptor it binds to may be completed by a static
// initializer scanned after the use site.
type pendingOp struct {
	call *ir.Call
	fn   *module.SyntheticFunction

	// direct is set when the handle operand is a local-slot token whose
	// descriptor was created in the same body.
	direct *Descriptor

	// candidates holds the global tokens the handle operand may refer to.
	// For a direct global operand there is exactly one; for a computed
	// bucket expression every global in the feeding instruction range is a
	// candidate and exactly one may resolve.
	candidates []Token
}

// patchAccess rewrites a recognized field/array access call: it locates the
// offset/handle operand, binds the routine to its token(s), redirects the
// call and defers body generation.
func (r *Rewriter) patchAccess(body []ir.Instruction, idx int, call *ir.Call, spec patchSpec) error {
	dist := spec.dist
	if dist == 0 {
		// Signature-polymorphic methods carry the handle as the first
		// pushed operand.
		dist = len(call.OperandTypes)
	}

	pre := body[:idx]
	sv, err := ir.FindPushInstruction(pre, dist, call.Pos)
	if err != nil {
		return err
	}
	if _, ok := sv.Instr.(*ir.DupReceiver); ok {
		// The handle is the receiver itself; its duplicate sits on top of
		// the real producer.
		dist++
		sv, err = ir.FindPushInstruction(pre, dist, call.Pos)
		if err != nil {
			return err
		}
	}

	p := &pendingOp{call: call}
	var origin ir.GlobalRef

	switch v := sv.Instr.(type) {
	case *ir.Global:
		if v.Op == ir.GlobalGet {
			r.desc.lookup(GlobalToken(v.Ref))
			p.candidates = []Token{GlobalToken(v.Ref)}
			origin = v.Ref
		}
	case *ir.Local:
		if v.Op == ir.LocalGet {
			if desc, ok := r.desc.get(LocalToken(v.Slot)); ok {
				p.direct = desc
				origin = ir.GlobalRef{Class: desc.TypeName, Name: desc.FieldName}
			}
		}
	}

	if p.direct == nil && len(p.candidates) == 0 {
		// Computed bucket expression, e.g. ConcurrentHashMap.tabAt deriving
		// a slot address from the field offset. Collect every global read in
		// the range between the next-deeper operand and the handle operand;
		// only one is live on any real path reaching the call.
		below, err := ir.FindPushInstruction(pre, dist+1, call.Pos)
		if err != nil {
			return err
		}
		for i := below.Idx; i < sv.Idx; i++ {
			if g, ok := body[i].(*ir.Global); ok && g.Op == ir.GlobalGet {
				p.candidates = append(p.candidates, GlobalToken(g.Ref))
				origin = g.Ref
			}
		}
		if len(p.candidates) == 0 {
			return errors.UnresolvedProducer("no offset token feeds the access", sv.Instr.Position().Offset)
		}
	}

	name := ir.FuncName{
		Class:     origin.Class,
		Method:    "." + origin.Name + "." + call.Name.Method,
		Signature: call.Name.Signature,
	}
	// The Unsafe and updater receivers are consumed as an explicit leading
	// parameter; VarHandle routines consume the handle in its operand slot.
	needsReceiver := call.Name.Class != classVarHandle
	p.fn = r.functions.MarkAsNeeded(name, needsReceiver)

	redirect(body, idx, call, p.fn)
	r.pending = append(r.pending, p)

	r.log.Debug("deferred access rewrite",
		zap.String("call", call.Name.Qualified()),
		zap.String("routine", name.Qualified()),
		zap.Int("candidates", len(p.candidates)))
	return nil
}

// patchTrap redirects an unaligned access to a routine that traps. The
// target format forbids unaligned access; trapping is a documented
// capability gap, not a silent miscompilation.
func (r *Rewriter) patchTrap(body []ir.Instruction, idx int, call *ir.Call) error {
	name := ir.FuncName{Method: call.Name.Method, Signature: call.Name.Signature}
	fn := r.functions.MarkAsNeeded(name, false)
	if !fn.Materialized() {
		if err := fn.SetBody(wat.NewBody().Unreachable().String()); err != nil {
			return err
		}
	}
	redirect(body, idx, call, fn)
	return nil
}

// materialize generates the body of one deferred routine. Called only after
// the scan phase has closed, so an unresolved descriptor here is final.
func (r *Rewriter) materialize(p *pendingOp) error {
	if p.fn.Materialized() {
		// Shared with an earlier use site of the same field and operation.
		return nil
	}

	desc := p.direct
	if desc == nil {
		var resolved []*Descriptor
		var labels []string
		for _, tok := range p.candidates {
			if d, ok := r.desc.get(tok); ok && d.Resolved() {
				resolved = append(resolved, d)
				labels = append(labels, tok.String())
			}
		}
		switch len(resolved) {
		case 1:
			desc = resolved[0]
		case 0:
			return errors.UnresolvedAtFinish(p.call.Name.Qualified())
		default:
			return errors.AmbiguousCandidate(p.call.Name.Qualified(), labels)
		}
	} else if !desc.Resolved() {
		return errors.UnresolvedAtFinish(p.call.Name.Qualified())
	}

	spec, ok := lookupCatalog(p.call.Name)
	if !ok {
		return errors.Internal(errors.PhaseFinish, "pending routine for uncataloged call %s", p.call.Name.Qualified())
	}

	body, err := buildAccessBody(spec.access, p.call, desc)
	if err != nil {
		return err
	}

	r.log.Debug("materialized routine",
		zap.String("routine", p.fn.Name.Qualified()),
		zap.String("type", desc.TypeName),
		zap.String("field", desc.FieldName))
	return p.fn.SetBody(body)
}

// eqType returns the typed equality prefix for a compared operand: identity
// for reference kinds, numeric equality otherwise.
func eqType(t ir.ValueType) string {
	if t.IsRef() {
		return "ref"
	}
	return t.String()
}

// buildAccessBody generates the structured-operation routine for an access
// call bound to a resolved descriptor. Operand layout: local 0 is the
// original receiver (Unsafe singleton, updater or handle), local 1 the
// target object, and the value operands follow in call order. Array indices
// arrive as i64 and are narrowed.
func buildAccessBody(access accessOp, call *ir.Call, desc *Descriptor) (string, error) {
	ops := call.OperandTypes
	last := len(ops) - 1
	fieldMode := desc.FieldName != ""
	b := wat.NewBody()

	wrapIndex := func() {
		b.LocalGet(2)
		if ops[2] == ir.TypeI64 {
			b.WrapI64()
		}
	}

	switch access {
	case accessGet:
		if fieldMode {
			b.LocalGet(1).StructGet(desc.TypeName, desc.FieldName).Return()
		} else {
			b.LocalGet(1)
			wrapIndex()
			b.ArrayGet(desc.TypeName).Return()
		}

	case accessPut:
		if fieldMode {
			b.LocalGet(1).LocalGet(last).StructSet(desc.TypeName, desc.FieldName)
		} else {
			b.LocalGet(1)
			wrapIndex()
			b.LocalGet(last).ArraySet(desc.TypeName)
		}

	case accessCompareAndSwap:
		expect, update := last-1, last
		eq := eqType(ops[update])
		if fieldMode {
			b.LocalGet(1).StructGet(desc.TypeName, desc.FieldName).
				LocalGet(expect).Eq(eq).
				If().
				LocalGet(1).LocalGet(update).StructSet(desc.TypeName, desc.FieldName).
				ConstI32(1).Return().
				End().
				ConstI32(0).Return()
		} else {
			b.LocalGet(1)
			wrapIndex()
			b.ArrayGet(desc.TypeName).
				LocalGet(expect).Eq(eq).
				If().
				LocalGet(1)
			wrapIndex()
			b.LocalGet(update).ArraySet(desc.TypeName).
				ConstI32(1).Return().
				End().
				ConstI32(0).Return()
		}

	case accessGetAndAdd, accessGetAndBitwiseOr:
		if !fieldMode {
			return "", errors.New(errors.PhaseFinish, errors.KindUnsupported).
				Signature(call.Name.Qualified()).
				Detail("read-modify-write has no array form").
				Build()
		}
		tmp := len(ops)
		b.LocalGet(1).
			LocalGet(1).StructGet(desc.TypeName, desc.FieldName).
			LocalTee(tmp).
			LocalGet(last)
		if access == accessGetAndAdd {
			b.Add(ops[last].String())
		} else {
			b.Or(ops[last].String())
		}
		b.StructSet(desc.TypeName, desc.FieldName).
			LocalGet(tmp).Return()

	case accessGetAndSet:
		if !fieldMode {
			return "", errors.New(errors.PhaseFinish, errors.KindUnsupported).
				Signature(call.Name.Qualified()).
				Detail("exchange has no array form").
				Build()
		}
		b.LocalGet(1).StructGet(desc.TypeName, desc.FieldName).
			LocalGet(1).LocalGet(last).StructSet(desc.TypeName, desc.FieldName).
			Return()

	default:
		return "", errors.Internal(errors.PhaseFinish, "unknown access operation %d", access)
	}

	return b.String(), nil
}
