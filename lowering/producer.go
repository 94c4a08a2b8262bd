package lowering

import (
	"go.uber.org/zap"

	"github.com/wippyai/jwasm/errors"
	"github.com/wippyai/jwasm/ir"
)

// argStart resolves the producer of a call's deepest counted operand. span
// counts the receiver and arguments; the receiver duplicate a virtual call
// carries sits between them on the stack and adds one.
func argStart(pre []ir.Instruction, call *ir.Call, span int) (ir.StackValue, error) {
	if call.Virtual {
		span++
	}
	return ir.FindPushInstruction(pre, span, call.Pos)
}

// getDeclaredFieldSig is the reflective lookup the Java 8 pattern routes
// field names through:
//
//	UNSAFE.objectFieldOffset(Foobar.class.getDeclaredField("field"))
const getDeclaredFieldSig = "java/lang/Class.getDeclaredField(Ljava/lang/String;)Ljava/lang/reflect/Field;"

// findStoreToken walks forward from just past the producing call at idx to
// the instruction that stores the produced offset/handle, and returns the
// token for that store target together with its index.
//
// Pure conversions are skipped. A jump is followed to the first instruction
// at or past its target: offsets are often produced behind a guard whose
// branches reconverge.
func (r *Rewriter) findStoreToken(body []ir.Instruction, idx int) (Token, int, error) {
	pos := body[idx].Position().Offset
	j := idx + 1
	for j < len(body) {
		switch v := body[j].(type) {
		case *ir.Convert:
			j++
		case *ir.Jump:
			target := v.Target
			for j++; j < len(body); j++ {
				if body[j].Position().Offset >= target {
					break
				}
			}
		case *ir.Global:
			if v.Op != ir.GlobalSet {
				return Token{}, 0, errors.UnresolvedProducer("offset flows into a global read", v.Pos.Offset)
			}
			return GlobalToken(v.Ref), j, nil
		case *ir.Local:
			if v.Op == ir.LocalGet {
				return Token{}, 0, errors.UnresolvedProducer("offset flows into a local read", v.Pos.Offset)
			}
			return LocalToken(v.Slot), j, nil
		default:
			return Token{}, 0, errors.New(errors.PhaseResolve, errors.KindUnresolvedProducer).
				Offset(v.Position().Offset).
				Detail("unsupported assign operation for offset: %s", v.Kind()).
				Build()
		}
	}
	return Token{}, 0, errors.UnresolvedProducer("produced offset is never stored", pos)
}

// classConst recovers the class-literal name behind a stack value. The
// literal may be indirect, assigned to a local earlier; in that case the
// prior store to the same slot is located and its producer resolved.
func classConst(body []ir.Instruction, sv ir.StackValue) (string, error) {
	instr := sv.Instr
	if local, ok := instr.(*ir.Local); ok && local.Op == ir.LocalGet {
		for i := sv.Idx - 1; i >= 0; i-- {
			store, ok := body[i].(*ir.Local)
			if !ok || store.Slot != local.Slot || store.Op != ir.LocalSet {
				continue
			}
			src, err := ir.FindPushInstruction(body[:i], 1, store.Pos)
			if err != nil {
				return "", err
			}
			instr = src.Instr
			break
		}
	}
	if cc, ok := instr.(*ir.ConstClass); ok {
		return cc.Name, nil
	}
	return "", errors.UnresolvedProducer("class literal not found", instr.Position().Offset)
}

// patchDefineField handles a call that computes a field offset or handle:
// it populates the descriptor for the store target and erases the whole
// computation span, from the first argument-producing instruction through
// the call and its store.
func (r *Rewriter) patchDefineField(body []ir.Instruction, idx int, call *ir.Call, spec patchSpec) error {
	tok, storeIdx, err := r.findStoreToken(body, idx)
	if err != nil {
		return err
	}
	desc := r.desc.lookup(tok)

	pre := body[:idx]
	fromSv, err := argStart(pre, call, spec.argSpan)
	if err != nil {
		return err
	}

	if spec.op == opDefineFieldIndirect {
		err = resolveReflectiveField(body, pre, call, desc)
	} else {
		err = resolveDirectField(body, pre, call, spec, desc)
	}
	if err != nil {
		return err
	}

	// Layout and codegen must retain the field rewritten code names.
	if err := r.types.UseField(desc.TypeName, desc.FieldName); err != nil {
		return err
	}

	r.log.Debug("resolved field offset",
		zap.String("token", tok.String()),
		zap.String("type", desc.TypeName),
		zap.String("field", desc.FieldName))

	nopRange(body, fromSv.Idx, storeIdx+1)
	return nil
}

// resolveDirectField recovers the literals of the three/four-argument forms
// that pass the declaring class and field name directly.
func resolveDirectField(body, pre []ir.Instruction, call *ir.Call, spec patchSpec, desc *Descriptor) error {
	fieldSv, err := ir.FindPushInstruction(pre, spec.fieldDist, call.Pos)
	if err != nil {
		return err
	}
	str, ok := fieldSv.Instr.(*ir.ConstString)
	if !ok {
		return errors.UnresolvedProducer("field name is not a string literal", fieldSv.Instr.Position().Offset)
	}

	classSv, err := ir.FindPushInstruction(pre, spec.classDist, call.Pos)
	if err != nil {
		return err
	}
	typeName, err := classConst(body, classSv)
	if err != nil {
		return err
	}

	if !desc.Resolved() {
		desc.TypeName = typeName
		desc.FieldName = str.Value
	}
	return nil
}

// resolveReflectiveField recovers the literals of the two-argument Java 8
// form, whose class and field name hide one level deeper behind a
// Class.getDeclaredField call.
func resolveReflectiveField(body, pre []ir.Instruction, call *ir.Call, desc *Descriptor) error {
	sv, err := ir.FindPushInstruction(pre, 1, call.Pos)
	if err != nil {
		return err
	}
	fieldCall, ok := sv.Instr.(*ir.Call)
	if !ok || fieldCall.Name.Qualified() != getDeclaredFieldSig {
		return errors.New(errors.PhaseResolve, errors.KindUnsupported).
			Signature(call.Name.Qualified()).
			Offset(sv.Instr.Position().Offset).
			Detail("unsupported method to get the target field").
			Build()
	}

	strSv, err := ir.FindPushInstruction(body[:sv.Idx], 1, fieldCall.Pos)
	if err != nil {
		return err
	}
	str, ok := strSv.Instr.(*ir.ConstString)
	if !ok {
		return errors.UnresolvedProducer("field name is not a string literal", strSv.Instr.Position().Offset)
	}

	classSv, err := ir.FindPushInstruction(body[:strSv.Idx], 1, fieldCall.Pos)
	if err != nil {
		return err
	}
	typeName, err := classConst(body, classSv)
	if err != nil {
		return err
	}

	if !desc.Resolved() {
		desc.TypeName = typeName
		desc.FieldName = str.Value
	}
	return nil
}

// patchDefineArray handles arrayElementVarHandle: the descriptor gets the
// element type and stays in array mode, and the computation span is erased.
func (r *Rewriter) patchDefineArray(body []ir.Instruction, idx int, call *ir.Call, spec patchSpec) error {
	tok, storeIdx, err := r.findStoreToken(body, idx)
	if err != nil {
		return err
	}
	desc := r.desc.lookup(tok)

	pre := body[:idx]
	fromSv, err := argStart(pre, call, spec.argSpan)
	if err != nil {
		return err
	}
	classSv, err := ir.FindPushInstruction(pre, spec.classDist, call.Pos)
	if err != nil {
		return err
	}
	typeName, err := classConst(body, classSv)
	if err != nil {
		return err
	}
	if !desc.Resolved() {
		desc.TypeName = typeName
	}

	r.log.Debug("resolved array handle",
		zap.String("token", tok.String()),
		zap.String("type", desc.TypeName))

	nopRange(body, fromSv.Idx, storeIdx+1)
	return nil
}

// patchArrayBase handles arrayBaseOffset: the descriptor gets the element
// type, and the call folds to constant 0. Structured arrays carry no base
// offset.
func (r *Rewriter) patchArrayBase(body []ir.Instruction, idx int, call *ir.Call, spec patchSpec) error {
	tok, _, err := r.findStoreToken(body, idx)
	if err != nil {
		return err
	}
	desc := r.desc.lookup(tok)

	pre := body[:idx]
	fromSv, err := argStart(pre, call, spec.argSpan)
	if err != nil {
		return err
	}
	classSv, err := ir.FindPushInstruction(pre, spec.classDist, call.Pos)
	if err != nil {
		return err
	}
	typeName, err := classConst(body, classSv)
	if err != nil {
		return err
	}
	if !desc.Resolved() {
		desc.TypeName = typeName
	}

	nopRange(body, fromSv.Idx, idx)
	substituteConst(body, idx, 0)
	return nil
}

// patchArrayScale handles arrayIndexScale: the call folds to constant 1.
// Element indices need no manual scaling in the target format.
func (r *Rewriter) patchArrayScale(body []ir.Instruction, idx int, call *ir.Call, spec patchSpec) error {
	fromSv, err := argStart(body[:idx], call, spec.argSpan)
	if err != nil {
		return err
	}
	nopRange(body, fromSv.Idx, idx)
	substituteConst(body, idx, 1)
	return nil
}

// patchAcquireSingleton erases a getUnsafe() call and, when present, the
// immediately following store of the singleton.
func (r *Rewriter) patchAcquireSingleton(body []ir.Instruction, idx int) {
	to := idx + 1
	if to < len(body) {
		if g, ok := body[to].(*ir.Global); ok && g.Op == ir.GlobalSet {
			to++
		}
	}
	nopRange(body, idx, to)
}

// patchRemove erases a call with no realizable target effect together with
// its argument-producing instructions.
func (r *Rewriter) patchRemove(body []ir.Instruction, idx int, call *ir.Call, spec patchSpec) error {
	fromSv, err := argStart(body[:idx], call, spec.span)
	if err != nil {
		return err
	}
	nopRange(body, fromSv.Idx, idx+1)
	return nil
}

// patchConst folds a call to a fixed constant, erasing its arguments.
func (r *Rewriter) patchConst(body []ir.Instruction, idx int, call *ir.Call, spec patchSpec) error {
	fromSv, err := argStart(body[:idx], call, spec.span)
	if err != nil {
		return err
	}
	nopRange(body, fromSv.Idx, idx)
	substituteConst(body, idx, spec.value)
	return nil
}
