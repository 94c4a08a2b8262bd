package lowering

import (
	"github.com/wippyai/jwasm/ir"
	"github.com/wippyai/jwasm/module"
)

// The splicer is the only code that mutates instruction sequences. Every
// mutation is 1:1 in length: spans become no-ops, calls become constants or
// redirected calls, and each replacement keeps the position of the
// instruction it replaces.

// nopRange replaces body[from:to] with no-ops.
func nopRange(body []ir.Instruction, from, to int) {
	for i := from; i < to; i++ {
		body[i] = &ir.Nop{Pos: body[i].Position()}
	}
}

// substituteConst replaces the instruction at idx with an i32 constant.
func substituteConst(body []ir.Instruction, idx int, value int64) {
	body[idx] = &ir.ConstNumber{
		Value: value,
		Type:  ir.TypeI32,
		Pos:   body[idx].Position(),
	}
}

// redirect swaps the call at idx for a call to a synthesized routine. The
// original receiver stays an explicit leading operand. A virtual call came
// with a duplicated receiver for dispatch; the replacement dispatches
// directly, so the duplication instruction tied to the original call is
// erased as well.
func redirect(body []ir.Instruction, idx int, call *ir.Call, fn *module.SyntheticFunction) {
	body[idx] = &ir.Call{
		Name:         fn.Name,
		OperandTypes: call.OperandTypes,
		Result:       call.Result,
		Pos:          call.Pos,
	}

	if !call.Virtual {
		return
	}
	for i := idx - 1; i >= 0; i-- {
		if dup, ok := body[i].(*ir.DupReceiver); ok && dup.Call == call {
			body[i] = &ir.Nop{Pos: dup.Pos}
			break
		}
	}
}
