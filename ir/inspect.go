package ir

import (
	"github.com/wippyai/jwasm/errors"
)

// StackValue is an operand-stack entry recovered by FindPushInstruction: the
// instruction that pushed the value and its index in the sequence.
type StackValue struct {
	Instr Instruction
	Idx   int
}

// FindPushInstruction returns the instruction that pushed the value sitting
// distance entries from the top of the operand stack at position at (1 is the
// top of the stack). It simulates the stack effect of every instruction in
// instrs whose position precedes at, following unconditional forward jumps so
// reconverging guard branches do not desynchronize the simulation.
//
// The sequence is symbol-poor: an offset consumed by a later call is just an
// opaque stack value, so this walk is the only way to recover which
// instruction defined it.
func FindPushInstruction(instrs []Instruction, distance int, at Pos) (StackValue, error) {
	if distance < 1 {
		return StackValue{}, errors.Internal(errors.PhaseResolve, "stack distance %d out of range", distance)
	}

	var stack []StackValue

	for i := 0; i < len(instrs); i++ {
		instr := instrs[i]
		pos := instr.Position()
		if pos.Offset >= at.Offset {
			break
		}

		if jump, ok := instr.(*Jump); ok {
			if !jump.Conditional && jump.Target > pos.Offset {
				// The branches of a guard reconverge at the jump target.
				// Skip to the first instruction at or past it.
				for i++; i < len(instrs); i++ {
					if instrs[i].Position().Offset >= jump.Target {
						i--
						break
					}
				}
				continue
			}
		}

		pops := instr.PopCount()
		if pops > len(stack) {
			return StackValue{}, errors.New(errors.PhaseResolve, errors.KindInternal).
				Offset(pos.Offset).
				Detail("operand stack underflow: %s pops %d, stack depth %d", instr.Kind(), pops, len(stack)).
				Build()
		}
		stack = stack[:len(stack)-pops]

		for n := 0; n < instr.PushCount(); n++ {
			stack = append(stack, StackValue{Instr: instr, Idx: i})
		}
	}

	if distance > len(stack) {
		return StackValue{}, errors.New(errors.PhaseResolve, errors.KindInternal).
			Offset(at.Offset).
			Detail("stack depth %d, need distance %d", len(stack), distance).
			Build()
	}

	return stack[len(stack)-distance], nil
}
