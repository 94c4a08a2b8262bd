// Package ir models the lowered per-function instruction sequences that
// rewrite passes operate on, together with the operand-stack inspection
// needed to recover where a stack value was produced.
//
// # Instruction Model
//
// A function body is an ordered, index-stable []Instruction. Passes replace
// entries in place and never insert or remove, so source positions and
// previously computed jump targets stay valid. Each instruction carries a
// discriminated Kind, an immutable Pos and kind-specific operands:
//
//	Nop           erased placeholder
//	ConstNumber   numeric constant
//	ConstString   string literal
//	ConstClass    class literal (Foobar.class)
//	Local         local slot access (get/set/tee)
//	Global        static field access lowered to a module global
//	Jump          branch to a bytecode position
//	Convert       pure value conversion
//	Numeric       two-operand arithmetic
//	DupReceiver   receiver duplication for virtual dispatch
//	Call          function call with inferred operand types
//
// # Stack Inspection
//
// FindPushInstruction walks a sequence forward, simulating the stack effect
// of every instruction, and returns the one that pushed the value a given
// distance from the top of the stack at a given position. Unconditional
// forward jumps are followed to their reconvergence point so values produced
// behind guards are still found.
package ir
