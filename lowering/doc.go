// Package lowering rewrites offset-based memory accesses in lowered JVM
// instruction streams into structured field and array operations.
//
// The JVM concurrency classes sun.misc.Unsafe, jdk.internal.misc.Unsafe,
// AtomicReferenceFieldUpdater and VarHandle address fields through numeric
// offsets and raw handles. A pointer-free structured target has no memory
// addresses, so every recognized call is replaced in place: definition sites
// (objectFieldOffset, newUpdater, findVarHandle) resolve to a type/field
// descriptor and are erased, and use sites (get, put, compareAndSet, ...)
// are redirected to synthesized routines that perform the equivalent
// struct.get/struct.set/array.get/array.set sequence.
//
// # Main Types
//
//   - Rewriter: the in-place rewrite pass, one instance per compilation unit
//   - Descriptor: resolved type/field target of an offset or handle
//   - Token: key of a descriptor, a global field or a local slot
//
// # Phases
//
//  1. Scan: Rewrite is called once per lowered body. Definition sites
//     populate descriptors; use sites register routines and defer body
//     generation, since the defining static initializer may be scanned
//     later than the first use.
//  2. Finish: Finish closes the scan and generates every deferred routine
//     body. Unresolved or ambiguous handles fail here.
//
// # Rewrite Shape
//
// Every replacement is 1:1 in instruction count: erased instructions become
// explicit no-ops, folded calls become constants at the call's position and
// redirected calls keep the original operand and result shape. Instruction
// positions of untouched code never move.
//
// # Example
//
//	rw := NewRewriter(Options{Functions: funcs, Types: types})
//	for _, body := range bodies {
//		if err := rw.Rewrite(body); err != nil {
//			return err
//		}
//	}
//	if err := rw.Finish(); err != nil {
//		return err
//	}
package lowering
