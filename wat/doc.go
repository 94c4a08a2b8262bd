// Package wat emits WebAssembly text for synthesized routine bodies.
//
// The rewrite passes generate small structured-operation routines (field
// loads and stores, element accesses, compare-and-swap sequences) as flat
// token streams:
//
//	body := wat.NewBody().
//		LocalGet(1).
//		StructGet("Foobar", "value").
//		Return().
//		String()
//
// The builder covers only the instruction subset those routines need; it is
// an emitter, not a parser.
package wat
