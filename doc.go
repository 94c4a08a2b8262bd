// Package jwasm provides instruction-rewrite passes for an ahead-of-time
// JVM-bytecode to WebAssembly GC compiler.
//
// The WASM GC target has no raw memory addresses, reflection, or field-offset
// arithmetic, so several JDK API surfaces cannot be translated literally.
// This library recognizes those surfaces in an already-lowered per-function
// instruction sequence and rewrites them into structured field and array
// operations that the target can express.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	jwasm/               Root package documentation
//	├── ir/              Lowered instruction model and operand-stack inspection
//	├── module/          Function, type and class registries shared by passes
//	├── lowering/        The Unsafe/VarHandle call rewrite pass
//	├── wat/             WAT text emission for synthesized routine bodies
//	└── errors/          Structured error types for diagnostics
//
// # Quick Start
//
// Rewrite the bodies of a compilation unit and finalize deferred routines:
//
//	functions := module.NewFunctionRegistry()
//	types := module.NewTypeRegistry(loader)
//	rw := lowering.NewRewriter(lowering.Options{
//		Functions: functions,
//		Types:     types,
//	})
//	for _, body := range bodies {
//		if err := rw.Rewrite(body); err != nil {
//			return err
//		}
//	}
//	if err := rw.Finish(); err != nil {
//		return err
//	}
//
// Every rewrite is length-preserving: instruction counts, source positions and
// previously computed jump targets stay valid.
package jwasm
