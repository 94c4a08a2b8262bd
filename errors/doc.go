// Package errors provides structured error types for the jwasm library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: call signature, bytecode
// offset, a context path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseScan, errors.KindUnsupported).
//		Signature("sun/misc/Unsafe.defineClass(...)").
//		Detail("not in the rewrite catalog").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unsupported(errors.PhaseScan, signature)
//	err := errors.UnresolvedProducer("jump into untracked region", offset)
//
// All errors implement the standard error interface and support errors.Is/As.
// Every kind here is fatal for the surrounding compilation: emitting incorrect
// memory-access code would silently corrupt program semantics, so callers must
// not recover and retry.
package errors
