package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseScan       Phase = "scan"       // per-body instruction scan
	PhaseResolve    Phase = "resolve"    // operand-stack and producer resolution
	PhaseSynthesize Phase = "synthesize" // routine synthesis
	PhaseFinish     Phase = "finish"     // deferred body materialization
	PhaseLoad       Phase = "load"       // class metadata loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported        Kind = "unsupported"
	KindUnresolvedProducer Kind = "unresolved_producer"
	KindUnresolvedAtFinish Kind = "unresolved_at_finish"
	KindAmbiguousCandidate Kind = "ambiguous_candidate"
	KindNotFound           Kind = "not_found"
	KindInvalidData        Kind = "invalid_data"
	KindInternal           Kind = "internal"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Signature string
	Detail    string
	Offset    int // byte position in the original bytecode, -1 when unknown
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Signature != "" {
		b.WriteString(": ")
		b.WriteString(e.Signature)
	}

	if e.Detail != "" {
		if e.Signature != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the context path, e.g. declaring type and field
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Signature sets the fully-qualified call signature
func (b *Builder) Signature(sig string) *Builder {
	b.err.Signature = sig
	return b
}

// Offset sets the bytecode position
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unsupported creates an error for a call on a recognized declaring type
// whose signature is not in the rewrite catalog
func Unsupported(phase Phase, signature string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindUnsupported,
		Signature: signature,
		Offset:    -1,
	}
}

// UnresolvedProducer creates an error for an offset or handle operand whose
// producing instruction cannot be classified
func UnresolvedProducer(detail string, offset int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnresolvedProducer,
		Detail: detail,
		Offset: offset,
	}
}

// UnresolvedAtFinish creates an error for a synthesized routine whose
// descriptor is still unresolved after the scan phase closed
func UnresolvedAtFinish(signature string) *Error {
	return &Error{
		Phase:     PhaseFinish,
		Kind:      KindUnresolvedAtFinish,
		Signature: signature,
		Detail:    "no resolved descriptor for synthesized routine",
		Offset:    -1,
	}
}

// AmbiguousCandidate creates an error for a computed-bucket use site where
// more than one candidate token resolves
func AmbiguousCandidate(signature string, candidates []string) *Error {
	return &Error{
		Phase:     PhaseFinish,
		Kind:      KindAmbiguousCandidate,
		Signature: signature,
		Detail:    fmt.Sprintf("%d resolved candidates: %s", len(candidates), strings.Join(candidates, ", ")),
		Offset:    -1,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Offset: -1,
	}
}

// Internal creates an internal-consistency error
func Internal(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: fmt.Sprintf(detail, args...),
		Offset: -1,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
		Offset: -1,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		Offset: -1,
	}
}
