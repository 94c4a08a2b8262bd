package wat

import (
	"strconv"
	"strings"
)

// Body assembles the text of a synthesized routine as a flat token stream,
// the form the emitter consumes for generated function bodies.
type Body struct {
	toks []string
}

// NewBody creates an empty body.
func NewBody() *Body {
	return &Body{}
}

func (b *Body) raw(toks ...string) *Body {
	b.toks = append(b.toks, toks...)
	return b
}

// LocalGet pushes local i.
func (b *Body) LocalGet(i int) *Body {
	return b.raw("local.get", strconv.Itoa(i))
}

// LocalTee writes local i keeping the value on the stack.
func (b *Body) LocalTee(i int) *Body {
	return b.raw("local.tee", strconv.Itoa(i))
}

// StructGet loads a named field of a struct type.
func (b *Body) StructGet(typeName, fieldName string) *Body {
	return b.raw("struct.get", typeName, fieldName)
}

// StructSet stores into a named field of a struct type.
func (b *Body) StructSet(typeName, fieldName string) *Body {
	return b.raw("struct.set", typeName, fieldName)
}

// ArrayGet loads an element of an array type.
func (b *Body) ArrayGet(typeName string) *Body {
	return b.raw("array.get", typeName)
}

// ArraySet stores an element of an array type.
func (b *Body) ArraySet(typeName string) *Body {
	return b.raw("array.set", typeName)
}

// WrapI64 narrows an i64 to i32.
func (b *Body) WrapI64() *Body {
	return b.raw("i32.wrap_i64")
}

// ConstI32 pushes an i32 constant.
func (b *Body) ConstI32(v int64) *Body {
	return b.raw("i32.const", strconv.FormatInt(v, 10))
}

// Eq emits a typed equality comparison, e.g. "i32.eq" or "ref.eq".
func (b *Body) Eq(valType string) *Body {
	return b.raw(valType + ".eq")
}

// Add emits a typed addition.
func (b *Body) Add(valType string) *Body {
	return b.raw(valType + ".add")
}

// Or emits a typed bitwise or.
func (b *Body) Or(valType string) *Body {
	return b.raw(valType + ".or")
}

// If opens a conditional block.
func (b *Body) If() *Body {
	return b.raw("if")
}

// End closes the innermost block.
func (b *Body) End() *Body {
	return b.raw("end")
}

// Return returns from the routine.
func (b *Body) Return() *Body {
	return b.raw("return")
}

// Unreachable emits a trapping instruction, used for routines that are
// declared but intentionally not implementable on the target.
func (b *Body) Unreachable() *Body {
	return b.raw("unreachable")
}

// String returns the assembled body text.
func (b *Body) String() string {
	return strings.Join(b.toks, " ")
}
