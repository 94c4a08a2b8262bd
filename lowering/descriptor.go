package lowering

import (
	"fmt"

	"github.com/wippyai/jwasm/ir"
)

// TokenKind discriminates the two shapes of offset/handle identity.
type TokenKind int

const (
	// TokenGlobal identifies an offset stored in a static field. It persists
	// for the whole compilation unit: static-initializer-computed offsets are
	// referenced from many function bodies.
	TokenGlobal TokenKind = iota

	// TokenLocalSlot identifies an offset stored in a local variable slot,
	// scoped to one function body. Occurs when the offset lives in an
	// instance field of a helper object, e.g. jdk.internal.misc.InnocuousThread.
	TokenLocalSlot
)

// Token is the identity key distinguishing which offset or handle a later
// call consumes. One tagged key serves both shapes so the descriptor table
// needs a single map.
type Token struct {
	Kind   TokenKind
	Global ir.GlobalRef
	Slot   int
}

// GlobalToken creates a unit-scoped token for a static field.
func GlobalToken(ref ir.GlobalRef) Token {
	return Token{Kind: TokenGlobal, Global: ref}
}

// LocalToken creates a body-scoped token for a local variable slot.
func LocalToken(slot int) Token {
	return Token{Kind: TokenLocalSlot, Slot: slot}
}

// String returns a diagnostic label for the token.
func (t Token) String() string {
	if t.Kind == TokenGlobal {
		return t.Global.String()
	}
	return fmt.Sprintf("slot#%d", t.Slot)
}

// Descriptor is the resolved identity behind a token: the declaring type and
// the field name. An empty FieldName means array-element mode, with TypeName
// carrying the element type. Once set, a descriptor is never reset.
type Descriptor struct {
	TypeName  string
	FieldName string
}

// Resolved reports whether the definition site of the token has been parsed.
func (d *Descriptor) Resolved() bool {
	return d != nil && d.TypeName != ""
}

// descriptorTable maps tokens to descriptors. Global entries live for the
// compilation unit; local-slot entries are cleared before each function body
// so slot indices of unrelated functions cannot cross-contaminate.
type descriptorTable struct {
	m map[Token]*Descriptor
}

func newDescriptorTable() descriptorTable {
	return descriptorTable{m: make(map[Token]*Descriptor)}
}

// lookup returns the descriptor for tok, creating an empty one on first
// encounter.
func (t descriptorTable) lookup(tok Token) *Descriptor {
	if d, ok := t.m[tok]; ok {
		return d
	}
	d := &Descriptor{}
	t.m[tok] = d
	return d
}

// get returns the descriptor for tok if one exists.
func (t descriptorTable) get(tok Token) (*Descriptor, bool) {
	d, ok := t.m[tok]
	return d, ok
}

func (t descriptorTable) clearLocals() {
	for tok := range t.m {
		if tok.Kind == TokenLocalSlot {
			delete(t.m, tok)
		}
	}
}
