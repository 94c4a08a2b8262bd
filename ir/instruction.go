package ir

// Kind discriminates lowered instruction nodes.
type Kind int

const (
	KindNop Kind = iota
	KindConstNumber
	KindConstString
	KindConstClass
	KindLocal
	KindGlobal
	KindJump
	KindConvert
	KindNumeric
	KindDupReceiver
	KindCall
)

// String returns a short name for the kind, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNop:
		return "nop"
	case KindConstNumber:
		return "const"
	case KindConstString:
		return "const_string"
	case KindConstClass:
		return "const_class"
	case KindLocal:
		return "local"
	case KindGlobal:
		return "global"
	case KindJump:
		return "jump"
	case KindConvert:
		return "convert"
	case KindNumeric:
		return "numeric"
	case KindDupReceiver:
		return "dup_receiver"
	case KindCall:
		return "call"
	}
	return "unknown"
}

// Pos is an immutable source position: the byte offset of the originating
// bytecode instruction plus the source line number.
type Pos struct {
	Offset int
	Line   int
}

// Instruction is one node of a lowered function body. Rewrite passes replace
// entries of the sequence in place and never insert or remove.
type Instruction interface {
	Kind() Kind
	Position() Pos

	// PopCount and PushCount describe the operand-stack effect, used by the
	// stack inspector to walk values backward through the sequence.
	PopCount() int
	PushCount() int
}

// Nop is a placeholder for an erased instruction. It keeps the position of
// the instruction it replaced so jump targets stay valid.
type Nop struct {
	Pos Pos
}

func (n *Nop) Kind() Kind     { return KindNop }
func (n *Nop) Position() Pos  { return n.Pos }
func (n *Nop) PopCount() int  { return 0 }
func (n *Nop) PushCount() int { return 0 }

// ConstNumber pushes a numeric constant.
type ConstNumber struct {
	Value int64
	Type  ValueType
	Pos   Pos
}

func (c *ConstNumber) Kind() Kind     { return KindConstNumber }
func (c *ConstNumber) Position() Pos  { return c.Pos }
func (c *ConstNumber) PopCount() int  { return 0 }
func (c *ConstNumber) PushCount() int { return 1 }

// ConstString pushes a string literal reference.
type ConstString struct {
	Value string
	Pos   Pos
}

func (c *ConstString) Kind() Kind     { return KindConstString }
func (c *ConstString) Position() Pos  { return c.Pos }
func (c *ConstString) PopCount() int  { return 0 }
func (c *ConstString) PushCount() int { return 1 }

// ConstClass pushes a class literal, e.g. Foobar.class. The name uses the
// internal slash form like "java/lang/String".
type ConstClass struct {
	Name string
	Pos  Pos
}

func (c *ConstClass) Kind() Kind     { return KindConstClass }
func (c *ConstClass) Position() Pos  { return c.Pos }
func (c *ConstClass) PopCount() int  { return 0 }
func (c *ConstClass) PushCount() int { return 1 }

// LocalOp is the access direction of a Local instruction.
type LocalOp int

const (
	LocalGet LocalOp = iota
	LocalSet
	LocalTee
)

// Local reads or writes a local variable slot.
type Local struct {
	Op   LocalOp
	Slot int
	Type ValueType
	Pos  Pos
}

func (l *Local) Kind() Kind    { return KindLocal }
func (l *Local) Position() Pos { return l.Pos }

func (l *Local) PopCount() int {
	if l.Op == LocalGet {
		return 0
	}
	return 1
}

func (l *Local) PushCount() int {
	if l.Op == LocalSet {
		return 0
	}
	return 1
}

// GlobalRef names a static field lowered to a module global.
type GlobalRef struct {
	Class string
	Name  string
}

// String returns the qualified "Class.Name" form.
func (g GlobalRef) String() string {
	return g.Class + "." + g.Name
}

// GlobalOp is the access direction of a Global instruction.
type GlobalOp int

const (
	GlobalGet GlobalOp = iota
	GlobalSet
)

// Global reads or writes a module global backing a static field.
type Global struct {
	Op  GlobalOp
	Ref GlobalRef
	Pos Pos
}

func (g *Global) Kind() Kind    { return KindGlobal }
func (g *Global) Position() Pos { return g.Pos }

func (g *Global) PopCount() int {
	if g.Op == GlobalSet {
		return 1
	}
	return 0
}

func (g *Global) PushCount() int {
	if g.Op == GlobalGet {
		return 1
	}
	return 0
}

// Jump transfers control to the instruction at or past Target, a byte offset
// in the original bytecode. Conditional jumps consume one i32 operand.
type Jump struct {
	Target      int
	Conditional bool
	Pos         Pos
}

func (j *Jump) Kind() Kind    { return KindJump }
func (j *Jump) Position() Pos { return j.Pos }

func (j *Jump) PopCount() int {
	if j.Conditional {
		return 1
	}
	return 0
}

func (j *Jump) PushCount() int { return 0 }

// Convert is a pure value conversion, e.g. i64 extension of an i32 offset.
type Convert struct {
	From ValueType
	To   ValueType
	Pos  Pos
}

func (c *Convert) Kind() Kind     { return KindConvert }
func (c *Convert) Position() Pos  { return c.Pos }
func (c *Convert) PopCount() int  { return 1 }
func (c *Convert) PushCount() int { return 1 }

// NumericOp is a two-operand arithmetic or bitwise operation.
type NumericOp int

const (
	NumericAdd NumericOp = iota
	NumericSub
	NumericMul
	NumericAnd
	NumericOr
	NumericShl
	NumericShr
)

// Numeric applies a two-operand numeric operation.
type Numeric struct {
	Op   NumericOp
	Type ValueType
	Pos  Pos
}

func (n *Numeric) Kind() Kind     { return KindNumeric }
func (n *Numeric) Position() Pos  { return n.Pos }
func (n *Numeric) PopCount() int  { return 2 }
func (n *Numeric) PushCount() int { return 1 }

// DupReceiver duplicates the receiver of a virtual call. An earlier lowering
// pass inserts it because virtual dispatch needs the receiver twice: once for
// the dispatch table lookup and once as the implicit first argument. It is
// tied to its call so rewrite passes can locate and erase it.
type DupReceiver struct {
	Call *Call
	Pos  Pos
}

func (d *DupReceiver) Kind() Kind     { return KindDupReceiver }
func (d *DupReceiver) Position() Pos  { return d.Pos }
func (d *DupReceiver) PopCount() int  { return 0 }
func (d *DupReceiver) PushCount() int { return 1 }

// FuncName identifies a function by declaring class, method name and the
// JVM-style signature string.
type FuncName struct {
	Class     string
	Method    string
	Signature string
}

// Qualified returns the full "Class.Method(Sig)" form used for catalog lookup
// and diagnostics.
func (n FuncName) Qualified() string {
	return n.Class + "." + n.Method + n.Signature
}

// Call invokes a function. OperandTypes holds the inferred type of every
// popped value in push order, including the receiver for instance calls.
// Virtual calls additionally consume the duplicate receiver pushed by a
// DupReceiver instruction.
type Call struct {
	Name         FuncName
	OperandTypes []ValueType
	Result       ValueType // TypeVoid when the call returns nothing
	Virtual      bool
	Pos          Pos
}

func (c *Call) Kind() Kind    { return KindCall }
func (c *Call) Position() Pos { return c.Pos }

func (c *Call) PopCount() int {
	n := len(c.OperandTypes)
	if c.Virtual {
		n++
	}
	return n
}

func (c *Call) PushCount() int {
	if c.Result == TypeVoid {
		return 0
	}
	return 1
}
