package ir

import "testing"

func TestStackEffects(t *testing.T) {
	call := &Call{
		Name:         FuncName{Class: "sun/misc/Unsafe", Method: "getInt", Signature: "(Ljava/lang/Object;J)I"},
		OperandTypes: []ValueType{TypeRef, TypeRef, TypeI64},
		Result:       TypeI32,
		Virtual:      true,
	}

	tests := []struct {
		name  string
		instr Instruction
		pops  int
		pushs int
	}{
		{"nop", &Nop{}, 0, 0},
		{"const", &ConstNumber{Value: 5, Type: TypeI32}, 0, 1},
		{"local get", &Local{Op: LocalGet, Slot: 1}, 0, 1},
		{"local set", &Local{Op: LocalSet, Slot: 1}, 1, 0},
		{"local tee", &Local{Op: LocalTee, Slot: 1}, 1, 1},
		{"global get", &Global{Op: GlobalGet}, 0, 1},
		{"global set", &Global{Op: GlobalSet}, 1, 0},
		{"jump", &Jump{Target: 10}, 0, 0},
		{"conditional jump", &Jump{Target: 10, Conditional: true}, 1, 0},
		{"convert", &Convert{From: TypeI32, To: TypeI64}, 1, 1},
		{"numeric", &Numeric{Op: NumericAdd, Type: TypeI64}, 2, 1},
		{"dup receiver", &DupReceiver{Call: call}, 0, 1},
		{"virtual call", call, 4, 1}, // 3 operands + duplicated receiver
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.instr.PopCount(); got != tt.pops {
				t.Errorf("PopCount = %d, want %d", got, tt.pops)
			}
			if got := tt.instr.PushCount(); got != tt.pushs {
				t.Errorf("PushCount = %d, want %d", got, tt.pushs)
			}
		})
	}
}

func TestCall_StaticVoid(t *testing.T) {
	call := &Call{
		Name:         FuncName{Class: "sun/misc/Unsafe", Method: "park", Signature: "(ZJ)V"},
		OperandTypes: []ValueType{TypeRef, TypeI32, TypeI64},
		Result:       TypeVoid,
	}
	if call.PopCount() != 3 {
		t.Errorf("PopCount = %d, want 3", call.PopCount())
	}
	if call.PushCount() != 0 {
		t.Errorf("PushCount = %d, want 0 for void result", call.PushCount())
	}
}

func TestFuncName_Qualified(t *testing.T) {
	n := FuncName{Class: "jdk/internal/misc/Unsafe", Method: "getLong", Signature: "(Ljava/lang/Object;J)J"}
	want := "jdk/internal/misc/Unsafe.getLong(Ljava/lang/Object;J)J"
	if got := n.Qualified(); got != want {
		t.Errorf("Qualified = %q, want %q", got, want)
	}
}

func TestValueType_String(t *testing.T) {
	tests := []struct {
		vt   ValueType
		want string
	}{
		{TypeI32, "i32"},
		{TypeI64, "i64"},
		{TypeF32, "f32"},
		{TypeF64, "f64"},
		{TypeRef, "ref"},
		{TypeExtern, "extern"},
		{TypeVoid, "void"},
	}
	for _, tt := range tests {
		if got := tt.vt.String(); got != tt.want {
			t.Errorf("ValueType(%#x).String() = %q, want %q", byte(tt.vt), got, tt.want)
		}
	}
}

func TestStorageType_ValueOf(t *testing.T) {
	packed := StorageType{Kind: StorageKindPacked, Packed: PackedI8}
	if packed.ValueOf() != TypeI32 {
		t.Errorf("packed field loads as %v, want i32", packed.ValueOf())
	}
	refTyp := StorageType{Kind: StorageKindRef, RefName: "java/lang/String"}
	if refTyp.ValueOf() != TypeRef {
		t.Errorf("ref field loads as %v, want ref", refTyp.ValueOf())
	}
	val := StorageType{Kind: StorageKindVal, ValType: TypeF64}
	if val.ValueOf() != TypeF64 {
		t.Errorf("value field loads as %v, want f64", val.ValueOf())
	}
}
