package wat

import "testing"

func TestBody_FieldGet(t *testing.T) {
	got := NewBody().
		LocalGet(1).
		StructGet("Foobar", "value").
		Return().
		String()
	want := "local.get 1 struct.get Foobar value return"
	if got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestBody_ArrayStore(t *testing.T) {
	got := NewBody().
		LocalGet(1).
		LocalGet(2).
		WrapI64().
		LocalGet(3).
		ArraySet("java/lang/Object").
		String()
	want := "local.get 1 local.get 2 i32.wrap_i64 local.get 3 array.set java/lang/Object"
	if got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestBody_CompareAndSwap(t *testing.T) {
	got := NewBody().
		LocalGet(1).
		StructGet("T", "f").
		LocalGet(3).
		Eq("i32").
		If().
		LocalGet(1).
		LocalGet(4).
		StructSet("T", "f").
		ConstI32(1).
		Return().
		End().
		ConstI32(0).
		Return().
		String()
	want := "local.get 1 struct.get T f local.get 3 i32.eq if local.get 1 local.get 4 struct.set T f i32.const 1 return end i32.const 0 return"
	if got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestBody_TypedOps(t *testing.T) {
	if got := NewBody().Eq("ref").String(); got != "ref.eq" {
		t.Errorf("ref eq = %q", got)
	}
	if got := NewBody().Add("i64").String(); got != "i64.add" {
		t.Errorf("i64 add = %q", got)
	}
	if got := NewBody().Or("i32").String(); got != "i32.or" {
		t.Errorf("i32 or = %q", got)
	}
	if got := NewBody().LocalTee(4).String(); got != "local.tee 4" {
		t.Errorf("tee = %q", got)
	}
	if got := NewBody().Unreachable().String(); got != "unreachable" {
		t.Errorf("unreachable = %q", got)
	}
}
