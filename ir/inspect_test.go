package ir

import (
	"errors"
	"testing"

	jwerrors "github.com/wippyai/jwasm/errors"
)

// seq assigns increasing byte offsets to a hand-built instruction list.
func seq(instrs ...Instruction) []Instruction {
	for i, instr := range instrs {
		pos := Pos{Offset: i * 4, Line: i + 1}
		switch v := instr.(type) {
		case *Nop:
			v.Pos = pos
		case *ConstNumber:
			v.Pos = pos
		case *ConstString:
			v.Pos = pos
		case *ConstClass:
			v.Pos = pos
		case *Local:
			v.Pos = pos
		case *Global:
			v.Pos = pos
		case *Jump:
			v.Pos = pos
		case *Convert:
			v.Pos = pos
		case *Numeric:
			v.Pos = pos
		case *DupReceiver:
			v.Pos = pos
		case *Call:
			v.Pos = pos
		}
	}
	return instrs
}

func TestFindPushInstruction_Simple(t *testing.T) {
	body := seq(
		&Global{Op: GlobalGet, Ref: GlobalRef{Class: "X", Name: "UNSAFE"}},
		&Local{Op: LocalGet, Slot: 1},
		&Global{Op: GlobalGet, Ref: GlobalRef{Class: "X", Name: "OFFSET"}},
		&ConstNumber{Value: 7, Type: TypeI32},
	)
	at := Pos{Offset: 100}

	sv, err := FindPushInstruction(body, 1, at)
	if err != nil {
		t.Fatalf("distance 1: %v", err)
	}
	if c, ok := sv.Instr.(*ConstNumber); !ok || c.Value != 7 {
		t.Errorf("distance 1 = %T, want the const 7", sv.Instr)
	}

	sv, err = FindPushInstruction(body, 2, at)
	if err != nil {
		t.Fatalf("distance 2: %v", err)
	}
	if g, ok := sv.Instr.(*Global); !ok || g.Ref.Name != "OFFSET" {
		t.Errorf("distance 2 = %T, want global OFFSET", sv.Instr)
	}
	if sv.Idx != 2 {
		t.Errorf("distance 2 idx = %d, want 2", sv.Idx)
	}

	sv, err = FindPushInstruction(body, 4, at)
	if err != nil {
		t.Fatalf("distance 4: %v", err)
	}
	if g, ok := sv.Instr.(*Global); !ok || g.Ref.Name != "UNSAFE" {
		t.Errorf("distance 4 = %T, want global UNSAFE", sv.Instr)
	}
}

func TestFindPushInstruction_PopsConsumeValues(t *testing.T) {
	// const, const, add -> single value produced by the add
	body := seq(
		&ConstNumber{Value: 1, Type: TypeI64},
		&ConstNumber{Value: 2, Type: TypeI64},
		&Numeric{Op: NumericAdd, Type: TypeI64},
	)

	sv, err := FindPushInstruction(body, 1, Pos{Offset: 100})
	if err != nil {
		t.Fatalf("FindPushInstruction: %v", err)
	}
	if _, ok := sv.Instr.(*Numeric); !ok {
		t.Errorf("producer = %T, want the numeric add", sv.Instr)
	}

	if _, err := FindPushInstruction(body, 2, Pos{Offset: 100}); err == nil {
		t.Error("expected error for distance past stack depth")
	}
}

func TestFindPushInstruction_SkipsGuardBranch(t *testing.T) {
	// A guard whose branches reconverge: the unconditional jump at index 2
	// skips the dead const at index 3.
	body := seq(
		&ConstNumber{Value: 1, Type: TypeI32}, // offset 0
		&Jump{Target: 12, Conditional: true},  // offset 4, consumes the guard
		&Jump{Target: 16},                     // offset 8, skips next
		&ConstNumber{Value: 99, Type: TypeI32}, // offset 12, branch-only value
		&ConstNumber{Value: 42, Type: TypeI64}, // offset 16, reconverged
	)

	sv, err := FindPushInstruction(body, 1, Pos{Offset: 100})
	if err != nil {
		t.Fatalf("FindPushInstruction: %v", err)
	}
	if c, ok := sv.Instr.(*ConstNumber); !ok || c.Value != 42 {
		t.Errorf("producer = %v, want const 42 past the guard", sv.Instr)
	}
}

func TestFindPushInstruction_StopsAtPosition(t *testing.T) {
	body := seq(
		&ConstNumber{Value: 1, Type: TypeI32}, // offset 0
		&ConstNumber{Value: 2, Type: TypeI32}, // offset 4
		&ConstNumber{Value: 3, Type: TypeI32}, // offset 8
	)

	sv, err := FindPushInstruction(body, 1, Pos{Offset: 8})
	if err != nil {
		t.Fatalf("FindPushInstruction: %v", err)
	}
	if c := sv.Instr.(*ConstNumber); c.Value != 2 {
		t.Errorf("producer value = %d, want 2 (const 3 is at the query position)", c.Value)
	}
}

func TestFindPushInstruction_Underflow(t *testing.T) {
	body := seq(
		&Local{Op: LocalSet, Slot: 0}, // pops from an empty stack
	)

	_, err := FindPushInstruction(body, 1, Pos{Offset: 100})
	if err == nil {
		t.Fatal("expected underflow error")
	}
	if !errors.Is(err, &jwerrors.Error{Phase: jwerrors.PhaseResolve, Kind: jwerrors.KindInternal}) {
		t.Errorf("error = %v, want resolve/internal", err)
	}
}

func TestFindPushInstruction_BadDistance(t *testing.T) {
	if _, err := FindPushInstruction(nil, 0, Pos{}); err == nil {
		t.Error("expected error for distance 0")
	}
}
