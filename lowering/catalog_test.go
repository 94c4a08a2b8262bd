package lowering

import (
	"testing"

	"github.com/wippyai/jwasm/ir"
)

func TestLookupCatalog(t *testing.T) {
	spec, ok := lookupCatalog(ir.FuncName{
		Class:     classUnsafe8,
		Method:    "compareAndSwapInt",
		Signature: "(Ljava/lang/Object;JII)Z",
	})
	if !ok {
		t.Fatal("exact signature not found")
	}
	if spec.op != opAccess || spec.access != accessCompareAndSwap || spec.dist != 3 {
		t.Errorf("compareAndSwapInt spec = %+v", spec)
	}

	// Signature-polymorphic methods match on the bare name whatever the
	// call-site signature says.
	spec, ok = lookupCatalog(ir.FuncName{
		Class:     classVarHandle,
		Method:    "compareAndSet",
		Signature: "(Lcom/example/Node;Lcom/example/Node;Lcom/example/Node;)Z",
	})
	if !ok {
		t.Fatal("polymorphic method not found")
	}
	if spec.op != opAccess || spec.access != accessCompareAndSwap || spec.dist != 0 {
		t.Errorf("VarHandle.compareAndSet spec = %+v", spec)
	}

	if _, ok := lookupCatalog(ir.FuncName{Class: classUnsafe8, Method: "allocateMemory", Signature: "(J)J"}); ok {
		t.Error("allocateMemory should not resolve")
	}
}

func TestRecognizedClass(t *testing.T) {
	for _, class := range []string{
		classUnsafe8, classUnsafe11, classFieldUpdater,
		classVarHandle, classMethodHandles, classLookup,
	} {
		if !recognizedClass(class) {
			t.Errorf("%s not recognized", class)
		}
	}
	if recognizedClass("java/lang/String") {
		t.Error("java/lang/String recognized")
	}
}
