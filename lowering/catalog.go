package lowering

import (
	"github.com/wippyai/jwasm/ir"
)

// Declaring types whose calls this pass recognizes.
const (
	classUnsafe8       = "sun/misc/Unsafe"
	classUnsafe11      = "jdk/internal/misc/Unsafe"
	classFieldUpdater  = "java/util/concurrent/atomic/AtomicReferenceFieldUpdater"
	classVarHandle     = "java/lang/invoke/VarHandle"
	classMethodHandles = "java/lang/invoke/MethodHandles"
	classLookup        = "java/lang/invoke/MethodHandles$Lookup"
)

// opKind selects the patch routine for a catalog entry.
type opKind int

const (
	opAcquireSingleton   opKind = iota // getUnsafe(): erase call and singleton store
	opDefineField                      // definition site with direct class + field-name literals
	opDefineFieldIndirect              // definition site via Class.getDeclaredField
	opDefineArray                      // array handle definition: descriptor only
	opArrayBase                        // arrayBaseOffset: descriptor + constant 0
	opArrayScale                       // arrayIndexScale: constant 1
	opAccess                           // use site: synthesize structured operation
	opConst                            // fold call to a constant
	opRemove                           // erase call and argument producers
	opNopCall                          // erase the call and its operand producers, if any
	opTrap                             // redirect to a trapping routine
	opKeep                             // leave in place, erased by a later definition site
)

// accessOp selects the generated routine shape for opAccess entries.
type accessOp int

const (
	accessGet accessOp = iota
	accessPut
	accessCompareAndSwap
	accessGetAndAdd
	accessGetAndSet
	accessGetAndBitwiseOr
)

// patchSpec is one catalog entry. Distances count operand-stack values from
// the top (1-based) at the call site; spans and argument distances locate the
// first argument-producing instruction for erasure.
type patchSpec struct {
	op     opKind
	access accessOp

	// dist is the stack distance of the offset/handle operand at a use site.
	// 0 means the call's own pop count (signature-polymorphic VarHandle
	// methods carry the handle as the bottom operand).
	dist int

	// span is the stack distance of the first erased argument for opRemove
	// and opConst.
	span int

	// argSpan, fieldDist and classDist locate definition-site arguments:
	// the full argument span, the field-name string and the class literal.
	argSpan   int
	fieldDist int
	classDist int

	// value is the substituted constant for opConst.
	value int64
}

// catalog maps recognized calls to their patch routine. Unsafe and updater
// entries key on the fully-qualified signature; VarHandle methods are
// signature-polymorphic and key on "Class.Method". Any call on a recognized
// declaring type that resolves to no entry is a fatal unsupported operation:
// silently skipping would leave unmodeled instructions that fail at emission
// with no diagnostic context. New signatures are catalog additions, not new
// control paths.
var catalog = map[string]patchSpec{
	// --- singleton acquisition ---
	"sun/misc/Unsafe.getUnsafe()Lsun/misc/Unsafe;":                   {op: opAcquireSingleton},
	"jdk/internal/misc/Unsafe.getUnsafe()Ljdk/internal/misc/Unsafe;": {op: opAcquireSingleton},

	// --- definition sites ---
	"sun/misc/Unsafe.objectFieldOffset(Ljava/lang/reflect/Field;)J":          {op: opDefineFieldIndirect, argSpan: 2},
	"jdk/internal/misc/Unsafe.objectFieldOffset(Ljava/lang/reflect/Field;)J": {op: opDefineFieldIndirect, argSpan: 2},
	"jdk/internal/misc/Unsafe.objectFieldOffset(Ljava/lang/Class;Ljava/lang/String;)J": {
		op: opDefineField, argSpan: 3, fieldDist: 1, classDist: 2,
	},
	"java/util/concurrent/atomic/AtomicReferenceFieldUpdater.newUpdater(Ljava/lang/Class;Ljava/lang/Class;Ljava/lang/String;)Ljava/util/concurrent/atomic/AtomicReferenceFieldUpdater;": {
		op: opDefineField, argSpan: 3, fieldDist: 1, classDist: 3,
	},
	// lookup() feeds findVarHandle, whose erasure span covers it.
	"java/lang/invoke/MethodHandles.lookup": {op: opKeep},
	"java/lang/invoke/MethodHandles$Lookup.findVarHandle": {
		op: opDefineField, argSpan: 4, fieldDist: 2, classDist: 3,
	},
	"java/lang/invoke/MethodHandles.arrayElementVarHandle": {op: opDefineArray, argSpan: 1, classDist: 1},

	"sun/misc/Unsafe.arrayBaseOffset(Ljava/lang/Class;)I":          {op: opArrayBase, argSpan: 2, classDist: 1},
	"jdk/internal/misc/Unsafe.arrayBaseOffset(Ljava/lang/Class;)I": {op: opArrayBase, argSpan: 2, classDist: 1},
	"sun/misc/Unsafe.arrayIndexScale(Ljava/lang/Class;)I":          {op: opArrayScale, argSpan: 2},
	"jdk/internal/misc/Unsafe.arrayIndexScale(Ljava/lang/Class;)I": {op: opArrayScale, argSpan: 2},

	// --- plain loads, offset on top of the stack ---
	"sun/misc/Unsafe.getObjectVolatile(Ljava/lang/Object;J)Ljava/lang/Object;":       {op: opAccess, access: accessGet, dist: 1},
	"sun/misc/Unsafe.getInt(Ljava/lang/Object;J)I":                                   {op: opAccess, access: accessGet, dist: 1},
	"sun/misc/Unsafe.getLong(Ljava/lang/Object;J)J":                                  {op: opAccess, access: accessGet, dist: 1},
	"jdk/internal/misc/Unsafe.getInt(Ljava/lang/Object;J)I":                          {op: opAccess, access: accessGet, dist: 1},
	"jdk/internal/misc/Unsafe.getLong(Ljava/lang/Object;J)J":                         {op: opAccess, access: accessGet, dist: 1},
	"jdk/internal/misc/Unsafe.getObject(Ljava/lang/Object;J)Ljava/lang/Object;":      {op: opAccess, access: accessGet, dist: 1},
	"jdk/internal/misc/Unsafe.getObjectAcquire(Ljava/lang/Object;J)Ljava/lang/Object;": {op: opAccess, access: accessGet, dist: 1},

	// --- stores and exchange ops, offset second from top ---
	"sun/misc/Unsafe.putOrderedInt(Ljava/lang/Object;JI)V":                                    {op: opAccess, access: accessPut, dist: 2},
	"sun/misc/Unsafe.putInt(Ljava/lang/Object;JI)V":                                           {op: opAccess, access: accessPut, dist: 2},
	"sun/misc/Unsafe.putOrderedLong(Ljava/lang/Object;JJ)V":                                   {op: opAccess, access: accessPut, dist: 2},
	"sun/misc/Unsafe.putLong(Ljava/lang/Object;JJ)V":                                          {op: opAccess, access: accessPut, dist: 2},
	"sun/misc/Unsafe.putOrderedObject(Ljava/lang/Object;JLjava/lang/Object;)V":                {op: opAccess, access: accessPut, dist: 2},
	"sun/misc/Unsafe.putObjectVolatile(Ljava/lang/Object;JLjava/lang/Object;)V":               {op: opAccess, access: accessPut, dist: 2},
	"sun/misc/Unsafe.putObject(Ljava/lang/Object;JLjava/lang/Object;)V":                       {op: opAccess, access: accessPut, dist: 2},
	"jdk/internal/misc/Unsafe.putIntRelease(Ljava/lang/Object;JI)V":                           {op: opAccess, access: accessPut, dist: 2},
	"jdk/internal/misc/Unsafe.putInt(Ljava/lang/Object;JI)V":                                  {op: opAccess, access: accessPut, dist: 2},
	"jdk/internal/misc/Unsafe.putLongRelease(Ljava/lang/Object;JJ)V":                          {op: opAccess, access: accessPut, dist: 2},
	"jdk/internal/misc/Unsafe.putLongVolatile(Ljava/lang/Object;JJ)V":                         {op: opAccess, access: accessPut, dist: 2},
	"jdk/internal/misc/Unsafe.putLong(Ljava/lang/Object;JJ)V":                                 {op: opAccess, access: accessPut, dist: 2},
	"jdk/internal/misc/Unsafe.putObject(Ljava/lang/Object;JLjava/lang/Object;)V":              {op: opAccess, access: accessPut, dist: 2},
	"jdk/internal/misc/Unsafe.putObjectRelease(Ljava/lang/Object;JLjava/lang/Object;)V":       {op: opAccess, access: accessPut, dist: 2},
	"sun/misc/Unsafe.getAndAddInt(Ljava/lang/Object;JI)I":                                     {op: opAccess, access: accessGetAndAdd, dist: 2},
	"sun/misc/Unsafe.getAndAddLong(Ljava/lang/Object;JJ)J":                                    {op: opAccess, access: accessGetAndAdd, dist: 2},
	"jdk/internal/misc/Unsafe.getAndAddInt(Ljava/lang/Object;JI)I":                            {op: opAccess, access: accessGetAndAdd, dist: 2},
	"jdk/internal/misc/Unsafe.getAndAddLong(Ljava/lang/Object;JJ)J":                           {op: opAccess, access: accessGetAndAdd, dist: 2},
	"sun/misc/Unsafe.getAndSetInt(Ljava/lang/Object;JI)I":                                     {op: opAccess, access: accessGetAndSet, dist: 2},
	"sun/misc/Unsafe.getAndSetLong(Ljava/lang/Object;JJ)J":                                    {op: opAccess, access: accessGetAndSet, dist: 2},
	"sun/misc/Unsafe.getAndSetObject(Ljava/lang/Object;JLjava/lang/Object;)Ljava/lang/Object;": {op: opAccess, access: accessGetAndSet, dist: 2},
	"jdk/internal/misc/Unsafe.getAndSetInt(Ljava/lang/Object;JI)I":                            {op: opAccess, access: accessGetAndSet, dist: 2},
	"jdk/internal/misc/Unsafe.getAndSetLong(Ljava/lang/Object;JJ)J":                           {op: opAccess, access: accessGetAndSet, dist: 2},

	// --- compare and swap, offset third from top ---
	"sun/misc/Unsafe.compareAndSwapInt(Ljava/lang/Object;JII)Z":                                          {op: opAccess, access: accessCompareAndSwap, dist: 3},
	"sun/misc/Unsafe.compareAndSwapLong(Ljava/lang/Object;JJJ)Z":                                         {op: opAccess, access: accessCompareAndSwap, dist: 3},
	"sun/misc/Unsafe.compareAndSwapObject(Ljava/lang/Object;JLjava/lang/Object;Ljava/lang/Object;)Z":     {op: opAccess, access: accessCompareAndSwap, dist: 3},
	"jdk/internal/misc/Unsafe.compareAndSetInt(Ljava/lang/Object;JII)Z":                                  {op: opAccess, access: accessCompareAndSwap, dist: 3},
	"jdk/internal/misc/Unsafe.compareAndSetLong(Ljava/lang/Object;JJJ)Z":                                 {op: opAccess, access: accessCompareAndSwap, dist: 3},
	"jdk/internal/misc/Unsafe.compareAndSetObject(Ljava/lang/Object;JLjava/lang/Object;Ljava/lang/Object;)Z": {op: opAccess, access: accessCompareAndSwap, dist: 3},

	// The updater instance itself is the handle, fourth from the top.
	"java/util/concurrent/atomic/AtomicReferenceFieldUpdater.compareAndSet(Ljava/lang/Object;Ljava/lang/Object;Ljava/lang/Object;)Z": {
		op: opAccess, access: accessCompareAndSwap, dist: 4,
	},

	// --- signature-polymorphic VarHandle methods, handle at the bottom ---
	"java/lang/invoke/VarHandle.get":               {op: opAccess, access: accessGet},
	"java/lang/invoke/VarHandle.getAcquire":        {op: opAccess, access: accessGet},
	"java/lang/invoke/VarHandle.set":               {op: opAccess, access: accessPut},
	"java/lang/invoke/VarHandle.setVolatile":       {op: opAccess, access: accessPut},
	"java/lang/invoke/VarHandle.setRelease":        {op: opAccess, access: accessPut},
	"java/lang/invoke/VarHandle.setOpaque":         {op: opAccess, access: accessPut},
	"java/lang/invoke/VarHandle.compareAndSet":     {op: opAccess, access: accessCompareAndSwap},
	"java/lang/invoke/VarHandle.weakCompareAndSet": {op: opAccess, access: accessCompareAndSwap},
	"java/lang/invoke/VarHandle.getAndSet":         {op: opAccess, access: accessGetAndSet},
	"java/lang/invoke/VarHandle.getAndAdd":         {op: opAccess, access: accessGetAndAdd},
	"java/lang/invoke/VarHandle.getAndBitwiseOr":   {op: opAccess, access: accessGetAndBitwiseOr},
	"java/lang/invoke/VarHandle.releaseFence":      {op: opNopCall},

	// --- unaligned access: unsupported on a pointer-free target, trapped ---
	"jdk/internal/misc/Unsafe.getCharUnaligned(Ljava/lang/Object;JZ)C":  {op: opTrap},
	"jdk/internal/misc/Unsafe.getShortUnaligned(Ljava/lang/Object;JZ)S": {op: opTrap},
	"jdk/internal/misc/Unsafe.getIntUnaligned(Ljava/lang/Object;J)I":    {op: opTrap},
	"jdk/internal/misc/Unsafe.getIntUnaligned(Ljava/lang/Object;JZ)I":   {op: opTrap},
	"jdk/internal/misc/Unsafe.getLongUnaligned(Ljava/lang/Object;J)J":   {op: opTrap},
	"jdk/internal/misc/Unsafe.getLongUnaligned(Ljava/lang/Object;JZ)J":  {op: opTrap},

	// --- no realizable target effect ---
	"jdk/internal/misc/Unsafe.isBigEndian()Z":                           {op: opConst, span: 1, value: 0},
	"jdk/internal/misc/Unsafe.shouldBeInitialized(Ljava/lang/Class;)Z":  {op: opConst, span: 2, value: 0},
	"jdk/internal/misc/Unsafe.storeFence()V":                            {op: opRemove, span: 1},
	"jdk/internal/misc/Unsafe.ensureClassInitialized(Ljava/lang/Class;)V": {op: opRemove, span: 2},
	"sun/misc/Unsafe.unpark(Ljava/lang/Object;)V":                       {op: opRemove, span: 2},
	"jdk/internal/misc/Unsafe.unpark(Ljava/lang/Object;)V":              {op: opRemove, span: 2},
	"sun/misc/Unsafe.park(ZJ)V":                                         {op: opRemove, span: 3},
	"jdk/internal/misc/Unsafe.park(ZJ)V":                                {op: opRemove, span: 3},
}

// recognizedClass reports whether calls on the declaring type belong to the
// rewritten API surface.
func recognizedClass(class string) bool {
	switch class {
	case classUnsafe8, classUnsafe11, classFieldUpdater, classVarHandle, classMethodHandles, classLookup:
		return true
	}
	return false
}

// lookupCatalog resolves a call against the catalog, first by exact
// signature, then by bare method for the signature-polymorphic families.
func lookupCatalog(name ir.FuncName) (patchSpec, bool) {
	if spec, ok := catalog[name.Qualified()]; ok {
		return spec, true
	}
	spec, ok := catalog[name.Class+"."+name.Method]
	return spec, ok
}
