package ir

// ValueType represents a core value type of the target instruction set.
type ValueType byte

// Value type constants mirror the binary encoding of the target format.
const (
	TypeVoid   ValueType = 0x00
	TypeI32    ValueType = 0x7F
	TypeI64    ValueType = 0x7E
	TypeF32    ValueType = 0x7D
	TypeF64    ValueType = 0x7C
	TypeRef    ValueType = 0x6B // typed struct/array reference
	TypeExtern ValueType = 0x6F
)

// IsRef reports whether v is a reference type.
func (v ValueType) IsRef() bool {
	return v == TypeRef || v == TypeExtern
}

// String returns the text-format name of the value type.
func (v ValueType) String() string {
	switch v {
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeRef:
		return "ref"
	case TypeExtern:
		return "extern"
	case TypeVoid:
		return "void"
	}
	return "unknown"
}

// StorageType represents a type that can be stored in a struct field or
// array element. Packed forms have no standalone value representation.
type StorageType struct {
	Kind    byte // StorageKindVal, StorageKindPacked, StorageKindRef
	ValType ValueType
	Packed  byte   // PackedI8, PackedI16
	RefName string // declared type name for StorageKindRef
}

// Storage type kind constants
const (
	StorageKindVal    byte = 0
	StorageKindPacked byte = 1
	StorageKindRef    byte = 2
)

// Packed types for struct fields
const (
	PackedI8  byte = 0x78 // i8
	PackedI16 byte = 0x77 // i16
)

// ValueOf returns the value type used when loading this storage type.
// Packed fields widen to i32.
func (s StorageType) ValueOf() ValueType {
	switch s.Kind {
	case StorageKindPacked:
		return TypeI32
	case StorageKindRef:
		return TypeRef
	}
	return s.ValType
}

// FieldType represents a struct field with mutability and storage type.
type FieldType struct {
	Type    StorageType
	Mutable bool
}
