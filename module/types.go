package module

import (
	"github.com/wippyai/jwasm/errors"
	"github.com/wippyai/jwasm/ir"
)

// FieldMeta describes one declared field of a class: its name plus the
// storage type and mutability the emitted struct field carries.
type FieldMeta struct {
	Name string
	Type ir.FieldType
}

// ClassMeta is the loaded metadata of one class: its name in internal slash
// form and its declared field table.
type ClassMeta struct {
	Name   string
	Fields []FieldMeta
}

// Field looks up a declared field by name.
func (c *ClassMeta) Field(name string) (FieldMeta, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldMeta{}, false
}

// ClassLoader resolves a declaring-type name to its class metadata.
type ClassLoader interface {
	Load(className string) (*ClassMeta, error)
}

// StaticClassLoader is an in-memory ClassLoader backed by a fixed class set.
type StaticClassLoader map[string]*ClassMeta

// Load implements ClassLoader.
func (l StaticClassLoader) Load(className string) (*ClassMeta, error) {
	if c, ok := l[className]; ok {
		return c, nil
	}
	return nil, errors.NotFound(errors.PhaseLoad, "class", className)
}

// TypeRegistry tracks per-type field usage so layout and code generation
// retain every field that rewritten code accesses by name.
type TypeRegistry struct {
	loader ClassLoader
	used   map[string]map[string]FieldMeta
	order  map[string][]string
}

// NewTypeRegistry creates a registry resolving field metadata via loader.
func NewTypeRegistry(loader ClassLoader) *TypeRegistry {
	return &TypeRegistry{
		loader: loader,
		used:   make(map[string]map[string]FieldMeta),
		order:  make(map[string][]string),
	}
}

// UseField marks the field (className, fieldName) as used, loading and
// validating its metadata. The field must exist in the declaring class.
func (t *TypeRegistry) UseField(className, fieldName string) error {
	meta, err := t.loader.Load(className)
	if err != nil {
		return err
	}
	field, ok := meta.Field(fieldName)
	if !ok {
		return errors.New(errors.PhaseLoad, errors.KindNotFound).
			Path(className, fieldName).
			Detail("field not declared by class").
			Build()
	}
	// Offset-addressed fields are store targets of the generated routines.
	if !field.Type.Mutable {
		return errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Path(className, fieldName).
			Detail("rewritten access needs a mutable field").
			Build()
	}

	byName, ok := t.used[className]
	if !ok {
		byName = make(map[string]FieldMeta)
		t.used[className] = byName
	}
	if _, ok := byName[fieldName]; !ok {
		byName[fieldName] = field
		t.order[className] = append(t.order[className], fieldName)
	}
	return nil
}

// UsedFields returns the used fields of a type in first-use order.
func (t *TypeRegistry) UsedFields(className string) []FieldMeta {
	names := t.order[className]
	out := make([]FieldMeta, 0, len(names))
	for _, n := range names {
		out = append(out, t.used[className][n])
	}
	return out
}

// FieldUsed reports whether the field has been marked as used.
func (t *TypeRegistry) FieldUsed(className, fieldName string) bool {
	_, ok := t.used[className][fieldName]
	return ok
}
