// Package module holds the registries shared by rewrite passes across one
// compilation unit.
//
// FunctionRegistry accepts newly synthesized routines and owns the
// scan/finish phase flag: routine bodies may stay unmaterialized while the
// scan phase is open, but every routine must carry a body once Finish has
// been called and emission begins.
//
// TypeRegistry records which fields rewritten code accesses by name, so the
// later layout and codegen stages keep them, and resolves field metadata
// through a ClassLoader.
package module
