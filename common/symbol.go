package common

import (
	"chaisema/report"
	"chaisema/types"
)

// DeclKind enumerates the variants a Decl may take (spec.md §3.2).
type DeclKind int

// Enumeration of declaration kinds.
const (
	DeclLocal DeclKind = iota
	DeclParam
	DeclFunc
	DeclStruct
	DeclField
	DeclEnum
	DeclTrait
	DeclImpl
	DeclStatic
	DeclTypedef
	DeclModule
	DeclExternBlock
	DeclTypeParam
)

// Decl is a semantic declaration: the thing a symbol resolves to. Every
// Decl carries a symbol, a source location, a resolved type slot (set by
// inference, initially nil), a shadows back-link to whatever Decl it hides
// in an enclosing scope, and the scope depth it was inserted at.
//
// A Decl is owned by its enclosing AST item; every other reference to it
// (use-site resolution slots, shadow links) is a non-owning back-reference.
type Decl struct {
	Kind DeclKind

	// Symbol is the interned name this Decl binds.
	Symbol string

	// Span is where the declaration occurs.
	Span *report.Span

	// Type is the resolved type slot. It starts nil and is filled in (via
	// types.TypeTable.Constrain) during inference.
	Type types.Type

	// Shadows is the Decl this one hides in an enclosing scope, or nil at
	// the outermost scope.
	Shadows *Decl

	// Depth is the scope depth this Decl was inserted at.
	Depth int

	// Mutable is set for DeclLocal, DeclParam, DeclField, and DeclStatic.
	Mutable bool

	// Handle is a per-function local-variable slot index, set for
	// DeclLocal and DeclParam.
	Handle int

	// OwningFunc is set for DeclParam: the function Decl that owns it.
	OwningFunc *Decl

	// LambdaDepth and BoundTypes are set for DeclTypeParam: the Var depth
	// this parameter is bound at, and the AST type expressions constraining
	// it.
	LambdaDepth int
	BoundTypes  []interface{}

	// Fields holds child field/variant Decls for DeclStruct, DeclEnum,
	// DeclTrait, DeclImpl, and DeclExternBlock containers.
	Fields []*Decl

	// AddrTaken is set by the checker for a mutable local/param that the
	// `nossa` rule (spec.md §6) determines must be stack-allocated rather
	// than kept in an SSA register at codegen time.
	AddrTaken bool
}

// IsValue reports whether d resolves a use site that requires a value-kind
// Decl (spec.md §4.2's "'X' is not a value" rule).
func (d *Decl) IsValue() bool {
	switch d.Kind {
	case DeclLocal, DeclParam, DeclFunc, DeclField, DeclStatic:
		return true
	default:
		return false
	}
}
