package ast

import (
	"chaisema/common"
	"chaisema/report"
)

// TypeExpr is implemented by every node occurring in type position (a type
// annotation, a function parameter's declared type, a struct field's
// declared type). It carries the same type slot contract as Expr (Typed)
// but never participates in the lvalue/rvalue rules.
type TypeExpr interface {
	Typed
}

// NamedTypeExpr refers to a previously declared struct or typedef by path.
// Decl is filled in by name resolution.
type NamedTypeExpr struct {
	TypedBase

	Name string
	Decl *common.Decl

	// TypeArgs holds any explicit type arguments applied to a polymorphic
	// named type, eg. `List[i32]`.
	TypeArgs []TypeExpr
}

// NewNamedTypeExpr creates a NamedTypeExpr.
func NewNamedTypeExpr(span *report.Span, name string) *NamedTypeExpr {
	return &NamedTypeExpr{TypedBase: NewTypedBaseOn(span), Name: name}
}

// PrimTypeExpr names a primitive type by keyword, eg. `i32`.
type PrimTypeExpr struct {
	TypedBase

	Name string
}

// NewPrimTypeExpr creates a PrimTypeExpr.
func NewPrimTypeExpr(span *report.Span, name string) *PrimTypeExpr {
	return &PrimTypeExpr{TypedBase: NewTypedBaseOn(span), Name: name}
}

// PtrTypeExpr is `~T` or `&[mut] T`.
type PtrTypeExpr struct {
	TypedBase

	Pointee TypeExpr
	Owned   bool
	Mutable bool
}

// NewPtrTypeExpr creates a PtrTypeExpr.
func NewPtrTypeExpr(span *report.Span, pointee TypeExpr, owned, mutable bool) *PtrTypeExpr {
	return &PtrTypeExpr{TypedBase: NewTypedBaseOn(span), Pointee: pointee, Owned: owned, Mutable: mutable}
}

// ArrayTypeExpr is `[T; n]` (Dim != nil) or `[T]` (Dim == nil).
type ArrayTypeExpr struct {
	TypedBase

	Elem TypeExpr
	Dim  Expr
}

// NewArrayTypeExpr creates an ArrayTypeExpr.
func NewArrayTypeExpr(span *report.Span, elem TypeExpr, dim Expr) *ArrayTypeExpr {
	return &ArrayTypeExpr{TypedBase: NewTypedBaseOn(span), Elem: elem, Dim: dim}
}

// SimdTypeExpr is `simd[T; n]`.
type SimdTypeExpr struct {
	TypedBase

	Elem  TypeExpr
	Lanes Expr
}

// NewSimdTypeExpr creates a SimdTypeExpr.
func NewSimdTypeExpr(span *report.Span, elem TypeExpr, lanes Expr) *SimdTypeExpr {
	return &SimdTypeExpr{TypedBase: NewTypedBaseOn(span), Elem: elem, Lanes: lanes}
}

// TupleTypeExpr is `(T1, T2, ...)`.
type TupleTypeExpr struct {
	TypedBase

	Elems []TypeExpr
}

// NewTupleTypeExpr creates a TupleTypeExpr.
func NewTupleTypeExpr(span *report.Span, elems []TypeExpr) *TupleTypeExpr {
	return &TupleTypeExpr{TypedBase: NewTypedBaseOn(span), Elems: elems}
}

// FnTypeExpr is a function signature type, `(T1, T2) -> R`.
type FnTypeExpr struct {
	TypedBase

	Params []TypeExpr
	Ret    TypeExpr
}

// NewFnTypeExpr creates an FnTypeExpr.
func NewFnTypeExpr(span *report.Span, params []TypeExpr, ret TypeExpr) *FnTypeExpr {
	return &FnTypeExpr{TypedBase: NewTypedBaseOn(span), Params: params, Ret: ret}
}
