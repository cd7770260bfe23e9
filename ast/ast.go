package ast

import (
	"chaisema/report"
	"chaisema/types"
)

// Node is the abstract interface implemented by every AST node.
type Node interface {
	// Span is the source range the node occupies.
	Span() *report.Span
}

// Typed is implemented by every node that carries a type slot: both
// expressions and the declaration-bearing nodes the resolver/inferencer
// write into.
type Typed interface {
	Node

	// ExprType returns the node's current type slot (possibly nil before
	// inference runs).
	ExprType() types.Type

	// SetExprType overwrites the node's type slot. Called by
	// TypeTable.Constrain's caller once a slot's new value is computed.
	SetExprType(t types.Type)
}

// Base is embedded by every node to supply Span().
type Base struct {
	span *report.Span
}

// NewBaseOn creates a Base over a single span.
func NewBaseOn(span *report.Span) Base {
	return Base{span: span}
}

// NewBaseOver creates a Base spanning from start to end.
func NewBaseOver(start, end *report.Span) Base {
	return Base{span: report.NewSpanOver(start, end)}
}

func (b Base) Span() *report.Span {
	return b.span
}

// TypedBase is embedded by every expression node: it supplies the type slot
// required by Typed, on top of Base's span.
type TypedBase struct {
	Base
	typ types.Type
}

// NewTypedBaseOn creates a TypedBase over a single span with no type yet.
func NewTypedBaseOn(span *report.Span) TypedBase {
	return TypedBase{Base: NewBaseOn(span)}
}

// NewTypedBaseOver creates a TypedBase spanning from start to end with no
// type yet.
func NewTypedBaseOver(start, end *report.Span) TypedBase {
	return TypedBase{Base: NewBaseOver(start, end)}
}

func (tb *TypedBase) ExprType() types.Type {
	return tb.typ
}

func (tb *TypedBase) SetExprType(t types.Type) {
	tb.typ = t
}
