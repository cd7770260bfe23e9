package ast

import (
	"chaisema/common"
	"chaisema/report"
)

// Item is implemented by every top-level (or extern-block-level)
// declaration. Items are two-pass checked within their enclosing scope:
// first every sibling's Decl is inserted, then bodies are checked, so
// forward references between siblings resolve (spec.md §4.2).
type Item interface {
	Node

	// ItemDecl returns the Decl this item inserts into its enclosing scope.
	ItemDecl() *common.Decl
}

// Param is a single function parameter: a local Decl plus its declared
// type expression. Unnamed parameters are auto-named "<i>" by the resolver.
type Param struct {
	Decl *common.Decl
	Type TypeExpr
}

// FuncDef is a function declaration.
type FuncDef struct {
	Base

	Decl       *common.Decl
	Params     []Param
	RetType    TypeExpr
	TypeParams []*TypeParamDef
	Body       Expr

	// ABI is set on extern-block member declarations: "C", "device", or
	// "thorin" (spec.md §4.4's extern block ABI rule). Empty for ordinary
	// functions.
	ABI string
}

// NewFuncDef creates a FuncDef.
func NewFuncDef(span *report.Span, decl *common.Decl, params []Param, retType TypeExpr, body Expr) *FuncDef {
	return &FuncDef{Base: NewBaseOn(span), Decl: decl, Params: params, RetType: retType, Body: body}
}

func (fd *FuncDef) ItemDecl() *common.Decl { return fd.Decl }

// StructField is a single declared field of a StructDef.
type StructField struct {
	Decl *common.Decl
	Type TypeExpr
}

// StructDef is a struct declaration.
type StructDef struct {
	Base

	Decl       *common.Decl
	Fields     []StructField
	TypeParams []*TypeParamDef
}

// NewStructDef creates a StructDef.
func NewStructDef(span *report.Span, decl *common.Decl, fields []StructField) *StructDef {
	return &StructDef{Base: NewBaseOn(span), Decl: decl, Fields: fields}
}

func (sd *StructDef) ItemDecl() *common.Decl { return sd.Decl }

// EnumVariant is a single variant of an EnumDef.
type EnumVariant struct {
	Decl    *common.Decl
	Payload []TypeExpr
}

// EnumDef is an enum declaration.
type EnumDef struct {
	Base

	Decl       *common.Decl
	Variants   []EnumVariant
	TypeParams []*TypeParamDef
}

// NewEnumDef creates an EnumDef.
func NewEnumDef(span *report.Span, decl *common.Decl, variants []EnumVariant) *EnumDef {
	return &EnumDef{Base: NewBaseOn(span), Decl: decl, Variants: variants}
}

func (ed *EnumDef) ItemDecl() *common.Decl { return ed.Decl }

// TraitDef is a trait declaration: a set of method signatures a type may
// implement. Per spec.md §9, bound checking beyond the type-level signature
// is left unverified — the same laxness as the source this is grounded in.
type TraitDef struct {
	Base

	Decl    *common.Decl
	Methods []*FuncDef
}

// NewTraitDef creates a TraitDef.
func NewTraitDef(span *report.Span, decl *common.Decl, methods []*FuncDef) *TraitDef {
	return &TraitDef{Base: NewBaseOn(span), Decl: decl, Methods: methods}
}

func (td *TraitDef) ItemDecl() *common.Decl { return td.Decl }

// ImplDef is an `impl Trait for Type { ... }` block.
type ImplDef struct {
	Base

	Decl      *common.Decl
	TraitType TypeExpr
	SelfType  TypeExpr
	Methods   []*FuncDef
}

// NewImplDef creates an ImplDef.
func NewImplDef(span *report.Span, decl *common.Decl, traitType, selfType TypeExpr, methods []*FuncDef) *ImplDef {
	return &ImplDef{Base: NewBaseOn(span), Decl: decl, TraitType: traitType, SelfType: selfType, Methods: methods}
}

func (id *ImplDef) ItemDecl() *common.Decl { return id.Decl }

// StaticDef is a module-level `static [mut] name: T = init;` declaration.
type StaticDef struct {
	Base

	Decl *common.Decl
	Type TypeExpr
	Init Expr
}

// NewStaticDef creates a StaticDef.
func NewStaticDef(span *report.Span, decl *common.Decl, typ TypeExpr, init Expr) *StaticDef {
	return &StaticDef{Base: NewBaseOn(span), Decl: decl, Type: typ, Init: init}
}

func (sd *StaticDef) ItemDecl() *common.Decl { return sd.Decl }

// TypedefDef is a `type Name = T;` alias declaration.
type TypedefDef struct {
	Base

	Decl   *common.Decl
	Target TypeExpr
}

// NewTypedefDef creates a TypedefDef.
func NewTypedefDef(span *report.Span, decl *common.Decl, target TypeExpr) *TypedefDef {
	return &TypedefDef{Base: NewBaseOn(span), Decl: decl, Target: target}
}

func (td *TypedefDef) ItemDecl() *common.Decl { return td.Decl }

// TypeParamDef is a single type parameter in a type-parameter list. Its
// Decl carries the lambda depth and bound type expressions (spec.md §3.2).
type TypeParamDef struct {
	Base

	Decl   *common.Decl
	Bounds []TypeExpr
}

// NewTypeParamDef creates a TypeParamDef.
func NewTypeParamDef(span *report.Span, decl *common.Decl, bounds []TypeExpr) *TypeParamDef {
	return &TypeParamDef{Base: NewBaseOn(span), Decl: decl, Bounds: bounds}
}

func (tp *TypeParamDef) ItemDecl() *common.Decl { return tp.Decl }

// ExternBlock is an `extern "ABI" { ... }` block: its contained function
// declarations are inserted into the enclosing scope during the module's
// first pass (spec.md §4.2).
type ExternBlock struct {
	Base

	Decl  *common.Decl
	ABI   string
	Funcs []*FuncDef
}

// NewExternBlock creates an ExternBlock.
func NewExternBlock(span *report.Span, decl *common.Decl, abi string, funcs []*FuncDef) *ExternBlock {
	for _, fn := range funcs {
		fn.ABI = abi
	}

	return &ExternBlock{Base: NewBaseOn(span), Decl: decl, ABI: abi, Funcs: funcs}
}

func (eb *ExternBlock) ItemDecl() *common.Decl { return eb.Decl }

// Module is the AST root: an ordered sequence of top-level items.
type Module struct {
	Base

	Decl  *common.Decl
	Items []Item
}

// NewModule creates a Module.
func NewModule(span *report.Span, decl *common.Decl, items []Item) *Module {
	return &Module{Base: NewBaseOn(span), Decl: decl, Items: items}
}

func (m *Module) ItemDecl() *common.Decl { return m.Decl }
