package ast

import (
	"chaisema/common"
	"chaisema/report"
	"chaisema/types"
)

// Expr is implemented by every expression node. IsLValue is derived from
// variant: paths to mutable bindings, dereferences, field/index on an
// lvalue, and assignment expressions are the only lvalue-producing forms
// (spec.md §3.3, §8.7).
type Expr interface {
	Typed

	IsLValue() bool
}

// ExprBase is embedded by every Expr implementation. Its IsLValue default
// is false; the handful of lvalue-producing node kinds (Path, deref
// PrefixExpr, Field, Index, AssignExpr) override it per spec.md §8.7.
type ExprBase struct {
	TypedBase
}

// NewExprBase creates an ExprBase over span. The lvalue argument is
// accepted for call-site symmetry with the historical teacher API but is
// unused: lvalue-ness is always computed by each node's own IsLValue.
func NewExprBase(span *report.Span, _ bool) ExprBase {
	return ExprBase{TypedBase: NewTypedBaseOn(span)}
}

func (eb *ExprBase) IsLValue() bool {
	return false
}

// -----------------------------------------------------------------------------

// LitKind enumerates literal forms.
type LitKind int

// Enumeration of literal kinds.
const (
	LitInt LitKind = iota
	LitFloat
	LitChar
	LitString
	LitBool
	LitNothing
)

// Literal is a single literal value: an integer/float with an explicit
// suffix, a char, a string, a bool, or the empty `()` literal.
type Literal struct {
	ExprBase

	Kind  LitKind
	Value string

	// Suffix names the explicit primitive suffix on a numeric literal (eg.
	// "i64"), empty if none was given.
	Suffix string
}

// NewLiteral creates a Literal expression.
func NewLiteral(span *report.Span, kind LitKind, value, suffix string) *Literal {
	return &Literal{ExprBase: NewExprBase(span, false), Kind: kind, Value: value, Suffix: suffix}
}

// -----------------------------------------------------------------------------

// Path is a reference to a previously declared symbol. Name resolution
// populates Decl; inference reads Decl.Type to compute this node's type,
// Ref(find(d.type), d.is_mut, 0).
type Path struct {
	ExprBase

	Name string
	Decl *common.Decl
}

// NewPath creates an unresolved Path expression.
func NewPath(span *report.Span, name string) *Path {
	return &Path{ExprBase: NewExprBase(span, false), Name: name}
}

// IsLValue reports whether this path resolves to a mutable decl.
func (p *Path) IsLValue() bool {
	return p.Decl != nil && p.Decl.Mutable
}

// -----------------------------------------------------------------------------

// BinaryOp is a binary operator application, excluding the chained
// comparison form (MultiComparison).
type BinaryOp struct {
	ExprBase

	Op       common.Operator
	Lhs, Rhs Expr
}

// NewBinaryOp creates a BinaryOp expression.
func NewBinaryOp(span *report.Span, op common.Operator, lhs, rhs Expr) *BinaryOp {
	return &BinaryOp{ExprBase: NewExprBase(span, false), Op: op, Lhs: lhs, Rhs: rhs}
}

// MultiComparison is a chained relational expression such as `a < b < c`.
type MultiComparison struct {
	ExprBase

	Exprs []Expr
	Ops   []common.Operator
}

// NewMultiComparison creates a MultiComparison expression.
func NewMultiComparison(span *report.Span, exprs []Expr, ops []common.Operator) *MultiComparison {
	return &MultiComparison{ExprBase: NewExprBase(span, false), Exprs: exprs, Ops: ops}
}

// PrefixExpr is a prefix operator application: `&`, `&mut`, `~`, `*`, `+`,
// `-`, `!`, `++`, `--`, or the `run`/`hlt` intrinsic prefixes. A synthetic
// PrefixExpr with Op == common.OpDeref is inserted by inference to
// auto-deref a pointer-typed lhs of `.` or `[]`.
type PrefixExpr struct {
	ExprBase

	Op      common.Operator
	Operand Expr
	Mutable bool
}

// NewPrefixExpr creates a PrefixExpr expression.
func NewPrefixExpr(span *report.Span, op common.Operator, operand Expr, mutable bool) *PrefixExpr {
	return &PrefixExpr{ExprBase: NewExprBase(span, false), Op: op, Operand: operand, Mutable: mutable}
}

// IsLValue reports true for a dereference (`*e`); every other prefix form
// yields an rvalue.
func (pe *PrefixExpr) IsLValue() bool {
	return pe.Op == common.OpDeref
}

// -----------------------------------------------------------------------------

// Call is a function call or continuation-style call expression.
type Call struct {
	ExprBase

	Func Expr
	Args []Expr
}

// NewCall creates a Call expression.
func NewCall(span *report.Span, fn Expr, args []Expr) *Call {
	return &Call{ExprBase: NewExprBase(span, false), Func: fn, Args: args}
}

// Field is a `.` field access, `e.f`.
type Field struct {
	ExprBase

	Root      Expr
	FieldName string
}

// NewField creates a Field expression.
func NewField(span *report.Span, root Expr, fieldName string) *Field {
	return &Field{ExprBase: NewExprBase(span, false), Root: root, FieldName: fieldName}
}

// IsLValue reports whether the accessed field is itself an lvalue, which
// holds whenever the root expression is.
func (f *Field) IsLValue() bool {
	return f.Root.IsLValue()
}

// TupleField is a tuple field access, `tup.n`.
type TupleField struct {
	ExprBase

	Tuple Expr
	Index int
}

// NewTupleField creates a TupleField expression.
func NewTupleField(span *report.Span, tuple Expr, index int) *TupleField {
	return &TupleField{ExprBase: NewExprBase(span, false), Tuple: tuple, Index: index}
}

// Index is an array/simd/tuple index expression, `e[i]`.
type Index struct {
	ExprBase

	Root    Expr
	Indices []Expr
}

// NewIndex creates an Index expression.
func NewIndex(span *report.Span, root Expr, indices []Expr) *Index {
	return &Index{ExprBase: NewExprBase(span, false), Root: root, Indices: indices}
}

// IsLValue reports whether the indexed element is itself an lvalue, which
// holds whenever the root expression is.
func (ix *Index) IsLValue() bool {
	return ix.Root.IsLValue()
}

// -----------------------------------------------------------------------------

// Tuple is an n-tuple literal. A length-1 tuple is normalized away during
// inference (spec.md §4.3.1's singleton-tuple normalization), but the AST
// form is preserved as written.
type Tuple struct {
	ExprBase

	Exprs []Expr
}

// NewTuple creates a Tuple expression.
func NewTuple(span *report.Span, exprs []Expr) *Tuple {
	return &Tuple{ExprBase: NewExprBase(span, false), Exprs: exprs}
}

// ArrayLit is a definite-size array literal, `[a, b, c]`.
type ArrayLit struct {
	ExprBase

	Elems []Expr
}

// NewArrayLit creates an ArrayLit expression.
func NewArrayLit(span *report.Span, elems []Expr) *ArrayLit {
	return &ArrayLit{ExprBase: NewExprBase(span, false), Elems: elems}
}

// SimdLit is a fixed-lane SIMD literal.
type SimdLit struct {
	ExprBase

	Elems []Expr
}

// NewSimdLit creates a SimdLit expression.
func NewSimdLit(span *report.Span, elems []Expr) *SimdLit {
	return &SimdLit{ExprBase: NewExprBase(span, false), Elems: elems}
}

// FieldInit is a single `name: expr` initializer inside a StructInit.
type FieldInit struct {
	Name     string
	NameSpan *report.Span
	Init     Expr
}

// StructInit is a struct literal, `S{ a: 1, b: 2 }`.
type StructInit struct {
	ExprBase

	TypeExpr Expr
	Fields   []FieldInit
}

// NewStructInit creates a StructInit expression.
func NewStructInit(span *report.Span, typeExpr Expr, fields []FieldInit) *StructInit {
	return &StructInit{ExprBase: NewExprBase(span, false), TypeExpr: typeExpr, Fields: fields}
}

// -----------------------------------------------------------------------------

// IfExpr is an `if c then a else b` expression. Else may be nil.
type IfExpr struct {
	ExprBase

	Cond Expr
	Then Expr
	Else Expr
}

// NewIfExpr creates an IfExpr expression.
func NewIfExpr(span *report.Span, cond, then, els Expr) *IfExpr {
	return &IfExpr{ExprBase: NewExprBase(span, false), Cond: cond, Then: then, Else: els}
}

// WhileExpr is a `while c { body }` loop. BreakDecl/ContinueDecl are the
// synthetic Decls inserted for this loop's break/continue targets.
type WhileExpr struct {
	ExprBase

	Cond Expr
	Body Expr

	BreakDecl    *common.Decl
	ContinueDecl *common.Decl
}

// NewWhileExpr creates a WhileExpr expression.
func NewWhileExpr(span *report.Span, cond, body Expr) *WhileExpr {
	return &WhileExpr{ExprBase: NewExprBase(span, false), Cond: cond, Body: body}
}

// ForExpr is a `for e in coll(args) { body }` loop. It desugars (spec.md
// §4.3.6) into a call to coll's continuation-style Fn type with Fn appended
// as the trailing continuation argument; Fn itself is never written by a
// user, it is synthesized from the bound element and the loop body.
type ForExpr struct {
	ExprBase

	Coll *Call
	Fn   Expr

	BreakDecl    *common.Decl
	ContinueDecl *common.Decl
}

// NewForExpr creates a ForExpr expression.
func NewForExpr(span *report.Span, coll *Call, fn *LoopFnExpr) *ForExpr {
	return &ForExpr{ExprBase: NewExprBase(span, false), Coll: coll, Fn: fn}
}

// LoopFnExpr is the implicit continuation closure bound by a ForExpr,
// `|elem| { body }`. It is not a general lambda-expression form; the
// language only ever produces one as part of for-loop desugaring.
type LoopFnExpr struct {
	ExprBase

	Elem *common.Decl
	Body Expr
}

// NewLoopFnExpr creates a LoopFnExpr.
func NewLoopFnExpr(span *report.Span, elem *common.Decl, body Expr) *LoopFnExpr {
	return &LoopFnExpr{ExprBase: NewExprBase(span, false), Elem: elem, Body: body}
}

// AssignExpr is an assignment expression, `lhs = rhs`, or (with CompoundOp
// set) a compound assignment such as `lhs += rhs`.
type AssignExpr struct {
	ExprBase

	Lhs, Rhs   Expr
	CompoundOp common.Operator
	IsCompound bool
}

// NewAssignExpr creates a plain assignment expression.
func NewAssignExpr(span *report.Span, lhs, rhs Expr) *AssignExpr {
	return &AssignExpr{ExprBase: NewExprBase(span, false), Lhs: lhs, Rhs: rhs}
}

// NewCompoundAssignExpr creates a compound assignment expression.
func NewCompoundAssignExpr(span *report.Span, lhs, rhs Expr, op common.Operator) *AssignExpr {
	return &AssignExpr{ExprBase: NewExprBase(span, false), Lhs: lhs, Rhs: rhs, CompoundOp: op, IsCompound: true}
}

// IsLValue is true: an assignment expression's own result is itself
// assignable, per spec.md §8.7.
func (ae *AssignExpr) IsLValue() bool {
	return true
}

// IncDecExpr is `++e` or `--e`. Its result type is type(e); e must remain
// an lvalue.
type IncDecExpr struct {
	ExprBase

	Operand Expr
	Op      common.Operator
}

// NewIncDecExpr creates an IncDecExpr expression.
func NewIncDecExpr(span *report.Span, operand Expr, op common.Operator) *IncDecExpr {
	return &IncDecExpr{ExprBase: NewExprBase(span, false), Operand: operand, Op: op}
}

// Block is a `{ stmts; e }` block expression. Its type is rvalue(Tail) if
// Tail is non-nil, else unit.
type Block struct {
	ExprBase

	Stmts []Stmt
	Tail  Expr
}

// NewBlock creates a Block expression.
func NewBlock(span *report.Span, stmts []Stmt, tail Expr) *Block {
	return &Block{ExprBase: NewExprBase(span, false), Stmts: stmts, Tail: tail}
}

// -----------------------------------------------------------------------------

// Ref2RValueExpr is a synthetic wrapper inserted by rvalue(e) when e's type
// is Ref(T,..): it strips the Ref and exposes the underlying value type T.
// Constructed only by the inferencer, never by the parser.
type Ref2RValueExpr struct {
	ExprBase

	Src Expr
}

// WrapRef2RValue wraps src, whose type must be *types.RefType, producing a
// node of type ref.Pointee.
func WrapRef2RValue(src Expr, ref *types.RefType) *Ref2RValueExpr {
	w := &Ref2RValueExpr{ExprBase: NewExprBase(src.Span(), false), Src: src}
	w.SetExprType(ref.Pointee)
	return w
}

// ImplicitCastExpr is a synthetic wrapper inserted by coerce when src's type
// is a strict subtype of the destination type.
type ImplicitCastExpr struct {
	ExprBase

	Src     Expr
	DstType types.Type
}

// WrapImplicitCast wraps src into dstType.
func WrapImplicitCast(src Expr, dstType types.Type) *ImplicitCastExpr {
	w := &ImplicitCastExpr{ExprBase: NewExprBase(src.Span(), false), Src: src, DstType: dstType}
	w.SetExprType(dstType)
	return w
}

// TypeAppExpr is a synthetic wrapper binding a polymorphic callee to a
// vector of type arguments (spec.md §4.3.6). TypeArgs starts filled with
// fresh Unknowns and is narrowed by unification against any explicit type
// arguments supplied at the call site.
type TypeAppExpr struct {
	ExprBase

	Callee   Expr
	TypeArgs []types.Type
}

// WrapTypeApp wraps callee with typeArgs.
func WrapTypeApp(callee Expr, typeArgs []types.Type) *TypeAppExpr {
	return &TypeAppExpr{ExprBase: NewExprBase(callee.Span(), false), Callee: callee, TypeArgs: typeArgs}
}

// -----------------------------------------------------------------------------

// Cast is an explicit `expr as T` cast.
type Cast struct {
	ExprBase

	Src     Expr
	DstType TypeExpr
}

// NewCast creates a Cast expression.
func NewCast(span *report.Span, src Expr, dstType TypeExpr) *Cast {
	return &Cast{ExprBase: NewExprBase(span, false), Src: src, DstType: dstType}
}
