package types

import "strings"

// Type is a structural type term. Equality and hashing over types are
// structural except for Unknown and Lambda, which carry their own identity.
type Type interface {
	// equals reports whether this type is equal to other. It does not
	// unwrap representatives or substitute type variables: callers that need
	// "deep" equality across a union-find forest should go through
	// TypeTable.Find and Equals instead.
	equals(other Type) bool

	// Repr renders the type the way it would appear in a diagnostic.
	Repr() string

	// IsKnown reports whether the type contains no Unknown term anywhere
	// within its structure. It is computed by walking the structure on each
	// call; the result is not cached.
	IsKnown() bool
}

// Equals computes structural equality between two already-resolved types.
func Equals(a, b Type) bool {
	return a.equals(b)
}

// -----------------------------------------------------------------------------

// PrimKind enumerates the primitive scalar kinds (spec.md §3.1).
type PrimKind int

const (
	PrimBool PrimKind = iota
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimIsize
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimUsize
	PrimF32
	PrimF64
)

var primReprs = map[PrimKind]string{
	PrimBool:  "bool",
	PrimI8:    "i8",
	PrimI16:   "i16",
	PrimI32:   "i32",
	PrimI64:   "i64",
	PrimIsize: "isize",
	PrimU8:    "u8",
	PrimU16:   "u16",
	PrimU32:   "u32",
	PrimU64:   "u64",
	PrimUsize: "usize",
	PrimF32:   "f32",
	PrimF64:   "f64",
}

// PrimType is the type of a single primitive scalar kind.
type PrimType struct {
	Kind PrimKind
}

func (pt PrimType) equals(other Type) bool {
	opt, ok := other.(PrimType)
	return ok && pt.Kind == opt.Kind
}

func (pt PrimType) Repr() string {
	return primReprs[pt.Kind]
}

func (pt PrimType) IsKnown() bool { return true }

// IsInt reports whether kind is one of the integral primitive kinds.
func (k PrimKind) IsInt() bool {
	return k >= PrimI8 && k <= PrimUsize
}

// IsFloat reports whether kind is one of the floating-point primitive kinds.
func (k PrimKind) IsFloat() bool {
	return k == PrimF32 || k == PrimF64
}

// IsBool reports whether kind is the boolean primitive kind.
func (k PrimKind) IsBool() bool {
	return k == PrimBool
}

// -----------------------------------------------------------------------------

// PtrKind distinguishes owned pointers (`~T`) from borrowed pointers (`&T`,
// `&mut T`).
type PtrKind int

const (
	Owned PtrKind = iota
	Borrowed
)

// PtrType is a pointer type: `~T` or `&[mut] T`.
type PtrType struct {
	Pointee   Type
	Kind      PtrKind
	Mutable   bool
	AddrSpace int
}

func (pt *PtrType) equals(other Type) bool {
	opt, ok := other.(*PtrType)
	return ok && pt.Kind == opt.Kind && pt.Mutable == opt.Mutable &&
		pt.AddrSpace == opt.AddrSpace && Equals(pt.Pointee, opt.Pointee)
}

func (pt *PtrType) Repr() string {
	if pt.Kind == Owned {
		return "~" + pt.Pointee.Repr()
	}

	if pt.Mutable {
		return "&mut " + pt.Pointee.Repr()
	}

	return "&" + pt.Pointee.Repr()
}

func (pt *PtrType) IsKnown() bool { return pt.Pointee.IsKnown() }

// -----------------------------------------------------------------------------

// RefType is the lvalue marker type: the type of an expression that denotes
// a storage location rather than a value. A RefType never nests inside a
// PtrType, TupleType, FnType, array, or another RefType (spec.md §3.1).
type RefType struct {
	Pointee   Type
	Mutable   bool
	AddrSpace int
}

func (rt *RefType) equals(other Type) bool {
	ort, ok := other.(*RefType)
	return ok && rt.Mutable == ort.Mutable && rt.AddrSpace == ort.AddrSpace && Equals(rt.Pointee, ort.Pointee)
}

func (rt *RefType) Repr() string {
	return rt.Pointee.Repr()
}

func (rt *RefType) IsKnown() bool { return rt.Pointee.IsKnown() }

// -----------------------------------------------------------------------------

// DefArrayType is a definite-size array: `[T; n]`.
type DefArrayType struct {
	Elem Type
	Dim  uint64
}

func (at *DefArrayType) equals(other Type) bool {
	oat, ok := other.(*DefArrayType)
	return ok && at.Dim == oat.Dim && Equals(at.Elem, oat.Elem)
}

func (at *DefArrayType) Repr() string {
	return "[" + at.Elem.Repr() + "; " + uitoa(at.Dim) + "]"
}

func (at *DefArrayType) IsKnown() bool { return at.Elem.IsKnown() }

// IndefArrayType is an indefinite-size (view) array: `[T]`.
type IndefArrayType struct {
	Elem Type
}

func (at *IndefArrayType) equals(other Type) bool {
	oat, ok := other.(*IndefArrayType)
	return ok && Equals(at.Elem, oat.Elem)
}

func (at *IndefArrayType) Repr() string {
	return "[" + at.Elem.Repr() + "]"
}

func (at *IndefArrayType) IsKnown() bool { return at.Elem.IsKnown() }

// SimdType is a fixed-lane SIMD vector type.
type SimdType struct {
	Elem  Type
	Lanes uint64
}

func (st *SimdType) equals(other Type) bool {
	ost, ok := other.(*SimdType)
	return ok && st.Lanes == ost.Lanes && Equals(st.Elem, ost.Elem)
}

func (st *SimdType) Repr() string {
	return "simd[" + st.Elem.Repr() + "; " + uitoa(st.Lanes) + "]"
}

func (st *SimdType) IsKnown() bool { return st.Elem.IsKnown() }

// -----------------------------------------------------------------------------

// TupleType is an ordered product of types.
type TupleType struct {
	Ops []Type
}

func (tt *TupleType) equals(other Type) bool {
	ott, ok := other.(*TupleType)
	if !ok || len(tt.Ops) != len(ott.Ops) {
		return false
	}

	for i, op := range tt.Ops {
		if !Equals(op, ott.Ops[i]) {
			return false
		}
	}

	return true
}

func (tt *TupleType) Repr() string {
	sb := strings.Builder{}
	sb.WriteByte('(')

	for i, op := range tt.Ops {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(op.Repr())
	}

	sb.WriteByte(')')
	return sb.String()
}

func (tt *TupleType) IsKnown() bool {
	for _, op := range tt.Ops {
		if !op.IsKnown() {
			return false
		}
	}

	return true
}

// -----------------------------------------------------------------------------

// FnType is an ordered parameter/return-continuation list: the last op is
// either the return-continuation's Fn or, in source position, a plain
// result type before fn_from_type canonicalizes it (spec.md §4.1).
type FnType struct {
	Ops []Type
}

func (ft *FnType) equals(other Type) bool {
	oft, ok := other.(*FnType)
	if !ok || len(ft.Ops) != len(oft.Ops) {
		return false
	}

	for i, op := range ft.Ops {
		if !Equals(op, oft.Ops[i]) {
			return false
		}
	}

	return true
}

func (ft *FnType) Repr() string {
	sb := strings.Builder{}
	sb.WriteByte('(')

	for i, op := range ft.Ops {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(op.Repr())
	}

	sb.WriteByte(')')
	return sb.String()
}

func (ft *FnType) IsKnown() bool {
	for _, op := range ft.Ops {
		if !op.IsKnown() {
			return false
		}
	}

	return true
}

// -----------------------------------------------------------------------------

// StructField is a single named, typed field of a struct type.
type StructField struct {
	Name string
	Type Type
}

// StructType is a nominal product type. Decl is an opaque handle back to the
// declaring common.Decl; two StructTypes are structurally equal iff they
// share the same Decl identity. TypeTable.Struct mints a new handle on every
// call, so equality goes through Decl rather than pointer identity.
type StructType struct {
	Decl interface{}
	Name string
	Ops  []StructField
}

func (st *StructType) equals(other Type) bool {
	ost, ok := other.(*StructType)
	return ok && st.Decl == ost.Decl
}

func (st *StructType) Repr() string {
	return st.Name
}

func (st *StructType) IsKnown() bool {
	for _, f := range st.Ops {
		if !f.Type.IsKnown() {
			return false
		}
	}

	return true
}

// FieldByName returns the field named name, if any.
func (st *StructType) FieldByName(name string) (StructField, bool) {
	for _, f := range st.Ops {
		if f.Name == name {
			return f, true
		}
	}

	return StructField{}, false
}

// -----------------------------------------------------------------------------

// LambdaType is a type-level parameterized abstraction: `body` may mention
// Var(0) referring to the lambda's own bound parameter. Lambdas are not
// interned by structure — each call to TypeTable.Lambda mints a fresh
// identity, matching the source's use of Lambda as a name-free, de Bruijn
// polymorphic abstraction (spec.md §3.1, §9).
type LambdaType struct {
	Body Type
	Name string
}

func (lt *LambdaType) equals(other Type) bool {
	return lt == other
}

func (lt *LambdaType) Repr() string {
	return "[" + lt.Name + "] " + lt.Body.Repr()
}

func (lt *LambdaType) IsKnown() bool { return lt.Body.IsKnown() }

// VarType is a de Bruijn-indexed bound type variable inside a LambdaType's
// body.
type VarType struct {
	Depth int
}

func (vt *VarType) equals(other Type) bool {
	ovt, ok := other.(*VarType)
	return ok && vt.Depth == ovt.Depth
}

func (vt *VarType) Repr() string {
	return "$" + uitoa(uint64(vt.Depth))
}

func (vt *VarType) IsKnown() bool { return true }

// -----------------------------------------------------------------------------

// UnknownType is a fresh type placeholder with identity equality: it is
// never structurally equal to any other UnknownType, including one with the
// same contents, because it has none — it is resolved through unification.
type UnknownType struct {
	id uint64
}

func (ut *UnknownType) equals(other Type) bool {
	return ut == other
}

func (ut *UnknownType) Repr() string {
	return "<unknown>"
}

func (ut *UnknownType) IsKnown() bool { return false }

// -----------------------------------------------------------------------------

// NoRetType is the type of an expression that never returns normally (a
// `break`/`continue`/divergent tail call).
type NoRetType struct{}

func (NoRetType) equals(other Type) bool {
	_, ok := other.(NoRetType)
	return ok
}

func (NoRetType) Repr() string  { return "noret" }
func (NoRetType) IsKnown() bool { return true }

// ErrorType is the absorbing type of an expression whose error has already
// been reported: unifying it with anything succeeds so one mistake cannot
// cascade into a wall of follow-on diagnostics.
type ErrorType struct{}

func (ErrorType) equals(other Type) bool {
	_, ok := other.(ErrorType)
	return ok
}

func (ErrorType) Repr() string  { return "<error>" }
func (ErrorType) IsKnown() bool { return true }

// -----------------------------------------------------------------------------

func uitoa(n uint64) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}
