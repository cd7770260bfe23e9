package types

// TypeTable interns every Type term produced during analysis. Two handles
// vended by the same TypeTable are equal iff they denote the same term;
// Unknown and freshly minted Lambda identities are the deliberate exception
// (spec.md §4.1).
type TypeTable struct {
	prims   map[PrimKind]PrimType
	ptrs    map[ptrKey]*PtrType
	refs    map[refKey]*RefType
	defArrs map[defArrKey]*DefArrayType
	indArrs map[Type]*IndefArrayType
	simds   map[simdKey]*SimdType
	tuples  []*TupleType
	fns     []*FnType
	vars    map[int]*VarType
	apps    map[appKey]Type

	unitType  *TupleType
	errorType ErrorType
	noretType NoRetType

	nextUnknown uint64

	reps *solver
}

// appKey identifies one App(lambda, arg) call for caching.
type appKey struct {
	lambda *LambdaType
	arg    Type
}

// NewTypeTable creates an empty TypeTable.
func NewTypeTable() *TypeTable {
	tt := &TypeTable{
		prims:   make(map[PrimKind]PrimType),
		ptrs:    make(map[ptrKey]*PtrType),
		refs:    make(map[refKey]*RefType),
		defArrs: make(map[defArrKey]*DefArrayType),
		indArrs: make(map[Type]*IndefArrayType),
		simds:   make(map[simdKey]*SimdType),
		vars:    make(map[int]*VarType),
		apps:    make(map[appKey]Type),
	}

	tt.unitType = tt.Tuple(nil)
	tt.reps = newSolver(tt)
	return tt
}

// Prim returns the canonical type for a primitive kind.
func (tt *TypeTable) Prim(kind PrimKind) PrimType {
	if t, ok := tt.prims[kind]; ok {
		return t
	}

	t := PrimType{Kind: kind}
	tt.prims[kind] = t
	return t
}

// Unit returns the canonical empty-tuple type.
func (tt *TypeTable) Unit() Type { return tt.unitType }

// Error returns the canonical absorbing error type.
func (tt *TypeTable) Error() Type { return tt.errorType }

// NoRet returns the canonical never-returns type.
func (tt *TypeTable) NoRet() Type { return tt.noretType }

// Unknown mints a fresh type variable. Every call returns a distinct handle.
func (tt *TypeTable) Unknown() Type {
	tt.nextUnknown++
	return &UnknownType{id: tt.nextUnknown}
}

type ptrKey struct {
	pointee   Type
	kind      PtrKind
	mutable   bool
	addrSpace int
}

// Ptr returns the canonical pointer type for the given shape.
func (tt *TypeTable) Ptr(kind PtrKind, pointee Type, mutable bool, addrSpace int) *PtrType {
	key := ptrKey{pointee, kind, mutable, addrSpace}
	if t, ok := tt.ptrs[key]; ok {
		return t
	}

	t := &PtrType{Pointee: pointee, Kind: kind, Mutable: mutable, AddrSpace: addrSpace}
	tt.ptrs[key] = t
	return t
}

type refKey struct {
	pointee   Type
	mutable   bool
	addrSpace int
}

// Ref returns the canonical reference (lvalue) type for the given shape.
func (tt *TypeTable) Ref(pointee Type, mutable bool, addrSpace int) *RefType {
	key := refKey{pointee, mutable, addrSpace}
	if t, ok := tt.refs[key]; ok {
		return t
	}

	t := &RefType{Pointee: pointee, Mutable: mutable, AddrSpace: addrSpace}
	tt.refs[key] = t
	return t
}

type defArrKey struct {
	elem Type
	dim  uint64
}

// DefArray returns the canonical definite-size array type.
func (tt *TypeTable) DefArray(elem Type, dim uint64) *DefArrayType {
	key := defArrKey{elem, dim}
	if t, ok := tt.defArrs[key]; ok {
		return t
	}

	t := &DefArrayType{Elem: elem, Dim: dim}
	tt.defArrs[key] = t
	return t
}

// IndefArray returns the canonical indefinite-size (view) array type.
func (tt *TypeTable) IndefArray(elem Type) *IndefArrayType {
	if t, ok := tt.indArrs[elem]; ok {
		return t
	}

	t := &IndefArrayType{Elem: elem}
	tt.indArrs[elem] = t
	return t
}

type simdKey struct {
	elem  Type
	lanes uint64
}

// Simd returns the canonical fixed-lane SIMD vector type.
func (tt *TypeTable) Simd(elem Type, lanes uint64) *SimdType {
	key := simdKey{elem, lanes}
	if t, ok := tt.simds[key]; ok {
		return t
	}

	t := &SimdType{Elem: elem, Lanes: lanes}
	tt.simds[key] = t
	return t
}

// Tuple returns the canonical tuple type over ops, interning structurally.
func (tt *TypeTable) Tuple(ops []Type) *TupleType {
	for _, cand := range tt.tuples {
		if len(cand.Ops) != len(ops) {
			continue
		}

		match := true
		for i, op := range ops {
			if cand.Ops[i] != op {
				match = false
				break
			}
		}

		if match {
			return cand
		}
	}

	t := &TupleType{Ops: append([]Type(nil), ops...)}
	tt.tuples = append(tt.tuples, t)
	return t
}

// Fn returns the canonical function (parameter/continuation) type over ops.
func (tt *TypeTable) Fn(ops []Type) *FnType {
	for _, cand := range tt.fns {
		if len(cand.Ops) != len(ops) {
			continue
		}

		match := true
		for i, op := range ops {
			if cand.Ops[i] != op {
				match = false
				break
			}
		}

		if match {
			return cand
		}
	}

	t := &FnType{Ops: append([]Type(nil), ops...)}
	tt.fns = append(tt.fns, t)
	return t
}

// FnFromType canonicalizes a plain result type into a continuation-style Fn:
// a Tuple(ops) becomes Fn(ops); anything else becomes the single-op Fn([t]).
func (tt *TypeTable) FnFromType(t Type) *FnType {
	if tup, ok := t.(*TupleType); ok {
		return tt.Fn(tup.Ops)
	}

	return tt.Fn([]Type{t})
}

// Struct mints a nominal struct type for decl. Unlike the other
// constructors this is not content-addressed: every call returns a new
// handle, and handles minted for the same declaration compare equal through
// Equals because struct equality is by Decl identity.
func (tt *TypeTable) Struct(decl interface{}, name string, ops []StructField) *StructType {
	return &StructType{Decl: decl, Name: name, Ops: ops}
}

// Lambda wraps body in a fresh type-level abstraction. Each call mints a
// distinct identity even when body is identical to a previous call's.
func (tt *TypeTable) Lambda(body Type, name string) *LambdaType {
	return &LambdaType{Body: body, Name: name}
}

// Var returns the canonical de Bruijn-indexed bound variable at depth.
func (tt *TypeTable) Var(depth int) *VarType {
	if t, ok := tt.vars[depth]; ok {
		return t
	}

	t := &VarType{Depth: depth}
	tt.vars[depth] = t
	return t
}

// App beta-reduces one level of lambda by substituting arg for Var(0)
// occurrences in lambda.Body and decrementing the depth of every other free
// Var occurrence. Results are cached per (lambda, arg) pair (spec.md §4.1),
// so repeated App calls on the same pair return the same handle rather than
// re-walking lambda.Body each time.
func (tt *TypeTable) App(lambda *LambdaType, arg Type) Type {
	key := appKey{lambda: lambda, arg: arg}
	if t, ok := tt.apps[key]; ok {
		return t
	}

	t := tt.substitute(lambda.Body, 0, arg)
	tt.apps[key] = t
	return t
}

func (tt *TypeTable) substitute(t Type, depth int, arg Type) Type {
	switch v := t.(type) {
	case *VarType:
		switch {
		case v.Depth == depth:
			return arg
		case v.Depth > depth:
			return tt.Var(v.Depth - 1)
		default:
			return v
		}
	case *PtrType:
		return tt.Ptr(v.Kind, tt.substitute(v.Pointee, depth, arg), v.Mutable, v.AddrSpace)
	case *RefType:
		return tt.Ref(tt.substitute(v.Pointee, depth, arg), v.Mutable, v.AddrSpace)
	case *DefArrayType:
		return tt.DefArray(tt.substitute(v.Elem, depth, arg), v.Dim)
	case *IndefArrayType:
		return tt.IndefArray(tt.substitute(v.Elem, depth, arg))
	case *SimdType:
		return tt.Simd(tt.substitute(v.Elem, depth, arg), v.Lanes)
	case *TupleType:
		ops := make([]Type, len(v.Ops))
		for i, op := range v.Ops {
			ops[i] = tt.substitute(op, depth, arg)
		}
		return tt.Tuple(ops)
	case *FnType:
		ops := make([]Type, len(v.Ops))
		for i, op := range v.Ops {
			ops[i] = tt.substitute(op, depth, arg)
		}
		return tt.Fn(ops)
	case *LambdaType:
		return tt.Lambda(tt.substitute(v.Body, depth+1, arg), v.Name)
	default:
		return t
	}
}

// Close wraps body in n nested Lambda abstractions.
func (tt *TypeTable) Close(n int, body Type, name string) Type {
	result := body
	for i := 0; i < n; i++ {
		result = tt.Lambda(result, name)
	}

	return result
}
