package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifyKnownEqualTypesReturnSameType(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	result := tt.Unify(i32, i32)
	assert.True(t, Equals(result, i32))
}

func TestUnifyUnknownYieldsToKnown(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	u := tt.Unknown()

	result := tt.Unify(u, i32)
	assert.True(t, Equals(result, i32))

	// Find(u) must now also resolve to i32: the representative forest
	// actually merged, not just the return value.
	assert.True(t, Equals(tt.Find(u), i32))
}

func TestUnifyErrorAbsorbs(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	errT := tt.Error()

	assert.True(t, Equals(tt.Unify(errT, i32), i32))
	assert.True(t, Equals(tt.Unify(i32, errT), i32))
}

func TestUnifyCongruenceRebuildsStructurally(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	i64 := tt.Prim(PrimI64)
	u := tt.Unknown()

	// Unifying (Unknown, i64) against (i32, i64) as tuples must resolve the
	// element Unknown to i32 as a side effect of the structural recursion.
	lhs := tt.Tuple([]Type{u, i64})
	rhs := tt.Tuple([]Type{i32, i64})

	result := tt.Unify(lhs, rhs)
	tup, ok := result.(*TupleType)
	if !assert.True(t, ok) {
		return
	}

	assert.True(t, Equals(tup.Ops[0], i32))
	assert.True(t, Equals(tt.Find(u), i32))
}

func TestUnifyIncompatibleStructuralTagsDoesNotMerge(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	bl := tt.Prim(PrimBool)

	result := tt.Unify(i32, bl)

	// Per the solver's documented fallback, an incompatible pair is not
	// merged in the union-find forest: dst's own Find is unaffected.
	assert.True(t, Equals(result, i32))
	assert.True(t, Equals(tt.Find(i32), i32))
	assert.True(t, Equals(tt.Find(bl), bl))
}

func TestUnifySingletonTupleNormalizes(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	singleton := tt.Tuple([]Type{i32})

	result := tt.Unify(singleton, i32)
	assert.True(t, Equals(result, i32))
}

func TestFindPathCompressionIsIdempotent(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	a := tt.Unknown()
	b := tt.Unknown()
	c := tt.Unknown()

	tt.Unify(a, b)
	tt.Unify(b, c)
	tt.Unify(c, i32)

	first := tt.Find(a)
	second := tt.Find(a)
	assert.True(t, Equals(first, i32))
	assert.True(t, Equals(second, i32))
}

func TestUnifyIsMonotoneTowardKnown(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	u := tt.Unknown()

	assert.False(t, tt.Find(u).IsKnown())
	tt.Unify(u, i32)
	assert.True(t, tt.Find(u).IsKnown())
}

func TestFixpointTerminatesOnStableInput(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	tt.ResetTodo()
	tt.Unify(i32, i32)
	assert.False(t, tt.Todo(), "re-unifying two already-equal known types should not request another pass")
}

func TestConstrainNilSlotAdoptsType(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	result := tt.Constrain(nil, i32)
	assert.True(t, Equals(result, i32))
	assert.True(t, tt.Todo())
}

func TestConstrainStableSlotClearsTodo(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	slot := tt.Constrain(nil, i32)
	tt.ResetTodo()

	result := tt.Constrain(slot, i32)
	assert.True(t, Equals(result, i32))
	assert.False(t, tt.Todo())
}

func TestIsStrictSubtypeOwnedToBorrowed(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	owned := tt.Ptr(Owned, i32, false, 0)
	borrowed := tt.Ptr(Borrowed, i32, false, 0)

	assert.True(t, IsStrictSubtype(owned, borrowed))
	assert.False(t, IsStrictSubtype(borrowed, owned))
	assert.False(t, IsStrictSubtype(owned, owned), "a type is never a strict subtype of itself")
}

func TestIsStrictSubtypeDefiniteToIndefiniteArray(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	def := tt.DefArray(i32, 4)
	indef := tt.IndefArray(i32)

	assert.True(t, IsStrictSubtype(def, indef))
	assert.False(t, IsStrictSubtype(indef, def))
}

func TestIsStrictSubtypeUnrelatedTypesFalse(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	bl := tt.Prim(PrimBool)

	assert.False(t, IsStrictSubtype(i32, bl))
}

// fakeExpr is a minimal ExprTyper for exercising Coerce directly.
type fakeExpr struct {
	t Type
}

func (f *fakeExpr) ExprType() Type     { return f.t }
func (f *fakeExpr) SetExprType(t Type) { f.t = t }

func TestCoerceInsertsCastOnlyOnStrictSubtype(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	owned := tt.Ptr(Owned, i32, false, 0)
	borrowed := tt.Ptr(Borrowed, i32, false, 0)

	wrapped := false
	wrapCast := func(dst Type) Type {
		wrapped = true
		return dst
	}

	result := tt.Coerce(borrowed, owned, wrapCast)
	assert.True(t, wrapped, "coercing an owned pointer into a borrowed slot must insert a cast")
	assert.True(t, Equals(result, borrowed))
}

func TestCoerceDoesNotWrapOnExactMatch(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	wrapped := false
	wrapCast := func(dst Type) Type {
		wrapped = true
		return dst
	}

	result := tt.Coerce(i32, i32, wrapCast)
	assert.False(t, wrapped, "coercing a value already of the declared type must not insert a cast")
	assert.True(t, Equals(result, i32))
}

func TestCoerceUnwrapsRefPointee(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	ref := tt.Ref(i32, true, 0)

	wrapCast := func(dst Type) Type { return dst }

	result := tt.Coerce(ref, i32, wrapCast)
	rt, ok := result.(*RefType)
	if !assert.True(t, ok, "coercing into a Ref slot must return a Ref wrapping the unified pointee") {
		return
	}

	assert.True(t, Equals(rt.Pointee, i32))
	assert.True(t, rt.Mutable)
}
