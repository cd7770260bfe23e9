package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimInterning(t *testing.T) {
	tt := NewTypeTable()

	a := tt.Prim(PrimI32)
	b := tt.Prim(PrimI32)

	assert.Equal(t, a, b)
	assert.NotEqual(t, tt.Prim(PrimI32), tt.Prim(PrimI64))
}

func TestPtrInterning(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	a := tt.Ptr(Borrowed, i32, false, 0)
	b := tt.Ptr(Borrowed, i32, false, 0)
	assert.Same(t, a, b)

	c := tt.Ptr(Owned, i32, false, 0)
	assert.NotSame(t, a, c)

	d := tt.Ptr(Borrowed, i32, true, 0)
	assert.NotSame(t, a, d)
}

func TestTupleInterningIsStructural(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	i64 := tt.Prim(PrimI64)

	a := tt.Tuple([]Type{i32, i64})
	b := tt.Tuple([]Type{i32, i64})
	assert.Same(t, a, b)

	c := tt.Tuple([]Type{i64, i32})
	assert.NotSame(t, a, c)
}

func TestFnInterning(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	b := tt.Prim(PrimBool)

	a := tt.Fn([]Type{i32, tt.FnFromType(b)})
	c := tt.Fn([]Type{i32, tt.FnFromType(b)})
	assert.Same(t, a, c)
}

func TestFnFromTypeCanonicalizesTuple(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)
	i64 := tt.Prim(PrimI64)

	tup := tt.Tuple([]Type{i32, i64})
	fn := tt.FnFromType(tup)
	assert.Equal(t, []Type{i32, i64}, fn.Ops)

	single := tt.FnFromType(i32)
	assert.Equal(t, []Type{i32}, single.Ops)
}

func TestUnknownIdentityNeverEqual(t *testing.T) {
	tt := NewTypeTable()
	a := tt.Unknown()
	b := tt.Unknown()

	assert.False(t, Equals(a, b))
	assert.True(t, Equals(a, a))
}

func TestLambdaMintsFreshIdentity(t *testing.T) {
	tt := NewTypeTable()
	body := tt.Prim(PrimI32)

	a := tt.Lambda(body, "T")
	b := tt.Lambda(body, "T")

	assert.False(t, Equals(a, b), "two Lambda calls over identical bodies must not be structurally equal")
}

func TestAppSubstitutesVarZero(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	// [T] ~T  applied to i32  ==  ~i32
	body := tt.Ptr(Owned, tt.Var(0), false, 0)
	lambda := tt.Lambda(body, "T")

	result := tt.App(lambda, i32)
	assert.True(t, Equals(result, tt.Ptr(Owned, i32, false, 0)))
}

func TestAppDecrementsOuterVars(t *testing.T) {
	tt := NewTypeTable()
	i32 := tt.Prim(PrimI32)

	// [T][U] (T, U) applied once to i32 at the outer lambda yields [U] (i32, U)
	inner := tt.Tuple([]Type{tt.Var(1), tt.Var(0)})
	outer := tt.Lambda(tt.Lambda(inner, "U"), "T")

	reduced := tt.App(outer, i32)
	lam, ok := reduced.(*LambdaType)
	if !assert.True(t, ok, "App on the outer Lambda must yield another Lambda") {
		return
	}

	tup, ok := lam.Body.(*TupleType)
	if !assert.True(t, ok) {
		return
	}

	assert.True(t, Equals(tup.Ops[0], i32))
	assert.True(t, Equals(tup.Ops[1], tt.Var(0)))
}

func TestCloseWrapsNLambdas(t *testing.T) {
	tt := NewTypeTable()
	body := tt.Var(1)

	closed := tt.Close(2, body, "T")

	depth := 0
	cur := closed
	for {
		lam, ok := cur.(*LambdaType)
		if !ok {
			break
		}
		depth++
		cur = lam.Body
	}

	assert.Equal(t, 2, depth)
}
