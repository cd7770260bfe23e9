package resolve

import (
	"testing"

	"chaisema/common"
	"chaisema/report"

	"github.com/stretchr/testify/assert"
)

var zeroSpan = &report.Span{}

func newDecl(symbol string) *common.Decl {
	return &common.Decl{Kind: common.DeclLocal, Symbol: symbol, Span: zeroSpan}
}

func newResolver() (*Resolver, *report.BasicSink) {
	sink := report.NewBasicSink()
	return NewResolver(sink, nil), sink
}

func TestInsertThenLookupResolves(t *testing.T) {
	r, sink := newResolver()
	decl := newDecl("x")

	r.Insert(decl)
	found := r.Lookup(zeroSpan, "x")

	assert.Same(t, decl, found)
	assert.True(t, sink.Succeeded())
}

func TestLookupUndeclaredReportsError(t *testing.T) {
	r, sink := newResolver()

	found := r.Lookup(zeroSpan, "nope")

	assert.Nil(t, found)
	assert.False(t, sink.Succeeded())
}

func TestInsertClashAtSameDepthReportsError(t *testing.T) {
	r, sink := newResolver()
	r.Insert(newDecl("x"))
	r.Insert(newDecl("x"))

	assert.False(t, sink.Succeeded())
	assert.Len(t, sink.Errors(), 2, "both the clash and its previous-location note are errors")
}

func TestPopScopeRestoresShadowedBinding(t *testing.T) {
	r, _ := newResolver()
	outer := newDecl("x")
	r.Insert(outer)

	r.PushScope()
	inner := newDecl("x")
	r.Insert(inner)

	assert.Same(t, inner, r.Lookup(zeroSpan, "x"))
	assert.Same(t, outer, inner.Shadows)

	r.PopScope()

	assert.Same(t, outer, r.Lookup(zeroSpan, "x"))
}

func TestPopScopeDropsDeclsFromThatScopeOnly(t *testing.T) {
	r, _ := newResolver()
	r.Insert(newDecl("a"))

	r.PushScope()
	r.Insert(newDecl("b"))
	r.PopScope()

	assert.NotNil(t, r.Lookup(zeroSpan, "a"))

	sink := report.NewBasicSink()
	r.sink = sink
	r.Lookup(zeroSpan, "b")
	assert.False(t, sink.Succeeded(), "a Decl from a popped scope must no longer resolve")
}

func TestSameSymbolDifferentDepthIsNotAClash(t *testing.T) {
	r, sink := newResolver()
	r.Insert(newDecl("x"))

	r.PushScope()
	r.Insert(newDecl("x"))
	r.PopScope()

	assert.True(t, sink.Succeeded(), "shadowing in an inner scope is not a redeclaration error")
}

func TestNestedScopesRestoreInReverseOrder(t *testing.T) {
	r, _ := newResolver()
	a0 := newDecl("a")
	r.Insert(a0)

	r.PushScope()
	a1 := newDecl("a")
	r.Insert(a1)

	r.PushScope()
	a2 := newDecl("a")
	r.Insert(a2)

	assert.Same(t, a2, r.Lookup(zeroSpan, "a"))
	r.PopScope()
	assert.Same(t, a1, r.Lookup(zeroSpan, "a"))
	r.PopScope()
	assert.Same(t, a0, r.Lookup(zeroSpan, "a"))
}
