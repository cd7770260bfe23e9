package walk

import (
	"testing"

	"chaisema/ast"
	"chaisema/common"
	"chaisema/config"
	"chaisema/report"
	"chaisema/types"

	"github.com/stretchr/testify/assert"
)

var sp = &report.Span{}

func newAnalyzer() (*Walker, *report.BasicSink) {
	sink := report.NewBasicSink()
	tt := types.NewTypeTable()
	w := NewWalker(tt, sink, nil, config.Default())
	return w, sink
}

func localDecl(symbol string, mutable bool) *common.Decl {
	return &common.Decl{Kind: common.DeclLocal, Symbol: symbol, Span: sp, Mutable: mutable}
}

func paramDecl(symbol string) *common.Decl {
	return &common.Decl{Kind: common.DeclParam, Symbol: symbol, Span: sp}
}

func pathTo(decl *common.Decl) *ast.Path {
	p := ast.NewPath(sp, decl.Symbol)
	p.Decl = decl
	return p
}

func primTE(name string) *ast.PrimTypeExpr {
	return ast.NewPrimTypeExpr(sp, name)
}

func intLit(value string) *ast.Literal {
	return ast.NewLiteral(sp, ast.LitInt, value, "")
}

func suffixedIntLit(value, suffix string) *ast.Literal {
	return ast.NewLiteral(sp, ast.LitInt, value, suffix)
}

func asItem(fd *ast.FuncDef) []ast.Item {
	return []ast.Item{fd}
}

func analyze(t *testing.T, items []ast.Item) (*Walker, *report.BasicSink) {
	t.Helper()
	w, sink := newAnalyzer()
	mod := ast.NewModule(sp, &common.Decl{Kind: common.DeclModule, Symbol: "m", Span: sp}, items)
	w.AnalyzeModule(mod)
	return w, sink
}

// fn f(a, b) -> i32 { a + b }
func TestFuncDefAdditionMatchesDeclaredReturnType(t *testing.T) {
	declA := paramDecl("a")
	declB := paramDecl("b")
	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "f", Span: sp},
		[]ast.Param{{Decl: declA, Type: primTE("i32")}, {Decl: declB, Type: primTE("i32")}},
		primTE("i32"),
		ast.NewBlock(sp, nil, ast.NewBinaryOp(sp, common.OpAdd, pathTo(declA), pathTo(declB))),
	)

	_, sink := analyze(t, asItem(fd))

	assert.True(t, sink.Succeeded())
	assert.Empty(t, sink.Errors())
}

// let x = 1; let y: i64 = x;
func TestLetStmtPropagatesInferredTypeToAnnotatedLet(t *testing.T) {
	declX := localDecl("x", false)
	declY := localDecl("y", false)

	body := ast.NewBlock(sp, []ast.Stmt{
		ast.NewLetStmt(sp, declX, nil, intLit("1")),
		ast.NewLetStmt(sp, declY, primTE("i64"), pathTo(declX)),
	}, nil)

	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "f", Span: sp}, nil, nil, body)

	_, sink := analyze(t, asItem(fd))

	assert.True(t, sink.Succeeded())
	assert.True(t, types.Equals(declY.Type, types.PrimType{Kind: types.PrimI64}))
}

// fn g() -> bool { 1 }
func TestFuncDefReturnTypeMismatchIsReported(t *testing.T) {
	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "g", Span: sp}, nil,
		primTE("bool"),
		ast.NewBlock(sp, nil, intLit("1")),
	)

	_, sink := analyze(t, asItem(fd))

	assert.False(t, sink.Succeeded())
}

// fn h() { let mut x = 1; 2; }
func TestUnusedMutAndNoEffectStatementAreWarned(t *testing.T) {
	declX := localDecl("x", true)

	body := ast.NewBlock(sp, []ast.Stmt{
		ast.NewLetStmt(sp, declX, nil, intLit("1")),
		ast.NewExprStmt(sp, intLit("2")),
	}, nil)

	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "h", Span: sp}, nil, nil, body)

	_, sink := analyze(t, asItem(fd))

	assert.True(t, sink.Succeeded(), "warnings alone must not fail the run")

	var sawUnusedMut, sawNoEffect bool
	for _, m := range sink.Messages {
		if m.Severity != report.SeverityWarning {
			continue
		}
		if m.Text == "'x' is declared mutable but never written" {
			sawUnusedMut = true
		}
		if m.Text == "statement with no effect" {
			sawNoEffect = true
		}
	}

	assert.True(t, sawUnusedMut)
	assert.True(t, sawNoEffect)
}

// fn i() { let a = []; }
func TestUnconstrainedEmptyArrayLeavesUnknownResidue(t *testing.T) {
	declA := localDecl("a", false)

	body := ast.NewBlock(sp, []ast.Stmt{
		ast.NewLetStmt(sp, declA, nil, ast.NewArrayLit(sp, nil)),
	}, nil)

	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "i", Span: sp}, nil, nil, body)

	_, sink := analyze(t, asItem(fd))

	assert.False(t, sink.Succeeded())
}

// fn j() { *5; }
func TestDereferenceOfNonPointerIsReported(t *testing.T) {
	deref := ast.NewPrefixExpr(sp, common.OpDeref, intLit("5"), false)

	body := ast.NewBlock(sp, []ast.Stmt{ast.NewExprStmt(sp, deref)}, nil)
	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "j", Span: sp}, nil, nil, body)

	_, sink := analyze(t, asItem(fd))

	assert.False(t, sink.Succeeded())
}

// fn k(s: [i32; 3]) { let v: [i32] = s; }
func TestDefiniteArrayParamCoercesToIndefiniteArrayLocal(t *testing.T) {
	declS := paramDecl("s")
	declV := localDecl("v", false)

	arrTE := ast.NewArrayTypeExpr(sp, primTE("i32"), intLit("3"))
	viewTE := ast.NewArrayTypeExpr(sp, primTE("i32"), nil)

	body := ast.NewBlock(sp, []ast.Stmt{
		ast.NewLetStmt(sp, declV, viewTE, pathTo(declS)),
	}, nil)

	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "k", Span: sp},
		[]ast.Param{{Decl: declS, Type: arrTE}}, nil, body)

	_, sink := analyze(t, asItem(fd))

	assert.True(t, sink.Succeeded())
}

// Struct literal missing a declared field is reported.
func TestStructInitMissingFieldIsReported(t *testing.T) {
	w, sink := newAnalyzer()

	fieldADecl := &common.Decl{Kind: common.DeclField, Symbol: "a", Span: sp}
	fieldBDecl := &common.Decl{Kind: common.DeclField, Symbol: "b", Span: sp}
	structDecl := &common.Decl{Kind: common.DeclStruct, Symbol: "S", Span: sp}

	sd := ast.NewStructDef(sp, structDecl, []ast.StructField{
		{Decl: fieldADecl, Type: primTE("i32")},
		{Decl: fieldBDecl, Type: primTE("i32")},
	})

	init := ast.NewStructInit(sp, pathTo(structDecl), []ast.FieldInit{
		{Name: "a", NameSpan: sp, Init: intLit("1")},
	})

	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "mk", Span: sp}, nil, nil,
		ast.NewBlock(sp, []ast.Stmt{ast.NewExprStmt(sp, init)}, nil))

	mod := ast.NewModule(sp, &common.Decl{Kind: common.DeclModule, Symbol: "m", Span: sp}, []ast.Item{sd, fd})
	w.AnalyzeModule(mod)

	assert.False(t, sink.Succeeded())
}

// -----------------------------------------------------------------------------
// call.go

func TestNumLambdasCountsNestedWrappers(t *testing.T) {
	tt := types.NewTypeTable()
	i32 := tt.Prim(types.PrimI32)

	assert.Equal(t, 0, numLambdas(i32))

	lambda := tt.Lambda(tt.Lambda(i32, "U"), "T")
	assert.Equal(t, 2, numLambdas(lambda))
}

// fn add(a: i32, b: i32) -> i32 { a + b }; add(1, 2) — add's Fn signature is
// arity 3 (two params plus the trailing return-continuation slot), so a
// 2-arg call hits the arity-plus-one branch of spec.md §4.3.6 and yields
// add's declared return type: the ordinary "call returns a value" path.
func TestInferCallArityPlusOneYieldsReturnValue(t *testing.T) {
	declA := paramDecl("a")
	declB := paramDecl("b")
	addDecl := &common.Decl{Kind: common.DeclFunc, Symbol: "add", Span: sp}

	addFn := ast.NewFuncDef(sp, addDecl,
		[]ast.Param{{Decl: declA, Type: primTE("i32")}, {Decl: declB, Type: primTE("i32")}},
		primTE("i32"),
		ast.NewBlock(sp, nil, ast.NewBinaryOp(sp, common.OpAdd, pathTo(declA), pathTo(declB))),
	)

	callerPath := ast.NewPath(sp, "add")
	callerPath.Decl = addDecl
	call := ast.NewCall(sp, callerPath, []ast.Expr{suffixedIntLit("1", "i32"), suffixedIntLit("2", "i32")})

	caller := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "main", Span: sp}, nil, nil,
		ast.NewBlock(sp, []ast.Stmt{ast.NewExprStmt(sp, call)}, nil))

	_, sink := analyze(t, []ast.Item{addFn, caller})

	assert.True(t, sink.Succeeded())
	assert.True(t, types.Equals(call.ExprType(), types.PrimType{Kind: types.PrimI32}))
}

// A `for e in each()` loop where each's Fn type ends in a continuation
// matching the desugared call's exact arity: the appended loop body makes
// up the full argument count, so the call rule's exact-arity branch fires
// and the ForExpr's own type is NoRet (spec.md §4.3.6's desugaring, this
// time reusing the exact-arity branch rather than the arity-plus-one branch
// exercised above).
func TestForExprExactArityCallYieldsNoRet(t *testing.T) {
	w, sink := newAnalyzer()

	i32 := w.tt.Prim(types.PrimI32)
	contType := w.tt.Fn([]types.Type{i32, w.tt.Fn([]types.Type{i32})})

	collDecl := &common.Decl{Kind: common.DeclFunc, Symbol: "each", Span: sp}
	collDecl.Type = w.tt.Fn([]types.Type{contType})

	elemDecl := localDecl("e", false)
	fe := ast.NewForExpr(sp,
		ast.NewCall(sp, pathTo(collDecl), nil),
		ast.NewLoopFnExpr(sp, elemDecl, suffixedIntLit("0", "i32")),
	)

	fd := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "loop", Span: sp}, nil, nil,
		ast.NewBlock(sp, []ast.Stmt{ast.NewExprStmt(sp, fe)}, nil))

	mod := ast.NewModule(sp, &common.Decl{Kind: common.DeclModule, Symbol: "m", Span: sp}, []ast.Item{fd})
	w.AnalyzeModule(mod)

	assert.True(t, sink.Succeeded())

	_, isNoRet := fe.ExprType().(types.NoRetType)
	assert.True(t, isNoRet, "an exact-arity desugared for-call never returns normally")
}

// A call whose argument count matches neither the function's arity nor
// arity+1 is an error.
func TestInferCallArityMismatchIsError(t *testing.T) {
	declA := paramDecl("a")
	addDecl := &common.Decl{Kind: common.DeclFunc, Symbol: "one", Span: sp}

	oneArgFn := ast.NewFuncDef(sp, addDecl,
		[]ast.Param{{Decl: declA, Type: primTE("i32")}},
		primTE("i32"),
		pathTo(declA),
	)

	calleePath := ast.NewPath(sp, "one")
	calleePath.Decl = addDecl
	call := ast.NewCall(sp, calleePath, []ast.Expr{
		suffixedIntLit("1", "i32"), suffixedIntLit("2", "i32"), suffixedIntLit("3", "i32"),
	})

	caller := ast.NewFuncDef(sp, &common.Decl{Kind: common.DeclFunc, Symbol: "main", Span: sp}, nil, nil,
		ast.NewBlock(sp, []ast.Stmt{ast.NewExprStmt(sp, call)}, nil))

	w, _ := newAnalyzer()
	mod := ast.NewModule(sp, &common.Decl{Kind: common.DeclModule, Symbol: "m", Span: sp}, []ast.Item{oneArgFn, caller})
	w.AnalyzeModule(mod)

	_, isErr := call.ExprType().(types.ErrorType)
	assert.True(t, isErr)
}
