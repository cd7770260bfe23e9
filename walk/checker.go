package walk

import (
	"chaisema/ast"
	"chaisema/common"
	"chaisema/report"
	"chaisema/types"
)

// checkModule implements spec.md §4.4: one pass over the converged module
// that only detects errors, never mutates a type slot (Find's path
// compression aside). It walks every item the way inferItem does, then
// sweeps the mutUses recorded during inference for the unused-mut warning
// and the nossa address-taken rule.
func (w *Walker) checkModule(mod *ast.Module) {
	for _, item := range mod.Items {
		w.checkItemCaught(item)
	}

	w.sweepMutUses()
}

func (w *Walker) checkItemCaught(item ast.Item) {
	defer report.CatchInto(w.sink, w.source)
	w.checkItem(item)
}

func (w *Walker) checkItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDef:
		w.checkFuncDef(it)
	case *ast.StructDef:
		w.checkStructDef(it)
	case *ast.EnumDef:
		w.checkEnumDef(it)
	case *ast.TraitDef:
		for _, m := range it.Methods {
			w.checkFuncDef(m)
		}
	case *ast.ImplDef:
		for _, m := range it.Methods {
			w.checkFuncDef(m)
		}
	case *ast.StaticDef:
		w.checkResidue(it.Decl)

		if it.Init != nil {
			w.checkExpr(it.Init)
		}

		if it.Type != nil && it.Init != nil {
			declared := w.tt.Find(it.Type.ExprType())
			init := w.tt.Find(ultimateType(it.Init))

			if !fitsInto(init, declared) {
				w.reportErr(it.Span(), "cannot use value of type '%s' as declared type '%s'",
					init.Repr(), declared.Repr())
			}
		}
	case *ast.TypedefDef:
		w.checkResidue(it.Decl)
	case *ast.ExternBlock:
		w.checkExternBlock(it)
	}
}

func (w *Walker) checkExternBlock(eb *ast.ExternBlock) {
	switch eb.ABI {
	case "C", "device", "thorin":
	default:
		w.reportErr(eb.Span(), "unknown extern ABI %q", eb.ABI)
	}

	for _, fn := range eb.Funcs {
		w.checkFuncDef(fn)
	}
}

func (w *Walker) checkFuncDef(fd *ast.FuncDef) {
	w.checkResidue(fd.Decl)

	for i := range fd.Params {
		w.registerMut(fd.Params[i].Decl)
		w.checkResidue(fd.Params[i].Decl)
	}

	if fd.Body == nil {
		return
	}

	w.checkExpr(fd.Body)

	retType := w.tt.Unit()
	if fd.RetType != nil {
		retType = w.tt.Find(fd.RetType.ExprType())
	}

	bodyType := w.tt.Find(fd.Body.ExprType())
	if !fitsInto(bodyType, retType) {
		w.reportErr(fd.Body.Span(), "cannot use value of type '%s' as return type '%s'",
			bodyType.Repr(), retType.Repr())
	}
}

func (w *Walker) checkStructDef(sd *ast.StructDef) {
	w.checkResidue(sd.Decl)

	for _, f := range sd.Fields {
		w.checkResidue(f.Decl)
	}
}

func (w *Walker) checkEnumDef(ed *ast.EnumDef) {
	for _, v := range ed.Variants {
		w.checkResidue(v.Decl)
	}
}

// checkResidue implements spec.md §4.4's "Unknown residue" rule.
func (w *Walker) checkResidue(decl *common.Decl) {
	if decl == nil || decl.Type == nil {
		return
	}

	if !w.tt.Find(decl.Type).IsKnown() {
		w.reportErr(decl.Span, "cannot infer type for '%s'", decl.Symbol)
	}
}

// fitsInto reports whether actual may stand in for want: equal, a strict
// subtype (spec.md §4.3.4), or NoRet, which never produces a value.
func fitsInto(actual, want types.Type) bool {
	if _, ok := actual.(types.NoRetType); ok {
		return true
	}

	return types.Equals(actual, want) || types.IsStrictSubtype(actual, want)
}

// -----------------------------------------------------------------------------

func (w *Walker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		w.registerMut(s.Decl)
		w.checkResidue(s.Decl)

		if s.Init != nil {
			w.checkExpr(s.Init)
		}

		if s.Type != nil && s.Init != nil {
			declared := w.tt.Find(s.Type.ExprType())
			init := w.tt.Find(ultimateType(s.Init))

			if !fitsInto(init, declared) {
				w.reportErr(s.Span(), "cannot use value of type '%s' as declared type '%s'",
					init.Repr(), declared.Repr())
			}
		}
	case *ast.ExprStmt:
		w.checkExpr(s.Expr)
		w.checkExprStmtEffect(s)
	case *ast.ReturnStmt:
		if s.Value != nil {
			w.checkExpr(s.Value)
		}
	case *ast.BreakStmt, *ast.ContinueStmt:
	}
}

// checkExprStmtEffect implements the unreachable/no-effect ExprStmt rule.
func (w *Walker) checkExprStmtEffect(s *ast.ExprStmt) {
	if _, ok := w.tt.Find(s.Expr.ExprType()).(types.NoRetType); ok {
		w.warn(s.Span(), "subsequent statements are unreachable")
		return
	}

	if !hasSideEffect(s.Expr) {
		w.warn(s.Span(), "statement with no effect")
	}
}

// hasSideEffect reports whether e can have an observable effect: a call, an
// assignment, an increment/decrement, a loop, an if with an effectful arm, a
// block that holds any statement or has an effectful tail, or an implicit
// wrapper around one of these.
func hasSideEffect(e ast.Expr) bool {
	switch ex := e.(type) {
	case *ast.Call, *ast.AssignExpr, *ast.IncDecExpr, *ast.WhileExpr, *ast.ForExpr:
		return true
	case *ast.Block:
		if len(ex.Stmts) > 0 {
			return true
		}

		if ex.Tail != nil {
			return hasSideEffect(ex.Tail)
		}

		return false
	case *ast.IfExpr:
		if hasSideEffect(ex.Then) {
			return true
		}

		return ex.Else != nil && hasSideEffect(ex.Else)
	case *ast.ImplicitCastExpr:
		return hasSideEffect(ex.Src)
	case *ast.Ref2RValueExpr:
		return hasSideEffect(ex.Src)
	default:
		return false
	}
}

// -----------------------------------------------------------------------------

func (w *Walker) checkExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Literal, *ast.Path:
		// Nothing further to verify.
	case *ast.PrefixExpr:
		w.checkExpr(ex.Operand)
		w.checkPrefixExpr(ex)
	case *ast.BinaryOp:
		w.checkExpr(ex.Lhs)
		w.checkExpr(ex.Rhs)
		w.checkBinaryOp(ex)
	case *ast.MultiComparison:
		for _, sub := range ex.Exprs {
			w.checkExpr(sub)
		}
	case *ast.IncDecExpr:
		w.checkExpr(ex.Operand)

		if !ex.Operand.IsLValue() {
			w.reportErr(ex.Span(), "operand of '%s' must be an lvalue", incDecSpelling(ex.Op))
		}
	case *ast.AssignExpr:
		w.checkExpr(ex.Lhs)
		w.checkExpr(ex.Rhs)

		if !ex.Lhs.IsLValue() {
			w.reportErr(ex.Span(), "left side of assignment must be an lvalue")
		}
	case *ast.Call:
		w.checkExpr(ex.Func)

		for _, a := range ex.Args {
			w.checkExpr(a)
		}
	case *ast.Field:
		w.checkExpr(ex.Root)
	case *ast.TupleField:
		w.checkExpr(ex.Tuple)
	case *ast.Index:
		w.checkExpr(ex.Root)

		for _, ix := range ex.Indices {
			w.checkExpr(ix)
		}

		w.checkIndex(ex)
	case *ast.Tuple:
		for _, sub := range ex.Exprs {
			w.checkExpr(sub)
		}
	case *ast.ArrayLit:
		for _, sub := range ex.Elems {
			w.checkExpr(sub)
		}
	case *ast.SimdLit:
		for _, sub := range ex.Elems {
			w.checkExpr(sub)
		}
	case *ast.StructInit:
		w.checkExpr(ex.TypeExpr)

		for i := range ex.Fields {
			w.checkExpr(ex.Fields[i].Init)
		}

		w.checkStructCompleteness(ex)
	case *ast.IfExpr:
		w.checkExpr(ex.Cond)
		w.checkExpr(ex.Then)

		if ex.Else != nil {
			w.checkExpr(ex.Else)
		}
	case *ast.WhileExpr:
		w.checkExpr(ex.Cond)
		w.checkExpr(ex.Body)
	case *ast.ForExpr:
		w.checkExpr(ex.Coll)
		w.checkExpr(ex.Fn)
	case *ast.LoopFnExpr:
		w.checkExpr(ex.Body)
	case *ast.Block:
		for _, stmt := range ex.Stmts {
			w.checkStmt(stmt)
		}

		if ex.Tail != nil {
			w.checkExpr(ex.Tail)
		}
	case *ast.Cast:
		w.checkExpr(ex.Src)
		w.checkCast(ex)
	case *ast.Ref2RValueExpr:
		w.checkExpr(ex.Src)
	case *ast.ImplicitCastExpr:
		w.checkExpr(ex.Src)
	case *ast.TypeAppExpr:
		w.checkExpr(ex.Callee)
	}
}

func incDecSpelling(op common.Operator) string {
	if op == common.OpIncr {
		return "++"
	}

	return "--"
}

// -----------------------------------------------------------------------------

// scalar descends through a Simd wrapper to the element type the operand
// kind rules are stated in terms of (spec.md §4.4).
func scalar(t types.Type) types.Type {
	if s, ok := t.(*types.SimdType); ok {
		return s.Elem
	}

	return t
}

func primKind(t types.Type) (types.PrimKind, bool) {
	if p, ok := t.(types.PrimType); ok {
		return p.Kind, true
	}

	return 0, false
}

func (w *Walker) checkPrefixExpr(pe *ast.PrefixExpr) {
	operandType := w.tt.Find(scalar(ultimateType(pe.Operand)))

	switch pe.Op {
	case common.OpAddrOf:
		if !pe.Operand.IsLValue() {
			w.reportErr(pe.Span(), "operand of '&' must be an lvalue")
		}
	case common.OpDeref:
		if _, ok := w.tt.Find(ultimateType(pe.Operand)).(*types.PtrType); !ok {
			w.reportErr(pe.Span(), "operand of '*' must be a pointer")
		}
	case common.OpLNot:
		kind, ok := primKind(operandType)
		if !ok || !(kind.IsInt() || kind.IsBool()) {
			w.reportErr(pe.Span(), "operand of '!' must be an integer or bool")
		}
	}
}

// ultimateType returns the type slot of an already-inferred expression. The
// Ref2RValueExpr/ImplicitCastExpr wrappers infer may have inserted already
// carry the value type the operand-kind rules care about, so nothing is
// peeled.
func ultimateType(e ast.Expr) types.Type {
	return e.ExprType()
}

func (w *Walker) checkBinaryOp(bo *ast.BinaryOp) {
	lhs := w.tt.Find(scalar(ultimateType(bo.Lhs)))
	rhs := w.tt.Find(scalar(ultimateType(bo.Rhs)))

	lk, lok := primKind(lhs)
	rk, rok := primKind(rhs)

	if !lok || !rok {
		return
	}

	switch bo.Op {
	case common.OpAdd, common.OpSub, common.OpMul, common.OpDiv, common.OpMod:
		if !((lk.IsInt() || lk.IsFloat()) && (rk.IsInt() || rk.IsFloat())) {
			w.reportErr(bo.Span(), "arithmetic operator requires integer or float operands")
		}
	case common.OpBWAnd, common.OpBWOr, common.OpBWXor:
		if !((lk.IsInt() || lk.IsBool()) && (rk.IsInt() || rk.IsBool())) {
			w.reportErr(bo.Span(), "bitwise operator requires integer or bool operands")
		}
	case common.OpShl, common.OpShr:
		if !lk.IsInt() || !rk.IsInt() {
			w.reportErr(bo.Span(), "shift operator requires integer operands")
		}
	case common.OpEq, common.OpNeq, common.OpLt, common.OpLtEq, common.OpGt, common.OpGtEq:
		ok := (lk.IsInt() || lk.IsFloat() || lk.IsBool()) && (rk.IsInt() || rk.IsFloat() || rk.IsBool())
		if !ok {
			w.reportErr(bo.Span(), "comparison operator requires integer, float, or bool operands")
		}
	case common.OpLAnd, common.OpLOr:
		if !lk.IsBool() || !rk.IsBool() {
			w.reportErr(bo.Span(), "logical operator requires bool operands")
		}
	}
}

func (w *Walker) checkIndex(ix *ast.Index) {
	rootType := w.tt.Find(ultimateType(ix.Root))

	if len(ix.Indices) > 1 {
		if _, ok := rootType.(*types.TupleType); !ok {
			w.reportErr(ix.Span(), "too many indices")
			return
		}
	}

	switch rootType.(type) {
	case *types.TupleType:
		if len(ix.Indices) != 1 {
			w.reportErr(ix.Span(), "tuple index requires exactly one index")
			return
		}

		if lit, ok := ix.Indices[0].(*ast.Literal); !ok || lit.Kind != ast.LitInt {
			w.reportErr(ix.Indices[0].Span(), "tuple index requires an integer literal")
		}
	case *types.DefArrayType, *types.IndefArrayType, *types.SimdType:
		for _, i := range ix.Indices {
			kind, ok := primKind(w.tt.Find(ultimateType(i)))
			if !ok || !kind.IsInt() {
				w.reportErr(i.Span(), "array index must be an integer")
			}
		}
	}
}

func (w *Walker) checkCast(c *ast.Cast) {
	src := scalar(w.tt.Find(ultimateType(c.Src)))
	dst := scalar(w.tt.Find(c.DstType.ExprType()))

	if !castLegal(src, dst) {
		w.reportErr(c.Span(), "invalid cast from '%s' to '%s'", src.Repr(), dst.Repr())
	}
}

// castLegal implements spec.md §4.4's cast legality matrix.
func castLegal(src, dst types.Type) bool {
	if _, ok := src.(*types.PtrType); ok {
		if _, ok := dst.(*types.PtrType); ok {
			return true
		}
	}

	sk, sok := primKind(src)
	dk, dok := primKind(dst)

	if _, ok := dst.(*types.PtrType); ok && sok && sk.IsInt() {
		return true
	}

	if _, ok := src.(*types.PtrType); ok && dok && dk.IsInt() {
		return true
	}

	if !sok || !dok {
		return false
	}

	switch {
	case sk.IsInt() && dk.IsInt():
		return true
	case sk.IsFloat() && dk.IsFloat():
		return true
	case sk.IsInt() && dk.IsFloat(), sk.IsFloat() && dk.IsInt():
		return true
	case sk.IsInt() && dk.IsBool(), sk.IsBool() && dk.IsInt():
		return true
	case sk.IsFloat() && dk.IsBool(), sk.IsBool() && dk.IsFloat():
		return true
	default:
		return false
	}
}

// checkStructCompleteness implements spec.md §4.4's struct-literal
// completeness rule: every declared field must be initialized exactly once.
func (w *Walker) checkStructCompleteness(si *ast.StructInit) {
	st, ok := w.tt.Find(ultimateType(si.TypeExpr)).(*types.StructType)
	if !ok {
		return
	}

	seen := make(map[string]bool, len(si.Fields))

	for _, fi := range si.Fields {
		if seen[fi.Name] {
			w.reportErr(fi.NameSpan, "field '%s' initialized more than once", fi.Name)
			continue
		}

		seen[fi.Name] = true

		if _, found := st.FieldByName(fi.Name); !found {
			w.reportErr(fi.NameSpan, "'%s' has no field named '%s'", st.Name, fi.Name)
		}
	}

	for _, f := range st.Ops {
		if !seen[f.Name] {
			w.reportErr(si.Span(), "missing field '%s' in initializer of '%s'", f.Name, st.Name)
		}
	}
}

// -----------------------------------------------------------------------------

// sweepMutUses implements the unused-mut warning and the nossa
// address-taken rule (spec.md §4.4, §6) from the use records inference
// accumulated in mutUses.
func (w *Walker) sweepMutUses() {
	for decl, use := range w.mutUses {
		if !decl.Mutable {
			continue
		}

		if !use.written {
			w.warn(decl.Span, "'%s' is declared mutable but never written", decl.Symbol)
		}

		if use.used && (w.cfg.Nossa || use.crossNesting) {
			decl.AddrTaken = true
		}
	}
}
