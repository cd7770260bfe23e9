package walk

import (
	"chaisema/ast"
	"chaisema/common"
	"chaisema/types"
)

// inferExprKind computes the raw (pre-constrain) type of e by dispatching
// on its variant, following the table in spec.md §4.3.5.
func (w *Walker) inferExprKind(e ast.Expr) types.Type {
	switch ex := e.(type) {
	case *ast.Literal:
		return w.inferLiteral(ex)
	case *ast.Path:
		return w.inferPath(ex)
	case *ast.PrefixExpr:
		return w.inferPrefixExpr(ex)
	case *ast.BinaryOp:
		return w.inferBinaryOp(ex)
	case *ast.MultiComparison:
		return w.inferMultiComparison(ex)
	case *ast.IncDecExpr:
		w.infer(ex.Operand)

		if d := lvalueDecl(ex.Operand); d != nil {
			w.markDeclWrite(d)
		}

		return ex.Operand.ExprType()
	case *ast.AssignExpr:
		return w.inferAssignExpr(ex)
	case *ast.IfExpr:
		return w.inferIfExpr(ex)
	case *ast.WhileExpr:
		return w.inferWhileExpr(ex)
	case *ast.ForExpr:
		return w.inferForExpr(ex)
	case *ast.LoopFnExpr:
		return w.inferLoopFnExpr(ex)
	case *ast.Block:
		return w.inferBlock(ex)
	case *ast.Tuple:
		return w.inferTuple(ex)
	case *ast.ArrayLit:
		return w.inferArrayLit(ex)
	case *ast.SimdLit:
		return w.inferSimdLit(ex)
	case *ast.StructInit:
		return w.inferStructInit(ex)
	case *ast.Field:
		return w.inferField(ex)
	case *ast.TupleField:
		return w.inferTupleField(ex)
	case *ast.Index:
		return w.inferIndex(ex)
	case *ast.Call:
		return w.inferCall(ex)
	case *ast.Cast:
		w.rvalue(&ex.Src)
		return w.typeOfTypeExpr(ex.DstType)
	case *ast.Ref2RValueExpr:
		return ex.ExprType()
	case *ast.ImplicitCastExpr:
		return ex.DstType
	case *ast.TypeAppExpr:
		return w.inferTypeApp(ex)
	default:
		return w.tt.Error()
	}
}

func (w *Walker) inferLiteral(lit *ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitBool:
		return w.tt.Prim(types.PrimBool)
	case ast.LitChar:
		return w.tt.Prim(types.PrimU8)
	case ast.LitString:
		return w.tt.DefArray(w.tt.Prim(types.PrimU8), uint64(len(lit.Value))+1)
	case ast.LitNothing:
		return w.tt.Unit()
	case ast.LitInt:
		if lit.Suffix != "" {
			return w.primFromName(lit.Suffix)
		}

		return w.tt.Prim(types.PrimI64)
	case ast.LitFloat:
		if lit.Suffix != "" {
			return w.primFromName(lit.Suffix)
		}

		return w.tt.Prim(types.PrimF64)
	default:
		return w.tt.Error()
	}
}

func (w *Walker) inferPath(p *ast.Path) types.Type {
	if p.Decl == nil {
		return w.tt.Error()
	}

	w.markDeclUse(p.Decl)

	resolved := w.tt.Find(p.Decl.Type)
	return w.tt.Ref(resolved, p.Decl.Mutable, 0)
}

func (w *Walker) markDeclUse(decl *common.Decl) {
	if decl.Kind != common.DeclLocal && decl.Kind != common.DeclParam {
		return
	}

	if w.mutUses == nil {
		w.mutUses = make(map[*common.Decl]*mutUse)
	}

	use, ok := w.mutUses[decl]
	if !ok {
		use = &mutUse{declaredAt: w.fnDepth}
		w.mutUses[decl] = use
	}

	use.used = true

	if w.fnDepth != use.declaredAt {
		use.crossNesting = true
	}
}

// registerMut ensures decl has a mutUse record (so the unused-mut sweep
// sees it even if it is never referenced) without marking it used.
func (w *Walker) registerMut(decl *common.Decl) {
	if w.mutUses == nil {
		w.mutUses = make(map[*common.Decl]*mutUse)
	}

	if _, ok := w.mutUses[decl]; !ok {
		w.mutUses[decl] = &mutUse{declaredAt: w.fnDepth}
	}
}

// markDeclWrite records that decl was assigned, incremented, or had its
// address taken mutably — input to the unused-mut check (spec.md §4.4).
func (w *Walker) markDeclWrite(decl *common.Decl) {
	if decl.Kind != common.DeclLocal && decl.Kind != common.DeclParam {
		return
	}

	w.markDeclUse(decl)
	w.mutUses[decl].written = true
}

// lvalueDecl returns the Decl a (possibly wrapped) lvalue expression
// ultimately names, or nil if it isn't a bare path.
func lvalueDecl(e ast.Expr) *common.Decl {
	if p, ok := e.(*ast.Path); ok {
		return p.Decl
	}

	return nil
}

func (w *Walker) inferPrefixExpr(pe *ast.PrefixExpr) types.Type {
	switch pe.Op {
	case common.OpAddrOf:
		w.infer(pe.Operand)
		operandType := pe.Operand.ExprType()

		var pointee types.Type
		var addrSpace int

		if ref, ok := operandType.(*types.RefType); ok {
			pointee = ref.Pointee
			addrSpace = ref.AddrSpace
		} else {
			pointee = operandType
		}

		if pe.Mutable {
			if d := lvalueDecl(pe.Operand); d != nil {
				w.markDeclWrite(d)
			}
		}

		return w.tt.Ptr(types.Borrowed, pointee, pe.Mutable, addrSpace)
	case common.OpDeref:
		rv := w.rvalue(&pe.Operand)

		if ptr, ok := rv.(*types.PtrType); ok {
			return w.tt.Ref(ptr.Pointee, ptr.Mutable, ptr.AddrSpace)
		}

		return w.tt.Error()
	case common.OpIncr, common.OpDecr:
		w.infer(pe.Operand)
		return pe.Operand.ExprType()
	case common.OpOwnedPtr:
		rv := w.rvalue(&pe.Operand)
		return w.tt.Ptr(types.Owned, rv, false, 0)
	default:
		// +e, -e, !e, and the run/hlt intrinsic prefixes all act on the
		// rvalue of their operand.
		return w.rvalue(&pe.Operand)
	}
}

func (w *Walker) inferBinaryOp(bo *ast.BinaryOp) types.Type {
	lhs := w.rvalue(&bo.Lhs)
	rhs := w.rvalue(&bo.Rhs)

	if bo.Op.IsComparison() {
		w.tt.Unify(lhs, rhs)

		if simd, ok := lhs.(*types.SimdType); ok {
			return w.tt.Simd(w.tt.Prim(types.PrimBool), simd.Lanes)
		}

		return w.tt.Prim(types.PrimBool)
	}

	switch bo.Op {
	case common.OpLAnd, common.OpLOr:
		boolT := w.tt.Prim(types.PrimBool)
		w.coerce(boolT, &bo.Lhs)
		w.coerce(boolT, &bo.Rhs)
		return boolT
	default:
		return w.tt.Unify(lhs, rhs)
	}
}

func (w *Walker) inferMultiComparison(mc *ast.MultiComparison) types.Type {
	var last types.Type

	for i := range mc.Exprs {
		t := w.rvalue(&mc.Exprs[i])

		if last != nil {
			w.tt.Unify(last, t)
		}

		last = t
	}

	return w.tt.Prim(types.PrimBool)
}

func (w *Walker) inferAssignExpr(ae *ast.AssignExpr) types.Type {
	w.infer(ae.Lhs)

	if !ae.Lhs.IsLValue() {
		w.errorAt(ae.Lhs.Span(), "left side of assignment must be an lvalue")
	}

	if d := lvalueDecl(ae.Lhs); d != nil {
		w.markDeclWrite(d)
	}

	lhsType := ae.Lhs.ExprType()

	w.rvalue(&ae.Rhs)

	if !ae.IsCompound {
		w.coerce(lhsType, &ae.Rhs)
	}

	return w.tt.Unit()
}

func (w *Walker) inferIfExpr(ie *ast.IfExpr) types.Type {
	boolT := w.tt.Prim(types.PrimBool)
	w.rvalue(&ie.Cond)
	w.coerce(boolT, &ie.Cond)

	thenType := w.rvalue(&ie.Then)

	if ie.Else == nil {
		return w.tt.Unit()
	}

	elseType := w.rvalue(&ie.Else)

	if _, ok := thenType.(types.NoRetType); ok {
		return elseType
	}

	if _, ok := elseType.(types.NoRetType); ok {
		return thenType
	}

	return w.tt.Unify(thenType, elseType)
}

func (w *Walker) inferWhileExpr(we *ast.WhileExpr) types.Type {
	boolT := w.tt.Prim(types.PrimBool)
	w.rvalue(&we.Cond)
	w.coerce(boolT, &we.Cond)

	if we.BreakDecl == nil {
		we.BreakDecl = &common.Decl{Kind: common.DeclLocal, Symbol: "break"}
		we.ContinueDecl = &common.Decl{Kind: common.DeclLocal, Symbol: "continue"}
	}

	w.pushLoop(we.BreakDecl, we.ContinueDecl)
	w.rvalue(&we.Body)
	w.popLoop()

	return w.tt.Unit()
}

// inferForExpr implements spec.md §4.3.6's `for e in coll(args)` desugaring:
// if coll(args) is a Fn ending in a continuation, the loop's own Fn is
// appended to coll's argument list and the combined call is dispatched
// through the ordinary call rule (checkCallArity). Otherwise each operand is
// still visited (for residue/side-effect purposes) and the loop yields unit.
func (w *Walker) inferForExpr(fe *ast.ForExpr) types.Type {
	calleeType := w.rvalue(&fe.Coll.Func)

	if fe.BreakDecl == nil {
		fe.BreakDecl = &common.Decl{Kind: common.DeclLocal, Symbol: "break"}
		fe.ContinueDecl = &common.Decl{Kind: common.DeclLocal, Symbol: "continue"}
	}

	fnType, ok := calleeType.(*types.FnType)
	if !ok {
		for i := range fe.Coll.Args {
			w.rvalue(&fe.Coll.Args[i])
		}

		w.rvalue(&fe.Fn)
		return w.tt.Unit()
	}

	if n := len(fnType.Ops); n > 0 {
		if contFn, ok := fnType.Ops[n-1].(*types.FnType); ok {
			fe.BreakDecl.Type = w.tt.Constrain(fe.BreakDecl.Type, contFn)
		}
	}

	w.pushLoop(fe.BreakDecl, fe.ContinueDecl)

	effective := append(append([]ast.Expr{}, fe.Coll.Args...), fe.Fn)
	result := w.checkCallArity(ast.NewCall(fe.Coll.Span(), fe.Coll.Func, effective), fnType)

	copy(fe.Coll.Args, effective[:len(effective)-1])
	fe.Fn = effective[len(effective)-1]

	w.popLoop()

	return result
}

// inferLoopFnExpr infers the synthetic continuation closure a ForExpr
// appends to its desugared call: the bound element's type is left to be
// narrowed by the coerce against coll's expected continuation shape, and the
// closure's own type is the continuation-style Fn over (elem, body-result).
func (w *Walker) inferLoopFnExpr(fn *ast.LoopFnExpr) types.Type {
	elem := fn.Elem.Type
	if elem == nil {
		elem = w.tt.Unknown()
	}

	fn.Elem.Type = w.tt.Constrain(fn.Elem.Type, elem)

	bodyType := w.rvalue(&fn.Body)

	return w.tt.Fn([]types.Type{fn.Elem.Type, w.tt.FnFromType(bodyType)})
}

// inferBlock implements spec.md §4.3.5's block rule, extended per the
// glossary's NoRet entry: a block containing an unconditional break,
// continue, return, or NoRet-typed statement never reaches its tail (or the
// code after it), so the block itself is typed NoRet rather than by its
// tail expression.
func (w *Walker) inferBlock(b *ast.Block) types.Type {
	diverges := false

	for i := range b.Stmts {
		w.inferStmt(b.Stmts[i])

		if stmtDiverges(b.Stmts[i]) {
			diverges = true
		}
	}

	if diverges {
		return w.tt.NoRet()
	}

	if b.Tail != nil {
		return w.rvalue(&b.Tail)
	}

	return w.tt.Unit()
}

// stmtDiverges reports whether s unconditionally transfers control out of
// its enclosing block.
func stmtDiverges(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.ReturnStmt:
		return true
	case *ast.ExprStmt:
		_, ok := st.Expr.ExprType().(types.NoRetType)
		return ok
	default:
		return false
	}
}

func (w *Walker) inferTuple(t *ast.Tuple) types.Type {
	ops := make([]types.Type, len(t.Exprs))
	for i := range t.Exprs {
		ops[i] = w.rvalue(&t.Exprs[i])
	}

	return w.tt.Tuple(ops)
}

func (w *Walker) inferArrayLit(al *ast.ArrayLit) types.Type {
	if len(al.Elems) == 0 {
		if prev, ok := al.ExprType().(*types.DefArrayType); ok {
			return prev
		}

		return w.tt.DefArray(w.tt.Unknown(), 0)
	}

	elemType := w.rvalue(&al.Elems[0])

	for i := 1; i < len(al.Elems); i++ {
		t := w.rvalue(&al.Elems[i])
		elemType = w.tt.Unify(elemType, t)
	}

	return w.tt.DefArray(elemType, uint64(len(al.Elems)))
}

func (w *Walker) inferSimdLit(sl *ast.SimdLit) types.Type {
	if len(sl.Elems) == 0 {
		if prev, ok := sl.ExprType().(*types.SimdType); ok {
			return prev
		}

		return w.tt.Simd(w.tt.Unknown(), 0)
	}

	elemType := w.rvalue(&sl.Elems[0])

	for i := 1; i < len(sl.Elems); i++ {
		t := w.rvalue(&sl.Elems[i])
		elemType = w.tt.Unify(elemType, t)
	}

	return w.tt.Simd(elemType, uint64(len(sl.Elems)))
}

func (w *Walker) inferStructInit(si *ast.StructInit) types.Type {
	typeExprType := w.rvalue(&si.TypeExpr)

	structType, ok := typeExprType.(*types.StructType)
	if !ok {
		for i := range si.Fields {
			w.rvalue(&si.Fields[i].Init)
		}

		return w.tt.Error()
	}

	for i := range si.Fields {
		fi := &si.Fields[i]

		field, found := structType.FieldByName(fi.Name)

		w.rvalue(&fi.Init)

		if !found {
			continue
		}

		w.coerce(field.Type, &fi.Init)
	}

	return structType
}

func (w *Walker) inferField(f *ast.Field) types.Type {
	w.infer(f.Root)
	rootType := w.tt.Find(f.Root.ExprType())

	var ref *types.RefType
	if r, ok := rootType.(*types.RefType); ok {
		ref = r
		rootType = r.Pointee
	}

	if ptr, ok := rootType.(*types.PtrType); ok {
		f.Root = ast.NewPrefixExpr(f.Root.Span(), common.OpDeref, f.Root, ptr.Mutable)
		f.Root.SetExprType(w.tt.Ref(ptr.Pointee, ptr.Mutable, ptr.AddrSpace))
		rootType = ptr.Pointee
		ref = w.tt.Ref(ptr.Pointee, ptr.Mutable, ptr.AddrSpace)
	}

	st, ok := rootType.(*types.StructType)
	if !ok {
		return w.tt.Error()
	}

	field, found := st.FieldByName(f.FieldName)
	if !found {
		return w.tt.Error()
	}

	return w.wrapRef(ref, field.Type)
}

func (w *Walker) wrapRef(ref *types.RefType, inner types.Type) types.Type {
	if ref == nil {
		return inner
	}

	return w.tt.Ref(inner, ref.Mutable, ref.AddrSpace)
}

func (w *Walker) inferTupleField(tf *ast.TupleField) types.Type {
	w.infer(tf.Tuple)
	rootType := w.tt.Find(tf.Tuple.ExprType())

	var ref *types.RefType
	if r, ok := rootType.(*types.RefType); ok {
		ref = r
		rootType = r.Pointee
	}

	tup, ok := rootType.(*types.TupleType)
	if !ok || tf.Index < 0 || tf.Index >= len(tup.Ops) {
		return w.tt.Error()
	}

	return w.wrapRef(ref, tup.Ops[tf.Index])
}

func (w *Walker) inferIndex(ix *ast.Index) types.Type {
	w.infer(ix.Root)
	rootType := w.tt.Find(ix.Root.ExprType())

	var ref *types.RefType
	if r, ok := rootType.(*types.RefType); ok {
		ref = r
		rootType = r.Pointee
	}

	for i := range ix.Indices {
		w.rvalue(&ix.Indices[i])
	}

	switch rt := rootType.(type) {
	case *types.DefArrayType:
		return w.wrapRef(ref, rt.Elem)
	case *types.IndefArrayType:
		return w.wrapRef(ref, rt.Elem)
	case *types.SimdType:
		return w.wrapRef(ref, rt.Elem)
	case *types.TupleType:
		if len(ix.Indices) == 1 {
			if lit, ok := ix.Indices[0].(*ast.Literal); ok && lit.Kind == ast.LitInt {
				n := int(parseUint(lit.Value))
				if n >= 0 && n < len(rt.Ops) {
					return w.wrapRef(ref, rt.Ops[n])
				}
			}
		}

		return w.tt.Error()
	default:
		return w.tt.Error()
	}
}

func (w *Walker) inferTypeApp(ta *ast.TypeAppExpr) types.Type {
	calleeType := w.infer(ta.Callee)

	result := calleeType
	for _, arg := range ta.TypeArgs {
		if lambda, ok := result.(*types.LambdaType); ok {
			result = w.tt.App(lambda, arg)
		}
	}

	return result
}
