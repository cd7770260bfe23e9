package walk

import (
	"chaisema/ast"
	"chaisema/types"
)

// infer visits e, computing its raw type via inferExprKind, then folds the
// result into e's type slot with Constrain (spec.md §4.3.2's "check wrapper"
// pattern: `constrain(expr, expr->check(*this))`).
func (w *Walker) infer(e ast.Expr) types.Type {
	computed := w.inferExprKind(e)
	merged := w.tt.Constrain(e.ExprType(), computed)
	e.SetExprType(merged)
	return merged
}

// rvalue implements spec.md §4.3.5's rvalue(e): infer e, then if its type is
// Ref(T,..), replace the child link at exprPtr with a Ref2RValueExpr whose
// type is T.
func (w *Walker) rvalue(exprPtr *ast.Expr) types.Type {
	t := w.infer(*exprPtr)

	if ref, ok := t.(*types.RefType); ok {
		*exprPtr = ast.WrapRef2RValue(*exprPtr, ref)
		return ref.Pointee
	}

	return t
}

// coerce implements spec.md §4.3.3 by delegating to the TypeTable's
// algorithm, supplying a wrapCast callback that performs the AST-level
// child-link swap (insert an ImplicitCastExpr and re-infer it).
func (w *Walker) coerce(dst types.Type, exprPtr *ast.Expr) types.Type {
	return w.tt.Coerce(dst, (*exprPtr).ExprType(), func(d types.Type) types.Type {
		*exprPtr = ast.WrapImplicitCast(*exprPtr, d)
		return w.infer(*exprPtr)
	})
}

// -----------------------------------------------------------------------------

// typeOfTypeExpr evaluates a type-position AST node into a Type handle,
// constraining the node's own type slot along the way (mirrors the
// source's `check(ast_type)` wrapper).
func (w *Walker) typeOfTypeExpr(te ast.TypeExpr) types.Type {
	if te == nil {
		return w.tt.Unknown()
	}

	computed := w.computeTypeExpr(te)
	merged := w.tt.Constrain(te.ExprType(), computed)
	te.SetExprType(merged)
	return merged
}

func (w *Walker) computeTypeExpr(te ast.TypeExpr) types.Type {
	switch t := te.(type) {
	case *ast.PrimTypeExpr:
		return w.primFromName(t.Name)
	case *ast.NamedTypeExpr:
		if t.Decl == nil {
			return w.tt.Error()
		}

		return w.tt.Find(t.Decl.Type)
	case *ast.PtrTypeExpr:
		pointee := w.typeOfTypeExpr(t.Pointee)
		kind := types.Owned
		if !t.Owned {
			kind = types.Borrowed
		}

		return w.tt.Ptr(kind, pointee, t.Mutable, 0)
	case *ast.ArrayTypeExpr:
		elem := w.typeOfTypeExpr(t.Elem)

		if t.Dim == nil {
			return w.tt.IndefArray(elem)
		}

		dim := w.literalDim(t.Dim)
		return w.tt.DefArray(elem, dim)
	case *ast.SimdTypeExpr:
		elem := w.typeOfTypeExpr(t.Elem)
		lanes := w.literalDim(t.Lanes)
		return w.tt.Simd(elem, lanes)
	case *ast.TupleTypeExpr:
		ops := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			ops[i] = w.typeOfTypeExpr(e)
		}

		return w.tt.Tuple(ops)
	case *ast.FnTypeExpr:
		ops := make([]types.Type, 0, len(t.Params)+1)
		for _, p := range t.Params {
			ops = append(ops, w.typeOfTypeExpr(p))
		}

		var ret types.Type
		if t.Ret != nil {
			ret = w.typeOfTypeExpr(t.Ret)
		} else {
			ret = w.tt.Unit()
		}

		ops = append(ops, w.tt.FnFromType(ret))
		return w.tt.Fn(ops)
	default:
		return w.tt.Unknown()
	}
}

// literalDim extracts a compile-time-constant dimension from a parsed
// integer literal expression used in array/simd type position.
func (w *Walker) literalDim(e ast.Expr) uint64 {
	if lit, ok := e.(*ast.Literal); ok && lit.Kind == ast.LitInt {
		return parseUint(lit.Value)
	}

	return 0
}

func parseUint(s string) uint64 {
	var n uint64
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + uint64(c-'0')
	}
	return n
}

func (w *Walker) primFromName(name string) types.Type {
	kind, ok := primKindByName[name]
	if !ok {
		return w.tt.Unknown()
	}

	return w.tt.Prim(kind)
}

var primKindByName = map[string]types.PrimKind{
	"bool":  types.PrimBool,
	"i8":    types.PrimI8,
	"i16":   types.PrimI16,
	"i32":   types.PrimI32,
	"i64":   types.PrimI64,
	"isize": types.PrimIsize,
	"u8":    types.PrimU8,
	"u16":   types.PrimU16,
	"u32":   types.PrimU32,
	"u64":   types.PrimU64,
	"usize": types.PrimUsize,
	"f32":   types.PrimF32,
	"f64":   types.PrimF64,
}
