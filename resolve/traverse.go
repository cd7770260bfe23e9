package resolve

import (
	"chaisema/ast"
	"fmt"
)

// checkItems runs the two-pass sibling-item resolution of spec.md §4.2:
// insert every item's (and extern block member's) Decl first, so forward
// references among siblings resolve, then recursively check each item's
// body.
func (r *Resolver) checkItems(items []ast.Item) {
	for _, item := range items {
		r.insertItemHead(item)
	}

	for _, item := range items {
		r.checkItem(item)
	}
}

func (r *Resolver) insertItemHead(item ast.Item) {
	if eb, ok := item.(*ast.ExternBlock); ok {
		for _, fn := range eb.Funcs {
			r.Insert(fn.Decl)
		}

		return
	}

	r.Insert(item.ItemDecl())
}

func (r *Resolver) checkItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDef:
		r.checkFuncDef(it)
	case *ast.StructDef:
		r.checkStructDef(it)
	case *ast.EnumDef:
		r.checkEnumDef(it)
	case *ast.TraitDef:
		r.checkTraitDef(it)
	case *ast.ImplDef:
		r.checkImplDef(it)
	case *ast.StaticDef:
		r.checkStaticDef(it)
	case *ast.TypedefDef:
		r.checkTypedefDef(it)
	case *ast.ExternBlock:
		for _, fn := range it.Funcs {
			r.checkFuncDef(fn)
		}
	}
}

// checkTypeParams inserts every type parameter first, then checks each
// one's bounds, so mutually recursive bounds resolve (spec.md §4.2).
func (r *Resolver) checkTypeParams(params []*ast.TypeParamDef) {
	for _, tp := range params {
		r.Insert(tp.Decl)
	}

	for _, tp := range params {
		for _, bound := range tp.Bounds {
			r.checkTypeExpr(bound)
		}
	}
}

func (r *Resolver) checkFuncDef(fd *ast.FuncDef) {
	r.PushScope()
	r.checkTypeParams(fd.TypeParams)

	for i := range fd.Params {
		p := &fd.Params[i]
		if p.Decl.Symbol == "" {
			p.Decl.Symbol = fmt.Sprintf("<%d>", i)
		}

		r.Insert(p.Decl)

		if p.Type != nil {
			r.checkTypeExpr(p.Type)
		}
	}

	if fd.RetType != nil {
		r.checkTypeExpr(fd.RetType)
	}

	if fd.Body != nil {
		r.checkExpr(fd.Body)
	}

	r.PopScope()
}

func (r *Resolver) checkStructDef(sd *ast.StructDef) {
	r.PushScope()
	r.checkTypeParams(sd.TypeParams)

	for _, f := range sd.Fields {
		r.checkTypeExpr(f.Type)
	}

	r.PopScope()
}

func (r *Resolver) checkEnumDef(ed *ast.EnumDef) {
	r.PushScope()
	r.checkTypeParams(ed.TypeParams)

	for _, v := range ed.Variants {
		for _, t := range v.Payload {
			r.checkTypeExpr(t)
		}
	}

	r.PopScope()
}

func (r *Resolver) checkTraitDef(td *ast.TraitDef) {
	r.PushScope()

	for _, m := range td.Methods {
		r.checkFuncDef(m)
	}

	r.PopScope()
}

func (r *Resolver) checkImplDef(id *ast.ImplDef) {
	r.PushScope()

	if id.TraitType != nil {
		r.checkTypeExpr(id.TraitType)
	}

	r.checkTypeExpr(id.SelfType)

	for _, m := range id.Methods {
		r.checkFuncDef(m)
	}

	r.PopScope()
}

func (r *Resolver) checkStaticDef(sd *ast.StaticDef) {
	if sd.Type != nil {
		r.checkTypeExpr(sd.Type)
	}

	if sd.Init != nil {
		r.checkExpr(sd.Init)
	}
}

func (r *Resolver) checkTypedefDef(td *ast.TypedefDef) {
	r.checkTypeExpr(td.Target)
}

// -----------------------------------------------------------------------------

func (r *Resolver) checkTypeExpr(te ast.TypeExpr) {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		t.Decl = r.Lookup(t.Span(), t.Name)

		for _, arg := range t.TypeArgs {
			r.checkTypeExpr(arg)
		}
	case *ast.PtrTypeExpr:
		r.checkTypeExpr(t.Pointee)
	case *ast.ArrayTypeExpr:
		r.checkTypeExpr(t.Elem)

		if t.Dim != nil {
			r.checkExpr(t.Dim)
		}
	case *ast.SimdTypeExpr:
		r.checkTypeExpr(t.Elem)
		r.checkExpr(t.Lanes)
	case *ast.TupleTypeExpr:
		for _, e := range t.Elems {
			r.checkTypeExpr(e)
		}
	case *ast.FnTypeExpr:
		for _, p := range t.Params {
			r.checkTypeExpr(p)
		}

		if t.Ret != nil {
			r.checkTypeExpr(t.Ret)
		}
	}
}

// -----------------------------------------------------------------------------

func (r *Resolver) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		if s.Type != nil {
			r.checkTypeExpr(s.Type)
		}

		if s.Init != nil {
			r.checkExpr(s.Init)
		}

		r.Insert(s.Decl)
	case *ast.ExprStmt:
		r.checkExpr(s.Expr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			r.checkExpr(s.Value)
		}
	case *ast.BreakStmt:
		if s.Value != nil {
			r.checkExpr(s.Value)
		}
	case *ast.ContinueStmt:
		// Target links are wired by walk's loop-context tracking, not by
		// name resolution: break/continue are keywords, not identifiers.
	}
}

func (r *Resolver) checkExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Path:
		decl := r.Lookup(e.Span(), e.Name)
		e.Decl = decl

		if decl != nil && !decl.IsValue() {
			r.reportNotAValue(e)
		}
	case *ast.BinaryOp:
		r.checkExpr(e.Lhs)
		r.checkExpr(e.Rhs)
	case *ast.MultiComparison:
		for _, sub := range e.Exprs {
			r.checkExpr(sub)
		}
	case *ast.PrefixExpr:
		r.checkExpr(e.Operand)
	case *ast.Call:
		r.checkExpr(e.Func)

		for _, a := range e.Args {
			r.checkExpr(a)
		}
	case *ast.Field:
		r.checkExpr(e.Root)
	case *ast.TupleField:
		r.checkExpr(e.Tuple)
	case *ast.Index:
		r.checkExpr(e.Root)

		for _, ix := range e.Indices {
			r.checkExpr(ix)
		}
	case *ast.Tuple:
		for _, sub := range e.Exprs {
			r.checkExpr(sub)
		}
	case *ast.ArrayLit:
		for _, sub := range e.Elems {
			r.checkExpr(sub)
		}
	case *ast.SimdLit:
		for _, sub := range e.Elems {
			r.checkExpr(sub)
		}
	case *ast.StructInit:
		r.checkExpr(e.TypeExpr)

		for _, f := range e.Fields {
			r.checkExpr(f.Init)
		}
	case *ast.IfExpr:
		r.checkExpr(e.Cond)
		r.checkExpr(e.Then)

		if e.Else != nil {
			r.checkExpr(e.Else)
		}
	case *ast.WhileExpr:
		r.checkExpr(e.Cond)
		r.checkExpr(e.Body)
	case *ast.ForExpr:
		r.checkExpr(e.Coll.Func)

		for _, a := range e.Coll.Args {
			r.checkExpr(a)
		}

		r.checkExpr(e.Fn)
	case *ast.LoopFnExpr:
		r.PushScope()
		r.Insert(e.Elem)
		r.checkExpr(e.Body)
		r.PopScope()
	case *ast.AssignExpr:
		r.checkExpr(e.Lhs)
		r.checkExpr(e.Rhs)
	case *ast.IncDecExpr:
		r.checkExpr(e.Operand)
	case *ast.Block:
		r.PushScope()

		for _, stmt := range e.Stmts {
			r.checkStmt(stmt)
		}

		if e.Tail != nil {
			r.checkExpr(e.Tail)
		}

		r.PopScope()
	case *ast.Cast:
		r.checkExpr(e.Src)
		r.checkTypeExpr(e.DstType)
	case *ast.Literal:
		// No names to resolve.
	}
}
