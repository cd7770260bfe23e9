package walk

import (
	"chaisema/ast"
	"chaisema/common"
)

// inferStmt infers a single statement, threading the child-link-swap rules
// down into whichever sub-expression field each statement variant holds
// (spec.md §4.3.5).
func (w *Walker) inferStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		w.inferLetStmt(s)
	case *ast.ExprStmt:
		w.infer(s.Expr)
	case *ast.ReturnStmt:
		w.inferReturnStmt(s)
	case *ast.BreakStmt:
		if loop, ok := w.currentLoop(); ok {
			s.Target = loop.breakDecl
			w.inferBreakContinue(loop.breakDecl, &s.Value)
		}
	case *ast.ContinueStmt:
		if loop, ok := w.currentLoop(); ok {
			s.Target = loop.continueDecl
			w.inferBreakContinue(loop.continueDecl, nil)
		}
	}
}

// inferBreakContinue implements the continuation-call half of spec.md
// §4.3.6's glossary entry for NoRet: break/continue pass a value (unit, if
// none is given) to their target's Decl, whose type is constrained as a
// continuation Fn over that value — mirroring how `WhileExpr::check`
// inherits `break_decl_`'s type from the loop's continuation slot.
func (w *Walker) inferBreakContinue(target *common.Decl, valuePtr *ast.Expr) {
	if target == nil {
		return
	}

	argType := w.tt.Unit()
	if valuePtr != nil && *valuePtr != nil {
		argType = w.rvalue(valuePtr)
	}

	target.Type = w.tt.Constrain(target.Type, w.tt.FnFromType(argType))
}

func (w *Walker) inferLetStmt(s *ast.LetStmt) {
	if s.Type != nil {
		declared := w.typeOfTypeExpr(s.Type)

		if s.Init != nil {
			w.rvalue(&s.Init)
			w.coerce(declared, &s.Init)
		}

		s.Decl.Type = w.tt.Constrain(s.Decl.Type, declared)
		return
	}

	if s.Init == nil {
		return
	}

	init := w.rvalue(&s.Init)
	s.Decl.Type = w.tt.Constrain(s.Decl.Type, init)
}

func (w *Walker) inferReturnStmt(s *ast.ReturnStmt) {
	if s.Value == nil {
		return
	}

	w.rvalue(&s.Value)

	if w.enclosingReturn != nil {
		w.coerce(w.enclosingReturn, &s.Value)
	}
}
