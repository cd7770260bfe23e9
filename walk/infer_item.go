package walk

import (
	"chaisema/ast"
	"chaisema/types"
)

// inferItem dispatches one top-level (or extern-block) item through a
// single pass of the fixpoint driver (spec.md §4.3.7): it writes head types
// (signatures) and, for items with bodies, checks the body against them.
func (w *Walker) inferItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDef:
		w.inferFuncDef(it)
	case *ast.StructDef:
		w.inferStructDef(it)
	case *ast.EnumDef:
		w.inferEnumDef(it)
	case *ast.TraitDef:
		for _, m := range it.Methods {
			w.inferFuncDef(m)
		}
	case *ast.ImplDef:
		for _, m := range it.Methods {
			w.inferFuncDef(m)
		}
	case *ast.StaticDef:
		w.inferStaticDef(it)
	case *ast.TypedefDef:
		w.inferTypedefDef(it)
	case *ast.ExternBlock:
		for _, fn := range it.Funcs {
			w.inferFuncDef(fn)
		}
	}
}

func (w *Walker) inferFuncDef(fd *ast.FuncDef) {
	ops := make([]types.Type, 0, len(fd.Params)+1)

	for i := range fd.Params {
		p := &fd.Params[i]
		pt := w.typeOfTypeExpr(p.Type)
		p.Decl.Type = w.tt.Constrain(p.Decl.Type, pt)
		ops = append(ops, p.Decl.Type)
	}

	var retType types.Type
	if fd.RetType != nil {
		retType = w.typeOfTypeExpr(fd.RetType)
	} else {
		retType = w.tt.Unit()
	}

	ops = append(ops, w.tt.FnFromType(retType))
	sig := w.tt.Fn(ops)
	fd.Decl.Type = w.tt.Constrain(fd.Decl.Type, sig)

	if fd.Body == nil {
		return
	}

	prevReturn := w.enclosingReturn
	w.enclosingReturn = retType
	w.fnDepth++

	w.rvalue(&fd.Body)
	w.coerce(retType, &fd.Body)

	w.fnDepth--
	w.enclosingReturn = prevReturn
}

func (w *Walker) inferStructDef(sd *ast.StructDef) {
	fields := make([]types.StructField, len(sd.Fields))

	for i, f := range sd.Fields {
		ft := w.typeOfTypeExpr(f.Type)
		f.Decl.Type = w.tt.Constrain(f.Decl.Type, ft)
		fields[i] = types.StructField{Name: f.Decl.Symbol, Type: f.Decl.Type}
	}

	st := w.tt.Struct(sd.Decl, sd.Decl.Symbol, fields)
	sd.Decl.Type = w.tt.Constrain(sd.Decl.Type, st)
}

func (w *Walker) inferEnumDef(ed *ast.EnumDef) {
	for _, v := range ed.Variants {
		for _, t := range v.Payload {
			w.typeOfTypeExpr(t)
		}

		// Enum discriminant layout is a codegen concern; the analyzer only
		// needs each variant's payload types to type-check construction and
		// matching. The variant's own Decl is typed unit so it carries a
		// known slot through the residue check.
		v.Decl.Type = w.tt.Constrain(v.Decl.Type, w.tt.Unit())
	}

	ed.Decl.Type = w.tt.Constrain(ed.Decl.Type, w.tt.Unit())
}

func (w *Walker) inferStaticDef(sd *ast.StaticDef) {
	var declared types.Type
	if sd.Type != nil {
		declared = w.typeOfTypeExpr(sd.Type)
	}

	if sd.Init != nil {
		initType := w.rvalue(&sd.Init)

		if declared != nil {
			declared = w.coerce(declared, &sd.Init)
		} else {
			declared = initType
		}
	}

	sd.Decl.Type = w.tt.Constrain(sd.Decl.Type, declared)
}

func (w *Walker) inferTypedefDef(td *ast.TypedefDef) {
	target := w.typeOfTypeExpr(td.Target)
	td.Decl.Type = w.tt.Constrain(td.Decl.Type, target)
}
