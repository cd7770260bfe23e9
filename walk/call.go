package walk

import (
	"chaisema/ast"
	"chaisema/types"
)

// numLambdas counts the nested Lambda wrappers at the head of t: the arity
// of type arguments a polymorphic callee of this type expects.
func numLambdas(t types.Type) int {
	n := 0

	for {
		lambda, ok := t.(*types.LambdaType)
		if !ok {
			return n
		}

		n++
		t = lambda.Body
	}
}

// inferCall implements spec.md §4.3.6. The callee is inferred as an rvalue.
// A polymorphic callee is then wrapped in a TypeAppExpr bound to a fresh
// vector of Unknown type arguments and app-reduced one level per bound
// Lambda to obtain a Fn-typed callee. Explicit type arguments are not
// modeled: every slot starts as a fresh Unknown and is narrowed only by
// unification.
func (w *Walker) inferCall(c *ast.Call) types.Type {
	calleeType := w.rvalue(&c.Func)

	if n := numLambdas(calleeType); n > 0 {
		args := make([]types.Type, n)
		for i := range args {
			args[i] = w.tt.Unknown()
		}

		c.Func = ast.WrapTypeApp(c.Func, args)
		calleeType = w.infer(c.Func)
	}

	fnType, ok := calleeType.(*types.FnType)
	if !ok {
		for i := range c.Args {
			w.rvalue(&c.Args[i])
		}

		return w.tt.Error()
	}

	return w.checkCallArity(c, fnType)
}

// checkCallArity implements the arity dispatch of spec.md §4.3.6: exact
// arity is a continuation-style call (type NoRet); arity-plus-one treats
// the trailing op as the return continuation; anything else is an error.
func (w *Walker) checkCallArity(c *ast.Call, fnType *types.FnType) types.Type {
	n := len(fnType.Ops)

	switch {
	case len(c.Args) == n:
		for i := range c.Args {
			w.rvalue(&c.Args[i])
		}
		for i := range c.Args {
			w.coerce(fnType.Ops[i], &c.Args[i])
		}

		return w.tt.NoRet()
	case len(c.Args)+1 == n:
		for i := range c.Args {
			w.rvalue(&c.Args[i])
		}
		for i := range c.Args {
			w.coerce(fnType.Ops[i], &c.Args[i])
		}

		cont := fnType.Ops[n-1]
		contFn, ok := cont.(*types.FnType)
		if !ok {
			return w.tt.Error()
		}

		if len(contFn.Ops) == 1 {
			return contFn.Ops[0]
		}

		return w.tt.Tuple(contFn.Ops)
	default:
		for i := range c.Args {
			w.rvalue(&c.Args[i])
		}

		return w.tt.Error()
	}
}
