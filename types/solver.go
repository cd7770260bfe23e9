package types

// representative is a disjoint-set forest node: every Type handle seen
// during inference maps to exactly one representative via solver.repr.
// Union and find proceed with path compression and union-by-rank, exactly
// the structure named in spec.md §4.3.
type representative struct {
	parent *representative
	typ    Type
	rank   int
}

func (r *representative) isRoot() bool {
	return r.parent == r
}

// solver owns the disjoint-set forest backing a single TypeTable's
// unification state. todo is set whenever a representative is mutated —
// by path compression, by a merge, or by a slot moving from Unknown to
// known — and is read by the fixpoint driver to decide whether another pass
// is needed.
type solver struct {
	tt   *TypeTable
	reps map[Type]*representative
	todo bool
}

func newSolver(tt *TypeTable) *solver {
	return &solver{tt: tt, reps: make(map[Type]*representative)}
}

func (s *solver) representative(t Type) *representative {
	if r, ok := s.reps[t]; ok {
		return r
	}

	r := &representative{typ: t}
	r.parent = r
	s.reps[t] = r
	return r
}

func (s *solver) find(r *representative) *representative {
	if r.parent != r {
		root := s.find(r.parent)
		if r.parent != root {
			s.todo = true
			r.parent = root
		}
	}

	return r.parent
}

// Find returns the canonical type of t's equivalence class.
func (tt *TypeTable) Find(t Type) Type {
	if t == nil {
		return tt.Unknown()
	}

	return tt.reps.find(tt.reps.representative(t)).typ
}

// unify merges the representatives of x and y, keeping x as the survivor.
// Both must already be roots.
func (s *solver) unify(x, y *representative) *representative {
	if x == y {
		return x
	}

	x.rank++
	s.todo = true
	y.parent = x
	return x
}

// unifyByRank merges by rank, as standard union-by-rank: the
// higher-ranked root survives, ties favor x and bump its rank.
func (s *solver) unifyByRank(x, y *representative) *representative {
	if x == y {
		return x
	}

	s.todo = true

	switch {
	case x.rank < y.rank:
		x.parent = y
		return y
	case x.rank > y.rank:
		y.parent = x
		return x
	default:
		x.rank++
		y.parent = x
		return x
	}
}

// Unify implements spec.md §4.3.1: it resolves a and b to their
// representatives' current types, applies singleton-tuple normalization and
// the Fn/Unknown-singleton special case, and otherwise merges by kind —
// Error is absorbing, Unknown yields to known, and matching structural tags
// recurse and rebuild (with the pointer-subtyping and array-coercion special
// cases along the way).
func (tt *TypeTable) Unify(a, b Type) Type {
	if a == nil {
		a = tt.Unknown()
	}

	if b == nil {
		b = tt.Unknown()
	}

	dstRepr := tt.reps.find(tt.reps.representative(a))
	srcRepr := tt.reps.find(tt.reps.representative(b))

	dst := dstRepr.typ
	src := srcRepr.typ

	if t, ok := dst.(*TupleType); ok && len(t.Ops) == 1 {
		dst = t.Ops[0]
	}

	if t, ok := src.(*TupleType); ok && len(t.Ops) == 1 {
		src = t.Ops[0]
	}

	if dstFn, ok := dst.(*FnType); ok {
		if srcFn, ok := src.(*FnType); ok {
			if len(dstFn.Ops) != 1 && len(srcFn.Ops) == 1 {
				if _, isUnk := srcFn.Ops[0].(*UnknownType); isUnk && dstFn.IsKnown() {
					return tt.unifyRepr(dstRepr, srcRepr).typ
				}
			}

			if len(srcFn.Ops) != 1 && len(dstFn.Ops) == 1 {
				if _, isUnk := dstFn.Ops[0].(*UnknownType); isUnk && srcFn.IsKnown() {
					return tt.unifyRepr(srcRepr, dstRepr).typ
				}
			}
		}
	}

	if Equals(dst, src) && dst.IsKnown() {
		return dst
	}

	if _, ok := dst.(ErrorType); ok {
		return src
	}

	if _, ok := src.(ErrorType); ok {
		return dst
	}

	_, dstUnk := dst.(*UnknownType)
	_, srcUnk := src.(*UnknownType)

	if dstUnk && srcUnk {
		return tt.reps.unifyByRank(dstRepr, srcRepr).typ
	}

	if dstUnk {
		return tt.unifyRepr(srcRepr, dstRepr).typ
	}

	if srcUnk {
		return tt.unifyRepr(dstRepr, srcRepr).typ
	}

	if rebuilt, ok := tt.unifyStructural(dst, src); ok {
		return rebuilt
	}

	return dst
}

// unifyRepr merges loser into winner and returns winner, recording the
// winning representative's resolved type — used by Unify's "known side
// becomes representative" branches.
func (tt *TypeTable) unifyRepr(winner, loser *representative) *representative {
	merged := tt.reps.unify(winner, loser)
	merged.typ = winner.typ
	return merged
}

// unifyStructural handles the recursive "same tag, same arity" branch of
// Unify, including pointer-subtyping and array coercion.
func (tt *TypeTable) unifyStructural(dst, src Type) (Type, bool) {
	switch d := dst.(type) {
	case *PtrType:
		if s, ok := src.(*PtrType); ok {
			if d.AddrSpace == s.AddrSpace {
				elem := tt.Unify(d.Pointee, s.Pointee)

				if d.Kind == Borrowed && s.Kind == Owned {
					return tt.Ptr(Borrowed, elem, d.Mutable, d.AddrSpace), true
				}

				if d.Kind == s.Kind {
					return tt.Ptr(d.Kind, elem, d.Mutable, d.AddrSpace), true
				}
			}
		}
	case *RefType:
		if s, ok := src.(*RefType); ok {
			return tt.Ref(tt.Unify(d.Pointee, s.Pointee), d.Mutable, d.AddrSpace), true
		}
	case *IndefArrayType:
		if s, ok := src.(*DefArrayType); ok {
			return tt.IndefArray(tt.Unify(d.Elem, s.Elem)), true
		}

		if s, ok := src.(*IndefArrayType); ok {
			return tt.IndefArray(tt.Unify(d.Elem, s.Elem)), true
		}
	case *DefArrayType:
		if s, ok := src.(*DefArrayType); ok && d.Dim == s.Dim {
			return tt.DefArray(tt.Unify(d.Elem, s.Elem), d.Dim), true
		}
	case *SimdType:
		if s, ok := src.(*SimdType); ok && d.Lanes == s.Lanes {
			return tt.Simd(tt.Unify(d.Elem, s.Elem), d.Lanes), true
		}
	case *TupleType:
		if s, ok := src.(*TupleType); ok && len(d.Ops) == len(s.Ops) {
			ops := make([]Type, len(d.Ops))
			for i := range d.Ops {
				ops[i] = tt.Unify(d.Ops[i], s.Ops[i])
			}
			return tt.Tuple(ops), true
		}
	case *FnType:
		if s, ok := src.(*FnType); ok && len(d.Ops) == len(s.Ops) {
			ops := make([]Type, len(d.Ops))
			for i := range d.Ops {
				ops[i] = tt.Unify(d.Ops[i], s.Ops[i])
			}
			return tt.Fn(ops), true
		}
	case *StructType:
		if s, ok := src.(*StructType); ok && d.Decl == s.Decl {
			return d, true
		}
	}

	return nil, false
}

// Todo reports whether the last pass mutated any representative, driving
// the fixpoint loop in the walker.
func (tt *TypeTable) Todo() bool {
	return tt.reps.todo
}

// ResetTodo clears the todo flag at the start of a new inference pass.
func (tt *TypeTable) ResetTodo() {
	tt.reps.todo = false
}

// -----------------------------------------------------------------------------

// Constrain implements spec.md §4.3.2: if slot is nil it becomes Find(t),
// otherwise it becomes Unify(slot, t). The returned type is always what the
// caller should store back into the AST node's type slot.
func (tt *TypeTable) Constrain(slot Type, t Type) Type {
	if slot == nil {
		tt.reps.todo = true
		return tt.Find(t)
	}

	result := tt.Unify(slot, t)
	if !Equals(result, slot) {
		tt.reps.todo = true
	}

	return result
}

// -----------------------------------------------------------------------------

// IsStrictSubtype implements spec.md §4.3.4: s <: t strictly holds when
// s != t and one of the owned-pointer-to-borrowed-pointer or
// definite-array-to-indefinite-array coercions applies, recursively through
// matching structural tags.
func IsStrictSubtype(s, t Type) bool {
	if Equals(s, t) {
		return false
	}

	return isSubtypeOrEqual(s, t)
}

func isSubtypeOrEqual(s, t Type) bool {
	if Equals(s, t) {
		return true
	}

	switch st := s.(type) {
	case *PtrType:
		tt, ok := t.(*PtrType)
		if !ok || st.AddrSpace != tt.AddrSpace {
			return false
		}

		if st.Kind == Owned && tt.Kind == Borrowed {
			return isSubtypeOrEqual(st.Pointee, tt.Pointee)
		}

		return false
	case *DefArrayType:
		tt, ok := t.(*IndefArrayType)
		if !ok {
			return false
		}

		return isSubtypeOrEqual(st.Elem, tt.Elem)
	default:
		return false
	}
}

// -----------------------------------------------------------------------------

// ExprTyper is the minimal surface of an expression node with a mutable type
// slot.
type ExprTyper interface {
	ExprType() Type
	SetExprType(t Type)
}

// Coerce implements spec.md §4.3.3. wrapCast is invoked only when a strict
// subtype relation is found and should insert an ImplicitCastExpr (or
// equivalent AST rewrite) around the expression and return its resulting
// type; callers that don't need the cast-insertion side effect (eg. tests
// exercising the algorithm directly) can pass a wrapCast that simply returns
// dst.
func (tt *TypeTable) Coerce(dst Type, exprType Type, wrapCast func(dst Type) Type) Type {
	var refWrap *RefType
	if ref, ok := dst.(*RefType); ok {
		refWrap = ref
		dst = ref.Pointee
	}

	exprType = tt.Find(exprType)

	if dst.IsKnown() && exprType.IsKnown() && IsStrictSubtype(exprType, dst) {
		exprType = wrapCast(dst)
	}

	result := tt.Unify(dst, exprType)

	if refWrap != nil {
		return tt.Ref(result, refWrap.Mutable, refWrap.AddrSpace)
	}

	return result
}
