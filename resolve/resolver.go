package resolve

import (
	"chaisema/ast"
	"chaisema/common"
	"chaisema/report"
)

// Resolver implements the single recursive-traversal name resolver of
// spec.md §4.2: an explicit scope stack over a symbol-to-decl map, with
// insert/lookup/push_scope/pop_scope exactly mirroring the disjoint-set-free
// "scope as a stack slice" design of the source this is grounded in.
type Resolver struct {
	symbolToDecl map[string]*common.Decl
	declStack    []*common.Decl
	levels       []int

	sink   report.Sink
	source report.Source
}

// NewResolver creates a Resolver reporting to sink, anchoring diagnostics to
// source.
func NewResolver(sink report.Sink, source report.Source) *Resolver {
	return &Resolver{
		symbolToDecl: make(map[string]*common.Decl),
		sink:         sink,
		source:       source,
	}
}

func (r *Resolver) depth() int {
	return len(r.levels)
}

// PushScope opens a new scope, recording the current decl-stack length.
func (r *Resolver) PushScope() {
	r.levels = append(r.levels, len(r.declStack))
}

// PopScope discards the current scope: every decl pushed since the matching
// PushScope has symbolToDecl[symbol] restored to its shadows link, in
// reverse order, and the decl stack is shrunk back.
func (r *Resolver) PopScope() {
	level := r.levels[len(r.levels)-1]

	for i := len(r.declStack) - 1; i >= level; i-- {
		decl := r.declStack[i]
		r.symbolToDecl[decl.Symbol] = decl.Shadows
	}

	r.declStack = r.declStack[:level]
	r.levels = r.levels[:len(r.levels)-1]
}

// clash returns the Decl already occupying decl's symbol at the current
// depth, or nil if there is none.
func (r *Resolver) clash(symbol string) *common.Decl {
	if decl, ok := r.symbolToDecl[symbol]; ok && decl != nil && decl.Depth == r.depth() {
		return decl
	}

	return nil
}

// Insert maps decl's symbol to decl, reporting and skipping the insertion
// if the symbol already has a definition at the current depth.
func (r *Resolver) Insert(decl *common.Decl) {
	if other := r.clash(decl.Symbol); other != nil {
		report.Error(r.sink, r.source, decl.Span, "symbol '%s' already defined", decl.Symbol)
		report.Error(r.sink, r.source, other.Span, "previous location here")
		return
	}

	decl.Shadows = r.symbolToDecl[decl.Symbol]
	decl.Depth = r.depth()
	r.declStack = append(r.declStack, decl)
	r.symbolToDecl[decl.Symbol] = decl
}

// Lookup resolves symbol to its current innermost Decl, reporting an error
// at site if it has no definition in scope.
func (r *Resolver) Lookup(site *report.Span, symbol string) *common.Decl {
	decl, ok := r.symbolToDecl[symbol]
	if !ok || decl == nil {
		report.Error(r.sink, r.source, site, "'%s' not found in current scope", symbol)
		return nil
	}

	return decl
}

// ResolveModule runs name resolution over the whole module. It returns
// nothing: resolver errors go to the sink, whose success flag reflects them.
func (r *Resolver) ResolveModule(mod *ast.Module) {
	r.checkItems(mod.Items)
}

func (r *Resolver) reportNotAValue(path *ast.Path) {
	report.Error(r.sink, r.source, path.Span(), "'%s' is not a value", path.Name)
}
