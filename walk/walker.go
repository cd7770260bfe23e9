package walk

import (
	"chaisema/ast"
	"chaisema/common"
	"chaisema/config"
	"chaisema/report"
	"chaisema/types"
)

// loopCtx tracks the break/continue target Decls of one enclosing loop, so
// BreakStmt/ContinueStmt can be wired to them without a name-resolution
// pass over keywords.
type loopCtx struct {
	breakDecl    *common.Decl
	continueDecl *common.Decl
}

// Walker is the inference-and-check visitor: it owns the TypeTable that
// backs the disjoint-set forest, the error sink, and the per-function state
// (return type, loop stack, next local handle) that only makes sense while
// walking one function body at a time (spec.md §4.3, §4.4).
type Walker struct {
	tt     *types.TypeTable
	sink   report.Sink
	source report.Source
	cfg    *config.AnalyzerConfig

	enclosingReturn types.Type
	loops           []loopCtx
	nextHandle      int

	// mutUses records, across the whole module, every local/param Decl
	// registered or observed used, and whether a use crossed a
	// function-nesting boundary — input to the unused-mut warning and the
	// nossa address-taken rule (spec.md §6).
	mutUses map[*common.Decl]*mutUse
	fnDepth int
}

type mutUse struct {
	used         bool
	written      bool
	crossNesting bool
	declaredAt   int
}

// NewWalker creates a Walker over tt, reporting diagnostics to sink anchored
// at source, configured by cfg.
func NewWalker(tt *types.TypeTable, sink report.Sink, source report.Source, cfg *config.AnalyzerConfig) *Walker {
	return &Walker{tt: tt, sink: sink, source: source, cfg: cfg}
}

// AnalyzeModule runs the full pipeline over mod: the fixpoint inference
// driver (§4.3.7) followed by the single post-inference checking pass
// (§4.4). It returns whether the run succeeded (no error-severity
// diagnostic was ever reported).
func (w *Walker) AnalyzeModule(mod *ast.Module) bool {
	w.runFixpoint(mod)
	w.checkModule(mod)
	return w.sink.Succeeded()
}

// runFixpoint implements spec.md §4.3.7: reset todo, visit the whole module,
// repeat while todo stays true. Each visit is wrapped in CatchInto per item
// so one bad declaration does not abort the rest of the pass.
func (w *Walker) runFixpoint(mod *ast.Module) {
	for {
		w.tt.ResetTodo()

		for _, item := range mod.Items {
			w.inferItemCaught(item)
		}

		if !w.tt.Todo() {
			return
		}
	}
}

func (w *Walker) inferItemCaught(item ast.Item) {
	defer report.CatchInto(w.sink, w.source)
	w.inferItem(item)
}

// -----------------------------------------------------------------------------

// errorAt raises a LocalError, unwound by the nearest CatchInto.
func (w *Walker) errorAt(span *report.Span, format string, args ...interface{}) {
	panic(report.Raise(span, format, args...))
}

// reportErr reports a non-fatal error: walking continues past this point.
func (w *Walker) reportErr(span *report.Span, format string, args ...interface{}) {
	report.Error(w.sink, w.source, span, format, args...)
}

// warn reports a non-fatal warning.
func (w *Walker) warn(span *report.Span, format string, args ...interface{}) {
	report.Warning(w.sink, w.source, span, format, args...)
}

// -----------------------------------------------------------------------------

func (w *Walker) pushLoop(brk, cont *common.Decl) {
	w.loops = append(w.loops, loopCtx{breakDecl: brk, continueDecl: cont})
}

func (w *Walker) popLoop() {
	w.loops = w.loops[:len(w.loops)-1]
}

func (w *Walker) currentLoop() (loopCtx, bool) {
	if len(w.loops) == 0 {
		return loopCtx{}, false
	}

	return w.loops[len(w.loops)-1], true
}

func (w *Walker) allocHandle() int {
	h := w.nextHandle
	w.nextHandle++
	return h
}
