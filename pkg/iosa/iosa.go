package iosa

import (
	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/diag"
	"github.com/raulmonti/fig/pkg/scope"
	"github.com/raulmonti/fig/pkg/util/source"
)

// AnalyzeAll runs the explicit-state analysis (spec §4.6) over every module
// of a type-checked model independently, merging their diagnostic logs.
// Callers must consult the returned log's HasErrors() before handing the
// model to the model builder (C7), exactly as C5's Check does.
func AnalyzeAll(global *scope.Global, model *ast.Model, srcmap *source.Maps[ast.Node]) (map[string]*Result, *diag.Log) {
	results := make(map[string]*Result, len(model.Modules))
	log := diag.NewLog()

	for _, mod := range model.Modules {
		ms, ok := global.Module(mod.Name)
		if !ok {
			log.ErrorfNoSpan(diag.BuildErr, "module %q has no scope (did type-checking run first?)", mod.Name)
			continue
		}

		a := New(ms, mod, srcmap)
		results[mod.Name] = a.Analyze()
		log.Merge(a.Log)
	}

	return results, log
}
