package cmd

import (
	"fmt"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/diag"
	"github.com/raulmonti/fig/pkg/scope"
	"github.com/raulmonti/fig/pkg/typecheck"
	"github.com/raulmonti/fig/pkg/util/source"
)

// LoadProgram turns a model file and a properties file into a checked
// *ast.Model plus its scope, running typecheck.Check before returning. The
// lexical grammar itself (spec §6: "Lexical and grammar details are out of
// scope") is not implemented here; Frontend is the seam a parser front-end
// plugs into, defaulting to parseNotImplemented so the rest of the pipeline
// (C6-C9, the CLI flag wiring) is fully exercised by anything that does.
var Frontend func(modelFile, propsFile string) (*ast.Model, *source.Maps[ast.Node], error) = parseNotImplemented

func parseNotImplemented(modelFile, propsFile string) (*ast.Model, *source.Maps[ast.Node], error) {
	if _, err := source.ReadFiles(modelFile, propsFile); err != nil {
		return nil, nil, err
	}

	return nil, nil, fmt.Errorf("fig: no parser front-end is wired in; Frontend must be set before Execute")
}

// LoadProgram reads and type-checks modelFile/propsFile via Frontend,
// returning the checked model, its global scope, and the accumulated log.
func LoadProgram(modelFile, propsFile string) (*ast.Model, *scope.Global, *diag.Log, error) {
	model, srcmap, err := Frontend(modelFile, propsFile)
	if err != nil {
		return nil, nil, nil, err
	}

	global, log := typecheck.Check(model, srcmap)

	return model, global, log, nil
}
