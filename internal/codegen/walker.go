// Package codegen implements the Code Generation Walker: the component that
// traverses compilation units' parse trees in three ordered phases and
// drives the Type Registry, Symbol & Resource Environment and IR Builder
// Facade to produce a typed LLVM module. Grounded on
// src/ir/llvm/transform.go's gen/genFuncHeader/genFuncBody/genExpression
// family, generalized from VSL's fixed int/float literal set and statement
// kinds into the full Reso operation set of §4.4.
package codegen

import (
	"errors"

	"github.com/rs/zerolog"

	"reso/internal/ast"
	"reso/internal/diag"
	"reso/internal/env"
	"reso/internal/irgen"
	"reso/internal/types"
)

// errDiagnosed is returned by expression/statement lowering when a semantic
// error has already been reported to the Sink. Callers within Phase 3 treat
// it as "skip the rest of this statement, keep lowering the unit" rather
// than aborting the whole Run, distinguishing it from a plain error (which
// signals an IrError-class failure and propagates out of Run per §7).
var errDiagnosed = errors.New("codegen: diagnostic already reported")

// Walker drives one compilation job: one Type Registry, one Environment, one
// IR Builder Facade, many Compilation Units. Per §5, a Walker is
// single-threaded and drives exactly one Facade.
type Walker struct {
	Units []*ast.CompilationUnit
	Types *types.Registry
	Env   *env.Environment
	IR    *irgen.Facade
	Sink  *diag.Sink
	Log   zerolog.Logger

	// Cached frequently used primitive types.
	boolType *types.Type
	unitType *types.Type

	// declaredResources tracks resource names seen during Phase 1 so a
	// second declaration under the same name can be reported as
	// DuplicateSymbol instead of silently merging into the nominal type.
	declaredResources map[string]bool
}

// New returns a Walker ready to run Phase 1 over units.
func New(units []*ast.CompilationUnit, reg *types.Registry, environment *env.Environment, ir *irgen.Facade, sink *diag.Sink, log zerolog.Logger) *Walker {
	return &Walker{
		Units:             units,
		Types:             reg,
		Env:               environment,
		IR:                ir,
		Sink:              sink,
		Log:               log,
		boolType:          reg.InternPrimitive(types.Bool),
		unitType:          reg.InternPrimitive(types.Unit),
		declaredResources: make(map[string]bool),
	}
}

// irFatal marks a facade error as a fatal condition per §7: IrError
// indicates a Walker/backend disagreement and aborts the whole job rather
// than being recovered locally. It returns err unchanged; being distinct
// from errDiagnosed is what makes callers propagate it out of Run.
func irFatal(err error) error {
	return err
}

// Run executes all three phases in strict order: Phase 1 (type/resource
// registration) and Phase 2 (signature registration) finish for every unit
// before any Phase 3 (body lowering) work begins, per §4.4 and §5.
func (w *Walker) Run() error {
	for _, u := range w.Units {
		w.registerTypes(u)
	}
	for _, u := range w.Units {
		if err := w.registerSignatures(u); err != nil {
			return err
		}
	}
	w.Env.BeginLowering()
	for _, u := range w.Units {
		if err := w.lowerUnitBodies(u); err != nil {
			return err
		}
	}
	return nil
}
