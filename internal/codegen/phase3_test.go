package codegen

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"reso/internal/ast"
	"reso/internal/diag"
	"reso/internal/env"
	"reso/internal/irgen"
	"reso/internal/parser"
	"reso/internal/types"
)

func toUnits(u *ast.CompilationUnit) []*ast.CompilationUnit {
	return []*ast.CompilationUnit{u}
}

func TestMissingReturnWhenIfHasNoElse(t *testing.T) {
	reg := types.NewRegistry()
	environment := env.New()
	ir := irgen.New("test", zerolog.Nop())
	defer ir.Dispose()
	sink := diag.NewSink(diag.DefaultCeiling)

	unit, err := parser.Parse("t.reso", `fn f() -> i32 {
		if true {
			return 1;
		}
	}`)
	require.NoError(t, err)

	w := New(toUnits(unit), reg, environment, ir, sink, zerolog.Nop())
	require.NoError(t, w.Run())
	require.False(t, sink.Success())

	found := false
	for _, r := range sink.Records() {
		if r.Kind == diag.MissingReturn {
			found = true
		}
	}
	require.True(t, found, "expected a MissingReturn record, got: %v", sink.Records())
}

func TestTerminatedIfElseReportsNoMissingReturn(t *testing.T) {
	reg := types.NewRegistry()
	environment := env.New()
	ir := irgen.New("test", zerolog.Nop())
	defer ir.Dispose()
	sink := diag.NewSink(diag.DefaultCeiling)

	unit, err := parser.Parse("t.reso", `fn f() -> i32 {
		if true {
			return 1;
		} else {
			return 0;
		}
	}`)
	require.NoError(t, err)

	w := New(toUnits(unit), reg, environment, ir, sink, zerolog.Nop())
	require.NoError(t, w.Run())
	require.True(t, sink.Success(), "records: %v", sink.Records())
}

func TestDeadCodeAfterReturnIsNotLowered(t *testing.T) {
	reg := types.NewRegistry()
	environment := env.New()
	ir := irgen.New("test", zerolog.Nop())
	defer ir.Dispose()
	sink := diag.NewSink(diag.DefaultCeiling)

	// The second return references an undefined symbol; since it is dead
	// code after the first return it must never be lowered, so no
	// UndefinedSymbol diagnostic should appear.
	unit, err := parser.Parse("t.reso", `fn f() -> i32 {
		return 1;
		return undefined_name;
	}`)
	require.NoError(t, err)

	w := New(toUnits(unit), reg, environment, ir, sink, zerolog.Nop())
	require.NoError(t, w.Run())
	require.True(t, sink.Success(), "records: %v", sink.Records())
}

func TestImplicitUnitReturnEmitted(t *testing.T) {
	reg := types.NewRegistry()
	environment := env.New()
	ir := irgen.New("test", zerolog.Nop())
	defer ir.Dispose()
	sink := diag.NewSink(diag.DefaultCeiling)

	unit, err := parser.Parse("t.reso", `fn f() -> unit {
		var x: i32 = 1;
	}`)
	require.NoError(t, err)

	w := New(toUnits(unit), reg, environment, ir, sink, zerolog.Nop())
	require.NoError(t, w.Run())
	require.True(t, sink.Success(), "records: %v", sink.Records())

	text, err := ir.EmitTextualIR()
	require.NoError(t, err)
	require.Contains(t, text, "ret void")
}
