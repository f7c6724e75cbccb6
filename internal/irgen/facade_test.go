package irgen

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"reso/internal/types"
)

func TestDoubleDisposeReportsDisposed(t *testing.T) {
	f := New("test_module", zerolog.Nop())
	require.NoError(t, f.Dispose())
	err := f.Dispose()
	require.ErrorIs(t, err, ErrDisposed)
}

func TestOperationsAfterDisposeReportDisposed(t *testing.T) {
	f := New("test_module", zerolog.Nop())
	require.NoError(t, f.Dispose())

	reg := types.NewRegistry()
	i32 := reg.InternPrimitive(types.I32)
	_, err := f.EmitInt(i32, 1, true, 1, 1)
	require.ErrorIs(t, err, ErrDisposed)

	_, err = f.EmitTextualIR()
	require.ErrorIs(t, err, ErrDisposed)
}

func TestAddTwoIntegersEmitsTextualIR(t *testing.T) {
	f := New("scenario1", zerolog.Nop())
	defer f.Dispose()

	reg := types.NewRegistry()
	i32 := reg.InternPrimitive(types.I32)

	fn, err := f.DeclareFunction("main", nil, nil, i32)
	require.NoError(t, err)

	entry, err := f.EmitBasicBlock(fn, "entry")
	require.NoError(t, err)
	require.NoError(t, f.SetInsertionPoint(entry))

	one, err := f.EmitInt(i32, 1, true, 1, 14)
	require.NoError(t, err)
	two, err := f.EmitInt(i32, 2, true, 1, 18)
	require.NoError(t, err)
	sum, err := f.EmitBinaryOp("+", one, two, 1, 16)
	require.NoError(t, err)
	require.NoError(t, f.EmitReturn(sum))

	text, err := f.EmitTextualIR()
	require.NoError(t, err)
	// The builder folds an add of two constants, so the sum appears as the
	// returned constant rather than as an add instruction.
	require.Contains(t, text, "ret i32 3")
	require.Contains(t, text, "ret i32")
}
