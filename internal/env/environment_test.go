package env

import (
	"testing"

	"github.com/stretchr/testify/require"
	"reso/internal/types"
)

func TestDeclareLookupShadowing(t *testing.T) {
	e := New()
	reg := types.NewRegistry()
	i32 := reg.InternPrimitive(types.I32)

	outer := &Symbol{Name: "x", Kind: VariableSymbol, Type: i32}
	require.NoError(t, e.Declare("x", outer))

	got, ok := e.Lookup("x")
	require.True(t, ok)
	require.Same(t, outer, got)

	e.PushScope()
	inner := &Symbol{Name: "x", Kind: VariableSymbol, Type: i32}
	require.NoError(t, e.Declare("x", inner))

	got, ok = e.Lookup("x")
	require.True(t, ok)
	require.Same(t, inner, got, "inner scope must shadow outer")

	e.PopScope()
	got, ok = e.Lookup("x")
	require.True(t, ok)
	require.Same(t, outer, got, "after popping, the shadowed outer symbol must resurface")
}

func TestDeclareDuplicateInSameFrameFails(t *testing.T) {
	e := New()
	reg := types.NewRegistry()
	i32 := reg.InternPrimitive(types.I32)

	require.NoError(t, e.Declare("x", &Symbol{Name: "x", Kind: VariableSymbol, Type: i32}))
	err := e.Declare("x", &Symbol{Name: "x", Kind: VariableSymbol, Type: i32})
	require.Error(t, err)
}

func TestLookupCurrentScopeOnly(t *testing.T) {
	e := New()
	reg := types.NewRegistry()
	i32 := reg.InternPrimitive(types.I32)
	require.NoError(t, e.Declare("x", &Symbol{Name: "x", Kind: VariableSymbol, Type: i32}))

	e.PushScope()
	_, ok := e.LookupCurrentScope("x")
	require.False(t, ok, "x was declared in an outer frame, not the current one")

	_, ok = e.Lookup("x")
	require.True(t, ok)
}

func TestResourceDestructionOrder(t *testing.T) {
	e := New()
	reg := types.NewRegistry()
	resT, err := reg.RegisterResource("File", nil, "File.close")
	require.NoError(t, err)

	e.BeginLowering()
	e.PushScope()
	require.NoError(t, e.Declare("r1", &Symbol{Name: "r1", Kind: VariableSymbol, Type: resT}))
	require.NoError(t, e.Declare("r2", &Symbol{Name: "r2", Kind: VariableSymbol, Type: resT}))

	exiting := e.PopScope()
	order := exiting.ResourcesInReverseDeclarationOrder()
	require.Len(t, order, 2)
	require.Equal(t, "r2", order[0].Name, "r2's destructor must run before r1's")
	require.Equal(t, "r1", order[1].Name)
}
