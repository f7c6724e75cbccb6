package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternPrimitiveIdentity(t *testing.T) {
	r := NewRegistry()
	a := r.InternPrimitive(I32)
	b := r.InternPrimitive(I32)
	require.Same(t, a, b, "structurally equal InternPrimitive calls must return the same Type identity")

	c := r.InternPrimitive(I64)
	require.NotSame(t, a, c)
}

func TestMakeReferenceIdentity(t *testing.T) {
	r := NewRegistry()
	i32 := r.InternPrimitive(I32)
	refA := r.MakeReference(i32)
	refB := r.MakeReference(i32)
	require.Same(t, refA, refB)
	require.Equal(t, PointerWidth, refA.Width)
}

func TestMakeFunctionIdentity(t *testing.T) {
	r := NewRegistry()
	i32 := r.InternPrimitive(I32)
	f64 := r.InternPrimitive(F64)
	fnA := r.MakeFunction([]*Type{i32, f64}, i32)
	fnB := r.MakeFunction([]*Type{i32, f64}, i32)
	require.Same(t, fnA, fnB)

	fnC := r.MakeFunction([]*Type{f64, i32}, i32)
	require.NotSame(t, fnA, fnC, "parameter order is part of function type identity")
}

func TestRegisterResourceIsNominal(t *testing.T) {
	r := NewRegistry()
	i32 := r.InternPrimitive(I32)
	a, err := r.RegisterResource("Handle", []Field{{Name: "fd", Type: i32}}, "Handle.drop")
	require.NoError(t, err)

	// A second call with nil fields (the shape of Phase 1's opaque
	// registration) must return the same Type identity (nominal, not
	// structural) and leave the fields already registered in place.
	b, err := r.RegisterResource("Handle", nil, "")
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Len(t, a.Fields, 1)
}

func TestWideningLatticeProperties(t *testing.T) {
	r := NewRegistry()
	i8 := r.InternPrimitive(I8)
	i16 := r.InternPrimitive(I16)
	i32 := r.InternPrimitive(I32)
	i64 := r.InternPrimitive(I64)
	u8 := r.InternPrimitive(U8)
	u16 := r.InternPrimitive(U16)

	// Reflexive.
	require.True(t, CanWiden(i32, i32))

	// Transitive: i8 -> i16 -> i32 implies i8 -> i32.
	require.True(t, CanWiden(i8, i16))
	require.True(t, CanWiden(i16, i32))
	require.True(t, CanWiden(i8, i32))
	require.True(t, CanWiden(i8, i64))

	// Antisymmetric: widening is one-directional between distinct types.
	require.True(t, CanWiden(i8, i32))
	require.False(t, CanWiden(i32, i8))

	// Never crosses signedness implicitly.
	require.False(t, CanWiden(i8, u16))
	require.False(t, CanWiden(u8, i16))
}

func TestCanCoerceNull(t *testing.T) {
	r := NewRegistry()
	i32 := r.InternPrimitive(I32)
	unit := r.InternPrimitive(Unit)
	res, err := r.RegisterResource("File", nil, "File.close")
	require.NoError(t, err)
	ref := r.MakeReference(i32)

	require.True(t, CanCoerceNull(ref))
	require.True(t, CanCoerceNull(res))
	require.False(t, CanCoerceNull(unit))
	require.False(t, CanCoerceNull(i32))
}

func TestSelectCastCoversEnumeratedOps(t *testing.T) {
	r := NewRegistry()
	i32 := r.InternPrimitive(I32)
	i64 := r.InternPrimitive(I64)
	u32 := r.InternPrimitive(U32)
	f32 := r.InternPrimitive(F32)
	f64 := r.InternPrimitive(F64)
	b := r.InternPrimitive(Bool)

	require.Equal(t, SExt, SelectCast(i32, i64))
	require.Equal(t, Trunc, SelectCast(i64, i32))
	require.Equal(t, FPExt, SelectCast(f32, f64))
	require.Equal(t, FPTrunc, SelectCast(f64, f32))
	require.Equal(t, SIToFP, SelectCast(i32, f64))
	require.Equal(t, UIToFP, SelectCast(u32, f64))
	require.Equal(t, FPToSI, SelectCast(f64, i32))
	require.Equal(t, FPToUI, SelectCast(f64, u32))
	require.Equal(t, ZExt, SelectCast(b, i32))
}
