package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordsPreserveInsertionOrder(t *testing.T) {
	s := NewSink(0)
	s.Errorf(TypeMismatch, "a.reso", 1, 5, "first")
	s.Errorf(UndefinedSymbol, "a.reso", 2, 1, "second")
	s.Errorf(ArityMismatch, "a.reso", 3, 9, "third")

	recs := s.Records()
	require.Len(t, recs, 3)
	require.Equal(t, "first", recs[0].Message)
	require.Equal(t, "second", recs[1].Message)
	require.Equal(t, "third", recs[2].Message)

	var lines []int
	for _, r := range recs {
		lines = append(lines, r.Line)
	}
	require.Equal(t, []int{1, 2, 3}, lines, "source-position order must be preserved within a unit")
}

func TestSuccessFalseAfterError(t *testing.T) {
	s := NewSink(0)
	require.True(t, s.Success())
	s.Errorf(TypeMismatch, "a.reso", 1, 1, "boom")
	require.False(t, s.Success())
}

func TestCeiling(t *testing.T) {
	s := NewSink(2)
	require.False(t, s.OverCeilingForUnit("a.reso"))
	s.Errorf(TypeMismatch, "a.reso", 1, 1, "one")
	require.False(t, s.OverCeilingForUnit("a.reso"))
	s.Errorf(TypeMismatch, "a.reso", 2, 1, "two")
	require.True(t, s.OverCeilingForUnit("a.reso"))
}
