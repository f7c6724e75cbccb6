package codegen

import "reso/internal/types"

// intRanges gives the inclusive [min,max] representable range for each
// integer Kind, used to build a literal's default-type candidate set.
var intRanges = []struct {
	kind     types.Kind
	min, max int64
}{
	{types.I32, -1 << 31, 1<<31 - 1},
	{types.I64, minI64, maxI64},
	{types.I8, -1 << 7, 1<<7 - 1},
	{types.I16, -1 << 15, 1<<15 - 1},
	{types.U8, 0, 1<<8 - 1},
	{types.U16, 0, 1<<16 - 1},
	{types.U32, 0, 1<<32 - 1},
	{types.U64, 0, maxI64}, // u64's true max exceeds int64; literals never spell it.
}

const (
	minI64 = -1 << 63
	maxI64 = 1<<63 - 1
)

// intLiteralCandidates returns the default-type candidate set for an integer
// literal, per §4.1's "a literal's candidate set is every integer kind whose
// range contains the value" rule. I32 is listed first so that a literal
// concretized with no surrounding context (Concretize called against
// Candidates()[0]) defaults to i32, matching the teacher's own int-literal
// default in frontend/lexer.go.
func (w *Walker) intLiteralCandidates(value int64) []*types.Type {
	out := make([]*types.Type, 0, len(intRanges))
	for _, r := range intRanges {
		if value >= r.min && value <= r.max {
			out = append(out, w.Types.InternPrimitive(r.kind))
		}
	}
	return out
}

// floatLiteralCandidates returns the default-type candidate set for a float
// literal. f64 is listed first as the default.
func (w *Walker) floatLiteralCandidates() []*types.Type {
	return []*types.Type{w.Types.InternPrimitive(types.F64), w.Types.InternPrimitive(types.F32)}
}
