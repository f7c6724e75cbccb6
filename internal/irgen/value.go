package irgen

import (
	"fmt"

	"reso/internal/types"
)

// Value is produced by every Facade emitter and consumed by the Walker.
// Per §3, it comes in two variants rather than one type with a nullable
// "default type" field (§9's design note): Concrete values are directly
// usable, PolymorphicLiteral values carry a candidate concretization set and
// must be Concretize-d before use.
type Value struct {
	Type    *types.Type // Declared Reso type. For a literal, this is nil until concretized.
	Handle  interface{} // Native IR value handle (llvm.Value), opaque outside this package.
	Line    int
	Col     int
	literal bool
	// candidates holds the default-type candidate set for a PolymorphicLiteral.
	// literalValue holds the literal's raw Go value (int64 or float64) so it
	// can be re-materialized at the concretized width.
	candidates   []*types.Type
	literalValue interface{}
}

// IsLiteral reports whether v is a PolymorphicLiteral awaiting concretization.
func (v Value) IsLiteral() bool {
	return v.literal
}

// Candidates returns the candidate concretization set of a literal Value.
func (v Value) Candidates() []*types.Type {
	return v.candidates
}

// Concretize is the Walker-facing entry point for turning a PolymorphicLiteral
// into a Concrete Value of type target. Concrete values pass through
// unchanged when already of type target.
func (f *Facade) Concretize(v Value, target *types.Type) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	return v.concretize(f, target)
}

// concretize turns a PolymorphicLiteral into a Concrete Value of type
// target. It succeeds iff target is in the candidate set or a lossless
// widening from some candidate to target exists (§3).
func (v Value) concretize(f *Facade, target *types.Type) (Value, error) {
	if !v.literal {
		if v.Type == target {
			return v, nil
		}
		return Value{}, fmt.Errorf("cannot concretize a concrete value of type %s to %s", v.Type, target)
	}
	ok := false
	for _, c := range v.candidates {
		if c == target || types.CanWiden(c, target) {
			ok = true
			break
		}
	}
	if !ok {
		return Value{}, fmt.Errorf("line %d:%d: literal cannot be concretized to type %s", v.Line, v.Col, target)
	}
	return f.materializeLiteral(v, target)
}
