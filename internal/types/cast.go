package types

// CastOp identifies which native conversion instruction an explicit or
// implicit cast between two scalar types lowers to. The core selects the op;
// internal/irgen is the only package that knows the corresponding LLVM
// opcode.
type CastOp uint

const (
	NoOp CastOp = iota
	SExt
	ZExt
	Trunc
	FPTrunc
	FPExt
	SIToFP
	FPToSI
	UIToFP
	FPToUI
	Bitcast // same-width reinterpretation, e.g. bool<->i1.
)

// SelectCast returns the CastOp that converts a value of type from to type
// to, per the enumeration in §4.3. Both types must be scalar
// (Kind.IsScalar()); callers validate that before calling SelectCast.
func SelectCast(from, to *Type) CastOp {
	if from == to {
		return NoOp
	}
	switch {
	case from.Kind.IsInteger() && to.Kind.IsInteger():
		switch {
		case from.Width < to.Width:
			if from.Kind.IsSigned() {
				return SExt
			}
			return ZExt
		case from.Width > to.Width:
			return Trunc
		default:
			return Bitcast
		}
	case from.Kind.IsFloat() && to.Kind.IsFloat():
		if from.Width < to.Width {
			return FPExt
		} else if from.Width > to.Width {
			return FPTrunc
		}
		return NoOp
	case from.Kind.IsInteger() && to.Kind.IsFloat():
		if from.Kind.IsSigned() {
			return SIToFP
		}
		return UIToFP
	case from.Kind.IsFloat() && to.Kind.IsInteger():
		if to.Kind.IsSigned() {
			return FPToSI
		}
		return FPToUI
	case from.Kind.IsFloat() && to.Kind == Bool:
		return FPToUI
	case from.Kind == Bool && to.Kind.IsFloat():
		return UIToFP
	default:
		// Bool and Char are scalar but excluded from IsInteger(), so a cast
		// on either side of this pair (bool<->char, bool<->int, char<->int)
		// falls here rather than into the integer branch above. Both are
		// unsigned, so widen/narrow the same way an unsigned integer would;
		// same-width is a genuine bool<->i1 reinterpretation.
		switch {
		case from.Width < to.Width:
			return ZExt
		case from.Width > to.Width:
			return Trunc
		default:
			return Bitcast
		}
	}
}
