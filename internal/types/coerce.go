package types

// widenRank orders integer kinds of the same signedness for the narrower-to-
// wider widening relation of §4.1. Unrelated kinds compare as 0.
var widenRank = map[Kind]int{
	I8: 1, I16: 2, I32: 3, I64: 4,
	U8: 1, U16: 2, U32: 3, U64: 4,
}

// CanWiden reports whether from widens losslessly to to under §4.1's rule:
// narrower signed -> wider signed, narrower unsigned -> wider unsigned, never
// crossing signedness implicitly. Reflexive, antisymmetric and transitive by
// construction of widenRank.
func CanWiden(from, to *Type) bool {
	if from == to {
		return true
	}
	if from.Kind.IsSigned() && to.Kind.IsSigned() {
		return widenRank[from.Kind] <= widenRank[to.Kind]
	}
	if from.Kind.IsUnsigned() && to.Kind.IsUnsigned() {
		return widenRank[from.Kind] <= widenRank[to.Kind]
	}
	return false
}

// CanCoerceIdentity reports the always-true identity coercion.
func CanCoerceIdentity(from, to *Type) bool {
	return from == to
}

// CanCoerceNull reports whether null coerces to to. null coerces only to
// Reference and Resource types; Unit is excluded even though it has a single
// value (see SPEC_FULL.md's resolution of the null/unit open question).
func CanCoerceNull(to *Type) bool {
	return to.Kind == Reference || to.Kind == Resource
}

// Widen returns the common type of a and b for a binary operator per §4.1,
// and whether one exists. Literal candidate sets are resolved by the caller
// (the Walker) before Widen is consulted for two already-concrete operands.
func Widen(a, b *Type) (*Type, bool) {
	if a == b {
		return a, true
	}
	if a.Kind.IsFloat() && b.Kind.IsFloat() {
		if a.Width >= b.Width {
			return a, true
		}
		return b, true
	}
	if a.Kind.IsInteger() && b.Kind.IsInteger() {
		if CanWiden(a, b) {
			return b, true
		}
		if CanWiden(b, a) {
			return a, true
		}
	}
	return nil, false
}

// ExplicitCastAllowed reports whether an explicit cast between two scalar
// kinds is permitted. §4.1 permits explicit casts between any scalar pair.
func ExplicitCastAllowed(from, to Kind) bool {
	return from.IsScalar() && to.IsScalar()
}
