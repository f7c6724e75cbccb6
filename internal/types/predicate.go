package types

// IntPredicate enumerates the integer comparison predicates of §4.3. These
// are opaque tags: only internal/irgen knows the corresponding native
// encoding (§6.2).
type IntPredicate uint

const (
	IntEQ IntPredicate = iota
	IntNE
	IntUGT
	IntUGE
	IntULT
	IntULE
	IntSGT
	IntSGE
	IntSLT
	IntSLE
)

// FloatPredicate enumerates the ordered/unordered float comparison
// predicates of §4.3, plus the always-true/always-false sentinels.
type FloatPredicate uint

const (
	FloatOEQ FloatPredicate = iota
	FloatONE
	FloatOLT
	FloatOLE
	FloatOGT
	FloatOGE
	FloatORD
	FloatUEQ
	FloatUNE
	FloatULT
	FloatULE
	FloatUGT
	FloatUGE
	FloatUNO
	FloatTrue
	FloatFalse
)

// SignedIntPredicate picks the signed-vs-unsigned variant of a symbolic
// relation for a given type, matching §4.3's "signed vs unsigned variants
// chosen by type" rule for arithmetic, generalized to comparisons.
func SignedIntPredicate(op string, signed bool) (IntPredicate, bool) {
	switch op {
	case "==":
		return IntEQ, true
	case "!=":
		return IntNE, true
	case "<":
		if signed {
			return IntSLT, true
		}
		return IntULT, true
	case "<=":
		if signed {
			return IntSLE, true
		}
		return IntULE, true
	case ">":
		if signed {
			return IntSGT, true
		}
		return IntUGT, true
	case ">=":
		if signed {
			return IntSGE, true
		}
		return IntUGE, true
	}
	return 0, false
}

// OrderedFloatPredicate picks the ordered predicate for op, matching §4.4's
// "comparisons on floats default to ordered predicates" rule. The unordered
// variants exist as tags (and in irgen's predicate table), but no built-in
// or other Walker path selects them.
func OrderedFloatPredicate(op string) (FloatPredicate, bool) {
	switch op {
	case "==":
		return FloatOEQ, true
	case "!=":
		return FloatONE, true
	case "<":
		return FloatOLT, true
	case "<=":
		return FloatOLE, true
	case ">":
		return FloatOGT, true
	case ">=":
		return FloatOGE, true
	}
	return 0, false
}
