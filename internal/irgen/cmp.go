package irgen

import (
	"tinygo.org/x/go-llvm"

	"reso/internal/types"
)

var intPredicateTable = map[types.IntPredicate]llvm.IntPredicate{
	types.IntEQ:  llvm.IntEQ,
	types.IntNE:  llvm.IntNE,
	types.IntUGT: llvm.IntUGT,
	types.IntUGE: llvm.IntUGE,
	types.IntULT: llvm.IntULT,
	types.IntULE: llvm.IntULE,
	types.IntSGT: llvm.IntSGT,
	types.IntSGE: llvm.IntSGE,
	types.IntSLT: llvm.IntSLT,
	types.IntSLE: llvm.IntSLE,
}

var floatPredicateTable = map[types.FloatPredicate]llvm.FloatPredicate{
	types.FloatOEQ:   llvm.FloatOEQ,
	types.FloatONE:   llvm.FloatONE,
	types.FloatOLT:   llvm.FloatOLT,
	types.FloatOLE:   llvm.FloatOLE,
	types.FloatOGT:   llvm.FloatOGT,
	types.FloatOGE:   llvm.FloatOGE,
	types.FloatORD:   llvm.FloatORD,
	types.FloatUEQ:   llvm.FloatUEQ,
	types.FloatUNE:   llvm.FloatUNE,
	types.FloatULT:   llvm.FloatULT,
	types.FloatULE:   llvm.FloatULE,
	types.FloatUGT:   llvm.FloatUGT,
	types.FloatUGE:   llvm.FloatUGE,
	types.FloatUNO:   llvm.FloatUNO,
	types.FloatTrue:  llvm.FloatTrue,
	types.FloatFalse: llvm.FloatFalse,
}

// EmitIntCompare emits an integer comparison keyed by an opaque predicate
// tag, returning a Bool Value (§4.3).
func (f *Facade) EmitIntCompare(pred types.IntPredicate, a, b Value, boolType *types.Type, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	llpred, ok := intPredicateTable[pred]
	if !ok {
		return Value{}, irError("EmitIntCompare: unknown integer predicate %d", pred)
	}
	res := f.builder.CreateICmp(llpred, a.Handle.(llvmValue), b.Handle.(llvmValue), "")
	return Value{Type: boolType, Handle: res, Line: line, Col: col}, nil
}

// EmitFloatCompare emits a float comparison keyed by an opaque predicate tag.
func (f *Facade) EmitFloatCompare(pred types.FloatPredicate, a, b Value, boolType *types.Type, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	llpred, ok := floatPredicateTable[pred]
	if !ok {
		return Value{}, irError("EmitFloatCompare: unknown float predicate %d", pred)
	}
	res := f.builder.CreateFCmp(llpred, a.Handle.(llvmValue), b.Handle.(llvmValue), "")
	return Value{Type: boolType, Handle: res, Line: line, Col: col}, nil
}
