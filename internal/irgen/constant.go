package irgen

import (
	"tinygo.org/x/go-llvm"

	"reso/internal/types"
)

// EmitIntLiteral produces a PolymorphicLiteral Value for an integer literal
// lexical form. candidates is the default-type set for that form (e.g. all
// integer types whose range contains the literal), per §4.4's "Literal
// expression" rule.
func (f *Facade) EmitIntLiteral(value int64, candidates []*types.Type, line, col int) Value {
	return Value{literal: true, candidates: candidates, literalValue: value, Line: line, Col: col}
}

// EmitFloatLiteral produces a PolymorphicLiteral Value for a float literal.
func (f *Facade) EmitFloatLiteral(value float64, candidates []*types.Type, line, col int) Value {
	return Value{literal: true, candidates: candidates, literalValue: value, Line: line, Col: col}
}

// materializeLiteral builds the Concrete Value for a literal once a target
// type has been chosen by Concretize.
func (f *Facade) materializeLiteral(v Value, target *types.Type) (Value, error) {
	switch iv := v.literalValue.(type) {
	case int64:
		return f.EmitInt(target, uint64(iv), target.Kind.IsSigned(), v.Line, v.Col)
	case float64:
		return f.EmitFloat(target, iv, v.Line, v.Col)
	default:
		return Value{}, irError("materializeLiteral: unsupported literal payload %T", v.literalValue)
	}
}

// EmitInt emits a constant integer of the given type and width.
func (f *Facade) EmitInt(t *types.Type, value uint64, signExtend bool, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	if !t.Kind.IsInteger() && t.Kind != types.Bool && t.Kind != types.Char {
		return Value{}, irError("EmitInt: type %s is not an integer kind", t)
	}
	lt := f.llvmType(t)
	return Value{Type: t, Handle: llvm.ConstInt(lt, value, signExtend), Line: line, Col: col}, nil
}

// EmitFloat emits a constant floating point value.
func (f *Facade) EmitFloat(t *types.Type, value float64, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	if !t.Kind.IsFloat() {
		return Value{}, irError("EmitFloat: type %s is not a float kind", t)
	}
	lt := f.llvmType(t)
	return Value{Type: t, Handle: llvm.ConstFloat(lt, value), Line: line, Col: col}, nil
}

// EmitBool emits a constant i1.
func (f *Facade) EmitBool(t *types.Type, value bool, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	var u uint64
	if value {
		u = 1
	}
	return Value{Type: t, Handle: llvm.ConstInt(f.llvmType(t), u, false), Line: line, Col: col}, nil
}

// EmitNullPointer emits the null pointer constant of a reference or resource
// type T, per §4.1's "null -> any reference/resource type" rule.
func (f *Facade) EmitNullPointer(t *types.Type, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	if !t.IsPointerLike() {
		return Value{}, irError("EmitNullPointer: type %s is not a reference or resource type", t)
	}
	return Value{Type: t, Handle: llvm.ConstNull(f.llvmType(t)), Line: line, Col: col}, nil
}

// EmitString emits a string literal as a global constant and returns a
// pointer Value of Reso's String type.
func (f *Facade) EmitString(stringType *types.Type, value string, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	f.stringSeq++
	ptr := f.builder.CreateGlobalStringPtr(value, "L_STR")
	return Value{Type: stringType, Handle: ptr, Line: line, Col: col}, nil
}
