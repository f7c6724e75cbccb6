package irgen

import (
	"tinygo.org/x/go-llvm"

	"reso/internal/types"
)

// DeclareFunction declares (but does not define) a function in the module,
// per §4.4 Phase 2's signature registration. Parameter names are set on the
// native handle for readability of the emitted textual IR.
func (f *Facade) DeclareFunction(name string, paramTypes []*types.Type, paramNames []string, ret *types.Type) (Func, error) {
	if err := f.checkLive(); err != nil {
		return Func{}, err
	}
	if existing := f.mod.NamedFunction(name); !existing.IsNil() {
		return Func{}, irError("DeclareFunction: %q is already declared", name)
	}
	params := make([]llvm.Type, len(paramTypes))
	for i1, p := range paramTypes {
		params[i1] = f.llvmType(p)
	}
	ftyp := llvm.FunctionType(f.llvmType(ret), params, false)
	fn := llvm.AddFunction(f.mod, name, ftyp)
	for i1, pname := range paramNames {
		if i1 < len(fn.Params()) {
			fn.Params()[i1].SetName(pname)
		}
	}
	return Func{Handle: fn}, nil
}

// LookupFunction finds a previously declared function by name, enabling
// forward references across compilation units (§4.2).
func (f *Facade) LookupFunction(name string) (Func, bool) {
	fn := f.mod.NamedFunction(name)
	if fn.IsNil() {
		return Func{}, false
	}
	return Func{Handle: fn}, true
}

// Param returns the i-th formal parameter of fun as a Value.
func (f *Facade) Param(fun Func, i1 int, t *types.Type) Value {
	return Value{Type: t, Handle: fun.Handle.Params()[i1]}
}

// EmitCall emits a call to target with the given already-concretized
// arguments.
func (f *Facade) EmitCall(target Func, args []Value, retType *types.Type, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	native := make([]llvmValue, len(args))
	for i1, a := range args {
		native[i1] = a.Handle.(llvmValue)
	}
	res := f.builder.CreateCall(target.Handle, native, "")
	return Value{Type: retType, Handle: res, Line: line, Col: col}, nil
}

// EmitReturn emits a return statement and terminates the current block.
func (f *Facade) EmitReturn(v Value) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	f.builder.CreateRet(v.Handle.(llvmValue))
	return nil
}

// EmitReturnVoid emits a return from a Unit-returning function.
func (f *Facade) EmitReturnVoid() error {
	if err := f.checkLive(); err != nil {
		return err
	}
	f.builder.CreateRetVoid()
	return nil
}

// EmitCast emits the conversion instruction selected by
// types.SelectCast(from, to), matching the enumeration in §4.1/§4.3.
func (f *Facade) EmitCast(v Value, to *types.Type, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	op := types.SelectCast(v.Type, to)
	lt := f.llvmType(to)
	av := v.Handle.(llvmValue)
	var res llvmValue
	switch op {
	case types.NoOp:
		return Value{Type: to, Handle: av, Line: line, Col: col}, nil
	case types.SExt:
		res = f.builder.CreateSExt(av, lt, "")
	case types.ZExt:
		res = f.builder.CreateZExt(av, lt, "")
	case types.Trunc:
		res = f.builder.CreateTrunc(av, lt, "")
	case types.FPTrunc:
		res = f.builder.CreateFPTrunc(av, lt, "")
	case types.FPExt:
		res = f.builder.CreateFPExt(av, lt, "")
	case types.SIToFP:
		res = f.builder.CreateSIToFP(av, lt, "")
	case types.FPToSI:
		res = f.builder.CreateFPToSI(av, lt, "")
	case types.UIToFP:
		res = f.builder.CreateUIToFP(av, lt, "")
	case types.FPToUI:
		res = f.builder.CreateFPToUI(av, lt, "")
	case types.Bitcast:
		res = f.builder.CreateBitCast(av, lt, "")
	default:
		return Value{}, irError("EmitCast: unhandled cast op %d", op)
	}
	return Value{Type: to, Handle: res, Line: line, Col: col}, nil
}
