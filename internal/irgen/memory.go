package irgen

import (
	"tinygo.org/x/go-llvm"

	"reso/internal/types"
)

// Storage is an opaque handle to stack or global storage (an alloca or
// global variable), returned by EmitAlloca/EmitGlobal and consumed by
// EmitLoad/EmitStore/EmitGEP.
type Storage struct {
	Type   *types.Type
	Handle interface{}
}

// EmitAlloca allocates stack memory for a value of type t at the function
// entry block, per §4.3 ("emit alloca at function entry").
func (f *Facade) EmitAlloca(t *types.Type, name string) (Storage, error) {
	if err := f.checkLive(); err != nil {
		return Storage{}, err
	}
	cur := f.builder.GetInsertBlock()
	entry := cur.Parent().EntryBasicBlock()
	if first := entry.FirstInstruction(); !first.IsNil() {
		f.builder.SetInsertPointBefore(first)
	} else {
		f.builder.SetInsertPointAtEnd(entry)
	}
	alloc := f.builder.CreateAlloca(f.llvmType(t), name)
	f.builder.SetInsertPointAtEnd(cur)
	return Storage{Type: t, Handle: alloc}, nil
}

// EmitGlobal declares a module-level global variable of type t.
func (f *Facade) EmitGlobal(t *types.Type, name string) (Storage, error) {
	if err := f.checkLive(); err != nil {
		return Storage{}, err
	}
	g := llvm.AddGlobal(f.mod, f.llvmType(t), name)
	return Storage{Type: t, Handle: g}, nil
}

// EmitLoad loads the value held by storage, with the given byte alignment
// (0 lets the backend pick the natural alignment for the type).
func (f *Facade) EmitLoad(s Storage, align int, line, col int) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	val := f.builder.CreateLoad(s.Handle.(llvmValue), "")
	if align > 0 {
		val.SetAlignment(align)
	}
	return Value{Type: s.Type, Handle: val, Line: line, Col: col}, nil
}

// EmitStore stores src into storage dst, with the given byte alignment.
func (f *Facade) EmitStore(src Value, dst Storage, align int) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	if src.Type != dst.Type {
		return irError("EmitStore: type mismatch storing %s into %s storage", src.Type, dst.Type)
	}
	inst := f.builder.CreateStore(src.Handle.(llvmValue), dst.Handle.(llvmValue))
	if align > 0 {
		inst.SetAlignment(align)
	}
	return nil
}

// EmitGEPField computes a pointer to a named field of a resource-typed
// value, for structure indexing (§4.3's GEP operation, structure variant).
func (f *Facade) EmitGEPField(resourcePtr Value, fieldIndex int, line, col int) (Storage, error) {
	if err := f.checkLive(); err != nil {
		return Storage{}, err
	}
	if resourcePtr.Type.Kind != types.Resource {
		return Storage{}, irError("EmitGEPField: %s is not a resource type", resourcePtr.Type)
	}
	if fieldIndex < 0 || fieldIndex >= len(resourcePtr.Type.Fields) {
		return Storage{}, irError("EmitGEPField: field index %d out of range for %s", fieldIndex, resourcePtr.Type)
	}
	ptr := f.builder.CreateStructGEP(resourcePtr.Handle.(llvmValue), fieldIndex, "")
	return Storage{Type: resourcePtr.Type.Fields[fieldIndex].Type, Handle: ptr}, nil
}

// EmitGEPIndex computes a pointer offset into an array-like reference by a
// dynamic index value (§4.3's GEP operation, array variant).
func (f *Facade) EmitGEPIndex(basePtr Value, index Value, line, col int) (Storage, error) {
	if err := f.checkLive(); err != nil {
		return Storage{}, err
	}
	if basePtr.Type.Kind != types.Reference {
		return Storage{}, irError("EmitGEPIndex: %s is not a reference type", basePtr.Type)
	}
	ptr := f.builder.CreateGEP(basePtr.Handle.(llvmValue), []llvmValue{index.Handle.(llvmValue)}, "")
	return Storage{Type: basePtr.Type.Pointee, Handle: ptr}, nil
}
