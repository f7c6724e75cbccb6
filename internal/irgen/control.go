package irgen

import (
	"tinygo.org/x/go-llvm"

	"reso/internal/types"
)

// Block wraps a native basic block handle.
type Block struct {
	Handle llvm.BasicBlock
}

// Func wraps a native function handle, used as the insertion context for
// basic blocks.
type Func struct {
	Handle llvm.Value
}

// EmitBasicBlock creates a new basic block belonging to fun.
func (f *Facade) EmitBasicBlock(fun Func, name string) (Block, error) {
	if err := f.checkLive(); err != nil {
		return Block{}, err
	}
	return Block{Handle: llvm.AddBasicBlock(fun.Handle, name)}, nil
}

// SetInsertionPoint moves the builder cursor to the end of blk, per §4.3's
// "set insertion point to a named block" operation and §4.4's basic-block
// state machine (entering a new basic block moves to InBlockOpen).
func (f *Facade) SetInsertionPoint(blk Block) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	f.builder.SetInsertPointAtEnd(blk.Handle)
	return nil
}

// EmitCondBr emits a conditional branch and terminates the current block.
func (f *Facade) EmitCondBr(cond Value, thenBlk, elseBlk Block) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	f.builder.CreateCondBr(cond.Handle.(llvmValue), thenBlk.Handle, elseBlk.Handle)
	return nil
}

// EmitBr emits an unconditional branch and terminates the current block.
func (f *Facade) EmitBr(target Block) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	f.builder.CreateBr(target.Handle)
	return nil
}

// EmitPhi emits a phi node of type t in the current block with the given
// incoming (value, predecessor block) pairs, used when an If/While/For
// statement produces a value at its merge block (§4.4).
func (f *Facade) EmitPhi(t *types.Type, incomingValues []Value, incomingBlocks []Block) (Value, error) {
	if err := f.checkLive(); err != nil {
		return Value{}, err
	}
	if len(incomingValues) != len(incomingBlocks) {
		return Value{}, irError("EmitPhi: %d incoming values but %d incoming blocks", len(incomingValues), len(incomingBlocks))
	}
	phi := f.builder.CreatePHI(f.llvmType(t), "")
	vals := make([]llvmValue, len(incomingValues))
	blocks := make([]llvm.BasicBlock, len(incomingBlocks))
	for i1 := range incomingValues {
		vals[i1] = incomingValues[i1].Handle.(llvmValue)
		blocks[i1] = incomingBlocks[i1].Handle
	}
	phi.AddIncoming(vals, blocks)
	return Value{Type: t, Handle: phi}, nil
}

// EmitUnreachable emits the unreachable terminator. The Walker uses it to
// close a block that has no valid return: the end of a non-unit function
// body that falls off without returning (MissingReturn), or a return whose
// value was rejected with a diagnostic.
func (f *Facade) EmitUnreachable() error {
	if err := f.checkLive(); err != nil {
		return err
	}
	f.builder.CreateUnreachable()
	return nil
}
