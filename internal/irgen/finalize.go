package irgen

import (
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"tinygo.org/x/go-llvm"
)

// FileType selects object or textual assembly output for EmitObject,
// generalizing the teacher's hardcoded llvm.ObjectFile choice in
// ir/llvm/transform.go's GenLLVM.
type FileType int

const (
	ObjectFile FileType = iota
	AssemblyFile
)

// EmitTextualIR serializes the module to human-readable LLVM IR text.
func (f *Facade) EmitTextualIR() (string, error) {
	if err := f.checkLive(); err != nil {
		return "", err
	}
	return f.mod.String(), nil
}

// Optimize runs a fixed sequence of passes selected by opt level (0..3)
// before emission, per §4.3's finalization contract. Level 0 is a no-op.
func (f *Facade) Optimize(level int) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	if level <= 0 {
		return nil
	}
	pm := llvm.NewPassManager()
	defer pm.Dispose()

	pmb := llvm.NewPassManagerBuilder()
	defer pmb.Dispose()
	pmb.SetOptLevel(level)
	pmb.Populate(pm)

	pm.Run(f.mod)
	return nil
}

// EmitObject writes the compiled module to path in the requested file type
// at the given optimization level, targeting the host triple. Grounded on
// ir/llvm/transform.go's genTargetTriple/CreateTargetMachine/
// EmitToMemoryBuffer sequence, generalized to respect opt level instead of
// a hardcoded llvm.CodeGenLevelNone.
func (f *Facade) EmitObject(path string, ft FileType, optLevel int) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	if optLevel < 0 || optLevel > 3 {
		return fmt.Errorf("irgen: optimization level must be in range [0, 3], got %d", optLevel)
	}

	llvm.InitializeNativeTarget()
	llvm.InitializeNativeAsmPrinter()

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return pkgerrors.Wrap(err, "irgen: resolving target triple")
	}

	var codeGenLevel llvm.CodeGenOptLevel
	switch optLevel {
	case 0:
		codeGenLevel = llvm.CodeGenLevelNone
	case 1:
		codeGenLevel = llvm.CodeGenLevelLess
	case 2:
		codeGenLevel = llvm.CodeGenLevelDefault
	case 3:
		codeGenLevel = llvm.CodeGenLevelAggressive
	}

	tm := target.CreateTargetMachine(triple, "generic", "", codeGenLevel, llvm.RelocDefault, llvm.CodeModelDefault)
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	f.mod.SetDataLayout(td.String())
	f.mod.SetTarget(tm.Triple())

	if err := f.Optimize(optLevel); err != nil {
		return err
	}

	var nativeFT llvm.CodeGenFileType
	if ft == AssemblyFile {
		nativeFT = llvm.AssemblyFile
	} else {
		nativeFT = llvm.ObjectFile
	}

	buf, err := tm.EmitToMemoryBuffer(f.mod, nativeFT)
	if err != nil {
		return pkgerrors.Wrap(err, "irgen: emitting to memory buffer")
	}
	if buf.IsNil() {
		return fmt.Errorf("irgen: could not emit compiled code to memory")
	}

	fd, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return pkgerrors.Wrap(err, "irgen: opening output file")
	}
	defer func() {
		_ = fd.Close()
	}()
	if _, err := fd.Write(buf.Bytes()); err != nil {
		return pkgerrors.Wrap(err, "irgen: writing output file")
	}
	return nil
}
