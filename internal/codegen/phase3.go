package codegen

import (
	"fmt"

	"reso/internal/ast"
	"reso/internal/diag"
	"reso/internal/env"
	"reso/internal/irgen"
	"reso/internal/types"
)

// blockState names the state machine a function body's lowering walks
// through (§4.4): Entry before any instruction has been emitted into it,
// InBlockOpen once live and accepting further instructions, InBlockTerminated
// the instant a Return (or an If/While/For whose every arm terminates) closes
// it, and Exit once its resource destructors have run on the way out.
// Entry/Exit bracket a single lowerBlock call rather than carrying state
// across calls, so lowerStmtList/lowerBlock thread only the
// InBlockOpen/InBlockTerminated distinction as a bool; this type exists to
// name the four states the teacher's gen/genIf/genWhile leave implicit in an
// untyped "ret bool".
type blockState int

const (
	blockEntry blockState = iota
	blockOpen
	blockTerminated
	blockExit
)

func (s blockState) terminated() bool { return s == blockTerminated }

// lowerUnitBodies implements §4.4 Phase 3: lower every function's body to
// instructions. Resource constructors and destructors are only declared
// (with no body) by irgen.Facade.DeclareFunction at Phase 2; no definition
// is generated for them here or anywhere else, so only FunctionDecl nodes
// are walked.
func (w *Walker) lowerUnitBodies(u *ast.CompilationUnit) error {
	for _, decl := range u.Root.Children {
		if decl.Kind != ast.FunctionDecl {
			continue
		}
		if w.Sink.OverCeilingForUnit(u.File) {
			break
		}
		if err := w.lowerFunction(u, decl); err != nil {
			return err
		}
	}
	return nil
}

// lowerFunction lowers one function's body. Grounded on the teacher's
// genFuncBody: a single entry basic block holds parameter allocas before the
// body's own statements are lowered into it.
func (w *Walker) lowerFunction(u *ast.CompilationUnit, decl *ast.Node) error {
	name, _ := decl.Data.(string)
	sym, ok := w.Env.Lookup(name)
	if !ok || sym.Kind != env.FunctionSymbol {
		return fmt.Errorf("codegen: function %q has no registered signature", name)
	}
	fn, ok := sym.FuncHandle.(irgen.Func)
	if !ok {
		return fmt.Errorf("codegen: function %q has no native handle", name)
	}

	entry, err := w.IR.EmitBasicBlock(fn, "entry")
	if err != nil {
		return irFatal(err)
	}
	if err := w.IR.SetInsertionPoint(entry); err != nil {
		return irFatal(err)
	}

	w.Env.PushScope()
	for i1, pt := range sym.ParamTypes {
		if i1 >= len(sym.ParamNames) {
			break
		}
		storage, err := w.IR.EmitAlloca(pt, sym.ParamNames[i1])
		if err != nil {
			return irFatal(err)
		}
		if err := w.IR.EmitStore(w.IR.Param(fn, i1, pt), storage, 0); err != nil {
			return irFatal(err)
		}
		if err := w.Env.Declare(sym.ParamNames[i1], &env.Symbol{
			Name: sym.ParamNames[i1], Kind: env.VariableSymbol,
			Type: pt, Mutable: false, Storage: storage,
		}); err != nil {
			w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col, "%s", err)
		}
	}

	bodyNode := decl.Children[len(decl.Children)-1]
	terminated, err := w.lowerStmtList(u, bodyNode.Children, fn, sym.RetType)
	exiting := w.Env.PopScope()

	if err != nil {
		return err
	}
	if terminated {
		return nil
	}

	if sym.RetType.Kind == types.Unit {
		if derr := w.emitDestructors(exiting.ResourcesInReverseDeclarationOrder(), decl.Line, decl.Col); derr != nil {
			return derr
		}
		if err := w.IR.EmitReturnVoid(); err != nil {
			return irFatal(err)
		}
		return nil
	}

	w.Sink.Errorf(diag.MissingReturn, u.File, decl.Line, decl.Col, "function %q does not return a value on all paths", name)
	if err := w.IR.EmitUnreachable(); err != nil {
		return irFatal(err)
	}
	return nil
}

// lowerBlock lowers a Block node in its own nested scope, emitting that
// scope's resource destructors on a normal (non-terminated) exit, per §4.4's
// "Scope exit" rule.
func (w *Walker) lowerBlock(u *ast.CompilationUnit, n *ast.Node, fn irgen.Func, retType *types.Type) (bool, error) {
	w.Env.PushScope()
	terminated, err := w.lowerStmtList(u, n.Children, fn, retType)
	exiting := w.Env.PopScope()
	if err != nil {
		return terminated, err
	}
	if !terminated {
		if derr := w.emitDestructors(exiting.ResourcesInReverseDeclarationOrder(), n.Line, n.Col); derr != nil {
			return terminated, derr
		}
	}
	return terminated, nil
}

// lowerStmtList lowers a sequence of statements, stopping (without further
// codegen) once one of them terminates the block — statements after a
// return are dead and are not lowered, per §4.4.
func (w *Walker) lowerStmtList(u *ast.CompilationUnit, stmts []*ast.Node, fn irgen.Func, retType *types.Type) (bool, error) {
	terminated := false
	for _, stmt := range stmts {
		if terminated {
			break
		}
		if w.Sink.OverCeilingForUnit(u.File) {
			break
		}
		t, err := w.lowerStmt(u, stmt, fn, retType)
		if err != nil {
			if err == errDiagnosed {
				continue
			}
			return terminated, err
		}
		terminated = t
	}
	return terminated, nil
}

func (w *Walker) emitDestructors(resources []*env.Symbol, line, col int) error {
	for _, sym := range resources {
		dtorFn, ok := w.IR.LookupFunction(sym.Type.DtorName)
		if !ok {
			return fmt.Errorf("codegen: resource %q has no registered destructor", sym.Type.Name)
		}
		v, err := w.IR.EmitLoad(sym.Storage.(irgen.Storage), 0, line, col)
		if err != nil {
			return irFatal(err)
		}
		if _, err := w.IR.EmitCall(dtorFn, []irgen.Value{v}, w.unitType, line, col); err != nil {
			return irFatal(err)
		}
	}
	return nil
}

// lowerStmt lowers one statement and reports whether it terminates its
// enclosing block (a Return, or an If whose every arm terminates).
func (w *Walker) lowerStmt(u *ast.CompilationUnit, n *ast.Node, fn irgen.Func, retType *types.Type) (bool, error) {
	switch n.Kind {
	case ast.Block:
		return w.lowerBlock(u, n, fn, retType)
	case ast.VarDecl:
		return false, w.lowerVarDecl(u, fn, n)
	case ast.Assignment:
		return false, w.lowerAssignment(u, fn, n)
	case ast.ExprStmt:
		_, err := w.lowerExpr(u, fn, n.Children[0])
		if err != nil {
			return false, err
		}
		return false, nil
	case ast.Return:
		return w.lowerReturn(u, fn, n, retType)
	case ast.If:
		return w.lowerIf(u, fn, n, retType)
	case ast.While:
		return w.lowerWhile(u, fn, n, retType)
	case ast.For:
		return w.lowerFor(u, fn, n, retType)
	default:
		w.Sink.Errorf(diag.SyntaxError, u.File, n.Line, n.Col, "unexpected node %s in statement position", n.Kind)
		return false, errDiagnosed
	}
}

func (w *Walker) lowerVarDecl(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node) error {
	info, ok := n.Data.(ast.VarDeclInfo)
	if !ok {
		w.Sink.Errorf(diag.SyntaxError, u.File, n.Line, n.Col, "malformed variable declaration")
		return errDiagnosed
	}
	typeNode, initNode := n.Children[0], n.Children[1]

	var target *types.Type
	var err error
	if typeNode != nil {
		target, err = w.resolveType(typeNode)
		if err != nil {
			w.Sink.Errorf(diag.UnknownType, u.File, typeNode.Line, typeNode.Col, "%s", err)
			return errDiagnosed
		}
	}

	var value irgen.Value
	if target != nil {
		value, err = w.lowerExprAs(u, fn, initNode, target)
		if err != nil {
			return err
		}
	} else {
		value, err = w.lowerExpr(u, fn, initNode)
		if err != nil {
			return err
		}
		if value.IsLiteral() {
			value, err = w.IR.Concretize(value, value.Candidates()[0])
			if err != nil {
				w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "%s", err)
				return errDiagnosed
			}
		}
		target = value.Type
	}

	storage, err := w.IR.EmitAlloca(target, info.Name)
	if err != nil {
		return irFatal(err)
	}
	if err := w.IR.EmitStore(value, storage, 0); err != nil {
		return irFatal(err)
	}
	if err := w.Env.Declare(info.Name, &env.Symbol{
		Name: info.Name, Kind: env.VariableSymbol, Type: target, Mutable: info.Mutable, Storage: storage,
	}); err != nil {
		w.Sink.Errorf(diag.DuplicateSymbol, u.File, n.Line, n.Col, "%s", err)
		return errDiagnosed
	}
	return nil
}

func (w *Walker) lowerAssignment(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node) error {
	lhs := n.Children[0]
	if lhs.Kind != ast.Identifier {
		w.Sink.Errorf(diag.SyntaxError, u.File, lhs.Line, lhs.Col, "left-hand side of assignment must be a variable")
		return errDiagnosed
	}
	name, _ := lhs.Data.(string)
	sym, ok := w.Env.Lookup(name)
	if !ok {
		w.Sink.Errorf(diag.UndefinedSymbol, u.File, lhs.Line, lhs.Col, "undefined symbol %q", name)
		return errDiagnosed
	}
	if sym.Kind != env.VariableSymbol {
		w.Sink.Errorf(diag.TypeMismatch, u.File, lhs.Line, lhs.Col, "%q is not a variable", name)
		return errDiagnosed
	}
	if !sym.Mutable {
		w.Sink.Errorf(diag.MutabilityViolation, u.File, lhs.Line, lhs.Col, "cannot assign to immutable binding %q", name)
		return errDiagnosed
	}
	value, err := w.lowerExprAs(u, fn, n.Children[1], sym.Type)
	if err != nil {
		return err
	}
	if err := w.IR.EmitStore(value, sym.Storage.(irgen.Storage), 0); err != nil {
		return irFatal(err)
	}
	return nil
}

func (w *Walker) lowerReturn(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node, retType *types.Type) (bool, error) {
	var value irgen.Value
	var err error
	if len(n.Children) == 0 {
		if retType.Kind != types.Unit {
			w.Sink.Errorf(diag.TypeMismatch, u.File, n.Line, n.Col, "function must return a value of type %s", retType)
			// The return is already reported; closing the block keeps the
			// function from also being reported as MissingReturn.
			if uerr := w.IR.EmitUnreachable(); uerr != nil {
				return true, irFatal(uerr)
			}
			return true, nil
		}
	} else {
		value, err = w.lowerExprAs(u, fn, n.Children[0], retType)
		if err == errDiagnosed {
			if uerr := w.IR.EmitUnreachable(); uerr != nil {
				return true, irFatal(uerr)
			}
			return true, nil
		}
		if err != nil {
			return false, err
		}
	}

	// Early return unwinds every open scope at once, not just the innermost
	// one a plain PopScope would reach (§4.4's scope-exit rule applied
	// transitively across the whole active call frame).
	if derr := w.emitDestructors(w.Env.ActiveResourcesInnermostFirst(), n.Line, n.Col); derr != nil {
		return true, derr
	}

	if retType.Kind == types.Unit {
		if err := w.IR.EmitReturnVoid(); err != nil {
			return true, irFatal(err)
		}
		return true, nil
	}
	if err := w.IR.EmitReturn(value); err != nil {
		return true, irFatal(err)
	}
	return true, nil
}

func (w *Walker) lowerIf(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node, retType *types.Type) (bool, error) {
	cond, err := w.lowerExprAs(u, fn, n.Children[0], w.boolType)
	if err != nil {
		return false, err
	}

	thenBlk, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		return false, irFatal(err)
	}

	if len(n.Children) == 2 {
		convBlk, err := w.IR.EmitBasicBlock(fn, "")
		if err != nil {
			return false, irFatal(err)
		}
		if err := w.IR.EmitCondBr(cond, thenBlk, convBlk); err != nil {
			return false, irFatal(err)
		}

		if err := w.IR.SetInsertionPoint(thenBlk); err != nil {
			return false, irFatal(err)
		}
		thenTerm, err := w.lowerBlock(u, n.Children[1], fn, retType)
		if err != nil {
			return false, err
		}
		if !thenTerm {
			if err := w.IR.EmitBr(convBlk); err != nil {
				return false, irFatal(err)
			}
		}
		if err := w.IR.SetInsertionPoint(convBlk); err != nil {
			return false, irFatal(err)
		}
		return false, nil
	}

	elseBlk, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		return false, irFatal(err)
	}
	if err := w.IR.EmitCondBr(cond, thenBlk, elseBlk); err != nil {
		return false, irFatal(err)
	}

	if err := w.IR.SetInsertionPoint(thenBlk); err != nil {
		return false, irFatal(err)
	}
	thenTerm, err := w.lowerBlock(u, n.Children[1], fn, retType)
	if err != nil {
		return false, err
	}

	if err := w.IR.SetInsertionPoint(elseBlk); err != nil {
		return false, irFatal(err)
	}
	elseTerm, err := w.lowerBlock(u, n.Children[2], fn, retType)
	if err != nil {
		return false, err
	}

	if thenTerm && elseTerm {
		return true, nil
	}
	convBlk, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		return false, irFatal(err)
	}
	if !thenTerm {
		if err := w.IR.SetInsertionPoint(thenBlk); err != nil {
			return false, irFatal(err)
		}
		if err := w.IR.EmitBr(convBlk); err != nil {
			return false, irFatal(err)
		}
	}
	if !elseTerm {
		if err := w.IR.SetInsertionPoint(elseBlk); err != nil {
			return false, irFatal(err)
		}
		if err := w.IR.EmitBr(convBlk); err != nil {
			return false, irFatal(err)
		}
	}
	if err := w.IR.SetInsertionPoint(convBlk); err != nil {
		return false, irFatal(err)
	}
	return false, nil
}

// lowerWhile is grounded on the teacher's genWhile: a head block
// re-evaluates the condition on every iteration, a body block branches back
// to head unless the body itself terminates, and a converge block follows.
func (w *Walker) lowerWhile(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node, retType *types.Type) (bool, error) {
	head, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		return false, irFatal(err)
	}
	body, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		return false, irFatal(err)
	}
	conv, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		return false, irFatal(err)
	}

	if err := w.IR.EmitBr(head); err != nil {
		return false, irFatal(err)
	}
	if err := w.IR.SetInsertionPoint(head); err != nil {
		return false, irFatal(err)
	}
	cond, err := w.lowerExprAs(u, fn, n.Children[0], w.boolType)
	if err != nil {
		return false, err
	}
	if err := w.IR.EmitCondBr(cond, body, conv); err != nil {
		return false, irFatal(err)
	}

	if err := w.IR.SetInsertionPoint(body); err != nil {
		return false, irFatal(err)
	}
	bodyTerm, err := w.lowerBlock(u, n.Children[1], fn, retType)
	if err != nil {
		return false, err
	}
	if !bodyTerm {
		if err := w.IR.EmitBr(head); err != nil {
			return false, irFatal(err)
		}
	}

	if err := w.IR.SetInsertionPoint(conv); err != nil {
		return false, irFatal(err)
	}
	return false, nil
}

// lowerFor lowers a C-style for statement: an optional init statement scoped
// to the loop, an optional condition (absent means "always true"), an
// optional post statement run at the end of every iteration that completes
// normally, and a body block.
func (w *Walker) lowerFor(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node, retType *types.Type) (bool, error) {
	initStmt, condExpr, postStmt, bodyBlock := n.Children[0], n.Children[1], n.Children[2], n.Children[3]

	w.Env.PushScope()
	if initStmt != nil {
		if _, err := w.lowerStmt(u, initStmt, fn, retType); err != nil && err != errDiagnosed {
			w.Env.PopScope()
			return false, err
		}
	}

	head, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}
	body, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}
	post, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}
	conv, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}

	if err := w.IR.EmitBr(head); err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}
	if err := w.IR.SetInsertionPoint(head); err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}
	if condExpr != nil {
		cond, cerr := w.lowerExprAs(u, fn, condExpr, w.boolType)
		if cerr != nil {
			w.Env.PopScope()
			return false, cerr
		}
		if err := w.IR.EmitCondBr(cond, body, conv); err != nil {
			w.Env.PopScope()
			return false, irFatal(err)
		}
	} else {
		if err := w.IR.EmitBr(body); err != nil {
			w.Env.PopScope()
			return false, irFatal(err)
		}
	}

	if err := w.IR.SetInsertionPoint(body); err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}
	bodyTerm, err := w.lowerBlock(u, bodyBlock, fn, retType)
	if err != nil {
		w.Env.PopScope()
		return false, err
	}
	if !bodyTerm {
		if err := w.IR.EmitBr(post); err != nil {
			w.Env.PopScope()
			return false, irFatal(err)
		}
	}

	if err := w.IR.SetInsertionPoint(post); err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}
	if postStmt != nil {
		if _, err := w.lowerStmt(u, postStmt, fn, retType); err != nil && err != errDiagnosed {
			w.Env.PopScope()
			return false, err
		}
	}
	if err := w.IR.EmitBr(head); err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}

	if err := w.IR.SetInsertionPoint(conv); err != nil {
		w.Env.PopScope()
		return false, irFatal(err)
	}
	exiting := w.Env.PopScope()
	if derr := w.emitDestructors(exiting.ResourcesInReverseDeclarationOrder(), n.Line, n.Col); derr != nil {
		return false, derr
	}
	return false, nil
}
