package codegen

import (
	"reso/internal/ast"
	"reso/internal/diag"
	"reso/internal/env"
	"reso/internal/irgen"
	"reso/internal/types"
)

// lowerExpr lowers one expression node to a Value, which may be a
// PolymorphicLiteral awaiting concretization (§3). Grounded on
// src/ir/llvm/transform.go's genExpression, generalized from VSL's fixed
// int/bool/relation set to Reso's full expression grammar.
func (w *Walker) lowerExpr(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node) (irgen.Value, error) {
	switch n.Kind {
	case ast.IntLiteral:
		v, _ := n.Data.(int64)
		return w.IR.EmitIntLiteral(v, w.intLiteralCandidates(v), n.Line, n.Col), nil
	case ast.FloatLiteral:
		v, _ := n.Data.(float64)
		return w.IR.EmitFloatLiteral(v, w.floatLiteralCandidates(), n.Line, n.Col), nil
	case ast.BoolLiteral:
		v, _ := n.Data.(bool)
		return w.IR.EmitBool(w.boolType, v, n.Line, n.Col)
	case ast.CharLiteral:
		v, _ := n.Data.(int64)
		return w.IR.EmitInt(w.Types.InternPrimitive(types.Char), uint64(v), false, n.Line, n.Col)
	case ast.StringLiteral:
		v, _ := n.Data.(string)
		return w.IR.EmitString(w.Types.InternPrimitive(types.String), v, n.Line, n.Col)
	case ast.NullLiteral:
		w.Sink.Errorf(diag.UnknownType, u.File, n.Line, n.Col,
			"null has no target type in this context; use it where a reference or resource type is expected")
		return irgen.Value{}, errDiagnosed
	case ast.Identifier:
		return w.lowerIdentifier(u, n)
	case ast.BinaryExpr:
		return w.lowerBinaryExpr(u, fn, n)
	case ast.UnaryExpr:
		return w.lowerUnaryExpr(u, fn, n)
	case ast.Cast:
		return w.lowerCast(u, fn, n)
	case ast.Call:
		return w.lowerCall(u, fn, n)
	case ast.ResourceConstruct:
		return w.lowerResourceConstruct(u, fn, n)
	default:
		w.Sink.Errorf(diag.SyntaxError, u.File, n.Line, n.Col, "unexpected node %s in expression position", n.Kind)
		return irgen.Value{}, errDiagnosed
	}
}

// lowerExprAs lowers n and coerces the result to target, applying the
// identity/widening/null coercion rules of §4.1. n may be a bare NullLiteral,
// which has no standalone type and so is handled before falling into the
// general lowerExpr path.
func (w *Walker) lowerExprAs(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node, target *types.Type) (irgen.Value, error) {
	if n.Kind == ast.NullLiteral {
		if !types.CanCoerceNull(target) {
			w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "null does not coerce to type %s", target)
			return irgen.Value{}, errDiagnosed
		}
		v, err := w.IR.EmitNullPointer(target, n.Line, n.Col)
		if err != nil {
			return irgen.Value{}, irFatal(err)
		}
		return v, nil
	}

	v, err := w.lowerExpr(u, fn, n)
	if err != nil {
		return irgen.Value{}, err
	}
	if v.IsLiteral() {
		cv, cerr := w.IR.Concretize(v, target)
		if cerr != nil {
			w.Sink.Errorf(diag.TypeMismatch, u.File, n.Line, n.Col, "cannot use value of type %s where %s is expected", v.Type, target)
			return irgen.Value{}, errDiagnosed
		}
		return cv, nil
	}
	if v.Type == target {
		return v, nil
	}
	if types.CanWiden(v.Type, target) {
		cv, cerr := w.IR.EmitCast(v, target, n.Line, n.Col)
		if cerr != nil {
			return irgen.Value{}, irFatal(cerr)
		}
		return cv, nil
	}
	w.Sink.Errorf(diag.TypeMismatch, u.File, n.Line, n.Col, "cannot use value of type %s where %s is expected", v.Type, target)
	return irgen.Value{}, errDiagnosed
}

func (w *Walker) lowerIdentifier(u *ast.CompilationUnit, n *ast.Node) (irgen.Value, error) {
	name, _ := n.Data.(string)
	sym, ok := w.Env.Lookup(name)
	if !ok {
		w.Sink.Errorf(diag.UndefinedSymbol, u.File, n.Line, n.Col, "undefined symbol %q", name)
		return irgen.Value{}, errDiagnosed
	}
	if sym.Kind != env.VariableSymbol {
		w.Sink.Errorf(diag.TypeMismatch, u.File, n.Line, n.Col, "%q is not a variable", name)
		return irgen.Value{}, errDiagnosed
	}
	v, err := w.IR.EmitLoad(sym.Storage.(irgen.Storage), 0, n.Line, n.Col)
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}
	return v, nil
}

// comparisonOps is the set of operators lowered through EmitIntCompare /
// EmitFloatCompare rather than EmitBinaryOp.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (w *Walker) lowerBinaryExpr(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node) (irgen.Value, error) {
	op, _ := n.Data.(string)
	if op == "&&" || op == "||" {
		return w.lowerShortCircuit(u, fn, n, op)
	}

	lv, err := w.lowerExpr(u, fn, n.Children[0])
	if err != nil {
		return irgen.Value{}, err
	}
	rv, err := w.lowerExpr(u, fn, n.Children[1])
	if err != nil {
		return irgen.Value{}, err
	}
	lv, rv, common, err := w.unifyOperands(u, n, lv, rv)
	if err != nil {
		return irgen.Value{}, err
	}

	if comparisonOps[op] {
		if common.Kind.IsFloat() {
			pred, ok := types.OrderedFloatPredicate(op)
			if !ok {
				w.Sink.Errorf(diag.SyntaxError, u.File, n.Line, n.Col, "operator %q is not a float comparison", op)
				return irgen.Value{}, errDiagnosed
			}
			res, err := w.IR.EmitFloatCompare(pred, lv, rv, w.boolType, n.Line, n.Col)
			if err != nil {
				return irgen.Value{}, irFatal(err)
			}
			return res, nil
		}
		pred, ok := types.SignedIntPredicate(op, common.Kind.IsSigned())
		if !ok {
			w.Sink.Errorf(diag.SyntaxError, u.File, n.Line, n.Col, "operator %q is not a comparison", op)
			return irgen.Value{}, errDiagnosed
		}
		res, err := w.IR.EmitIntCompare(pred, lv, rv, w.boolType, n.Line, n.Col)
		if err != nil {
			return irgen.Value{}, irFatal(err)
		}
		return res, nil
	}

	res, err := w.IR.EmitBinaryOp(op, lv, rv, n.Line, n.Col)
	if err != nil {
		w.Sink.Errorf(diag.TypeMismatch, u.File, n.Line, n.Col, "%s", err)
		return irgen.Value{}, errDiagnosed
	}
	return res, nil
}

// lowerShortCircuit lowers && and ||, which must not evaluate their right
// operand unless necessary. Rather than merge the two paths' Bool results
// with a phi (the teacher's transform.go never uses CreatePHI, preferring
// alloca/load/store for anything that crosses a basic block boundary — see
// its genFuncBody/genWhile), the tentative result is held in a stack slot
// and overwritten in the right-hand-side block only if it is reached.
func (w *Walker) lowerShortCircuit(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node, op string) (irgen.Value, error) {
	lv, err := w.lowerExprAs(u, fn, n.Children[0], w.boolType)
	if err != nil {
		return irgen.Value{}, err
	}
	slot, err := w.IR.EmitAlloca(w.boolType, "")
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}
	if err := w.IR.EmitStore(lv, slot, 0); err != nil {
		return irgen.Value{}, irFatal(err)
	}

	rhsBlk, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}
	convBlk, err := w.IR.EmitBasicBlock(fn, "")
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}
	if op == "&&" {
		err = w.IR.EmitCondBr(lv, rhsBlk, convBlk)
	} else {
		err = w.IR.EmitCondBr(lv, convBlk, rhsBlk)
	}
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}

	if err := w.IR.SetInsertionPoint(rhsBlk); err != nil {
		return irgen.Value{}, irFatal(err)
	}
	rv, err := w.lowerExprAs(u, fn, n.Children[1], w.boolType)
	if err != nil {
		return irgen.Value{}, err
	}
	if err := w.IR.EmitStore(rv, slot, 0); err != nil {
		return irgen.Value{}, irFatal(err)
	}
	if err := w.IR.EmitBr(convBlk); err != nil {
		return irgen.Value{}, irFatal(err)
	}

	if err := w.IR.SetInsertionPoint(convBlk); err != nil {
		return irgen.Value{}, irFatal(err)
	}
	res, err := w.IR.EmitLoad(slot, 0, n.Line, n.Col)
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}
	return res, nil
}

func (w *Walker) lowerUnaryExpr(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node) (irgen.Value, error) {
	op, _ := n.Data.(string)
	v, err := w.lowerExpr(u, fn, n.Children[0])
	if err != nil {
		return irgen.Value{}, err
	}
	if v.IsLiteral() {
		cv, cerr := w.IR.Concretize(v, v.Candidates()[0])
		if cerr != nil {
			w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "%s", cerr)
			return irgen.Value{}, errDiagnosed
		}
		v = cv
	}
	res, err := w.IR.EmitUnaryOp(op, v, n.Line, n.Col)
	if err != nil {
		w.Sink.Errorf(diag.TypeMismatch, u.File, n.Line, n.Col, "%s", err)
		return irgen.Value{}, errDiagnosed
	}
	return res, nil
}

func (w *Walker) lowerCast(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node) (irgen.Value, error) {
	target, err := w.resolveType(n.Children[1])
	if err != nil {
		w.Sink.Errorf(diag.UnknownType, u.File, n.Children[1].Line, n.Children[1].Col, "%s", err)
		return irgen.Value{}, errDiagnosed
	}
	v, err := w.lowerExpr(u, fn, n.Children[0])
	if err != nil {
		return irgen.Value{}, err
	}
	if v.IsLiteral() {
		cv, cerr := w.IR.Concretize(v, v.Candidates()[0])
		if cerr != nil {
			w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "%s", cerr)
			return irgen.Value{}, errDiagnosed
		}
		v = cv
	}
	if !types.ExplicitCastAllowed(v.Type.Kind, target.Kind) {
		w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "cannot cast %s to %s", v.Type, target)
		return irgen.Value{}, errDiagnosed
	}
	res, err := w.IR.EmitCast(v, target, n.Line, n.Col)
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}
	return res, nil
}

func (w *Walker) lowerCall(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node) (irgen.Value, error) {
	name, _ := n.Data.(string)
	sym, ok := w.Env.Lookup(name)
	if !ok || sym.Kind != env.FunctionSymbol {
		w.Sink.Errorf(diag.UndefinedSymbol, u.File, n.Line, n.Col, "undefined function %q", name)
		return irgen.Value{}, errDiagnosed
	}
	if len(n.Children) != len(sym.ParamTypes) {
		w.Sink.Errorf(diag.ArityMismatch, u.File, n.Line, n.Col,
			"function %q expects %d argument(s), got %d", name, len(sym.ParamTypes), len(n.Children))
		return irgen.Value{}, errDiagnosed
	}
	args := make([]irgen.Value, len(n.Children))
	for i1, argNode := range n.Children {
		av, err := w.lowerExprAs(u, fn, argNode, sym.ParamTypes[i1])
		if err != nil {
			return irgen.Value{}, err
		}
		args[i1] = av
	}
	res, err := w.IR.EmitCall(sym.FuncHandle.(irgen.Func), args, sym.RetType, n.Line, n.Col)
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}
	return res, nil
}

func (w *Walker) lowerResourceConstruct(u *ast.CompilationUnit, fn irgen.Func, n *ast.Node) (irgen.Value, error) {
	name, _ := n.Data.(string)
	sym, ok := w.Env.Lookup(name + ".__ctorSym")
	if !ok || sym.Kind != env.ResourceSymbol {
		w.Sink.Errorf(diag.UndefinedSymbol, u.File, n.Line, n.Col, "undefined resource %q", name)
		return irgen.Value{}, errDiagnosed
	}
	fields := sym.ResourceType.Fields
	if len(n.Children) != len(fields) {
		w.Sink.Errorf(diag.ArityMismatch, u.File, n.Line, n.Col,
			"resource %q expects %d field value(s), got %d", name, len(fields), len(n.Children))
		return irgen.Value{}, errDiagnosed
	}
	args := make([]irgen.Value, len(n.Children))
	for i1, argNode := range n.Children {
		av, err := w.lowerExprAs(u, fn, argNode, fields[i1].Type)
		if err != nil {
			return irgen.Value{}, err
		}
		args[i1] = av
	}
	res, err := w.IR.EmitCall(sym.CtorHandle.(irgen.Func), args, sym.ResourceType, n.Line, n.Col)
	if err != nil {
		return irgen.Value{}, irFatal(err)
	}
	return res, nil
}

// unifyOperands resolves the common operand type for a binary operator per
// §4.1: identical concrete types pass through, a literal concretizes against
// its concrete peer, two literals both concretize against the left literal's
// default (its first candidate), failing if the right literal cannot take it,
// and differing concrete integer types widen if one side losslessly widens
// to the other.
func (w *Walker) unifyOperands(u *ast.CompilationUnit, n *ast.Node, a, b irgen.Value) (irgen.Value, irgen.Value, *types.Type, error) {
	if a.IsLiteral() && b.IsLiteral() {
		target := a.Candidates()[0]
		av, err := w.IR.Concretize(a, target)
		if err != nil {
			w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "%s", err)
			return irgen.Value{}, irgen.Value{}, nil, errDiagnosed
		}
		bv, err := w.IR.Concretize(b, target)
		if err != nil {
			w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "%s", err)
			return irgen.Value{}, irgen.Value{}, nil, errDiagnosed
		}
		return av, bv, target, nil
	}
	if a.IsLiteral() {
		av, err := w.IR.Concretize(a, b.Type)
		if err != nil {
			w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "%s", err)
			return irgen.Value{}, irgen.Value{}, nil, errDiagnosed
		}
		return av, b, b.Type, nil
	}
	if b.IsLiteral() {
		bv, err := w.IR.Concretize(b, a.Type)
		if err != nil {
			w.Sink.Errorf(diag.InvalidCoercion, u.File, n.Line, n.Col, "%s", err)
			return irgen.Value{}, irgen.Value{}, nil, errDiagnosed
		}
		return a, bv, a.Type, nil
	}
	if a.Type == b.Type {
		return a, b, a.Type, nil
	}
	if types.CanWiden(a.Type, b.Type) {
		av, err := w.IR.EmitCast(a, b.Type, n.Line, n.Col)
		if err != nil {
			return irgen.Value{}, irgen.Value{}, nil, irFatal(err)
		}
		return av, b, b.Type, nil
	}
	if types.CanWiden(b.Type, a.Type) {
		bv, err := w.IR.EmitCast(b, a.Type, n.Line, n.Col)
		if err != nil {
			return irgen.Value{}, irgen.Value{}, nil, irFatal(err)
		}
		return a, bv, a.Type, nil
	}
	w.Sink.Errorf(diag.TypeMismatch, u.File, n.Line, n.Col, "operand type mismatch %s vs %s", a.Type, b.Type)
	return irgen.Value{}, irgen.Value{}, nil, errDiagnosed
}
