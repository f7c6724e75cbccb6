package codegen

import (
	"reso/internal/ast"
	"reso/internal/diag"
	"reso/internal/env"
	"reso/internal/types"
)

// registerSignatures implements §4.4 Phase 2: resolve parameter and return
// types for every function, resource constructor and resource destructor
// across all units, raising UnknownType for undefined names, and declare
// each in the root Environment scope and the IR module. This allows
// arbitrary mutual recursion and forward references across units without a
// topological sort (§4.2).
func (w *Walker) registerSignatures(u *ast.CompilationUnit) error {
	for _, decl := range u.Root.Children {
		switch decl.Kind {
		case ast.ResourceDecl:
			if err := w.registerResourceSignature(u, decl); err != nil {
				return err
			}
		case ast.FunctionDecl:
			if err := w.registerFunctionSignature(u, decl); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) registerResourceSignature(u *ast.CompilationUnit, decl *ast.Node) error {
	name, _ := decl.Data.(string)
	if len(decl.Children) < 1 {
		w.Sink.Errorf(diag.UnknownType, u.File, decl.Line, decl.Col, "resource %q has no field list", name)
		return nil
	}
	fieldList := decl.Children[0]
	fields := make([]types.Field, 0, len(fieldList.Children))
	for _, fnode := range fieldList.Children {
		fname, _ := fnode.Data.(string)
		ftyp, err := w.resolveType(fnode.Children[0])
		if err != nil {
			w.Sink.Errorf(diag.UnknownType, u.File, fnode.Line, fnode.Col, "%s", err)
			continue
		}
		fields = append(fields, types.Field{Name: fname, Type: ftyp})
	}

	resType, ok := w.Types.LookupByName(name)
	if !ok {
		w.Sink.Errorf(diag.UnknownType, u.File, decl.Line, decl.Col,
			"resource %q was not registered during type registration", name)
		return nil
	}
	dtorName := name + ".drop"
	if _, err := w.Types.RegisterResource(name, fields, dtorName); err != nil {
		w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col, "%s", err)
		return nil
	}

	ctorParamTypes := make([]*types.Type, len(fields))
	ctorParamNames := make([]string, len(fields))
	for i1, fld := range fields {
		ctorParamTypes[i1] = fld.Type
		ctorParamNames[i1] = fld.Name
	}

	ctorFn, err := w.IR.DeclareFunction(resType.CtorName, ctorParamTypes, ctorParamNames, resType)
	if err != nil {
		return irFatal(err)
	}
	if err := w.Env.Declare(resType.CtorName, &env.Symbol{
		Name: resType.CtorName, Kind: env.FunctionSymbol,
		ParamTypes: ctorParamTypes, ParamNames: ctorParamNames, RetType: resType,
		FuncHandle: ctorFn,
	}); err != nil {
		w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col, "%s", err)
	}

	dtorFn, err := w.IR.DeclareFunction(dtorName, []*types.Type{resType}, []string{"self"}, w.unitType)
	if err != nil {
		return irFatal(err)
	}
	if err := w.Env.Declare(dtorName, &env.Symbol{
		Name: dtorName, Kind: env.FunctionSymbol,
		ParamTypes: []*types.Type{resType}, ParamNames: []string{"self"}, RetType: w.unitType,
		FuncHandle: dtorFn,
	}); err != nil {
		w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col, "%s", err)
	}

	w.Env.Declare(name+".__ctorSym", &env.Symbol{
		Name: name, Kind: env.ResourceSymbol, ResourceType: resType,
		CtorHandle: ctorFn, DtorHandle: dtorFn,
	})
	return nil
}

func (w *Walker) registerFunctionSignature(u *ast.CompilationUnit, decl *ast.Node) error {
	name, _ := decl.Data.(string)
	if len(decl.Children) < 2 {
		w.Sink.Errorf(diag.UnknownType, u.File, decl.Line, decl.Col, "function %q is malformed", name)
		return nil
	}
	paramList := decl.Children[0]
	retNode := decl.Children[1]

	paramTypes := make([]*types.Type, 0, len(paramList.Children))
	paramNames := make([]string, 0, len(paramList.Children))
	for _, p := range paramList.Children {
		pname, _ := p.Data.(string)
		ptyp, err := w.resolveType(p.Children[0])
		if err != nil {
			w.Sink.Errorf(diag.UnknownType, u.File, p.Line, p.Col, "%s", err)
			continue
		}
		paramTypes = append(paramTypes, ptyp)
		paramNames = append(paramNames, pname)
	}

	retType, err := w.resolveType(retNode)
	if err != nil {
		w.Sink.Errorf(diag.UnknownType, u.File, retNode.Line, retNode.Col, "%s", err)
		return nil
	}

	if _, exists := w.Env.Lookup(name); exists {
		w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col,
			"duplicate definition of function %q", name)
		return nil
	}

	fn, err := w.IR.DeclareFunction(name, paramTypes, paramNames, retType)
	if err != nil {
		return irFatal(err)
	}
	return w.Env.Declare(name, &env.Symbol{
		Name: name, Kind: env.FunctionSymbol,
		ParamTypes: paramTypes, ParamNames: paramNames, RetType: retType,
		FuncHandle: fn,
	})
}
