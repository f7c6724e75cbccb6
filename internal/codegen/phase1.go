package codegen

import (
	"reso/internal/ast"
	"reso/internal/diag"
)

// registerTypes implements §4.4 Phase 1: register resource types as opaque
// structs (fields filled in during Phase 2 to allow recursive references)
// and register type aliases. Grounded on the teacher's forward-declaration
// discipline in ir/symtab.go's registration ordering, generalized to
// resources since VSL has none.
func (w *Walker) registerTypes(u *ast.CompilationUnit) {
	for _, decl := range u.Root.Children {
		switch decl.Kind {
		case ast.ResourceDecl:
			name, _ := decl.Data.(string)
			if w.declaredResources[name] {
				w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col,
					"resource %q is already declared", name)
				continue
			}
			w.declaredResources[name] = true
			if _, err := w.Types.RegisterResource(name, nil, ""); err != nil {
				w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col, "%s", err)
			}
		}
	}
	// Second pass: type aliases, which may reference the opaque resources
	// just registered above.
	for _, decl := range u.Root.Children {
		if decl.Kind != ast.TypeAliasDecl {
			continue
		}
		name, _ := decl.Data.(string)
		if len(decl.Children) != 1 {
			w.Sink.Errorf(diag.UnknownType, u.File, decl.Line, decl.Col, "type alias %q has no underlying type", name)
			continue
		}
		underlying, err := w.resolveType(decl.Children[0])
		if err != nil {
			w.Sink.Errorf(diag.UnknownType, u.File, decl.Line, decl.Col, "%s", err)
			continue
		}
		if _, ok := w.Types.LookupByName(name); ok {
			w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col, "type %q already declared", name)
			continue
		}
		if err := w.Env.Declare(name, newAliasSymbol(name, underlying)); err != nil {
			w.Sink.Errorf(diag.DuplicateSymbol, u.File, decl.Line, decl.Col, "%s", err)
		}
	}
}
