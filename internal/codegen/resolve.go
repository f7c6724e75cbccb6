package codegen

import (
	"fmt"

	"reso/internal/ast"
	"reso/internal/env"
	"reso/internal/types"
)

// primitiveNames maps source type-name spellings to their Kind, used by
// resolveType for every name that isn't a previously registered resource or
// alias.
var primitiveNames = map[string]types.Kind{
	"bool": types.Bool, "char": types.Char,
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64,
	"f32": types.F32, "f64": types.F64,
	"unit": types.Unit, "string": types.String,
}

// resolveType resolves an ast.TypeName node to a *types.Type. A TypeName
// node whose Data is the string "&" denotes a reference, with its single
// Child holding the pointee TypeName.
func (w *Walker) resolveType(n *ast.Node) (*types.Type, error) {
	if n == nil || n.Kind != ast.TypeName {
		return nil, fmt.Errorf("resolveType: expected TypeName node, got %s", n)
	}
	name, _ := n.Data.(string)
	if name == "&" {
		if len(n.Children) != 1 {
			return nil, fmt.Errorf("line %d:%d: reference type requires exactly one pointee", n.Line, n.Col)
		}
		pointee, err := w.resolveType(n.Children[0])
		if err != nil {
			return nil, err
		}
		return w.Types.MakeReference(pointee), nil
	}
	if kind, ok := primitiveNames[name]; ok {
		return w.Types.InternPrimitive(kind), nil
	}
	if t, ok := w.Types.LookupByName(name); ok {
		return t, nil
	}
	if sym, ok := w.Env.Lookup(name); ok && sym.Kind == env.AliasSymbol {
		return sym.AliasOf, nil
	}
	return nil, fmt.Errorf("line %d:%d: unknown type %q", n.Line, n.Col, name)
}
