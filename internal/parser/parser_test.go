package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reso/internal/ast"
)

func TestParseSimpleFunction(t *testing.T) {
	unit, err := Parse("t.reso", `fn main() -> i32 { return 1 + 2; }`)
	require.NoError(t, err)
	require.Len(t, unit.Root.Children, 1)

	fn := unit.Root.Children[0]
	require.Equal(t, ast.FunctionDecl, fn.Kind)
	require.Equal(t, "main", fn.Data)
	require.Len(t, fn.Children, 3)

	body := fn.Children[2]
	require.Equal(t, ast.Block, body.Kind)
	require.Len(t, body.Children, 1)

	ret := body.Children[0]
	require.Equal(t, ast.Return, ret.Kind)
	require.Len(t, ret.Children, 1)

	expr := ret.Children[0]
	require.Equal(t, ast.BinaryExpr, expr.Kind)
	require.Equal(t, "+", expr.Data)
}

func TestParseVarDeclAndAssignment(t *testing.T) {
	unit, err := Parse("t.reso", `fn f() -> unit {
		var x: i32 = 1;
		mut y = 2;
		y = x;
		return;
	}`)
	require.NoError(t, err)
	body := unit.Root.Children[0].Children[2]
	require.Len(t, body.Children, 4)

	decl := body.Children[0]
	require.Equal(t, ast.VarDecl, decl.Kind)
	info, ok := decl.Data.(ast.VarDeclInfo)
	require.True(t, ok)
	require.Equal(t, "x", info.Name)
	require.False(t, info.Mutable)

	mutDecl := body.Children[1]
	mutInfo, ok := mutDecl.Data.(ast.VarDeclInfo)
	require.True(t, ok)
	require.True(t, mutInfo.Mutable)

	assign := body.Children[2]
	require.Equal(t, ast.Assignment, assign.Kind)
	require.Equal(t, ast.Identifier, assign.Children[0].Kind)
}

func TestParseResourceDecl(t *testing.T) {
	unit, err := Parse("t.reso", `resource File {
		handle: i64,
		path: string,
	}`)
	require.NoError(t, err)
	decl := unit.Root.Children[0]
	require.Equal(t, ast.ResourceDecl, decl.Kind)
	require.Equal(t, "File", decl.Data)
	fields := decl.Children[0]
	require.Len(t, fields.Children, 2)
	require.Equal(t, "handle", fields.Children[0].Data)
}

func TestParseIfWhileForAndCastAndNew(t *testing.T) {
	unit, err := Parse("t.reso", `fn f() -> i32 {
		if 1 < 2 {
			return 1;
		} else {
			return 0;
		}
		while true {
			return 0;
		}
		for (var i: i32 = 0; i < 10; i = i + 1) {
			return 0;
		}
		var r = new File(1, "x");
		return (1 as i32);
	}`)
	require.NoError(t, err)
	body := unit.Root.Children[0].Children[2]

	ifNode := body.Children[0]
	require.Equal(t, ast.If, ifNode.Kind)
	require.Len(t, ifNode.Children, 3)

	whileNode := body.Children[1]
	require.Equal(t, ast.While, whileNode.Kind)

	forNode := body.Children[2]
	require.Equal(t, ast.For, forNode.Kind)
	require.Len(t, forNode.Children, 4)
	require.NotNil(t, forNode.Children[0])
	require.NotNil(t, forNode.Children[1])
	require.NotNil(t, forNode.Children[2])

	newDecl := body.Children[3]
	info := newDecl.Data.(ast.VarDeclInfo)
	require.Equal(t, "r", info.Name)
	construct := newDecl.Children[1]
	require.Equal(t, ast.ResourceConstruct, construct.Kind)
	require.Equal(t, "File", construct.Data)
	require.Len(t, construct.Children, 2)
}

func TestParseReferenceTypeName(t *testing.T) {
	unit, err := Parse("t.reso", `fn f(p: &i32) -> unit { return; }`)
	require.NoError(t, err)
	param := unit.Root.Children[0].Children[0].Children[0]
	typeName := param.Children[0]
	require.Equal(t, "&", typeName.Data)
	require.Equal(t, "i32", typeName.Children[0].Data)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("t.reso", `fn f( -> i32 { return 1; }`)
	require.Error(t, err)
}
