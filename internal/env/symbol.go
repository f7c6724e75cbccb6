// Package env implements the Symbol & Resource Environment: lexically nested
// scopes holding named variables, functions, resources and type aliases.
// Grounded on the teacher's scope-stack pattern (symTab + util.Stack in
// src/ir/llvm/transform.go and src/util/stack.go), generalized from a single
// map[string]llvm.Value per frame into the typed Symbol sum type §3 calls
// for, and de-mutexed since §5 keeps one Walker single-threaded per job.
package env

import "reso/internal/types"

// SymbolKind discriminates the variant of a Symbol.
type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	FunctionSymbol
	ResourceSymbol
	AliasSymbol
)

// Symbol is a named binding in a scope frame.
type Symbol struct {
	Name string
	Kind SymbolKind

	// VariableSymbol fields.
	Type    *types.Type
	Mutable bool
	Storage interface{} // Native storage IR value handle (alloca/global), opaque here.

	// FunctionSymbol fields.
	ParamTypes []*types.Type
	ParamNames []string
	RetType    *types.Type
	FuncHandle interface{} // Native IR function handle.

	// ResourceSymbol fields.
	ResourceType *types.Type
	CtorHandle   interface{}
	DtorHandle   interface{}

	// AliasSymbol fields.
	AliasOf *types.Type
}
