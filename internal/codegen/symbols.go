package codegen

import (
	"reso/internal/env"
	"reso/internal/types"
)

func newAliasSymbol(name string, underlying *types.Type) *env.Symbol {
	return &env.Symbol{Name: name, Kind: env.AliasSymbol, AliasOf: underlying}
}
