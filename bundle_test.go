package symconv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBundleSymbolsByKind(t *testing.T) {
	b := &Bundle{Symbols: []Symbol{
		{Name: []byte("foo"), Address: 0x10, Kind: SymbolFunction},
		{Name: []byte("bar"), Address: 0x20, Kind: SymbolGlobal},
	}}

	require.Equal(t, map[string]uint64{"foo": 0x10}, b.FunctionSymbols())
	require.Equal(t, map[string]uint64{"bar": 0x20}, b.GlobalSymbols())
}
