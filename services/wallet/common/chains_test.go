package common

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	statuserrors "github.com/status-im/nftstory/errors"
)

func TestChainKeyFromHex(t *testing.T) {
	require.Equal(t, ChainKeyPolygon, ChainKeyFromHex("0x89"))
	require.Equal(t, ChainKeyBase, ChainKeyFromHex("0x2105"))
	require.Equal(t, ChainKeyEthereum, ChainKeyFromHex("0x1"))
	require.Equal(t, ChainKeyEthereum, ChainKeyFromHex("0xa"))
	require.Equal(t, ChainKeyEthereum, ChainKeyFromHex(""))
	require.Equal(t, ChainKeyEthereum, ChainKeyFromHex("not-hex"))
}

func TestParseChainKey(t *testing.T) {
	cases := map[string]ChainKey{
		"ethereum":        ChainKeyEthereum,
		"eth-mainnet":     ChainKeyEthereum,
		"Polygon":         ChainKeyPolygon,
		"polygon-mainnet": ChainKeyPolygon,
		"base":            ChainKeyBase,
		"0x2105":          ChainKeyBase,
	}
	for input, expected := range cases {
		key, err := ParseChainKey(input)
		require.NoError(t, err, input)
		require.Equal(t, expected, key, input)
	}

	_, err := ParseChainKey("solana")
	require.Error(t, err)
	_, err = ParseChainKey("0xzz")
	require.Error(t, err)
}

func TestChainIDs(t *testing.T) {
	require.Equal(t, ChainID(BaseMainnet), ChainKeyBase.ChainID())
	require.Equal(t, "137", ChainKeyPolygon.ChainID().String())
	require.Equal(t, ChainKeyPolygon, ChainKeyFromChainID(ChainID(PolygonMainnet)))
	require.False(t, ChainKey("optimism").IsSupported())
}

func TestResolveWalletAccount(t *testing.T) {
	owner, chain, err := ResolveWalletAccount("0x3f6B1585AfeFc56433C8d28AA89dbc77af59278f", "0x89")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x3f6B1585AfeFc56433C8d28AA89dbc77af59278f"), owner)
	require.Equal(t, ChainKeyPolygon, chain)

	_, _, err = ResolveWalletAccount("0xABC", "0x1")
	require.True(t, statuserrors.IsValidationError(err))
}
