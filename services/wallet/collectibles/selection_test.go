package collectibles

import (
	"testing"

	"github.com/stretchr/testify/require"

	walletCommon "github.com/status-im/nftstory/services/wallet/common"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

func TestSelection_ToggleTwiceRestoresState(t *testing.T) {
	nfts := makeNFTs(walletCommon.ChainKeyEthereum, 0, 3)
	selection := NewSelection()
	selection.SetAll(nfts[:2])

	before := selection.Items()

	require.True(t, selection.Toggle(nfts[2]))
	require.True(t, selection.Contains(nfts[2].ID))
	require.Equal(t, 3, selection.Len())

	require.False(t, selection.Toggle(nfts[2]))
	require.False(t, selection.Contains(nfts[2].ID))
	require.Equal(t, before, selection.Items())
	require.Equal(t, 2, selection.Len())
}

func TestSelection_KeepsOrderAndUniqueness(t *testing.T) {
	nfts := makeNFTs(walletCommon.ChainKeyBase, 0, 3)
	selection := NewSelection()

	require.True(t, selection.Add(nfts[2]))
	require.True(t, selection.Add(nfts[0]))
	require.False(t, selection.Add(nfts[2]))
	require.Equal(t, "Token 2", selection.Items()[0].Name)
	require.Equal(t, "Token 0", selection.Items()[1].Name)

	selection.SetAll([]thirdparty.NFT{nfts[1], nfts[0], nfts[1]})
	items := selection.Items()
	require.Len(t, items, 2)
	require.Equal(t, nfts[1].ID, items[0].ID)
	require.Equal(t, nfts[0].ID, items[1].ID)

	require.True(t, selection.Remove(nfts[1]))
	require.False(t, selection.Remove(nfts[1]))
	require.Equal(t, 1, selection.Len())

	selection.Clear()
	require.Equal(t, 0, selection.Len())
	require.Empty(t, selection.Items())
}
