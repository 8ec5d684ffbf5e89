package thirdparty

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	walletCommon "github.com/status-im/nftstory/services/wallet/common"
)

var ErrChainNotSupported = errors.New("chain not supported")

// NFT is the provider-neutral collectible handed to pickers and story generation.
type NFT struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	ImageURL        string                `json:"imageUrl"`
	Collection      string                `json:"collection"`
	Traits          []string              `json:"traits"`
	ChainKey        walletCommon.ChainKey `json:"chain"`
	TokenID         string                `json:"tokenId,omitempty"`
	ContractAddress string                `json:"contractAddress,omitempty"`
	Description     string                `json:"description,omitempty"`
}

// NFTPage is one page of owned collectibles for a single chain.
type NFTPage struct {
	Items          []NFT  `json:"items"`
	PreviousCursor string `json:"previousCursor,omitempty"`
	NextCursor     string `json:"nextCursor,omitempty"`
	HasMore        bool   `json:"hasMore"`
}

// EmptyPage is the page of a chain that has nothing left to fetch.
func EmptyPage() *NFTPage {
	return &NFTPage{Items: []NFT{}}
}

type CollectibleProvider interface {
	ID() string
	IsChainSupported(chain walletCommon.ChainKey) bool
}

// OwnedCollectiblesProvider lists the collectibles held by an account on one chain.
type OwnedCollectiblesProvider interface {
	CollectibleProvider
	FetchOwnedPage(ctx context.Context, owner common.Address, chain walletCommon.ChainKey, includeSpam bool, pageSize int, cursor string) (*NFTPage, error)
	FetchAllOwned(ctx context.Context, owner common.Address, chain walletCommon.ChainKey, includeSpam bool) ([]NFT, error)
}
