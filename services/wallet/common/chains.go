package common

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	statuserrors "github.com/status-im/nftstory/errors"
)

// ChainID returns the numeric chain ID of the network.
func (k ChainKey) ChainID() ChainID {
	return chainKeyToID[k]
}

// IsSupported reports whether k is one of the known networks.
func (k ChainKey) IsSupported() bool {
	_, ok := chainKeyToID[k]
	return ok
}

// ChainKeyFromChainID maps a numeric chain ID to its key. Unknown IDs fall back to ethereum.
func ChainKeyFromChainID(chainID ChainID) ChainKey {
	for key, id := range chainKeyToID {
		if id == chainID {
			return key
		}
	}
	return ChainKeyEthereum
}

// ChainKeyFromHex maps an injected-provider eth_chainId reply ("0x89") to a chain key.
// Anything unknown or unparseable maps to ethereum.
func ChainKeyFromHex(chainIDHex string) ChainKey {
	id, err := hexutil.DecodeUint64(strings.ToLower(strings.TrimSpace(chainIDHex)))
	if err != nil {
		return ChainKeyEthereum
	}
	return ChainKeyFromChainID(ChainID(id))
}

// ParseChainKey accepts a chain key ("base"), a provider network name ("base-mainnet")
// or a hex chain ID ("0x2105").
func ParseChainKey(s string) (ChainKey, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(normalized, "0x") {
		if _, err := hexutil.DecodeUint64(normalized); err != nil {
			return "", fmt.Errorf("invalid chain id %q: %w", s, err)
		}
		return ChainKeyFromHex(normalized), nil
	}
	switch normalized {
	case "eth", "eth-mainnet", "mainnet":
		return ChainKeyEthereum, nil
	case "matic", "polygon-mainnet":
		return ChainKeyPolygon, nil
	case "base-mainnet":
		return ChainKeyBase, nil
	}
	key := ChainKey(normalized)
	if !key.IsSupported() {
		return "", fmt.Errorf("unsupported chain %q", s)
	}
	return key, nil
}

// ResolveWalletAccount turns what a wallet connector reports into the owner address
// and the chain key the collectibles pipeline works with.
func ResolveWalletAccount(address string, chainIDHex string) (common.Address, ChainKey, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, "", &statuserrors.ValidationError{Field: "address", Reason: fmt.Sprintf("%q is not a hex address", address)}
	}
	return common.HexToAddress(address), ChainKeyFromHex(chainIDHex), nil
}
