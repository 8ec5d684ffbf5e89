package common

import (
	"strconv"
	"time"
)

type ChainID uint64

const (
	EthereumMainnet uint64 = 1
	PolygonMainnet  uint64 = 137
	BaseMainnet     uint64 = 8453
)

func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ChainKey is the canonical network identifier used to pick an indexing endpoint.
type ChainKey string

const (
	ChainKeyEthereum ChainKey = "ethereum"
	ChainKeyPolygon  ChainKey = "polygon"
	ChainKeyBase     ChainKey = "base"
)

func (k ChainKey) String() string {
	return string(k)
}

var chainKeyToID = map[ChainKey]ChainID{
	ChainKeyEthereum: ChainID(EthereumMainnet),
	ChainKeyPolygon:  ChainID(PolygonMainnet),
	ChainKeyBase:     ChainID(BaseMainnet),
}

// AllChainKeys returns the supported networks in display order.
func AllChainKeys() []ChainKey {
	return []ChainKey{ChainKeyEthereum, ChainKeyPolygon, ChainKeyBase}
}

// ProviderRequestTimeout bounds a single call to an indexing provider.
const ProviderRequestTimeout = 30 * time.Second
