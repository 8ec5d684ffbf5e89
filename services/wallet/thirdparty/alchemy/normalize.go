package alchemy

import (
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/ipfs/go-cid"

	walletCommon "github.com/status-im/nftstory/services/wallet/common"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

const (
	DefaultIPFSGateway = "https://ipfs.io/ipfs/"
	UnknownCollection  = "Unknown Collection"

	ipfsScheme     = "ipfs://"
	ipfsPathPrefix = "ipfs/"
)

// Normalizer turns provider records into canonical NFT entities. It holds no state
// besides the gateway, so one instance can be shared between goroutines.
type Normalizer struct {
	IPFSGateway string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{IPFSGateway: DefaultIPFSGateway}
}

func (n *Normalizer) gateway() string {
	if n == nil || n.IPFSGateway == "" {
		return DefaultIPFSGateway
	}
	if !strings.HasSuffix(n.IPFSGateway, "/") {
		return n.IPFSGateway + "/"
	}
	return n.IPFSGateway
}

// BuildID formats the entity identifier. ordinal distinguishes repeated
// (chain, contract, tokenId) triples within one provider page.
func BuildID(chain walletCommon.ChainKey, contractAddress string, tokenID string, ordinal int) string {
	return fmt.Sprintf("%s-%s-%s-%d", chain, contractAddress, tokenID, ordinal)
}

func ordinalKey(chain walletCommon.ChainKey, record RawRecord) string {
	return string(chain) + "|" + record.ContractAddress + "|" + record.TokenID
}

// Normalize is pure: identical input always yields an identical entity.
func (n *Normalizer) Normalize(chain walletCommon.ChainKey, record RawRecord, ordinal int) thirdparty.NFT {
	collection := CollectionName(record)
	return thirdparty.NFT{
		ID:              BuildID(chain, record.ContractAddress, record.TokenID, ordinal),
		Name:            DisplayName(record, collection),
		ImageURL:        n.ResolveImage(record),
		Collection:      collection,
		Traits:          ResolveTraits(record.Attributes),
		ChainKey:        chain,
		TokenID:         record.TokenID,
		ContractAddress: record.ContractAddress,
		Description:     record.Description,
	}
}

// NormalizePage normalizes records in order, assigning occurrence ordinals per page.
func (n *Normalizer) NormalizePage(chain walletCommon.ChainKey, records []RawRecord) []thirdparty.NFT {
	seen := make(map[string]int, len(records))
	nfts := make([]thirdparty.NFT, 0, len(records))
	for _, record := range records {
		key := ordinalKey(chain, record)
		nfts = append(nfts, n.Normalize(chain, record, seen[key]))
		seen[key]++
	}
	return nfts
}

// CollectionName prefers the curated collection name over the contract name.
func CollectionName(record RawRecord) string {
	return firstNonEmpty(record.CuratedCollectionName, record.ContractName, UnknownCollection)
}

// DisplayName returns the record title, falling back to "<collection> #<N>".
func DisplayName(record RawRecord, collection string) string {
	if record.Title != "" {
		return record.Title
	}
	return fmt.Sprintf("%s #%s", collection, TokenNumber(record.TokenID))
}

// TokenNumber renders 0x-prefixed hex token IDs in decimal. Anything else is
// returned untouched, so decimal IDs are never misread as hex.
func TokenNumber(tokenID string) string {
	if len(tokenID) > 2 && (tokenID[:2] == "0x" || tokenID[:2] == "0X") {
		if value, ok := new(big.Int).SetString(tokenID[2:], 16); ok {
			return value.String()
		}
	}
	return tokenID
}

// ResolveImage returns the first candidate that resolves to an absolute http(s) URL, or "".
func (n *Normalizer) ResolveImage(record RawRecord) string {
	candidates := make([]string, 0, 9)
	candidates = append(candidates, record.ProcessedImages...)
	candidates = append(candidates, record.MediaURLs...)
	candidates = append(candidates, record.MetadataImage, record.TokenURI)

	for _, candidate := range candidates {
		resolved := n.ToHTTP(candidate)
		if isHTTPURL(resolved) {
			return resolved
		}
	}
	return ""
}

// ToHTTP rewrites ipfs:// URIs and bare CIDs to the gateway. Other values are returned trimmed.
func (n *Normalizer) ToHTTP(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ""
	}

	if len(uri) >= len(ipfsScheme) && strings.EqualFold(uri[:len(ipfsScheme)], ipfsScheme) {
		path := strings.TrimLeft(uri[len(ipfsScheme):], "/")
		path = strings.TrimPrefix(path, ipfsPathPrefix)
		if path == "" {
			return ""
		}
		return n.gateway() + path
	}

	if isBareCID(uri) {
		return n.gateway() + uri
	}
	return uri
}

func isBareCID(uri string) bool {
	if strings.Contains(uri, "://") || strings.HasPrefix(uri, "/") || strings.HasPrefix(uri, "data:") {
		return false
	}
	root := uri
	if idx := strings.IndexByte(uri, '/'); idx >= 0 {
		root = uri[:idx]
	}
	_, err := cid.Decode(root)
	return err == nil
}

func isHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResolveTraits formats attributes as "<type>: <value>", skipping entries
// without a trait type or value. Source order is kept.
func ResolveTraits(attributes []Attribute) []string {
	traits := make([]string, 0, len(attributes))
	for _, attr := range attributes {
		if attr.TraitType.Value == "" || !attr.Value.Valid {
			continue
		}
		traits = append(traits, fmt.Sprintf("%s: %s", attr.TraitType.Value, attr.Value.Value))
	}
	return traits
}
