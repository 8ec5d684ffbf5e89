package story

import (
	"context"
	"hash/fnv"
	"strings"
	"time"
	"unicode"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

const (
	DefaultNameCacheTTL = 24 * time.Hour
	minNameLength       = 3
)

var genericNameFragments = []string{
	"nft",
	"token",
	"item",
	"character",
	"avatar",
	"collectible",
	"digital",
	"art",
	"piece",
	"work",
	"creation",
	"asset",
	"unknown",
	"unnamed",
	"untitled",
	"default",
	"placeholder",
}

var fallbackNames = []string{"Aria", "Kai", "Luna", "Phoenix", "Sage", "River", "Storm", "Echo", "Nova", "Zara"}

// IsUniqueName reports whether name can be used as a character name as is:
// no digits, no generic words, at least 3 characters and not just the collection name.
func IsUniqueName(name string, collection string) bool {
	clean := strings.ToLower(strings.TrimSpace(name))

	if strings.IndexFunc(clean, unicode.IsDigit) >= 0 {
		return false
	}
	for _, generic := range genericNameFragments {
		if strings.Contains(clean, generic) {
			return false
		}
	}
	if len([]rune(clean)) < minNameLength {
		return false
	}
	return clean != strings.ToLower(strings.TrimSpace(collection))
}

// FallbackName picks a name from a fixed list. The same ID always gets the same name.
func FallbackName(id string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return fallbackNames[h.Sum32()%uint32(len(fallbackNames))]
}

// characterNamer resolves display names, asking the Namer only for collectibles
// without a usable name. Generated names are cached per collectible ID.
type characterNamer struct {
	namer  Namer
	cache  *ttlcache.Cache[string, string]
	logger *zap.Logger
}

func newCharacterNamer(namer Namer, ttl time.Duration, logger *zap.Logger) *characterNamer {
	if ttl <= 0 {
		ttl = DefaultNameCacheTTL
	}
	cache := ttlcache.New[string, string](ttlcache.WithTTL[string, string](ttl))
	go cache.Start()
	return &characterNamer{
		namer:  namer,
		cache:  cache,
		logger: logger,
	}
}

func (n *characterNamer) stop() {
	n.cache.Stop()
}

func (n *characterNamer) name(ctx context.Context, nft thirdparty.NFT) string {
	if IsUniqueName(nft.Name, nft.Collection) {
		return nft.Name
	}
	if item := n.cache.Get(nft.ID); item != nil {
		return item.Value()
	}

	name := ""
	if n.namer != nil {
		generated, err := n.namer.GenerateName(ctx, nft.Collection, nft.Traits)
		if err != nil {
			n.logger.Warn("character name generation failed", zap.String("id", nft.ID), zap.Error(err))
		} else if generated = strings.TrimSpace(generated); len([]rune(generated)) >= minNameLength {
			name = generated
		}
	}
	if name == "" {
		// fallback names are not cached
		return FallbackName(nft.ID)
	}

	n.cache.Set(nft.ID, name, ttlcache.DefaultTTL)
	return name
}

func (n *characterNamer) characters(ctx context.Context, nfts []thirdparty.NFT) []Character {
	characters := make([]Character, 0, len(nfts))
	for _, nft := range nfts {
		characters = append(characters, Character{
			DisplayName: n.name(ctx, nft),
			Collection:  nft.Collection,
			Traits:      append([]string{}, nft.Traits...),
			Description: nft.Description,
		})
	}
	return characters
}

// plainCharacters keeps the collectible names unchanged.
func plainCharacters(nfts []thirdparty.NFT) []Character {
	characters := make([]Character, 0, len(nfts))
	for _, nft := range nfts {
		characters = append(characters, Character{
			DisplayName: nft.Name,
			Collection:  nft.Collection,
			Traits:      append([]string{}, nft.Traits...),
			Description: nft.Description,
		})
	}
	return characters
}
