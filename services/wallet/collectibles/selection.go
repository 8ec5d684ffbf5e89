package collectibles

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

// Selection is the ordered set of collectibles picked for story generation, unique by ID.
// Only explicit calls mutate it.
type Selection struct {
	mu    sync.RWMutex
	items *orderedmap.OrderedMap[string, thirdparty.NFT]
}

func NewSelection() *Selection {
	return &Selection{
		items: orderedmap.New[string, thirdparty.NFT](),
	}
}

// Toggle removes nft when it is selected and appends it otherwise.
// It returns whether nft is selected afterwards.
func (s *Selection) Toggle(nft thirdparty.NFT) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, present := s.items.Delete(nft.ID); present {
		return false
	}
	s.items.Set(nft.ID, nft)
	return true
}

// Add appends nft unless an entry with the same ID is already selected.
func (s *Selection) Add(nft thirdparty.NFT) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, present := s.items.Get(nft.ID); present {
		return false
	}
	s.items.Set(nft.ID, nft)
	return true
}

func (s *Selection) Remove(nft thirdparty.NFT) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.items.Delete(nft.ID)
	return present
}

// SetAll replaces the selection. Later entries with an already seen ID are dropped.
func (s *Selection) SetAll(nfts []thirdparty.NFT) {
	items := orderedmap.New[string, thirdparty.NFT]()
	for _, nft := range nfts {
		if _, present := items.Get(nft.ID); present {
			continue
		}
		items.Set(nft.ID, nft)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *Selection) Clear() {
	s.SetAll(nil)
}

func (s *Selection) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, present := s.items.Get(id)
	return present
}

// Items returns the selected collectibles in selection order.
func (s *Selection) Items() []thirdparty.NFT {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ret := make([]thirdparty.NFT, 0, s.items.Len())
	for pair := s.items.Oldest(); pair != nil; pair = pair.Next() {
		ret = append(ret, pair.Value)
	}
	return ret
}

func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Len()
}
