package collectibles

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	statusCommon "github.com/status-im/nftstory/common"
	"github.com/status-im/nftstory/logutils"
	walletCommon "github.com/status-im/nftstory/services/wallet/common"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

var (
	ErrSessionNotStarted = errors.New("picker session not started")
	ErrLoadInProgress    = errors.New("a page load is already in progress")
	ErrStaleSession      = errors.New("picker session was reset while the page was loading")
)

const DefaultPageSize = 20

// Picker owns the displayed list and the continuation state of one open collectible picker.
// Results of loads started before the last Reset are discarded, never applied.
type Picker struct {
	fetcher  PageFetcher
	pageSize int
	logger   *zap.Logger

	mu          sync.Mutex
	sessionID   string
	generation  uint64
	owner       common.Address
	chains      []walletCommon.ChainKey
	includeSpam bool
	cursors     ContinuationState
	items       []thirdparty.NFT
	ids         map[string]struct{}
	hasMore     bool
	loaded      bool
	loading     bool
}

func NewPicker(fetcher PageFetcher, pageSize int, logger *zap.Logger) *Picker {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = logutils.ZapLogger()
	}
	return &Picker{
		fetcher:  fetcher,
		pageSize: pageSize,
		logger:   logger.Named("picker"),
		cursors:  ContinuationState{},
		ids:      make(map[string]struct{}),
	}
}

// Reset starts a new session. It must be called whenever the owner, the enabled
// chains or the spam filter change, and when the picker is reopened.
func (p *Picker) Reset(owner common.Address, chains []walletCommon.ChainKey, includeSpam bool) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	p.sessionID = uuid.NewString()
	p.owner = owner
	p.chains = slices.Clone(chains)
	p.includeSpam = includeSpam
	p.clearLocked()
	p.loading = false

	p.logger.Debug("picker session reset",
		zap.String("session", p.sessionID),
		zap.Stringer("owner", owner),
		zap.Bool("includeSpam", includeSpam))

	return p.sessionID
}

func (p *Picker) clearLocked() {
	p.cursors = ContinuationState{}
	p.items = nil
	p.ids = make(map[string]struct{})
	p.hasMore = false
	p.loaded = false
}

// LoadInitial (re)loads the first page of every chain and replaces the displayed list.
func (p *Picker) LoadInitial(ctx context.Context) ([]thirdparty.NFT, error) {
	return p.load(ctx, true)
}

// LoadMore appends the next page. It returns nothing once every chain is exhausted.
func (p *Picker) LoadMore(ctx context.Context) ([]thirdparty.NFT, error) {
	return p.load(ctx, false)
}

func (p *Picker) load(ctx context.Context, first bool) ([]thirdparty.NFT, error) {
	p.mu.Lock()
	if p.sessionID == "" {
		p.mu.Unlock()
		return nil, ErrSessionNotStarted
	}
	if p.loading {
		p.mu.Unlock()
		return nil, ErrLoadInProgress
	}
	if !p.loaded {
		first = true
	}
	if !first && !p.hasMore {
		p.mu.Unlock()
		return []thirdparty.NFT{}, nil
	}

	generation := p.generation
	sessionID := p.sessionID
	req := PageRequest{
		Owner:       p.owner,
		Chains:      slices.Clone(p.chains),
		IncludeSpam: p.includeSpam,
		PageSize:    p.pageSize,
		Cursors:     ContinuationState{},
	}
	if !first {
		req.Cursors = p.cursors.Clone()
	}
	p.loading = true
	p.mu.Unlock()

	page, err := p.fetcher.FetchPage(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation {
		pageFetchCounter.WithLabelValues(pageStatusStale).Inc()
		p.logger.Debug("discarding page of a previous session", zap.String("session", sessionID))
		return nil, ErrStaleSession
	}
	p.loading = false

	if err != nil {
		if first {
			// a failed refresh leaves an empty list
			p.clearLocked()
		}
		return nil, err
	}

	if first {
		p.items = nil
		p.ids = make(map[string]struct{})
	}
	added := p.appendLocked(page.Items)
	p.cursors = page.Cursors.Clone()
	p.hasMore = page.HasMore
	p.loaded = true

	return added, nil
}

func (p *Picker) appendLocked(nfts []thirdparty.NFT) []thirdparty.NFT {
	added := make([]thirdparty.NFT, 0, len(nfts))
	for _, nft := range nfts {
		if _, ok := p.ids[nft.ID]; ok {
			duplicateIDsCounter.Inc()
			p.logger.Warn("dropping collectible with an ID already listed",
				zap.String("session", p.sessionID),
				zap.String("id", nft.ID))
			continue
		}
		p.ids[nft.ID] = struct{}{}
		p.items = append(p.items, nft)
		added = append(added, nft)
	}
	return added
}

func (p *Picker) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}

func (p *Picker) Items() []thirdparty.NFT {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]thirdparty.NFT{}, p.items...)
}

func (p *Picker) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Picker) Cursors() ContinuationState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursors.Clone()
}

// Search filters the displayed list by a case-insensitive match on name or collection.
func (p *Picker) Search(term string) []thirdparty.NFT {
	p.mu.Lock()
	defer p.mu.Unlock()

	ret := make([]thirdparty.NFT, 0, len(p.items))
	for _, nft := range p.items {
		if MatchesSearch(nft, term) {
			ret = append(ret, nft)
		}
	}
	return ret
}

// MatchesSearch reports whether term is empty or found in the name or collection, ignoring case.
func MatchesSearch(nft thirdparty.NFT, term string) bool {
	return term == "" || statusCommon.ContainsFold(nft.Name, term) || statusCommon.ContainsFold(nft.Collection, term)
}
