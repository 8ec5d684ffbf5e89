package collectibles

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/status-im/nftstory/circuitbreaker"
	statuserrors "github.com/status-im/nftstory/errors"
	"github.com/status-im/nftstory/logutils"
	"github.com/status-im/nftstory/services/wallet/async"
	walletCommon "github.com/status-im/nftstory/services/wallet/common"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

const (
	MaxPageSize = 100

	circuitOpenDetail = "temporarily unavailable, retry later"
)

var ErrUnexpectedResult = errors.New("unexpected provider result")

// ContinuationState maps each chain to the provider cursor of its next page.
// An empty state means nothing was fetched yet. Once resuming, a chain with an
// empty or missing cursor has no further pages.
type ContinuationState map[walletCommon.ChainKey]string

func (s ContinuationState) IsFirstPage() bool {
	return len(s) == 0
}

func (s ContinuationState) Clone() ContinuationState {
	if s == nil {
		return ContinuationState{}
	}
	return maps.Clone(s)
}

type PageRequest struct {
	Owner       common.Address
	Chains      []walletCommon.ChainKey
	IncludeSpam bool
	PageSize    int
	Cursors     ContinuationState
}

func validateOwnerAndChains(owner common.Address, chains []walletCommon.ChainKey) error {
	if owner == (common.Address{}) {
		return &statuserrors.ValidationError{Field: "owner", Reason: "is empty"}
	}
	if len(chains) == 0 {
		return &statuserrors.ValidationError{Field: "chains", Reason: "at least one chain must be enabled"}
	}
	seen := mapset.NewThreadUnsafeSet()
	for _, chain := range chains {
		if !chain.IsSupported() {
			return &statuserrors.ValidationError{Field: "chains", Reason: fmt.Sprintf("%q is not supported", chain)}
		}
		if !seen.Add(chain) {
			return &statuserrors.ValidationError{Field: "chains", Reason: fmt.Sprintf("%q is listed twice", chain)}
		}
	}
	return nil
}

func (r *PageRequest) Validate() error {
	if err := validateOwnerAndChains(r.Owner, r.Chains); err != nil {
		return err
	}
	if r.PageSize < 1 || r.PageSize > MaxPageSize {
		return &statuserrors.ValidationError{Field: "pageSize", Reason: fmt.Sprintf("must be between 1 and %d", MaxPageSize)}
	}
	return nil
}

// Page is one aggregated page across all requested chains.
type Page struct {
	Items   []thirdparty.NFT  `json:"items"`
	Cursors ContinuationState `json:"cursors"`
	HasMore bool              `json:"hasMore"`
}

// PageFetcher is the part of Manager a picker session depends on.
type PageFetcher interface {
	FetchPage(ctx context.Context, req PageRequest) (*Page, error)
}

type Manager struct {
	provider       thirdparty.OwnedCollectiblesProvider
	circuitBreaker *circuitbreaker.CircuitBreaker
	logger         *zap.Logger
}

func NewManager(provider thirdparty.OwnedCollectiblesProvider, circuitBreaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *Manager {
	if circuitBreaker == nil {
		circuitBreaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig())
	}
	if logger == nil {
		logger = logutils.ZapLogger()
	}
	return &Manager{
		provider:       provider,
		circuitBreaker: circuitBreaker,
		logger:         logger.Named("collectibles"),
	}
}

func getCircuitName(provider thirdparty.CollectibleProvider, chain walletCommon.ChainKey) string {
	return circuitbreaker.CircuitName(provider.ID(), chain.String())
}

func (o *Manager) checkChainsSupported(chains []walletCommon.ChainKey) error {
	for _, chain := range chains {
		if !o.provider.IsChainSupported(chain) {
			return &statuserrors.ValidationError{
				Field:  "chains",
				Reason: fmt.Sprintf("%s: %s by %s", thirdparty.ErrChainNotSupported, chain, o.provider.ID()),
			}
		}
	}
	return nil
}

// execute runs fn inside the circuit of the provider on chain.
func (o *Manager) execute(ctx context.Context, chain walletCommon.ChainKey, fn func() (any, error)) (any, error) {
	cmd := circuitbreaker.NewCommand(ctx, []*circuitbreaker.Functor{
		circuitbreaker.NewFunctor(func() ([]any, error) {
			res, err := fn()
			if err != nil {
				return nil, err
			}
			return []any{res}, nil
		}, getCircuitName(o.provider, chain)),
	})

	result := o.circuitBreaker.Execute(cmd)
	if err := result.Error(); err != nil {
		if circuitbreaker.IsCircuitError(err) {
			o.logger.Warn("provider circuit is open",
				zap.String("provider", o.provider.ID()),
				zap.Stringer("chain", chain))
			return nil, &statuserrors.NetworkError{
				Provider: o.provider.ID(),
				Chain:    chain.String(),
				Err:      fmt.Errorf("%s: %w", circuitOpenDetail, err),
			}
		}
		return nil, err
	}
	if len(result.Result()) != 1 {
		return nil, ErrUnexpectedResult
	}
	return result.Result()[0], nil
}

// FetchPage fetches the next page of every requested chain concurrently and merges
// them in chain order. Any chain failure fails the whole page.
func (o *Manager) FetchPage(ctx context.Context, req PageRequest) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := o.checkChainsSupported(req.Chains); err != nil {
		return nil, err
	}

	resuming := !req.Cursors.IsFirstPage()
	pages := make([]*thirdparty.NFTPage, len(req.Chains))

	group := async.NewAtomicGroup(ctx)
	for i, chain := range req.Chains {
		i, chain := i, chain
		cursor := req.Cursors[chain]
		if resuming && cursor == "" {
			pages[i] = thirdparty.EmptyPage()
			continue
		}

		group.Add(func(ctx context.Context) error {
			res, err := o.execute(ctx, chain, func() (any, error) {
				return o.provider.FetchOwnedPage(ctx, req.Owner, chain, req.IncludeSpam, req.PageSize, cursor)
			})
			if err != nil {
				return err
			}
			page, ok := res.(*thirdparty.NFTPage)
			if !ok || page == nil {
				return ErrUnexpectedResult
			}
			pages[i] = page
			return nil
		})
	}
	group.Wait()

	if err := group.Error(); err != nil {
		pageFetchCounter.WithLabelValues(pageStatusError).Inc()
		o.logger.Warn("collectibles page fetch failed",
			zap.Stringer("owner", req.Owner),
			zap.Bool("resuming", resuming),
			zap.Error(err))
		return nil, err
	}

	ret := &Page{
		Items:   make([]thirdparty.NFT, 0),
		Cursors: make(ContinuationState, len(req.Chains)),
	}
	for i, chain := range req.Chains {
		page := pages[i]
		ret.Items = append(ret.Items, page.Items...)
		ret.Cursors[chain] = page.NextCursor
		ret.HasMore = ret.HasMore || page.HasMore
	}

	pageFetchCounter.WithLabelValues(pageStatusOK).Inc()
	o.logger.Debug("collectibles page fetched",
		zap.Stringer("owner", req.Owner),
		zap.Int("chains", len(req.Chains)),
		zap.Int("items", len(ret.Items)),
		zap.Bool("hasMore", ret.HasMore))

	return ret, nil
}

// FetchAll fetches every owned collectible, up to the provider page budget, on all chains.
// A collectible whose ID is already listed is dropped.
func (o *Manager) FetchAll(ctx context.Context, owner common.Address, chains []walletCommon.ChainKey, includeSpam bool) ([]thirdparty.NFT, error) {
	if err := validateOwnerAndChains(owner, chains); err != nil {
		return nil, err
	}
	if err := o.checkChainsSupported(chains); err != nil {
		return nil, err
	}

	results := make([][]thirdparty.NFT, len(chains))
	group := async.NewAtomicGroup(ctx)
	for i, chain := range chains {
		i, chain := i, chain
		group.Add(func(ctx context.Context) error {
			res, err := o.execute(ctx, chain, func() (any, error) {
				return o.provider.FetchAllOwned(ctx, owner, chain, includeSpam)
			})
			if err != nil {
				return err
			}
			nfts, ok := res.([]thirdparty.NFT)
			if !ok {
				return ErrUnexpectedResult
			}
			results[i] = nfts
			return nil
		})
	}
	group.Wait()

	if err := group.Error(); err != nil {
		o.logger.Warn("collectibles bulk fetch failed", zap.Stringer("owner", owner), zap.Error(err))
		return nil, err
	}

	ret := make([]thirdparty.NFT, 0)
	seen := make(map[string]struct{})
	for _, nfts := range results {
		for _, nft := range nfts {
			if _, ok := seen[nft.ID]; ok {
				duplicateIDsCounter.Inc()
				o.logger.Warn("dropping collectible with an ID already listed", zap.String("id", nft.ID))
				continue
			}
			seen[nft.ID] = struct{}{}
			ret = append(ret, nft)
		}
	}
	o.logger.Debug("collectibles bulk fetch done", zap.Stringer("owner", owner), zap.Int("items", len(ret)))
	return ret, nil
}
