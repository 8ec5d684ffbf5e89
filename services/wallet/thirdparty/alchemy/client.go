package alchemy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	statuserrors "github.com/status-im/nftstory/errors"
	"github.com/status-im/nftstory/logutils"
	walletCommon "github.com/status-im/nftstory/services/wallet/common"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

const AlchemyID = "alchemy"

const (
	APIKeySetting     = "ALCHEMY_API_KEY"
	ownedNFTsEndpoint = "getNFTsForOwner"
	spamExcludeFilter = "SPAM"
	MaxPageSize       = 100
	bulkPageSize      = 100
	maxBulkPages      = 10
	maxDetailLength   = 200
)

func getNetwork(chain walletCommon.ChainKey) (string, error) {
	switch chain {
	case walletCommon.ChainKeyEthereum:
		return "eth-mainnet", nil
	case walletCommon.ChainKeyPolygon:
		return "polygon-mainnet", nil
	case walletCommon.ChainKeyBase:
		return "base-mainnet", nil
	}

	return "", thirdparty.ErrChainNotSupported
}

func getBaseURL(chain walletCommon.ChainKey) (string, error) {
	network, err := getNetwork(chain)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.g.alchemy.com", network), nil
}

func getNFTBaseURL(chain walletCommon.ChainKey, apiKey string) (string, error) {
	baseURL, err := getBaseURL(chain)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/nft/v3/%s", baseURL, apiKey), nil
}

type urlGetter func(chain walletCommon.ChainKey, apiKey string) (string, error)

type Client struct {
	client     *thirdparty.HTTPClient
	apiKey     string
	normalizer *Normalizer
	urlGetter  urlGetter
	logger     *zap.Logger
}

type ClientOption func(*Client)

// WithURLGetter replaces the endpoint construction, e.g. to point at a proxy.
func WithURLGetter(getter func(chain walletCommon.ChainKey, apiKey string) (string, error)) ClientOption {
	return func(c *Client) {
		c.urlGetter = getter
	}
}

func WithNormalizer(n *Normalizer) ClientOption {
	return func(c *Client) {
		c.normalizer = n
	}
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(apiKey string, httpClient *thirdparty.HTTPClient, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = thirdparty.NewHTTPClient()
	}
	c := &Client{
		client:     httpClient,
		apiKey:     apiKey,
		normalizer: NewNormalizer(),
		urlGetter:  getNFTBaseURL,
		logger:     logutils.ZapLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("provider", AlchemyID))
	return c
}

func (o *Client) ID() string {
	return AlchemyID
}

func (o *Client) IsChainSupported(chain walletCommon.ChainKey) bool {
	_, err := getBaseURL(chain)
	return err == nil
}

type rawPage struct {
	records []RawRecord
	pageKey string
}

func (o *Client) fetchRawPage(ctx context.Context, owner common.Address, chain walletCommon.ChainKey, includeSpam bool, pageSize int, cursor string) (*rawPage, error) {
	if o.apiKey == "" {
		providerRequestsCounter.WithLabelValues(AlchemyID, chain.String(), requestStatusConfiguration).Inc()
		return nil, statuserrors.NewMissingSettingError(APIKeySetting)
	}

	baseURL, err := o.urlGetter(chain, o.apiKey)
	if err != nil {
		return nil, err
	}

	queryParams := url.Values{
		"owner":        {owner.String()},
		"withMetadata": {"true"},
		"pageSize":     {strconv.Itoa(pageSize)},
	}
	if len(cursor) > 0 {
		queryParams["pageKey"] = []string{cursor}
	}
	if !includeSpam {
		queryParams["excludeFilters"] = []string{spamExcludeFilter}
	}

	logger := o.logger.With(
		zap.Stringer("chain", chain),
		zap.Stringer("owner", owner),
		zap.Int("pageSize", pageSize),
		zap.String("cursor", cursor),
	)
	logger.Debug("fetching owned collectibles page")

	body, err := o.client.DoGetRequest(ctx, fmt.Sprintf("%s/%s", baseURL, ownedNFTsEndpoint), queryParams, nil)
	if err != nil {
		var statusErr *thirdparty.HTTPStatusError
		if errors.As(err, &statusErr) {
			providerRequestsCounter.WithLabelValues(AlchemyID, chain.String(), "http_"+strconv.Itoa(statusErr.StatusCode)).Inc()
			logger.Warn("provider returned an error status", zap.Int("status", statusErr.StatusCode))
			return nil, &statuserrors.ProviderError{
				Provider:   AlchemyID,
				Chain:      chain.String(),
				StatusCode: statusErr.StatusCode,
				Detail:     statusErr.Body,
			}
		}
		providerRequestsCounter.WithLabelValues(AlchemyID, chain.String(), requestStatusNetworkError).Inc()
		logger.Warn("provider request failed", zap.Error(err))
		return nil, &statuserrors.NetworkError{Provider: AlchemyID, Chain: chain.String(), Err: err}
	}

	// if Json is not returned there must be an error
	if !json.Valid(body) {
		providerRequestsCounter.WithLabelValues(AlchemyID, chain.String(), requestStatusInvalidJSON).Inc()
		return nil, &statuserrors.ProviderError{
			Provider:   AlchemyID,
			Chain:      chain.String(),
			StatusCode: 200,
			Detail:     fmt.Sprintf("invalid json: %s", thirdparty.Truncate(string(body), maxDetailLength)),
		}
	}

	container := OwnedNFTList{}
	if err := json.Unmarshal(body, &container); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			providerRequestsCounter.WithLabelValues(AlchemyID, chain.String(), requestStatusInvalidJSON).Inc()
			return nil, &statuserrors.ProviderError{
				Provider:   AlchemyID,
				Chain:      chain.String(),
				StatusCode: 200,
				Detail:     err.Error(),
			}
		}
	}

	page := &rawPage{
		records: container.records(),
		pageKey: container.PageKey.Value,
	}
	providerRequestsCounter.WithLabelValues(AlchemyID, chain.String(), requestStatusOK).Inc()
	logger.Debug("owned collectibles page fetched",
		zap.Int("records", len(page.records)),
		zap.Bool("hasMore", page.pageKey != ""))

	return page, nil
}

// filterSpam drops the records the classifier flags, unless spam was explicitly requested.
func (o *Client) filterSpam(chain walletCommon.ChainKey, records []RawRecord, includeSpam bool) []RawRecord {
	if includeSpam {
		return records
	}
	kept := make([]RawRecord, 0, len(records))
	for _, record := range records {
		verdict := Classify(record)
		if verdict.IsSpam {
			spamFilteredCounter.WithLabelValues(chain.String(), string(verdict.Reason)).Inc()
			continue
		}
		kept = append(kept, record)
	}
	if dropped := len(records) - len(kept); dropped > 0 {
		o.logger.Debug("spam records filtered", zap.Stringer("chain", chain), zap.Int("dropped", dropped))
	}
	return kept
}

// FetchOwnedPage fetches a single page of the collectibles owner holds on chain.
// An empty cursor requests the first page.
func (o *Client) FetchOwnedPage(ctx context.Context, owner common.Address, chain walletCommon.ChainKey, includeSpam bool, pageSize int, cursor string) (*thirdparty.NFTPage, error) {
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, &statuserrors.ValidationError{Field: "pageSize", Reason: fmt.Sprintf("must be between 1 and %d", MaxPageSize)}
	}

	page, err := o.fetchRawPage(ctx, owner, chain, includeSpam, pageSize, cursor)
	if err != nil {
		return nil, err
	}

	records := o.filterSpam(chain, page.records, includeSpam)
	return &thirdparty.NFTPage{
		Items:          o.normalizer.NormalizePage(chain, records),
		PreviousCursor: cursor,
		NextCursor:     page.pageKey,
		HasMore:        page.pageKey != "",
	}, nil
}

// FetchAllOwned walks the owner's pages on chain, up to a fixed page budget.
func (o *Client) FetchAllOwned(ctx context.Context, owner common.Address, chain walletCommon.ChainKey, includeSpam bool) ([]thirdparty.NFT, error) {
	nfts := make([]thirdparty.NFT, 0)
	cursor := ""

	for i := 0; i < maxBulkPages; i++ {
		page, err := o.fetchRawPage(ctx, owner, chain, includeSpam, bulkPageSize, cursor)
		if err != nil {
			return nil, err
		}

		records := o.filterSpam(chain, page.records, includeSpam)
		nfts = append(nfts, o.normalizer.NormalizePage(chain, records)...)

		if page.pageKey == "" {
			return nfts, nil
		}
		cursor = page.pageKey
	}

	o.logger.Info("bulk fetch stopped at page budget",
		zap.Stringer("chain", chain),
		zap.Int("pages", maxBulkPages),
		zap.Int("items", len(nfts)))
	return nfts, nil
}
