package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/urfave/cli/v2"

	"github.com/status-im/nftstory/circuitbreaker"
	statuserrors "github.com/status-im/nftstory/errors"
	"github.com/status-im/nftstory/params"
	"github.com/status-im/nftstory/services/story"
	"github.com/status-im/nftstory/services/wallet/collectibles"
	walletCommon "github.com/status-im/nftstory/services/wallet/common"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
	"github.com/status-im/nftstory/services/wallet/thirdparty/alchemy"
)

const storyRequestTimeout = 3 * time.Minute

type application struct {
	config  *params.Config
	manager *collectibles.Manager
	story   *story.Service
	logger  *zap.Logger
}

func newApplication(config *params.Config, logger *zap.Logger) *application {
	providerHTTPClient := thirdparty.NewHTTPClient(
		thirdparty.WithTimeout(config.Alchemy.Timeout.Duration()),
		thirdparty.WithRateLimit(config.Alchemy.RequestsPerSecond, 1),
	)
	provider := alchemy.NewClient(config.Alchemy.APIKey, providerHTTPClient, alchemy.WithLogger(logger))
	manager := collectibles.NewManager(provider, circuitbreaker.NewCircuitBreaker(config.CircuitBreaker), logger.Named("collectibles"))

	return &application{
		config:  config,
		manager: manager,
		story:   newStoryService(config.Story, logger.Named("story")),
		logger:  logger,
	}
}

func newStoryService(config params.StoryConfig, logger *zap.Logger) *story.Service {
	httpClient := thirdparty.NewHTTPClient(thirdparty.WithTimeout(storyRequestTimeout))

	var backend interface {
		story.Backend
		story.Namer
	}
	switch config.Backend {
	case params.StoryBackendOpenAI:
		backend = story.NewOpenAIClient(httpClient, config.OpenAI.URL, config.OpenAI.APIKey, config.OpenAI.Model, logger)
	default:
		backend = story.NewOllamaClient(httpClient, config.Ollama.URL, config.Ollama.Model, logger)
	}

	opts := []story.ServiceOption{story.WithLogger(logger)}
	if config.GenerateNames {
		opts = append(opts, story.WithNamer(backend, config.NameCacheTTL.Duration()))
	}
	return story.NewService(backend, opts...)
}

func (a *application) Stop() {
	a.story.Stop()
}

type account struct {
	owner       common.Address
	chains      []walletCommon.ChainKey
	includeSpam bool
	pageSize    int
	maxPages    int
}

// resolveAccount reads the owner and chains from the flags. Explicit chains win over
// the wallet chain ID, and the configured chains are used when neither is given.
func resolveAccount(cCtx *cli.Context, config *params.Config) (*account, error) {
	owner, walletChain, err := walletCommon.ResolveWalletAccount(cCtx.String(OwnerFlag), cCtx.String(ChainIDFlag))
	if err != nil {
		return nil, err
	}

	var chains []walletCommon.ChainKey
	switch {
	case len(cCtx.StringSlice(ChainFlag)) > 0:
		for _, name := range cCtx.StringSlice(ChainFlag) {
			chain, err := walletCommon.ParseChainKey(name)
			if err != nil {
				return nil, &statuserrors.ValidationError{Field: "chain", Reason: err.Error()}
			}
			chains = append(chains, chain)
		}
	case cCtx.IsSet(ChainIDFlag):
		chains = []walletCommon.ChainKey{walletChain}
	default:
		chains, err = config.ChainKeys()
		if err != nil {
			return nil, err
		}
	}

	pageSize := cCtx.Int(PageSizeFlag)
	if pageSize == 0 {
		pageSize = config.Alchemy.PageSize
	}
	maxPages := cCtx.Int(PagesFlag)
	if maxPages < 1 {
		maxPages = 1
	}

	return &account{
		owner:       owner,
		chains:      chains,
		includeSpam: cCtx.Bool(IncludeSpamFlag),
		pageSize:    pageSize,
		maxPages:    maxPages,
	}, nil
}

type listResponse struct {
	SessionID string                         `json:"sessionId,omitempty"`
	Items     []thirdparty.NFT               `json:"items"`
	HasMore   bool                           `json:"hasMore"`
	Cursors   collectibles.ContinuationState `json:"cursors,omitempty"`
}

func listCollectibles(ctx context.Context, cCtx *cli.Context, app *application) error {
	acc, err := resolveAccount(cCtx, app.config)
	if err != nil {
		return err
	}

	if cCtx.Bool(AllFlag) {
		nfts, err := app.manager.FetchAll(ctx, acc.owner, acc.chains, acc.includeSpam)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, listResponse{Items: filterItems(nfts, cCtx.String(SearchFlag))})
	}

	picker := collectibles.NewPicker(app.manager, acc.pageSize, app.logger.Named("picker"))
	sessionID := picker.Reset(acc.owner, acc.chains, acc.includeSpam)
	if err := loadPages(ctx, picker, acc.maxPages, nil); err != nil {
		return err
	}

	return printJSON(os.Stdout, listResponse{
		SessionID: sessionID,
		Items:     picker.Search(cCtx.String(SearchFlag)),
		HasMore:   picker.HasMore(),
		Cursors:   picker.Cursors(),
	})
}

func filterItems(nfts []thirdparty.NFT, term string) []thirdparty.NFT {
	result := make([]thirdparty.NFT, 0, len(nfts))
	for _, nft := range nfts {
		if collectibles.MatchesSearch(nft, term) {
			result = append(result, nft)
		}
	}
	return result
}

// loadPages loads up to maxPages pages. It stops early when done reports true
// or when every chain is exhausted.
func loadPages(ctx context.Context, picker *collectibles.Picker, maxPages int, done func() bool) error {
	if _, err := picker.LoadInitial(ctx); err != nil {
		return err
	}
	for page := 1; page < maxPages && picker.HasMore(); page++ {
		if done != nil && done() {
			return nil
		}
		if _, err := picker.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

// selectCollectibles pages through the owner's collectibles until every requested ID
// is found, and returns them as a selection in the requested order.
func selectCollectibles(ctx context.Context, picker *collectibles.Picker, ids []string, maxPages int) (*collectibles.Selection, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	found := func() bool {
		for _, nft := range picker.Items() {
			delete(wanted, nft.ID)
		}
		return len(wanted) == 0
	}

	if err := loadPages(ctx, picker, maxPages, found); err != nil {
		return nil, err
	}
	if !found() {
		missing := make([]string, 0, len(wanted))
		for _, id := range ids {
			if _, ok := wanted[id]; ok {
				missing = append(missing, id)
			}
		}
		return nil, &statuserrors.ValidationError{Field: "selection", Reason: fmt.Sprintf("collectibles not found: %s", strings.Join(missing, ", "))}
	}

	byID := make(map[string]thirdparty.NFT, len(ids))
	for _, nft := range picker.Items() {
		byID[nft.ID] = nft
	}
	selection := collectibles.NewSelection()
	for _, id := range ids {
		selection.Add(byID[id])
	}
	return selection, nil
}

type storyResponse struct {
	Characters []thirdparty.NFT `json:"characters"`
	Story      string           `json:"story"`
}

func generateStory(ctx context.Context, cCtx *cli.Context, app *application) error {
	acc, err := resolveAccount(cCtx, app.config)
	if err != nil {
		return err
	}

	prompt := cCtx.String(PromptFlag)
	if strings.TrimSpace(prompt) == "" {
		return &statuserrors.ValidationError{Field: "prompt", Reason: "is empty"}
	}

	picker := collectibles.NewPicker(app.manager, acc.pageSize, app.logger.Named("picker"))
	picker.Reset(acc.owner, acc.chains, acc.includeSpam)
	selection, err := selectCollectibles(ctx, picker, cCtx.StringSlice(SelectFlag), acc.maxPages)
	if err != nil {
		return err
	}

	text, err := app.story.Generate(ctx, prompt, selection)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, storyResponse{Characters: selection.Items(), Story: text})
}
