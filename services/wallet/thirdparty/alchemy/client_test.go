package alchemy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statuserrors "github.com/status-im/nftstory/errors"
	walletCommon "github.com/status-im/nftstory/services/wallet/common"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

var testOwner = common.HexToAddress("0xABC0000000000000000000000000000000000001")

func recordJSON(tokenID int, title string, spam bool) string {
	return fmt.Sprintf(`{"contract":{"address":"0x%040x","name":"Test Collection","isSpam":%t},"tokenId":"%d","name":%q}`,
		tokenID%3+1, spam, tokenID, title)
}

func pageJSON(field string, from, to int, pageKey string) string {
	items := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		items = append(items, recordJSON(i, "Item "+strconv.Itoa(i), false))
	}
	body := fmt.Sprintf(`{%q:[%s],"totalCount":%d`, field, strings.Join(items, ","), to-from)
	if pageKey != "" {
		body += fmt.Sprintf(`,"pageKey":%q`, pageKey)
	}
	return body + "}"
}

type testServer struct {
	*httptest.Server
	requests atomic.Int32
	lastPath atomic.Value
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *testServer {
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests.Add(1)
		ts.lastPath.Store(r.URL.Path)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) client(apiKey string) *Client {
	return NewClient(apiKey, thirdparty.NewHTTPClient(), WithURLGetter(func(chain walletCommon.ChainKey, apiKey string) (string, error) {
		network, err := getNetwork(chain)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s/%s/nft/v3/%s", ts.URL, network, apiKey), nil
	}))
}

func TestGetNFTBaseURL(t *testing.T) {
	baseURL, err := getNFTBaseURL(walletCommon.ChainKeyPolygon, "key")
	require.NoError(t, err)
	assert.Equal(t, "https://polygon-mainnet.g.alchemy.com/nft/v3/key", baseURL)

	baseURL, err = getNFTBaseURL(walletCommon.ChainKeyBase, "key")
	require.NoError(t, err)
	assert.Equal(t, "https://base-mainnet.g.alchemy.com/nft/v3/key", baseURL)

	_, err = getNFTBaseURL(walletCommon.ChainKey("solana"), "key")
	assert.ErrorIs(t, err, thirdparty.ErrChainNotSupported)

	client := NewClient("key", nil)
	assert.True(t, client.IsChainSupported(walletCommon.ChainKeyEthereum))
	assert.False(t, client.IsChainSupported(walletCommon.ChainKey("solana")))
}

func TestFetchOwnedPageRequiresAPIKey(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pageJSON("nfts", 0, 1, "")))
	})

	_, err := ts.client("").FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false, 20, "")
	require.Error(t, err)
	assert.True(t, statuserrors.IsConfigurationError(err))

	_, err = ts.client("").FetchAllOwned(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false)
	assert.True(t, statuserrors.IsConfigurationError(err))

	assert.Equal(t, int32(0), ts.requests.Load())
}

func TestFetchOwnedPageQueryAndSpamFilter(t *testing.T) {
	var query atomic.Value
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.Query())
		body := fmt.Sprintf(`{"nfts":[%s,%s,%s],"pageKey":"next-key"}`,
			recordJSON(1, "Genesis", false),
			recordJSON(2, "Claim your reward", false),
			recordJSON(3, "Flagged", true))
		_, _ = w.Write([]byte(body))
	})
	client := ts.client("secret")

	page, err := client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyBase, false, 20, "")
	require.NoError(t, err)

	assert.Equal(t, "/base-mainnet/nft/v3/secret/getNFTsForOwner", ts.lastPath.Load())
	values := query.Load().(url.Values)
	assert.Equal(t, []string{testOwner.String()}, values["owner"])
	assert.Equal(t, []string{"true"}, values["withMetadata"])
	assert.Equal(t, []string{"20"}, values["pageSize"])
	assert.Equal(t, []string{"SPAM"}, values["excludeFilters"])
	assert.NotContains(t, values, "pageKey")

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Genesis", page.Items[0].Name)
	assert.Equal(t, walletCommon.ChainKeyBase, page.Items[0].ChainKey)
	assert.Equal(t, "next-key", page.NextCursor)
	assert.True(t, page.HasMore)

	page, err = client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyBase, true, 20, "cursor-1")
	require.NoError(t, err)

	values = query.Load().(url.Values)
	assert.NotContains(t, values, "excludeFilters")
	assert.Equal(t, []string{"cursor-1"}, values["pageKey"])
	assert.Len(t, page.Items, 3)
	assert.Equal(t, "cursor-1", page.PreviousCursor)
}

func TestFetchOwnedPageLegacyEnvelope(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pageJSON("ownedNfts", 0, 4, "")))
	})

	page, err := ts.client("secret").FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyPolygon, false, 10, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestFetchOwnedPagePaginationDoesNotOverlap(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pageKey") {
		case "":
			_, _ = w.Write([]byte(pageJSON("nfts", 0, 5, "page-2")))
		case "page-2":
			_, _ = w.Write([]byte(pageJSON("nfts", 5, 8, "")))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	client := ts.client("secret")

	first, err := client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false, 5, "")
	require.NoError(t, err)
	require.True(t, first.HasMore)

	second, err := client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false, 5, first.NextCursor)
	require.NoError(t, err)
	assert.False(t, second.HasMore)

	seen := make(map[string]bool)
	for _, nft := range first.Items {
		seen[nft.ID] = true
	}
	for _, nft := range second.Items {
		assert.False(t, seen[nft.ID], nft.ID)
	}
	assert.Len(t, first.Items, 5)
	assert.Len(t, second.Items, 3)
}

func TestFetchOwnedPageErrors(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pageKey") {
		case "unavailable":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"upstream down"}`))
		case "garbage":
			_, _ = w.Write([]byte(`<html>not json</html>`))
		case "multibyte":
			_, _ = w.Write([]byte("<p>" + strings.Repeat("é", maxDetailLength) + "</p>"))
		}
	})
	client := ts.client("secret")

	_, err := client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false, 20, "unavailable")
	var providerErr *statuserrors.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusServiceUnavailable, providerErr.StatusCode)
	assert.Equal(t, "ethereum", providerErr.Chain)
	assert.Contains(t, providerErr.Detail, "upstream down")

	_, err = client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false, 20, "garbage")
	require.ErrorAs(t, err, &providerErr)
	assert.Contains(t, providerErr.Detail, "invalid json")

	_, err = client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false, 20, "multibyte")
	require.ErrorAs(t, err, &providerErr)
	assert.True(t, utf8.ValidString(providerErr.Detail))
	assert.True(t, strings.HasSuffix(providerErr.Detail, "é..."))

	_, err = client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false, 0, "")
	assert.True(t, statuserrors.IsValidationError(err))
	_, err = client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false, MaxPageSize+1, "")
	assert.True(t, statuserrors.IsValidationError(err))

	_, err = client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKey("solana"), false, 20, "")
	assert.ErrorIs(t, err, thirdparty.ErrChainNotSupported)
}

func TestFetchOwnedPageNetworkError(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	client := ts.client("secret")
	ts.Close()

	_, err := client.FetchOwnedPage(context.Background(), testOwner, walletCommon.ChainKeyPolygon, false, 20, "")
	var networkErr *statuserrors.NetworkError
	require.ErrorAs(t, err, &networkErr)
	assert.Equal(t, "polygon", networkErr.Chain)
	assert.Equal(t, AlchemyID, networkErr.Provider)
}

func TestFetchAllOwned(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		switch r.URL.Query().Get("pageKey") {
		case "":
			_, _ = w.Write([]byte(pageJSON("nfts", 0, 3, "k1")))
		case "k1":
			_, _ = w.Write([]byte(pageJSON("nfts", 3, 6, "k2")))
		case "k2":
			_, _ = w.Write([]byte(pageJSON("nfts", 6, 7, "")))
		}
	})

	nfts, err := ts.client("secret").FetchAllOwned(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false)
	require.NoError(t, err)
	assert.Len(t, nfts, 7)
	assert.Equal(t, int32(3), ts.requests.Load())
	assert.Equal(t, "Item 0", nfts[0].Name)
	assert.Equal(t, "Item 6", nfts[6].Name)
}

func TestFetchAllOwnedStopsAtPageBudget(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Query().Get("pageKey"), "k"))
		_, _ = w.Write([]byte(pageJSON("nfts", n*2, n*2+2, fmt.Sprintf("k%d", n+1))))
	})

	nfts, err := ts.client("secret").FetchAllOwned(context.Background(), testOwner, walletCommon.ChainKeyBase, true)
	require.NoError(t, err)
	assert.Equal(t, int32(maxBulkPages), ts.requests.Load())
	assert.Len(t, nfts, maxBulkPages*2)
}

func TestFetchAllOwnedFailsOnAnyPage(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageKey") == "" {
			_, _ = w.Write([]byte(pageJSON("nfts", 0, 2, "k1")))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	})

	nfts, err := ts.client("secret").FetchAllOwned(context.Background(), testOwner, walletCommon.ChainKeyEthereum, false)
	require.Error(t, err)
	assert.Nil(t, nfts)

	var providerErr *statuserrors.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
}
