package fxdx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/fxdx/common"
	"github.com/thrasher-corp/fxdx/common/crypto"
	"github.com/thrasher-corp/fxdx/exchanges/mock"
	"github.com/thrasher-corp/fxdx/exchanges/request"
)

const testSymbol = "ETHUSDT"

type capturedRequest struct {
	method     string
	path       string
	requestURI string
	header     http.Header
	body       []byte
}

func newCaptureServer(t *testing.T, response string) (*httptest.Server, func() capturedRequest) {
	t.Helper()
	var (
		mu  sync.Mutex
		got capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		got = capturedRequest{
			method:     r.Method,
			path:       r.URL.Path,
			requestURI: r.RequestURI,
			header:     r.Header.Clone(),
			body:       body,
		}
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, func() capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}

func TestSymbolsEndToEnd(t *testing.T) {
	t.Parallel()
	srv, captured := newCaptureServer(t, `{"code":200,"data":[]}`)

	c, err := NewBuilder(srv.URL).Secret([]byte("k")).HTTPClient(srv.Client()).Build(context.Background())
	require.NoError(t, err, "Build must not error")

	resp, err := c.QuerySymbols(context.Background(), Symbols{})
	require.NoError(t, err, "QuerySymbols must not error")
	assert.True(t, resp.IsSuccess())

	got := captured()
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/maker/symbols", got.path)
	assert.Empty(t, got.body, "Symbols should be sent without a body")
	for _, h := range []string{HeaderTimestamp, HeaderAddress, HeaderSignature} {
		_, ok := got.header[h]
		assert.Truef(t, ok, "%s header should be set", h)
	}
	assert.Empty(t, got.header.Get("Content-Type"))
}

func TestSignedHeadersShareTimestamp(t *testing.T) {
	t.Parallel()
	srv, captured := newCaptureServer(t, `{"code":200,"data":"1"}`)

	c, err := NewBuilder(srv.URL).Secret([]byte("k")).Address("0xabc").HTTPClient(srv.Client()).Build(context.Background())
	require.NoError(t, err)
	var calls int
	c.clock = func() time.Time {
		calls++
		return time.Unix(1700000000+int64(calls), 0)
	}

	_, err = c.PendingOrder(context.Background(), testOrder)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "clock should be read once per dispatch")

	got := captured()
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/maker/order", got.path)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.JSONEq(t, `{"type":"0","symbol":"ETHUSDT","price":"1.5","amount":"10"}`, string(got.body))
	assert.Equal(t, "0xabc", got.header.Get(HeaderAddress))

	ts := got.header.Get(HeaderTimestamp)
	assert.Equal(t, strconv.FormatInt(1700000001, 10), ts)
	want, err := crypto.GetHMAC(crypto.HashSHA1, []byte("k,"+ts+",/maker/order,10,1.5,ETHUSDT,0"), []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, crypto.HexEncodeToString(want), got.header.Get(HeaderSignature),
		"signature should cover the timestamp sent in the header")
}

func TestBatchCancelRequestLineMatchesSignedURI(t *testing.T) {
	t.Parallel()
	srv, captured := newCaptureServer(t, `{"code":200,"data":"ok"}`)
	for _, prefix := range []Prefix{PrivPub{}, Sr25519{}} {
		c, err := NewBuilder(srv.URL).Secret([]byte("k")).Prefix(prefix).HTTPClient(srv.Client()).Build(context.Background())
		require.NoError(t, err, "Build must not error")
		c.clock = func() time.Time { return time.Unix(1700000000, 0) }

		req := BatchCancelOrders{Symbol: testSymbol, OrderIDs: []string{"1", "2"}}
		_, err = c.BatchCancelOrders(context.Background(), req)
		require.NoError(t, err, "BatchCancelOrders must not error")

		got := captured()
		uri := URI(req, prefix)
		assert.Equal(t, uri, got.requestURI, "request line should carry the signed path unescaped")
		want, err := crypto.GetHMAC(crypto.HashSHA1, []byte("k,1700000000,"+got.requestURI+",1|2,ETHUSDT"), []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, crypto.HexEncodeToString(want), got.header.Get(HeaderSignature),
			"signature should verify against the received request line")
	}
}

func TestHTTPRecording(t *testing.T) {
	t.Parallel()
	srv, _ := newCaptureServer(t, `{"code":200,"data":[]}`)
	dir := t.TempDir()
	c, err := NewBuilder(srv.URL).
		Secret([]byte("k")).
		HTTPClient(srv.Client()).
		HTTPRecording(true).
		RecordPath(dir).
		Build(context.Background())
	require.NoError(t, err, "Build must not error")

	_, err = c.QuerySymbols(context.Background(), Symbols{})
	require.NoError(t, err, "QuerySymbols must not error")
	assert.FileExists(t, filepath.Join(dir, "fxdx", "fxdx.json"), "response should be recorded under the record path")
}

func TestFragmentOnlyScheme(t *testing.T) {
	t.Parallel()
	srv, captured := newCaptureServer(t, `{"code":200,"data":null}`)
	c, err := NewBuilder(srv.URL).
		Secret([]byte("k")).
		Prefix(Sr25519{}).
		SigningScheme(SchemeFragmentOnly).
		HTTPClient(srv.Client()).
		Build(context.Background())
	require.NoError(t, err)

	_, err = c.QueryDepth(context.Background(), Depth{Symbol: testSymbol})
	require.NoError(t, err)
	got := captured()
	assert.Equal(t, "/api/depth/ETHUSDT", got.path)
	want, err := crypto.GetHMAC(crypto.HashSHA1, []byte(testSymbol), []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, crypto.HexEncodeToString(want), got.header.Get(HeaderSignature))
}

func TestUnsuccessfulStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code":401}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	c, err := NewBuilder(srv.URL).Secret([]byte("k")).HTTPClient(srv.Client()).Build(context.Background())
	require.NoError(t, err)
	_, err = c.QueryAccountBalance(context.Background(), Balances{})
	assert.ErrorIs(t, err, request.ErrUnsuccessfulResponse)
}

func TestOperationsRejectWrongVariant(t *testing.T) {
	t.Parallel()
	c, err := NewBuilder("http://127.0.0.1:1").Secret([]byte("k")).Build(context.Background())
	require.NoError(t, err)
	ctx := context.Background()
	wrong := Nonce{}

	_, err = c.PendingOrder(ctx, wrong)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.BatchPendingOrders(ctx, testOrder)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.CancelOrder(ctx, OrderByID{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.BatchCancelOrders(ctx, CancelOrder{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.QueryOrderByID(ctx, CancelOrder{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.QueryOrdersByPage(ctx, wrong)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.QueryAccountBalance(ctx, Symbols{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.QueryDepth(ctx, Kline{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.QueryKline(ctx, Depth{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = c.QuerySymbols(ctx, &Symbols{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = c.SendAuthenticatedHTTPRequest(ctx, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestHandshakeDispatch(t *testing.T) {
	t.Parallel()
	c := &Client{mode: authHandshake, endpoint: "http://127.0.0.1:1", prefix: PrivPub{}}
	err := c.SendAuthenticatedHTTPRequest(context.Background(), Symbols{}, nil)
	assert.ErrorIs(t, err, ErrHandshakeNotSupported)

	var nilClient *Client
	err = nilClient.SendAuthenticatedHTTPRequest(context.Background(), Symbols{}, nil)
	assert.ErrorIs(t, err, common.ErrNilPointer)
	_, err = nilClient.FetchNonce(context.Background())
	assert.ErrorIs(t, err, common.ErrNilPointer)
}

func newMockClient(t *testing.T) *Client {
	t.Helper()
	serverURL, httpClient, err := mock.NewVCRServer(filepath.Join(mock.DefaultDirectory, "fxdx", "fxdx.json"))
	require.NoError(t, err, "NewVCRServer must not error")
	c, err := NewBuilder(serverURL).Secret([]byte("k")).Address("0xabc").HTTPClient(httpClient).Build(context.Background())
	require.NoError(t, err, "Build must not error")
	return c
}

func TestMockOperations(t *testing.T) {
	t.Parallel()
	c := newMockClient(t)
	ctx := context.Background()

	nonce, err := c.FetchNonce(ctx)
	require.NoError(t, err, "FetchNonce must not error")
	assert.Equal(t, "8f5b1c0e2d", nonce.Data)

	placed, err := c.PendingOrder(ctx, testOrder)
	require.NoError(t, err, "PendingOrder must not error")
	assert.True(t, placed.IsSuccess())
	assert.Equal(t, "1001", placed.Data)

	batch, err := NewBatchPendingOrders(testOrder,
		NewPendingOrder(Bid, testSymbol, decimal.RequireFromString("1.6"), decimal.NewFromInt(20)))
	require.NoError(t, err)
	placedBatch, err := c.BatchPendingOrders(ctx, batch)
	require.NoError(t, err, "BatchPendingOrders must not error")
	assert.Equal(t, []string{"1001", "1002"}, placedBatch.Data)

	cancelled, err := c.CancelOrder(ctx, CancelOrder{Symbol: testSymbol, OrderID: "1001"})
	require.NoError(t, err, "CancelOrder must not error")
	assert.Equal(t, "1001", cancelled.Data)

	cancelledBatch, err := c.BatchCancelOrders(ctx, BatchCancelOrders{Symbol: testSymbol, OrderIDs: []string{"1001", "1002"}})
	require.NoError(t, err, "BatchCancelOrders must not error")
	assert.Equal(t, "1001|1002", cancelledBatch.Data)

	order, err := c.QueryOrderByID(ctx, OrderByID{Symbol: testSymbol, OrderID: "1001"})
	require.NoError(t, err, "QueryOrderByID must not error")
	require.NotNil(t, order.Data)
	assert.Equal(t, PartialDealed, order.Data.Status)
	require.Len(t, order.Data.Trades, 1)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), order.Data.Trades[0].Timestamp.Time().UTC())

	page, err := c.QueryOrdersByPage(ctx, OrderByPage{Symbol: testSymbol, Page: 1, Size: 20, Pending: true})
	require.NoError(t, err, "QueryOrdersByPage must not error")
	require.Len(t, page.Data, 1)
	assert.Equal(t, Undeal, page.Data[0].Status)

	balance, err := c.QueryAccountBalance(ctx, Balances{})
	require.NoError(t, err, "QueryAccountBalance must not error")
	require.NotNil(t, balance.Data)
	assert.Equal(t, "USDT", balance.Data.Name)
	assert.True(t, decimal.RequireFromString("1000.5").Equal(balance.Data.Available))

	depth, err := c.QueryDepth(ctx, Depth{Symbol: testSymbol})
	require.NoError(t, err, "QueryDepth must not error")
	require.NotNil(t, depth.Data)
	require.Len(t, depth.Data.Bids, 2)
	assert.Equal(t, "1.49", depth.Data.Bids[0][0].String())

	klines, err := c.QueryKline(ctx, Kline{Symbol: testSymbol, Scale: Minute5})
	require.NoError(t, err, "QueryKline must not error")
	require.Len(t, klines.Data, 1)
	assert.Equal(t, "12000", klines.Data[0].Volume.String())

	symbols, err := c.QuerySymbols(ctx, Symbols{})
	require.NoError(t, err, "QuerySymbols must not error")
	require.Len(t, symbols.Data, 1)
	assert.True(t, symbols.Data[0].EnableMarketOrder)
	assert.Equal(t, "ETH", symbols.Data[0].BaseName)
}

func TestConcurrentDispatch(t *testing.T) {
	t.Parallel()
	c := newMockClient(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.QueryDepth(context.Background(), Depth{Symbol: testSymbol})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
