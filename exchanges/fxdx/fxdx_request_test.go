package fxdx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOrder = PendingOrder{
	Type:   "0",
	Symbol: "ETHUSDT",
	Price:  decimal.RequireFromString("1.5"),
	Amount: decimal.NewFromInt(10),
}

func TestPrefix(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/maker", PrivPub{}.Prefix())
	assert.Equal(t, "/api", Sr25519{}.Prefix())
}

func TestParsePrefix(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]Prefix{
		"":        PrivPub{},
		"maker":   PrivPub{},
		"/maker":  PrivPub{},
		"PrivPub": PrivPub{},
		"api":     Sr25519{},
		"sr25519": Sr25519{},
	} {
		got, err := ParsePrefix(name)
		require.NoError(t, err)
		assert.Equalf(t, want, got, "ParsePrefix should resolve %q", name)
	}
	_, err := ParsePrefix("admin")
	assert.ErrorIs(t, err, errUnknownPrefix)
}

func TestMethod(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		req  Request
		want string
	}{
		{Nonce{}, http.MethodPost},
		{Token{}, http.MethodPost},
		{testOrder, http.MethodPost},
		{BatchPendingOrders{}, http.MethodPost},
		{CancelOrder{Symbol: "ETHUSDT", OrderID: "1"}, http.MethodDelete},
		{BatchCancelOrders{}, http.MethodDelete},
		{OrderByID{}, http.MethodGet},
		{OrderByPage{}, http.MethodGet},
		{Balances{}, http.MethodGet},
		{Depth{Symbol: "ETHUSDT"}, http.MethodGet},
		{Kline{}, http.MethodGet},
		{Symbols{}, http.MethodGet},
		{nil, ""},
		{&Symbols{}, ""},
	} {
		assert.Equalf(t, tc.want, Method(tc.req), "Method should return the correct verb for %T", tc.req)
	}
}

func TestURI(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		req  Request
		path string
	}{
		{Token{}, "/token"},
		{testOrder, "/order"},
		{BatchPendingOrders{}, "/orders"},
		{CancelOrder{Symbol: "ETHUSDT", OrderID: "1"}, "/order/ETHUSDT/1"},
		{BatchCancelOrders{Symbol: "ETHUSDT", OrderIDs: []string{"1"}}, "/order/ETHUSDT/1"},
		{BatchCancelOrders{Symbol: "ETHUSDT", OrderIDs: []string{"1", "2", "3"}}, "/order/ETHUSDT/1|2|3"},
		{OrderByID{Symbol: "ETHUSDT", OrderID: "7"}, "/order/ETHUSDT/7"},
		{OrderByPage{Symbol: "ETHUSDT", Page: 1, Size: 20, Pending: true}, "/orders/ETHUSDT/1/20/true"},
		{OrderByPage{Symbol: "ETHUSDT", Page: 3, Size: 5}, "/orders/ETHUSDT/3/5/false"},
		{Balances{}, "/balances"},
		{Depth{Symbol: "ETHUSDT"}, "/depth/ETHUSDT"},
		{Kline{Symbol: "ETHUSDT", Scale: Minute5}, "/kline/ETHUSDT/MINUTE_5"},
		{Symbols{}, "/symbols"},
	} {
		for _, p := range []Prefix{PrivPub{}, Sr25519{}} {
			want := p.Prefix() + tc.path
			assert.Equalf(t, want, URI(tc.req, p), "URI should be correct for %T under %s", tc.req, p.Prefix())
			assert.Equal(t, URI(tc.req, p), URI(tc.req, p), "URI should be deterministic")
		}
	}

	assert.Equal(t, "/maker/nonce", URI(Nonce{}, PrivPub{}))
	assert.Equal(t, "/maker/nonce", URI(Nonce{}, Sr25519{}), "Nonce should ignore the bound prefix")
	assert.Equal(t, "/maker/symbols", URI(Symbols{}, nil), "nil prefix should default to /maker")
	assert.Empty(t, URI(nil, PrivPub{}))
}

func TestFormalize(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		req      Request
		fragment string
		ok       bool
	}{
		{testOrder, "10,1.5,ETHUSDT,0", true},
		{CancelOrder{Symbol: "ETHUSDT", OrderID: "1"}, "1,ETHUSDT", true},
		{BatchCancelOrders{Symbol: "ETHUSDT", OrderIDs: []string{"1", "2"}}, "1|2,ETHUSDT", true},
		{OrderByID{Symbol: "ETHUSDT", OrderID: "7"}, "7,ETHUSDT", true},
		{OrderByPage{Symbol: "ETHUSDT", Page: 1, Size: 20, Pending: true}, "1,true,20,ETHUSDT", true},
		{Depth{Symbol: "ETHUSDT"}, "ETHUSDT", true},
		{Kline{Symbol: "ETHUSDT", Scale: Hour4}, "HOUR4,ETHUSDT", true},
		{Nonce{}, "", false},
		{Token{Nonce: "n"}, "", false},
		{Balances{}, "", false},
		{Symbols{}, "", false},
	} {
		fragment, ok := Formalize(tc.req)
		assert.Equalf(t, tc.ok, ok, "Formalize should report a fragment for %T", tc.req)
		assert.Equalf(t, tc.fragment, fragment, "Formalize should return the correct fragment for %T", tc.req)
	}
}

func TestFormalizeBatch(t *testing.T) {
	t.Parallel()
	second := NewPendingOrder(Bid, "BTCUSDT", decimal.RequireFromString("30000.25"), decimal.RequireFromString("0.5"))
	batch, err := NewBatchPendingOrders(testOrder, second)
	require.NoError(t, err, "NewBatchPendingOrders must not error")

	a, _ := Formalize(testOrder)
	b, _ := Formalize(second)
	got, ok := Formalize(batch)
	require.True(t, ok)
	assert.Equal(t, a+","+b, got, "batch fragment should join the order fragments in list order")
	assert.Equal(t, "10,1.5,ETHUSDT,0,0.5,30000.25,BTCUSDT,1", got)
}

func TestNewBatchPendingOrders(t *testing.T) {
	t.Parallel()
	batch, err := NewBatchPendingOrders()
	require.NoError(t, err)
	assert.Empty(t, batch.Orders)

	_, err = NewBatchPendingOrders(testOrder, Depth{Symbol: "ETHUSDT"})
	require.ErrorIs(t, err, ErrInvalidRequest)
	var invalid *InvalidRequestError
	require.True(t, errors.As(err, &invalid), "error must carry the offending value")
	assert.Equal(t, Depth{Symbol: "ETHUSDT"}, invalid.Request)
}

func TestNewPendingOrder(t *testing.T) {
	t.Parallel()
	o := NewPendingOrder(Ask, "ETHUSDT", decimal.RequireFromString("1.5"), decimal.NewFromInt(10))
	assert.Equal(t, testOrder.Type, o.Type)
	assert.True(t, testOrder.Price.Equal(o.Price))
	assert.Equal(t, "1", NewPendingOrder(Bid, "ETHUSDT", decimal.Zero, decimal.Zero).Type)
}

func TestPayload(t *testing.T) {
	t.Parallel()
	p, err := Payload(testOrder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"0","symbol":"ETHUSDT","price":"1.5","amount":"10"}`, string(p))

	p, err = Payload(Token{Nonce: "n", PubKey: "pk", Signature: "sig"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nonce":"n","pubkey":"pk","signature":"sig"}`, string(p))

	batch, err := NewBatchPendingOrders(testOrder, testOrder)
	require.NoError(t, err)
	p, err = Payload(batch)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"0","symbol":"ETHUSDT","price":"1.5","amount":"10"},{"type":"0","symbol":"ETHUSDT","price":"1.5","amount":"10"}]`, string(p))

	p, err = Payload(BatchPendingOrders{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(p))

	for _, r := range []Request{Nonce{}, CancelOrder{}, BatchCancelOrders{}, OrderByID{}, OrderByPage{}, Balances{}, Depth{}, Kline{}, Symbols{}} {
		p, err = Payload(r)
		require.NoError(t, err)
		assert.Nilf(t, p, "%T should not carry a body", r)
	}
}

func TestInvalidRequestError(t *testing.T) {
	t.Parallel()
	err := invalidRequest(Symbols{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "fxdx.Symbols")
}
