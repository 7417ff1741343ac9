package fxdx

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/fxdx/encoding/json"
)

const (
	privPubPrefix = "/maker"
	sr25519Prefix = "/api"

	nonceURI = privPubPrefix + "/nonce"
)

// ErrInvalidRequest is returned when a Request is not the variant an operation
// expects
var ErrInvalidRequest = errors.New("invalid request")

// InvalidRequestError carries the offending value of a rejected Request
type InvalidRequestError struct {
	Request any
}

// Error implements the error interface
func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s: %T %+v", ErrInvalidRequest, e.Request, e.Request)
}

// Unwrap allows errors.Is to match ErrInvalidRequest
func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func invalidRequest(r any) error {
	return &InvalidRequestError{Request: r}
}

// Prefix is the route namespace a client is bound to
type Prefix interface {
	Prefix() string
}

// PrivPub routes requests under /maker
type PrivPub struct{}

// Prefix returns the route namespace
func (PrivPub) Prefix() string { return privPubPrefix }

// Sr25519 routes requests under /api
type Sr25519 struct{}

// Prefix returns the route namespace
func (Sr25519) Prefix() string { return sr25519Prefix }

var errUnknownPrefix = errors.New("unknown route prefix")

// ParsePrefix returns the route namespace matching name. Both the namespace
// ("maker", "api") and the auth family ("privpub", "sr25519") are accepted.
func ParsePrefix(name string) (Prefix, error) {
	switch strings.ToLower(strings.Trim(name, "/")) {
	case "", "maker", "privpub":
		return PrivPub{}, nil
	case "api", "sr25519":
		return Sr25519{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownPrefix, name)
	}
}

// Request is an intent to call one FXDX endpoint. The set of implementations
// is closed to this package.
type Request interface {
	isRequest()
}

// Nonce requests a server issued nonce
type Nonce struct{}

// Token exchanges a signed nonce for a session token
type Token struct {
	Nonce     string `json:"nonce"`
	PubKey    string `json:"pubkey"`
	Signature string `json:"signature"`
}

// PendingOrder places a single limit order
type PendingOrder struct {
	Type   string          `json:"type"`
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

// BatchPendingOrders places several orders in one call
type BatchPendingOrders struct {
	Orders []PendingOrder
}

// CancelOrder cancels a single order
type CancelOrder struct {
	Symbol  string
	OrderID string
}

// BatchCancelOrders cancels several orders on one symbol
type BatchCancelOrders struct {
	Symbol   string
	OrderIDs []string
}

// OrderByID queries a single order
type OrderByID struct {
	Symbol  string
	OrderID string
}

// OrderByPage queries a page of orders
type OrderByPage struct {
	Symbol  string
	Page    int
	Size    int
	Pending bool
}

// Balances queries the account balance
type Balances struct{}

// Depth queries the order book of a symbol
type Depth struct {
	Symbol string
}

// Kline queries candles of a symbol
type Kline struct {
	Symbol string
	Scale  Scale
}

// Symbols queries the tradable symbols
type Symbols struct{}

func (Nonce) isRequest()              {}
func (Token) isRequest()              {}
func (PendingOrder) isRequest()       {}
func (BatchPendingOrders) isRequest() {}
func (CancelOrder) isRequest()        {}
func (BatchCancelOrders) isRequest()  {}
func (OrderByID) isRequest()          {}
func (OrderByPage) isRequest()        {}
func (Balances) isRequest()           {}
func (Depth) isRequest()              {}
func (Kline) isRequest()              {}
func (Symbols) isRequest()            {}

// NewPendingOrder returns a PendingOrder with its wire order type set
func NewPendingOrder(orderType OrderType, symbol string, price, amount decimal.Decimal) PendingOrder {
	return PendingOrder{
		Type:   strconv.FormatUint(uint64(orderType), 10),
		Symbol: symbol,
		Price:  price,
		Amount: amount,
	}
}

// NewBatchPendingOrders returns a batch of the supplied orders. Every element
// must be a PendingOrder.
func NewBatchPendingOrders(orders ...Request) (BatchPendingOrders, error) {
	b := BatchPendingOrders{Orders: make([]PendingOrder, len(orders))}
	for i := range orders {
		o, ok := orders[i].(PendingOrder)
		if !ok {
			return BatchPendingOrders{}, fmt.Errorf("batch element %d: %w", i, invalidRequest(orders[i]))
		}
		b.Orders[i] = o
	}
	return b, nil
}

// Method returns the HTTP verb of a request, empty when r is not a known
// variant
func Method(r Request) string {
	switch r.(type) {
	case Nonce, Token, PendingOrder, BatchPendingOrders:
		return http.MethodPost
	case CancelOrder, BatchCancelOrders:
		return http.MethodDelete
	case OrderByID, OrderByPage, Balances, Depth, Kline, Symbols:
		return http.MethodGet
	default:
		return ""
	}
}

// URI returns the route of a request under prefix p. A nil prefix routes under
// /maker. Nonce is always routed under /maker.
func URI(r Request, p Prefix) string {
	if p == nil {
		p = PrivPub{}
	}
	prefix := p.Prefix()
	switch v := r.(type) {
	case Nonce:
		return nonceURI
	case Token:
		return prefix + "/token"
	case PendingOrder:
		return prefix + "/order"
	case BatchPendingOrders:
		return prefix + "/orders"
	case CancelOrder:
		return prefix + "/order/" + v.Symbol + "/" + v.OrderID
	case BatchCancelOrders:
		return prefix + "/order/" + v.Symbol + "/" + strings.Join(v.OrderIDs, "|")
	case OrderByID:
		return prefix + "/order/" + v.Symbol + "/" + v.OrderID
	case OrderByPage:
		return prefix + "/orders/" + v.Symbol + "/" + strconv.Itoa(v.Page) + "/" + strconv.Itoa(v.Size) + "/" + strconv.FormatBool(v.Pending)
	case Balances:
		return prefix + "/balances"
	case Depth:
		return prefix + "/depth/" + v.Symbol
	case Kline:
		return prefix + "/kline/" + v.Symbol + "/" + v.Scale.String()
	case Symbols:
		return prefix + "/symbols"
	default:
		return ""
	}
}

// Formalize returns the signing fragment of a request. The field order of
// each fragment is fixed by the exchange.
func Formalize(r Request) (string, bool) {
	switch v := r.(type) {
	case PendingOrder:
		return v.Amount.String() + "," + v.Price.String() + "," + v.Symbol + "," + v.Type, true
	case BatchPendingOrders:
		fragments := make([]string, len(v.Orders))
		for i := range v.Orders {
			fragments[i], _ = Formalize(v.Orders[i])
		}
		return strings.Join(fragments, ","), true
	case CancelOrder:
		return v.OrderID + "," + v.Symbol, true
	case BatchCancelOrders:
		return strings.Join(v.OrderIDs, "|") + "," + v.Symbol, true
	case OrderByID:
		return v.OrderID + "," + v.Symbol, true
	case OrderByPage:
		return strconv.Itoa(v.Page) + "," + strconv.FormatBool(v.Pending) + "," + strconv.Itoa(v.Size) + "," + v.Symbol, true
	case Depth:
		return v.Symbol, true
	case Kline:
		return v.Scale.String() + "," + v.Symbol, true
	default:
		return "", false
	}
}

// Payload returns the JSON body of a request, nil when the request has none
func Payload(r Request) ([]byte, error) {
	switch v := r.(type) {
	case Token, PendingOrder:
		return json.Marshal(v)
	case BatchPendingOrders:
		if v.Orders == nil {
			return json.Marshal([]PendingOrder{})
		}
		return json.Marshal(v.Orders)
	default:
		return nil, nil
	}
}
