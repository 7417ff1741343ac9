package fxdx

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/fxdx/types"
)

// SuccessCode is the envelope code of a successful response
const SuccessCode = 200

// OrderType is the side of an order as sent on the wire
type OrderType uint8

// Order types
const (
	Ask OrderType = iota
	Bid
)

// String implements fmt.Stringer
func (o OrderType) String() string {
	switch o {
	case Ask:
		return "ASK"
	case Bid:
		return "BID"
	default:
		return fmt.Sprintf("OrderType(%d)", uint8(o))
	}
}

// Direction is the side of a trade or order in responses
type Direction uint8

// Directions
const (
	DirectionAsk Direction = iota
	DirectionBid
)

// String implements fmt.Stringer
func (d Direction) String() string {
	switch d {
	case DirectionAsk:
		return "ASK"
	case DirectionBid:
		return "BID"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// OrderStatus is the lifecycle state of an order
type OrderStatus uint8

// Order statuses
const (
	Undeal OrderStatus = iota + 1
	Cancel
	Dealed
	PartialDealed
)

// String implements fmt.Stringer
func (s OrderStatus) String() string {
	switch s {
	case Undeal:
		return "UNDEAL"
	case Cancel:
		return "CANCEL"
	case Dealed:
		return "DEALED"
	case PartialDealed:
		return "PARTIAL_DEALED"
	default:
		return fmt.Sprintf("OrderStatus(%d)", uint8(s))
	}
}

// Scale is a kline interval
type Scale uint8

// Kline intervals
const (
	Minute Scale = iota
	Minute5
	Minute15
	Minute30
	Hour
	Hour4
	Day
	Week
)

var scaleNames = [...]string{
	Minute:   "MINUTE",
	Minute5:  "MINUTE_5",
	Minute15: "MINUTE_15",
	Minute30: "MINUTE_30",
	Hour:     "HOUR",
	Hour4:    "HOUR4",
	Day:      "DAY",
	Week:     "WEEK",
}

var errUnknownScale = errors.New("unknown kline scale")

// String returns the wire name of the interval
func (s Scale) String() string {
	if int(s) < len(scaleNames) {
		return scaleNames[s]
	}
	return fmt.Sprintf("Scale(%d)", uint8(s))
}

// MarshalText encodes the interval as its wire name
func (s Scale) MarshalText() ([]byte, error) {
	if int(s) >= len(scaleNames) {
		return nil, fmt.Errorf("%w: %d", errUnknownScale, uint8(s))
	}
	return []byte(scaleNames[s]), nil
}

// UnmarshalText decodes a wire name into an interval
func (s *Scale) UnmarshalText(text []byte) error {
	v, err := ParseScale(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseScale returns the interval matching a wire name
func ParseScale(name string) (Scale, error) {
	for i := range scaleNames {
		if scaleNames[i] == name {
			return Scale(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknownScale, name)
}

// Envelope holds the status code carried by every response
type Envelope struct {
	Code int `json:"code"`
}

// IsSuccess reports whether the exchange accepted the request
func (e Envelope) IsSuccess() bool {
	return e.Code == SuccessCode
}

// NonceResponse holds a server issued nonce
type NonceResponse struct {
	Envelope
	Data string `json:"data"`
}

// TokenResponse holds a session token
type TokenResponse struct {
	Envelope
	Data string `json:"data"`
}

// PendingOrderResponse holds the id of a placed order
type PendingOrderResponse struct {
	Envelope
	Data string `json:"data"`
}

// BatchPendingOrdersResponse holds the ids of placed orders
type BatchPendingOrdersResponse struct {
	Envelope
	Data []string `json:"data"`
}

// CancelOrderResponse holds the result of a cancellation
type CancelOrderResponse struct {
	Envelope
	Data string `json:"data"`
}

// BatchCancelOrdersResponse holds the result of a batch cancellation
type BatchCancelOrdersResponse struct {
	Envelope
	Data string `json:"data"`
}

// Trade is a fill against an order
type Trade struct {
	Base        int             `json:"base"`
	Quote       int             `json:"quote"`
	AskOrBid    Direction       `json:"ask_or_bid"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	QuoteAmount decimal.Decimal `json:"quote_amount"`
	QuoteFee    decimal.Decimal `json:"quote_fee"`
	BaseFee     decimal.Decimal `json:"base_fee"`
	Timestamp   types.Time      `json:"timestamp"`
}

// QueryOrder is an order as reported by the exchange
type QueryOrder struct {
	Symbol      string          `json:"symbol"`
	OrderID     string          `json:"order_id"`
	OrderType   OrderType       `json:"order_type"`
	Direction   Direction       `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Price       decimal.Decimal `json:"price"`
	FilledBase  decimal.Decimal `json:"filled_base"`
	FilledQuote decimal.Decimal `json:"filled_quote"`
	AvgPrice    decimal.Decimal `json:"avg_price"`
	Status      OrderStatus     `json:"status"`
	Trades      []Trade         `json:"trades"`
}

// QueryByIDResponse holds a single order
type QueryByIDResponse struct {
	Envelope
	Data *QueryOrder `json:"data"`
}

// QueryByPageResponse holds a page of orders
type QueryByPageResponse struct {
	Envelope
	Data []QueryOrder `json:"data"`
}

// Balance is the holding of one asset
type Balance struct {
	Name      string          `json:"name"`
	Available decimal.Decimal `json:"available"`
	Frozen    decimal.Decimal `json:"frozen"`
}

// BalancesResponse holds the account balance
type BalancesResponse struct {
	Envelope
	Data *Balance `json:"data"`
}

// DepthBook is an order book snapshot. Each level is a [price, amount] pair.
type DepthBook struct {
	Depth int                 `json:"depth"`
	Bids  [][]decimal.Decimal `json:"bids"`
	Asks  [][]decimal.Decimal `json:"asks"`
}

// DepthResponse holds an order book snapshot
type DepthResponse struct {
	Envelope
	Data *DepthBook `json:"data"`
}

// Candle is a single kline
type Candle struct {
	ID     int64           `json:"id"`
	Open   decimal.Decimal `json:"open"`
	Close  decimal.Decimal `json:"close"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Volume decimal.Decimal `json:"vol"`
}

// KlineResponse holds klines
type KlineResponse struct {
	Envelope
	Data []Candle `json:"data"`
}

// Symbol is a tradable market
type Symbol struct {
	Base              int             `json:"base"`
	Quote             int             `json:"quote"`
	BaseName          string          `json:"base_name"`
	QuoteName         string          `json:"quote_name"`
	BaseScale         int             `json:"base_scale"`
	QuoteScale        int             `json:"quote_scale"`
	TakerFee          decimal.Decimal `json:"taker_fee"`
	MakerFee          decimal.Decimal `json:"make_fee"`
	MinAmount         decimal.Decimal `json:"min_amount"`
	MinVolume         decimal.Decimal `json:"min_vol"`
	EnableMarketOrder bool            `json:"enable_marker_order"`
}

// SymbolsResponse holds the tradable markets
type SymbolsResponse struct {
	Envelope
	Data []Symbol `json:"data"`
}
