package fxdx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/thrasher-corp/fxdx/common"
	"github.com/thrasher-corp/fxdx/common/crypto"
	"github.com/thrasher-corp/fxdx/exchanges/request"
	"github.com/thrasher-corp/fxdx/log"
)

// Authentication headers
const (
	HeaderTimestamp = "X-Timestamp"
	HeaderAddress   = "X-Address"
	HeaderSignature = "X-Signature"
)

// Client dispatches signed requests to the FXDX REST API. A Client is
// immutable once built and safe for concurrent use.
type Client struct {
	requester *request.Requester
	endpoint  string
	address   string
	mode      authMode
	signer    *Signer
	prefix    Prefix
	scheme    SigningScheme
	clock     func() time.Time

	verbose       bool
	httpDebugging bool
	httpRecording bool
}

// Endpoint returns the base URL requests are sent to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// BoundPrefix returns the route namespace the client was built with
func (c *Client) BoundPrefix() Prefix {
	return c.prefix
}

// SendAuthenticatedHTTPRequest signs req and sends it, decoding the response
// into result
func (c *Client) SendAuthenticatedHTTPRequest(ctx context.Context, req Request, result any) error {
	if c == nil {
		return fmt.Errorf("%w: %T", common.ErrNilPointer, c)
	}
	method := Method(req)
	if method == "" {
		return invalidRequest(req)
	}
	switch {
	case c.mode == authHandshake:
		return ErrHandshakeNotSupported
	case c.signer == nil:
		return fmt.Errorf("%w: %w", ErrCrypto, crypto.ErrEmptyKey)
	}

	uri := URI(req, c.prefix)
	payload, err := Payload(req)
	if err != nil {
		return err
	}

	if c.verbose {
		log.Debugf(log.ExchangeSys, "%s sending %s request to %s", exchangeName, method, uri)
	}

	return c.requester.SendPayload(ctx, func() (*request.Item, error) {
		timestamp := strconv.FormatInt(c.clock().Unix(), 10)
		sig, err := c.signer.Sign(Canonicalize(c.scheme, c.signer.secret, timestamp, uri, req))
		if err != nil {
			return nil, err
		}
		headers := map[string]string{
			HeaderTimestamp: timestamp,
			HeaderAddress:   c.address,
			HeaderSignature: crypto.HexEncodeToString(sig),
		}
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
			headers["Content-Type"] = "application/json"
		}
		return &request.Item{
			Method:        method,
			Path:          c.endpoint + uri,
			Headers:       headers,
			Body:          body,
			Result:        result,
			Verbose:       c.verbose,
			HTTPDebugging: c.httpDebugging,
			HTTPRecording: c.httpRecording,
		}, nil
	}, request.AuthenticatedRequest)
}

// FetchNonce requests a server issued nonce. The request is not signed.
func (c *Client) FetchNonce(ctx context.Context) (*NonceResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %T", common.ErrNilPointer, c)
	}
	var resp NonceResponse
	return &resp, c.requester.SendPayload(ctx, func() (*request.Item, error) {
		return &request.Item{
			Method:        Method(Nonce{}),
			Path:          c.endpoint + URI(Nonce{}, c.prefix),
			Result:        &resp,
			Verbose:       c.verbose,
			HTTPDebugging: c.httpDebugging,
			HTTPRecording: c.httpRecording,
		}, nil
	}, request.UnauthenticatedRequest)
}

// PendingOrder places a single order
func (c *Client) PendingOrder(ctx context.Context, req Request) (*PendingOrderResponse, error) {
	if _, ok := req.(PendingOrder); !ok {
		return nil, invalidRequest(req)
	}
	var resp PendingOrderResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// BatchPendingOrders places several orders
func (c *Client) BatchPendingOrders(ctx context.Context, req Request) (*BatchPendingOrdersResponse, error) {
	if _, ok := req.(BatchPendingOrders); !ok {
		return nil, invalidRequest(req)
	}
	var resp BatchPendingOrdersResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// CancelOrder cancels a single order
func (c *Client) CancelOrder(ctx context.Context, req Request) (*CancelOrderResponse, error) {
	if _, ok := req.(CancelOrder); !ok {
		return nil, invalidRequest(req)
	}
	var resp CancelOrderResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// BatchCancelOrders cancels several orders on one symbol
func (c *Client) BatchCancelOrders(ctx context.Context, req Request) (*BatchCancelOrdersResponse, error) {
	if _, ok := req.(BatchCancelOrders); !ok {
		return nil, invalidRequest(req)
	}
	var resp BatchCancelOrdersResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// QueryOrderByID returns a single order
func (c *Client) QueryOrderByID(ctx context.Context, req Request) (*QueryByIDResponse, error) {
	if _, ok := req.(OrderByID); !ok {
		return nil, invalidRequest(req)
	}
	var resp QueryByIDResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// QueryOrdersByPage returns a page of orders
func (c *Client) QueryOrdersByPage(ctx context.Context, req Request) (*QueryByPageResponse, error) {
	if _, ok := req.(OrderByPage); !ok {
		return nil, invalidRequest(req)
	}
	var resp QueryByPageResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// QueryAccountBalance returns the account balance
func (c *Client) QueryAccountBalance(ctx context.Context, req Request) (*BalancesResponse, error) {
	if _, ok := req.(Balances); !ok {
		return nil, invalidRequest(req)
	}
	var resp BalancesResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// QueryDepth returns an order book snapshot
func (c *Client) QueryDepth(ctx context.Context, req Request) (*DepthResponse, error) {
	if _, ok := req.(Depth); !ok {
		return nil, invalidRequest(req)
	}
	var resp DepthResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// QueryKline returns klines
func (c *Client) QueryKline(ctx context.Context, req Request) (*KlineResponse, error) {
	if _, ok := req.(Kline); !ok {
		return nil, invalidRequest(req)
	}
	var resp KlineResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}

// QuerySymbols returns the tradable markets
func (c *Client) QuerySymbols(ctx context.Context, req Request) (*SymbolsResponse, error) {
	if _, ok := req.(Symbols); !ok {
		return nil, invalidRequest(req)
	}
	var resp SymbolsResponse
	return &resp, c.SendAuthenticatedHTTPRequest(ctx, req, &resp)
}
