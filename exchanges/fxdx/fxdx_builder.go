package fxdx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thrasher-corp/fxdx/common"
	"github.com/thrasher-corp/fxdx/exchanges/request"
)

const (
	exchangeName       = "FXDX"
	defaultHTTPTimeout = 15 * time.Second
)

// ErrHandshakeNotSupported is returned when the sr25519 handshake mode is
// built or dispatched
var ErrHandshakeNotSupported = fmt.Errorf("sr25519 handshake mode %w", common.ErrNotYetImplemented)

var errEndpointUnset = errors.New("endpoint unset")

type authMode uint8

const (
	authUnset authMode = iota
	authStaticSecret
	authHandshake
)

// Builder assembles a Client. A Builder is single use and not safe for
// concurrent use.
type Builder struct {
	endpoint   string
	mode       authMode
	secret     []byte
	address    string
	privateKey string

	prefix        Prefix
	scheme        SigningScheme
	httpClient    *http.Client
	httpTimeout   time.Duration
	proxy         *url.URL
	userAgent     string
	verbose       bool
	httpDebugging bool
	httpRecording bool
	recordPath    string
}

// NewBuilder returns a Builder targeting endpoint
func NewBuilder(endpoint string) *Builder {
	return &Builder{endpoint: endpoint}
}

// Secret selects static secret authentication. It panics once the sr25519
// handshake mode has been selected.
func (b *Builder) Secret(key []byte) *Builder {
	if b.mode == authHandshake {
		panic("fxdx: cannot set a static secret in sr25519 handshake mode")
	}
	b.mode = authStaticSecret
	b.secret = append([]byte(nil), key...)
	return b
}

// Sr25519 selects the sr25519 handshake mode, replacing any static secret
func (b *Builder) Sr25519(address, privateKey string) *Builder {
	b.mode = authHandshake
	b.secret = nil
	b.address = address
	b.privateKey = privateKey
	return b
}

// Address sets the account identifier sent with every request
func (b *Builder) Address(address string) *Builder {
	b.address = address
	return b
}

// Prefix binds the route namespace, PrivPub when unset
func (b *Builder) Prefix(p Prefix) *Builder {
	b.prefix = p
	return b
}

// SigningScheme overrides the canonical string scheme of the auth mode
func (b *Builder) SigningScheme(s SigningScheme) *Builder {
	b.scheme = s
	return b
}

// HTTPClient sets the transport used for every request
func (b *Builder) HTTPClient(c *http.Client) *Builder {
	b.httpClient = c
	return b
}

// HTTPTimeout sets the timeout of every request
func (b *Builder) HTTPTimeout(d time.Duration) *Builder {
	b.httpTimeout = d
	return b
}

// Proxy routes every request through proxy
func (b *Builder) Proxy(proxy *url.URL) *Builder {
	b.proxy = proxy
	return b
}

// UserAgent sets the User-Agent header
func (b *Builder) UserAgent(ua string) *Builder {
	b.userAgent = ua
	return b
}

// Verbose enables request logging
func (b *Builder) Verbose(v bool) *Builder {
	b.verbose = v
	return b
}

// HTTPDebugging enables request and response dumps
func (b *Builder) HTTPDebugging(v bool) *Builder {
	b.httpDebugging = v
	return b
}

// HTTPRecording records every response as a mock fixture
func (b *Builder) HTTPRecording(v bool) *Builder {
	b.httpRecording = v
	return b
}

// RecordPath sets the directory HTTP recordings are written to
func (b *Builder) RecordPath(dir string) *Builder {
	b.recordPath = dir
	return b
}

// Build returns an immutable Client. Building the sr25519 handshake mode fails
// with ErrHandshakeNotSupported without touching the network.
func (b *Builder) Build(ctx context.Context) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.mode == authHandshake {
		return nil, ErrHandshakeNotSupported
	}

	endpoint := strings.TrimRight(b.endpoint, "/")
	if endpoint == "" {
		return nil, errEndpointUnset
	}

	c := &Client{
		endpoint:      endpoint,
		address:       b.address,
		mode:          b.mode,
		prefix:        b.prefix,
		scheme:        b.scheme,
		verbose:       b.verbose,
		httpDebugging: b.httpDebugging,
		httpRecording: b.httpRecording,
		clock:         time.Now,
	}
	if c.prefix == nil {
		c.prefix = PrivPub{}
	}
	if c.scheme == SchemeDefault {
		c.scheme = SchemeSecretEmbedded
	}

	if b.mode == authStaticSecret {
		signer, err := NewSigner(b.secret)
		if err != nil {
			return nil, err
		}
		c.signer = signer
	}

	var opts []request.RequesterOption
	if b.userAgent != "" {
		opts = append(opts, request.WithUserAgent(b.userAgent))
	}
	if b.recordPath != "" {
		opts = append(opts, request.WithRecordPath(b.recordPath))
	}
	httpClient := b.newHTTPClient()
	var err error
	c.requester, err = request.New(exchangeName, httpClient, opts...)
	if err != nil {
		return nil, err
	}
	if b.httpTimeout > 0 {
		if err = c.requester.SetHTTPClientTimeout(b.httpTimeout); err != nil {
			return nil, err
		}
	}
	if b.proxy != nil {
		if err = c.requester.SetProxy(b.proxy); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// newHTTPClient returns a client owned by the Client being built, so timeout
// and proxy settings never leak into a caller supplied client or transport
func (b *Builder) newHTTPClient() *http.Client {
	if b.httpClient == nil {
		return &http.Client{
			Timeout:   defaultHTTPTimeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}
	hc := *b.httpClient
	switch t := hc.Transport.(type) {
	case nil:
		hc.Transport = http.DefaultTransport.(*http.Transport).Clone()
	case *http.Transport:
		hc.Transport = t.Clone()
	}
	return &hc
}
