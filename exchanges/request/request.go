package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/thrasher-corp/fxdx/encoding/json"
	"github.com/thrasher-corp/fxdx/exchanges/mock"
	"github.com/thrasher-corp/fxdx/log"
)

// Public request errors
var (
	ErrRequestSystemIsNil   = errors.New("request system is nil")
	ErrUnsuccessfulResponse = errors.New("unsuccessful HTTP status code")
)

var (
	errRequestFunctionIsNil = errors.New("request function is nil")
	errServiceNameUnset     = errors.New("service name unset")
	errRequestItemNil       = errors.New("request item is nil")
	errInvalidPath          = errors.New("invalid path")
	errHTTPClientIsNil      = errors.New("http client is nil")
	errTransportNotSet      = errors.New("transport not set, cannot set proxy")
	errNoProxyURLSupplied   = errors.New("no proxy URL supplied")
)

// WithUserAgent sets the user agent sent on every request that does not carry
// its own
func WithUserAgent(ua string) RequesterOption {
	return func(r *Requester) {
		r.userAgent = ua
	}
}

// WithRecordPath sets the directory HTTP recordings are written to
func WithRecordPath(path string) RequesterOption {
	return func(r *Requester) {
		r.recordPath = path
	}
}

// New returns a new Requester
func New(name string, httpRequester *http.Client, opts ...RequesterOption) (*Requester, error) {
	if name == "" {
		return nil, errServiceNameUnset
	}
	if httpRequester == nil {
		return nil, errHTTPClientIsNil
	}
	r := &Requester{
		_HTTPClient: httpRequester,
		name:        name,
		recordPath:  mock.DefaultDirectory,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// SendPayload handles sending HTTP/HTTPS requests. The generator is invoked
// exactly once and the outcome is returned unchanged, there is no retry.
func (r *Requester) SendPayload(ctx context.Context, newRequest Generate, requestType AuthType) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	if newRequest == nil {
		return errRequestFunctionIsNil
	}

	p, err := newRequest()
	if err != nil {
		return err
	}

	req, err := p.validateRequest(ctx, r)
	if err != nil {
		return err
	}

	verbose := IsVerbose(ctx, p.Verbose)
	if verbose {
		log.Debugf(log.RequestSys, "%s %s request path: %s", r.name, requestType, p.Path)
		for k, d := range req.Header {
			log.Debugf(log.RequestSys, "%s request header [%s]: %s", r.name, k, d)
		}
		log.Debugf(log.RequestSys, "%s request type: %s", r.name, p.Method)
	}

	resp, err := r._HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if p.HTTPRecording {
		// This dumps http responses for future mocking implementations
		err = mock.HTTPRecord(resp, r.name, contents, r.recordPath)
		if err != nil {
			return fmt.Errorf("mock recording failure %w", err)
		}
	}

	if resp.StatusCode < http.StatusOK ||
		resp.StatusCode > http.StatusAccepted {
		return fmt.Errorf("%s %w: %d raw response: %s",
			r.name,
			ErrUnsuccessfulResponse,
			resp.StatusCode,
			string(contents))
	}

	if p.HTTPDebugging {
		dump, err := httputil.DumpResponse(resp, false)
		if err != nil {
			log.Errorf(log.RequestSys, "DumpResponse invalid response: %v:", err)
		}
		log.Debugf(log.RequestSys, "DumpResponse Headers (%v):\n%s", p.Path, dump)
		log.Debugf(log.RequestSys, "DumpResponse Body (%v):\n %s", p.Path, string(contents))
	}

	if verbose {
		log.Debugf(log.RequestSys, "HTTP status: %s, Code: %v", resp.Status, resp.StatusCode)
		if !p.HTTPDebugging {
			log.Debugf(log.RequestSys, "%s raw response: %s", r.name, string(contents))
		}
	}

	if p.Result == nil {
		return nil
	}
	return json.Unmarshal(contents, p.Result)
}

// validateRequest validates the requester item fields
func (i *Item) validateRequest(ctx context.Context, r *Requester) (*http.Request, error) {
	if r == nil {
		return nil, ErrRequestSystemIsNil
	}

	if i == nil {
		return nil, errRequestItemNil
	}

	if i.Path == "" {
		return nil, errInvalidPath
	}

	req, err := http.NewRequestWithContext(ctx, i.Method, i.Path, i.Body)
	if err != nil {
		return nil, err
	}
	r.preservePath(req)

	if i.HTTPDebugging {
		// Err not evaluated due to validation check above
		dump, _ := httputil.DumpRequestOut(req, true)
		log.Debugf(log.RequestSys, "DumpRequest:\n%s", dump)
	}

	for k, v := range i.Headers {
		req.Header.Add(k, v)
	}

	if r.userAgent != "" && req.Header.Get(userAgent) == "" {
		req.Header.Add(userAgent, r.userAgent)
	}

	return req, nil
}

// preservePath keeps the request line path byte for byte as supplied when the
// default escaping would rewrite it, e.g. `|` to `%7C`. Signatures are computed
// over the unescaped path.
func (r *Requester) preservePath(req *http.Request) {
	raw := req.URL.RawPath
	if raw == "" || req.URL.EscapedPath() == raw {
		return
	}
	if req.URL.Scheme == "http" && r.proxied(req) {
		// absolute form for plain HTTP proxies
		req.URL.Opaque = "//" + req.URL.Host + raw
		return
	}
	req.URL.Opaque = raw
}

func (r *Requester) proxied(req *http.Request) bool {
	t, ok := r._HTTPClient.Transport.(*http.Transport)
	if !ok || t.Proxy == nil {
		return false
	}
	p, err := t.Proxy(req)
	return err == nil && p != nil
}

// SetProxy sets a proxy address to the client transport
func (r *Requester) SetProxy(p *url.URL) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	if p == nil || p.String() == "" {
		return errNoProxyURLSupplied
	}

	t, ok := r._HTTPClient.Transport.(*http.Transport)
	if !ok {
		return errTransportNotSet
	}
	t.Proxy = http.ProxyURL(p)
	t.TLSHandshakeTimeout = proxyTLSTimeout
	return nil
}

// SetHTTPClientTimeout sets the timeout value for the exchanges HTTP Client
func (r *Requester) SetHTTPClientTimeout(timeout time.Duration) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}
	r._HTTPClient.Timeout = timeout
	return nil
}

// GetHTTPClientUserAgent gets the exchanges HTTP user agent
func (r *Requester) GetHTTPClientUserAgent() (string, error) {
	if r == nil {
		return "", ErrRequestSystemIsNil
	}
	return r.userAgent, nil
}
