package request

import (
	"io"
	"net/http"
	"time"
)

const (
	userAgent = "User-Agent"

	proxyTLSTimeout = 15 * time.Second
)

// AuthType helps distinguish the purpose of a HTTP request
type AuthType uint8

// Authentication types
const (
	UnauthenticatedRequest AuthType = iota
	AuthenticatedRequest
)

// String implements fmt.Stringer
func (a AuthType) String() string {
	if a == AuthenticatedRequest {
		return "authenticated"
	}
	return "unauthenticated"
}

// Requester struct for the request client
type Requester struct {
	_HTTPClient *http.Client
	name        string
	userAgent   string
	// recordPath is the directory responses are recorded into when an Item
	// asks for HTTP recording
	recordPath string
}

// Item is a temp item for requests
type Item struct {
	Method        string
	Path          string
	Headers       map[string]string
	Body          io.Reader
	Result        any
	Verbose       bool
	HTTPDebugging bool
	HTTPRecording bool
}

// Generate defines a closure for functionality outside of the requester to
// generate a new *http.Request on every attempt. Signing and timestamping
// belong inside the closure so every dispatch reads the clock exactly once.
type Generate func() (*Item, error)

// RequesterOption is a function option that can be applied to configure a
// Requester when creating it.
type RequesterOption func(*Requester)
