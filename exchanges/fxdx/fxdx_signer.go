package fxdx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thrasher-corp/fxdx/common/crypto"
)

// ErrCrypto is returned when key material is rejected or a digest cannot be
// computed
var ErrCrypto = errors.New("signing failure")

// SigningScheme selects how the canonical signing string is assembled
type SigningScheme uint8

// Signing schemes. The zero value picks the default of the auth mode.
const (
	SchemeDefault SigningScheme = iota
	// SchemeSecretEmbedded signs secret,timestamp,uri[,fragment]
	SchemeSecretEmbedded
	// SchemeFragmentOnly signs the request fragment alone
	SchemeFragmentOnly
)

// String implements fmt.Stringer
func (s SigningScheme) String() string {
	switch s {
	case SchemeDefault:
		return "default"
	case SchemeSecretEmbedded:
		return "secret-embedded"
	case SchemeFragmentOnly:
		return "fragment-only"
	default:
		return fmt.Sprintf("SigningScheme(%d)", uint8(s))
	}
}

var errUnknownSigningScheme = errors.New("unknown signing scheme")

// ParseSigningScheme returns the scheme matching name
func ParseSigningScheme(name string) (SigningScheme, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return SchemeDefault, nil
	case "secret-embedded":
		return SchemeSecretEmbedded, nil
	case "fragment-only":
		return SchemeFragmentOnly, nil
	default:
		return SchemeDefault, fmt.Errorf("%w: %q", errUnknownSigningScheme, name)
	}
}

// Signer computes HMAC-SHA1 signatures with a shared secret
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer bound to secret
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, crypto.ErrEmptyKey)
	}
	return &Signer{secret: append([]byte(nil), secret...)}, nil
}

// Sign returns the raw HMAC-SHA1 of canonical
func (s *Signer) Sign(canonical string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, crypto.ErrEmptyKey)
	}
	sig, err := crypto.GetHMAC(crypto.HashSHA1, []byte(canonical), s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}
	return sig, nil
}

// Canonicalize builds the string signed for one dispatch of r
func Canonicalize(scheme SigningScheme, secret []byte, timestamp, uri string, r Request) string {
	fragment, ok := Formalize(r)
	if scheme == SchemeFragmentOnly {
		return fragment
	}
	var sb strings.Builder
	sb.Write(secret)
	sb.WriteByte(',')
	sb.WriteString(timestamp)
	sb.WriteByte(',')
	sb.WriteString(uri)
	if ok {
		sb.WriteByte(',')
		sb.WriteString(fragment)
	}
	return sb.String()
}
