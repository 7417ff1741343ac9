package config

import (
	"errors"
	"time"

	"github.com/thrasher-corp/fxdx/log"
)

// Constants declared here are filename strings and defaults
const (
	File               = "config.json"
	defaultName        = "fxdx"
	defaultHTTPTimeout = time.Second * 15
)

// Environment variables read by LoadEnv
const (
	EnvSecret   = "FXDX_SECRET"
	EnvAddress  = "FXDX_ADDRESS"
	EnvEndpoint = "FXDX_ENDPOINT"
)

// Constants here hold some messages
const (
	ErrFailureOpeningConfig = "fatal error opening %s file. Error: %w"
	ErrCheckingConfigValues = "fatal error checking config values. Error: %w"
)

var (
	errEndpointUnset     = errors.New("endpoint unset")
	errUnknownFileFormat = errors.New("unknown config file format")
	errConfigNotFound    = errors.New("config file not found")
)

// Format is the serialisation of a config file
type Format uint8

// Config file formats
const (
	FormatJSON Format = iota
	FormatYAML
)

// Config holds the settings used to build an FXDX client. The secret is never
// read from or written to a config file.
type Config struct {
	Name          string        `json:"name" yaml:"name"`
	DataDirectory string        `json:"dataDirectory" yaml:"dataDirectory"`
	Endpoint      string        `json:"endpoint" yaml:"endpoint"`
	Address       string        `json:"address" yaml:"address"`
	Prefix        string        `json:"prefix" yaml:"prefix"`
	SigningScheme string        `json:"signingScheme" yaml:"signingScheme"`
	HTTPTimeout   time.Duration `json:"httpTimeout" yaml:"httpTimeout"`
	UserAgent     string        `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Proxy         string        `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Verbose       bool          `json:"verbose" yaml:"verbose"`
	HTTPDebugging bool          `json:"httpDebugging" yaml:"httpDebugging"`
	HTTPRecording bool          `json:"httpRecording" yaml:"httpRecording"`
	Logging       log.Config    `json:"logging" yaml:"logging"`

	secret []byte
}
