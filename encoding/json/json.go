// Package json wraps github.com/goccy/go-json and is imported in place of
// encoding/json throughout the module.
package json

import (
	gojson "github.com/goccy/go-json"
)

type (
	// RawMessage is a raw encoded JSON value
	RawMessage = gojson.RawMessage
	// Decoder reads and decodes JSON values from an input stream
	Decoder = gojson.Decoder
	// Encoder writes JSON values to an output stream
	Encoder = gojson.Encoder
	// Marshaler is the interface implemented by types that can marshal themselves into valid JSON
	Marshaler = gojson.Marshaler
	// Unmarshaler is the interface implemented by types that can unmarshal a JSON description of themselves
	Unmarshaler = gojson.Unmarshaler
)

var (
	// Marshal returns the JSON encoding of v
	Marshal = gojson.Marshal
	// MarshalIndent is like Marshal but applies Indent to format the output
	MarshalIndent = gojson.MarshalIndent
	// Unmarshal parses the JSON-encoded data and stores the result in the value pointed to by v
	Unmarshal = gojson.Unmarshal
	// NewDecoder returns a new decoder that reads from r
	NewDecoder = gojson.NewDecoder
	// NewEncoder returns a new encoder that writes to w
	NewEncoder = gojson.NewEncoder
	// Valid reports whether data is a valid JSON encoding
	Valid = gojson.Valid
)
