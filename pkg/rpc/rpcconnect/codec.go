// Package rpcconnect binds the roomdraw.v1 services to Connect handlers and
// clients. Messages are plain Go structs encoded as JSON.
package rpcconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec is the JSON codec every handler and client in this package uses.
// It takes the name of Connect's built-in JSON codec so clients send
// application/json bodies that curl and browsers can produce as well.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
