// Package eventsvc implements the optional build-event stream: a small
// gRPC service that ecbuild can publish BuildStarted/TaskFinished/
// BuildFinished events to when -events-addr is set.
//
// No protoc-generated stubs are used: messages are plain JSON-tagged Go
// structs, carried over grpc via a small custom codec registered under
// the "json" subtype — grpc's codec is pluggable precisely for this
// case.
package eventsvc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const codecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
