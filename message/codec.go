package message

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"google.golang.org/protobuf/proto"
)

// Codec serializes command payloads for the wire.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// JSONCodec encodes payloads as JSON.
type JSONCodec struct{}

// NewJSONCodec builds the default codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Marshal encodes v as JSON.
func (c *JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the MIME type produced by the codec.
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// ProtoCodec encodes protobuf payloads.
type ProtoCodec struct{}

// NewProtoCodec builds a protobuf codec.
func NewProtoCodec() *ProtoCodec {
	return &ProtoCodec{}
}

// Marshal encodes a proto.Message payload.
func (c *ProtoCodec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("value %T does not implement proto.Message", v)
	}

	return proto.Marshal(msg)
}

// Unmarshal decodes protobuf data into v.
func (c *ProtoCodec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("target %T does not implement proto.Message", v)
	}

	return proto.Unmarshal(data, msg)
}

// ContentType returns the MIME type produced by the codec.
func (c *ProtoCodec) ContentType() string {
	return "application/x-protobuf"
}
