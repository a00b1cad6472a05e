package message

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Tagged blob layout: 4-byte big-endian type code, 4-byte big-endian body
// length, body bytes. Self-delimiting so the consuming side can split the
// type tag from the payload without an external schema.
const taggedHeaderSize = 8

var (
	// ErrTaggedTooShort indicates a blob shorter than the fixed header.
	ErrTaggedTooShort = errors.New("message: tagged blob too short")
	// ErrTaggedLength indicates a mismatch between header length and body.
	ErrTaggedLength = errors.New("message: tagged blob length mismatch")
)

// EncodeTagged packs a type code and serialized body into one blob.
func EncodeTagged(code uint32, body []byte) []byte {
	buf := make([]byte, taggedHeaderSize+len(body))
	binary.BigEndian.PutUint32(buf[0:4], code)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(body)))
	copy(buf[taggedHeaderSize:], body)
	return buf
}

// DecodeTagged splits a blob produced by EncodeTagged back into the type
// code and the body bytes.
func DecodeTagged(blob []byte) (uint32, []byte, error) {
	if len(blob) < taggedHeaderSize {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrTaggedTooShort, len(blob))
	}

	code := binary.BigEndian.Uint32(blob[0:4])
	size := binary.BigEndian.Uint32(blob[4:8])

	if uint32(len(blob)-taggedHeaderSize) != size {
		return 0, nil, fmt.Errorf("%w: header says %d, got %d", ErrTaggedLength, size, len(blob)-taggedHeaderSize)
	}

	return code, blob[taggedHeaderSize:], nil
}
