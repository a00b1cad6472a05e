package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaggedRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		code uint32
		body []byte
	}{
		{name: "regular body", code: 42, body: []byte(`{"id":"c1"}`)},
		{name: "empty body", code: 7, body: nil},
		{name: "max code", code: ^uint32(0), body: []byte{0x00, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := EncodeTagged(tt.code, tt.body)

			code, body, err := DecodeTagged(blob)
			require.NoError(t, err)
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.body, body)
		})
	}
}

func TestDecodeTaggedTooShort(t *testing.T) {
	_, _, err := DecodeTagged([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrTaggedTooShort)
}

func TestDecodeTaggedLengthMismatch(t *testing.T) {
	blob := EncodeTagged(1, []byte("abc"))

	_, _, err := DecodeTagged(blob[:len(blob)-1])
	require.ErrorIs(t, err, ErrTaggedLength)
}
