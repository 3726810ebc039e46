package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDJB2Hex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "0"},
		{"hello", "hello", "5e918d2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DJB2Hex(tc.input))
		})
	}
}

func TestDJB2BytesHexMatchesDJB2Hex(t *testing.T) {
	assert.Equal(t, DJB2Hex("abc-123"), DJB2BytesHex([]byte("abc-123")))
}

func TestSHA256HexIsDeterministicAndContentSensitive(t *testing.T) {
	a := SHA256Hex([]byte("content a"))
	b := SHA256Hex([]byte("content a"))
	c := SHA256Hex([]byte("content b"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestXXHash64IsDeterministic(t *testing.T) {
	a := XXHash64([]byte("some bytes"))
	b := XXHash64([]byte("some bytes"))
	assert.Equal(t, a, b)
}
