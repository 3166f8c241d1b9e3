package authservice

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 64)
}

func TestSessionCodec(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	codec, err := newSessionCodec(testKey())
	require.NoError(t, err)
	codec.now = func() time.Time { return now }

	value, err := codec.seal(sessionPayload{UserID: "156246723", UserName: "Ray", Expires: now.Add(time.Hour).Unix()})
	require.NoError(t, err)
	assert.NotContains(t, value, "Ray", "payload must not be readable")

	p, err := codec.open(value)
	require.NoError(t, err)
	assert.Equal(t, "156246723", p.UserID)
	assert.Equal(t, "Ray", p.UserName)

	t.Run("tampered", func(t *testing.T) {
		b := []byte(value)
		if b[10] == 'A' {
			b[10] = 'B'
		} else {
			b[10] = 'A'
		}
		_, err := codec.open(string(b))
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.open("not base64!")
		assert.ErrorIs(t, err, ErrInvalidSession)

		_, err = codec.open("c2hvcnQ")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := newSessionCodec([]byte(strings.Repeat("k", 32)))
		require.NoError(t, err)
		_, err = other.open(value)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired", func(t *testing.T) {
		codec.now = func() time.Time { return now.Add(2 * time.Hour) }
		t.Cleanup(func() { codec.now = func() time.Time { return now } })

		_, err := codec.open(value)
		assert.ErrorIs(t, err, ErrExpiredSession)
	})
}

func TestSessionCodecShortKey(t *testing.T) {
	_, err := newSessionCodec([]byte("too short"))
	assert.ErrorIs(t, err, ErrShortKey)
}
