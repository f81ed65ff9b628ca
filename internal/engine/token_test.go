package engine

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-secret")
	require.NoError(t, err)
	return codec
}

func TestTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode("user-1234", 42, "community-1")
	require.NoError(t, err)

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1234", id.Handle)
	assert.Equal(t, uint(42), id.SubmissionID)
	assert.Equal(t, "community-1", id.CommunityID)
}

func TestTokenNoncePerCall(t *testing.T) {
	codec := newTestCodec(t)

	a, err := codec.Encode("user-1234", 42, "community-1")
	require.NoError(t, err)
	b, err := codec.Encode("user-1234", 42, "community-1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecodeGarbage(t *testing.T) {
	codec := newTestCodec(t)

	cases := map[string]string{
		"empty":          "",
		"not base64":     "!!!not-a-token!!!",
		"short":          base64.RawURLEncoding.EncodeToString([]byte("ab")),
		"nonce only":     base64.RawURLEncoding.EncodeToString(make([]byte, 12)),
		"random payload": randomToken(t, 64),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			id, err := codec.Decode(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, id)
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode("user-1234", 42, "community-1")
	require.NoError(t, err)

	id, err := codec.Decode(token[:len(token)/2])
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, id)
}

func TestDecodeWrongSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewTokenCodec("another-secret")
	require.NoError(t, err)

	token, err := codec.Encode("user-1234", 42, "community-1")
	require.NoError(t, err)

	id, err := other.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, id)
}

func randomToken(t *testing.T, n int) string {
	t.Helper()
	raw := make([]byte, n)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(raw)
}
