package engine

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/scrypt"
)

// tokenSalt is the fixed process-wide salt for the key derivation. Changing
// it invalidates every previously issued audit token.
var tokenSalt = []byte("murmur/audit-token/v1")

// Identity is the decoded content of an audit token.
type Identity struct {
	Handle       string
	SubmissionID uint
	CommunityID  string
}

type auditPayload struct {
	UID string `json:"uid"`
	SID uint   `json:"sid"`
	CID string `json:"cid"`
}

// TokenCodec encodes and decodes retraction audit tokens: small encrypted
// records that let a moderator act on the author of an already-deleted
// submission without the author's identity ever being stored in plain form.
//
// The wire format is base64url(nonce || chacha20(json{uid,sid,cid})). There
// is no integrity tag; tampering is only caught by the structural checks on
// the decoded payload, so a token proves possession of the process secret,
// not authenticity of every byte.
type TokenCodec struct {
	key []byte
}

// NewTokenCodec derives the codec key from the configured secret. scrypt is
// deliberately slow to resist offline brute force of the secret; the derived
// key is held for the process lifetime and is safe for concurrent reads.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	key, err := scrypt.Key([]byte(secret), tokenSalt, 1<<15, 8, 1, chacha20.KeySize)
	if err != nil {
		return nil, err
	}
	return &TokenCodec{key: key}, nil
}

// Encode encrypts the (handle, submission, community) triple into a printable
// token with a fresh random nonce.
func (c *TokenCodec) Encode(handle string, submissionID uint, communityID string) (string, error) {
	payload, err := json.Marshal(auditPayload{UID: handle, SID: submissionID, CID: communityID})
	if err != nil {
		return "", err
	}

	nonce := make([]byte, chacha20.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipher, err := chacha20.NewUnauthenticatedCipher(c.key, nonce)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(nonce)+len(payload))
	copy(out, nonce)
	cipher.XORKeyStream(out[len(nonce):], payload)

	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Decode recovers the identity triple from a token. It fails with
// ErrInvalidToken on any malformed input; it never returns a partially
// populated identity.
func (c *TokenCodec) Decode(token string) (*Identity, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if len(raw) < chacha20.NonceSize {
		return nil, ErrInvalidToken
	}

	nonce, ct := raw[:chacha20.NonceSize], raw[chacha20.NonceSize:]
	cipher, err := chacha20.NewUnauthenticatedCipher(c.key, nonce)
	if err != nil {
		return nil, ErrInvalidToken
	}
	plain := make([]byte, len(ct))
	cipher.XORKeyStream(plain, ct)

	var p auditPayload
	if err := json.Unmarshal(plain, &p); err != nil {
		return nil, ErrInvalidToken
	}
	if p.UID == "" || p.SID == 0 || p.CID == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Handle: p.UID, SubmissionID: p.SID, CommunityID: p.CID}, nil
}
