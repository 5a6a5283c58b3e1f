// Package session persists an auth session across requests as a JSON-encoded
// cookie payload. Payloads are schema-checked on every request; anything
// malformed, incomplete or issued for a different client is discarded and a
// fresh anonymous session takes its place.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
)

// DefaultCookieName is the cookie the payload travels in.
const DefaultCookieName = "headless-session"

// Tokens carries the platform tokens for one session. Anonymous sessions
// have empty tokens.
type Tokens struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}

// Payload is the cookie body.
type Payload struct {
	ClientID  string `json:"clientId"`
	VisitorID string `json:"visitorId"`
	Tokens    Tokens `json:"tokens"`
}

// Anonymous reports whether the session carries no tokens.
func (p Payload) Anonymous() bool {
	return p.Tokens.Access == "" && p.Tokens.Refresh == ""
}

// Codec encodes and decodes payloads for one client ID.
type Codec struct {
	clientID   string
	cookieName string
	newID      func() string
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithCookieName overrides the cookie name.
func WithCookieName(name string) CodecOption {
	return func(c *Codec) {
		c.cookieName = name
	}
}

// WithIDGenerator overrides visitor ID generation, for deterministic tests.
func WithIDGenerator(fn func() string) CodecOption {
	return func(c *Codec) {
		c.newID = fn
	}
}

// NewCodec creates a codec bound to clientID.
func NewCodec(clientID string, opts ...CodecOption) *Codec {
	c := &Codec{
		clientID:   clientID,
		cookieName: DefaultCookieName,
		newID:      randomID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CookieName returns the cookie the codec reads and writes.
func (c *Codec) CookieName() string {
	return c.cookieName
}

// Encode serializes a payload into a cookie value.
func (c *Codec) Encode(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode parses a cookie value. ok is false when the payload is discarded:
// undecodable, schema-invalid, or carrying a foreign client ID. Callers fall
// back to Anonymous.
func (c *Codec) Decode(raw string) (Payload, bool) {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Payload{}, false
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, false
	}
	if !c.valid(p) {
		return Payload{}, false
	}
	return p, true
}

func (c *Codec) valid(p Payload) bool {
	if p.ClientID == "" || p.VisitorID == "" {
		return false
	}
	return p.ClientID == c.clientID
}

// NewAnonymous establishes a fresh anonymous session for this client.
func (c *Codec) NewAnonymous() Payload {
	return Payload{
		ClientID:  c.clientID,
		VisitorID: c.newID(),
	}
}

func randomID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in real trouble.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
