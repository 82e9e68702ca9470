// Package token issues the opaque session tokens returned by login.
//
// Tokens are never stored or checked against an issuer; the API only
// requires that clients send something of the right length back.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// Length is the number of hex characters in a token.
const Length = 16

// Generator produces tokens from a random source.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a generator reading from crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorFrom returns a generator reading from r. Tests use it for
// deterministic output.
func NewGeneratorFrom(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// New returns a fresh lowercase hex token of Length characters.
func (g *Generator) New() (string, error) {
	buf := make([]byte, Length/2)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
