// Package signature implements the gateway's HMAC-SHA256 callback signing
// scheme. Callbacks arrive as flat key/value parameters carrying a
// `signature` field; the gateway signs a canonical percent-encoded
// serialization of every other field with the merchant's response key.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"sort"
	"strings"
)

const (
	signatureField = "signature"
	algorithmField = "signature_algorithm"
)

// Verify recomputes the signature over params and compares it in constant
// time against the supplied signature field. Missing signature, empty
// payload or any mismatch yields false; malformed input never panics.
func Verify(params map[string]string, key []byte) bool {
	provided, ok := params[signatureField]
	if !ok || provided == "" {
		return false
	}
	expected, ok := Sign(params, key)
	if !ok {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(provided))
}

// Sign computes the base64 HMAC-SHA256 signature over the canonical
// serialization of params, excluding the signature fields themselves.
// Returns ok=false when nothing remains to sign.
func Sign(params map[string]string, key []byte) (string, bool) {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == signatureField || k == algorithmField {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, encodeComponent(k)+"="+encodeComponent(params[k]))
	}
	canonical := encodeComponent(strings.Join(pairs, "&"))

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(canonical))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), true
}

// encodeComponent mirrors JavaScript's encodeURIComponent, which is what the
// gateway signs with: everything except unreserved marks is percent-encoded,
// space as %20.
func encodeComponent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexUpper[c>>4])
		b.WriteByte(hexUpper[c&0xf])
	}
	return b.String()
}

const hexUpper = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
