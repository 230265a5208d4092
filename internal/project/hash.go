package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш
type Digest [32]byte

// Combine hashes content followed by every part, in order.
func Combine(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
		// разделитель, чтобы "ab"+"c" не совпало с "a"+"bc"
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Sum hashes data.
func Sum(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}
