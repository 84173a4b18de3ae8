// Package hasher produces SHA-256 digests used as cache and lookup keys.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of s.
func Hash(s string) string {
	return SumBytes([]byte(s))
}

func SumBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// Set is a bounded set of digests. It forgets everything once full.
// It is not safe for concurrent use.
type Set struct {
	max    int
	hashes map[string]struct{}
}

func NewSet(max int) *Set {
	return &Set{max: max, hashes: make(map[string]struct{}, max)}
}

// Add stores the digest of s.
func (s *Set) Add(v string) {
	if len(s.hashes) >= s.max {
		clear(s.hashes)
	}
	s.hashes[Hash(v)] = struct{}{}
}

// Contains reports whether the digest of v was added.
func (s *Set) Contains(v string) bool {
	_, ok := s.hashes[Hash(v)]
	return ok
}
