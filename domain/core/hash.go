package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash is a hex-encoded sha256 digest
type Hash string

func (h Hash) String() string { return string(h) }

func (h Hash) IsEmpty() bool { return h == "" }

func (h Hash) Equals(other Hash) bool { return h == other }

// CanonicalHash digests the JSON encoding of v. Map keys are marshalled in
// sorted order, so equal values hash the same regardless of insertion order.
func CanonicalHash(v interface{}) (Hash, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:])), nil
}
