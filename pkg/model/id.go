// Package model defines HelixDB's core data types: the 128-bit identity
// type shared by nodes, edges and vectors, the tagged Value union stored
// in property maps, the TraversalValue union passed between pipeline
// adapters, and the entities themselves.
//
// Grounded on pkg/storage/types.go's Node/Edge structs (teacher), generalized
// from string-typed Neo4j-style ids to the u128 identity spec.md §3 mandates.
package model

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID is a 128-bit unsigned identifier shared by nodes, edges, and vectors.
// Backed by a UUIDv4 by default; callers may also supply their own via
// IDFromUint64/IDFromBytes. IDs are never reused once assigned.
type ID [16]byte

// NilID is the zero-valued ID, used as a sentinel for "no entry" (e.g. an
// empty HNSW entry point table).
var NilID ID

// NewID generates a fresh random (UUIDv4) identifier.
func NewID() ID {
	return ID(uuid.New())
}

// IDFromBytes interprets b (must be 16 bytes) as an ID.
func IDFromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != 16 {
		return id, fmt.Errorf("model: id must be 16 bytes, got %d", len(b))
	}
	copy(id[:], b)
	return id, nil
}

// IDFromUint64 builds an ID from a plain 64-bit integer, left-padded with
// zeroes into the high 8 bytes. Useful for deterministic ids in tests and
// for user-supplied small identifiers.
func IDFromUint64(v uint64) ID {
	var id ID
	binary.BigEndian.PutUint64(id[8:], v)
	return id
}

// ParseID parses a UUID-formatted or plain hex string into an ID.
func ParseID(s string) (ID, error) {
	if u, err := uuid.Parse(s); err == nil {
		return ID(u), nil
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 16 {
		return ID{}, fmt.Errorf("model: invalid id %q", s)
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// String renders the ID in canonical UUID form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// MarshalJSON renders the ID as its canonical UUID string, so HTTP
// responses (node-details, query results) carry ids the same way
// ParseID accepts them back in.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts either a UUID or plain-hex string, mirroring
// ParseID.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Bytes returns the big-endian 16-byte encoding of id. This is also the
// byte sequence used as (part of) every KV key that addresses this
// entity, so that a prefix scan over the nodes/edges table yields
// big-endian id order as spec.md §4.3 requires for source adapters.
func (id ID) Bytes() []byte {
	b := make([]byte, 16)
	copy(b, id[:])
	return b
}

// IsNil reports whether id is the zero value.
func (id ID) IsNil() bool { return id == NilID }

// Compare returns -1, 0, or 1 comparing id to other in big-endian byte
// order, matching KV key ordering.
func (id ID) Compare(other ID) int {
	for i := range id {
		if id[i] != other[i] {
			if id[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports id < other in the same order used by KV key comparison.
func (id ID) Less(other ID) bool { return id.Compare(other) < 0 }
