package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/chainkv/onchain-collections/errkind"
)

// OrderedUint64 is an order-preserving numeric encoding: a fixed-width
// big-endian form, where byte-lexicographic order matches numeric order.
// gagliardetto/binary is little-endian by convention and has no ordering
// contract, so this is built directly on stdlib encoding/binary.
type OrderedUint64 struct{}

func (OrderedUint64) Encode(v uint64) ([]byte, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[:], nil
}

func (OrderedUint64) Decode(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errkind.Wrap(errkind.DecodeFailure, fmt.Errorf("ordered uint64 payload must be 8 bytes, got %d", len(b)))
	}
	return binary.BigEndian.Uint64(b), nil
}

// OrderedInt64 is the signed counterpart of OrderedUint64: the sign bit is
// flipped before the fixed-width big-endian encoding, so that negative
// values sort before positive ones in byte-lexicographic order.
type OrderedInt64 struct{}

func (OrderedInt64) Encode(v int64) ([]byte, error) {
	u := uint64(v) ^ (1 << 63)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	return buf[:], nil
}

func (OrderedInt64) Decode(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, errkind.Wrap(errkind.DecodeFailure, fmt.Errorf("ordered int64 payload must be 8 bytes, got %d", len(b)))
	}
	u := binary.BigEndian.Uint64(b) ^ (1 << 63)
	return int64(u), nil
}
