// Package meta implements the Metadata Header every collection keeps at
// prefix||META_SEP: length, kind, a mutation-generation counter, and a
// codec-version tag.
package meta

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/chainkv/onchain-collections/errkind"
	"github.com/chainkv/onchain-collections/storage"
)

// Kind tags which collection state machine owns a prefix. Immutable after
// first creation under that prefix.
type Kind uint8

const (
	_ Kind = iota
	KindSequence
	KindLookupMap
	KindLookupSet
	KindIterableMap
	KindIterableSet
	KindOrderedMap
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "Sequence"
	case KindLookupMap:
		return "LookupMap"
	case KindLookupSet:
		return "LookupSet"
	case KindIterableMap:
		return "IterableMap"
	case KindIterableSet:
		return "IterableSet"
	case KindOrderedMap:
		return "OrderedMap"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// CurrentCodecVersion is stamped into every freshly created header.
const CurrentCodecVersion uint16 = 1

// Header is the fixed record every collection keeps at prefix||META_SEP.
type Header struct {
	Length       uint64
	Kind         Kind
	Generation   uint64
	CodecVersion uint16

	// ReverseIndex records whether an Iterable Map instance was created with
	// the reverse-index removal strategy. Meaningless for other kinds.
	ReverseIndex bool
}

// Load reads the header at prefix, creating an implicit empty one (not yet
// persisted) if none exists. A stored Kind that disagrees with wantKind is
// fatal.
func Load(a *storage.Adapter, prefix []byte, wantKind Kind) (*Header, error) {
	h, _, err := LoadExists(a, prefix, wantKind)
	return h, err
}

// LoadExists is Load plus whether a header was actually found in storage,
// for collections (Iterable Map's reverse-index choice) that must pin a
// construction-time decision the first time a prefix is ever touched and
// enforce it thereafter.
func LoadExists(a *storage.Adapter, prefix []byte, wantKind Kind) (*Header, bool, error) {
	key := storage.MetaKey(prefix)
	raw, ok, err := a.Read(key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Header{Kind: wantKind, CodecVersion: CurrentCodecVersion}, false, nil
	}
	h, err := decodeHeader(raw)
	if err != nil {
		return nil, false, errkind.WrapKey(errkind.DecodeFailure, key, err)
	}
	if h.Kind != wantKind {
		return nil, false, errkind.WrapKey(errkind.KindMismatch, prefix,
			fmt.Errorf("prefix holds a %s, wanted %s", h.Kind, wantKind))
	}
	return h, true, nil
}

// Save persists h at prefix.
func (h *Header) Save(a *storage.Adapter, prefix []byte) error {
	key := storage.MetaKey(prefix)
	buf, err := encodeHeader(h)
	if err != nil {
		return errkind.WrapKey(errkind.EncodeFailure, key, err)
	}
	_, err = a.Write(key, buf)
	return err
}

// Bump increments the generation counter, invalidating any iterator created
// before this call.
func (h *Header) Bump() {
	h.Generation++
}

func encodeHeader(h *Header) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteUint64(h.Length, bin.BE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(uint8(h.Kind)); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(h.Generation, bin.BE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint16(h.CodecVersion, bin.BE); err != nil {
		return nil, err
	}
	reverseIndexByte := uint8(0)
	if h.ReverseIndex {
		reverseIndexByte = 1
	}
	if err := enc.WriteUint8(reverseIndexByte); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeHeader(b []byte) (*Header, error) {
	dec := bin.NewBorshDecoder(b)
	length, err := dec.ReadUint64(bin.BE)
	if err != nil {
		return nil, err
	}
	kindByte, err := dec.ReadByte()
	if err != nil {
		return nil, err
	}
	generation, err := dec.ReadUint64(bin.BE)
	if err != nil {
		return nil, err
	}
	codecVersion, err := dec.ReadUint16(bin.BE)
	if err != nil {
		return nil, err
	}
	reverseIndexByte, err := dec.ReadByte()
	if err != nil {
		return nil, err
	}
	if codecVersion > CurrentCodecVersion {
		return nil, fmt.Errorf("header codec version %d newer than supported %d", codecVersion, CurrentCodecVersion)
	}
	return &Header{
		Length:       length,
		Kind:         Kind(kindByte),
		Generation:   generation,
		CodecVersion: codecVersion,
		ReverseIndex: reverseIndexByte != 0,
	}, nil
}
